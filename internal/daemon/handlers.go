package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/store"
)

const maxBody = 1 << 20

// HistoryPayload is the wire form of a historical record.
type HistoryPayload struct {
	Years   []int                `json:"years"`
	Columns map[string][]float64 `json:"columns"`
}

// Record converts p, adding columns in name order.
func (p HistoryPayload) Record() (*model.HistoricalRecord, error) {
	h := model.NewHistoricalRecord(p.Years)
	names := make([]string, 0, len(p.Columns))
	for name := range p.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.AddColumn(name, p.Columns[name]); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// ProjectionRequest is the body of POST /v1/income and /v1/balance.
type ProjectionRequest struct {
	Assumptions *model.AssumptionSet `json:"assumptions,omitempty"`
	History     *HistoryPayload      `json:"history,omitempty"`
	RowIndexing string               `json:"row_indexing,omitempty"`
}

// ProjectionResponse carries a projected statement.
type ProjectionResponse struct {
	RunID      string                 `json:"run_id,omitempty"`
	Table      *model.Table           `json:"table"`
	Imbalances []projection.Imbalance `json:"imbalances,omitempty"`
}

// StaticRequest is the body of POST /v1/static.
type StaticRequest struct {
	Snapshot *model.Snapshot `json:"snapshot,omitempty"`
}

// StaticTotals are the derived static balance sheet totals.
type StaticTotals struct {
	TotalCurrentAssets        float64 `json:"total_current_assets"`
	NetPPE                    float64 `json:"net_ppe"`
	TotalAssets               float64 `json:"total_assets"`
	TotalLiabilities          float64 `json:"total_liabilities"`
	TotalEquity               float64 `json:"total_equity"`
	TotalLiabilitiesAndEquity float64 `json:"total_liabilities_and_equity"`
}

// StaticResponse carries a static balance sheet.
type StaticResponse struct {
	RunID  string           `json:"run_id,omitempty"`
	Lines  []model.LineItem `json:"lines"`
	Totals StaticTotals     `json:"totals"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

const kindBadRequest = "bad_request"

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: kindBadRequest})
}

// writeError maps core errors to 422 and anything else to 500.
func writeError(w http.ResponseWriter, err error) {
	kind := model.ErrorKind(err)
	status := http.StatusUnprocessableEntity
	if kind == "internal" {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind, Field: model.ErrorField(err)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Service) handleProjection(statement string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProjectionRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}

		opts := s.cfg.Options
		if req.RowIndexing != "" {
			mode, err := model.ParseRowIndexing(req.RowIndexing)
			if err != nil {
				writeBadRequest(w, err)
				return
			}
			opts.RowIndexing = mode
		}

		assumptions := s.cfg.Assumptions
		if req.Assumptions != nil {
			assumptions = *req.Assumptions
		}

		history := s.cfg.History
		if req.History != nil {
			h, err := req.History.Record()
			if err != nil {
				writeBadRequest(w, err)
				return
			}
			history = h
		}
		if history == nil {
			writeError(w, &model.FieldError{Field: "history", Err: model.ErrMissingField, Detail: "no history in request and none configured"})
			return
		}

		run := store.Run{
			Statement:   statement,
			Source:      store.SourceHTTP,
			RowIndexing: string(opts.RowIndexing),
			Assumptions: assumptions.Values(),
		}

		p, _ := projection.New(statement, assumptions, history, opts)
		table, err := p.CalculateAllLineItems()
		if err != nil {
			run.Error, run.ErrorKind = err.Error(), model.ErrorKind(err)
			s.record(run)
			s.log.Warn().Str("statement", statement).Str("kind", run.ErrorKind).Msg(err.Error())
			writeError(w, err)
			return
		}

		resp := ProjectionResponse{Table: table}
		if statement == projection.StatementBalance {
			resp.Imbalances, err = projection.CheckBalance(table, s.cfg.Tolerance)
			if err != nil {
				writeError(w, err)
				return
			}
			run.ImbalancedYears = len(resp.Imbalances)
		}

		run.Table = table
		resp.RunID = s.record(run).ID
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Service) handleStatic(w http.ResponseWriter, r *http.Request) {
	var req StaticRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	snap := req.Snapshot
	if snap == nil {
		snap = s.cfg.Snapshot
	}
	if snap == nil {
		writeError(w, &model.FieldError{Field: "snapshot", Err: model.ErrMissingField, Detail: "no snapshot in request and none configured"})
		return
	}

	run := store.Run{Statement: projection.StatementStatic, Source: store.SourceHTTP}
	b, err := projection.NewStaticBalanceSheet(*snap)
	if err != nil {
		run.Error, run.ErrorKind = err.Error(), model.ErrorKind(err)
		s.record(run)
		writeError(w, err)
		return
	}

	run.Static = b.Lines()
	resp := StaticResponse{
		Lines: run.Static,
		Totals: StaticTotals{
			TotalCurrentAssets:        b.TotalCurrentAssets(),
			NetPPE:                    b.NetPPE(),
			TotalAssets:               b.TotalAssets(),
			TotalLiabilities:          b.TotalLiabilities(),
			TotalEquity:               b.TotalEquity(),
			TotalLiabilitiesAndEquity: b.TotalLiabilitiesAndEquity(),
		},
	}
	resp.RunID = s.record(run).ID
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Ledger == nil {
		writeJSON(w, http.StatusOK, []store.Run{})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}

	runs, err := s.cfg.Ledger.List(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Service) handleRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.cfg.Ledger == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "run ledger disabled", Kind: "not_found"})
		return
	}
	run, err := s.cfg.Ledger.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: "not_found"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
