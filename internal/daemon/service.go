// Package daemon serves projections over HTTP and streams run events.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/store"
)

// Config controls the service runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int

	// Defaults used when a request omits its own inputs.
	History     *model.HistoricalRecord
	Assumptions model.AssumptionSet
	Snapshot    *model.Snapshot
	Options     projection.Options
	Tolerance   decimal.Decimal

	Ledger *store.Ledger
	Logger *log.Logger
}

// Event is emitted whenever a run is recorded.
type Event struct {
	ID        int64      `json:"id"`
	Type      string     `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	Run       *store.Run `json:"run,omitempty"`
}

// Event types.
const (
	EventHello     = "hello"
	EventRun       = "run"
	EventRunFailed = "run_failed"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Addr            string    `json:"addr"`
	RowIndexing     string    `json:"row_indexing"`
	HistoryYears    []int     `json:"history_years,omitempty"`
	RunCount        int       `json:"run_count"`
	FailedRuns      int       `json:"failed_runs"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the HTTP API.
type Service struct {
	cfg Config
	log *log.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	runCount    int
	failedRuns  int
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service with the provided config.
func New(cfg Config) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Tolerance.IsZero() {
		cfg.Tolerance = projection.DefaultTolerance
	}
	logger := cfg.Logger
	if logger == nil {
		logger = &log.DefaultLogger
	}

	return &Service{
		cfg:       cfg,
		log:       logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the routed API.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/income", s.handleProjection(projection.StatementIncome))
		r.Post("/balance", s.handleProjection(projection.StatementBalance))
		r.Post("/static", s.handleStatic)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})
	return r
}

// Run serves the API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info().Str("addr", s.cfg.Addr).Msg("serving projections")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int64("elapsed_ms", time.Since(start).Milliseconds()).
			Msg("request")
	})
}

// record stores a run in the ledger, when one is configured, and publishes
// it as an event.
func (s *Service) record(run store.Run) store.Run {
	if s.cfg.Ledger != nil {
		stored, err := s.cfg.Ledger.Record(run)
		if err != nil {
			s.log.Error().Err(err).Str("statement", run.Statement).Msg("recording run")
		} else {
			run = stored
		}
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	typ := EventRun
	if run.Failed() {
		typ = EventRunFailed
	}
	summary := run
	summary.Table, summary.Static, summary.Assumptions = nil, nil, nil
	s.publishEvent(Event{Type: typ, Timestamp: run.CreatedAt, Run: &summary})
	return run
}

// publishEvent assigns ev the next ID and appends it to the ring under the
// same lock, so the ring is always in ID order.
func (s *Service) publishEvent(ev Event) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Run != nil {
		s.runCount++
		if ev.Run.Failed() {
			s.failedRuns++
		}
	}
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:       s.startedAt,
		Addr:            s.cfg.Addr,
		RowIndexing:     string(s.cfg.Options.RowIndexing),
		RunCount:        s.runCount,
		FailedRuns:      s.failedRuns,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
	if st.RowIndexing == "" {
		st.RowIndexing = string(model.RowPosition)
	}
	if s.cfg.History != nil {
		st.HistoryYears = s.cfg.History.Years()
	}
	return st
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: EventHello, Timestamp: time.Now()})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
