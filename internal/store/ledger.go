// Package store provides a SQLite-backed ledger of projection runs.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
)

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Run sources.
const (
	SourceCLI   = "cli"
	SourceHTTP  = "http"
	SourceTUI   = "tui"
	SourceBatch = "batch"
)

// Run is one recorded projection: its inputs summary and either the
// resulting statement or the error that stopped it.
type Run struct {
	ID              string           `json:"id"`
	Statement       string           `json:"statement"`
	Source          string           `json:"source"`
	CreatedAt       time.Time        `json:"created_at"`
	RowIndexing     string           `json:"row_indexing,omitempty"`
	Assumptions     map[string]any   `json:"assumptions,omitempty"`
	Table           *model.Table     `json:"table,omitempty"`
	Static          []model.LineItem `json:"static,omitempty"`
	ImbalancedYears int              `json:"imbalanced_years"`
	Error           string           `json:"error,omitempty"`
	ErrorKind       string           `json:"error_kind,omitempty"`
}

// Failed reports whether the run ended in an error.
func (r Run) Failed() bool { return r.Error != "" }

// timeFormat sorts lexically in chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Ledger records runs in SQLite.
type Ledger struct {
	db *sql.DB
}

// Open creates a private in-memory ledger that lives as long as the
// Ledger. Runs are never written to disk.
func Open() (*Ledger, error) {
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(on)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}
	// Every pooled connection must see the same shared-cache database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores r, assigning an ID and timestamp when missing. It returns
// the stored run.
func (l *Ledger) Record(r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	var assumptions []byte
	if r.Assumptions != nil {
		var err error
		if assumptions, err = json.Marshal(r.Assumptions); err != nil {
			return Run{}, fmt.Errorf("encoding assumptions: %w", err)
		}
	}
	firstYear := 0
	if r.Table != nil {
		firstYear = r.Table.Years[0]
	}

	tx, err := l.db.Begin()
	if err != nil {
		return Run{}, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO runs
		(run_id, statement, source, created_at, row_indexing, first_year,
		 assumptions_json, imbalanced_years, error, error_kind)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Statement, r.Source, r.CreatedAt.UTC().Format(timeFormat), r.RowIndexing, firstYear,
		string(assumptions), r.ImbalancedYears, r.Error, r.ErrorKind,
	)
	if err != nil {
		return Run{}, err
	}

	insertLine := func(pos int, section, name, strategy string, total bool, values any) error {
		data, err := json.Marshal(values)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT INTO run_lines
			(run_id, position, section, name, strategy, total, values_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, pos, section, name, strategy, boolInt(total), string(data))
		return err
	}

	if r.Table != nil {
		for i, c := range r.Table.Columns {
			if err := insertLine(i, "", c.Name, string(c.Strategy), c.Strategy == model.StrategyAggregate, c.Values); err != nil {
				return Run{}, err
			}
		}
	}
	for i, li := range r.Static {
		if err := insertLine(i, li.Section, li.Name, "", li.Total, li.Amount); err != nil {
			return Run{}, err
		}
	}

	return r, tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const runColumns = `run_id, statement, source, created_at, row_indexing, first_year,
	assumptions_json, imbalanced_years, error, error_kind`

// List returns the most recent runs first, without their line items.
// A limit of zero or less returns every run.
func (l *Ledger) List(limit int) ([]Run, error) {
	q := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, _, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, int, error) {
	var r Run
	var created string
	var rowIndexing, assumptions, errText, errKind sql.NullString
	var firstYear sql.NullInt64

	err := s.Scan(&r.ID, &r.Statement, &r.Source, &created, &rowIndexing, &firstYear,
		&assumptions, &r.ImbalancedYears, &errText, &errKind)
	if err != nil {
		return Run{}, 0, err
	}
	r.CreatedAt, _ = time.Parse(timeFormat, created)
	r.RowIndexing = rowIndexing.String
	r.Error = errText.String
	r.ErrorKind = errKind.String
	if assumptions.Valid && assumptions.String != "" {
		if err := json.Unmarshal([]byte(assumptions.String), &r.Assumptions); err != nil {
			return Run{}, 0, fmt.Errorf("decoding assumptions for %s: %w", r.ID, err)
		}
	}
	return r, int(firstYear.Int64), nil
}

// Get returns a run with its statement rebuilt from the stored lines.
func (l *Ledger) Get(id string) (Run, error) {
	r, firstYear, err := scanRun(l.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := l.db.Query(`SELECT section, name, strategy, total, values_json
		FROM run_lines WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return Run{}, err
	}
	defer func() { _ = rows.Close() }()

	isTable := r.Statement != projection.StatementStatic && r.Error == ""
	if isTable {
		r.Table = &model.Table{Statement: r.Statement, Years: model.ProjectionYears(firstYear - 1)}
	}
	for rows.Next() {
		var section, strategy sql.NullString
		var name, data string
		var total int
		if err := rows.Scan(&section, &name, &strategy, &total, &data); err != nil {
			return Run{}, err
		}
		if isTable {
			c := model.Column{Name: name, Strategy: model.Strategy(strategy.String)}
			if err := json.Unmarshal([]byte(data), &c.Values); err != nil {
				return Run{}, fmt.Errorf("decoding %q: %w", name, err)
			}
			r.Table.Columns = append(r.Table.Columns, c)
			continue
		}
		li := model.LineItem{Section: section.String, Name: name, Total: total != 0}
		if err := json.Unmarshal([]byte(data), &li.Amount); err != nil {
			return Run{}, fmt.Errorf("decoding %q: %w", name, err)
		}
		r.Static = append(r.Static, li)
	}
	return r, rows.Err()
}

// Count returns the number of recorded runs.
func (l *Ledger) Count() (int, error) {
	var count int
	err := l.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// Delete removes a run and its lines.
func (l *Ledger) Delete(id string) error {
	_, err := l.db.Exec("DELETE FROM runs WHERE run_id = ?", id)
	return err
}
