package audit

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/reblol/Pulsepanion/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	mu      sync.Mutex // guards entropy
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s, err := NewStoreFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.path = dbPath
	return s, nil
}

// NewStoreFromDB wraps an open database and applies the schema.
func NewStoreFromDB(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Path returns the database file path, empty for wrapped connections.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// Fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id              TEXT PRIMARY KEY,
		created_at      TEXT NOT NULL,
		start_date      TEXT NOT NULL,
		end_date        TEXT NOT NULL,
		date_field      TEXT NOT NULL,
		source          TEXT,
		total_rows      INTEGER NOT NULL DEFAULT 0,
		matched_rows    INTEGER NOT NULL DEFAULT 0,
		sampled_rows    INTEGER NOT NULL DEFAULT 0,
		redacted_values INTEGER NOT NULL DEFAULT 0,
		provider        TEXT,
		model           TEXT,
		status          TEXT NOT NULL,
		error           TEXT,
		duration_ms     INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Append(ctx context.Context, run *model.Run) error {
	if !model.ValidRunStatuses[run.Status] {
		return fmt.Errorf("invalid run status %q", run.Status)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.ID == "" {
		run.ID = s.newID(run.CreatedAt)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, start_date, end_date, date_field, source, total_rows, matched_rows,
		                   sampled_rows, redacted_values, provider, model, status, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.StartDate, run.EndDate, run.DateField,
		nullable(run.Source), run.TotalRows, run.MatchedRows, run.SampledRows, run.RedactedValues,
		nullable(run.Provider), nullable(run.Model), run.Status, nullable(run.Error), run.DurationMS)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Run, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	if p.Status != "" {
		where = append(where, "status = ?")
		args = append(args, p.Status)
	}
	args = append(args, limit)

	return s.queryRuns(ctx, `SELECT `+runColumns+` FROM runs WHERE `+strings.Join(where, " AND ")+
		` ORDER BY created_at DESC, id DESC LIMIT ?`, args...)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const runColumns = `id, created_at, start_date, end_date, date_field, source, total_rows, matched_rows,
	sampled_rows, redacted_values, provider, model, status, error, duration_ms`

func (s *SQLiteStore) queryRuns(ctx context.Context, query string, args ...interface{}) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (model.Run, error) {
	var r model.Run
	var source, provider, modelName, errText sql.NullString
	var createdAt string

	err := row.Scan(
		&r.ID, &createdAt, &r.StartDate, &r.EndDate, &r.DateField, &source,
		&r.TotalRows, &r.MatchedRows, &r.SampledRows, &r.RedactedValues,
		&provider, &modelName, &r.Status, &errText, &r.DurationMS,
	)
	if err != nil {
		return r, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	r.Source = source.String
	r.Provider = provider.String
	r.Model = modelName.String
	r.Error = errText.String
	return r, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
