package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/ternary-kernel/internal/alert"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id           TEXT PRIMARY KEY,
	operation    TEXT NOT NULL,
	category     TEXT NOT NULL,
	inputs_json  TEXT,
	result       INTEGER NOT NULL CHECK (result IN (0, 1, 2)),
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS evaluations_created_at ON evaluations(created_at);

CREATE TABLE IF NOT EXISTS alerts (
	id           TEXT PRIMARY KEY,
	severity     TEXT NOT NULL,
	message      TEXT NOT NULL,
	category     TEXT,
	psi_count    INTEGER NOT NULL,
	created_at   TEXT NOT NULL
);
`

// timeFormat is fixed-width so created_at sorts lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// #endregion schema

// #region store-struct
// Store is an append-only SQLite log of kernel evaluations and alerts.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion close

// #region record
// RecordEvaluation appends e. An empty ID gets a fresh UUID and a zero
// CreatedAt becomes now.
func (s *Store) RecordEvaluation(ctx context.Context, e Evaluation) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, operation, category, inputs_json, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Operation, e.Category, nullIfEmpty(e.InputsJSON), int(e.Result),
		e.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("record evaluation: %w", err)
	}
	return nil
}

// RecordAlert appends a.
func (s *Store) RecordAlert(ctx context.Context, a alert.Alert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (id, severity, message, category, psi_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Severity), a.Message, nullIfEmpty(a.Category), a.Count,
		a.Timestamp.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}

// #endregion record

// #region queries
// ListEvaluations returns the most recent evaluations, newest first.
func (s *Store) ListEvaluations(ctx context.Context, limit int) ([]Evaluation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, category, inputs_json, result, created_at
		 FROM evaluations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		var e Evaluation
		var inputs sql.NullString
		var result int
		var createdStr string
		if err := rows.Scan(&e.ID, &e.Operation, &e.Category, &inputs, &result, &createdStr); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		if inputs.Valid {
			e.InputsJSON = inputs.String
		}
		e.Result = uint8(result)
		e.CreatedAt, _ = time.Parse(timeFormat, createdStr)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByResult returns the number of evaluations per result code.
func (s *Store) CountByResult(ctx context.Context) (map[uint8]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT result, COUNT(*) FROM evaluations GROUP BY result`)
	if err != nil {
		return nil, fmt.Errorf("count evaluations: %w", err)
	}
	defer rows.Close()

	counts := make(map[uint8]int)
	for rows.Next() {
		var result, n int
		if err := rows.Scan(&result, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[uint8(result)] = n
	}
	return counts, rows.Err()
}

// ListAlerts returns the most recent alerts, newest first.
func (s *Store) ListAlerts(ctx context.Context, limit int) ([]AlertRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, severity, message, category, psi_count, created_at
		 FROM alerts ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []AlertRow
	for rows.Next() {
		var a AlertRow
		var category sql.NullString
		var createdStr string
		if err := rows.Scan(&a.ID, &a.Severity, &a.Message, &category, &a.Count, &createdStr); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if category.Valid {
			a.Category = category.String
		}
		a.CreatedAt, _ = time.Parse(timeFormat, createdStr)
		out = append(out, a)
	}
	return out, rows.Err()
}

// #endregion queries

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
