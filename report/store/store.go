// Package store keeps a history of analysis reports in a SQLite database.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/logging"
	"github.com/viant/jarhc/report"
	_ "modernc.org/sqlite"
)

// timeLayout keeps created_at lexicographically sortable
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry describes a stored report
type Entry struct {
	ID        string
	Title     string
	Label     string
	Jars      int
	Classes   int
	CreatedAt time.Time
}

// Store persists reports and diffs
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// Open opens or creates the report database at dbPath
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	logger = logging.OrDiscard(logger)
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open report store: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	store := &Store{conn: conn, logger: logger, dbPath: dbPath}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize report schema: %w", err)
	}
	logger.Debug("opened report store", "path", dbPath)
	return store, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			jars INTEGER NOT NULL DEFAULT 0,
			classes INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			body BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reports_label ON reports(label, created_at DESC);

		CREATE TABLE IF NOT EXISTS diffs (
			old_id TEXT NOT NULL,
			new_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			body BLOB NOT NULL,
			PRIMARY KEY (old_id, new_id)
		);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Save stores a report, replacing a report with the same ID
func (s *Store) Save(ctx context.Context, r *report.Report) error {
	body := &bytes.Buffer{}
	if err := report.Encode(body, r, report.JSON); err != nil {
		return fmt.Errorf("failed to encode report %v: %w", r.ID, err)
	}
	createdAt := r.Summary.GeneratedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := `
		INSERT OR REPLACE INTO reports (id, title, label, jars, classes, created_at, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.conn.ExecContext(ctx, query, r.ID, r.Title, r.Label, r.Summary.Jars, r.Summary.Classes,
		createdAt.UTC().Format(timeLayout), body.Bytes())
	if err != nil {
		return fmt.Errorf("failed to save report %v: %w", r.ID, err)
	}
	s.logger.Debug("saved report", "id", r.ID, "label", r.Label)
	return nil
}

// Write implements report.Sink
func (s *Store) Write(ctx context.Context, r *report.Report) error {
	if err := s.Save(ctx, r); err != nil {
		return jerrors.Wrap(jerrors.SinkFailure, err, "report not stored")
	}
	return nil
}

// WriteDiff implements report.Sink
func (s *Store) WriteDiff(ctx context.Context, diff *report.DiffReport) error {
	body := &bytes.Buffer{}
	if err := report.Encode(body, diff, report.JSON); err != nil {
		return jerrors.Wrap(jerrors.SinkFailure, err, "diff not encoded")
	}
	query := `INSERT OR REPLACE INTO diffs (old_id, new_id, created_at, body) VALUES (?, ?, ?, ?)`
	if _, err := s.conn.ExecContext(ctx, query, diff.OldID, diff.NewID, time.Now().UTC().Format(timeLayout), body.Bytes()); err != nil {
		return jerrors.Wrap(jerrors.SinkFailure, err, "diff not stored")
	}
	return nil
}

// Load returns the report with the given ID, or nil when absent
func (s *Store) Load(ctx context.Context, id string) (*report.Report, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, id)
	return s.decode(row, id)
}

// Latest returns the most recent report with the given label, or nil when none exists
func (s *Store) Latest(ctx context.Context, label string) (*report.Report, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT body FROM reports WHERE label = ? ORDER BY created_at DESC LIMIT 1`, label)
	return s.decode(row, label)
}

// LoadDiff returns a stored diff, or nil when absent
func (s *Store) LoadDiff(ctx context.Context, oldID, newID string) (*report.DiffReport, error) {
	var body []byte
	err := s.conn.QueryRowContext(ctx, `SELECT body FROM diffs WHERE old_id = ? AND new_id = ?`, oldID, newID).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load diff %v..%v: %w", oldID, newID, err)
	}
	return report.DecodeDiff(bytes.NewReader(body), report.JSON)
}

// List returns stored reports with the given label, newest first
func (s *Store) List(ctx context.Context, label string) ([]*Entry, error) {
	query := `
		SELECT id, title, label, jars, classes, created_at
		FROM reports WHERE label = ? ORDER BY created_at DESC
	`
	rows, err := s.conn.QueryContext(ctx, query, label)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		entry := &Entry{}
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Label, &entry.Jars, &entry.Classes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan report entry: %w", err)
		}
		if entry.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			s.logger.Warn("invalid report timestamp", "id", entry.ID, "value", createdAt)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (s *Store) decode(row *sql.Row, id string) (*report.Report, error) {
	var body []byte
	err := row.Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %v: %w", id, err)
	}
	return report.Decode(bytes.NewReader(body), report.JSON)
}
