// Package sqlite stores airport records as one row per airport code
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/pkg/logger"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed record store
type Store struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open opens (creating if needed) the database at path
func Open(path string, log *logger.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps writes serialized on the file
	db.SetMaxOpenConns(1)

	store := &Store{
		db:     db,
		logger: log.Named("store-sqlite"),
	}

	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initDB initializes the database tables
func (s *Store) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS airport_records (
			code TEXT PRIMARY KEY,
			record TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create airport_records table: %w", err)
	}
	return nil
}

// Get returns the record for code
func (s *Store) Get(ctx context.Context, code string) (checklist.Record, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM airport_records WHERE code = ?`, code,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query airport record: %w", err)
	}

	return s.decode(code, raw), true, nil
}

// Put inserts or replaces the record for code
func (s *Store) Put(ctx context.Context, code string, record checklist.Record) error {
	return s.put(ctx, s.db, code, record)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) put(ctx context.Context, db execer, code string, record checklist.Record) error {
	row, err := newRow(code, record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO airport_records (code, record, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		row.Code,
		row.Record,
		row.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert airport record: %w", err)
	}
	return nil
}

// ListCodes returns the stored airport codes in sorted order
func (s *Store) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code FROM airport_records ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query airport codes: %w", err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan airport code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// Load returns every stored record
func (s *Store) Load(ctx context.Context) (map[string]checklist.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, record FROM airport_records`)
	if err != nil {
		return nil, fmt.Errorf("failed to query airport records: %w", err)
	}
	defer rows.Close()

	records := map[string]checklist.Record{}
	for rows.Next() {
		var code, raw string
		if err := rows.Scan(&code, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan airport record: %w", err)
		}
		records[code] = s.decode(code, raw)
	}
	return records, rows.Err()
}

// SaveAll replaces the table contents with records in one transaction
func (s *Store) SaveAll(ctx context.Context, records map[string]checklist.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM airport_records`); err != nil {
		return fmt.Errorf("failed to clear airport records: %w", err)
	}
	for code, record := range records {
		if err := s.put(ctx, tx, code, record); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit airport records: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// decode parses a stored record; malformed rows read as an empty record
func (s *Store) decode(code, raw string) checklist.Record {
	record := checklist.Record{}
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Warn("Malformed airport record, using empty record",
			logger.String("airport", code),
			logger.Error(err),
		)
		return checklist.Record{}
	}
	return record
}

func newRow(code string, record checklist.Record) (recordRow, error) {
	if record == nil {
		record = checklist.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return recordRow{}, fmt.Errorf("failed to encode airport record: %w", err)
	}
	return recordRow{
		Code:      code,
		Record:    strings.TrimRight(buf.String(), "\n"),
		UpdatedAt: time.Now().UTC(),
	}, nil
}
