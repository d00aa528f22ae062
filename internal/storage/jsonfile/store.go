// Package jsonfile stores all airport records in a single JSON document
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/pkg/logger"
)

// Store keeps the whole dataset in one file. Every write is a full
// load/modify/save of the document.
type Store struct {
	path   string
	logger *logger.Logger
}

// New creates a store backed by the file at path. The file need not exist.
func New(path string, log *logger.Logger) *Store {
	return &Store{
		path:   path,
		logger: log.Named("store-json"),
	}
}

// Path returns the document path
func (s *Store) Path() string {
	return s.path
}

// Load reads the full document. A missing or unreadable document yields an empty dataset.
func (s *Store) Load(_ context.Context) (map[string]checklist.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]checklist.Record{}, nil
	}
	if err != nil {
		s.logger.Warn("Failed to read records file, using empty dataset",
			logger.String("path", s.path),
			logger.Error(err),
		)
		return map[string]checklist.Record{}, nil
	}

	records := map[string]checklist.Record{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Failed to decode records file, using empty dataset",
			logger.String("path", s.path),
			logger.Error(err),
		)
		return map[string]checklist.Record{}, nil
	}
	if records == nil {
		records = map[string]checklist.Record{}
	}
	return records, nil
}

// SaveAll replaces the document with records
func (s *Store) SaveAll(_ context.Context, records map[string]checklist.Record) error {
	if records == nil {
		records = map[string]checklist.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create records directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace records file: %w", err)
	}

	s.logger.Debug("Records file written",
		logger.String("path", s.path),
		logger.Int("airports", len(records)),
	)
	return nil
}

// Get returns the record for code
func (s *Store) Get(ctx context.Context, code string) (checklist.Record, bool, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	record, ok := records[code]
	return record, ok, nil
}

// Put replaces the record for code and rewrites the document
func (s *Store) Put(ctx context.Context, code string, record checklist.Record) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}
	records[code] = record
	return s.SaveAll(ctx, records)
}

// ListCodes returns the stored airport codes in sorted order
func (s *Store) ListCodes(ctx context.Context) ([]string, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(records))
	for code := range records {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}
