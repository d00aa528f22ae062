// Package storage provides the keyed record store used by the editor, query and report services.
package storage

import (
	"context"
	"fmt"

	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/internal/storage/jsonfile"
	"github.com/yegors/airport-readiness/internal/storage/sqlite"
	"github.com/yegors/airport-readiness/pkg/logger"
)

// Backend names
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store is a keyed store of airport records. Codes passed in are expected to be
// normalized already. There is no locking across calls: concurrent writers of the
// same code race and the last write wins.
type Store interface {
	Get(ctx context.Context, code string) (checklist.Record, bool, error)
	Put(ctx context.Context, code string, record checklist.Record) error
	ListCodes(ctx context.Context) ([]string, error)
	Load(ctx context.Context) (map[string]checklist.Record, error)
	SaveAll(ctx context.Context, records map[string]checklist.Record) error
	Close() error
}

var (
	_ Store = (*jsonfile.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
)

// Open creates the store for the configured backend
func Open(backend, path string, log *logger.Logger) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return jsonfile.New(path, log), nil
	case BackendSQLite:
		s, err := sqlite.Open(path, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", backend)
	}
}
