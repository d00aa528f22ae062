package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/pkg/logger"
)

func TestOpen_Backends(t *testing.T) {
	for _, backend := range []string{BackendJSON, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			s, err := Open(backend, filepath.Join(t.TempDir(), "records"), logger.Nop())
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Put(ctx, "VVNB", checklist.Record{"ILS": checklist.PairValue(1, "")}))
			rec, ok, err := s.Get(ctx, "VVNB")
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, rec["ILS"].Ticked())
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", "x", logger.Nop())
	assert.Error(t, err)
}
