package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yegors/airport-readiness/internal/checklist"
	"github.com/yegors/airport-readiness/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "data.json"), logger.Nop())
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	records, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"HAN": [`), 0o600))

	records, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := checklist.Record{
		"ILS":          checklist.PairValue(1, "cat3 ok"),
		"AIRPORT_NAME": checklist.TextValue("Nội Bài"),
	}
	require.NoError(t, s.Put(ctx, "HAN", rec))
	require.NoError(t, s.Put(ctx, "SGN", checklist.Record{"VOR": checklist.EmptyPair()}))

	got, ok, err := s.Get(ctx, "HAN")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.Equal(got))

	_, ok, err = s.Get(ctx, "DAD")
	require.NoError(t, err)
	assert.False(t, ok)

	codes, err := s.ListCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"HAN", "SGN"}, codes)
}

// Fields are written in form order, not alphabetically
func TestSaveAll_DocumentLayout(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveAll(ctx, map[string]checklist.Record{
		"HAN": {"ILS": checklist.PairValue(1, "cat3 ok"), "FUEL": checklist.TextValue("Jet A-1 <24h>")},
	}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	want := strings.Join([]string{
		`{`,
		`    "HAN": {`,
		`        "ILS": [`,
		`            1,`,
		`            "cat3 ok"`,
		`        ],`,
		`        "FUEL": "Jet A-1 <24h>"`,
		`    }`,
		`}`,
	}, "\n")
	assert.Equal(t, want, string(data))
}

func TestSaveLoad_RoundTripIsByteIdentical(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Includes values of an unexpected shape, which must survive untouched
	original := `{
    "HAN": {
        "AIRPORT_NAME": "Noi Bai",
        "ILS": [
            1,
            "cat3 ok"
        ],
        "VOR": "yes",
        "NDB": [
            1.0
        ]
    }
}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(original), 0o600))

	first, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveAll(ctx, first))
	saved, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	second, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveAll(ctx, second))
	resaved, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	assert.Equal(t, string(saved), string(resaved))
	assert.True(t, first["HAN"].Equal(second["HAN"]))
	assert.Equal(t, `"yes"`, second["HAN"]["VOR"].String())
	assert.Equal(t, `[1.0]`, second["HAN"]["NDB"].String())
}
