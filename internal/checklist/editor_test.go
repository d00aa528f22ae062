package checklist

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yegors/airport-readiness/internal/schema"
	"github.com/yegors/airport-readiness/pkg/logger"
)

// memStore is an in-memory RecordStore
type memStore struct {
	records map[string]Record
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{records: map[string]Record{}}
}

func (m *memStore) Get(_ context.Context, code string) (Record, bool, error) {
	r, ok := m.records[code]
	return r, ok, nil
}

func (m *memStore) Put(_ context.Context, code string, record Record) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.records[code] = record
	return nil
}

func TestApplySubmission_ShapesEveryField(t *testing.T) {
	e := NewEditor(ModeReplace)

	rec, err := e.ApplySubmission("han", url.Values{
		"ILS":          {"on"},
		"ILS_note":     {"cat3 ok"},
		"AIRPORT_NAME": {"Noi Bai"},
	}, nil)
	require.NoError(t, err)

	require.Len(t, rec, schema.FieldCount())
	for _, g := range schema.Groups() {
		for _, f := range g.Fields {
			v, ok := rec[f]
			require.True(t, ok, f)
			if g.Scalar() {
				_, isText := v.Text()
				assert.True(t, isText, f)
			} else {
				_, _, isPair := v.Pair()
				assert.True(t, isPair, f)
			}
		}
	}

	assert.Equal(t, `[1,"cat3 ok"]`, rec["ILS"].String())
	assert.Equal(t, `[0,""]`, rec["RNAV_SID_STAR"].String())
	assert.Equal(t, `"Noi Bai"`, rec["AIRPORT_NAME"].String())
	assert.Equal(t, `""`, rec["CITY_NAME"].String())
}

func TestApplySubmission_EmptyTickValueIsUnticked(t *testing.T) {
	rec, err := NewEditor(ModeReplace).ApplySubmission("HAN", url.Values{"VOR": {""}}, nil)
	require.NoError(t, err)
	assert.False(t, rec["VOR"].Ticked())
}

func TestApplySubmission_MissingCode(t *testing.T) {
	_, err := NewEditor(ModeReplace).ApplySubmission("  ", url.Values{"ILS": {"on"}}, nil)
	assert.ErrorIs(t, err, ErrMissingAirportCode)
}

func TestApplySubmission_Idempotent(t *testing.T) {
	e := NewEditor(ModeReplace)
	form := url.Values{"TERRAIN": {"1"}, "TERRAIN_note": {"db 2409"}, "FUEL": {"JET A1"}}

	first, err := e.ApplySubmission("SGN", form, nil)
	require.NoError(t, err)
	second, err := e.ApplySubmission("SGN", form, first)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestApplySubmission_MergeKeepsUnsubmittedFields(t *testing.T) {
	e := NewEditor(ModeMerge)
	prior := Record{
		"ILS":          PairValue(1, "cat3 ok"),
		"AIRPORT_NAME": TextValue("Noi Bai"),
	}

	rec, err := e.ApplySubmission("HAN", url.Values{
		"RNAV_SID_STAR": {"on"},
		"VOR_note":      {"u/s"},
	}, prior)
	require.NoError(t, err)

	assert.Len(t, rec, schema.FieldCount())
	assert.Equal(t, `[1,"cat3 ok"]`, rec["ILS"].String())
	assert.Equal(t, `"Noi Bai"`, rec["AIRPORT_NAME"].String())
	assert.Equal(t, `[1,""]`, rec["RNAV_SID_STAR"].String())
	// A note without its checkbox counts as a submitted, unticked field
	assert.Equal(t, `[0,"u/s"]`, rec["VOR"].String())
	assert.Equal(t, `[0,""]`, rec["NDB"].String())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, m)

	m, err = ParseMode("merge")
	require.NoError(t, err)
	assert.Equal(t, ModeMerge, m)

	_, err = ParseMode("patch")
	assert.Error(t, err)
}

func TestService_SaveScenario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(NewEditor(ModeReplace), store, nil, logger.Nop())

	code, _, err := svc.Save(ctx, "han", url.Values{"ILS": {"on"}, "ILS_note": {"cat3 ok"}})
	require.NoError(t, err)
	assert.Equal(t, "HAN", code)

	stored := store.records["HAN"]
	assert.Equal(t, `[1,"cat3 ok"]`, stored["ILS"].String())
	assert.Equal(t, `[0,""]`, stored["RNAV_SID_STAR"].String())

	// Full-record replace: resubmitting with only RNAV_SID_STAR resets ILS
	_, _, err = svc.Save(ctx, "HAN", url.Values{"RNAV_SID_STAR": {"on"}})
	require.NoError(t, err)

	stored = store.records["HAN"]
	assert.Equal(t, `[0,""]`, stored["ILS"].String())
	assert.Equal(t, `[1,""]`, stored["RNAV_SID_STAR"].String())
}

func TestService_MergeModeReadsPrior(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(NewEditor(ModeMerge), store, nil, logger.Nop())

	_, _, err := svc.Save(ctx, "HAN", url.Values{"ILS": {"on"}, "ILS_note": {"cat3 ok"}})
	require.NoError(t, err)
	_, _, err = svc.Save(ctx, "HAN", url.Values{"RNAV_SID_STAR": {"on"}})
	require.NoError(t, err)

	assert.Equal(t, `[1,"cat3 ok"]`, store.records["HAN"]["ILS"].String())
}

func TestService_CodesAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(NewEditor(ModeReplace), store, nil, logger.Nop())

	_, _, err := svc.Save(ctx, "vvnb", url.Values{"ILS": {"on"}})
	require.NoError(t, err)
	_, _, err = svc.Save(ctx, "VVTS", url.Values{"VOR": {"on"}})
	require.NoError(t, err)

	a, ok, err := svc.Get(ctx, "VVNB")
	require.NoError(t, err)
	require.True(t, ok)
	b, ok, err := svc.Get(ctx, "vvts")
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, a["ILS"].Ticked())
	assert.False(t, a["VOR"].Ticked())
	assert.True(t, b["VOR"].Ticked())
	assert.False(t, b["ILS"].Ticked())
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(NewEditor(ModeReplace), store, nil, logger.Nop())

	_, _, err := svc.Save(ctx, " ", url.Values{"ILS": {"on"}})
	assert.ErrorIs(t, err, ErrMissingAirportCode)
	assert.Empty(t, store.records)

	store.putErr = errors.New("disk full")
	_, _, err = svc.Save(ctx, "HAN", url.Values{})
	assert.ErrorIs(t, err, store.putErr)
}
