package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.RecordSave("replace", nil)
	m.RecordSave("replace", nil)
	m.RecordSave("merge", errors.New("disk full"))
	m.RecordQuery(3)
	m.RecordExport(nil)
	m.RecordLogin(false)

	assert.InDelta(t, 2, testutil.ToFloat64(m.recordsSavedTotal.WithLabelValues("replace", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.recordsSavedTotal.WithLabelValues("merge", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.queriesTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.exportsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.loginsTotal.WithLabelValues("rejected")), 0)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSave("replace", nil)
		m.RecordQuery(1)
		m.RecordExport(nil)
		m.RecordLogin(true)
	})
}
