package registry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsOperations(t *testing.T) {
	t.Parallel()

	m := NewMetrics(prometheus.NewRegistry())
	reg := New(WithMetrics(m))

	_, err := reg.Upsert("t3_a", nil, nil)
	require.NoError(t, err)
	_, err = reg.Upsert("t3_b", nil, nil)
	require.NoError(t, err)
	_, err = reg.Upsert("", nil, nil)
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.records))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues(opUpsert, resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(opUpsert, resultRejected)))

	_, err = reg.Remove("t3_a")
	require.NoError(t, err)
	_, err = reg.Remove("t3_a")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.records))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(opRemove, resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(opRemove, resultMissing)))

	reg.Clear()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.records))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(opClear, resultOK)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() { m.observe(opGet, resultOK, 3) })
}
