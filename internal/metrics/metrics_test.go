package metrics

import (
	"testing"
	"time"

	"discharge-care-be/pkg/store"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetricsObservers(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTurn(store.Clinical, false, 2*time.Second)
	m.ObserveTurn(store.Clinical, true, time.Second)
	m.ObserveTurn(store.Receptionist, false, time.Millisecond)
	m.ObserveHandoff()
	m.ObserveRetrieval(false)
	m.ObserveWebSearch("none", 0)
	m.ObserveIndex("skipped")

	assert.Equal(t, 1.0, value(t, m.Turns.WithLabelValues("clinical", "apology")))
	assert.Equal(t, 1.0, value(t, m.Turns.WithLabelValues("receptionist", "ok")))
	assert.Equal(t, 1.0, value(t, m.Handoffs))
	assert.Equal(t, 1.0, value(t, m.Retrievals.WithLabelValues("false")))
	assert.Equal(t, 1.0, value(t, m.WebSearches.WithLabelValues("none", "true")))
	assert.Equal(t, 1.0, value(t, m.IndexedDocuments.WithLabelValues("skipped")))
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
