package metrics

import (
	"time"

	"discharge-care-be/pkg/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the custom Prometheus collectors for the assistant.
type Metrics struct {
	Turns            *prometheus.CounterVec
	TurnDuration     *prometheus.HistogramVec
	Handoffs         prometheus.Counter
	Retrievals       *prometheus.CounterVec
	WebSearches      *prometheus.CounterVec
	IndexedDocuments *prometheus.CounterVec
	WebSocketClients prometheus.Gauge
}

// New registers all collectors on reg. Pass prometheus.DefaultRegisterer in
// the server so they appear next to the HTTP middleware metrics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Turns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "discharge_care_turns_total",
			Help: "Conversation turns by answering responder and outcome",
		}, []string{"responder", "outcome"}),

		// LLM tool loops can take a while
		TurnDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "discharge_care_turn_duration_seconds",
			Help:    "Turn latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"responder"}),

		Handoffs: f.NewCounter(prometheus.CounterOpts{
			Name: "discharge_care_handoffs_total",
			Help: "Receptionist to clinical hand-offs",
		}),

		Retrievals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "discharge_care_retrievals_total",
			Help: "Reference retrievals by sufficiency",
		}, []string{"sufficient"}),

		WebSearches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "discharge_care_web_searches_total",
			Help: "Web searches by provider used (none when all failed)",
		}, []string{"provider", "empty"}),

		IndexedDocuments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "discharge_care_indexed_documents_total",
			Help: "Index requests by outcome",
		}, []string{"outcome"}),

		WebSocketClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "discharge_care_websocket_clients",
			Help: "Open chat websocket connections",
		}),
	}
}

func (m *Metrics) ObserveTurn(responder store.Responder, failed bool, elapsed time.Duration) {
	outcome := "ok"
	if failed {
		outcome = "apology"
	}
	m.Turns.WithLabelValues(string(responder), outcome).Inc()
	m.TurnDuration.WithLabelValues(string(responder)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveHandoff() {
	m.Handoffs.Inc()
}

func (m *Metrics) ObserveRetrieval(sufficient bool) {
	label := "false"
	if sufficient {
		label = "true"
	}
	m.Retrievals.WithLabelValues(label).Inc()
}

func (m *Metrics) ObserveWebSearch(provider string, results int) {
	empty := "false"
	if results == 0 {
		empty = "true"
	}
	m.WebSearches.WithLabelValues(provider, empty).Inc()
}

// ObserveIndex counts one index request: indexed, skipped or failed.
func (m *Metrics) ObserveIndex(outcome string) {
	m.IndexedDocuments.WithLabelValues(outcome).Inc()
}
