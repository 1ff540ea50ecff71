// Package metrics holds the Prometheus instrumentation for the service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ModelLookupsTotal counts word-vector lookups by result (hit / miss).
	ModelLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "benji",
			Name:      "model_lookups_total",
			Help:      "Total word-vector model lookups",
		},
		[]string{"result"},
	)

	// WordsTrainedTotal counts vectors generated for previously-unknown terms.
	WordsTrainedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "benji",
			Name:      "words_trained_total",
			Help:      "Total word vectors generated for unknown terms",
		},
	)

	// SearchRequestsTotal counts index searches by status.
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "benji",
			Name:      "search_requests_total",
			Help:      "Total similarity searches against the index",
		},
		[]string{"status"},
	)

	// SearchDuration observes index search latency.
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "benji",
			Name:      "search_duration_seconds",
			Help:      "Similarity search duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// GptRequestsTotal counts GPT completion calls by operation and status.
	GptRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "benji",
			Name:      "gpt_requests_total",
			Help:      "Total GPT completion requests",
		},
		[]string{"operation", "status"},
	)
)

var registered bool

// Register registers all service metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	registered = true
	prometheus.MustRegister(
		ModelLookupsTotal,
		WordsTrainedTotal,
		SearchRequestsTotal,
		SearchDuration,
		GptRequestsTotal,
	)
}
