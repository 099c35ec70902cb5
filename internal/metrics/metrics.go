package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Generation attempts
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyapp_generations_total",
			Help: "Generation attempts by outcome",
		},
		[]string{"result"}, // ready|failed|rejected
	)
	GenerationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "easyapp_generation_duration_seconds",
			Help:    "Duration of generation attempts from Loading to settled",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1s..128s
		},
	)

	// Model provider
	ModelRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyapp_model_requests_total",
			Help: "Requests sent to the generative model by provider and model",
		},
		[]string{"provider", "model"},
	)

	// Packaging
	Archives = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyapp_archives_total",
			Help: "Archive downloads by outcome",
		},
		[]string{"result"}, // success|error
	)

	// Sessions
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "easyapp_sessions_active",
			Help: "Sessions currently held in memory",
		},
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyapp_errors_total",
			Help: "Errors by component and operation",
		},
		[]string{"component", "op"},
	)
)

func init() {
	prometheus.MustRegister(
		Generations,
		GenerationDurationSeconds,
		ModelRequests,
		Archives,
		ActiveSessions,
		Errors,
	)
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncGeneration(result string) {
	Generations.WithLabelValues(result).Inc()
}

func ObserveGenerationDuration(d time.Duration) {
	GenerationDurationSeconds.Observe(d.Seconds())
}

func IncModelRequest(provider, model string) {
	ModelRequests.WithLabelValues(provider, model).Inc()
}

func IncArchive(result string) {
	Archives.WithLabelValues(result).Inc()
}

func SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}

func IncError(component, op string) {
	Errors.WithLabelValues(component, op).Inc()
}
