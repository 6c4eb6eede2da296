package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	httpRequestDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.99: 0.001,
			},
		},
		[]string{"method", "path", "status_code"},
	)

	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_generations_total",
			Help: "Generations by terminal draft status",
		},
		[]string{"status"},
	)

	repairsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resume_generation_repairs_total",
		Help: "Repair passes requested after count violations",
	})

	modelTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Model tokens consumed by model and kind",
		},
		[]string{"model", "kind"},
	)

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "resume_generation_duration_seconds",
		Help:    "End-to-end generation duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
)

// ObserveHTTP records one completed HTTP request.
func ObserveHTTP(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	httpRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
}

// IncGeneration counts a generation that ended in status.
func IncGeneration(status string) {
	generationsTotal.WithLabelValues(status).Inc()
}

// IncRepair counts a repair pass.
func IncRepair() {
	repairsTotal.Inc()
}

// AddTokens records prompt and completion tokens for model.
func AddTokens(model string, prompt, completion int64) {
	if prompt > 0 {
		modelTokensTotal.WithLabelValues(model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		modelTokensTotal.WithLabelValues(model, "completion").Add(float64(completion))
	}
}

// ObserveGenerationDuration records an end-to-end generation duration.
func ObserveGenerationDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	generationDuration.Observe(d.Seconds())
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
