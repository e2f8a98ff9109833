package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skillpath"

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "endpoint"},
	)

	// ResultsRecorded counts persisted attempts by kind and by whether the
	// attempt id had already been recorded.
	ResultsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_recorded_total",
			Help:      "Assessment results recorded",
		},
		[]string{"kind", "duplicate"},
	)

	Escalations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalation_decisions_total",
			Help:      "Mastery escalation decisions by reason",
		},
		[]string{"trigger", "reason"},
	)

	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Model requests by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	LLMLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Model request latency",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"purpose"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ResultsRecorded,
			Escalations,
			LLMRequests,
			LLMLatency,
		)
	})
}

// ObserveLLM records one model request.
func ObserveLLM(purpose string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	LLMRequests.WithLabelValues(purpose, outcome).Inc()
	LLMLatency.WithLabelValues(purpose).Observe(elapsed.Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).
			Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
