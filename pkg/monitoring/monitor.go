package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// NavigatorTransitions counts applied navigator actions by outcome
	// (ok, ignored, save_failed, error).
	NavigatorTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navigator_transitions_total",
			Help: "Navigator actions applied, by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	ModuleCompletions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "module_completions_total",
			Help: "Module completion records written",
		},
	)

	ProgressStoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_store_errors_total",
			Help: "Progress store failures, by operation",
		},
		[]string{"op"},
	)

	CurriculumCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curriculum_cache_requests_total",
			Help: "Curriculum cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(NavigatorTransitions)
		prometheus.MustRegister(ModuleCompletions)
		prometheus.MustRegister(ProgressStoreErrors)
		prometheus.MustRegister(CurriculumCache)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
