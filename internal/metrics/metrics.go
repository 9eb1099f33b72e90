package metrics

import (
	"net/http"

	"github.com/ErlanBelekov/bookshelf/internal/health"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Remote API metrics

	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookshelf",
		Name:      "api_request_duration_seconds",
		Help:      "Latency of requests to the remote book API.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation", "status"})

	APIUnauthorizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookshelf",
		Name:      "api_unauthorized_total",
		Help:      "Responses with status 401 that cleared the stored token.",
	})

	// Sessions

	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bookshelf",
		Name:      "sessions_active",
		Help:      "Browser sessions currently held in memory.",
	})

	SessionsSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookshelf",
		Name:      "sessions_swept_total",
		Help:      "Idle sessions evicted by the sweeper.",
	})

	// Uploads

	UploadFilesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookshelf",
		Name:      "upload_files_total",
		Help:      "Files seen by the upload page, by outcome.",
	}, []string{"outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookshelf",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookshelf",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		APIRequestDuration,
		APIUnauthorizedTotal,
		SessionsActive,
		SessionsSweptTotal,
		UploadFilesTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus liveness and readiness probes.
func NewServer(addr string, checker *health.Checker) *http.Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, checker.Liveness(c.Request.Context()))
	})
	r.GET("/health/ready", func(c *gin.Context) {
		res := checker.Readiness(c.Request.Context())
		status := http.StatusOK
		if res.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, res)
	})
	return &http.Server{Addr: addr, Handler: r}
}
