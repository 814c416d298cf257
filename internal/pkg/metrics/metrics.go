package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campusmap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campusmap",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Place metrics
	PlaceOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "places",
		Name:      "operations_total",
		Help:      "Place store operations by outcome",
	}, []string{"op", "result"})

	PlacesStored = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "campusmap",
		Subsystem: "places",
		Name:      "stored",
		Help:      "Number of places in the store after the last reload",
	})

	Reconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "seeds",
		Name:      "reconciliations_total",
		Help:      "Completed seed reconciliation passes",
	})

	FirstRunNotices = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "seeds",
		Name:      "first_run_notices_total",
		Help:      "First-run notices emitted",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campusmap",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Events handed to the broker",
	}, []string{"broker", "type"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "campusmap",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	SlotOps = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campusmap",
		Subsystem: "slots",
		Name:      "operation_duration_seconds",
		Help:      "Latency of slot store reads and writes",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
	}, []string{"backend", "op"})
)

// ObserveSlot records the latency of a slot store call started at start.
func ObserveSlot(backend, op string, start time.Time) {
	SlotOps.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
