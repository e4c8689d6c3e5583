package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests no route answered, keeping path cardinality bounded.
const unmatchedRoute = "unmatched"

// PrometheusMiddleware counts and times requests per route pattern.
type PrometheusMiddleware struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	skip            map[string]struct{}
}

// NewPrometheusMiddleware registers the HTTP collectors on reg. Requests to
// skipPaths (default /metrics, /health and /healthz) are not recorded.
func NewPrometheusMiddleware(reg prometheus.Registerer, skipPaths ...string) (*PrometheusMiddleware, error) {
	if len(skipPaths) == 0 {
		skipPaths = []string{"/metrics", "/health", "/healthz"}
	}
	m := &PrometheusMiddleware{
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern and status.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		skip: make(map[string]struct{}, len(skipPaths)),
	}
	for _, p := range skipPaths {
		m.skip[p] = struct{}{}
	}

	for _, c := range []prometheus.Collector{m.requestCount, m.requestDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := m.skip[c.Path()]; ok {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		route := c.Route().Path
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			status = fe.Code
			if fe.Code == fiber.StatusNotFound {
				route = unmatchedRoute
			}
		case err != nil:
			status = fiber.StatusInternalServerError
		}
		if route == "" {
			route = unmatchedRoute
		}

		m.requestCount.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
