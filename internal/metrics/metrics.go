// Package metrics holds the backend's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for the backend.
//
// Metrics:
//   - trackmyprogress_http_requests_total{method,route,status}
//   - trackmyprogress_http_request_duration_seconds{method,route}
//   - trackmyprogress_ai_fallbacks_total{endpoint,reason}
//   - trackmyprogress_relay_messages_total{kind,delivered}
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	FallbacksTotal  *prometheus.CounterVec
	RelayTotal      *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackmyprogress_http_requests_total",
				Help: "Total number of HTTP requests handled",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trackmyprogress_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackmyprogress_ai_fallbacks_total",
				Help: "Total number of AI answers served from canned content",
			},
			[]string{"endpoint", "reason"}, // reason: "unconfigured" or "error"
		),
		RelayTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trackmyprogress_relay_messages_total",
				Help: "Total number of relayed form submissions",
			},
			[]string{"kind", "delivered"},
		),
	}
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and durations by route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// AIFallback counts a canned answer. Safe on a nil receiver.
func (m *Metrics) AIFallback(endpoint, reason string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(endpoint, reason).Inc()
}

// Relay counts a relayed submission. Safe on a nil receiver.
func (m *Metrics) Relay(kind string, delivered bool) {
	if m == nil {
		return
	}
	m.RelayTotal.WithLabelValues(kind, strconv.FormatBool(delivered)).Inc()
}
