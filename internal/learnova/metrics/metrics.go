// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/learnova/learnova/internal/learnova/notify"
)

const namespace = "learnova"

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	NotificationsTotal *prometheus.CounterVec
	TokenRedemptions   *prometheus.CounterVec
	InvitationsTotal   *prometheus.CounterVec
	HousekeepingRows   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		NotificationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Email notifications by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		TokenRedemptions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_redemptions_total",
				Help:      "Single-use token redemptions by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		InvitationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "course_invitations_total",
				Help:      "Course invitation events by outcome",
			},
			[]string{"outcome"},
		),
		HousekeepingRows: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "housekeeping_rows_total",
				Help:      "Rows touched by housekeeping tasks",
			},
			[]string{"task"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency. It must sit directly in
// front of the ServeMux so the matched route pattern is visible.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func outcome(ok bool) string {
	if ok {
		return "delivered"
	}
	return "failed"
}

// RecordNotification counts one delivery attempt.
func (m *Metrics) RecordNotification(kind notify.Kind, res notify.Result) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(string(kind), outcome(res.Delivered)).Inc()
}

// RecordRedemption counts one token redemption attempt.
func (m *Metrics) RecordRedemption(tokenType, result string) {
	if m == nil {
		return
	}
	m.TokenRedemptions.WithLabelValues(tokenType, result).Inc()
}

// RecordInvitations adds n invitation events with the given outcome.
func (m *Metrics) RecordInvitations(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.InvitationsTotal.WithLabelValues(result).Add(float64(n))
}

// RecordHousekeeping adds the rows a housekeeping task touched.
func (m *Metrics) RecordHousekeeping(task string, rows int64) {
	if m == nil || rows <= 0 {
		return
	}
	m.HousekeepingRows.WithLabelValues(task).Add(float64(rows))
}

// InstrumentNotifier counts every result n returns.
func (m *Metrics) InstrumentNotifier(n notify.Notifier) notify.Notifier {
	if m == nil {
		return n
	}
	return notify.NotifierFunc(func(ctx context.Context, msg notify.Message) notify.Result {
		res := n.Send(ctx, msg)
		m.RecordNotification(msg.Kind, res)
		return res
	})
}
