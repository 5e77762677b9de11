// internal/app/system/metrics/metrics.go

// Package metrics holds the Prometheus instruments for the message
// path. Counters register themselves on the default registry; the
// bootstrap exposes them on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookRequests counts inbound webhook posts by outcome:
	// "delivered", "clarification", "no_groups", "unknown_sender",
	// "rejected" (bad signature), "error".
	WebhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "texthub_webhook_requests_total",
		Help: "Inbound SMS webhook requests by outcome.",
	}, []string{"outcome"})

	// FanoutSends counts outbound per-recipient deliveries handed to
	// the gateway.
	FanoutSends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "texthub_fanout_sends_total",
		Help: "Outbound SMS deliveries accepted by the gateway.",
	})

	// FanoutFailures counts per-recipient gateway failures. These are
	// swallowed by design; the counter is how they stay visible.
	FanoutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "texthub_fanout_failures_total",
		Help: "Outbound SMS deliveries the gateway rejected.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "texthub_http_requests_total",
		Help: "HTTP requests by status class.",
	}, []string{"status"})

	httpDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "texthub_http_request_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		httpRequests.WithLabelValues(strconv.Itoa(rec.status / 100 * 100)).Inc()
		httpDuration.Observe(time.Since(start).Seconds())
	})
}
