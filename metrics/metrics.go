// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	trades     *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trades_executed_total",
			Help: "Executed trades by side.",
		}, []string{"side"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trades_rejected_total",
			Help: "Rejected trades by side and reason.",
		}, []string{"side", "reason"}),
	}
	reg.MustRegister(m.requests, m.latency, m.trades, m.rejections)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) TradeExecuted(side string) {
	if m == nil {
		return
	}
	m.trades.WithLabelValues(side).Inc()
}

func (m *Metrics) TradeRejected(side, reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(side, reason).Inc()
}
