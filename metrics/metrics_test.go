package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TradeExecuted("buy")
	m.TradeExecuted("buy")
	m.TradeRejected("sell", "insufficient_shares")
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.trades.WithLabelValues("buy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("sell", "insufficient_shares")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.TradeExecuted("buy")
	m.TradeRejected("buy", "validation")
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
}
