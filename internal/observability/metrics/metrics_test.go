package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBotMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)
	m.ObserveInbound("text", "flights")
	m.ObserveInbound("audio", "chat")
	m.ObserveOutbound("sent")
	m.ObserveLatency("text", 0.5)
}

func TestBotMetricsNilSafe(t *testing.T) {
	var m *BotMetrics
	m.ObserveInbound("text", "chat")
	m.ObserveOutbound("failed")
	m.ObserveLatency("audio", 0.1)
}
