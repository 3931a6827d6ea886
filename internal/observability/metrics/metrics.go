package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the webhook message flow.
type BotMetrics struct {
	inboundTotal   *prometheus.CounterVec
	outboundTotal  *prometheus.CounterVec
	processLatency *prometheus.HistogramVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viajai",
			Subsystem: "bot",
			Name:      "inbound_messages_total",
			Help:      "Total inbound WhatsApp messages",
		}, []string{"kind", "route"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viajai",
			Subsystem: "bot",
			Name:      "outbound_sends_total",
			Help:      "Total outbound WhatsApp sends",
		}, []string{"status"}),
		processLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "viajai",
			Subsystem: "bot",
			Name:      "message_latency_seconds",
			Help:      "Latency of inbound message processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.outboundTotal, m.processLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(kind, route string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(kind, route).Inc()
}

func (m *BotMetrics) ObserveOutbound(status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.processLatency.WithLabelValues(kind).Observe(seconds)
}
