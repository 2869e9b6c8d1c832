package chat

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for chat sessions. A nil *Metrics records nothing.
type Metrics struct {
	ExchangesTotal   *prometheus.CounterVec
	ExchangeDuration prometheus.Histogram
	ExchangesPending prometheus.Gauge
	SessionsActive   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ExchangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whiterabbit_chat_exchanges_total",
				Help: "Settled chat exchanges by outcome category",
			},
			[]string{"category"},
		),
		ExchangeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "whiterabbit_chat_exchange_duration_seconds",
				Help:    "Time from submit to settlement of a chat exchange",
				Buckets: prometheus.DefBuckets,
			},
		),
		ExchangesPending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "whiterabbit_chat_exchanges_pending",
				Help: "Chat exchanges waiting for the generator",
			},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "whiterabbit_chat_sessions_active",
				Help: "Chat widget sessions currently held in memory",
			},
		),
	}
}

func (m *Metrics) exchangeStarted() {
	if m == nil {
		return
	}
	m.ExchangesPending.Inc()
}

func (m *Metrics) exchangeSettled(category Category, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ExchangesPending.Dec()
	m.ExchangesTotal.WithLabelValues(string(category)).Inc()
	m.ExchangeDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.SessionsActive.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
}
