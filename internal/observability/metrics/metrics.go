package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for assistant turns and
// the booking sources behind them.
type ConversationMetrics struct {
	turnsTotal       *prometheus.CounterVec
	fallbacksTotal   *prometheus.CounterVec
	bookingLoadTotal *prometheus.CounterVec
	bookingLatency   *prometheus.HistogramVec
	turnLatency      prometheus.Histogram
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calendar_assistant",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Conversation turns by reply kind",
		}, []string{"kind"}),
		fallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calendar_assistant",
			Subsystem: "bookings",
			Name:      "fallback_total",
			Help:      "Booking loads served by the fallback source",
		}, []string{"source"}),
		bookingLoadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calendar_assistant",
			Subsystem: "bookings",
			Name:      "load_total",
			Help:      "Booking loads from the primary source",
		}, []string{"source", "status"}),
		bookingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "calendar_assistant",
			Subsystem: "bookings",
			Name:      "load_latency_seconds",
			Help:      "Latency of primary booking source calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "calendar_assistant",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of a conversation turn",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.fallbacksTotal, m.bookingLoadTotal, m.bookingLatency, m.turnLatency)
	return m
}

func (m *ConversationMetrics) ObserveTurn(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(kind).Inc()
	m.turnLatency.Observe(seconds)
}

func (m *ConversationMetrics) ObserveBookingFallback(source string) {
	if m == nil {
		return
	}
	m.fallbacksTotal.WithLabelValues(source).Inc()
}

func (m *ConversationMetrics) ObserveBookingLoad(source string, seconds float64, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.bookingLoadTotal.WithLabelValues(source, status).Inc()
	m.bookingLatency.WithLabelValues(source).Observe(seconds)
}
