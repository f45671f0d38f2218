package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the scheduling core. All
// observe methods are nil-safe so services can run without a registry.
type BookingMetrics struct {
	admissionsTotal  *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	webhookTotal     *prometheus.CounterVec
	chatTurnsTotal   *prometheus.CounterVec
	chatLatency      prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		admissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "admissions_total",
			Help:      "Admitted appointments by source channel and admission status",
		}, []string{"source", "status"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Appointment status transition attempts",
		}, []string{"action", "outcome"}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "notify",
			Name:      "webhook_deliveries_total",
			Help:      "Outbound booking webhook delivery attempts",
		}, []string{"outcome"}),
		chatTurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Chat collaborator turns by outcome",
		}, []string{"outcome"}),
		chatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "chat",
			Name:      "turn_latency_seconds",
			Help:      "Latency of chat collaborator turns",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.admissionsTotal, m.transitionsTotal, m.webhookTotal, m.chatTurnsTotal, m.chatLatency)
	return m
}

func (m *BookingMetrics) ObserveAdmission(source, status string) {
	if m == nil {
		return
	}
	m.admissionsTotal.WithLabelValues(source, status).Inc()
}

func (m *BookingMetrics) ObserveTransition(action string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "rejected"
	}
	m.transitionsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *BookingMetrics) ObserveWebhook(delivered bool) {
	if m == nil {
		return
	}
	outcome := "delivered"
	if !delivered {
		outcome = "failed"
	}
	m.webhookTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveChatTurn(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.chatTurnsTotal.WithLabelValues(outcome).Inc()
	m.chatLatency.Observe(seconds)
}
