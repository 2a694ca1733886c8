package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts booking mutations and side-effect failures.
type BookingMetrics struct {
	operations  *prometheus.CounterVec
	sideEffects *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hb",
			Subsystem: "booking",
			Name:      "operations_total",
			Help:      "Booking create/update/delete calls by outcome",
		}, []string{"operation", "result"}),
		sideEffects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hb",
			Subsystem: "booking",
			Name:      "side_effects_total",
			Help:      "Best-effort email and calendar calls by outcome",
		}, []string{"kind", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operations, m.sideEffects)
	return m
}

func (m *BookingMetrics) ObserveOperation(operation, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

func (m *BookingMetrics) ObserveSideEffect(kind string, err error) {
	if m == nil {
		return
	}
	m.sideEffects.WithLabelValues(kind, resultLabel(err)).Inc()
}

// ReminderMetrics tracks scheduler sweeps per tier.
type ReminderMetrics struct {
	sweeps        *prometheus.CounterVec
	reminders     *prometheus.CounterVec
	sweepDuration *prometheus.HistogramVec
}

func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	m := &ReminderMetrics{
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hb",
			Subsystem: "reminders",
			Name:      "sweeps_total",
			Help:      "Reminder tier sweeps by outcome",
		}, []string{"tier", "result"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hb",
			Subsystem: "reminders",
			Name:      "reminders_total",
			Help:      "Reminder deliveries by tier and outcome",
		}, []string{"tier", "result"}),
		sweepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hb",
			Subsystem: "reminders",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of one tier sweep",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tier"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sweeps, m.reminders, m.sweepDuration)
	return m
}

func (m *ReminderMetrics) ObserveSweep(tier string, err error, seconds float64) {
	if m == nil {
		return
	}
	m.sweeps.WithLabelValues(tier, resultLabel(err)).Inc()
	m.sweepDuration.WithLabelValues(tier).Observe(seconds)
}

// ObserveReminder records one booking outcome: sent, failed or flag_error.
func (m *ReminderMetrics) ObserveReminder(tier, result string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(tier, result).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
