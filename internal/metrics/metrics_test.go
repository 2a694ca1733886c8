package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestReminderMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewReminderMetrics(reg)

	m.ObserveReminder("24h", "sent")
	m.ObserveReminder("24h", "sent")
	m.ObserveReminder("30min", "failed")
	m.ObserveSweep("24h", nil, 0.2)
	m.ObserveSweep("30min", errors.New("boom"), 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reminders.WithLabelValues("24h", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reminders.WithLabelValues("30min", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweeps.WithLabelValues("30min", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweeps.WithLabelValues("24h", "ok")))
}

func TestBookingMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveOperation("create", "ok")
	m.ObserveSideEffect("calendar_upsert", errors.New("down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sideEffects.WithLabelValues("calendar_upsert", "error")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var b *BookingMetrics
	var r *ReminderMetrics

	assert.NotPanics(t, func() {
		b.ObserveOperation("create", "ok")
		b.ObserveSideEffect("email", nil)
		r.ObserveReminder("24h", "sent")
		r.ObserveSweep("24h", nil, 1)
	})
}
