package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OrdersPlaced.WithLabelValues("ok").Inc()
	m.ReservationConflicts.Inc()
	m.Compensations.WithLabelValues("failed").Add(2)
	m.PlaceOrderDuration.Observe(0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersPlaced.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Compensations.WithLabelValues("failed")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"lessonhub_order_placed_total",
		"lessonhub_reservation_conflicts_total",
		"lessonhub_reservation_compensations_total",
		"lessonhub_order_place_duration_seconds",
	}, names)
}

func TestNewNop_IsIndependent(t *testing.T) {
	// 两次创建不会因重复注册而 panic
	a, b := NewNop(), NewNop()
	a.ReservationConflicts.Inc()
	assert.Zero(t, testutil.ToFloat64(b.ReservationConflicts))
}
