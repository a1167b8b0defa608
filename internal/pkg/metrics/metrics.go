// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lessonhub"

// Metrics 汇总下单链路的 Prometheus 指标。
type Metrics struct {
	OrdersPlaced         *prometheus.CounterVec
	ReservationConflicts prometheus.Counter
	Compensations        *prometheus.CounterVec
	PlaceOrderDuration   prometheus.Histogram
}

// New 在给定的 registerer 上注册所有指标。测试中传入独立的 prometheus.NewRegistry()。
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersPlaced: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "order",
			Name:      "placed_total",
			Help:      "PlaceOrder calls partitioned by outcome category.",
		}, []string{"result"}),
		ReservationConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reservation",
			Name:      "conflicts_total",
			Help:      "Conditional decrements that lost a race at commit time.",
		}),
		Compensations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reservation",
			Name:      "compensations_total",
			Help:      "Capacity give-backs after a partially applied reservation.",
		}, []string{"result"}),
		PlaceOrderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "order",
			Name:      "place_duration_seconds",
			Help:      "Latency of PlaceOrder.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// NewNop 返回注册在私有 registry 上的指标, 不会暴露到 /metrics。
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
