package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/dwoolworth/inkwell"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the store collectors.
type Metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the store collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inkwell_store_operations_total",
			Help: "Store operations by collection, operation and outcome.",
		}, []string{"collection", "op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inkwell_store_operation_duration_seconds",
			Help:    "Store operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection", "op"}),
	}
	for _, c := range []prometheus.Collector{m.ops, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Middleware records the outcome and latency of every store operation.
func (m *Metrics) Middleware() inkwell.MiddlewareFunc {
	return func(ctx context.Context, op *inkwell.OpInfo, next func(context.Context) error) error {
		start := time.Now()
		err := next(ctx)

		m.duration.WithLabelValues(op.Collection, string(op.Operation)).Observe(time.Since(start).Seconds())
		m.ops.WithLabelValues(op.Collection, string(op.Operation), outcome(err)).Inc()
		return err
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, inkwell.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
