package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersCreatedTotal    metric.Int64Counter
	orderCreationDuration metric.Float64Histogram
	statusUpdatesTotal    metric.Int64Counter
	ordersDeletedTotal    metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersCreatedTotal, err = meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of purchase orders created"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_created_total counter: %w", err)
	}

	m.orderCreationDuration, err = meter.Float64Histogram(
		"order_creation_duration_seconds",
		metric.WithDescription("Duration of order creation operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_creation_duration histogram: %w", err)
	}

	m.statusUpdatesTotal, err = meter.Int64Counter(
		"order_status_updates_total",
		metric.WithDescription("Total number of order status updates"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_status_updates_total counter: %w", err)
	}

	m.ordersDeletedTotal, err = meter.Int64Counter(
		"orders_deleted_total",
		metric.WithDescription("Total number of order deletions"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_deleted_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOrderCreated(ctx context.Context, success bool) {
	m.ordersCreatedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", outcome(success)),
	))
}

func (m *Metrics) RecordOrderCreationDuration(ctx context.Context, durationSeconds float64) {
	m.orderCreationDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordStatusUpdate(ctx context.Context, newStatus string, success bool) {
	m.statusUpdatesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("estado", newStatus),
		attribute.String("status", outcome(success)),
	))
}

func (m *Metrics) RecordOrderDeleted(ctx context.Context, success bool) {
	m.ordersDeletedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", outcome(success)),
	))
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
