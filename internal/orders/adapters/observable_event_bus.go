package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/ordenes/internal/kafka"
	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
	"github.com/dejobratic/ordenes/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *kafka.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *kafka.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderCreated")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", order.ID),
		attribute.String("order.numero_orden", order.Number),
		attribute.String("event.type", string(kafka.EventTypeOrderCreated)),
	)

	start := time.Now()
	err := e.bus.PublishOrderCreated(ctx, order)
	e.metrics.RecordPublish(ctx, string(kafka.EventTypeOrderCreated), time.Since(start).Seconds(), err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (e *ObservableEventBus) PublishOrderStatusChanged(ctx context.Context, number string, status domain.OrderStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderStatusChanged")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.numero_orden", number),
		attribute.String("order.new_status", string(status)),
		attribute.String("event.type", string(kafka.EventTypeOrderStatusChanged)),
	)

	start := time.Now()
	err := e.bus.PublishOrderStatusChanged(ctx, number, status)
	e.metrics.RecordPublish(ctx, string(kafka.EventTypeOrderStatusChanged), time.Since(start).Seconds(), err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (e *ObservableEventBus) PublishOrderDeleted(ctx context.Context, order domain.Order) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.PublishOrderDeleted")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.Int64("order.id", order.ID),
		attribute.String("order.numero_orden", order.Number),
		attribute.String("event.type", string(kafka.EventTypeOrderDeleted)),
	)

	start := time.Now()
	err := e.bus.PublishOrderDeleted(ctx, order)
	e.metrics.RecordPublish(ctx, string(kafka.EventTypeOrderDeleted), time.Since(start).Seconds(), err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
