package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/dejobratic/ordenes/internal/orders/metrics"
	"github.com/dejobratic/ordenes/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCreateOrderHandler struct {
	handler CreateOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCreateOrderHandler(handler CreateOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCreateOrderHandler {
	return &ObservableCreateOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordOrderCreationDuration(ctx, duration)
		o.metrics.RecordOrderCreated(ctx, success)
	}()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.numero_orden", cmd.Number),
		attribute.Int64("order.proveedor_id", cmd.SupplierID),
	)

	o.logger.InfoContext(ctx, "creating order",
		"numero_orden", cmd.Number,
		"proveedor_id", cmd.SupplierID,
	)

	orderID, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to create order",
			"error", err,
			"numero_orden", cmd.Number,
		)
		return 0, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int64("order.id", orderID))

	o.logger.InfoContext(ctx, "order created successfully",
		"order_id", orderID,
		"numero_orden", cmd.Number,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return orderID, nil
}
