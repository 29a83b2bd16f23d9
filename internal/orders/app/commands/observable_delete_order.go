package commands

import (
	"context"
	"log/slog"

	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/metrics"
	"github.com/dejobratic/ordenes/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableDeleteOrderHandler struct {
	handler DeleteOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableDeleteOrderHandler(handler DeleteOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableDeleteOrderHandler {
	return &ObservableDeleteOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableDeleteOrderHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "DeleteOrderCommand.Handle")
	defer span.End()

	telemetry.AddSpanAttributes(span, attribute.String("order.numero_orden", cmd.Number))

	order, err := o.handler.Handle(ctx, cmd)
	o.metrics.RecordOrderDeleted(ctx, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to delete order",
			"error", err,
			"numero_orden", cmd.Number,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int64("order.id", order.ID))
	o.logger.InfoContext(ctx, "order deleted",
		"order_id", order.ID,
		"numero_orden", order.Number,
	)

	telemetry.SetSpanSuccess(span)
	return order, nil
}
