package commands

import (
	"context"
	"log/slog"

	"github.com/dejobratic/ordenes/internal/orders/metrics"
	"github.com/dejobratic/ordenes/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableUpdateStatusHandler struct {
	handler UpdateStatusHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableUpdateStatusHandler(handler UpdateStatusHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableUpdateStatusHandler {
	return &ObservableUpdateStatusHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableUpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) error {
	ctx, span := telemetry.StartSpan(ctx, "UpdateStatusCommand.Handle")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.numero_orden", cmd.Number),
		attribute.String("order.new_status", cmd.Status),
	)

	err := o.handler.Handle(ctx, cmd)
	o.metrics.RecordStatusUpdate(ctx, cmd.Status, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to update order status",
			"error", err,
			"numero_orden", cmd.Number,
			"estado", cmd.Status,
		)
		return err
	}

	o.logger.InfoContext(ctx, "order status updated",
		"numero_orden", cmd.Number,
		"estado", cmd.Status,
	)

	telemetry.SetSpanSuccess(span)
	return nil
}
