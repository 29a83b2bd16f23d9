package kafka

import (
	"context"
	"log/slog"

	"github.com/dejobratic/ordenes/internal/orders/domain"
)

// NoopEventBus logs events without sending them to Kafka. Used when no brokers are configured.
type NoopEventBus struct{}

// NewNoopEventBus returns a new no-op event publisher.
func NewNoopEventBus() *NoopEventBus {
	return &NoopEventBus{}
}

func (n *NoopEventBus) PublishOrderCreated(ctx context.Context, order domain.Order) error {
	slog.DebugContext(ctx, "event::order_created", "order_id", order.ID, "numero_orden", order.Number)
	return nil
}

func (n *NoopEventBus) PublishOrderStatusChanged(ctx context.Context, number string, status domain.OrderStatus) error {
	slog.DebugContext(ctx, "event::order_status_changed", "numero_orden", number, "estado", status)
	return nil
}

func (n *NoopEventBus) PublishOrderDeleted(ctx context.Context, order domain.Order) error {
	slog.DebugContext(ctx, "event::order_deleted", "order_id", order.ID, "numero_orden", order.Number)
	return nil
}
