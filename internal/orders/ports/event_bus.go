package ports

import (
	"context"

	"github.com/dejobratic/ordenes/internal/orders/domain"
)

// EventBus defines the contract for publishing order lifecycle events.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, order domain.Order) error
	PublishOrderStatusChanged(ctx context.Context, number string, status domain.OrderStatus) error
	PublishOrderDeleted(ctx context.Context, order domain.Order) error
}
