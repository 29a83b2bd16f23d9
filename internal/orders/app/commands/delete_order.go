package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
)

type DeleteOrderCommand struct {
	Number string
}

type DeleteOrderHandler interface {
	Handle(ctx context.Context, cmd DeleteOrderCommand) (*domain.Order, error)
}

type DeleteOrderCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
}

func NewDeleteOrderCommandHandler(repo ports.OrderRepository, events ports.EventBus) *DeleteOrderCommandHandler {
	return &DeleteOrderCommandHandler{repo: repo, events: events}
}

// Handle removes a pending order: detail lines first, then the header.
// There is no compensation if the header delete fails after the lines are gone.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) (*domain.Order, error) {
	order, err := h.repo.FindByNumber(ctx, cmd.Number)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.NewNotFoundError(cmd.Number)
		}
		return nil, domain.NewPersistenceError("find order", err)
	}

	if !order.IsDeletable() {
		return nil, domain.NewValidationError(domain.MsgOrderNotPending)
	}

	if err := h.repo.DeleteDetails(ctx, order.ID); err != nil {
		return nil, domain.NewPersistenceError("delete order details", err)
	}

	if err := h.repo.DeleteHeader(ctx, order.ID); err != nil {
		return nil, domain.NewPersistenceError("delete order header", err)
	}

	if err := h.events.PublishOrderDeleted(ctx, *order); err != nil {
		slog.WarnContext(ctx, "order deleted but failed to publish event",
			"order_id", order.ID,
			"error", err,
		)
	}

	return order, nil
}
