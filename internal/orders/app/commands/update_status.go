package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
)

type UpdateStatusCommand struct {
	Number string
	Status string
}

func (c UpdateStatusCommand) Validate() error {
	if !domain.OrderStatus(c.Status).IsValid() {
		return domain.NewValidationError(domain.MsgInvalidStatus)
	}
	if strings.TrimSpace(c.Number) == "" {
		return domain.NewValidationError("numero_orden is required")
	}
	return nil
}

type UpdateStatusHandler interface {
	Handle(ctx context.Context, cmd UpdateStatusCommand) error
}

type UpdateStatusCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
}

func NewUpdateStatusCommandHandler(repo ports.OrderRepository, events ports.EventBus) *UpdateStatusCommandHandler {
	return &UpdateStatusCommandHandler{repo: repo, events: events}
}

// Handle sets the status of every order matching the number. An unknown number
// matches nothing and still succeeds.
func (h *UpdateStatusCommandHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	status := domain.OrderStatus(cmd.Status)
	affected, err := h.repo.UpdateStatus(ctx, cmd.Number, status)
	if err != nil {
		return domain.NewPersistenceError("update order status", err)
	}

	if affected == 0 {
		slog.WarnContext(ctx, "status update matched no order", "numero_orden", cmd.Number, "estado", status)
		return nil
	}

	if err := h.events.PublishOrderStatusChanged(ctx, cmd.Number, status); err != nil {
		slog.WarnContext(ctx, "status updated but failed to publish event",
			"numero_orden", cmd.Number,
			"error", err,
		)
	}

	return nil
}
