package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
)

// DetailInput is one requested line of a new order.
type DetailInput struct {
	ProductID int64 `json:"producto_id"`
	Quantity  int64 `json:"cantidad"`
}

// CreateOrderCommand carries a new order header and its raw detail payload.
// Details stays raw so that a non-array value can be rejected as invalid input.
type CreateOrderCommand struct {
	Number     string
	Date       string
	SupplierID int64
	Details    json.RawMessage
	Status     string
}

// Validate checks required fields and decodes the detail lines.
func (c CreateOrderCommand) Validate() ([]DetailInput, error) {
	if strings.TrimSpace(c.Number) == "" || c.SupplierID == 0 {
		return nil, domain.NewValidationError(domain.MsgMissingFields)
	}

	raw := bytes.TrimSpace(c.Details)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, domain.NewValidationError(domain.MsgMissingFields)
	}

	var details []DetailInput
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, domain.NewValidationError(domain.MsgMissingFields)
	}
	if len(details) == 0 {
		return nil, domain.NewValidationError(domain.MsgMissingFields)
	}

	if c.Status != "" && !domain.OrderStatus(c.Status).IsValid() {
		return nil, domain.NewValidationError(domain.MsgInvalidStatus)
	}

	if c.Date != "" {
		if _, err := time.Parse(domain.DateLayout, c.Date); err != nil {
			return nil, domain.NewValidationError(domain.MsgInvalidDate)
		}
	}

	return details, nil
}

type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (int64, error)
}

type CreateOrderCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
	now    func() time.Time
}

func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

// Handle inserts the header, then the detail batch keyed by the generated id.
// The two writes are independent: if the detail insert fails the header stays behind.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (int64, error) {
	details, err := cmd.Validate()
	if err != nil {
		return 0, err
	}

	order := domain.Order{
		Number:     cmd.Number,
		SupplierID: cmd.SupplierID,
		Status:     domain.StatusPending,
	}
	if cmd.Status != "" {
		order.Status = domain.OrderStatus(cmd.Status)
	}
	if cmd.Date != "" {
		order.Date, _ = time.Parse(domain.DateLayout, cmd.Date)
	} else {
		y, m, d := h.now().UTC().Date()
		order.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	if err := order.Validate(); err != nil {
		return 0, err
	}

	orderID, err := h.repo.InsertHeader(ctx, order)
	if err != nil {
		return 0, domain.NewPersistenceError("insert order header", err)
	}
	order.ID = orderID

	lines := make([]domain.DetailLine, 0, len(details))
	for _, d := range details {
		lines = append(lines, domain.DetailLine{
			OrderID:   orderID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
		})
	}

	if err := h.repo.InsertDetails(ctx, lines); err != nil {
		return 0, domain.NewPersistenceError("insert order details", err)
	}

	if err := h.events.PublishOrderCreated(ctx, order); err != nil {
		slog.WarnContext(ctx, "order saved but failed to publish event",
			"order_id", orderID,
			"numero_orden", order.Number,
			"error", err,
		)
	}

	return orderID, nil
}
