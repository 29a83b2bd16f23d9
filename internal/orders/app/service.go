package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dejobratic/ordenes/internal/orders/app/commands"
	"github.com/dejobratic/ordenes/internal/orders/app/queries"
	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/metrics"
	"github.com/dejobratic/ordenes/internal/orders/ports"
)

// Service bundles use cases for handling purchase orders via the API.
type Service struct {
	idemStore          ports.IdempotencyStore
	createOrderHandler commands.CreateOrderHandler
	updateStatus       commands.UpdateStatusHandler
	deleteOrder        commands.DeleteOrderHandler
	listOrders         *queries.ListOrdersQueryHandler
}

// Options tunes the service.
type Options struct {
	DetailFetchLimit int
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	opts Options,
) *Service {
	createHandler := commands.NewCreateOrderCommandHandler(repo, events)
	updateHandler := commands.NewUpdateStatusCommandHandler(repo, events)
	deleteHandler := commands.NewDeleteOrderCommandHandler(repo, events)

	return &Service{
		idemStore:          idem,
		createOrderHandler: commands.NewObservableCreateOrderHandler(createHandler, logger, metrics),
		updateStatus:       commands.NewObservableUpdateStatusHandler(updateHandler, logger, metrics),
		deleteOrder:        commands.NewObservableDeleteOrderHandler(deleteHandler, logger, metrics),
		listOrders:         queries.NewListOrdersQueryHandler(repo, opts.DetailFetchLimit),
	}
}

// CreateOrderInput captures the payload for creating an order.
type CreateOrderInput struct {
	Number     string          `json:"numero_orden"`
	Date       string          `json:"fecha"`
	SupplierID int64           `json:"proveedor_id"`
	Details    json.RawMessage `json:"detalle"`
	Status     string          `json:"estado"`
}

// CreateOrder validates the input, then writes the header and its detail lines.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (int64, error) {
	cmd := commands.CreateOrderCommand{
		Number:     input.Number,
		Date:       input.Date,
		SupplierID: input.SupplierID,
		Details:    input.Details,
		Status:     input.Status,
	}
	return s.createOrderHandler.Handle(ctx, cmd)
}

// ListOrders returns enriched orders matching number, or all orders for ports.AllOrders.
func (s *Service) ListOrders(ctx context.Context, number string) ([]domain.OrderView, error) {
	return s.listOrders.Handle(ctx, queries.ListOrdersQuery{Number: number})
}

// UpdateStatus sets the status of the order with the given number.
func (s *Service) UpdateStatus(ctx context.Context, number, status string) error {
	return s.updateStatus.Handle(ctx, commands.UpdateStatusCommand{Number: number, Status: status})
}

// DeleteOrder removes a pending order and its detail lines.
func (s *Service) DeleteOrder(ctx context.Context, number string) error {
	_, err := s.deleteOrder.Handle(ctx, commands.DeleteOrderCommand{Number: number})
	return err
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
