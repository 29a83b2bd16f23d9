package ports

import (
	"context"
	"errors"

	"github.com/dejobratic/ordenes/internal/orders/domain"
)

// AllOrders is the order number wildcard that selects every order.
const AllOrders = "*"

// OrderRepository exposes the persistence operations required by the application layer.
// Each method is a single independent call against the store; callers get no atomicity
// across calls.
type OrderRepository interface {
	InsertHeader(ctx context.Context, order domain.Order) (int64, error)
	InsertDetails(ctx context.Context, lines []domain.DetailLine) error
	FindHeaders(ctx context.Context, number string) ([]domain.OrderHeaderView, error)
	FindDetails(ctx context.Context, orderID int64) ([]domain.DetailLineView, error)
	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, number string, status domain.OrderStatus) (int64, error)
	DeleteDetails(ctx context.Context, orderID int64) error
	DeleteHeader(ctx context.Context, orderID int64) error
	Ping(ctx context.Context) error
}

// ErrNotFound is returned by FindByNumber when no order matches.
var ErrNotFound = errors.New("order not found")
