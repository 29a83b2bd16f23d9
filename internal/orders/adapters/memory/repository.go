package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
)

// Repository provides an in-memory store useful for local development and tests.
// It mirrors the relational layout: headers, detail rows, and the read-only
// supplier and product catalogues.
type Repository struct {
	mu        sync.RWMutex
	nextID    int64
	orders    map[int64]domain.Order
	details   []domain.DetailLine
	suppliers map[int64]string
	products  map[int64]string
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		orders:    make(map[int64]domain.Order),
		suppliers: make(map[int64]string),
		products:  make(map[int64]string),
	}
}

// AddSupplier registers supplier reference data.
func (r *Repository) AddSupplier(supplier domain.Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[supplier.ID] = supplier.Name
}

// AddProduct registers product reference data.
func (r *Repository) AddProduct(id int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[id] = name
}

// InsertHeader stores a header and returns its generated id. Order numbers are unique.
func (r *Repository) InsertHeader(_ context.Context, order domain.Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.Number == order.Number {
			return 0, fmt.Errorf("insert order header: numero_orden %q already exists", order.Number)
		}
	}

	r.nextID++
	order.ID = r.nextID
	r.orders[order.ID] = order
	return order.ID, nil
}

// InsertDetails appends the detail batch.
func (r *Repository) InsertDetails(_ context.Context, lines []domain.DetailLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.details = append(r.details, lines...)
	return nil
}

// FindHeaders returns headers joined with their supplier, ordered by id.
func (r *Repository) FindHeaders(_ context.Context, number string) ([]domain.OrderHeaderView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.OrderHeaderView{}
	for _, order := range r.orders {
		if number != ports.AllOrders && order.Number != number {
			continue
		}
		result = append(result, domain.OrderHeaderView{
			Order:    order,
			Supplier: domain.Supplier{ID: order.SupplierID, Name: r.suppliers[order.SupplierID]},
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// FindDetails returns the detail lines of an order joined with product names.
func (r *Repository) FindDetails(_ context.Context, orderID int64) ([]domain.DetailLineView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.DetailLineView{}
	for _, line := range r.details {
		if line.OrderID != orderID {
			continue
		}
		result = append(result, domain.DetailLineView{
			ProductID:   line.ProductID,
			ProductName: r.products[line.ProductID],
			Quantity:    line.Quantity,
		})
	}
	return result, nil
}

// FindByNumber fetches a single header by order number.
func (r *Repository) FindByNumber(_ context.Context, number string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.Number == number {
			found := order
			return &found, nil
		}
	}
	return nil, ports.ErrNotFound
}

// UpdateStatus sets the status of matching headers and reports how many changed.
func (r *Repository) UpdateStatus(_ context.Context, number string, status domain.OrderStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for id, order := range r.orders {
		if order.Number != number {
			continue
		}
		order.Status = status
		r.orders[id] = order
		affected++
	}
	return affected, nil
}

// DeleteDetails removes every detail line of an order.
func (r *Repository) DeleteDetails(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.details[:0]
	for _, line := range r.details {
		if line.OrderID != orderID {
			kept = append(kept, line)
		}
	}
	r.details = kept
	return nil
}

// DeleteHeader removes a header by id.
func (r *Repository) DeleteHeader(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, orderID)
	return nil
}

// Ping always succeeds.
func (r *Repository) Ping(_ context.Context) error {
	return nil
}
