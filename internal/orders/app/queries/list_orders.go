package queries

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
)

// DefaultDetailFetchLimit bounds concurrent detail reads per listing.
const DefaultDetailFetchLimit = 8

// ListOrdersQuery selects a single order by number, or every order with ports.AllOrders.
type ListOrdersQuery struct {
	Number string
}

// Validate ensures the query has valid parameters.
func (q ListOrdersQuery) Validate() error {
	if strings.TrimSpace(q.Number) == "" {
		return domain.NewValidationError("numero_orden is required")
	}
	return nil
}

// ListOrdersQueryHandler reads order headers and enriches each with its detail lines.
type ListOrdersQueryHandler struct {
	repo  ports.OrderRepository
	limit int
}

// NewListOrdersQueryHandler constructs a ListOrdersQueryHandler. A non-positive limit
// falls back to DefaultDetailFetchLimit.
func NewListOrdersQueryHandler(repo ports.OrderRepository, limit int) *ListOrdersQueryHandler {
	if limit <= 0 {
		limit = DefaultDetailFetchLimit
	}
	return &ListOrdersQueryHandler{repo: repo, limit: limit}
}

// Handle returns the enriched orders in header order. No match yields an empty slice.
func (h *ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]domain.OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	headers, err := h.repo.FindHeaders(ctx, query.Number)
	if err != nil {
		return nil, domain.NewPersistenceError("select orders", err)
	}

	views := make([]domain.OrderView, len(headers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.limit)
	for i, header := range headers {
		g.Go(func() error {
			details, err := h.repo.FindDetails(gctx, header.ID)
			if err != nil {
				return domain.NewPersistenceError("select order details", err)
			}
			views[i] = domain.NewOrderView(header, details)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return views, nil
}
