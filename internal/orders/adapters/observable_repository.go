package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/ordenes/internal/database"
	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
	"github.com/dejobratic/ordenes/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ObservableRepository struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func NewObservableRepository(repo ports.OrderRepository, metrics *database.Metrics) *ObservableRepository {
	return &ObservableRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservableRepository) start(ctx context.Context, name, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	ctx, span := telemetry.StartSpan(ctx, "OrderRepository."+name)
	telemetry.AddSpanAttributes(span, append(attrs, attribute.String("operation", operation))...)
	return ctx, span, time.Now()
}

func (r *ObservableRepository) finish(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	r.metrics.RecordQuery(ctx, operation, time.Since(start).Seconds(), err)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return
	}
	telemetry.SetSpanSuccess(span)
}

func (r *ObservableRepository) InsertHeader(ctx context.Context, order domain.Order) (int64, error) {
	ctx, span, start := r.start(ctx, "InsertHeader", "insert_order_header",
		attribute.String("order.numero_orden", order.Number),
	)
	defer span.End()

	id, err := r.repo.InsertHeader(ctx, order)
	r.finish(ctx, span, "insert_order_header", start, err)
	if err != nil {
		return 0, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int64("order.id", id))
	return id, nil
}

func (r *ObservableRepository) InsertDetails(ctx context.Context, lines []domain.DetailLine) error {
	ctx, span, start := r.start(ctx, "InsertDetails", "insert_order_details",
		attribute.Int("detail.count", len(lines)),
	)
	defer span.End()

	err := r.repo.InsertDetails(ctx, lines)
	r.finish(ctx, span, "insert_order_details", start, err)
	return err
}

func (r *ObservableRepository) FindHeaders(ctx context.Context, number string) ([]domain.OrderHeaderView, error) {
	ctx, span, start := r.start(ctx, "FindHeaders", "select_orders",
		attribute.String("order.numero_orden", number),
	)
	defer span.End()

	headers, err := r.repo.FindHeaders(ctx, number)
	r.finish(ctx, span, "select_orders", start, err)
	if err != nil {
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(headers)))
	return headers, nil
}

func (r *ObservableRepository) FindDetails(ctx context.Context, orderID int64) ([]domain.DetailLineView, error) {
	ctx, span, start := r.start(ctx, "FindDetails", "select_order_details",
		attribute.Int64("order.id", orderID),
	)
	defer span.End()

	details, err := r.repo.FindDetails(ctx, orderID)
	r.finish(ctx, span, "select_order_details", start, err)
	if err != nil {
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.count", len(details)))
	return details, nil
}

func (r *ObservableRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	ctx, span, start := r.start(ctx, "FindByNumber", "select_order_by_number",
		attribute.String("order.numero_orden", number),
	)
	defer span.End()

	order, err := r.repo.FindByNumber(ctx, number)
	r.finish(ctx, span, "select_order_by_number", start, err)
	return order, err
}

func (r *ObservableRepository) UpdateStatus(ctx context.Context, number string, status domain.OrderStatus) (int64, error) {
	ctx, span, start := r.start(ctx, "UpdateStatus", "update_order_status",
		attribute.String("order.numero_orden", number),
		attribute.String("order.new_status", string(status)),
	)
	defer span.End()

	affected, err := r.repo.UpdateStatus(ctx, number, status)
	r.finish(ctx, span, "update_order_status", start, err)
	if err != nil {
		return 0, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int64("result.rows_affected", affected))
	return affected, nil
}

func (r *ObservableRepository) DeleteDetails(ctx context.Context, orderID int64) error {
	ctx, span, start := r.start(ctx, "DeleteDetails", "delete_order_details",
		attribute.Int64("order.id", orderID),
	)
	defer span.End()

	err := r.repo.DeleteDetails(ctx, orderID)
	r.finish(ctx, span, "delete_order_details", start, err)
	return err
}

func (r *ObservableRepository) DeleteHeader(ctx context.Context, orderID int64) error {
	ctx, span, start := r.start(ctx, "DeleteHeader", "delete_order_header",
		attribute.Int64("order.id", orderID),
	)
	defer span.End()

	err := r.repo.DeleteHeader(ctx, orderID)
	r.finish(ctx, span, "delete_order_header", start, err)
	return err
}

func (r *ObservableRepository) Ping(ctx context.Context) error {
	return r.repo.Ping(ctx)
}
