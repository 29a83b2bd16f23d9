package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/dejobratic/ordenes/internal/orders/app/commands"
	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/metrics"
)

func newObservedMetrics(t *testing.T) (*metrics.Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := metrics.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return m, reader
}

// counterByOutcome sums a counter's points by their status attribute.
func counterByOutcome(t *testing.T, reader *sdkmetric.ManualReader, name string) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	result := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				status, _ := dp.Attributes.Value(attribute.Key("status"))
				result[status.AsString()] += dp.Value
			}
		}
	}
	return result
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestObservableCreateOrderHandler(t *testing.T) {
	m, reader := newObservedMetrics(t)
	repo := &mockRepository{}
	handler := commands.NewObservableCreateOrderHandler(
		commands.NewCreateOrderCommandHandler(repo, &mockEventBus{}),
		discardLogger(),
		m,
	)

	cmd := commands.CreateOrderCommand{
		Number:     "PO-1",
		SupplierID: 7,
		Details:    json.RawMessage(`[{"producto_id":3,"cantidad":1}]`),
	}
	if _, err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	cmd.SupplierID = 0
	if _, err := handler.Handle(context.Background(), cmd); err == nil {
		t.Fatal("expected validation error")
	}

	counts := counterByOutcome(t, reader, "orders_created_total")
	if counts["success"] != 1 || counts["error"] != 1 {
		t.Errorf("expected one success and one error, got %v", counts)
	}
}

func TestObservableUpdateStatusHandler(t *testing.T) {
	m, reader := newObservedMetrics(t)
	handler := commands.NewObservableUpdateStatusHandler(
		commands.NewUpdateStatusCommandHandler(&mockRepository{}, &mockEventBus{}),
		discardLogger(),
		m,
	)

	if err := handler.Handle(context.Background(), commands.UpdateStatusCommand{Number: "PO-1", Status: "aprobado"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	counts := counterByOutcome(t, reader, "order_status_updates_total")
	if counts["success"] != 1 {
		t.Errorf("expected one successful update, got %v", counts)
	}
}

func TestObservableDeleteOrderHandler(t *testing.T) {
	m, reader := newObservedMetrics(t)
	repo := &mockRepository{
		findByNumberFn: func(context.Context, string) (*domain.Order, error) {
			return nil, errors.New("connection reset")
		},
	}
	handler := commands.NewObservableDeleteOrderHandler(
		commands.NewDeleteOrderCommandHandler(repo, &mockEventBus{}),
		discardLogger(),
		m,
	)

	if _, err := handler.Handle(context.Background(), commands.DeleteOrderCommand{Number: "PO-1"}); err == nil {
		t.Fatal("expected error")
	}

	counts := counterByOutcome(t, reader, "orders_deleted_total")
	if counts["error"] != 1 {
		t.Errorf("expected one failed delete, got %v", counts)
	}
}
