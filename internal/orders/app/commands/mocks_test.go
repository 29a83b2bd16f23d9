package commands_test

import (
	"context"

	"github.com/dejobratic/ordenes/internal/orders/domain"
	"github.com/dejobratic/ordenes/internal/orders/ports"
)

type mockRepository struct {
	insertHeaderFn  func(ctx context.Context, order domain.Order) (int64, error)
	insertDetailsFn func(ctx context.Context, lines []domain.DetailLine) error
	findByNumberFn  func(ctx context.Context, number string) (*domain.Order, error)
	updateStatusFn  func(ctx context.Context, number string, status domain.OrderStatus) (int64, error)
	deleteDetailsFn func(ctx context.Context, orderID int64) error
	deleteHeaderFn  func(ctx context.Context, orderID int64) error

	calls []string
}

func (m *mockRepository) InsertHeader(ctx context.Context, order domain.Order) (int64, error) {
	m.calls = append(m.calls, "InsertHeader")
	if m.insertHeaderFn != nil {
		return m.insertHeaderFn(ctx, order)
	}
	return 1, nil
}

func (m *mockRepository) InsertDetails(ctx context.Context, lines []domain.DetailLine) error {
	m.calls = append(m.calls, "InsertDetails")
	if m.insertDetailsFn != nil {
		return m.insertDetailsFn(ctx, lines)
	}
	return nil
}

func (m *mockRepository) FindHeaders(context.Context, string) ([]domain.OrderHeaderView, error) {
	m.calls = append(m.calls, "FindHeaders")
	return nil, nil
}

func (m *mockRepository) FindDetails(context.Context, int64) ([]domain.DetailLineView, error) {
	m.calls = append(m.calls, "FindDetails")
	return nil, nil
}

func (m *mockRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	m.calls = append(m.calls, "FindByNumber")
	if m.findByNumberFn != nil {
		return m.findByNumberFn(ctx, number)
	}
	return nil, ports.ErrNotFound
}

func (m *mockRepository) UpdateStatus(ctx context.Context, number string, status domain.OrderStatus) (int64, error) {
	m.calls = append(m.calls, "UpdateStatus")
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, number, status)
	}
	return 1, nil
}

func (m *mockRepository) DeleteDetails(ctx context.Context, orderID int64) error {
	m.calls = append(m.calls, "DeleteDetails")
	if m.deleteDetailsFn != nil {
		return m.deleteDetailsFn(ctx, orderID)
	}
	return nil
}

func (m *mockRepository) DeleteHeader(ctx context.Context, orderID int64) error {
	m.calls = append(m.calls, "DeleteHeader")
	if m.deleteHeaderFn != nil {
		return m.deleteHeaderFn(ctx, orderID)
	}
	return nil
}

func (m *mockRepository) Ping(context.Context) error {
	return nil
}

type mockEventBus struct {
	publishErr error

	created       []domain.Order
	statusChanged []string
	deleted       []domain.Order
}

func (m *mockEventBus) PublishOrderCreated(_ context.Context, order domain.Order) error {
	m.created = append(m.created, order)
	return m.publishErr
}

func (m *mockEventBus) PublishOrderStatusChanged(_ context.Context, number string, status domain.OrderStatus) error {
	m.statusChanged = append(m.statusChanged, number+":"+string(status))
	return m.publishErr
}

func (m *mockEventBus) PublishOrderDeleted(_ context.Context, order domain.Order) error {
	m.deleted = append(m.deleted, order)
	return m.publishErr
}
