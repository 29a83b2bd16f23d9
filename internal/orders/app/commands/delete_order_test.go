package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dejobratic/ordenes/internal/orders/app/commands"
	"github.com/dejobratic/ordenes/internal/orders/domain"
)

func orderWithStatus(status domain.OrderStatus) func(context.Context, string) (*domain.Order, error) {
	return func(_ context.Context, number string) (*domain.Order, error) {
		return &domain.Order{ID: 9, Number: number, SupplierID: 7, Status: status}, nil
	}
}

func TestDeleteOrder(t *testing.T) {
	t.Run("deletes details before header", func(t *testing.T) {
		repo := &mockRepository{findByNumberFn: orderWithStatus(domain.StatusPending)}
		events := &mockEventBus{}
		handler := commands.NewDeleteOrderCommandHandler(repo, events)

		order, err := handler.Handle(context.Background(), commands.DeleteOrderCommand{Number: "PO-1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if order.ID != 9 {
			t.Errorf("expected deleted order 9, got %d", order.ID)
		}

		want := "FindByNumber,DeleteDetails,DeleteHeader"
		if got := strings.Join(repo.calls, ","); got != want {
			t.Errorf("expected calls %s, got %s", want, got)
		}
		if len(events.deleted) != 1 {
			t.Errorf("expected one deleted event, got %d", len(events.deleted))
		}
	})

	t.Run("missing order is not found", func(t *testing.T) {
		repo := &mockRepository{}
		handler := commands.NewDeleteOrderCommandHandler(repo, &mockEventBus{})

		_, err := handler.Handle(context.Background(), commands.DeleteOrderCommand{Number: "PO-404"})

		var notFoundErr *domain.NotFoundError
		if !errors.As(err, &notFoundErr) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if notFoundErr.Number != "PO-404" {
			t.Errorf("expected number PO-404, got %s", notFoundErr.Number)
		}
	})

	t.Run("non-pending orders are kept", func(t *testing.T) {
		for _, status := range []domain.OrderStatus{domain.StatusApproved, domain.StatusCanceled, domain.StatusFulfilled} {
			repo := &mockRepository{findByNumberFn: orderWithStatus(status)}
			events := &mockEventBus{}
			handler := commands.NewDeleteOrderCommandHandler(repo, events)

			_, err := handler.Handle(context.Background(), commands.DeleteOrderCommand{Number: "PO-1"})

			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) || validationErr.Message != domain.MsgOrderNotPending {
				t.Errorf("status %s: expected not pending error, got %v", status, err)
			}
			if len(repo.calls) != 1 {
				t.Errorf("status %s: expected lookup only, got %v", status, repo.calls)
			}
			if len(events.deleted) != 0 {
				t.Errorf("status %s: expected no event", status)
			}
		}
	})

	t.Run("lookup failure is a persistence error", func(t *testing.T) {
		repo := &mockRepository{
			findByNumberFn: func(context.Context, string) (*domain.Order, error) {
				return nil, errors.New("connection reset")
			},
		}
		handler := commands.NewDeleteOrderCommandHandler(repo, &mockEventBus{})

		_, err := handler.Handle(context.Background(), commands.DeleteOrderCommand{Number: "PO-1"})

		var persistenceErr *domain.PersistenceError
		if !errors.As(err, &persistenceErr) {
			t.Fatalf("expected PersistenceError, got %v", err)
		}
	})

	t.Run("header failure after details is not compensated", func(t *testing.T) {
		repo := &mockRepository{
			findByNumberFn: orderWithStatus(domain.StatusPending),
			deleteHeaderFn: func(context.Context, int64) error {
				return errors.New("lock timeout")
			},
		}
		events := &mockEventBus{}
		handler := commands.NewDeleteOrderCommandHandler(repo, events)

		_, err := handler.Handle(context.Background(), commands.DeleteOrderCommand{Number: "PO-1"})

		var persistenceErr *domain.PersistenceError
		if !errors.As(err, &persistenceErr) {
			t.Fatalf("expected PersistenceError, got %v", err)
		}
		if got := strings.Join(repo.calls, ","); got != "FindByNumber,DeleteDetails,DeleteHeader" {
			t.Errorf("unexpected calls %s", got)
		}
		if len(events.deleted) != 0 {
			t.Error("expected no event on failure")
		}
	})
}
