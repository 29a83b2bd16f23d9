package kafka

import (
	"time"

	"github.com/dejobratic/ordenes/internal/orders/domain"
)

// EventType names an order lifecycle event.
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderDeleted       EventType = "order.deleted"
)

// DefaultOrdersTopic receives every order lifecycle event.
const DefaultOrdersTopic = "ordenes.compra.events"

// OrderEvent is the JSON payload published for each lifecycle change.
type OrderEvent struct {
	EventType  EventType          `json:"event_type"`
	OrderID    int64              `json:"orden_id,omitempty"`
	Number     string             `json:"numero_orden"`
	SupplierID int64              `json:"proveedor_id,omitempty"`
	Status     domain.OrderStatus `json:"estado"`
	Timestamp  time.Time          `json:"timestamp"`
}

func newOrderEvent(eventType EventType, order domain.Order, at time.Time) OrderEvent {
	return OrderEvent{
		EventType:  eventType,
		OrderID:    order.ID,
		Number:     order.Number,
		SupplierID: order.SupplierID,
		Status:     order.Status,
		Timestamp:  at.UTC(),
	}
}
