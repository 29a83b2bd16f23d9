package domain

import (
	"strings"
	"time"
)

// OrderStatus captures the lifecycle of a purchase order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pendiente"
	StatusApproved  OrderStatus = "aprobado"
	StatusCanceled  OrderStatus = "cancelado"
	StatusFulfilled OrderStatus = "realizado"
)

// DateLayout is the wire format of Order.Date.
const DateLayout = "2006-01-02"

// ValidStatuses lists every accepted status value.
var ValidStatuses = []OrderStatus{StatusPending, StatusApproved, StatusCanceled, StatusFulfilled}

// IsValid reports whether s is one of the accepted status values.
func (s OrderStatus) IsValid() bool {
	for _, valid := range ValidStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// Order is the purchase order header as persisted in ordenes_compra.
type Order struct {
	ID         int64       `json:"id"`
	Number     string      `json:"numero_orden"`
	Date       time.Time   `json:"fecha"`
	SupplierID int64       `json:"proveedor_id"`
	Status     OrderStatus `json:"estado"`
}

// Validate ensures the header carries the fields the store requires.
func (o Order) Validate() error {
	if strings.TrimSpace(o.Number) == "" {
		return NewValidationError("numero_orden is required")
	}
	if o.SupplierID == 0 {
		return NewValidationError("proveedor_id is required")
	}
	if !o.Status.IsValid() {
		return NewValidationError(MsgInvalidStatus)
	}
	return nil
}

// IsDeletable indicates whether the order may be removed.
func (o Order) IsDeletable() bool {
	return o.Status == StatusPending
}

// DetailLine is a single row of detalle_orden.
type DetailLine struct {
	OrderID   int64 `json:"orden_id"`
	ProductID int64 `json:"producto_id"`
	Quantity  int64 `json:"cantidad"`
}

// Supplier is read-only reference data from proveedores.
type Supplier struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// OrderHeaderView is an order header joined with its supplier.
type OrderHeaderView struct {
	Order
	Supplier Supplier
}

// DetailLineView is a detail line joined with its product name.
type DetailLineView struct {
	ProductID   int64  `json:"producto_id"`
	ProductName string `json:"nombre_producto"`
	Quantity    int64  `json:"cantidad"`
}

// OrderView is the enriched representation returned by listings.
type OrderView struct {
	ID       int64            `json:"id"`
	Number   string           `json:"numero_orden"`
	Date     string           `json:"fecha"`
	Status   OrderStatus      `json:"estado"`
	Supplier Supplier         `json:"proveedor"`
	Details  []DetailLineView `json:"detalle"`
}

// NewOrderView assembles the enriched view from a joined header and its lines.
func NewOrderView(header OrderHeaderView, details []DetailLineView) OrderView {
	if details == nil {
		details = []DetailLineView{}
	}
	return OrderView{
		ID:       header.ID,
		Number:   header.Number,
		Date:     header.Date.Format(DateLayout),
		Status:   header.Status,
		Supplier: header.Supplier,
		Details:  details,
	}
}
