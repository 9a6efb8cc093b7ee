package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de reposición a proveedor.
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusReceived  = "received"
	OrderStatusCancelled = "cancelled"
)

// Order orden de reposición a proveedor (PO). Su aprobación crea un movimiento IN
// por línea referenciando el PONumber. TotalAmount es derivado: Σ subtotales de línea.
type Order struct {
	ID           string
	PONumber     string // único
	SupplierID   string
	SupplierName string // denormalizado para listados
	OrderDate    time.Time
	Status       string
	TotalAmount  decimal.Decimal
	CreatedBy    string
	ApprovedBy   *string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Items        []OrderItem
}

// OrderItem línea de orden de reposición. Subtotal = Quantity × UnitCost.
type OrderItem struct {
	ID       string
	OrderID  string
	ItemID   string
	Quantity int64
	UnitCost decimal.Decimal
	Subtotal decimal.Decimal
}

// Pending indica si la orden aún admite transiciones y edición de cabecera.
func (o *Order) Pending() bool { return o.Status == OrderStatusPending }
