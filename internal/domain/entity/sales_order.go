package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta.
const (
	SOStatusPending   = "pending"
	SOStatusFulfilled = "fulfilled"
	SOStatusCancelled = "cancelled"
)

// SalesOrder orden de venta a cliente. Su despacho (fulfill) crea un movimiento OUT
// por línea referenciando el SONumber, solo si cada línea cabe en el stock actual
// al momento de la verificación atómica.
type SalesOrder struct {
	ID           string
	SONumber     string // único
	CustomerID   string
	CustomerName string // denormalizado para listados
	OrderDate    time.Time
	Status       string
	TotalAmount  decimal.Decimal
	CreatedBy    string
	FulfilledBy  *string
	FulfilledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Items        []SalesOrderItem
}

// SalesOrderItem línea de orden de venta. Subtotal = Quantity × UnitPrice.
type SalesOrderItem struct {
	ID        string
	OrderID   string
	ItemID    string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Pending indica si la orden aún admite transiciones y edición de cabecera.
func (o *SalesOrder) Pending() bool { return o.Status == SOStatusPending }
