package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un item.
const (
	ItemStatusActive   = "active"
	ItemStatusInactive = "inactive"
)

// Item representa un SKU del inventario con su stock actual y umbrales de reorden.
// CurrentStock es derivado: debe ser igual a la suma con signo de todos sus movimientos
// desde la creación (sembrado con el stock de apertura). Solo el journal de movimientos
// escribe CurrentStock; las órdenes nunca lo tocan directamente.
type Item struct {
	ID              string
	SKU             string // código único
	Name            string
	Type            string
	Category        string
	Brand           string
	Unit            string // pcs, box, kg...
	Cost            decimal.Decimal
	SellingPrice    decimal.Decimal
	CurrentStock    int64
	MinimumStock    int64
	MaximumStock    int64
	ReorderQuantity int64
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time // soft delete: un item referenciado por movimientos u órdenes nunca se borra físicamente
}

// Deleted indica si el item fue dado de baja (soft delete).
func (i *Item) Deleted() bool { return i.DeletedAt != nil }

// BelowMinimum indica si el stock actual está en o bajo el mínimo configurado.
func (i *Item) BelowMinimum() bool { return i.CurrentStock <= i.MinimumStock }
