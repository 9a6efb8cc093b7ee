package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// AdjustStock es el único camino de escritura de CurrentStock y lo invoca
// exclusivamente el journal de movimientos, dentro de una transacción.
type ItemRepository interface {
	Create(item *entity.Item) error // ErrDuplicate si el SKU ya existe
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del item (SELECT FOR UPDATE). Solo tiene sentido dentro de una tx.
	GetForUpdate(id string) (*entity.Item, error)
	Update(item *entity.Item) error // datos maestros; nunca stock
	UpdateCost(itemID string, cost decimal.Decimal) error
	// AdjustStock aplica un delta con signo y devuelve el stock resultante.
	// Rechaza transaccionalmente un resultado negativo (ErrInsufficientStock): no hay clamp a 0.
	AdjustStock(itemID string, delta int64) (int64, error)
	SoftDelete(id string, at time.Time) error
	List(limit, offset int) ([]*entity.Item, error)
	// ListLowStock devuelve items activos con CurrentStock <= MinimumStock, mayor déficit primero.
	ListLowStock() ([]*entity.Item, error)
}
