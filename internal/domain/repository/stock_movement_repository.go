package repository

import (
	"time"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// MovementFilter criterios de listado de movimientos.
type MovementFilter struct {
	ItemID string
	Type   string // IN, OUT o vacío
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementWithItem movimiento con el nombre del item resuelto para listados.
type MovementWithItem struct {
	entity.StockMovement
	ItemSKU  string
	ItemName string
}

// StockMovementRepository define el puerto de persistencia para movimientos de stock (DIP).
// La tabla es append-only: no existe camino de actualización ni borrado.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*MovementWithItem, error)
	List(f MovementFilter) ([]*MovementWithItem, error)
}
