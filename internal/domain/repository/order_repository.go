package repository

import (
	"time"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes de reposición (DIP).
type OrderRepository interface {
	// Create persiste cabecera y líneas en la misma transacción. ErrDuplicate si PONumber ya existe.
	Create(o *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de cabecera (SELECT FOR UPDATE). Solo dentro de una tx.
	GetForUpdate(id string) (*entity.Order, error)
	// UpdateHeader actualiza campos de cabecera editables (fecha, proveedor). Las líneas son inmutables.
	UpdateHeader(o *entity.Order) error
	SetStatus(id, status string) error
	// SetApproved marca approved y estampa aprobador y fecha.
	SetApproved(id, approverID string, at time.Time) error
	List(limit, offset int) ([]*entity.Order, error)
	// LatestNumber devuelve el PONumber de la orden creada más recientemente ("" si no hay).
	LatestNumber() (string, error)
}
