package repository

import (
	"time"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// SalesOrderRepository define el puerto de persistencia para órdenes de venta (DIP).
type SalesOrderRepository interface {
	// Create persiste cabecera y líneas en la misma transacción. ErrDuplicate si SONumber ya existe.
	Create(o *entity.SalesOrder) error
	GetByID(id string) (*entity.SalesOrder, error)
	// GetForUpdate bloquea la fila de cabecera (SELECT FOR UPDATE). Solo dentro de una tx.
	GetForUpdate(id string) (*entity.SalesOrder, error)
	// UpdateHeader actualiza campos de cabecera editables (fecha, cliente). Las líneas son inmutables.
	UpdateHeader(o *entity.SalesOrder) error
	SetStatus(id, status string) error
	// SetFulfilled marca fulfilled y estampa quién despachó y cuándo.
	SetFulfilled(id, userID string, at time.Time) error
	List(limit, offset int) ([]*entity.SalesOrder, error)
	// LatestNumber devuelve el SONumber de la orden creada más recientemente ("" si no hay).
	LatestNumber() (string, error)
}
