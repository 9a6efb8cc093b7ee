package repository

import (
	"time"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// PurchaseRequestRepository define el puerto de persistencia para solicitudes de compra (DIP).
type PurchaseRequestRepository interface {
	// Create persiste cabecera y líneas en la misma transacción. ErrDuplicate si Number ya existe.
	Create(pr *entity.PurchaseRequest) error
	GetByID(id string) (*entity.PurchaseRequest, error)
	// GetForUpdate bloquea la fila de cabecera (SELECT FOR UPDATE). Solo dentro de una tx.
	GetForUpdate(id string) (*entity.PurchaseRequest, error)
	// SetDecision estampa el estado terminal (approved/rejected), quién decidió y cuándo.
	SetDecision(id, status, deciderID string, at time.Time) error
	List(limit, offset int) ([]*entity.PurchaseRequest, error)
	// LatestNumber devuelve el Number de la solicitud creada más recientemente ("" si no hay).
	LatestNumber() (string, error)
}
