package repository

import (
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// AuditFilter criterios de listado del registro de auditoría.
type AuditFilter struct {
	EntityType string
	Action     string
	Limit      int
	Offset     int
}

// AuditLogRepository define el puerto de persistencia del registro de auditoría (DIP).
// Sumidero append-only: no existe camino de actualización ni borrado.
type AuditLogRepository interface {
	Create(log *entity.AuditLog) error
	List(f AuditFilter) ([]*entity.AuditLog, error)
}
