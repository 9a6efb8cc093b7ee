package audit

import (
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

// Reader consultas de solo lectura sobre el registro de auditoría.
type Reader struct {
	repo repository.AuditLogRepository
}

// NewReader construye el lector.
func NewReader(repo repository.AuditLogRepository) *Reader {
	return &Reader{repo: repo}
}

// List lista entradas según filtro, con paginación acotada.
func (r *Reader) List(f repository.AuditFilter) ([]*entity.AuditLog, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	list, err := r.repo.List(f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.AuditLog{}
	}
	return list, nil
}
