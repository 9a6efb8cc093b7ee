package postgres

import (
	"context"
	"fmt"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo implementación de AuditLogRepository sobre PostgreSQL.
// Sumidero append-only: solo INSERT y SELECT.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador del registro de auditoría. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create persiste una entrada inmutable del registro.
func (r *AuditLogRepo) Create(l *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, user_name, user_role, entity_type, entity_id, action,
			description, old_values, new_values, changes, ip_address, user_agent, module, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.UserID, l.UserName, l.UserRole, string(l.EntityType), l.EntityID, l.Action,
		l.Description, l.OldValues, l.NewValues, l.Changes, l.IPAddress, l.UserAgent, l.Module, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List lista entradas según filtro, más recientes primero.
func (r *AuditLogRepo) List(f repository.AuditFilter) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, user_id, user_name, user_role, entity_type, entity_id, action,
			description, old_values, new_values, changes, ip_address, user_agent, module, created_at
		FROM audit_logs WHERE 1=1`
	args := []any{}
	n := 0
	if f.EntityType != "" {
		n++
		query += fmt.Sprintf(" AND entity_type = $%d", n)
		args = append(args, f.EntityType)
	}
	if f.Action != "" {
		n++
		query += fmt.Sprintf(" AND action = $%d", n)
		args = append(args, f.Action)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var entityType string
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.UserName, &l.UserRole, &entityType, &l.EntityID, &l.Action,
			&l.Description, &l.OldValues, &l.NewValues, &l.Changes, &l.IPAddress, &l.UserAgent, &l.Module, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		l.EntityType = entity.AuditEntity(entityType)
		list = append(list, &l)
	}
	return list, rows.Err()
}
