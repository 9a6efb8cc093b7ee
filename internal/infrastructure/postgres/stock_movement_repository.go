package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository sobre PostgreSQL.
// La tabla es append-only: solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento inmutable.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, item_id, type, quantity, reference, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ItemID, m.Type, m.Quantity, m.Reference, m.Note, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con los datos del item resueltos (nil si no existe).
func (r *StockMovementRepo) GetByID(id string) (*repository.MovementWithItem, error) {
	query := `
		SELECT m.id, m.item_id, m.type, m.quantity, m.reference, m.note, m.created_at, m.created_by,
			i.sku, i.name
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id
		WHERE m.id = $1`
	var mv repository.MovementWithItem
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&mv.ID, &mv.ItemID, &mv.Type, &mv.Quantity, &mv.Reference, &mv.Note,
		&mv.CreatedAt, &mv.CreatedBy, &mv.ItemSKU, &mv.ItemName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &mv, nil
}

// List lista movimientos según filtro, más recientes primero.
func (r *StockMovementRepo) List(f repository.MovementFilter) ([]*repository.MovementWithItem, error) {
	query := `
		SELECT m.id, m.item_id, m.type, m.quantity, m.reference, m.note, m.created_at, m.created_by,
			i.sku, i.name
		FROM stock_movements m
		JOIN items i ON i.id = m.item_id
		WHERE 1=1`
	args := []any{}
	n := 0
	add := func(cond string, v any) {
		n++
		args = append(args, v)
		query += fmt.Sprintf(" AND "+cond, n)
	}
	if f.ItemID != "" {
		add("m.item_id = $%d", f.ItemID)
	}
	if f.Type != "" {
		add("m.type = $%d", f.Type)
	}
	if f.From != nil {
		add("m.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("m.created_at <= $%d", *f.To)
	}
	query += fmt.Sprintf(" ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*repository.MovementWithItem
	for rows.Next() {
		var mv repository.MovementWithItem
		if err := rows.Scan(
			&mv.ID, &mv.ItemID, &mv.Type, &mv.Quantity, &mv.Reference, &mv.Note,
			&mv.CreatedAt, &mv.CreatedBy, &mv.ItemSKU, &mv.ItemName,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &mv)
	}
	return list, rows.Err()
}
