package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, po_number, supplier_id, supplier_name, order_date, status, total_amount,
		created_by, approved_by, approved_at, created_at, updated_at`

// OrderRepo implementación de OrderRepository (órdenes de reposición) sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes de reposición. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste cabecera y líneas. Dentro de una tx ambos inserts son atómicos.
func (r *OrderRepo) Create(o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.PONumber, o.SupplierID, o.SupplierName, o.OrderDate, o.Status, o.TotalAmount,
		o.CreatedBy, o.ApprovedBy, o.ApprovedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	for _, line := range o.Items {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO order_items (id, order_id, item_id, quantity, unit_cost, subtotal) VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID, line.OrderID, line.ItemID, line.Quantity, line.UnitCost, line.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden con sus líneas (nil si no existe).
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.getOne(`SELECT ` + orderColumns + ` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden bloqueando su cabecera (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	o, err := r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	if err != nil && isLockTimeout(err) {
		return nil, domain.ErrConflict
	}
	return o, err
}

func (r *OrderRepo) getOne(query, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.PONumber, &o.SupplierID, &o.SupplierName, &o.OrderDate, &o.Status, &o.TotalAmount,
		&o.CreatedBy, &o.ApprovedBy, &o.ApprovedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) loadItems(o *entity.Order) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, order_id, item_id, quantity, unit_cost, subtotal FROM order_items WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.OrderItem
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.Quantity, &line.UnitCost, &line.Subtotal); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, line)
	}
	return rows.Err()
}

// UpdateHeader actualiza campos editables de cabecera. Las líneas son inmutables.
func (r *OrderRepo) UpdateHeader(o *entity.Order) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE orders SET supplier_id = $2, supplier_name = $3, order_date = $4, updated_at = $5 WHERE id = $1`,
		o.ID, o.SupplierID, o.SupplierName, o.OrderDate, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order header: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus cambia el estado de la orden.
func (r *OrderRepo) SetStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetApproved marca approved estampando aprobador y fecha.
func (r *OrderRepo) SetApproved(id, approverID string, at time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, approved_by = $3, approved_at = $4, updated_at = $4 WHERE id = $1`,
		id, entity.OrderStatusApproved, approverID, at,
	)
	if err != nil {
		return fmt.Errorf("set order approved: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes (solo cabeceras), más recientes primero.
func (r *OrderRepo) List(limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.PONumber, &o.SupplierID, &o.SupplierName, &o.OrderDate, &o.Status, &o.TotalAmount,
			&o.CreatedBy, &o.ApprovedBy, &o.ApprovedAt, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// LatestNumber devuelve el PONumber de la orden creada más recientemente ("" si no hay).
func (r *OrderRepo) LatestNumber() (string, error) {
	var number string
	err := r.q.QueryRow(context.Background(),
		`SELECT po_number FROM orders ORDER BY created_at DESC LIMIT 1`,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest order number: %w", err)
	}
	return number, nil
}
