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

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

const salesOrderColumns = `id, so_number, customer_id, customer_name, order_date, status, total_amount,
		created_by, fulfilled_by, fulfilled_at, created_at, updated_at`

// SalesOrderRepo implementación de SalesOrderRepository sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador de órdenes de venta. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create persiste cabecera y líneas. Dentro de una tx ambos inserts son atómicos.
func (r *SalesOrderRepo) Create(o *entity.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (` + salesOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.SONumber, o.CustomerID, o.CustomerName, o.OrderDate, o.Status, o.TotalAmount,
		o.CreatedBy, o.FulfilledBy, o.FulfilledAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	for _, line := range o.Items {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO sales_order_items (id, order_id, item_id, quantity, unit_price, subtotal) VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID, line.OrderID, line.ItemID, line.Quantity, line.UnitPrice, line.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert sales order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden de venta con sus líneas (nil si no existe).
func (r *SalesOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	return r.getOne(`SELECT ` + salesOrderColumns + ` FROM sales_orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden bloqueando su cabecera (SELECT FOR UPDATE).
func (r *SalesOrderRepo) GetForUpdate(id string) (*entity.SalesOrder, error) {
	o, err := r.getOne(`SELECT `+salesOrderColumns+` FROM sales_orders WHERE id = $1 FOR UPDATE`, id)
	if err != nil && isLockTimeout(err) {
		return nil, domain.ErrConflict
	}
	return o, err
}

func (r *SalesOrderRepo) getOne(query, id string) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.SONumber, &o.CustomerID, &o.CustomerName, &o.OrderDate, &o.Status, &o.TotalAmount,
		&o.CreatedBy, &o.FulfilledBy, &o.FulfilledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	if err := r.loadItems(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SalesOrderRepo) loadItems(o *entity.SalesOrder) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, order_id, item_id, quantity, unit_price, subtotal FROM sales_order_items WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("load sales order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.SalesOrderItem
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.Quantity, &line.UnitPrice, &line.Subtotal); err != nil {
			return fmt.Errorf("scan sales order item: %w", err)
		}
		o.Items = append(o.Items, line)
	}
	return rows.Err()
}

// UpdateHeader actualiza campos editables de cabecera. Las líneas son inmutables.
func (r *SalesOrderRepo) UpdateHeader(o *entity.SalesOrder) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales_orders SET customer_id = $2, customer_name = $3, order_date = $4, updated_at = $5 WHERE id = $1`,
		o.ID, o.CustomerID, o.CustomerName, o.OrderDate, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sales order header: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus cambia el estado de la orden.
func (r *SalesOrderRepo) SetStatus(id, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales_orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("set sales order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetFulfilled marca fulfilled estampando quién despachó y cuándo.
func (r *SalesOrderRepo) SetFulfilled(id, userID string, at time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales_orders SET status = $2, fulfilled_by = $3, fulfilled_at = $4, updated_at = $4 WHERE id = $1`,
		id, entity.SOStatusFulfilled, userID, at,
	)
	if err != nil {
		return fmt.Errorf("set sales order fulfilled: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes de venta (solo cabeceras), más recientes primero.
func (r *SalesOrderRepo) List(limit, offset int) ([]*entity.SalesOrder, error) {
	query := `SELECT ` + salesOrderColumns + ` FROM sales_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrder
	for rows.Next() {
		var o entity.SalesOrder
		if err := rows.Scan(
			&o.ID, &o.SONumber, &o.CustomerID, &o.CustomerName, &o.OrderDate, &o.Status, &o.TotalAmount,
			&o.CreatedBy, &o.FulfilledBy, &o.FulfilledAt, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// LatestNumber devuelve el SONumber de la orden creada más recientemente ("" si no hay).
func (r *SalesOrderRepo) LatestNumber() (string, error) {
	var number string
	err := r.q.QueryRow(context.Background(),
		`SELECT so_number FROM sales_orders ORDER BY created_at DESC LIMIT 1`,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest sales order number: %w", err)
	}
	return number, nil
}
