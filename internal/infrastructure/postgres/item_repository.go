package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, sku, name, type, category, brand, unit, cost, selling_price,
		current_stock, minimum_stock, maximum_stock, reorder_quantity, status,
		created_at, updated_at, deleted_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para items. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo item. El stock inicia en 0: la siembra llega por movimiento.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, sku, name, type, category, brand, unit, cost, selling_price,
			current_stock, minimum_stock, maximum_stock, reorder_quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, item.Type, item.Category, item.Brand, item.Unit,
		item.Cost, item.SellingPrice, item.CurrentStock, item.MinimumStock, item.MaximumStock,
		item.ReorderQuantity, item.Status, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un item por ID (nil si no existe). Incluye borrados: el caller decide.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetBySKU obtiene un item no borrado por SKU (nil si no existe).
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE sku = $1 AND deleted_at IS NULL`, sku)
}

// GetForUpdate obtiene el item y bloquea su fila (SELECT FOR UPDATE).
// Si el lock_timeout de sesión expira esperando, devuelve ErrConflict.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	item, err := r.getOne(`SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
	if err != nil && isLockTimeout(err) {
		return nil, domain.ErrConflict
	}
	return item, err
}

func (r *ItemRepo) getOne(query string, arg any) (*entity.Item, error) {
	var i entity.Item
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&i.ID, &i.SKU, &i.Name, &i.Type, &i.Category, &i.Brand, &i.Unit,
		&i.Cost, &i.SellingPrice, &i.CurrentStock, &i.MinimumStock, &i.MaximumStock,
		&i.ReorderQuantity, &i.Status, &i.CreatedAt, &i.UpdatedAt, &i.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &i, nil
}

// Update actualiza datos maestros. No toca current_stock ni cost: esos caminos
// son AdjustStock y UpdateCost respectivamente.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, type = $3, category = $4, brand = $5, unit = $6,
			selling_price = $7, minimum_stock = $8, maximum_stock = $9,
			reorder_quantity = $10, status = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Type, item.Category, item.Brand, item.Unit,
		item.SellingPrice, item.MinimumStock, item.MaximumStock,
		item.ReorderQuantity, item.Status, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo (promedio ponderado tras una recepción).
func (r *ItemRepo) UpdateCost(itemID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE items SET cost = $2, updated_at = now() WHERE id = $1`,
		itemID, cost,
	)
	if err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}
	return nil
}

// AdjustStock aplica un delta con signo y devuelve el stock resultante. El predicado
// current_stock + delta >= 0 hace que un resultado negativo no matchee ninguna fila:
// el rechazo es transaccional, nunca un clamp. Con cero filas afectadas se consulta
// el item para distinguir inexistente de insuficiente.
func (r *ItemRepo) AdjustStock(itemID string, delta int64) (int64, error) {
	query := `
		UPDATE items SET current_stock = current_stock + $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL AND current_stock + $2 >= 0
		RETURNING current_stock`
	var newStock int64
	err := r.q.QueryRow(context.Background(), query, itemID, delta).Scan(&newStock)
	if err == nil {
		return newStock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	var (
		sku, name string
		current   int64
	)
	probeErr := r.q.QueryRow(context.Background(),
		`SELECT sku, name, current_stock FROM items WHERE id = $1 AND deleted_at IS NULL`,
		itemID,
	).Scan(&sku, &name, &current)
	if probeErr != nil {
		if errors.Is(probeErr, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("adjust stock probe: %w", probeErr)
	}
	return 0, &domain.InsufficientStockError{
		ItemID:    itemID,
		SKU:       sku,
		Name:      name,
		Requested: -delta,
		Available: current,
	}
}

// SoftDelete marca el item como borrado conservando su historial.
func (r *ItemRepo) SoftDelete(id string, at time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE items SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista items no borrados con paginación.
func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items WHERE deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ListLowStock items activos con stock en o bajo el mínimo, mayor déficit primero.
func (r *ItemRepo) ListLowStock() ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE deleted_at IS NULL AND status = $1 AND current_stock <= minimum_stock
		ORDER BY (minimum_stock - current_stock) DESC, sku`
	rows, err := r.q.Query(context.Background(), query, entity.ItemStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		var i entity.Item
		if err := rows.Scan(
			&i.ID, &i.SKU, &i.Name, &i.Type, &i.Category, &i.Brand, &i.Unit,
			&i.Cost, &i.SellingPrice, &i.CurrentStock, &i.MinimumStock, &i.MaximumStock,
			&i.ReorderQuantity, &i.Status, &i.CreatedAt, &i.UpdatedAt, &i.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
