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

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

const prColumns = `id, number, request_date, notes, status, requested_by, approved_by, approved_at, created_at, updated_at`

// PurchaseRequestRepo implementación de PurchaseRequestRepository sobre PostgreSQL.
type PurchaseRequestRepo struct {
	q Querier
}

// NewPurchaseRequestRepository construye el adaptador de solicitudes de compra. Pasar pool o tx (Querier).
func NewPurchaseRequestRepository(q Querier) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{q: q}
}

// Create persiste cabecera y líneas. Dentro de una tx ambos inserts son atómicos.
func (r *PurchaseRequestRepo) Create(pr *entity.PurchaseRequest) error {
	query := `
		INSERT INTO purchase_requests (` + prColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		pr.ID, pr.Number, pr.RequestDate, pr.Notes, pr.Status, pr.RequestedBy,
		pr.ApprovedBy, pr.ApprovedAt, pr.CreatedAt, pr.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase request: %w", err)
	}
	for _, line := range pr.Items {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO purchase_request_items (id, request_id, item_id, quantity) VALUES ($1, $2, $3, $4)`,
			line.ID, line.RequestID, line.ItemID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert purchase request item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una solicitud con sus líneas (nil si no existe).
func (r *PurchaseRequestRepo) GetByID(id string) (*entity.PurchaseRequest, error) {
	return r.getOne(`SELECT ` + prColumns + ` FROM purchase_requests WHERE id = $1`, id)
}

// GetForUpdate obtiene la solicitud bloqueando su cabecera (SELECT FOR UPDATE).
func (r *PurchaseRequestRepo) GetForUpdate(id string) (*entity.PurchaseRequest, error) {
	pr, err := r.getOne(`SELECT `+prColumns+` FROM purchase_requests WHERE id = $1 FOR UPDATE`, id)
	if err != nil && isLockTimeout(err) {
		return nil, domain.ErrConflict
	}
	return pr, err
}

func (r *PurchaseRequestRepo) getOne(query, id string) (*entity.PurchaseRequest, error) {
	var pr entity.PurchaseRequest
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&pr.ID, &pr.Number, &pr.RequestDate, &pr.Notes, &pr.Status, &pr.RequestedBy,
		&pr.ApprovedBy, &pr.ApprovedAt, &pr.CreatedAt, &pr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase request: %w", err)
	}
	if err := r.loadItems(&pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *PurchaseRequestRepo) loadItems(pr *entity.PurchaseRequest) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, request_id, item_id, quantity FROM purchase_request_items WHERE request_id = $1`,
		pr.ID,
	)
	if err != nil {
		return fmt.Errorf("load purchase request items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var line entity.PurchaseRequestItem
		if err := rows.Scan(&line.ID, &line.RequestID, &line.ItemID, &line.Quantity); err != nil {
			return fmt.Errorf("scan purchase request item: %w", err)
		}
		pr.Items = append(pr.Items, line)
	}
	return rows.Err()
}

// SetDecision estampa el estado terminal, quién decidió y cuándo.
func (r *PurchaseRequestRepo) SetDecision(id, status, deciderID string, at time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE purchase_requests SET status = $2, approved_by = $3, approved_at = $4, updated_at = $4 WHERE id = $1`,
		id, status, deciderID, at,
	)
	if err != nil {
		return fmt.Errorf("set purchase request decision: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista solicitudes (solo cabeceras), más recientes primero.
func (r *PurchaseRequestRepo) List(limit, offset int) ([]*entity.PurchaseRequest, error) {
	query := `SELECT ` + prColumns + ` FROM purchase_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseRequest
	for rows.Next() {
		var pr entity.PurchaseRequest
		if err := rows.Scan(
			&pr.ID, &pr.Number, &pr.RequestDate, &pr.Notes, &pr.Status, &pr.RequestedBy,
			&pr.ApprovedBy, &pr.ApprovedAt, &pr.CreatedAt, &pr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase request: %w", err)
		}
		list = append(list, &pr)
	}
	return list, rows.Err()
}

// LatestNumber devuelve el Number de la solicitud creada más recientemente ("" si no hay).
func (r *PurchaseRequestRepo) LatestNumber() (string, error) {
	var number string
	err := r.q.QueryRow(context.Background(),
		`SELECT number FROM purchase_requests ORDER BY created_at DESC LIMIT 1`,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest purchase request number: %w", err)
	}
	return number, nil
}
