package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

// PurchaseRequestUseCase workflow de solicitudes de compra (requisición interna).
// Aprobar o rechazar NO afecta stock: solo cambia estado y estampa quién decidió.
type PurchaseRequestUseCase struct {
	txRunner repository.TxRunner
	repo     repository.PurchaseRequestRepository // lecturas fuera de tx
	items    repository.ItemRepository
	recorder *audit.Recorder
}

// NewPurchaseRequestUseCase construye el caso de uso.
func NewPurchaseRequestUseCase(
	txRunner repository.TxRunner,
	repo repository.PurchaseRequestRepository,
	items repository.ItemRepository,
	recorder *audit.Recorder,
) *PurchaseRequestUseCase {
	return &PurchaseRequestUseCase{txRunner: txRunner, repo: repo, items: items, recorder: recorder}
}

// CreatePurchaseRequestInput datos de creación.
type CreatePurchaseRequestInput struct {
	Number      string
	RequestDate time.Time
	Notes       string
	Lines       []LineInput
}

// Create valida y persiste cabecera + líneas en una transacción. Si cualquier
// línea falla la validación no se persiste nada.
func (uc *PurchaseRequestUseCase) Create(ctx context.Context, caller audit.Caller, in CreatePurchaseRequestInput) (*entity.PurchaseRequest, error) {
	if in.Number == "" {
		return nil, domain.NewValidationError("number", "es requerido")
	}
	if err := validateLines(uc.items, in.Lines); err != nil {
		return nil, err
	}

	now := time.Now()
	requestDate := in.RequestDate
	if requestDate.IsZero() {
		requestDate = now
	}
	pr := &entity.PurchaseRequest{
		ID:          uuid.New().String(),
		Number:      in.Number,
		RequestDate: requestDate,
		Notes:       in.Notes,
		Status:      entity.PRStatusPending,
		RequestedBy: caller.Actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, l := range in.Lines {
		pr.Items = append(pr.Items, entity.PurchaseRequestItem{
			ID:        uuid.New().String(),
			RequestID: pr.ID,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
		})
	}

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.PurchaseRequests.Create(pr)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:   entity.AuditActionCreated,
		Entity:   entity.AuditEntityPurchaseRequest,
		EntityID: pr.ID,
		NewValues: map[string]any{
			"number": pr.Number,
			"status": pr.Status,
			"lines":  len(pr.Items),
		},
	})
	return pr, nil
}

// Approve transición pending→approved. Sin efecto de stock.
func (uc *PurchaseRequestUseCase) Approve(ctx context.Context, caller audit.Caller, id string) (*entity.PurchaseRequest, error) {
	return uc.decide(ctx, caller, id, entity.PRStatusApproved, entity.AuditActionApproved)
}

// Reject transición pending→rejected. Sin efecto de stock.
func (uc *PurchaseRequestUseCase) Reject(ctx context.Context, caller audit.Caller, id string) (*entity.PurchaseRequest, error) {
	return uc.decide(ctx, caller, id, entity.PRStatusRejected, entity.AuditActionRejected)
}

// decide bloquea la cabecera, re-verifica que siga pending (contra carreras) y
// estampa el estado terminal. Repetir la decisión sobre un estado terminal es un
// no-op que devuelve ErrInvalidState sin mutar nada.
func (uc *PurchaseRequestUseCase) decide(ctx context.Context, caller audit.Caller, id, status, action string) (*entity.PurchaseRequest, error) {
	now := time.Now()
	var pr *entity.PurchaseRequest
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		pr, err = tx.PurchaseRequests.GetForUpdate(id)
		if err != nil {
			return err
		}
		if pr == nil {
			return domain.ErrNotFound
		}
		if !pr.Pending() {
			return domain.ErrInvalidState
		}
		return tx.PurchaseRequests.SetDecision(id, status, caller.Actor.ID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:   action,
		Entity:   entity.AuditEntityPurchaseRequest,
		EntityID: id,
		OldValues: map[string]any{
			"status": entity.PRStatusPending,
		},
		NewValues: map[string]any{
			"status":      status,
			"approved_by": caller.Actor.ID,
			"approved_at": now.Format(time.RFC3339),
		},
	})

	deciderID := caller.Actor.ID
	pr.Status = status
	pr.ApprovedBy = &deciderID
	pr.ApprovedAt = &now
	return pr, nil
}

// GetByID obtiene una solicitud con sus líneas (nil si no existe).
func (uc *PurchaseRequestUseCase) GetByID(id string) (*entity.PurchaseRequest, error) {
	return uc.repo.GetByID(id)
}

// List lista solicitudes con paginación.
func (uc *PurchaseRequestUseCase) List(limit, offset int) ([]*entity.PurchaseRequest, error) {
	return uc.repo.List(limit, offset)
}

// LatestNumber devuelve el número de la solicitud más reciente y su sufijo numérico
// (sugerencia de siguiente número para el cliente; no reserva nada).
func (uc *PurchaseRequestUseCase) LatestNumber() (string, int, error) {
	number, err := uc.repo.LatestNumber()
	if err != nil {
		return "", 0, err
	}
	return number, NumericSuffix(number), nil
}
