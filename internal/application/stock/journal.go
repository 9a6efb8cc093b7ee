package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/logger"
)

// Journal es el único escritor de stock: registrar un movimiento es la única vía
// legal de cambiar CurrentStock de un item, y movimiento + ajuste del ledger van
// siempre en la misma transacción.
type Journal struct {
	txRunner  repository.TxRunner
	movements repository.StockMovementRepository // lecturas fuera de tx (pool)
	items     repository.ItemRepository
	recorder  *audit.Recorder
	log       *logger.Logger
}

// NewJournal construye el journal de movimientos.
func NewJournal(
	txRunner repository.TxRunner,
	movements repository.StockMovementRepository,
	items repository.ItemRepository,
	recorder *audit.Recorder,
	log *logger.Logger,
) *Journal {
	return &Journal{
		txRunner:  txRunner,
		movements: movements,
		items:     items,
		recorder:  recorder,
		log:       log.WithComponent("stock-journal"),
	}
}

// MovementInput datos para registrar un movimiento dentro de una transacción.
type MovementInput struct {
	ItemID    string
	Type      string // entity.MovementTypeIN / OUT
	Quantity  int64  // > 0
	Reference string
	Note      string
	CreatedBy string
}

// AdjustmentInput entrada/salida manual de stock.
type AdjustmentInput struct {
	ItemID    string
	Quantity  int64
	Reference string
	Note      string
}

// RecordInTx registra un movimiento inmutable y ajusta el ledger del item, ambos
// dentro de la transacción del caller. Para OUT no re-verifica suficiencia: esa
// política pertenece al workflow, que ya verificó bajo lock de fila. El ledger
// rechaza de todos modos cualquier resultado negativo.
func (j *Journal) RecordInTx(tx repository.Tx, in MovementInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor a cero")
	}
	if in.Type != entity.MovementTypeIN && in.Type != entity.MovementTypeOUT {
		return nil, domain.NewValidationError("type", "debe ser IN u OUT")
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ItemID:    in.ItemID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		Note:      in.Note,
		CreatedAt: time.Now(),
		CreatedBy: in.CreatedBy,
	}
	if err := tx.Movements.Create(mov); err != nil {
		return nil, err
	}
	if _, err := tx.Items.AdjustStock(in.ItemID, mov.SignedQuantity()); err != nil {
		return nil, err
	}
	return mov, nil
}

// StockIn entrada manual: transacción propia con lock de fila sobre el item.
func (j *Journal) StockIn(ctx context.Context, caller audit.Caller, in AdjustmentInput) (*entity.StockMovement, error) {
	return j.manualAdjustment(ctx, caller, entity.MovementTypeIN, in)
}

// StockOut salida manual: verifica suficiencia bajo lock antes de registrar.
// Falla con InsufficientStock sin crear movimiento si la cantidad excede el stock.
func (j *Journal) StockOut(ctx context.Context, caller audit.Caller, in AdjustmentInput) (*entity.StockMovement, error) {
	return j.manualAdjustment(ctx, caller, entity.MovementTypeOUT, in)
}

func (j *Journal) manualAdjustment(ctx context.Context, caller audit.Caller, movType string, in AdjustmentInput) (*entity.StockMovement, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor a cero")
	}
	reference := in.Reference
	if reference == "" {
		reference = "manual"
	}

	var (
		mov      *entity.StockMovement
		oldStock int64
		newStock int64
	)
	err := j.txRunner.Run(ctx, func(tx repository.Tx) error {
		// Lock de fila: serializa ajustes concurrentes sobre el mismo item
		item, err := tx.Items.GetForUpdate(in.ItemID)
		if err != nil {
			return err
		}
		if item == nil || item.Deleted() {
			return domain.ErrNotFound
		}
		oldStock = item.CurrentStock
		if movType == entity.MovementTypeOUT && in.Quantity > item.CurrentStock {
			return &domain.InsufficientStockError{
				ItemID:    item.ID,
				SKU:       item.SKU,
				Name:      item.Name,
				Requested: in.Quantity,
				Available: item.CurrentStock,
			}
		}
		mov, err = j.RecordInTx(tx, MovementInput{
			ItemID:    in.ItemID,
			Type:      movType,
			Quantity:  in.Quantity,
			Reference: reference,
			Note:      in.Note,
			CreatedBy: caller.Actor.ID,
		})
		if err != nil {
			return err
		}
		newStock = oldStock + mov.SignedQuantity()
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := entity.AuditActionStockIn
	if movType == entity.MovementTypeOUT {
		action = entity.AuditActionStockOut
	}
	j.recorder.Record(caller, audit.Entry{
		Action:    action,
		Entity:    entity.AuditEntityStockMovement,
		EntityID:  mov.ID,
		OldValues: map[string]any{"current_stock": oldStock},
		NewValues: map[string]any{"current_stock": newStock, "reference": reference},
	})
	return mov, nil
}

// ListMovements lista movimientos con el nombre del item resuelto. Lectura degradada:
// si el store falla devuelve lista vacía y loggea, para no tumbar dashboards.
func (j *Journal) ListMovements(f repository.MovementFilter) []*repository.MovementWithItem {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	list, err := j.movements.List(f)
	if err != nil {
		j.log.Warn().Err(err).Msg("listado de movimientos degradado a vacío")
		return []*repository.MovementWithItem{}
	}
	if list == nil {
		list = []*repository.MovementWithItem{}
	}
	return list
}

// GetMovement obtiene un movimiento por ID (nil si no existe). Misma política
// degradada que el listado: si el store falla devuelve nil y loggea, no propaga.
func (j *Journal) GetMovement(id string) *repository.MovementWithItem {
	mov, err := j.movements.GetByID(id)
	if err != nil {
		j.log.Warn().Err(err).Str("movement_id", id).Msg("lectura de movimiento degradada a no encontrado")
		return nil
	}
	return mov
}
