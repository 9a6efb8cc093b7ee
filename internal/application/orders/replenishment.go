package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/stock"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

// ReplenishmentUseCase workflow de órdenes de reposición a proveedor.
// La aprobación crea un movimiento IN por línea (referencia = PONumber) y
// actualiza el costo promedio ponderado de cada item, todo en una transacción.
type ReplenishmentUseCase struct {
	txRunner repository.TxRunner
	repo     repository.OrderRepository // lecturas fuera de tx
	items    repository.ItemRepository
	journal  *stock.Journal
	recorder *audit.Recorder
}

// NewReplenishmentUseCase construye el caso de uso.
func NewReplenishmentUseCase(
	txRunner repository.TxRunner,
	repo repository.OrderRepository,
	items repository.ItemRepository,
	journal *stock.Journal,
	recorder *audit.Recorder,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{txRunner: txRunner, repo: repo, items: items, journal: journal, recorder: recorder}
}

// CreateOrderInput datos de creación de una orden de reposición.
type CreateOrderInput struct {
	PONumber     string
	SupplierID   string
	SupplierName string
	OrderDate    time.Time
	Lines        []LineInput
}

// UpdateOrderInput campos de cabecera editables mientras la orden está pending.
// Las líneas son inmutables tras la creación.
type UpdateOrderInput struct {
	OrderDate    *time.Time
	SupplierID   *string
	SupplierName *string
}

// Create valida y persiste cabecera + líneas en una transacción.
// TotalAmount es derivado: Σ (cantidad × costo unitario) por línea.
func (uc *ReplenishmentUseCase) Create(ctx context.Context, caller audit.Caller, in CreateOrderInput) (*entity.Order, error) {
	if in.PONumber == "" {
		return nil, domain.NewValidationError("po_number", "es requerido")
	}
	if in.SupplierID == "" {
		return nil, domain.NewValidationError("supplier_id", "es requerido")
	}
	if err := validateLines(uc.items, in.Lines); err != nil {
		return nil, err
	}
	for _, l := range in.Lines {
		if l.UnitCost.IsNegative() {
			return nil, domain.NewValidationError("items.unit_cost", "no puede ser negativo")
		}
	}

	now := time.Now()
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}
	order := &entity.Order{
		ID:           uuid.New().String(),
		PONumber:     in.PONumber,
		SupplierID:   in.SupplierID,
		SupplierName: in.SupplierName,
		OrderDate:    orderDate,
		Status:       entity.OrderStatusPending,
		TotalAmount:  decimal.Zero,
		CreatedBy:    caller.Actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, l := range in.Lines {
		subtotal := decimal.NewFromInt(l.Quantity).Mul(l.UnitCost)
		order.Items = append(order.Items, entity.OrderItem{
			ID:       uuid.New().String(),
			OrderID:  order.ID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
			Subtotal: subtotal,
		})
		order.TotalAmount = order.TotalAmount.Add(subtotal)
	}

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Orders.Create(order)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:   entity.AuditActionCreated,
		Entity:   entity.AuditEntityOrder,
		EntityID: order.ID,
		NewValues: map[string]any{
			"po_number":    order.PONumber,
			"status":       order.Status,
			"total_amount": order.TotalAmount.String(),
			"lines":        len(order.Items),
		},
	})
	return order, nil
}

// Update edita la cabecera mientras la orden sigue pending.
func (uc *ReplenishmentUseCase) Update(ctx context.Context, caller audit.Caller, id string, in UpdateOrderInput) (*entity.Order, error) {
	var (
		order *entity.Order
		old   map[string]any
	)
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.Orders.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Pending() {
			return domain.ErrInvalidState
		}
		old = orderHeaderSnapshot(order)
		if in.OrderDate != nil {
			order.OrderDate = *in.OrderDate
		}
		if in.SupplierID != nil {
			order.SupplierID = *in.SupplierID
		}
		if in.SupplierName != nil {
			order.SupplierName = *in.SupplierName
		}
		order.UpdatedAt = time.Now()
		return tx.Orders.UpdateHeader(order)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:    entity.AuditActionUpdated,
		Entity:    entity.AuditEntityOrder,
		EntityID:  id,
		OldValues: old,
		NewValues: orderHeaderSnapshot(order),
	})
	return order, nil
}

// Approve transición pending→approved: bloquea cabecera, re-verifica estado,
// registra un IN por línea y estampa aprobador. Atómico: o entra todo o nada.
func (uc *ReplenishmentUseCase) Approve(ctx context.Context, caller audit.Caller, id string) (*entity.Order, error) {
	now := time.Now()
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.Orders.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Pending() {
			return domain.ErrInvalidState
		}
		lines := make([]effectLine, 0, len(order.Items))
		for _, it := range order.Items {
			lines = append(lines, effectLine{ItemID: it.ItemID, Quantity: it.Quantity, UnitCost: it.UnitCost})
		}
		if err := applyStockEffect(tx, uc.journal, EffectIn, lines, order.PONumber, caller.Actor.ID); err != nil {
			return err
		}
		return tx.Orders.SetApproved(id, caller.Actor.ID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:   entity.AuditActionApproved,
		Entity:   entity.AuditEntityOrder,
		EntityID: id,
		OldValues: map[string]any{
			"status": entity.OrderStatusPending,
		},
		NewValues: map[string]any{
			"status":      entity.OrderStatusApproved,
			"approved_by": caller.Actor.ID,
			"approved_at": now.Format(time.RFC3339),
		},
	})

	approverID := caller.Actor.ID
	order.Status = entity.OrderStatusApproved
	order.ApprovedBy = &approverID
	order.ApprovedAt = &now
	return order, nil
}

// Receive transición approved→received: registro de llegada física, sin efecto
// de stock (el stock entró en la aprobación).
func (uc *ReplenishmentUseCase) Receive(ctx context.Context, caller audit.Caller, id string) (*entity.Order, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.Orders.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStatusApproved {
			return domain.ErrInvalidState
		}
		return tx.Orders.SetStatus(id, entity.OrderStatusReceived)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:    entity.AuditActionReceived,
		Entity:    entity.AuditEntityOrder,
		EntityID:  id,
		OldValues: map[string]any{"status": entity.OrderStatusApproved},
		NewValues: map[string]any{"status": entity.OrderStatusReceived},
	})
	order.Status = entity.OrderStatusReceived
	return order, nil
}

// Cancel transición pending→cancelled. Sin efecto de stock.
func (uc *ReplenishmentUseCase) Cancel(ctx context.Context, caller audit.Caller, id string) (*entity.Order, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.Orders.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Pending() {
			return domain.ErrInvalidState
		}
		return tx.Orders.SetStatus(id, entity.OrderStatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:    entity.AuditActionCancelled,
		Entity:    entity.AuditEntityOrder,
		EntityID:  id,
		OldValues: map[string]any{"status": entity.OrderStatusPending},
		NewValues: map[string]any{"status": entity.OrderStatusCancelled},
	})
	order.Status = entity.OrderStatusCancelled
	return order, nil
}

// GetByID obtiene una orden con sus líneas (nil si no existe).
func (uc *ReplenishmentUseCase) GetByID(id string) (*entity.Order, error) {
	return uc.repo.GetByID(id)
}

// List lista órdenes con paginación.
func (uc *ReplenishmentUseCase) List(limit, offset int) ([]*entity.Order, error) {
	return uc.repo.List(limit, offset)
}

// LatestNumber devuelve el PONumber más reciente y su sufijo numérico.
func (uc *ReplenishmentUseCase) LatestNumber() (string, int, error) {
	number, err := uc.repo.LatestNumber()
	if err != nil {
		return "", 0, err
	}
	return number, NumericSuffix(number), nil
}

func orderHeaderSnapshot(o *entity.Order) map[string]any {
	return map[string]any{
		"order_date":    o.OrderDate.Format("2006-01-02"),
		"supplier_id":   o.SupplierID,
		"supplier_name": o.SupplierName,
	}
}
