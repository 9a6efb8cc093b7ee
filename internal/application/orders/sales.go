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

// SalesUseCase workflow de órdenes de venta. El despacho (fulfill) verifica que
// cada línea quepa en el stock actual bajo lock de fila y crea un movimiento OUT
// por línea (referencia = SONumber), todo en una transacción.
type SalesUseCase struct {
	txRunner repository.TxRunner
	repo     repository.SalesOrderRepository // lecturas fuera de tx
	items    repository.ItemRepository
	journal  *stock.Journal
	recorder *audit.Recorder
}

// NewSalesUseCase construye el caso de uso.
func NewSalesUseCase(
	txRunner repository.TxRunner,
	repo repository.SalesOrderRepository,
	items repository.ItemRepository,
	journal *stock.Journal,
	recorder *audit.Recorder,
) *SalesUseCase {
	return &SalesUseCase{txRunner: txRunner, repo: repo, items: items, journal: journal, recorder: recorder}
}

// CreateSalesOrderInput datos de creación de una orden de venta.
type CreateSalesOrderInput struct {
	SONumber     string
	CustomerID   string
	CustomerName string
	OrderDate    time.Time
	Lines        []LineInput
}

// UpdateSalesOrderInput campos de cabecera editables mientras la orden está pending.
type UpdateSalesOrderInput struct {
	OrderDate    *time.Time
	CustomerID   *string
	CustomerName *string
}

// Create valida y persiste cabecera + líneas en una transacción. La suficiencia de
// stock NO se verifica aquí: se verifica al despachar, bajo lock.
func (uc *SalesUseCase) Create(ctx context.Context, caller audit.Caller, in CreateSalesOrderInput) (*entity.SalesOrder, error) {
	if in.SONumber == "" {
		return nil, domain.NewValidationError("so_number", "es requerido")
	}
	if in.CustomerID == "" {
		return nil, domain.NewValidationError("customer_id", "es requerido")
	}
	if err := validateLines(uc.items, in.Lines); err != nil {
		return nil, err
	}
	for _, l := range in.Lines {
		if l.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError("items.unit_price", "no puede ser negativo")
		}
	}

	now := time.Now()
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}
	order := &entity.SalesOrder{
		ID:           uuid.New().String(),
		SONumber:     in.SONumber,
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		OrderDate:    orderDate,
		Status:       entity.SOStatusPending,
		TotalAmount:  decimal.Zero,
		CreatedBy:    caller.Actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, l := range in.Lines {
		subtotal := decimal.NewFromInt(l.Quantity).Mul(l.UnitPrice)
		order.Items = append(order.Items, entity.SalesOrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  subtotal,
		})
		order.TotalAmount = order.TotalAmount.Add(subtotal)
	}

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.SalesOrders.Create(order)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:   entity.AuditActionCreated,
		Entity:   entity.AuditEntitySalesOrder,
		EntityID: order.ID,
		NewValues: map[string]any{
			"so_number":    order.SONumber,
			"status":       order.Status,
			"total_amount": order.TotalAmount.String(),
			"lines":        len(order.Items),
		},
	})
	return order, nil
}

// Update edita la cabecera mientras la orden sigue pending.
func (uc *SalesUseCase) Update(ctx context.Context, caller audit.Caller, id string, in UpdateSalesOrderInput) (*entity.SalesOrder, error) {
	var (
		order *entity.SalesOrder
		old   map[string]any
	)
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.SalesOrders.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Pending() {
			return domain.ErrInvalidState
		}
		old = salesHeaderSnapshot(order)
		if in.OrderDate != nil {
			order.OrderDate = *in.OrderDate
		}
		if in.CustomerID != nil {
			order.CustomerID = *in.CustomerID
		}
		if in.CustomerName != nil {
			order.CustomerName = *in.CustomerName
		}
		order.UpdatedAt = time.Now()
		return tx.SalesOrders.UpdateHeader(order)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:    entity.AuditActionUpdated,
		Entity:    entity.AuditEntitySalesOrder,
		EntityID:  id,
		OldValues: old,
		NewValues: salesHeaderSnapshot(order),
	})
	return order, nil
}

// Fulfill transición pending→fulfilled: bloquea la cabecera y cada item referenciado
// (orden ascendente por id), re-verifica el estado, verifica suficiencia de cada
// línea y registra un OUT por línea. Si cualquier línea no alcanza, toda la
// transición aborta con InsufficientStock nombrando el primer item que falla, sin
// crear movimientos. Dos despachos concurrentes de la misma orden: solo uno ve
// pending bajo el lock; el perdedor recibe ErrInvalidState.
func (uc *SalesUseCase) Fulfill(ctx context.Context, caller audit.Caller, id string) (*entity.SalesOrder, error) {
	now := time.Now()
	var order *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.SalesOrders.GetForUpdate(id)
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
			lines = append(lines, effectLine{ItemID: it.ItemID, Quantity: it.Quantity})
		}
		if err := applyStockEffect(tx, uc.journal, EffectOut, lines, order.SONumber, caller.Actor.ID); err != nil {
			return err
		}
		return tx.SalesOrders.SetFulfilled(id, caller.Actor.ID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:   entity.AuditActionFulfilled,
		Entity:   entity.AuditEntitySalesOrder,
		EntityID: id,
		OldValues: map[string]any{
			"status": entity.SOStatusPending,
		},
		NewValues: map[string]any{
			"status":       entity.SOStatusFulfilled,
			"fulfilled_by": caller.Actor.ID,
			"fulfilled_at": now.Format(time.RFC3339),
		},
	})

	userID := caller.Actor.ID
	order.Status = entity.SOStatusFulfilled
	order.FulfilledBy = &userID
	order.FulfilledAt = &now
	return order, nil
}

// Cancel transición pending→cancelled. Sin efecto de stock.
func (uc *SalesUseCase) Cancel(ctx context.Context, caller audit.Caller, id string) (*entity.SalesOrder, error) {
	var order *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.SalesOrders.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Pending() {
			return domain.ErrInvalidState
		}
		return tx.SalesOrders.SetStatus(id, entity.SOStatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:    entity.AuditActionCancelled,
		Entity:    entity.AuditEntitySalesOrder,
		EntityID:  id,
		OldValues: map[string]any{"status": entity.SOStatusPending},
		NewValues: map[string]any{"status": entity.SOStatusCancelled},
	})
	order.Status = entity.SOStatusCancelled
	return order, nil
}

// GetByID obtiene una orden con sus líneas (nil si no existe).
func (uc *SalesUseCase) GetByID(id string) (*entity.SalesOrder, error) {
	return uc.repo.GetByID(id)
}

// List lista órdenes con paginación.
func (uc *SalesUseCase) List(limit, offset int) ([]*entity.SalesOrder, error) {
	return uc.repo.List(limit, offset)
}

// LatestNumber devuelve el SONumber más reciente y su sufijo numérico.
func (uc *SalesUseCase) LatestNumber() (string, int, error) {
	number, err := uc.repo.LatestNumber()
	if err != nil {
		return "", 0, err
	}
	return number, NumericSuffix(number), nil
}

func salesHeaderSnapshot(o *entity.SalesOrder) map[string]any {
	return map[string]any{
		"order_date":    o.OrderDate.Format("2006-01-02"),
		"customer_id":   o.CustomerID,
		"customer_name": o.CustomerName,
	}
}
