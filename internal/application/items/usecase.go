package items

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/dto"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/stock"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

// OpeningStockReference referencia del movimiento IN que siembra el stock inicial.
const OpeningStockReference = "OPENING"

// UseCase maneja el ciclo de vida de items: alta con stock de apertura,
// actualización de datos maestros, baja lógica y consultas.
type UseCase struct {
	txRunner repository.TxRunner
	repo     repository.ItemRepository
	journal  *stock.Journal
	recorder *audit.Recorder
}

// NewUseCase construye el caso de uso de items.
func NewUseCase(
	txRunner repository.TxRunner,
	repo repository.ItemRepository,
	journal *stock.Journal,
	recorder *audit.Recorder,
) *UseCase {
	return &UseCase{txRunner: txRunner, repo: repo, journal: journal, recorder: recorder}
}

// Create da de alta un item. El stock de apertura no se escribe directo: se siembra
// con un movimiento IN de referencia OPENING en la misma transacción del alta, así
// el invariante "stock actual = suma de movimientos" vale desde el primer segundo.
func (uc *UseCase) Create(ctx context.Context, caller audit.Caller, req dto.CreateItemRequest) (*entity.Item, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &entity.Item{
		ID:              uuid.New().String(),
		SKU:             req.SKU,
		Name:            req.Name,
		Type:            req.Type,
		Category:        req.Category,
		Brand:           req.Brand,
		Unit:            req.Unit,
		Cost:            req.Cost,
		SellingPrice:    req.SellingPrice,
		CurrentStock:    0,
		MinimumStock:    req.MinimumStock,
		MaximumStock:    req.MaximumStock,
		ReorderQuantity: req.ReorderQuantity,
		Status:          entity.ItemStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Items.Create(item); err != nil {
			return err
		}
		if req.OpeningStock > 0 {
			mov, err := uc.journal.RecordInTx(tx, stock.MovementInput{
				ItemID:    item.ID,
				Type:      entity.MovementTypeIN,
				Quantity:  req.OpeningStock,
				Reference: OpeningStockReference,
				Note:      "stock inicial",
				CreatedBy: caller.Actor.ID,
			})
			if err != nil {
				return err
			}
			item.CurrentStock = mov.SignedQuantity()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:   entity.AuditActionCreated,
		Entity:   entity.AuditEntityItem,
		EntityID: item.ID,
		NewValues: map[string]any{
			"sku":           item.SKU,
			"name":          item.Name,
			"current_stock": item.CurrentStock,
			"minimum_stock": item.MinimumStock,
			"status":        item.Status,
		},
	})
	return item, nil
}

// Update modifica datos maestros del item. El stock nunca se toca por acá.
func (uc *UseCase) Update(ctx context.Context, caller audit.Caller, id string, req dto.UpdateItemRequest) (*entity.Item, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Deleted() {
		return nil, domain.ErrNotFound
	}

	old := masterSnapshot(item)

	if req.Name != nil {
		if *req.Name == "" {
			return nil, domain.NewValidationError("name", "no puede estar vacío")
		}
		item.Name = *req.Name
	}
	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Brand != nil {
		item.Brand = *req.Brand
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return nil, domain.NewValidationError("selling_price", "no puede ser negativo")
		}
		item.SellingPrice = *req.SellingPrice
	}
	if req.MinimumStock != nil {
		if *req.MinimumStock < 0 {
			return nil, domain.NewValidationError("minimum_stock", "no puede ser negativo")
		}
		item.MinimumStock = *req.MinimumStock
	}
	if req.MaximumStock != nil {
		if *req.MaximumStock < 0 {
			return nil, domain.NewValidationError("maximum_stock", "no puede ser negativo")
		}
		item.MaximumStock = *req.MaximumStock
	}
	if req.ReorderQuantity != nil {
		if *req.ReorderQuantity < 0 {
			return nil, domain.NewValidationError("reorder_quantity", "no puede ser negativa")
		}
		item.ReorderQuantity = *req.ReorderQuantity
	}
	if req.Status != nil {
		if *req.Status != entity.ItemStatusActive && *req.Status != entity.ItemStatusInactive {
			return nil, domain.NewValidationError("status", "debe ser active o inactive")
		}
		item.Status = *req.Status
	}
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:    entity.AuditActionUpdated,
		Entity:    entity.AuditEntityItem,
		EntityID:  item.ID,
		OldValues: old,
		NewValues: masterSnapshot(item),
	})
	return item, nil
}

// Delete baja lógica: el item queda fuera de listados y de nuevas órdenes, pero su
// historial de movimientos sobrevive intacto.
func (uc *UseCase) Delete(ctx context.Context, caller audit.Caller, id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil || item.Deleted() {
		return domain.ErrNotFound
	}

	if err := uc.repo.SoftDelete(id, time.Now()); err != nil {
		return err
	}

	uc.recorder.Record(caller, audit.Entry{
		Action:   entity.AuditActionDeleted,
		Entity:   entity.AuditEntityItem,
		EntityID: id,
		OldValues: map[string]any{
			"sku":           item.SKU,
			"name":          item.Name,
			"current_stock": item.CurrentStock,
			"status":        item.Status,
		},
	})
	return nil
}

// GetByID obtiene un item (ErrNotFound si no existe o fue dado de baja).
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Deleted() {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// List lista items no borrados.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) ([]*entity.Item, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Item{}
	}
	return list, nil
}

// GetStock posición de stock de un item.
func (uc *UseCase) GetStock(ctx context.Context, id string) (*dto.ItemStockResponse, error) {
	item, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ItemStockResponse{
		ItemID:       item.ID,
		SKU:          item.SKU,
		Name:         item.Name,
		CurrentStock: item.CurrentStock,
		MinimumStock: item.MinimumStock,
		BelowMinimum: item.BelowMinimum(),
	}, nil
}

// LowStock items activos en o bajo su mínimo, con cantidad sugerida de reposición.
func (uc *UseCase) LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	list, err := uc.repo.ListLowStock()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemDTO, 0, len(list))
	for _, item := range list {
		out = append(out, dto.LowStockItemDTO{
			ItemID:            item.ID,
			SKU:               item.SKU,
			Name:              item.Name,
			CurrentStock:      item.CurrentStock,
			MinimumStock:      item.MinimumStock,
			SuggestedOrderQty: suggestedOrderQty(item),
		})
	}
	return out, nil
}

// suggestedOrderQty cantidad sugerida: la configurada en el item, o lo que falta
// para llegar al máximo si no hay cantidad de reorden configurada.
func suggestedOrderQty(item *entity.Item) int64 {
	if item.ReorderQuantity > 0 {
		return item.ReorderQuantity
	}
	if item.MaximumStock > item.CurrentStock {
		return item.MaximumStock - item.CurrentStock
	}
	return 0
}

func validateCreate(req dto.CreateItemRequest) error {
	ve := &domain.ValidationError{Fields: map[string]string{}}
	if req.SKU == "" {
		ve.Fields["sku"] = "es requerido"
	}
	if req.Name == "" {
		ve.Fields["name"] = "es requerido"
	}
	if req.Cost.IsNegative() {
		ve.Fields["cost"] = "no puede ser negativo"
	}
	if req.SellingPrice.IsNegative() {
		ve.Fields["selling_price"] = "no puede ser negativo"
	}
	if req.OpeningStock < 0 {
		ve.Fields["opening_stock"] = "no puede ser negativo"
	}
	if req.MinimumStock < 0 {
		ve.Fields["minimum_stock"] = "no puede ser negativo"
	}
	if req.MaximumStock < 0 {
		ve.Fields["maximum_stock"] = "no puede ser negativo"
	}
	if req.ReorderQuantity < 0 {
		ve.Fields["reorder_quantity"] = "no puede ser negativa"
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// masterSnapshot snapshot de datos maestros para auditoría (sin stock).
func masterSnapshot(item *entity.Item) map[string]any {
	return map[string]any{
		"name":             item.Name,
		"type":             item.Type,
		"category":         item.Category,
		"brand":            item.Brand,
		"unit":             item.Unit,
		"selling_price":    item.SellingPrice.String(),
		"minimum_stock":    item.MinimumStock,
		"maximum_stock":    item.MaximumStock,
		"reorder_quantity": item.ReorderQuantity,
		"status":           item.Status,
	}
}
