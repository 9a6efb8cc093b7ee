package memory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

var _ repository.ItemRepository = (*itemRepo)(nil)

type itemRepo struct {
	s        *Store
	external bool // fuera de tx: toma el mutex en cada operación
}

func (r *itemRepo) Create(item *entity.Item) error {
	defer lock(r.s, r.external)()
	for _, existing := range r.s.items {
		if existing.SKU == item.SKU && existing.DeletedAt == nil {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.items[item.ID] = *item
	return nil
}

func (r *itemRepo) GetByID(id string) (*entity.Item, error) {
	defer lock(r.s, r.external)()
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *itemRepo) GetBySKU(sku string) (*entity.Item, error) {
	defer lock(r.s, r.external)()
	for _, item := range r.s.items {
		if item.SKU == sku && item.DeletedAt == nil {
			out := item
			return &out, nil
		}
	}
	return nil, nil
}

func (r *itemRepo) GetForUpdate(id string) (*entity.Item, error) {
	// la transacción ya sostiene el mutex global: el "lock de fila" es implícito
	return r.GetByID(id)
}

func (r *itemRepo) Update(item *entity.Item) error {
	defer lock(r.s, r.external)()
	existing, ok := r.s.items[item.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrNotFound
	}
	updated := *item
	updated.CurrentStock = existing.CurrentStock // el stock nunca viaja por Update
	updated.Cost = existing.Cost
	r.s.items[item.ID] = updated
	return nil
}

func (r *itemRepo) UpdateCost(itemID string, cost decimal.Decimal) error {
	defer lock(r.s, r.external)()
	item, ok := r.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.Cost = cost
	item.UpdatedAt = time.Now()
	r.s.items[itemID] = item
	return nil
}

func (r *itemRepo) AdjustStock(itemID string, delta int64) (int64, error) {
	defer lock(r.s, r.external)()
	item, ok := r.s.items[itemID]
	if !ok || item.DeletedAt != nil {
		return 0, domain.ErrNotFound
	}
	next := item.CurrentStock + delta
	if next < 0 {
		return 0, &domain.InsufficientStockError{
			ItemID:    item.ID,
			SKU:       item.SKU,
			Name:      item.Name,
			Requested: -delta,
			Available: item.CurrentStock,
		}
	}
	item.CurrentStock = next
	item.UpdatedAt = time.Now()
	r.s.items[itemID] = item
	return next, nil
}

func (r *itemRepo) SoftDelete(id string, at time.Time) error {
	defer lock(r.s, r.external)()
	item, ok := r.s.items[id]
	if !ok || item.DeletedAt != nil {
		return domain.ErrNotFound
	}
	item.DeletedAt = &at
	item.UpdatedAt = at
	r.s.items[id] = item
	return nil
}

func (r *itemRepo) List(limit, offset int) ([]*entity.Item, error) {
	defer lock(r.s, r.external)()
	var list []*entity.Item
	for _, item := range r.s.items {
		if item.DeletedAt != nil {
			continue
		}
		out := item
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *itemRepo) ListLowStock() ([]*entity.Item, error) {
	defer lock(r.s, r.external)()
	var list []*entity.Item
	for _, item := range r.s.items {
		if item.DeletedAt != nil || item.Status != entity.ItemStatusActive {
			continue
		}
		if item.CurrentStock <= item.MinimumStock {
			out := item
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		di := list[i].MinimumStock - list[i].CurrentStock
		dj := list[j].MinimumStock - list[j].CurrentStock
		if di != dj {
			return di > dj
		}
		return list[i].SKU < list[j].SKU
	})
	return list, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
