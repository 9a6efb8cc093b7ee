package memory

import (
	"sort"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*movementRepo)(nil)

type movementRepo struct {
	s        *Store
	external bool
}

func (r *movementRepo) Create(m *entity.StockMovement) error {
	defer lock(r.s, r.external)()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *movementRepo) GetByID(id string) (*repository.MovementWithItem, error) {
	defer lock(r.s, r.external)()
	for _, m := range r.s.movements {
		if m.ID == id {
			return r.withItem(m), nil
		}
	}
	return nil, nil
}

func (r *movementRepo) List(f repository.MovementFilter) ([]*repository.MovementWithItem, error) {
	defer lock(r.s, r.external)()
	var list []*repository.MovementWithItem
	for _, m := range r.s.movements {
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		list = append(list, r.withItem(m))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, f.Limit, f.Offset), nil
}

func (r *movementRepo) withItem(m entity.StockMovement) *repository.MovementWithItem {
	out := &repository.MovementWithItem{StockMovement: m}
	if item, ok := r.s.items[m.ItemID]; ok {
		out.ItemSKU = item.SKU
		out.ItemName = item.Name
	}
	return out
}
