package memory

import (
	"sort"
	"time"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

var _ repository.PurchaseRequestRepository = (*purchaseRequestRepo)(nil)

type purchaseRequestRepo struct {
	s        *Store
	external bool
}

func (r *purchaseRequestRepo) Create(pr *entity.PurchaseRequest) error {
	defer lock(r.s, r.external)()
	for _, existing := range r.s.requests {
		if existing.Number == pr.Number {
			return domain.ErrDuplicate
		}
	}
	stored := *pr
	stored.Items = append([]entity.PurchaseRequestItem(nil), pr.Items...)
	r.s.requests[pr.ID] = stored
	r.s.requestSeq = append(r.s.requestSeq, pr.ID)
	return nil
}

func (r *purchaseRequestRepo) GetByID(id string) (*entity.PurchaseRequest, error) {
	defer lock(r.s, r.external)()
	pr, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	pr.Items = append([]entity.PurchaseRequestItem(nil), pr.Items...)
	return &pr, nil
}

func (r *purchaseRequestRepo) GetForUpdate(id string) (*entity.PurchaseRequest, error) {
	return r.GetByID(id)
}

func (r *purchaseRequestRepo) SetDecision(id, status, deciderID string, at time.Time) error {
	defer lock(r.s, r.external)()
	pr, ok := r.s.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	pr.Status = status
	pr.ApprovedBy = &deciderID
	pr.ApprovedAt = &at
	pr.UpdatedAt = at
	r.s.requests[id] = pr
	return nil
}

func (r *purchaseRequestRepo) List(limit, offset int) ([]*entity.PurchaseRequest, error) {
	defer lock(r.s, r.external)()
	var list []*entity.PurchaseRequest
	for _, pr := range r.s.requests {
		out := pr
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *purchaseRequestRepo) LatestNumber() (string, error) {
	defer lock(r.s, r.external)()
	if len(r.s.requestSeq) == 0 {
		return "", nil
	}
	last := r.s.requests[r.s.requestSeq[len(r.s.requestSeq)-1]]
	return last.Number, nil
}

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct {
	s        *Store
	external bool
}

func (r *orderRepo) Create(o *entity.Order) error {
	defer lock(r.s, r.external)()
	for _, existing := range r.s.orders {
		if existing.PONumber == o.PONumber {
			return domain.ErrDuplicate
		}
	}
	stored := *o
	stored.Items = append([]entity.OrderItem(nil), o.Items...)
	r.s.orders[o.ID] = stored
	r.s.orderSeq = append(r.s.orderSeq, o.ID)
	return nil
}

func (r *orderRepo) GetByID(id string) (*entity.Order, error) {
	defer lock(r.s, r.external)()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return &o, nil
}

func (r *orderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *orderRepo) UpdateHeader(o *entity.Order) error {
	defer lock(r.s, r.external)()
	existing, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.SupplierID = o.SupplierID
	existing.SupplierName = o.SupplierName
	existing.OrderDate = o.OrderDate
	existing.UpdatedAt = o.UpdatedAt
	r.s.orders[o.ID] = existing
	return nil
}

func (r *orderRepo) SetStatus(id, status string) error {
	defer lock(r.s, r.external)()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.s.orders[id] = o
	return nil
}

func (r *orderRepo) SetApproved(id, approverID string, at time.Time) error {
	defer lock(r.s, r.external)()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = entity.OrderStatusApproved
	o.ApprovedBy = &approverID
	o.ApprovedAt = &at
	o.UpdatedAt = at
	r.s.orders[id] = o
	return nil
}

func (r *orderRepo) List(limit, offset int) ([]*entity.Order, error) {
	defer lock(r.s, r.external)()
	var list []*entity.Order
	for _, o := range r.s.orders {
		out := o
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *orderRepo) LatestNumber() (string, error) {
	defer lock(r.s, r.external)()
	if len(r.s.orderSeq) == 0 {
		return "", nil
	}
	last := r.s.orders[r.s.orderSeq[len(r.s.orderSeq)-1]]
	return last.PONumber, nil
}

var _ repository.SalesOrderRepository = (*salesOrderRepo)(nil)

type salesOrderRepo struct {
	s        *Store
	external bool
}

func (r *salesOrderRepo) Create(o *entity.SalesOrder) error {
	defer lock(r.s, r.external)()
	for _, existing := range r.s.salesOrders {
		if existing.SONumber == o.SONumber {
			return domain.ErrDuplicate
		}
	}
	stored := *o
	stored.Items = append([]entity.SalesOrderItem(nil), o.Items...)
	r.s.salesOrders[o.ID] = stored
	r.s.salesSeq = append(r.s.salesSeq, o.ID)
	return nil
}

func (r *salesOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	defer lock(r.s, r.external)()
	o, ok := r.s.salesOrders[id]
	if !ok {
		return nil, nil
	}
	o.Items = append([]entity.SalesOrderItem(nil), o.Items...)
	return &o, nil
}

func (r *salesOrderRepo) GetForUpdate(id string) (*entity.SalesOrder, error) {
	return r.GetByID(id)
}

func (r *salesOrderRepo) UpdateHeader(o *entity.SalesOrder) error {
	defer lock(r.s, r.external)()
	existing, ok := r.s.salesOrders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.CustomerID = o.CustomerID
	existing.CustomerName = o.CustomerName
	existing.OrderDate = o.OrderDate
	existing.UpdatedAt = o.UpdatedAt
	r.s.salesOrders[o.ID] = existing
	return nil
}

func (r *salesOrderRepo) SetStatus(id, status string) error {
	defer lock(r.s, r.external)()
	o, ok := r.s.salesOrders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.s.salesOrders[id] = o
	return nil
}

func (r *salesOrderRepo) SetFulfilled(id, userID string, at time.Time) error {
	defer lock(r.s, r.external)()
	o, ok := r.s.salesOrders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = entity.SOStatusFulfilled
	o.FulfilledBy = &userID
	o.FulfilledAt = &at
	o.UpdatedAt = at
	r.s.salesOrders[id] = o
	return nil
}

func (r *salesOrderRepo) List(limit, offset int) ([]*entity.SalesOrder, error) {
	defer lock(r.s, r.external)()
	var list []*entity.SalesOrder
	for _, o := range r.s.salesOrders {
		out := o
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *salesOrderRepo) LatestNumber() (string, error) {
	defer lock(r.s, r.external)()
	if len(r.s.salesSeq) == 0 {
		return "", nil
	}
	last := r.s.salesOrders[r.s.salesSeq[len(r.s.salesSeq)-1]]
	return last.SONumber, nil
}
