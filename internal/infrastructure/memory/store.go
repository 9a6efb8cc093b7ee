// Package memory implementa los puertos de persistencia sobre mapas en memoria.
// Se usa en tests y demos locales; la semántica (duplicados, locks, rechazo de
// stock negativo, rollback) espeja la del adaptador PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	items       map[string]entity.Item
	movements   []entity.StockMovement
	requests    map[string]entity.PurchaseRequest
	orders      map[string]entity.Order
	salesOrders map[string]entity.SalesOrder
	auditLogs   []entity.AuditLog
	users       map[string]entity.User

	// orden de inserción para LatestNumber
	requestSeq []string
	orderSeq   []string
	salesSeq   []string
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		items:       map[string]entity.Item{},
		requests:    map[string]entity.PurchaseRequest{},
		orders:      map[string]entity.Order{},
		salesOrders: map[string]entity.SalesOrder{},
		users:       map[string]entity.User{},
	}
}

// snapshot copia profunda del estado mutable (para rollback de transacciones).
type snapshot struct {
	items       map[string]entity.Item
	movements   []entity.StockMovement
	requests    map[string]entity.PurchaseRequest
	orders      map[string]entity.Order
	salesOrders map[string]entity.SalesOrder
	requestSeq  []string
	orderSeq    []string
	salesSeq    []string
}

func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		items:       make(map[string]entity.Item, len(s.items)),
		movements:   append([]entity.StockMovement(nil), s.movements...),
		requests:    make(map[string]entity.PurchaseRequest, len(s.requests)),
		orders:      make(map[string]entity.Order, len(s.orders)),
		salesOrders: make(map[string]entity.SalesOrder, len(s.salesOrders)),
		requestSeq:  append([]string(nil), s.requestSeq...),
		orderSeq:    append([]string(nil), s.orderSeq...),
		salesSeq:    append([]string(nil), s.salesSeq...),
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	for k, v := range s.requests {
		v.Items = append([]entity.PurchaseRequestItem(nil), v.Items...)
		snap.requests[k] = v
	}
	for k, v := range s.orders {
		v.Items = append([]entity.OrderItem(nil), v.Items...)
		snap.orders[k] = v
	}
	for k, v := range s.salesOrders {
		v.Items = append([]entity.SalesOrderItem(nil), v.Items...)
		snap.salesOrders[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.items = snap.items
	s.movements = snap.movements
	s.requests = snap.requests
	s.orders = snap.orders
	s.salesOrders = snap.salesOrders
	s.requestSeq = snap.requestSeq
	s.orderSeq = snap.orderSeq
	s.salesSeq = snap.salesSeq
}

// Items repositorio de items sobre el store (con locking propio).
func (s *Store) Items() repository.ItemRepository { return &itemRepo{s: s, external: true} }

// Movements repositorio de movimientos sobre el store.
func (s *Store) Movements() repository.StockMovementRepository {
	return &movementRepo{s: s, external: true}
}

// PurchaseRequests repositorio de solicitudes de compra sobre el store.
func (s *Store) PurchaseRequests() repository.PurchaseRequestRepository {
	return &purchaseRequestRepo{s: s, external: true}
}

// Orders repositorio de órdenes de reposición sobre el store.
func (s *Store) Orders() repository.OrderRepository { return &orderRepo{s: s, external: true} }

// SalesOrders repositorio de órdenes de venta sobre el store.
func (s *Store) SalesOrders() repository.SalesOrderRepository {
	return &salesOrderRepo{s: s, external: true}
}

// AuditLogs repositorio del registro de auditoría sobre el store.
func (s *Store) AuditLogs() repository.AuditLogRepository { return &auditLogRepo{s: s, external: true} }

// Users repositorio de usuarios sobre el store.
func (s *Store) Users() repository.UserRepository { return &userRepo{s: s, external: true} }

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones sobre el store: serializa con el mutex global y hace
// rollback restaurando un snapshot si fn falla. Mismo contrato que el runner
// PostgreSQL: commit con nil, nada persiste en cualquier otro caso.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

// Run ejecuta fn con repos atados a la "transacción" (sin locking propio: el
// mutex del store se sostiene durante todo el callback).
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.takeSnapshot()
	tx := repository.Tx{
		Items:            &itemRepo{s: r.s},
		Movements:        &movementRepo{s: r.s},
		PurchaseRequests: &purchaseRequestRepo{s: r.s},
		Orders:           &orderRepo{s: r.s},
		SalesOrders:      &salesOrderRepo{s: r.s},
	}
	if err := fn(tx); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// lock adquiere el mutex solo para repos usados fuera de una transacción.
func lock(s *Store, external bool) func() {
	if !external {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
