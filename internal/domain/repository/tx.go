package repository

import "context"

// Tx agrupa los repositorios atados a una misma transacción de BD.
// Todo lo que una transición de orden toca (cabecera, items, movimientos)
// viaja junto para garantizar atomicidad.
type Tx struct {
	Items            ItemRepository
	Movements        StockMovementRepository
	PurchaseRequests PurchaseRequestRepository
	Orders           OrderRepository
	SalesOrders      SalesOrderRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Tx) error) error
}
