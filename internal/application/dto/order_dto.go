package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineRequest línea de creación común a los tres tipos de orden.
type LineRequest struct {
	ItemID    string          `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost,omitempty"`  // reposición
	UnitPrice decimal.Decimal `json:"unit_price,omitempty"` // venta
}

// CreatePurchaseRequestRequest body para POST /api/purchase-requests.
type CreatePurchaseRequestRequest struct {
	Number      string        `json:"number"`
	RequestDate *time.Time    `json:"request_date,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	Items       []LineRequest `json:"items"`
}

// PurchaseRequestResponse representación de una solicitud de compra.
type PurchaseRequestResponse struct {
	ID          string                        `json:"id"`
	Number      string                        `json:"number"`
	RequestDate time.Time                     `json:"request_date"`
	Notes       string                        `json:"notes,omitempty"`
	Status      string                        `json:"status"`
	RequestedBy string                        `json:"requested_by"`
	ApprovedBy  *string                       `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time                    `json:"approved_at,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
	Items       []PurchaseRequestItemResponse `json:"items,omitempty"`
}

// PurchaseRequestItemResponse línea de una solicitud.
type PurchaseRequestItemResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// CreateOrderRequest body para POST /api/orders (reposición).
type CreateOrderRequest struct {
	PONumber     string        `json:"po_number"`
	SupplierID   string        `json:"supplier_id"`
	SupplierName string        `json:"supplier_name,omitempty"`
	OrderDate    *time.Time    `json:"order_date,omitempty"`
	Items        []LineRequest `json:"items"`
}

// UpdateOrderRequest body para PUT /api/orders/:id (solo pending; líneas inmutables).
type UpdateOrderRequest struct {
	OrderDate    *time.Time `json:"order_date,omitempty"`
	SupplierID   *string    `json:"supplier_id,omitempty"`
	SupplierName *string    `json:"supplier_name,omitempty"`
}

// OrderResponse representación de una orden de reposición.
type OrderResponse struct {
	ID           string              `json:"id"`
	PONumber     string              `json:"po_number"`
	SupplierID   string              `json:"supplier_id"`
	SupplierName string              `json:"supplier_name,omitempty"`
	OrderDate    time.Time           `json:"order_date"`
	Status       string              `json:"status"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	ApprovedBy   *string             `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time          `json:"approved_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []OrderItemResponse `json:"items,omitempty"`
}

// OrderItemResponse línea de orden de reposición.
type OrderItemResponse struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"item_id"`
	Quantity int64           `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CreateSalesOrderRequest body para POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	SONumber     string        `json:"so_number"`
	CustomerID   string        `json:"customer_id"`
	CustomerName string        `json:"customer_name,omitempty"`
	OrderDate    *time.Time    `json:"order_date,omitempty"`
	Items        []LineRequest `json:"items"`
}

// UpdateSalesOrderRequest body para PUT /api/sales-orders/:id (solo pending).
type UpdateSalesOrderRequest struct {
	OrderDate    *time.Time `json:"order_date,omitempty"`
	CustomerID   *string    `json:"customer_id,omitempty"`
	CustomerName *string    `json:"customer_name,omitempty"`
}

// SalesOrderResponse representación de una orden de venta.
type SalesOrderResponse struct {
	ID           string                   `json:"id"`
	SONumber     string                   `json:"so_number"`
	CustomerID   string                   `json:"customer_id"`
	CustomerName string                   `json:"customer_name,omitempty"`
	OrderDate    time.Time                `json:"order_date"`
	Status       string                   `json:"status"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	FulfilledBy  *string                  `json:"fulfilled_by,omitempty"`
	FulfilledAt  *time.Time               `json:"fulfilled_at,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	Items        []SalesOrderItemResponse `json:"items,omitempty"`
}

// SalesOrderItemResponse línea de orden de venta.
type SalesOrderItemResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// LatestNumberResponse sugerencia de siguiente número para el cliente.
// Advisory: la unicidad la garantiza el constraint al insertar.
type LatestNumberResponse struct {
	Number string `json:"number"`
	Suffix int    `json:"suffix"`
}
