package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
// OpeningStock siembra CurrentStock vía un movimiento IN inicial.
type CreateItemRequest struct {
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand"`
	Unit            string          `json:"unit"`
	Cost            decimal.Decimal `json:"cost"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	OpeningStock    int64           `json:"opening_stock"`
	MinimumStock    int64           `json:"minimum_stock"`
	MaximumStock    int64           `json:"maximum_stock"`
	ReorderQuantity int64           `json:"reorder_quantity"`
}

// UpdateItemRequest body para PUT /api/items/:id. Solo datos maestros;
// el stock se maneja exclusivamente vía movimientos.
type UpdateItemRequest struct {
	Name            *string          `json:"name,omitempty"`
	Type            *string          `json:"type,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Brand           *string          `json:"brand,omitempty"`
	Unit            *string          `json:"unit,omitempty"`
	SellingPrice    *decimal.Decimal `json:"selling_price,omitempty"`
	MinimumStock    *int64           `json:"minimum_stock,omitempty"`
	MaximumStock    *int64           `json:"maximum_stock,omitempty"`
	ReorderQuantity *int64           `json:"reorder_quantity,omitempty"`
	Status          *string          `json:"status,omitempty"`
}

// ItemResponse representación de un item.
type ItemResponse struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand"`
	Unit            string          `json:"unit"`
	Cost            decimal.Decimal `json:"cost"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	CurrentStock    int64           `json:"current_stock"`
	MinimumStock    int64           `json:"minimum_stock"`
	MaximumStock    int64           `json:"maximum_stock"`
	ReorderQuantity int64           `json:"reorder_quantity"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ItemListResponse listado paginado de items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ItemStockResponse posición de stock de un item.
type ItemStockResponse struct {
	ItemID       string `json:"item_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int64  `json:"current_stock"`
	MinimumStock int64  `json:"minimum_stock"`
	BelowMinimum bool   `json:"below_minimum"`
}

// LowStockItemDTO item en o bajo su stock mínimo, con cantidad sugerida de pedido.
type LowStockItemDTO struct {
	ItemID            string `json:"item_id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	CurrentStock      int64  `json:"current_stock"`
	MinimumStock      int64  `json:"minimum_stock"`
	SuggestedOrderQty int64  `json:"suggested_order_qty"`
}
