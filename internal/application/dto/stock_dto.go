package dto

import "time"

// StockAdjustmentRequest body para POST /api/stock/in y /api/stock/out.
type StockAdjustmentRequest struct {
	ItemID    string `json:"item_id"`
	Quantity  int64  `json:"quantity"`
	Reference string `json:"reference,omitempty"`
	Note      string `json:"note,omitempty"`
}

// MovementResponse representación de un movimiento de stock.
type MovementResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	ItemSKU   string    `json:"item_sku,omitempty"`
	ItemName  string    `json:"item_name,omitempty"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	Reference string    `json:"reference"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// MovementListResponse listado de movimientos.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}
