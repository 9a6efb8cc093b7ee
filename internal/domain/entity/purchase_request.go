package entity

import "time"

// Estados de una solicitud de compra (requisición interna).
// Approved y Rejected son terminales; ambos solo alcanzables desde Pending.
const (
	PRStatusPending  = "pending"
	PRStatusApproved = "approved"
	PRStatusRejected = "rejected"
)

// PurchaseRequest requisición interna de compra. Su aprobación NO afecta stock:
// solo cambia el estado y estampa aprobador y fecha.
type PurchaseRequest struct {
	ID          string
	Number      string // único, ingresado por el usuario con sufijo numérico
	RequestDate time.Time
	Notes       string
	Status      string
	RequestedBy string // UserID del solicitante
	ApprovedBy  *string
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []PurchaseRequestItem
}

// PurchaseRequestItem línea de una solicitud de compra.
type PurchaseRequestItem struct {
	ID        string
	RequestID string
	ItemID    string
	Quantity  int64
}

// Pending indica si la solicitud aún admite transiciones.
func (p *PurchaseRequest) Pending() bool { return p.Status == PRStatusPending }
