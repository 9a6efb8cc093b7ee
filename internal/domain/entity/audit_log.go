package entity

import (
	"encoding/json"
	"time"
)

// AuditEntity enumera las entidades auditables (variante cerrada, no un tipo abierto;
// permite que la derivación de módulo y descripción sea exhaustiva).
type AuditEntity string

const (
	AuditEntityItem            AuditEntity = "item"
	AuditEntityStockMovement   AuditEntity = "stock_movement"
	AuditEntityPurchaseRequest AuditEntity = "purchase_request"
	AuditEntityOrder           AuditEntity = "order"
	AuditEntitySalesOrder      AuditEntity = "sales_order"
	AuditEntityUser            AuditEntity = "user"
)

// Acciones auditables.
const (
	AuditActionCreated   = "created"
	AuditActionUpdated   = "updated"
	AuditActionDeleted   = "deleted"
	AuditActionApproved  = "approved"
	AuditActionRejected  = "rejected"
	AuditActionReceived  = "received"
	AuditActionFulfilled = "fulfilled"
	AuditActionCancelled = "cancelled"
	AuditActionStockIn   = "stock_in"
	AuditActionStockOut  = "stock_out"
	AuditActionLogin     = "login"
	AuditActionLogout    = "logout"
)

// Módulos del sistema (tag de la entrada de auditoría).
const (
	ModuleAIMS    = "AIMS"
	ModuleHRMS    = "HRMS"
	ModulePayroll = "Payroll"
)

// AuditLog entrada inmutable del registro de auditoría: quién, qué, sobre qué entidad,
// con snapshots antes/después y el diff por campo ya calculado. Append-only: no hay
// camino de actualización ni borrado.
type AuditLog struct {
	ID          string
	UserID      string
	UserName    string
	UserRole    string
	EntityType  AuditEntity
	EntityID    string
	Action      string
	Description string
	OldValues   json.RawMessage // snapshot anterior (null si es creación)
	NewValues   json.RawMessage // snapshot posterior (null si es borrado)
	Changes     json.RawMessage // diff por campo: {campo: {old, new}}
	IPAddress   string
	UserAgent   string
	Module      string // AIMS, HRMS, Payroll
	CreatedAt   time.Time
}

// ModuleFor deriva el módulo a partir de la entidad auditada.
func ModuleFor(e AuditEntity) string {
	switch e {
	case AuditEntityUser:
		return ModuleHRMS
	default:
		return ModuleAIMS
	}
}
