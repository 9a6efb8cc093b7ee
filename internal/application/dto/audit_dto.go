package dto

import (
	"encoding/json"
	"time"
)

// AuditLogResponse representación de una entrada del registro de auditoría.
type AuditLogResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	UserName    string          `json:"user_name"`
	UserRole    string          `json:"user_role"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	OldValues   json.RawMessage `json:"old_values,omitempty"`
	NewValues   json.RawMessage `json:"new_values,omitempty"`
	Changes     json.RawMessage `json:"changes,omitempty"`
	IPAddress   string          `json:"ip_address,omitempty"`
	UserAgent   string          `json:"user_agent,omitempty"`
	Module      string          `json:"module"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AuditLogListResponse listado paginado del registro de auditoría.
type AuditLogListResponse struct {
	Logs []AuditLogResponse `json:"logs"`
	Page PageResponse       `json:"page"`
}
