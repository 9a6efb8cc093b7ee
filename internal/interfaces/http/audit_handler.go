package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/dto"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

// AuditHandler consultas del registro de auditoría (protegido, solo admin).
type AuditHandler struct {
	reader *audit.Reader
}

// NewAuditHandler construye el handler.
func NewAuditHandler(reader *audit.Reader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// List godoc
// @Summary      Listar registro de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entity_type  query  string  false  "item, stock_movement, purchase_request, order, sales_order, user"
// @Param        action       query  string  false  "created, updated, approved, fulfilled..."
// @Param        limit        query  int     false  "máximo de filas (default 50)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.AuditLogListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	f := repository.AuditFilter{
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
		Limit:      c.QueryInt("limit"),
		Offset:     c.QueryInt("offset"),
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	list, err := h.reader.List(f)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AuditLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.AuditLogResponse{
			ID:          l.ID,
			UserID:      l.UserID,
			UserName:    l.UserName,
			UserRole:    l.UserRole,
			EntityType:  string(l.EntityType),
			EntityID:    l.EntityID,
			Action:      l.Action,
			Description: l.Description,
			OldValues:   l.OldValues,
			NewValues:   l.NewValues,
			Changes:     l.Changes,
			IPAddress:   l.IPAddress,
			UserAgent:   l.UserAgent,
			Module:      l.Module,
			CreatedAt:   l.CreatedAt,
		})
	}
	return c.JSON(dto.AuditLogListResponse{
		Logs: out,
		Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	})
}
