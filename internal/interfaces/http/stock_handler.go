package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/dto"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/stock"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/repository"
)

// StockHandler maneja ajustes manuales y consultas del journal de movimientos (protegido).
type StockHandler struct {
	journal *stock.Journal
}

// NewStockHandler construye el handler.
func NewStockHandler(journal *stock.Journal) *StockHandler {
	return &StockHandler{journal: journal}
}

// StockIn godoc
// @Summary      Entrada manual de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "item_id, quantity, reference opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	return h.adjust(c, h.journal.StockIn)
}

// StockOut godoc
// @Summary      Salida manual de stock
// @Description  Falla con 409 si la cantidad excede el stock disponible; no hay clamp a cero.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "item_id, quantity, reference opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/out [post]
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	return h.adjust(c, h.journal.StockOut)
}

func (h *StockHandler) adjust(c *fiber.Ctx, do func(ctx context.Context, caller audit.Caller, in stock.AdjustmentInput) (*entity.StockMovement, error)) error {
	var req dto.StockAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	mov, err := do(c.Context(), CallerFrom(c), stock.AdjustmentInput{
		ItemID:    req.ItemID,
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Note:      req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		ID:        mov.ID,
		ItemID:    mov.ItemID,
		Type:      mov.Type,
		Quantity:  mov.Quantity,
		Reference: mov.Reference,
		Note:      mov.Note,
		CreatedAt: mov.CreatedAt,
		CreatedBy: mov.CreatedBy,
	})
}

// ListMovements godoc
// @Summary      Listar movimientos de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "filtrar por item"
// @Param        type     query  string  false  "IN u OUT"
// @Param        from     query  string  false  "desde (RFC3339)"
// @Param        to       query  string  false  "hasta (RFC3339)"
// @Param        limit    query  int     false  "máximo de filas (default 50)"
// @Param        offset   query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	f := repository.MovementFilter{
		ItemID: c.Query("item_id"),
		Type:   c.Query("type"),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badBody(c)
		}
		f.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return badBody(c)
		}
		f.To = &t
	}

	list := h.journal.ListMovements(f)
	out := make([]dto.MovementResponse, 0, len(list))
	for _, mv := range list {
		out = append(out, toMovementResponse(mv))
	}
	return c.JSON(dto.MovementListResponse{
		Movements: out,
		Page:      dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	})
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [get]
func (h *StockHandler) GetMovement(c *fiber.Ctx) error {
	mv := h.journal.GetMovement(c.Params("id"))
	if mv == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
	}
	return c.JSON(toMovementResponse(mv))
}

func toMovementResponse(mv *repository.MovementWithItem) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        mv.ID,
		ItemID:    mv.ItemID,
		ItemSKU:   mv.ItemSKU,
		ItemName:  mv.ItemName,
		Type:      mv.Type,
		Quantity:  mv.Quantity,
		Reference: mv.Reference,
		Note:      mv.Note,
		CreatedAt: mv.CreatedAt,
		CreatedBy: mv.CreatedBy,
	}
}
