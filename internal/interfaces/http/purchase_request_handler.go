package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/dto"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/orders"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// PurchaseRequestHandler maneja el workflow de solicitudes de compra (protegido).
type PurchaseRequestHandler struct {
	uc *orders.PurchaseRequestUseCase
}

// NewPurchaseRequestHandler construye el handler.
func NewPurchaseRequestHandler(uc *orders.PurchaseRequestUseCase) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de compra
// @Tags         purchase-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequestRequest  true  "number, items"
// @Success      201   {object}  dto.PurchaseRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests [post]
func (h *PurchaseRequestHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePurchaseRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	in := orders.CreatePurchaseRequestInput{
		Number: req.Number,
		Notes:  req.Notes,
		Lines:  toLineInputs(req.Items),
	}
	if req.RequestDate != nil {
		in.RequestDate = *req.RequestDate
	}
	pr, err := h.uc.Create(c.Context(), CallerFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseRequestResponse(pr))
}

// List godoc
// @Summary      Listar solicitudes de compra
// @Tags         purchase-requests
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.PurchaseRequestResponse
// @Router       /api/purchase-requests [get]
func (h *PurchaseRequestHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PurchaseRequestResponse, 0, len(list))
	for _, pr := range list {
		out = append(out, toPurchaseRequestResponse(pr))
	}
	return c.JSON(fiber.Map{
		"requests": out,
		"page":     dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener solicitud de compra
// @Tags         purchase-requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id} [get]
func (h *PurchaseRequestHandler) GetByID(c *fiber.Ctx) error {
	pr, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if pr == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
	}
	return c.JSON(toPurchaseRequestResponse(pr))
}

// Approve godoc
// @Summary      Aprobar solicitud de compra
// @Description  Transición pending→approved. No afecta stock.
// @Tags         purchase-requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/approve [post]
func (h *PurchaseRequestHandler) Approve(c *fiber.Ctx) error {
	pr, err := h.uc.Approve(c.Context(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseRequestResponse(pr))
}

// Reject godoc
// @Summary      Rechazar solicitud de compra
// @Description  Transición pending→rejected. No afecta stock.
// @Tags         purchase-requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/reject [post]
func (h *PurchaseRequestHandler) Reject(c *fiber.Ctx) error {
	pr, err := h.uc.Reject(c.Context(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseRequestResponse(pr))
}

// LatestNumber godoc
// @Summary      Último número de solicitud
// @Description  Sugerencia para el cliente; la unicidad la garantiza el alta.
// @Tags         purchase-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LatestNumberResponse
// @Router       /api/purchase-requests/latest-number [get]
func (h *PurchaseRequestHandler) LatestNumber(c *fiber.Ctx) error {
	number, suffix, err := h.uc.LatestNumber()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LatestNumberResponse{Number: number, Suffix: suffix})
}

func toLineInputs(lines []dto.LineRequest) []orders.LineInput {
	out := make([]orders.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, orders.LineInput{
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			UnitPrice: l.UnitPrice,
		})
	}
	return out
}

func toPurchaseRequestResponse(pr *entity.PurchaseRequest) dto.PurchaseRequestResponse {
	out := dto.PurchaseRequestResponse{
		ID:          pr.ID,
		Number:      pr.Number,
		RequestDate: pr.RequestDate,
		Notes:       pr.Notes,
		Status:      pr.Status,
		RequestedBy: pr.RequestedBy,
		ApprovedBy:  pr.ApprovedBy,
		ApprovedAt:  pr.ApprovedAt,
		CreatedAt:   pr.CreatedAt,
	}
	for _, line := range pr.Items {
		out.Items = append(out.Items, dto.PurchaseRequestItemResponse{
			ID:       line.ID,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		})
	}
	return out
}
