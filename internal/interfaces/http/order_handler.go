package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/dto"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/orders"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// OrderHandler maneja el workflow de órdenes de reposición (protegido).
type OrderHandler struct {
	uc *orders.ReplenishmentUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.ReplenishmentUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de reposición
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "po_number, supplier_id, items con unit_cost"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	in := orders.CreateOrderInput{
		PONumber:     req.PONumber,
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
		Lines:        toLineInputs(req.Items),
	}
	if req.OrderDate != nil {
		in.OrderDate = *req.OrderDate
	}
	order, err := h.uc.Create(c.Context(), CallerFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// List godoc
// @Summary      Listar órdenes de reposición
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, order := range list {
		out = append(out, toOrderResponse(order))
	}
	return c.JSON(fiber.Map{
		"orders": out,
		"page":   dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener orden de reposición
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	return c.JSON(toOrderResponse(order))
}

// Update godoc
// @Summary      Actualizar cabecera de orden
// @Description  Solo mientras está pending. Las líneas son inmutables.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la orden"
// @Param        body  body  dto.UpdateOrderRequest  true  "campos de cabecera"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	order, err := h.uc.Update(c.Context(), CallerFrom(c), c.Params("id"), orders.UpdateOrderInput{
		OrderDate:    req.OrderDate,
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Approve godoc
// @Summary      Aprobar orden de reposición
// @Description  Transición pending→approved. Registra un movimiento IN por línea y
//
//	actualiza el costo promedio ponderado de cada item, atómicamente.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *fiber.Ctx) error {
	order, err := h.uc.Approve(c.Context(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Receive godoc
// @Summary      Registrar recepción física
// @Description  Transición approved→received. Sin efecto de stock.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	order, err := h.uc.Receive(c.Context(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// Cancel godoc
// @Summary      Cancelar orden de reposición
// @Description  Transición pending→cancelled. Sin efecto de stock.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.uc.Cancel(c.Context(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOrderResponse(order))
}

// LatestNumber godoc
// @Summary      Último número de orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LatestNumberResponse
// @Router       /api/orders/latest-number [get]
func (h *OrderHandler) LatestNumber(c *fiber.Ctx) error {
	number, suffix, err := h.uc.LatestNumber()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LatestNumberResponse{Number: number, Suffix: suffix})
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:           o.ID,
		PONumber:     o.PONumber,
		SupplierID:   o.SupplierID,
		SupplierName: o.SupplierName,
		OrderDate:    o.OrderDate,
		Status:       o.Status,
		TotalAmount:  o.TotalAmount,
		ApprovedBy:   o.ApprovedBy,
		ApprovedAt:   o.ApprovedAt,
		CreatedAt:    o.CreatedAt,
	}
	for _, line := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:       line.ID,
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			UnitCost: line.UnitCost,
			Subtotal: line.Subtotal,
		})
	}
	return out
}
