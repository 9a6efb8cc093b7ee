package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/dto"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/orders"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/domain/entity"
)

// SalesOrderHandler maneja el workflow de órdenes de venta (protegido).
type SalesOrderHandler struct {
	uc *orders.SalesUseCase
}

// NewSalesOrderHandler construye el handler.
func NewSalesOrderHandler(uc *orders.SalesUseCase) *SalesOrderHandler {
	return &SalesOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de venta
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "so_number, customer_id, items con unit_price"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
func (h *SalesOrderHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSalesOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	in := orders.CreateSalesOrderInput{
		SONumber:     req.SONumber,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Lines:        toLineInputs(req.Items),
	}
	if req.OrderDate != nil {
		in.OrderDate = *req.OrderDate
	}
	so, err := h.uc.Create(c.Context(), CallerFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSalesOrderResponse(so))
}

// List godoc
// @Summary      Listar órdenes de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.SalesOrderResponse
// @Router       /api/sales-orders [get]
func (h *SalesOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SalesOrderResponse, 0, len(list))
	for _, so := range list {
		out = append(out, toSalesOrderResponse(so))
	}
	return c.JSON(fiber.Map{
		"orders": out,
		"page":   dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Obtener orden de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id} [get]
func (h *SalesOrderHandler) GetByID(c *fiber.Ctx) error {
	so, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if so == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	return c.JSON(toSalesOrderResponse(so))
}

// Update godoc
// @Summary      Actualizar cabecera de orden de venta
// @Description  Solo mientras está pending. Las líneas son inmutables.
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la orden"
// @Param        body  body  dto.UpdateSalesOrderRequest  true  "campos de cabecera"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id} [put]
func (h *SalesOrderHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSalesOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	so, err := h.uc.Update(c.Context(), CallerFrom(c), c.Params("id"), orders.UpdateSalesOrderInput{
		OrderDate:    req.OrderDate,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSalesOrderResponse(so))
}

// Fulfill godoc
// @Summary      Despachar orden de venta
// @Description  Transición pending→fulfilled. Verifica suficiencia de stock de todas
//
//	las líneas bajo lock y registra un movimiento OUT por línea, atómicamente.
//	Si una línea no cabe, falla con 409 y no se mueve nada.
//
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/fulfill [post]
func (h *SalesOrderHandler) Fulfill(c *fiber.Ctx) error {
	so, err := h.uc.Fulfill(c.Context(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSalesOrderResponse(so))
}

// Cancel godoc
// @Summary      Cancelar orden de venta
// @Description  Transición pending→cancelled. Sin efecto de stock.
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/cancel [post]
func (h *SalesOrderHandler) Cancel(c *fiber.Ctx) error {
	so, err := h.uc.Cancel(c.Context(), CallerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSalesOrderResponse(so))
}

// LatestNumber godoc
// @Summary      Último número de orden de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LatestNumberResponse
// @Router       /api/sales-orders/latest-number [get]
func (h *SalesOrderHandler) LatestNumber(c *fiber.Ctx) error {
	number, suffix, err := h.uc.LatestNumber()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LatestNumberResponse{Number: number, Suffix: suffix})
}

func toSalesOrderResponse(o *entity.SalesOrder) dto.SalesOrderResponse {
	out := dto.SalesOrderResponse{
		ID:           o.ID,
		SONumber:     o.SONumber,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		OrderDate:    o.OrderDate,
		Status:       o.Status,
		TotalAmount:  o.TotalAmount,
		FulfilledBy:  o.FulfilledBy,
		FulfilledAt:  o.FulfilledAt,
		CreatedAt:    o.CreatedAt,
	}
	for _, line := range o.Items {
		out.Items = append(out.Items, dto.SalesOrderItemResponse{
			ID:        line.ID,
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	return out
}
