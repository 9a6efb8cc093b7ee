package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/auth"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/items"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/orders"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC            *items.UseCase
	Journal           *stock.Journal
	PurchaseRequestUC *orders.PurchaseRequestUseCase
	OrderUC           *orders.ReplenishmentUseCase
	SalesUC           *orders.SalesUseCase
	AuditReader       *audit.Reader
	AuthUC            *auth.UseCase
	JWTSecret         string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público; register y logout protegidos
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireAdmin(), authHandler.Register)
	authGroup.Post("/logout", AuthMiddleware(deps.JWTSecret), authHandler.Logout)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items
	itemHandler := NewItemHandler(deps.ItemUC)
	itemsGroup := protected.Group("/items")
	itemsGroup.Post("/", itemHandler.Create)
	itemsGroup.Get("/", itemHandler.List)
	itemsGroup.Get("/low-stock", itemHandler.LowStock)
	itemsGroup.Get("/:id", itemHandler.GetByID)
	itemsGroup.Put("/:id", itemHandler.Update)
	itemsGroup.Delete("/:id", itemHandler.Delete)
	itemsGroup.Get("/:id/stock", itemHandler.GetStock)

	// Stock: ajustes manuales y journal de movimientos
	stockHandler := NewStockHandler(deps.Journal)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/in", stockHandler.StockIn)
	stockGroup.Post("/out", stockHandler.StockOut)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Get("/movements/:id", stockHandler.GetMovement)

	// Purchase requests
	prHandler := NewPurchaseRequestHandler(deps.PurchaseRequestUC)
	prGroup := protected.Group("/purchase-requests")
	prGroup.Post("/", prHandler.Create)
	prGroup.Get("/", prHandler.List)
	prGroup.Get("/latest-number", prHandler.LatestNumber)
	prGroup.Get("/:id", prHandler.GetByID)
	prGroup.Post("/:id/approve", prHandler.Approve)
	prGroup.Post("/:id/reject", prHandler.Reject)

	// Replenishment orders
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/latest-number", orderHandler.LatestNumber)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id", orderHandler.Update)
	ordersGroup.Post("/:id/approve", orderHandler.Approve)
	ordersGroup.Post("/:id/receive", orderHandler.Receive)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)

	// Sales orders
	salesHandler := NewSalesOrderHandler(deps.SalesUC)
	salesGroup := protected.Group("/sales-orders")
	salesGroup.Post("/", salesHandler.Create)
	salesGroup.Get("/", salesHandler.List)
	salesGroup.Get("/latest-number", salesHandler.LatestNumber)
	salesGroup.Get("/:id", salesHandler.GetByID)
	salesGroup.Put("/:id", salesHandler.Update)
	salesGroup.Post("/:id/fulfill", salesHandler.Fulfill)
	salesGroup.Post("/:id/cancel", salesHandler.Cancel)

	// Audit log (solo admin)
	auditHandler := NewAuditHandler(deps.AuditReader)
	protected.Get("/audit-logs", RequireAdmin(), auditHandler.List)
}
