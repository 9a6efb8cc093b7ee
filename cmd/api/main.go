package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/audit"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/auth"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/items"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/orders"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/application/stock"
	"github.com/chrstnfrrr03/erp-system-sub002/internal/infrastructure/postgres"
	httpRouter "github.com/chrstnfrrr03/erp-system-sub002/internal/interfaces/http"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/config"
	"github.com/chrstnfrrr03/erp-system-sub002/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	prRepo := postgres.NewPurchaseRequestRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	salesRepo := postgres.NewSalesOrderRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorder := audit.NewRecorder(auditRepo, log)
	auditReader := audit.NewReader(auditRepo)
	journal := stock.NewJournal(txRunner, movementRepo, itemRepo, recorder, log)

	itemUC := items.NewUseCase(txRunner, itemRepo, journal, recorder)
	prUC := orders.NewPurchaseRequestUseCase(txRunner, prRepo, itemRepo, recorder)
	orderUC := orders.NewReplenishmentUseCase(txRunner, orderRepo, itemRepo, journal, recorder)
	salesUC := orders.NewSalesUseCase(txRunner, salesRepo, itemRepo, journal, recorder)
	authUC := auth.NewUseCase(userRepo, recorder, cfg.JWT)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.LoggingMiddleware(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "AIMS Core API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:            itemUC,
		Journal:           journal,
		PurchaseRequestUC: prUC,
		OrderUC:           orderUC,
		SalesUC:           salesUC,
		AuditReader:       auditReader,
		AuthUC:            authUC,
		JWTSecret:         cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
