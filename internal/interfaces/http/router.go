package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/Comisiones-api/internal/application/auth"
	"github.com/jhoicas/Comisiones-api/internal/application/dto"
	"github.com/jhoicas/Comisiones-api/internal/application/export"
	"github.com/jhoicas/Comisiones-api/internal/application/sales"
	"github.com/jhoicas/Comisiones-api/pkg/logger"
)

// DefaultLoginAttempts intentos de login por IP y minuto.
const DefaultLoginAttempts = 5

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Gate          *auth.AccessGate
	SaleUC        *sales.SaleUseCase
	ExportUC      *export.ExportUseCase
	JWTSecret     string
	LoginAttempts int // 0 = DefaultLoginAttempts
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	attempts := deps.LoginAttempts
	if attempts <= 0 {
		attempts = DefaultLoginAttempts
	}

	// Auth (público, con límite de intentos)
	authHandler := NewAuthHandler(deps.Gate)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        attempts,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "TOO_MANY_ATTEMPTS", Message: "demasiados intentos, espere un minuto"})
		},
	}), authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	saleHandler := NewSaleHandler(deps.SaleUC, deps.Log)
	salesGroup := protected.Group("/sales")
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Post("/deletions/:token/confirm", saleHandler.ConfirmDelete)
	salesGroup.Delete("/deletions/:token", saleHandler.CancelDelete)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/delete-request", saleHandler.RequestDelete)

	protected.Get("/logs", saleHandler.Logs)
	protected.Get("/summary", saleHandler.Summary)

	exportHandler := NewExportHandler(deps.ExportUC)
	exportGroup := protected.Group("/export")
	exportGroup.Get("/sales.xlsx", exportHandler.Sales)
	exportGroup.Get("/report.pdf", exportHandler.Report)
}
