package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-api/internal/application/audit"
	"github.com/jhoicas/activos-api/internal/application/auth"
	"github.com/jhoicas/activos-api/internal/application/ledger"
	"github.com/jhoicas/activos-api/internal/application/stock"
	"github.com/jhoicas/activos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC *ledger.UseCase
	StockUC    *stock.UseCase
	AuditUC    *audit.QueryUseCase
	AuthUC     *auth.UseCase
	PDF        ledger.MovementPDFGenerator
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Documentos de movimiento (protegido)
	invoices := protected.Group("/invoices")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.PDF)
	invoices.Post("/", movementHandler.Create)
	invoices.Get("/", movementHandler.List)
	invoices.Get("/:id", movementHandler.GetByID)
	invoices.Put("/:id", movementHandler.Update)
	invoices.Delete("/:id", movementHandler.Delete)
	invoices.Get("/:id/pdf", movementHandler.GetPDF)

	// Catálogo de bienes (protegido)
	tso := protected.Group("/tso")
	stockHandler := NewStockHandler(deps.StockUC)
	tso.Get("/", stockHandler.List)
	tso.Post("/", stockHandler.Create)
	tso.Put("/:id", stockHandler.Update)
	tso.Delete("/:id", stockHandler.Delete)

	// Log de auditoría (protegido, solo admin)
	logs := protected.Group("/logs", RequireRole(entity.RoleAdmin))
	auditHandler := NewAuditHandler(deps.AuditUC)
	logs.Get("/", auditHandler.List)
	logs.Get("/:entity", auditHandler.List)
}
