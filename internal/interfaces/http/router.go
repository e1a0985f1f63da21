package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/application/valuation"
	"github.com/jhoicas/Costos-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Resolver      *cogs.CostResolver
	Snapshot      *cogs.SnapshotUseCase
	Refunds       *cogs.RefundUseCase
	Query         *cogs.CostQueryUseCase
	Backfill      *cogs.BackfillJob
	Migration     *cogs.VariableCostMigration
	Valuation     *valuation.UseCase
	PriceDecimals int32
	JWTSecret     string
	JWTIssuer     string
}

// Router registra las rutas de la API. Todas requieren Bearer Token con rol admin o shop_manager.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api",
		AuthMiddleware(deps.JWTSecret, deps.JWTIssuer),
		RequireRole(jwt.RoleAdmin, jwt.RoleShopManager),
	)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Resolver, deps.PriceDecimals)
	products.Get("/:id/cost", productHandler.GetCost)
	products.Get("/:id/variant-costs", productHandler.GetVariantCosts)
	products.Post("/:id/variant-costs/refresh", productHandler.RefreshVariantCosts)

	orderHandler := NewOrderHandler(deps.Snapshot, deps.Refunds, deps.Query)
	orders := api.Group("/orders")
	orders.Post("/:id/costs/snapshot", orderHandler.Snapshot)
	orders.Put("/:id/costs", orderHandler.ApplyOverrides)
	orders.Get("/:id/costs", orderHandler.Summary)
	orders.Post("/:id/items/:itemId/costs", orderHandler.InitItemCost)
	api.Post("/refunds/:id/costs", orderHandler.AllocateRefund)

	reports := api.Group("/reports")
	valuationHandler := NewValuationHandler(deps.Valuation)
	reports.Get("/valuation", valuationHandler.Totals)
	reports.Get("/valuation/products", valuationHandler.Products)
	reports.Get("/valuation/products.pdf", valuationHandler.ProductsPDF)

	jobs := api.Group("/jobs")
	jobHandler := NewJobHandler(deps.Backfill, deps.Migration)
	jobs.Post("/apply-costs/step", jobHandler.ApplyCostsStep)
	jobs.Post("/variable-costs/step", jobHandler.VariableCostsStep)
}
