// Package http expone la API REST del punto de venta sobre Fiber.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/pos-insights-api/internal/application/analytics"
	"github.com/jhoicas/pos-insights-api/internal/application/assistant"
	"github.com/jhoicas/pos-insights-api/internal/application/recommendation"
	"github.com/jhoicas/pos-insights-api/internal/application/sales"
	"github.com/jhoicas/pos-insights-api/internal/application/usecase"
	"github.com/jhoicas/pos-insights-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	CustomerUC       *usecase.CustomerUseCase
	SaleUC           *sales.SaleUseCase
	RecommendationUC *recommendation.RecommendationUseCase
	ReportUC         *analytics.ReportUseCase
	AssistantUC      *assistant.AssistantUseCase
	AssistantLimiter *limiter.Limiter // nil = sin límite
	Log              *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/low-stock", productHandler.LowStock)

	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	recHandler := NewRecommendationHandler(deps.RecommendationUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Get("/:id/insights", recHandler.Insights)
	customers.Get("/:id/recommendations", recHandler.ForCustomer)

	api.Get("/recommendations", recHandler.All)

	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", saleHandler.Create)

	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/", reportHandler.Generate)
	reports.Get("/pdf", reportHandler.DownloadPDF)

	// Asistente (con límite de peticiones por IP)
	ai := api.Group("/ai")
	if deps.AssistantLimiter != nil {
		ai.Use(RateLimit(deps.AssistantLimiter, deps.Log))
	}
	assistantHandler := NewAssistantHandler(deps.AssistantUC)
	ai.Post("/interpret", assistantHandler.Interpret)
}
