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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/jhoicas/pos-insights-api/docs"
	"github.com/jhoicas/pos-insights-api/internal/application/analytics"
	"github.com/jhoicas/pos-insights-api/internal/application/assistant"
	"github.com/jhoicas/pos-insights-api/internal/application/recommendation"
	"github.com/jhoicas/pos-insights-api/internal/application/sales"
	"github.com/jhoicas/pos-insights-api/internal/application/usecase"
	"github.com/jhoicas/pos-insights-api/internal/domain/inventory"
	"github.com/jhoicas/pos-insights-api/internal/domain/repository"
	infraai "github.com/jhoicas/pos-insights-api/internal/infrastructure/ai"
	"github.com/jhoicas/pos-insights-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-insights-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-insights-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-insights-api/internal/infrastructure/ratelimit"
	httpRouter "github.com/jhoicas/pos-insights-api/internal/interfaces/http"
	"github.com/jhoicas/pos-insights-api/pkg/config"
	"github.com/jhoicas/pos-insights-api/pkg/logger"
)

// catalog repositorios y runner de transacciones del backend elegido.
type catalog struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository
	sales     repository.SaleRepository
	tx        sales.TxRunner
	pool      *pgxpool.Pool // nil en memoria
}

func openCatalog(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*catalog, error) {
	if !cfg.Enabled() {
		log.Warn().Msg("sin base de datos configurada: catálogo en memoria con datos de demostración")
		store := memory.NewDemoStore(time.Now())
		return &catalog{
			products:  store.Products(),
			customers: store.Customers(),
			sales:     store.Sales(),
			tx:        store,
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &catalog{
		products:  postgres.NewProductRepository(pool),
		customers: postgres.NewCustomerRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		pool:      pool,
	}, nil
}

// @title        POS Insights API
// @version      1.0
// @description  Catálogo, caja, recomendaciones por cliente, reportes y asistente de comandos del POS.
// @BasePath     /
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
	cat, err := openCatalog(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cat.pool != nil {
		defer cat.pool.Close()
	}

	thresholds := inventory.Thresholds{
		Critical: cfg.Stock.CriticalThreshold,
		Low:      cfg.Stock.LowThreshold,
		Medium:   cfg.Stock.MediumThreshold,
	}
	tuning := recommendation.Tuning{
		ReplenishAfter:     time.Duration(cfg.Recommendation.ReplenishAfterDays) * 24 * time.Hour,
		MinRepeatPurchases: cfg.Recommendation.MinRepeatPurchases,
		ReplenishmentLimit: cfg.Recommendation.ReplenishmentLimit,
		CategoryLimit:      cfg.Recommendation.CategoryLimit,
		CollaborativeLimit: cfg.Recommendation.CollaborativeLimit,
		MergeLimit:         cfg.Recommendation.MergeLimit,
		TopProducts:        cfg.Recommendation.TopProducts,
		TopCategories:      cfg.Recommendation.TopCategories,
		TopBrands:          cfg.Recommendation.TopBrands,
		FanOut:             cfg.Recommendation.FanOut,
	}

	productUC := usecase.NewProductUseCase(cat.products, thresholds)
	customerUC := usecase.NewCustomerUseCase(cat.customers, cat.sales)
	saleUC := sales.NewSaleUseCase(cat.tx, cat.sales, cfg.Sales.TaxRatePercent, log)
	recommendationUC := recommendation.NewRecommendationUseCase(cat.customers, cat.sales, cat.products, tuning, log)

	// PDF: exportación de reportes
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	reportUC := analytics.NewReportUseCase(cat.sales, cat.products, cat.customers, thresholds, pdfGenerator)

	llm, err := infraai.NewProvider(infraai.ProviderConfig{
		Provider:        cfg.AI.Provider,
		AnthropicAPIKey: cfg.AI.AnthropicAPIKey,
		AnthropicModel:  cfg.AI.AnthropicModel,
		GeminiAPIKey:    cfg.AI.GeminiAPIKey,
		GeminiModel:     cfg.AI.GeminiModel,
		OpenAIAPIKey:    cfg.AI.OpenAIAPIKey,
		OpenAIModel:     cfg.AI.OpenAIModel,
	})
	if err != nil {
		log.Error().Err(err).Msg("proveedor de IA ignorado, se usa el intérprete local")
		llm = nil
	}
	if llm != nil {
		log.Info().Str("provider", llm.Name()).Msg("asistente con proveedor remoto")
	}
	assistantUC := assistant.NewAssistantUseCase(llm, cfg.AI.Timeout, log)

	limiter, err := ratelimit.New(ctx, cfg.RateLimit.AssistantRate, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("rate limiter del asistente")
	}
	defer limiter.Close()
	log.Info().Str("store", limiter.Store).Str("rate", cfg.RateLimit.AssistantRate).Msg("rate limiter listo")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(log.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Insights API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "catalog": catalogKind(cat)})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:        productUC,
		CustomerUC:       customerUC,
		SaleUC:           saleUC,
		RecommendationUC: recommendationUC,
		ReportUC:         reportUC,
		AssistantUC:      assistantUC,
		AssistantLimiter: limiter.Limiter,
		Log:              log,
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

func catalogKind(c *catalog) string {
	if c.pool != nil {
		return "postgres"
	}
	return "memory"
}
