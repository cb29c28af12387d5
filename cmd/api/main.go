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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/application/auth"
	"github.com/jhoicas/cashflow-api/internal/application/ports"
	"github.com/jhoicas/cashflow-api/internal/application/usecase"
	"github.com/jhoicas/cashflow-api/internal/domain/repository"
	infraai "github.com/jhoicas/cashflow-api/internal/infrastructure/ai"
	"github.com/jhoicas/cashflow-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/cashflow-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/cashflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cashflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cashflow-api/internal/interfaces/http"
	"github.com/jhoicas/cashflow-api/pkg/config"
	"github.com/jhoicas/cashflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("dataset_store", cfg.DB.DatasetStore).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Store del dataset: en memoria por defecto, PostgreSQL si se pide
	// persistencia entre reinicios.
	var datasets repository.DatasetRepository
	switch cfg.DB.DatasetStore {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de datasets")
		}
		datasets = postgres.NewDatasetRepository(pool)
	default:
		datasets = memory.NewDatasetStore()
	}

	// Proveedor de IA: opcional. Sin proveedor la API sigue funcionando y los
	// pedidos con include_insight reciben insight_error.
	var aiUC *usecase.AIUseCase
	var insights ports.InsightService
	switch cfg.AI.Provider {
	case "anthropic":
		insights = infraai.NewAnthropicService(cfg.AI.APIKey, cfg.AI.Model)
	case "gemini":
		insights = infraai.NewGeminiService(cfg.AI.APIKey, cfg.AI.Model)
	case "":
		log.Warn().Msg("AI_PROVIDER vacío: insights deshabilitados")
	default:
		log.Fatal().Str("provider", cfg.AI.Provider).Msg("AI_PROVIDER desconocido (use anthropic o gemini)")
	}
	if insights != nil {
		aiUC = usecase.NewAIUseCase(insights)
	}

	datasetUC := usecase.NewDatasetUseCase(datasets, csvimport.NewParser())
	analysisUC := usecase.NewAnalysisUseCase(datasets, aiUC, decimal.NewFromFloat(cfg.Analysis.DefaultBudget))
	authUC := auth.NewAuthUseCase(
		auth.AdminConfig{
			Email:        cfg.Auth.AdminEmail,
			PasswordHash: cfg.Auth.AdminPasswordHash,
		},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    32 * 1024 * 1024, // CSVs de un mes de ventas caben de sobra
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CashFlow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		DatasetUC:  datasetUC,
		AnalysisUC: analysisUC,
		PDF:        infrapdf.NewMarotoReportGenerator(),
		JWTSecret:  cfg.JWT.Secret,
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
