// Package http expone la API REST del motor de análisis de caja con Fiber.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cashflow-api/internal/application/auth"
	"github.com/jhoicas/cashflow-api/internal/application/ports"
	"github.com/jhoicas/cashflow-api/internal/application/usecase"
)

// RouterDeps dependencias para construir las rutas.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	DatasetUC  *usecase.DatasetUseCase
	AnalysisUC *usecase.AnalysisUseCase
	PDF        ports.ReportPDFGenerator
	JWTSecret  string
}

// Router registra todas las rutas de la API.
// Públicas: health y login. El resto exige un JWT de admin válido.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.AuthUC)
	datasetHandler := NewDatasetHandler(deps.DatasetUC)
	analysisHandler := NewAnalysisHandler(deps.AnalysisUC)
	reportHandler := NewReportHandler(deps.AnalysisUC, deps.PDF)

	api := app.Group("/api")

	// ── Rutas públicas ────────────────────────────────────────────────────────
	api.Post("/auth/login", authHandler.Login)

	// ── Rutas protegidas (JWT + rol admin) ────────────────────────────────────
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole("admin"))

	protected.Post("/datasets", datasetHandler.Upload)
	protected.Get("/datasets", datasetHandler.Status)
	protected.Delete("/datasets", datasetHandler.Reset)

	protected.Post("/analysis", analysisHandler.Run)
	protected.Get("/analysis/snapshot", analysisHandler.Snapshot)
	protected.Get("/analysis/cash-eaters", analysisHandler.CashEaters)
	protected.Get("/analysis/reorder", analysisHandler.Reorder)
	protected.Get("/analysis/free-up-cash", analysisHandler.FreeUpCash)
	protected.Get("/analysis/report.pdf", reportHandler.Download)
}
