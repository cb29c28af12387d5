package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
	"github.com/jhoicas/cashflow-api/internal/application/ports"
	"github.com/jhoicas/cashflow-api/internal/application/usecase"
)

// ReportHandler genera el reporte PDF del análisis completo.
type ReportHandler struct {
	uc  *usecase.AnalysisUseCase
	pdf ports.ReportPDFGenerator
}

// NewReportHandler crea el handler del reporte.
func NewReportHandler(uc *usecase.AnalysisUseCase, pdf ports.ReportPDFGenerator) *ReportHandler {
	return &ReportHandler{uc: uc, pdf: pdf}
}

// Download genera y descarga el reporte PDF del análisis completo.
// @Summary      Reporte PDF
// @Description  Ejecuta el análisis completo y lo renderiza como PDF. Acepta budget, language e include_insight como query params.
// @Tags         analysis
// @Produce      application/pdf
// @Param        budget           query  number   false  "Presupuesto para el plan de reposición"
// @Param        language         query  string   false  "Idioma del insight (en, es, it)"
// @Param        include_insight  query  boolean  false  "Incluir narrativa del proveedor de IA"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/analysis/report.pdf [get]
func (h *ReportHandler) Download(c *fiber.Ctx) error {
	budget, err := budgetQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	result, err := h.uc.Run(c.Context(), dto.AnalysisRequest{
		AnalysisType:   dto.AnalysisFull,
		Budget:         budget,
		Language:       c.Query("language"),
		IncludeInsight: c.QueryBool("include_insight"),
	})
	if err != nil {
		return analysisError(c, err)
	}

	pdfBytes, err := h.pdf.GenerateAnalysisReport(*result)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error al generar el PDF"})
	}

	filename := fmt.Sprintf("cashflow-report-%s.pdf", time.Now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(pdfBytes)
}
