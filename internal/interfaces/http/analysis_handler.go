package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
	"github.com/jhoicas/cashflow-api/internal/application/usecase"
	"github.com/jhoicas/cashflow-api/internal/domain"
)

// AnalysisHandler expone el motor analítico: análisis parametrizado por POST
// y atajos GET por sección.
type AnalysisHandler struct {
	uc       *usecase.AnalysisUseCase
	validate *validator.Validate
}

// NewAnalysisHandler crea el handler de análisis.
func NewAnalysisHandler(uc *usecase.AnalysisUseCase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc, validate: validator.New()}
}

// Run ejecuta un análisis sobre el dataset vigente.
// @Summary      Ejecutar análisis
// @Description  Ejecuta el análisis indicado (snapshot, cash-eaters, reorder, free-up-cash o full) y, si include_insight=true, adjunta la narrativa del proveedor de IA
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AnalysisRequest  true  "Parámetros del análisis"
// @Success      200   {object}  dto.AnalysisResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/analysis [post]
func (h *AnalysisHandler) Run(c *fiber.Ctx) error {
	var req dto.AnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "JSON inválido"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	result, err := h.uc.Run(c.Context(), req)
	if err != nil {
		return analysisError(c, err)
	}
	return c.JSON(result)
}

// Snapshot devuelve el resumen ejecutivo del período.
// @Summary      Resumen ejecutivo
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  dto.SnapshotDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/analysis/snapshot [get]
func (h *AnalysisHandler) Snapshot(c *fiber.Ctx) error {
	snap, err := h.uc.Snapshot(c.Context())
	if err != nil {
		return analysisError(c, err)
	}
	return c.JSON(snap)
}

// CashEaters devuelve los drenajes de caja y los productos de bajo margen.
// @Summary      Drenajes de caja
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  dto.CashEatersDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/analysis/cash-eaters [get]
func (h *AnalysisHandler) CashEaters(c *fiber.Ctx) error {
	eaters, err := h.uc.CashEaters(c.Context())
	if err != nil {
		return analysisError(c, err)
	}
	return c.JSON(eaters)
}

// Reorder devuelve el plan de compra sujeto a presupuesto.
// @Summary      Plan de reposición
// @Description  Genera el plan de compra greedy. Sin query budget usa el presupuesto por defecto; budget=0 devuelve un plan vacío.
// @Tags         analysis
// @Produce      json
// @Param        budget  query     number  false  "Presupuesto disponible"
// @Success      200     {object}  dto.ReorderPlanDTO
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/analysis/reorder [get]
func (h *AnalysisHandler) Reorder(c *fiber.Ctx) error {
	budget, err := budgetQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	plan, err := h.uc.ReorderPlan(c.Context(), budget)
	if err != nil {
		return analysisError(c, err)
	}
	return c.JSON(plan)
}

// FreeUpCash devuelve la estimación de liquidación de lento movimiento.
// @Summary      Liberar caja
// @Tags         analysis
// @Produce      json
// @Success      200  {object}  dto.ClearanceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/analysis/free-up-cash [get]
func (h *AnalysisHandler) FreeUpCash(c *fiber.Ctx) error {
	clearance, err := h.uc.Clearance(c.Context())
	if err != nil {
		return analysisError(c, err)
	}
	return c.JSON(clearance)
}

// budgetQuery parsea la query ?budget= a decimal. nil si no viene.
func budgetQuery(c *fiber.Ctx) (*decimal.Decimal, error) {
	raw := c.Query("budget")
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("budget %q no es un número válido", raw)
	}
	return &d, nil
}

// analysisError mapea errores del caso de uso a respuestas HTTP.
func analysisError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoDataset):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_DATASET", Message: "no hay dataset cargado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "el análisis excedió el tiempo máximo"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
