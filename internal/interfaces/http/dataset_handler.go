package http

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
	"github.com/jhoicas/cashflow-api/internal/application/usecase"
	"github.com/jhoicas/cashflow-api/internal/domain"
)

// DatasetHandler maneja la carga, el estado y el reset del dataset vigente.
type DatasetHandler struct {
	uc *usecase.DatasetUseCase
}

// NewDatasetHandler crea el handler del dataset.
func NewDatasetHandler(uc *usecase.DatasetUseCase) *DatasetHandler {
	return &DatasetHandler{uc: uc}
}

// Upload carga un dataset nuevo desde archivos CSV (multipart/form-data).
// @Summary      Cargar dataset
// @Description  Reemplaza el dataset vigente con los CSV subidos. El campo "transactions" es obligatorio; "refunds", "payouts" y "products" son opcionales.
// @Tags         datasets
// @Accept       multipart/form-data
// @Produce      json
// @Param        transactions  formData  file  true   "CSV de transacciones"
// @Param        refunds       formData  file  false  "CSV de devoluciones"
// @Param        payouts       formData  file  false  "CSV de liquidaciones del procesador"
// @Param        products      formData  file  false  "CSV del maestro de productos"
// @Success      201  {object}  dto.DatasetUploadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/datasets [post]
func (h *DatasetHandler) Upload(c *fiber.Ctx) error {
	var files usecase.DatasetFiles
	var toClose []multipart.File
	defer func() {
		for _, f := range toClose {
			f.Close()
		}
	}()

	open := func(field string) (multipart.File, error) {
		header, err := c.FormFile(field)
		if err != nil {
			return nil, err
		}
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		toClose = append(toClose, f)
		return f, nil
	}

	if f, err := open("transactions"); err == nil {
		files.Transactions = f
	}
	if f, err := open("refunds"); err == nil {
		files.Refunds = f
	}
	if f, err := open("payouts"); err == nil {
		files.Payouts = f
	}
	if f, err := open("products"); err == nil {
		files.Products = f
	}

	resp, err := h.uc.Upload(c.Context(), files)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error al guardar el dataset"})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Status devuelve el estado del dataset vigente.
// @Summary      Estado del dataset
// @Description  Indica si hay dataset cargado, sus conteos por colección y el período cubierto
// @Tags         datasets
// @Produce      json
// @Success      200  {object}  dto.DatasetStatusResponse
// @Security     BearerAuth
// @Router       /api/datasets [get]
func (h *DatasetHandler) Status(c *fiber.Ctx) error {
	resp, err := h.uc.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error al consultar el dataset"})
	}
	return c.JSON(resp)
}

// Reset descarta el dataset vigente.
// @Summary      Descartar dataset
// @Description  Elimina el dataset vigente; es idempotente
// @Tags         datasets
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Security     BearerAuth
// @Router       /api/datasets [delete]
func (h *DatasetHandler) Reset(c *fiber.Ctx) error {
	if err := h.uc.Reset(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error al descartar el dataset"})
	}
	return c.JSON(dto.MessageResponse{Message: "dataset descartado"})
}
