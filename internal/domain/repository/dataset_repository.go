package repository

import (
	"context"

	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// DatasetRepository guarda el dataset vigente sobre el que corren los análisis.
// El motor analítico nunca toca este puerto: solo la capa de aplicación.
//
// Implementaciones: memoria (default, un dataset por proceso) y PostgreSQL
// (el dataset sobrevive reinicios). Ambas devuelven domain.ErrNoDataset desde
// Current cuando no hay nada cargado.
type DatasetRepository interface {
	// Save reemplaza el dataset vigente por ds.
	Save(ctx context.Context, ds *entity.CashFlowDataset) error

	// Current devuelve el dataset vigente o domain.ErrNoDataset.
	Current(ctx context.Context) (*entity.CashFlowDataset, error)

	// Clear descarta el dataset vigente; es idempotente.
	Clear(ctx context.Context) error
}
