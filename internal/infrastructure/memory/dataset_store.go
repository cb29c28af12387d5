// Package memory implementa el repositorio de datasets en memoria de proceso.
// Es el store por defecto: un dataset vigente por instancia, sin persistencia
// entre reinicios.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/cashflow-api/internal/domain"
	"github.com/jhoicas/cashflow-api/internal/domain/entity"
	"github.com/jhoicas/cashflow-api/internal/domain/repository"
)

// Verificar en tiempo de compilación que DatasetStore implementa el puerto.
var _ repository.DatasetRepository = (*DatasetStore)(nil)

// DatasetStore guarda el dataset vigente protegido por RWMutex: los análisis
// concurrentes solo leen, el upload y el reset escriben.
type DatasetStore struct {
	mu      sync.RWMutex
	current *entity.CashFlowDataset
}

// NewDatasetStore construye el store vacío.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{}
}

// Save reemplaza el dataset vigente.
func (s *DatasetStore) Save(_ context.Context, ds *entity.CashFlowDataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ds
	return nil
}

// Current devuelve el dataset vigente o domain.ErrNoDataset.
func (s *DatasetStore) Current(_ context.Context) (*entity.CashFlowDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, domain.ErrNoDataset
	}
	return s.current, nil
}

// Clear descarta el dataset vigente; es idempotente.
func (s *DatasetStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}
