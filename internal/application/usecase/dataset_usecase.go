package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
	"github.com/jhoicas/cashflow-api/internal/application/ports"
	"github.com/jhoicas/cashflow-api/internal/domain"
	"github.com/jhoicas/cashflow-api/internal/domain/analytics"
	"github.com/jhoicas/cashflow-api/internal/domain/entity"
	"github.com/jhoicas/cashflow-api/internal/domain/repository"
)

// DatasetFiles los archivos de un upload. Transactions es obligatorio; las
// demás colecciones son opcionales (nil = colección vacía).
type DatasetFiles struct {
	Transactions io.Reader
	Refunds      io.Reader
	Payouts      io.Reader
	Products     io.Reader
}

// DatasetUseCase carga, consulta y descarta el dataset vigente.
// Cada upload reemplaza el dataset completo: no hay merges parciales.
type DatasetUseCase struct {
	datasets repository.DatasetRepository
	parser   ports.DatasetParser
}

// NewDatasetUseCase construye el caso de uso.
func NewDatasetUseCase(datasets repository.DatasetRepository, parser ports.DatasetParser) *DatasetUseCase {
	return &DatasetUseCase{datasets: datasets, parser: parser}
}

// Upload parsea los archivos y reemplaza el dataset vigente.
// Devuelve domain.ErrInvalidInput si falta el archivo de transacciones o si
// algún archivo viene malformado.
func (uc *DatasetUseCase) Upload(ctx context.Context, files DatasetFiles) (*dto.DatasetUploadResponse, error) {
	if files.Transactions == nil {
		return nil, fmt.Errorf("%w: falta el archivo de transacciones", domain.ErrInvalidInput)
	}

	txs, err := uc.parser.ParseTransactions(files.Transactions)
	if err != nil {
		return nil, fmt.Errorf("%w: transacciones: %v", domain.ErrInvalidInput, err)
	}

	ds := &entity.CashFlowDataset{
		ID:           uuid.New().String(),
		LoadedAt:     time.Now().UTC(),
		Transactions: txs,
	}

	if files.Refunds != nil {
		if ds.Refunds, err = uc.parser.ParseRefunds(files.Refunds); err != nil {
			return nil, fmt.Errorf("%w: refunds: %v", domain.ErrInvalidInput, err)
		}
	}
	if files.Payouts != nil {
		if ds.Payouts, err = uc.parser.ParsePayouts(files.Payouts); err != nil {
			return nil, fmt.Errorf("%w: payouts: %v", domain.ErrInvalidInput, err)
		}
	}
	if files.Products != nil {
		if ds.Products, err = uc.parser.ParseProducts(files.Products); err != nil {
			return nil, fmt.Errorf("%w: productos: %v", domain.ErrInvalidInput, err)
		}
	}

	if err := uc.datasets.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("guardar dataset: %w", err)
	}

	return &dto.DatasetUploadResponse{
		DatasetID:    ds.ID,
		LoadedAt:     ds.LoadedAt,
		Transactions: len(ds.Transactions),
		Refunds:      len(ds.Refunds),
		Payouts:      len(ds.Payouts),
		Products:     len(ds.Products),
	}, nil
}

// Status describe el dataset vigente. Sin dataset cargado responde
// Loaded=false, nunca un error.
func (uc *DatasetUseCase) Status(ctx context.Context) (*dto.DatasetStatusResponse, error) {
	ds, err := uc.datasets.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoDataset) {
			return &dto.DatasetStatusResponse{Loaded: false}, nil
		}
		return nil, err
	}

	status := &dto.DatasetStatusResponse{
		Loaded:       true,
		DatasetID:    ds.ID,
		LoadedAt:     ds.LoadedAt,
		Transactions: len(ds.Transactions),
		Refunds:      len(ds.Refunds),
		Payouts:      len(ds.Payouts),
		Products:     len(ds.Products),
	}

	snap := analytics.ComputeSnapshot(ds)
	if !snap.PeriodStart.IsZero() {
		status.PeriodStart = snap.PeriodStart.Format(dayLayout)
		status.PeriodEnd = snap.PeriodEnd.Format(dayLayout)
	}
	return status, nil
}

// Reset descarta el dataset vigente; es idempotente.
func (uc *DatasetUseCase) Reset(ctx context.Context) error {
	return uc.datasets.Clear(ctx)
}
