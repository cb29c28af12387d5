package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
	"github.com/jhoicas/cashflow-api/internal/domain"
	"github.com/jhoicas/cashflow-api/internal/domain/analytics"
	"github.com/jhoicas/cashflow-api/internal/domain/entity"
	"github.com/jhoicas/cashflow-api/internal/domain/repository"
)

// Alias locales de los tipos de análisis (declarados junto al request en dto).
const (
	AnalysisSnapshot   = dto.AnalysisSnapshot
	AnalysisCashEaters = dto.AnalysisCashEaters
	AnalysisReorder    = dto.AnalysisReorder
	AnalysisFreeUpCash = dto.AnalysisFreeUpCash
	AnalysisFull       = dto.AnalysisFull
)

const dayLayout = "2006-01-02"

// AnalysisUseCase orquesta el motor analítico sobre el dataset vigente.
//
// El motor es puro; este caso de uso aporta el dataset (vía repositorio),
// el presupuesto por defecto y, si se pide, la narrativa del proveedor de IA.
type AnalysisUseCase struct {
	datasets      repository.DatasetRepository
	ai            *AIUseCase // nil si no hay proveedor de IA configurado
	defaultBudget decimal.Decimal
}

// NewAnalysisUseCase construye el caso de uso. ai puede ser nil: en ese caso
// los pedidos con include_insight reciben el análisis numérico más un
// insight_error explicando que no hay proveedor.
func NewAnalysisUseCase(datasets repository.DatasetRepository, ai *AIUseCase, defaultBudget decimal.Decimal) *AnalysisUseCase {
	return &AnalysisUseCase{datasets: datasets, ai: ai, defaultBudget: defaultBudget}
}

// Run ejecuta el análisis pedido sobre el dataset vigente. El snapshot va
// siempre en la respuesta; el resto depende de analysis_type. Devuelve
// domain.ErrNoDataset si no hay dataset y domain.ErrInvalidInput ante un
// tipo desconocido o un presupuesto negativo.
func (uc *AnalysisUseCase) Run(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResultDTO, error) {
	ds, err := uc.datasets.Current(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.AnalysisResultDTO{AnalysisType: req.AnalysisType}

	snap := toSnapshotDTO(analytics.ComputeSnapshot(ds))
	result.Snapshot = &snap

	switch req.AnalysisType {
	case AnalysisSnapshot:
		// El snapshot ya está incluido.
	case AnalysisCashEaters:
		eaters := toCashEatersDTO(analytics.AnalyzeCashEaters(ds))
		result.CashEaters = &eaters
	case AnalysisReorder:
		plan, err := uc.reorderPlan(ds, req.Budget)
		if err != nil {
			return nil, err
		}
		result.ReorderPlan = plan
	case AnalysisFreeUpCash:
		clearance := toClearanceDTO(analytics.EstimateClearance(ds))
		result.Clearance = &clearance
	case AnalysisFull:
		eaters := toCashEatersDTO(analytics.AnalyzeCashEaters(ds))
		result.CashEaters = &eaters
		plan, err := uc.reorderPlan(ds, req.Budget)
		if err != nil {
			return nil, err
		}
		result.ReorderPlan = plan
		clearance := toClearanceDTO(analytics.EstimateClearance(ds))
		result.Clearance = &clearance
	default:
		return nil, fmt.Errorf("%w: analysis_type %q desconocido", domain.ErrInvalidInput, req.AnalysisType)
	}

	if req.IncludeInsight {
		uc.attachInsight(ctx, result, req.Language)
	}

	return result, nil
}

// Snapshot resumen ejecutivo para GET /api/analysis/snapshot.
func (uc *AnalysisUseCase) Snapshot(ctx context.Context) (*dto.SnapshotDTO, error) {
	ds, err := uc.datasets.Current(ctx)
	if err != nil {
		return nil, err
	}
	snap := toSnapshotDTO(analytics.ComputeSnapshot(ds))
	return &snap, nil
}

// CashEaters drenajes y márgenes para GET /api/analysis/cash-eaters.
func (uc *AnalysisUseCase) CashEaters(ctx context.Context) (*dto.CashEatersDTO, error) {
	ds, err := uc.datasets.Current(ctx)
	if err != nil {
		return nil, err
	}
	eaters := toCashEatersDTO(analytics.AnalyzeCashEaters(ds))
	return &eaters, nil
}

// ReorderPlan plan de compra para GET /api/analysis/reorder.
func (uc *AnalysisUseCase) ReorderPlan(ctx context.Context, budget *decimal.Decimal) (*dto.ReorderPlanDTO, error) {
	ds, err := uc.datasets.Current(ctx)
	if err != nil {
		return nil, err
	}
	return uc.reorderPlan(ds, budget)
}

// Clearance estimación de liquidación para GET /api/analysis/free-up-cash.
func (uc *AnalysisUseCase) Clearance(ctx context.Context) (*dto.ClearanceDTO, error) {
	ds, err := uc.datasets.Current(ctx)
	if err != nil {
		return nil, err
	}
	clearance := toClearanceDTO(analytics.EstimateClearance(ds))
	return &clearance, nil
}

// FullReport análisis completo para el reporte PDF y el tipo "full".
func (uc *AnalysisUseCase) FullReport(ctx context.Context, budget *decimal.Decimal) (*dto.AnalysisResultDTO, error) {
	return uc.Run(ctx, dto.AnalysisRequest{AnalysisType: AnalysisFull, Budget: budget})
}

// reorderPlan resuelve el presupuesto efectivo y genera el plan.
// nil → presupuesto por defecto; 0 explícito → plan vacío; negativo → error.
func (uc *AnalysisUseCase) reorderPlan(ds *entity.CashFlowDataset, budget *decimal.Decimal) (*dto.ReorderPlanDTO, error) {
	effective := uc.defaultBudget
	if budget != nil {
		if budget.IsNegative() {
			return nil, fmt.Errorf("%w: budget no puede ser negativo", domain.ErrInvalidInput)
		}
		effective = *budget
	}

	plan := toReorderPlanDTO(effective, analytics.GenerateReorderPlan(ds, effective))
	return &plan, nil
}

// attachInsight pide la narrativa al proveedor de IA. El análisis numérico
// nunca se pierde: ante cualquier falla solo se rellena insight_error.
func (uc *AnalysisUseCase) attachInsight(ctx context.Context, result *dto.AnalysisResultDTO, language string) {
	if uc.ai == nil {
		result.InsightError = domain.ErrAIUnavailable.Error()
		return
	}
	text, err := uc.ai.GenerateInsight(ctx, *result, language)
	if err != nil {
		result.InsightError = err.Error()
		return
	}
	result.Insight = text
}

// ── Mapeo motor → DTO ─────────────────────────────────────────────────────────

func toSnapshotDTO(s analytics.BusinessSnapshot) dto.SnapshotDTO {
	out := dto.SnapshotDTO{
		TotalTransactions: s.TotalTransactions,
		ItemsSold:         s.ItemsSold,
		GrossSales:        s.GrossSales.Round(2),
		Discounts:         s.Discounts.Round(2),
		CardSales:         s.CardSales.Round(2),
		CashSales:         s.CashSales.Round(2),
		ProcessorFees:     s.ProcessorFees.Round(2),
		Refunds:           s.Refunds.Round(2),
		NetPayouts:        s.NetPayouts.Round(2),
	}
	if !s.PeriodStart.IsZero() {
		out.PeriodStart = s.PeriodStart.Format(dayLayout)
		out.PeriodEnd = s.PeriodEnd.Format(dayLayout)
	}
	return out
}

func toCashEatersDTO(report analytics.CashEatersReport) dto.CashEatersDTO {
	out := dto.CashEatersDTO{
		CashEaters:        make([]dto.CashEaterDTO, 0, len(report.CashEaters)),
		LowMarginProducts: make([]dto.LowMarginProductDTO, 0, len(report.LowMarginProducts)),
	}
	for _, e := range report.CashEaters {
		out.CashEaters = append(out.CashEaters, dto.CashEaterDTO{
			Category:   e.Category,
			Amount:     e.Amount.Round(2),
			Percentage: e.Percentage.Round(2),
		})
	}
	for _, p := range report.LowMarginProducts {
		out.LowMarginProducts = append(out.LowMarginProducts, dto.LowMarginProductDTO{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Revenue:     p.Revenue.Round(2),
			GrossProfit: p.GrossProfit.Round(2),
			MarginPct:   p.MarginPct.Round(4),
		})
	}
	return out
}

func toReorderPlanDTO(budget decimal.Decimal, items []analytics.ReorderItem) dto.ReorderPlanDTO {
	out := dto.ReorderPlanDTO{
		Budget:     budget.Round(2),
		TotalSpend: decimal.Zero,
		Items:      make([]dto.ReorderItemDTO, 0, len(items)),
	}
	for _, item := range items {
		out.Items = append(out.Items, dto.ReorderItemDTO{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			UnitCost:        item.UnitCost,
			SuggestedQty:    item.SuggestedQty,
			BudgetSpend:     item.BudgetSpend,
			EstWeeklyProfit: item.EstWeeklyProfit,
		})
		out.TotalSpend = out.TotalSpend.Add(item.BudgetSpend)
	}
	return out
}

func toClearanceDTO(report analytics.ClearanceReport) dto.ClearanceDTO {
	out := dto.ClearanceDTO{
		Items:          make([]dto.ClearanceItemDTO, 0, len(report.Items)),
		TotalExtraCash: report.TotalExtraCash.Round(2),
	}
	for _, item := range report.Items {
		out.Items = append(out.Items, dto.ClearanceItemDTO{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			QtyPerDay:       item.QtyPerDay,
			UnitPrice:       item.UnitPrice,
			DiscountedPrice: item.DiscountedPrice,
			ExtraUnits:      item.ExtraUnits,
			ExtraCashInflow: item.ExtraCashInflow,
		})
	}
	return out
}
