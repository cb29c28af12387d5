package dto

import "github.com/shopspring/decimal"

// Tipos de análisis aceptados en POST /api/analysis.
const (
	AnalysisSnapshot   = "snapshot"
	AnalysisCashEaters = "cash-eaters"
	AnalysisReorder    = "reorder"
	AnalysisFreeUpCash = "free-up-cash"
	AnalysisFull       = "full"
)

// AnalysisRequest entrada de POST /api/analysis.
//
// Budget es puntero para distinguir "no enviado" (se usa el presupuesto por
// defecto) de un 0 explícito (plan de compra vacío).
type AnalysisRequest struct {
	AnalysisType   string           `json:"analysis_type" validate:"required,oneof=snapshot cash-eaters reorder free-up-cash full"`
	Budget         *decimal.Decimal `json:"budget,omitempty" validate:"omitempty"`
	Language       string           `json:"language,omitempty"`        // idioma del insight: en | it | es
	IncludeInsight bool             `json:"include_insight,omitempty"` // pedir narrativa al proveedor de IA
}

// SnapshotDTO resumen ejecutivo del negocio sobre la ventana cargada.
type SnapshotDTO struct {
	TotalTransactions int             `json:"total_transactions"`
	ItemsSold         int64           `json:"items_sold"`
	GrossSales        decimal.Decimal `json:"gross_sales"`
	Discounts         decimal.Decimal `json:"discounts"`
	CardSales         decimal.Decimal `json:"card_sales"`
	CashSales         decimal.Decimal `json:"cash_sales"`
	ProcessorFees     decimal.Decimal `json:"processor_fees"`
	Refunds           decimal.Decimal `json:"refunds"`
	NetPayouts        decimal.Decimal `json:"net_payouts"`
	PeriodStart       string          `json:"period_start,omitempty"` // YYYY-MM-DD
	PeriodEnd         string          `json:"period_end,omitempty"`
}

// CashEaterDTO una categoría de drenaje de caja.
type CashEaterDTO struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"` // participación sobre el drenaje total (0–100)
}

// LowMarginProductDTO un producto con margen flojo.
type LowMarginProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Revenue     decimal.Decimal `json:"revenue"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	MarginPct   decimal.Decimal `json:"margin_pct"` // fracción 0–1
}

// CashEatersDTO drenajes de caja más productos de peor margen.
type CashEatersDTO struct {
	CashEaters        []CashEaterDTO        `json:"cash_eaters"`
	LowMarginProducts []LowMarginProductDTO `json:"low_margin_products"`
}

// ReorderItemDTO una compra sugerida dentro del presupuesto.
type ReorderItemDTO struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	SuggestedQty    int64           `json:"suggested_qty"`
	BudgetSpend     decimal.Decimal `json:"budget_spend"`
	EstWeeklyProfit decimal.Decimal `json:"est_weekly_profit"`
}

// ReorderPlanDTO plan de compra greedy acotado por presupuesto.
type ReorderPlanDTO struct {
	Budget     decimal.Decimal  `json:"budget"`
	TotalSpend decimal.Decimal  `json:"total_spend"`
	Items      []ReorderItemDTO `json:"items"`
}

// ClearanceItemDTO un slow mover con la caja extra estimada al liquidarlo.
type ClearanceItemDTO struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	QtyPerDay       decimal.Decimal `json:"qty_per_day"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	ExtraUnits      int64           `json:"extra_units"`
	ExtraCashInflow decimal.Decimal `json:"extra_cash_inflow"`
}

// ClearanceDTO estimación de caja liberable con una liquidación de una semana.
type ClearanceDTO struct {
	Items          []ClearanceItemDTO `json:"items"`
	TotalExtraCash decimal.Decimal    `json:"total_extra_cash"`
}

// AnalysisResultDTO respuesta de POST /api/analysis. Snapshot siempre viene;
// el resto depende del analysis_type pedido. Si se pidió insight y el
// proveedor falló, el análisis numérico igual se entrega y InsightError
// explica qué pasó.
type AnalysisResultDTO struct {
	AnalysisType string          `json:"analysis_type"`
	Snapshot     *SnapshotDTO    `json:"snapshot,omitempty"`
	CashEaters   *CashEatersDTO  `json:"cash_eaters,omitempty"`
	ReorderPlan  *ReorderPlanDTO `json:"reorder_plan,omitempty"`
	Clearance    *ClearanceDTO   `json:"clearance,omitempty"`
	Insight      string          `json:"insight,omitempty"`
	InsightError string          `json:"insight_error,omitempty"`
}
