// Package pdf implementa la generación del reporte ejecutivo de flujo de caja.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + período analizado                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SNAPSHOT: KPIs (ventas, descuentos, fees, refunds, payouts) │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CASH EATERS: categoría | monto | %                          │
//	│  LOW MARGIN: producto | revenue | gp | margen                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REORDER: producto | costo | cant | gasto | profit semanal   │
//	│  CLEARANCE: producto | precio desc | unidades | caja extra   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INSIGHT (si está disponible) + pie de página                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
	"github.com/jhoicas/cashflow-api/internal/application/ports"
)

// Verificar en tiempo de compilación que el generador implementa el puerto.
var _ ports.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateAnalysisReport genera el PDF del análisis y devuelve sus bytes.
// Solo renderiza las secciones presentes en el resultado.
func (g *MarotoReportGenerator) GenerateAnalysisReport(result dto.AnalysisResultDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Flujo de Caja", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(result.Snapshot))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if result.Snapshot != nil {
		for _, r := range snapshotRows(result.Snapshot) {
			m.AddRows(r)
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}
	if result.CashEaters != nil {
		for _, r := range cashEaterRows(result.CashEaters) {
			m.AddRows(r)
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}
	if result.ReorderPlan != nil {
		for _, r := range reorderRows(result.ReorderPlan) {
			m.AddRows(r)
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}
	if result.Clearance != nil {
		for _, r := range clearanceRows(result.Clearance) {
			m.AddRows(r)
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}
	if result.Insight != "" {
		for _, r := range insightRows(result.Insight) {
			m.AddRows(r)
		}
	}

	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Reporte generado automáticamente a partir de los exports del POS. "+
			"Los montos se expresan en la moneda del dataset.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y período analizado (der).
func headerRow(snapshot *dto.SnapshotDTO) core.Row {
	period := "—"
	if snapshot != nil && snapshot.PeriodStart != "" {
		period = snapshot.PeriodStart + " → " + snapshot.PeriodEnd
	}

	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE DE FLUJO DE CAJA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Analítica semanal del negocio", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Período analizado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{
				Size: 10, Align: align.Right, Top: 7,
			}),
		),
	)
}

// snapshotRows: bloque de KPIs en dos columnas.
func snapshotRows(s *dto.SnapshotDTO) []core.Row {
	kpi := func(label, value string, offset float64) []core.Component {
		return []core.Component{
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: offset}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Top: offset + 4}),
		}
	}

	return []core.Row{
		sectionTitleRow("RESUMEN EJECUTIVO"),
		row.New(22).Add(
			col.New(4).Add(kpi("Ventas brutas", s.GrossSales.StringFixed(2), 1)...),
			col.New(4).Add(kpi("Descuentos", s.Discounts.StringFixed(2), 1)...),
			col.New(4).Add(kpi("Transacciones", fmt.Sprintf("%d (%d ítems)", s.TotalTransactions, s.ItemsSold), 1)...),
		),
		row.New(22).Add(
			col.New(4).Add(kpi("Ventas card / cash", s.CardSales.StringFixed(2)+" / "+s.CashSales.StringFixed(2), 1)...),
			col.New(4).Add(kpi("Fees + refunds", s.ProcessorFees.Add(s.Refunds).StringFixed(2), 1)...),
			col.New(4).Add(kpi("Payouts netos", s.NetPayouts.StringFixed(2), 1)...),
		),
	}
}

// cashEaterRows: tabla de drenajes + productos de bajo margen.
func cashEaterRows(ce *dto.CashEatersDTO) []core.Row {
	rows := []core.Row{
		sectionTitleRow("QUÉ SE ESTÁ COMIENDO LA CAJA"),
		tableHeaderRow(
			headerCell("Categoría", 6, align.Left),
			headerCell("Monto", 3, align.Right),
			headerCell("% del drenaje", 3, align.Right),
		),
	}
	for _, e := range ce.CashEaters {
		rows = append(rows, row.New(6).Add(
			bodyCell(e.Category, 6, align.Left),
			bodyCell(e.Amount.StringFixed(2), 3, align.Right),
			bodyCell(e.Percentage.StringFixed(2)+"%", 3, align.Right),
		))
	}

	if len(ce.LowMarginProducts) > 0 {
		rows = append(rows,
			sectionTitleRow("PRODUCTOS DE MENOR MARGEN"),
			tableHeaderRow(
				headerCell("Producto", 5, align.Left),
				headerCell("Revenue", 3, align.Right),
				headerCell("Gross profit", 2, align.Right),
				headerCell("Margen", 2, align.Right),
			),
		)
		for _, p := range ce.LowMarginProducts {
			rows = append(rows, row.New(6).Add(
				bodyCell(p.ProductName, 5, align.Left),
				bodyCell(p.Revenue.StringFixed(2), 3, align.Right),
				bodyCell(p.GrossProfit.StringFixed(2), 2, align.Right),
				bodyCell(p.MarginPct.Mul(hundred).StringFixed(1)+"%", 2, align.Right),
			))
		}
	}
	return rows
}

// reorderRows: tabla del plan de compra.
func reorderRows(plan *dto.ReorderPlanDTO) []core.Row {
	rows := []core.Row{
		sectionTitleRow(fmt.Sprintf("PLAN DE COMPRA (presupuesto %s, gasto %s)",
			plan.Budget.StringFixed(2), plan.TotalSpend.StringFixed(2))),
	}
	if len(plan.Items) == 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("El presupuesto no alcanza para ninguna compra.", props.Text{
				Size: 8, Color: colorGray, Top: 1,
			}),
		)))
		return rows
	}

	rows = append(rows, tableHeaderRow(
		headerCell("Producto", 4, align.Left),
		headerCell("Costo unit.", 2, align.Right),
		headerCell("Cant.", 1, align.Center),
		headerCell("Gasto", 2, align.Right),
		headerCell("Profit semanal est.", 3, align.Right),
	))
	for _, item := range plan.Items {
		rows = append(rows, row.New(6).Add(
			bodyCell(item.ProductName, 4, align.Left),
			bodyCell(item.UnitCost.StringFixed(2), 2, align.Right),
			bodyCell(fmt.Sprintf("%d", item.SuggestedQty), 1, align.Center),
			bodyCell(item.BudgetSpend.StringFixed(2), 2, align.Right),
			bodyCell(item.EstWeeklyProfit.StringFixed(2), 3, align.Right),
		))
	}
	return rows
}

// clearanceRows: tabla de la liquidación sugerida.
func clearanceRows(clearance *dto.ClearanceDTO) []core.Row {
	rows := []core.Row{
		sectionTitleRow(fmt.Sprintf("LIQUIDACIÓN SUGERIDA (caja extra estimada: %s)",
			clearance.TotalExtraCash.StringFixed(2))),
	}
	if len(clearance.Items) == 0 {
		return rows
	}

	rows = append(rows, tableHeaderRow(
		headerCell("Producto", 4, align.Left),
		headerCell("Precio", 2, align.Right),
		headerCell("Precio c/desc.", 2, align.Right),
		headerCell("Unid. extra", 2, align.Center),
		headerCell("Caja extra", 2, align.Right),
	))
	for _, item := range clearance.Items {
		rows = append(rows, row.New(6).Add(
			bodyCell(item.ProductName, 4, align.Left),
			bodyCell(item.UnitPrice.StringFixed(2), 2, align.Right),
			bodyCell(item.DiscountedPrice.StringFixed(2), 2, align.Right),
			bodyCell(fmt.Sprintf("%d", item.ExtraUnits), 2, align.Center),
			bodyCell(item.ExtraCashInflow.StringFixed(2), 2, align.Right),
		))
	}
	return rows
}

// insightRows: narrativa del proveedor de IA, partida en líneas.
func insightRows(insight string) []core.Row {
	rows := []core.Row{sectionTitleRow("INSIGHT")}
	for _, chunk := range splitEvery(insight, 120) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 8, Color: colorGray, Top: 0.5}),
		)))
	}
	return rows
}

// ── helpers de tabla ──────────────────────────────────────────────────────────

var hundred = decimal.NewFromInt(100)

func sectionTitleRow(title string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3,
		}),
	))
}

func tableHeaderRow(cols ...core.Col) core.Row {
	return row.New(7).Add(cols...)
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
	}))
}

func bodyCell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

// splitEvery divide s en trozos de max n caracteres, cortando en espacios
// cuando se puede para no partir palabras.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		cut := n
		for i := n; i > n/2; i-- {
			if s[i-1] == ' ' || s[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
