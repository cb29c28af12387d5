package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// Parámetros de la estimación de liquidación: descuento del 20% sobre el 20%
// de productos de menor rotación, asumiendo un lift de ventas de 1.5× durante
// una semana.
var (
	clearanceDiscount = decimal.NewFromFloat(0.20)
	clearanceLift     = decimal.NewFromFloat(1.5)
	clearanceWindow   = decimal.NewFromInt(7) // días de la campaña
	slowMoverShare    = 0.20
	one               = decimal.NewFromInt(1)
)

// ClearanceItem un slow mover con la caja extra estimada si se liquida.
type ClearanceItem struct {
	ProductID       string
	ProductName     string
	QtyPerDay       decimal.Decimal
	UnitPrice       decimal.Decimal // precio unitario derivado: Σ gross_sales / Σ quantity
	DiscountedPrice decimal.Decimal
	ExtraUnits      int64
	ExtraCashInflow decimal.Decimal
}

// ClearanceReport estimación total de caja liberable esta semana.
type ClearanceReport struct {
	Items          []ClearanceItem
	TotalExtraCash decimal.Decimal
}

// EstimateClearance estima cuánta caja extra entraría esta semana si se
// descuentan los productos de menor rotación. Función total: sin
// transacciones devuelve un reporte vacío con total cero.
func EstimateClearance(ds *entity.CashFlowDataset) ClearanceReport {
	report := ClearanceReport{Items: []ClearanceItem{}, TotalExtraCash: decimal.Zero}
	if len(ds.Transactions) == 0 {
		return report
	}

	days := decimal.NewFromInt(observationDays(ds.Transactions))

	type mover struct {
		productID   string
		productName string
		qty         int64
		grossSales  decimal.Decimal
		qtyPerDay   decimal.Decimal
	}

	byID := make(map[string]*mover)
	order := make([]string, 0)
	for _, tx := range ds.Transactions {
		if tx.ProductID == "" || tx.ProductName == "" {
			continue
		}
		m, ok := byID[tx.ProductID]
		if !ok {
			m = &mover{productID: tx.ProductID, productName: tx.ProductName, grossSales: decimal.Zero}
			byID[tx.ProductID] = m
			order = append(order, tx.ProductID)
		}
		m.qty += tx.Quantity
		m.grossSales = m.grossSales.Add(tx.GrossSales)
	}
	if len(order) == 0 {
		return report
	}

	movers := make([]*mover, 0, len(order))
	for _, id := range order {
		m := byID[id]
		m.qtyPerDay = decimal.NewFromInt(m.qty).Div(days)
		movers = append(movers, m)
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].qtyPerDay.LessThan(movers[j].qtyPerDay)
	})

	// Slow movers: el 20% inferior por rotación, mínimo 1 producto.
	slowCount := int(slowMoverShare * float64(len(movers)))
	if slowCount < 1 {
		slowCount = 1
	}
	slow := movers[:slowCount]

	extraRate := clearanceLift.Sub(one) // unidades extra ∝ (lift − 1)
	for _, m := range slow {
		price := decimal.Zero
		if m.qty > 0 {
			price = m.grossSales.Div(decimal.NewFromInt(m.qty))
		}

		extraUnits := m.qtyPerDay.Mul(clearanceWindow).Mul(extraRate).Round(0).IntPart()
		discounted := price.Mul(one.Sub(clearanceDiscount)).Round(2)
		extraCash := discounted.Mul(decimal.NewFromInt(extraUnits)).Round(2)

		report.Items = append(report.Items, ClearanceItem{
			ProductID:       m.productID,
			ProductName:     m.productName,
			QtyPerDay:       m.qtyPerDay.Round(4),
			UnitPrice:       price.Round(2),
			DiscountedPrice: discounted,
			ExtraUnits:      extraUnits,
			ExtraCashInflow: extraCash,
		})
		report.TotalExtraCash = report.TotalExtraCash.Add(extraCash)
	}

	return report
}
