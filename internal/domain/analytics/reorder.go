package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// replenishmentDays horizonte de la heurística de reposición: se apunta a
// cubrir 5 días de demanda histórica por ciclo de compra.
const replenishmentDays = 5

var five = decimal.NewFromInt(replenishmentDays)

// ReorderItem una compra sugerida dentro del presupuesto.
type ReorderItem struct {
	ProductID       string
	ProductName     string
	UnitCost        decimal.Decimal
	SuggestedQty    int64
	BudgetSpend     decimal.Decimal // SuggestedQty × UnitCost, redondeado a 2
	EstWeeklyProfit decimal.Decimal // SuggestedQty × (gp histórico por unidad), redondeado a 2
}

// reorderCandidate agregado por producto para el ranking por velocidad de profit.
type reorderCandidate struct {
	productID   string
	productName string
	qty         int64           // unidades vendidas en la ventana
	grossProfit decimal.Decimal // gp acumulado en la ventana
	unitCost    decimal.Decimal // COGS del maestro; fallback: última transacción procesada
	qtyPerDay   decimal.Decimal
	gpPerDay    decimal.Decimal
}

// GenerateReorderPlan asigna el presupuesto de compra de forma greedy sobre los
// productos ordenados por velocidad de profit (gp por día calendario).
//
// El plan conserva el orden del ranking, nunca gasta más que budget y es vacío
// cuando no hay transacciones o el presupuesto no alcanza para ninguna unidad.
func GenerateReorderPlan(ds *entity.CashFlowDataset, budget decimal.Decimal) []ReorderItem {
	plan := []ReorderItem{}
	if len(ds.Transactions) == 0 {
		return plan
	}

	days := observationDays(ds.Transactions)
	daysDec := decimal.NewFromInt(days)
	costs := productCosts(ds)

	byID := make(map[string]*reorderCandidate)
	order := make([]string, 0)
	for _, tx := range ds.Transactions {
		if tx.ProductID == "" || tx.ProductName == "" {
			continue
		}
		cand, ok := byID[tx.ProductID]
		if !ok {
			cand = &reorderCandidate{
				productID:   tx.ProductID,
				productName: tx.ProductName,
				grossProfit: decimal.Zero,
			}
			byID[tx.ProductID] = cand
			order = append(order, tx.ProductID)
		}
		cand.qty += tx.Quantity
		cand.grossProfit = cand.grossProfit.Add(effectiveGrossProfit(tx, costs))
		// Sin registro maestro, gana la última fila procesada (fallback documentado).
		cand.unitCost = effectiveUnitCost(tx, costs)
	}
	if len(order) == 0 {
		return plan
	}

	ranked := make([]*reorderCandidate, 0, len(order))
	for _, id := range order {
		cand := byID[id]
		cand.qtyPerDay = decimal.NewFromInt(cand.qty).Div(daysDec)
		cand.gpPerDay = cand.grossProfit.Div(daysDec)
		ranked = append(ranked, cand)
	}

	// Velocidad de profit desc; desempate por rotación (qty/día) desc.
	sort.SliceStable(ranked, func(i, j int) bool {
		if !ranked[i].gpPerDay.Equal(ranked[j].gpPerDay) {
			return ranked[i].gpPerDay.GreaterThan(ranked[j].gpPerDay)
		}
		return ranked[i].qtyPerDay.GreaterThan(ranked[j].qtyPerDay)
	})

	// Costo unitario mínimo del ranking: bajo ese umbral ya no hay compra posible.
	cheapest := ranked[0].unitCost
	for _, cand := range ranked[1:] {
		if cand.unitCost.LessThan(cheapest) {
			cheapest = cand.unitCost
		}
	}

	remaining := budget
	for _, cand := range ranked {
		if !cand.unitCost.IsPositive() {
			continue // sin costo no se puede valorar la compra
		}

		targetUnits := cand.qtyPerDay.Mul(five).Ceil().IntPart()
		if targetUnits < 1 {
			targetUnits = 1
		}
		maxUnitsByBudget := remaining.Div(cand.unitCost).Floor().IntPart()

		buyUnits := targetUnits
		if maxUnitsByBudget < buyUnits {
			buyUnits = maxUnitsByBudget
		}
		if buyUnits > 0 {
			spend := cand.unitCost.Mul(decimal.NewFromInt(buyUnits))

			soldUnits := cand.qty
			if soldUnits < 1 {
				soldUnits = 1
			}
			perUnitProfit := cand.grossProfit.Div(decimal.NewFromInt(soldUnits))

			plan = append(plan, ReorderItem{
				ProductID:       cand.productID,
				ProductName:     cand.productName,
				UnitCost:        cand.unitCost.Round(2),
				SuggestedQty:    buyUnits,
				BudgetSpend:     spend.Round(2),
				EstWeeklyProfit: perUnitProfit.Mul(decimal.NewFromInt(buyUnits)).Round(2),
			})
			remaining = remaining.Sub(spend)
		}

		if remaining.LessThan(cheapest) {
			break
		}
	}

	return plan
}

// observationDays días calendario de la ventana observada: max(day) − min(day) + 1.
// Siempre ≥ 1 (un solo día de datos cuenta como ventana de 1 día).
func observationDays(txs []entity.Transaction) int64 {
	minDay, maxDay := txs[0].Day, txs[0].Day
	for _, tx := range txs[1:] {
		if tx.Day.Before(minDay) {
			minDay = tx.Day
		}
		if tx.Day.After(maxDay) {
			maxDay = tx.Day
		}
	}
	days := int64(maxDay.Sub(minDay).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}
