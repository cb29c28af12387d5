package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// Nombres fijos de las tres categorías que drenan caja. El orden de declaración
// es también el orden de partida antes del sort estable (desempates).
const (
	CategoryDiscounts     = "Discounts"
	CategoryRefunds       = "Refunds"
	CategoryProcessorFees = "Processor fees"
)

const lowMarginLimit = 5 // productos de peor margen a reportar

// CashEater una categoría de drenaje de caja con su participación porcentual.
type CashEater struct {
	Category   string
	Amount     decimal.Decimal
	Percentage decimal.Decimal // amount / total_drenaje × 100; 0 si el total no es positivo
}

// LowMarginProduct un producto con margen bajo sobre la ventana analizada.
type LowMarginProduct struct {
	ProductID   string
	ProductName string
	Revenue     decimal.Decimal // Σ net_sales del producto
	GrossProfit decimal.Decimal
	MarginPct   decimal.Decimal // gross_profit / revenue, como fracción (0–1)
}

// CashEatersReport resultado combinado del analizador de drenajes y márgenes.
type CashEatersReport struct {
	CashEaters        []CashEater        // siempre 3 entradas, desc por monto
	LowMarginProducts []LowMarginProduct // ≤ 5, asc por margen
}

// AnalyzeCashEaters clasifica las categorías que se comen la caja y los
// productos de peor margen. Función total: sin datos devuelve las tres
// categorías en cero y una lista vacía de productos.
func AnalyzeCashEaters(ds *entity.CashFlowDataset) CashEatersReport {
	snap := ComputeSnapshot(ds)

	eaters := []CashEater{
		{Category: CategoryDiscounts, Amount: snap.Discounts, Percentage: decimal.Zero},
		{Category: CategoryRefunds, Amount: snap.Refunds, Percentage: decimal.Zero},
		{Category: CategoryProcessorFees, Amount: snap.ProcessorFees, Percentage: decimal.Zero},
	}

	total := snap.Discounts.Add(snap.Refunds).Add(snap.ProcessorFees)
	if total.IsPositive() {
		for i := range eaters {
			eaters[i].Percentage = eaters[i].Amount.Div(total).Mul(hundred)
		}
	}

	// Sort estable: los empates conservan el orden de declaración de categorías.
	sort.SliceStable(eaters, func(i, j int) bool {
		return eaters[i].Amount.GreaterThan(eaters[j].Amount)
	})

	return CashEatersReport{
		CashEaters:        eaters,
		LowMarginProducts: lowMarginProducts(ds),
	}
}

// skuAggregate acumulador por product_id durante la agrupación.
type skuAggregate struct {
	productID   string
	productName string // el primero visto para ese id
	revenue     decimal.Decimal
	grossProfit decimal.Decimal
}

// lowMarginProducts agrupa por product_id y devuelve los 5 de peor margen.
// Filas sin product_id o product_name no se pueden atribuir y se saltan;
// grupos sin revenue positivo no se pueden rankear y se excluyen.
func lowMarginProducts(ds *entity.CashFlowDataset) []LowMarginProduct {
	costs := productCosts(ds)

	byID := make(map[string]*skuAggregate)
	order := make([]string, 0) // orden de primer encuentro, para agrupación determinista

	for _, tx := range ds.Transactions {
		if tx.ProductID == "" || tx.ProductName == "" {
			continue
		}
		agg, ok := byID[tx.ProductID]
		if !ok {
			agg = &skuAggregate{
				productID:   tx.ProductID,
				productName: tx.ProductName,
				revenue:     decimal.Zero,
				grossProfit: decimal.Zero,
			}
			byID[tx.ProductID] = agg
			order = append(order, tx.ProductID)
		}
		agg.revenue = agg.revenue.Add(tx.NetSales)
		agg.grossProfit = agg.grossProfit.Add(effectiveGrossProfit(tx, costs))
	}

	products := make([]LowMarginProduct, 0, len(order))
	for _, id := range order {
		agg := byID[id]
		if !agg.revenue.IsPositive() {
			continue
		}
		products = append(products, LowMarginProduct{
			ProductID:   agg.productID,
			ProductName: agg.productName,
			Revenue:     agg.revenue,
			GrossProfit: agg.grossProfit,
			MarginPct:   agg.grossProfit.Div(agg.revenue),
		})
	}

	// Asc por margen; a igual margen, el de menor revenue es "peor" (sale antes).
	sort.SliceStable(products, func(i, j int) bool {
		if !products[i].MarginPct.Equal(products[j].MarginPct) {
			return products[i].MarginPct.LessThan(products[j].MarginPct)
		}
		return products[i].Revenue.LessThan(products[j].Revenue)
	})

	if len(products) > lowMarginLimit {
		products = products[:lowMarginLimit]
	}
	return products
}
