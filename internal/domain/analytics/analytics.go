// Package analytics contiene el motor de analítica de flujo de caja: funciones
// puras y totales sobre un CashFlowDataset inmutable. Ningún cálculo hace I/O,
// ninguno muta el dataset y todos resuelven sus casos borde localmente
// (colección vacía → cero, división por cero → cero), nunca con un error.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// productCosts indexa el COGS del Product Master por product_id.
func productCosts(ds *entity.CashFlowDataset) map[string]decimal.Decimal {
	costs := make(map[string]decimal.Decimal, len(ds.Products))
	for _, p := range ds.Products {
		costs[p.ProductID] = p.COGS
	}
	return costs
}

// effectiveGrossProfit recalcula el gross profit de la línea con el COGS del
// maestro cuando el producto existe allí; si no, conserva el valor embebido
// en la transacción.
func effectiveGrossProfit(tx entity.Transaction, costs map[string]decimal.Decimal) decimal.Decimal {
	cogs, ok := costs[tx.ProductID]
	if !ok {
		return tx.GrossProfit
	}
	return tx.NetSales.Sub(cogs.Mul(decimal.NewFromInt(tx.Quantity)))
}

// effectiveUnitCost devuelve el costo unitario a usar para un producto:
// el del Product Master si existe, el embebido en la transacción si no.
func effectiveUnitCost(tx entity.Transaction, costs map[string]decimal.Decimal) decimal.Decimal {
	if cogs, ok := costs[tx.ProductID]; ok {
		return cogs
	}
	return tx.COGS
}
