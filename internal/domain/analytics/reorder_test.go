package analytics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cashflow-api/internal/domain/analytics"
	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// Caso de referencia: 10 unidades en 5 días, gp 50, costo unitario 2 y
// presupuesto holgado → se repone la demanda de 5 días completa.
func TestGenerateReorderPlan_CasoBase(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Latte", qty: 4, gross: 40, net: 40, cogs: 2, gp: 20, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-03", prodID: "A", prod: "Latte", qty: 3, gross: 30, net: 30, cogs: 2, gp: 15, payment: entity.PaymentCash},
		{id: "t3", date: "2025-03-05", prodID: "A", prod: "Latte", qty: 3, gross: 30, net: 30, cogs: 2, gp: 15, payment: entity.PaymentCard},
	})

	plan := analytics.GenerateReorderPlan(ds, dec(100))

	require.Len(t, plan, 1)
	item := plan[0]
	assert.Equal(t, "A", item.ProductID)
	assert.Equal(t, int64(10), item.SuggestedQty, "2 unidades/día × 5 días")
	assertDec(t, "2", item.UnitCost)
	assertDec(t, "20", item.BudgetSpend)
	assertDec(t, "50", item.EstWeeklyProfit, "10 unidades × 5 de gp unitario")
}

// Presupuesto cero: plan vacío, jamás nil.
func TestGenerateReorderPlan_PresupuestoCero(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Latte", qty: 2, gross: 10, net: 10, cogs: 2, gp: 6, payment: entity.PaymentCard},
	})

	plan := analytics.GenerateReorderPlan(ds, decimal.Zero)

	require.NotNil(t, plan)
	assert.Empty(t, plan)
}

// Sin transacciones no hay demanda que estimar.
func TestGenerateReorderPlan_SinTransacciones(t *testing.T) {
	plan := analytics.GenerateReorderPlan(&entity.CashFlowDataset{}, dec(500))

	require.NotNil(t, plan)
	assert.Empty(t, plan)
}

// El gasto total nunca excede el presupuesto, ni con muchos candidatos.
func TestGenerateReorderPlan_RespetaPresupuesto(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Latte", qty: 10, gross: 100, net: 100, cogs: 3, gp: 70, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-02", prodID: "B", prod: "Muffin", qty: 8, gross: 40, net: 40, cogs: 1.5, gp: 28, payment: entity.PaymentCash},
		{id: "t3", date: "2025-03-05", prodID: "C", prod: "Sandwich", qty: 6, gross: 60, net: 60, cogs: 4, gp: 36, payment: entity.PaymentCard},
	})
	budget := dec(25)

	plan := analytics.GenerateReorderPlan(ds, budget)

	total := decimal.Zero
	for _, item := range plan {
		total = total.Add(item.BudgetSpend)
		assert.Positive(t, item.SuggestedQty, "ninguna línea del plan sugiere 0 unidades")
	}
	assert.True(t, total.LessThanOrEqual(budget),
		"gasto %s excede el presupuesto %s", total.String(), budget.String())
}

// Con presupuesto parcial se compra lo que alcanza, no la meta completa.
func TestGenerateReorderPlan_CompraParcial(t *testing.T) {
	ds := buildDataset(t, []txRow{
		// 10 unidades en 5 días → meta 10; con 5 de presupuesto solo caben 2.
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Latte", qty: 10, gross: 100, net: 100, cogs: 2, gp: 60, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-05", prodID: "A", prod: "Latte", qty: 0, gross: 0, net: 0, cogs: 2, payment: entity.PaymentCard},
	})

	plan := analytics.GenerateReorderPlan(ds, dec(5))

	require.Len(t, plan, 1)
	assert.Equal(t, int64(2), plan[0].SuggestedQty)
	assertDec(t, "4", plan[0].BudgetSpend)
}

// Productos sin costo conocido no se pueden valorar y quedan fuera del plan.
func TestGenerateReorderPlan_SinCostoSeSalta(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Regalo", qty: 5, gross: 50, net: 50, cogs: 0, gp: 50, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-01", prodID: "B", prod: "Latte", qty: 2, gross: 10, net: 10, cogs: 2, gp: 6, payment: entity.PaymentCash},
	})

	plan := analytics.GenerateReorderPlan(ds, dec(100))

	require.Len(t, plan, 1)
	assert.Equal(t, "B", plan[0].ProductID)
}

// Demanda mínima: aun con rotación bajísima la meta es al menos 1 unidad.
func TestGenerateReorderPlan_MetaMinimaUnaUnidad(t *testing.T) {
	ds := buildDataset(t, []txRow{
		// 1 unidad en 10 días → 0.1/día × 5 = 0.5 → ceil = 1.
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Latte", qty: 1, gross: 10, net: 10, cogs: 2, gp: 6, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-10", prodID: "A", prod: "Latte", qty: 0, gross: 0, net: 0, cogs: 2, payment: entity.PaymentCard},
	})

	plan := analytics.GenerateReorderPlan(ds, dec(100))

	require.Len(t, plan, 1)
	assert.Equal(t, int64(1), plan[0].SuggestedQty)
}

// El plan sale en orden de velocidad de profit (gp por día, descendente).
func TestGenerateReorderPlan_OrdenDelRanking(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "Lento", prod: "Lento", qty: 2, gross: 10, net: 10, cogs: 1, gp: 4, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-01", prodID: "Rapido", prod: "Rápido", qty: 5, gross: 50, net: 50, cogs: 1, gp: 30, payment: entity.PaymentCard},
	})

	plan := analytics.GenerateReorderPlan(ds, dec(500))

	require.Len(t, plan, 2)
	assert.Equal(t, "Rapido", plan[0].ProductID)
	assert.Equal(t, "Lento", plan[1].ProductID)
}

// A igual gp/día desempata la rotación (unidades/día) descendente.
func TestGenerateReorderPlan_DesempatePorRotacion(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "PocasUnidades", prod: "Caro", qty: 1, gross: 20, net: 20, cogs: 5, gp: 10, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-01", prodID: "MuchasUnidades", prod: "Barato", qty: 10, gross: 20, net: 20, cogs: 1, gp: 10, payment: entity.PaymentCash},
	})

	plan := analytics.GenerateReorderPlan(ds, dec(500))

	require.Len(t, plan, 2)
	assert.Equal(t, "MuchasUnidades", plan[0].ProductID,
		"mismo gp/día: gana el de mayor rotación")
}

// Cuando el remanente ya no alcanza ni para la unidad más barata del ranking,
// el recorrido termina y los productos restantes quedan fuera.
func TestGenerateReorderPlan_CorteTemprano(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Premium", qty: 5, gross: 200, net: 200, cogs: 10, gp: 100, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-01", prodID: "B", prod: "Premium B", qty: 3, gross: 90, net: 90, cogs: 10, gp: 30, payment: entity.PaymentCard},
	})

	// Alcanza 1 unidad de A (10); quedan 5, menos que la unidad más barata (10).
	plan := analytics.GenerateReorderPlan(ds, dec(15))

	require.Len(t, plan, 1)
	assert.Equal(t, "A", plan[0].ProductID)
	assert.Equal(t, int64(1), plan[0].SuggestedQty)
}

// El COGS del Product Master pisa el embebido en las transacciones.
func TestGenerateReorderPlan_CogsDelMaestro(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Latte", qty: 2, gross: 20, net: 20, cogs: 9, gp: 2, payment: entity.PaymentCard},
	})
	ds.Products = []entity.Product{{ProductID: "A", ProductName: "Latte", COGS: dec(3)}}

	plan := analytics.GenerateReorderPlan(ds, dec(100))

	require.Len(t, plan, 1)
	assertDec(t, "3", plan[0].UnitCost, "el costo del maestro manda sobre el de la línea")
}
