package analytics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cashflow-api/internal/domain/analytics"
	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// Sin transacciones no hay nada que liquidar.
func TestEstimateClearance_DatasetVacio(t *testing.T) {
	report := analytics.EstimateClearance(&entity.CashFlowDataset{})

	require.NotNil(t, report.Items)
	assert.Empty(t, report.Items)
	assertDec(t, "0", report.TotalExtraCash)
}

// Caso de referencia con un solo producto: 7 unidades en 7 días a $10.
// Campaña de 7 días con lift 1.5 → 3.5 unidades extra ≈ 4, a $8 con descuento.
func TestEstimateClearance_CasoBase(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Taza", qty: 4, gross: 40, net: 40, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-07", prodID: "A", prod: "Taza", qty: 3, gross: 30, net: 30, payment: entity.PaymentCash},
	})

	report := analytics.EstimateClearance(ds)

	require.Len(t, report.Items, 1)
	item := report.Items[0]
	assert.Equal(t, "A", item.ProductID)
	assertDec(t, "1", item.QtyPerDay)
	assertDec(t, "10", item.UnitPrice, "precio derivado: Σ gross / Σ qty")
	assertDec(t, "8", item.DiscountedPrice, "20% de descuento")
	assert.Equal(t, int64(4), item.ExtraUnits)
	assertDec(t, "32", item.ExtraCashInflow)
	assertDec(t, "32", report.TotalExtraCash)
}

// Con pocos productos el 20% inferior redondea a 1: se liquida solo el de
// menor rotación.
func TestEstimateClearance_EligeElMasLento(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "Rapido", prod: "Latte", qty: 20, gross: 100, net: 100, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-01", prodID: "Medio", prod: "Muffin", qty: 10, gross: 40, net: 40, payment: entity.PaymentCash},
		{id: "t3", date: "2025-03-01", prodID: "Lento", prod: "Taza", qty: 2, gross: 30, net: 30, payment: entity.PaymentCard},
	})

	report := analytics.EstimateClearance(ds)

	require.Len(t, report.Items, 1)
	assert.Equal(t, "Lento", report.Items[0].ProductID)
}

// Con diez productos entran dos en el 20% inferior.
func TestEstimateClearance_VeintePorCientoInferior(t *testing.T) {
	rows := make([]txRow, 0, 10)
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	for i, n := range names {
		rows = append(rows, txRow{
			id: "t" + n, date: "2025-03-01", prodID: n, prod: "Producto " + n,
			qty: int64(i + 1), gross: float64((i + 1) * 10), net: float64((i + 1) * 10),
			payment: entity.PaymentCard,
		})
	}

	report := analytics.EstimateClearance(buildDataset(t, rows))

	require.Len(t, report.Items, 2)
	assert.Equal(t, "A", report.Items[0].ProductID, "el de menor rotación primero")
	assert.Equal(t, "B", report.Items[1].ProductID)
}

// El total es la suma de la caja extra de cada ítem.
func TestEstimateClearance_TotalCuadra(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "A", prod: "Taza", qty: 7, gross: 70, net: 70, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-07", prodID: "B", prod: "Plato", qty: 14, gross: 70, net: 70, payment: entity.PaymentCash},
	})

	report := analytics.EstimateClearance(ds)

	sum := decimal.Zero
	for _, item := range report.Items {
		sum = sum.Add(item.ExtraCashInflow)
	}
	assert.True(t, report.TotalExtraCash.Equal(sum))
}

// Filas sin producto atribuible no participan de la liquidación.
func TestEstimateClearance_SinProductoSeSalta(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "", prod: "Huérfano", qty: 5, gross: 50, net: 50, payment: entity.PaymentCard},
	})

	report := analytics.EstimateClearance(ds)

	assert.Empty(t, report.Items)
	assertDec(t, "0", report.TotalExtraCash)
}
