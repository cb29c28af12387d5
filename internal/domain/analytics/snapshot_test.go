package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cashflow-api/internal/domain/analytics"
	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// Escenario de referencia: una sola transacción con pago con tarjeta.
func TestComputeSnapshot_TransaccionUnica(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "p1", prod: "Latte", qty: 2,
			gross: 10, disc: 0, net: 10, cogs: 2, gp: 6, payment: entity.PaymentCard},
	})

	snap := analytics.ComputeSnapshot(ds)

	assert.Equal(t, 1, snap.TotalTransactions)
	assert.Equal(t, int64(2), snap.ItemsSold)
	assertDec(t, "10", snap.GrossSales)
	assertDec(t, "0", snap.Discounts)
	assertDec(t, "10", snap.CardSales, "la venta card debe sumar el net_sales")
	assertDec(t, "0", snap.CashSales)
}

// Dataset vacío: todas las métricas en cero, nunca un error ni NaN.
func TestComputeSnapshot_DatasetVacio(t *testing.T) {
	snap := analytics.ComputeSnapshot(&entity.CashFlowDataset{})

	assert.Equal(t, 0, snap.TotalTransactions)
	assert.Equal(t, int64(0), snap.ItemsSold)
	assertDec(t, "0", snap.GrossSales)
	assertDec(t, "0", snap.Discounts)
	assertDec(t, "0", snap.CardSales)
	assertDec(t, "0", snap.CashSales)
	assertDec(t, "0", snap.ProcessorFees)
	assertDec(t, "0", snap.Refunds)
	assertDec(t, "0", snap.NetPayouts)
	assert.True(t, snap.PeriodStart.IsZero())
	assert.True(t, snap.PeriodEnd.IsZero())
}

// Varias líneas con el mismo transaction_id cuentan como UNA transacción,
// pero las sumas de cantidad y ventas incluyen todas las líneas.
func TestComputeSnapshot_IdsDistintos(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "p1", prod: "Latte", qty: 1, gross: 5, net: 5, payment: entity.PaymentCard},
		{id: "t1", date: "2025-03-01", prodID: "p2", prod: "Muffin", qty: 2, gross: 6, net: 6, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-02", prodID: "p1", prod: "Latte", qty: 1, gross: 5, net: 5, payment: entity.PaymentCash},
	})

	snap := analytics.ComputeSnapshot(ds)

	assert.Equal(t, 2, snap.TotalTransactions, "t1 con dos líneas cuenta una vez")
	assert.Equal(t, int64(4), snap.ItemsSold, "las cantidades sí incluyen cada línea")
	assertDec(t, "16", snap.GrossSales)
	assertDec(t, "11", snap.CardSales)
	assertDec(t, "5", snap.CashSales)
}

// Un payment_type desconocido no suma ni a card ni a cash.
func TestComputeSnapshot_PaymentTypeDesconocido(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "p1", prod: "Latte", qty: 1, gross: 5, net: 5, payment: "voucher"},
		{id: "t2", date: "2025-03-01", prodID: "p1", prod: "Latte", qty: 1, gross: 5, net: 5, payment: ""},
	})

	snap := analytics.ComputeSnapshot(ds)

	assertDec(t, "0", snap.CardSales)
	assertDec(t, "0", snap.CashSales)
	assertDec(t, "10", snap.GrossSales, "el resto de métricas sí incluye esas filas")
}

// Refunds y payouts se agregan desde sus colecciones propias.
func TestComputeSnapshot_RefundsYPayouts(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "p1", prod: "Latte", qty: 1, gross: 5, net: 5, payment: entity.PaymentCard},
	})
	ds.Refunds = []entity.Refund{
		{ID: "r1", TransactionID: "t0", RefundAmount: dec(3.50), RefundDate: day(t, "2025-03-02")},
		{ID: "r2", TransactionID: "t1", RefundAmount: dec(1.25), RefundDate: day(t, "2025-03-03")},
	}
	ds.Payouts = []entity.Payout{
		{PayoutDate: day(t, "2025-03-02"), ProcessorFees: dec(0.75), NetPayout: dec(24.25)},
		{PayoutDate: day(t, "2025-03-03"), ProcessorFees: dec(0.50), NetPayout: dec(9.50)},
	}

	snap := analytics.ComputeSnapshot(ds)

	assertDec(t, "4.75", snap.Refunds)
	assertDec(t, "1.25", snap.ProcessorFees)
	assertDec(t, "33.75", snap.NetPayouts)
}

// La ventana observada es min(day) → max(day).
func TestComputeSnapshot_VentanaObservada(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-05", prodID: "p1", prod: "Latte", qty: 1, gross: 5, net: 5, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-01", prodID: "p1", prod: "Latte", qty: 1, gross: 5, net: 5, payment: entity.PaymentCard},
		{id: "t3", date: "2025-03-03", prodID: "p1", prod: "Latte", qty: 1, gross: 5, net: 5, payment: entity.PaymentCard},
	})

	snap := analytics.ComputeSnapshot(ds)

	assert.Equal(t, day(t, "2025-03-01"), snap.PeriodStart)
	assert.Equal(t, day(t, "2025-03-05"), snap.PeriodEnd)
}

// Función pura: dos ejecuciones sobre el mismo dataset producen lo mismo.
func TestComputeSnapshot_Idempotente(t *testing.T) {
	ds := buildDataset(t, []txRow{
		{id: "t1", date: "2025-03-01", prodID: "p1", prod: "Latte", qty: 2, gross: 10, net: 10, gp: 6, payment: entity.PaymentCard},
		{id: "t2", date: "2025-03-02", prodID: "p2", prod: "Muffin", qty: 1, gross: 4, net: 4, gp: 2, payment: entity.PaymentCash},
	})

	first := analytics.ComputeSnapshot(ds)
	second := analytics.ComputeSnapshot(ds)

	assert.Equal(t, first, second, "el snapshot no debe depender de estado oculto")
}
