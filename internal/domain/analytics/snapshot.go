package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// BusinessSnapshot resumen ejecutivo del negocio sobre la ventana observada.
// Todos los montos son sumas directas; sobre colecciones vacías todo es cero.
type BusinessSnapshot struct {
	TotalTransactions int   // ids de transacción distintos (una venta puede tener varias líneas)
	ItemsSold         int64 // Σ quantity, incluye todas las líneas

	GrossSales decimal.Decimal
	Discounts  decimal.Decimal
	CardSales  decimal.Decimal // Σ net_sales con payment_type = card
	CashSales  decimal.Decimal // Σ net_sales con payment_type = cash

	ProcessorFees decimal.Decimal // Σ processor_fees de los payouts
	Refunds       decimal.Decimal // Σ refund_amount
	NetPayouts    decimal.Decimal // Σ net_payout

	// Ventana observada: min y max de day; cero si no hay transacciones.
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// ComputeSnapshot agrega las métricas de salud del negocio. Función total:
// cualquier dataset, incluido el vacío, produce un snapshot válido.
func ComputeSnapshot(ds *entity.CashFlowDataset) BusinessSnapshot {
	snap := BusinessSnapshot{
		GrossSales:    decimal.Zero,
		Discounts:     decimal.Zero,
		CardSales:     decimal.Zero,
		CashSales:     decimal.Zero,
		ProcessorFees: decimal.Zero,
		Refunds:       decimal.Zero,
		NetPayouts:    decimal.Zero,
	}

	seen := make(map[string]struct{}, len(ds.Transactions))
	for _, tx := range ds.Transactions {
		if _, ok := seen[tx.ID]; !ok {
			seen[tx.ID] = struct{}{}
			snap.TotalTransactions++
		}

		snap.ItemsSold += tx.Quantity
		snap.GrossSales = snap.GrossSales.Add(tx.GrossSales)
		snap.Discounts = snap.Discounts.Add(tx.Discount)

		switch tx.PaymentType {
		case entity.PaymentCard:
			snap.CardSales = snap.CardSales.Add(tx.NetSales)
		case entity.PaymentCash:
			snap.CashSales = snap.CashSales.Add(tx.NetSales)
		}

		if snap.PeriodStart.IsZero() || tx.Day.Before(snap.PeriodStart) {
			snap.PeriodStart = tx.Day
		}
		if snap.PeriodEnd.IsZero() || tx.Day.After(snap.PeriodEnd) {
			snap.PeriodEnd = tx.Day
		}
	}

	for _, p := range ds.Payouts {
		snap.ProcessorFees = snap.ProcessorFees.Add(p.ProcessorFees)
		snap.NetPayouts = snap.NetPayouts.Add(p.NetPayout)
	}
	for _, r := range ds.Refunds {
		snap.Refunds = snap.Refunds.Add(r.RefundAmount)
	}

	return snap
}
