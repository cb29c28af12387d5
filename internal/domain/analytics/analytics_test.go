package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers compartidos por los tests del motor analítico
// ──────────────────────────────────────────────────────────────────────────────

// day convierte "2025-03-01" en time.Time (falla el test si la fecha es inválida).
func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("fecha de test inválida %q: %v", s, err)
	}
	return d
}

// dec atajo para montos decimales en los fixtures.
func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// assertDec compara un decimal contra su representación esperada en string,
// independientemente del exponente interno.
func assertDec(t *testing.T, expected string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(expected)),
		"esperaba %s, obtuvo %s — %v", expected, got.String(), msgAndArgs)
}

// txRow fixture de una línea de transacción con los campos que el motor usa.
type txRow struct {
	id      string
	date    string
	prodID  string
	prod    string
	qty     int64
	gross   float64
	disc    float64
	net     float64
	cogs    float64
	gp      float64
	payment string
}

func buildDataset(t *testing.T, rows []txRow) *entity.CashFlowDataset {
	t.Helper()
	ds := &entity.CashFlowDataset{}
	for _, r := range rows {
		ds.Transactions = append(ds.Transactions, entity.Transaction{
			ID:          r.id,
			Day:         day(t, r.date),
			ProductID:   r.prodID,
			ProductName: r.prod,
			Quantity:    r.qty,
			GrossSales:  dec(r.gross),
			Discount:    dec(r.disc),
			NetSales:    dec(r.net),
			COGS:        dec(r.cogs),
			GrossProfit: dec(r.gp),
			PaymentType: r.payment,
		})
	}
	return ds
}
