// Package csvimport implementa el parser de los exports CSV del POS.
// Cada archivo se valida contra sus columnas requeridas; las columnas extra
// (category, tax, tip_amount, los "Unnamed: N" de Excel) se ignoran.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cashflow-api/internal/application/ports"
	"github.com/jhoicas/cashflow-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que Parser implementa el puerto.
var _ ports.DatasetParser = (*Parser)(nil)

// Columnas requeridas por archivo. Los nombres se comparan en minúsculas.
var (
	txRequired      = []string{"date", "transaction_id", "product_id", "product_name", "quantity", "gross_sales", "discount", "net_sales", "payment_type"}
	refundRequired  = []string{"original_transaction_id", "refund_date", "refund_amount"}
	payoutRequired  = []string{"payout_date", "processor_fees", "net_payout_amount"}
	productRequired = []string{"product_id", "product_name", "cogs"}
)

// Layouts de fecha aceptados, en orden de prueba.
var dayLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", "01/02/2006"}

// Parser adaptador CSV del puerto DatasetParser. No tiene estado: una
// instancia sirve para todos los uploads.
type Parser struct{}

// NewParser construye el parser.
func NewParser() *Parser { return &Parser{} }

// ParseTransactions parsea el export de ventas del POS.
// cogs y gross_profit son columnas opcionales (vacío = cero).
func (p *Parser) ParseTransactions(r io.Reader) ([]entity.Transaction, error) {
	rows, header, err := readAll(r, "transacciones", txRequired)
	if err != nil {
		return nil, err
	}

	txs := make([]entity.Transaction, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // 1-based más la fila de encabezado

		day, err := header.day(row, "date", line)
		if err != nil {
			return nil, err
		}
		qty, err := header.integer(row, "quantity", line)
		if err != nil {
			return nil, err
		}
		gross, err := header.amount(row, "gross_sales", line)
		if err != nil {
			return nil, err
		}
		disc, err := header.amount(row, "discount", line)
		if err != nil {
			return nil, err
		}
		net, err := header.amount(row, "net_sales", line)
		if err != nil {
			return nil, err
		}
		cogs, err := header.optionalAmount(row, "cogs", line)
		if err != nil {
			return nil, err
		}
		gp, err := header.optionalAmount(row, "gross_profit", line)
		if err != nil {
			return nil, err
		}

		txs = append(txs, entity.Transaction{
			ID:          header.text(row, "transaction_id"),
			Day:         day,
			ProductID:   header.text(row, "product_id"),
			ProductName: header.text(row, "product_name"),
			Quantity:    qty,
			GrossSales:  gross,
			Discount:    disc,
			NetSales:    net,
			COGS:        cogs,
			GrossProfit: gp,
			PaymentType: normalizePayment(header.text(row, "payment_type")),
		})
	}
	return txs, nil
}

// ParseRefunds parsea el export de devoluciones.
func (p *Parser) ParseRefunds(r io.Reader) ([]entity.Refund, error) {
	rows, header, err := readAll(r, "refunds", refundRequired)
	if err != nil {
		return nil, err
	}

	refunds := make([]entity.Refund, 0, len(rows))
	for i, row := range rows {
		line := i + 2

		date, err := header.day(row, "refund_date", line)
		if err != nil {
			return nil, err
		}
		amount, err := header.amount(row, "refund_amount", line)
		if err != nil {
			return nil, err
		}

		// El export no trae id propio de refund: se sintetiza uno estable por fila.
		id := header.text(row, "refund_id")
		if id == "" {
			id = fmt.Sprintf("rf-%d", i+1)
		}

		refunds = append(refunds, entity.Refund{
			ID:            id,
			TransactionID: header.text(row, "original_transaction_id"),
			RefundAmount:  amount,
			RefundDate:    date,
		})
	}
	return refunds, nil
}

// ParsePayouts parsea el export de liquidaciones del procesador de tarjetas.
func (p *Parser) ParsePayouts(r io.Reader) ([]entity.Payout, error) {
	rows, header, err := readAll(r, "payouts", payoutRequired)
	if err != nil {
		return nil, err
	}

	payouts := make([]entity.Payout, 0, len(rows))
	for i, row := range rows {
		line := i + 2

		date, err := header.day(row, "payout_date", line)
		if err != nil {
			return nil, err
		}
		fees, err := header.amount(row, "processor_fees", line)
		if err != nil {
			return nil, err
		}
		net, err := header.amount(row, "net_payout_amount", line)
		if err != nil {
			return nil, err
		}

		payouts = append(payouts, entity.Payout{
			PayoutDate:    date,
			ProcessorFees: fees,
			NetPayout:     net,
		})
	}
	return payouts, nil
}

// ParseProducts parsea el Product Master (costos por producto).
func (p *Parser) ParseProducts(r io.Reader) ([]entity.Product, error) {
	rows, header, err := readAll(r, "productos", productRequired)
	if err != nil {
		return nil, err
	}

	products := make([]entity.Product, 0, len(rows))
	for i, row := range rows {
		line := i + 2

		cogs, err := header.amount(row, "cogs", line)
		if err != nil {
			return nil, err
		}
		products = append(products, entity.Product{
			ProductID:   header.text(row, "product_id"),
			ProductName: header.text(row, "product_name"),
			COGS:        cogs,
		})
	}
	return products, nil
}

// ── Lectura y encabezados ─────────────────────────────────────────────────────

// columnIndex mapea nombre de columna (minúsculas) → posición.
type columnIndex map[string]int

// readAll lee el CSV completo, valida las columnas requeridas y devuelve las
// filas de datos más el índice de columnas.
func readAll(r io.Reader, kind string, required []string) ([][]string, columnIndex, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // las filas cortas se validan por columna
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: CSV malformado: %w", kind, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: archivo vacío, falta el encabezado", kind)
	}

	header := make(columnIndex, len(records[0]))
	for i, name := range records[0] {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if name == "" || strings.HasPrefix(name, "unnamed:") {
			continue // columnas fantasma de exports de Excel
		}
		header[name] = i
	}

	missing := make([]string, 0)
	for _, col := range required {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%s: faltan columnas requeridas: %s", kind, strings.Join(missing, ", "))
	}

	return records[1:], header, nil
}

// text devuelve el valor de la columna, o "" si la fila es corta o la columna no existe.
func (h columnIndex) text(row []string, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// amount parsea un monto decimal obligatorio (vacío cuenta como cero).
func (h columnIndex) amount(row []string, col string, line int) (decimal.Decimal, error) {
	raw := h.text(row, col)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fila %d: columna %q: %q no es un monto válido", line, col, raw)
	}
	return d, nil
}

// optionalAmount como amount pero tolera que la columna no exista.
func (h columnIndex) optionalAmount(row []string, col string, line int) (decimal.Decimal, error) {
	if _, ok := h[col]; !ok {
		return decimal.Zero, nil
	}
	return h.amount(row, col, line)
}

// integer parsea una cantidad entera; acepta "3.0" de exports de planilla.
func (h columnIndex) integer(row []string, col string, line int) (int64, error) {
	raw := h.text(row, col)
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("fila %d: columna %q: %q no es una cantidad entera", line, col, raw)
	}
	return d.IntPart(), nil
}

// day parsea una fecha probando los layouts aceptados.
func (h columnIndex) day(row []string, col string, line int) (time.Time, error) {
	raw := h.text(row, col)
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fila %d: columna %q: %q no es una fecha válida (se espera YYYY-MM-DD)", line, col, raw)
}

// normalizePayment normaliza el payment_type del POS: "CARD", "Card " → "card".
func normalizePayment(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
