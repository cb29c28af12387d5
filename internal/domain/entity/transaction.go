package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago que el motor reconoce para el desglose card/cash.
// Cualquier otro valor no suma a ninguno de los dos (pero sí al resto de métricas).
const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

// Transaction una línea de venta del POS.
// Invariante asumido aguas arriba (no se re-valida aquí): NetSales = GrossSales - Discount.
// GrossProfit es derivado: cuando el producto existe en el Product Master, el motor
// lo recalcula como NetSales - COGS_maestro × Quantity; si no, usa el valor embebido.
type Transaction struct {
	ID          string
	Day         time.Time // fecha calendario de la venta (sin hora)
	ProductID   string
	ProductName string
	Quantity    int64 // unidades vendidas en la línea (≥ 0)
	GrossSales  decimal.Decimal
	Discount    decimal.Decimal
	NetSales    decimal.Decimal
	COGS        decimal.Decimal // costo unitario embebido en la fila (fallback del maestro)
	GrossProfit decimal.Decimal
	PaymentType string // card | cash | otro
}
