package entity

import "github.com/shopspring/decimal"

// Product registro del Product Master: costo unitario de referencia por SKU.
// ProductID es la clave única; el COGS del maestro tiene precedencia sobre el
// embebido en las transacciones al recalcular márgenes.
type Product struct {
	ProductID   string
	ProductName string
	COGS        decimal.Decimal // costo unitario (≥ 0)
}
