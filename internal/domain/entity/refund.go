package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Refund una devolución procesada por el POS.
// TransactionID es una referencia débil: el motor nunca la resuelve contra
// la colección de transacciones, solo suma RefundAmount.
type Refund struct {
	ID            string
	TransactionID string
	RefundAmount  decimal.Decimal
	RefundDate    time.Time
}
