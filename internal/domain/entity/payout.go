package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout liquidación del procesador de tarjetas para un día de ventas.
type Payout struct {
	PayoutDate    time.Time
	ProcessorFees decimal.Decimal
	NetPayout     decimal.Decimal
}
