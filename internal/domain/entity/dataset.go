package entity

import "time"

// CashFlowDataset la unidad de entrada de todo análisis: las cuatro colecciones
// del POS tal como las entregó el loader, ya validadas y tipadas.
//
// El dataset es inmutable una vez construido: ningún analizador lo modifica y
// toda salida se aloja aparte, por lo que puede leerse concurrentemente desde
// cuantos análisis se quiera. Cualquier colección puede estar vacía.
type CashFlowDataset struct {
	ID       string    // identificador de la carga (uuid)
	LoadedAt time.Time // momento en que se construyó el dataset

	Transactions []Transaction
	Refunds      []Refund
	Payouts      []Payout
	Products     []Product
}
