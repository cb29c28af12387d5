package dto

import "time"

// DatasetUploadResponse salida de POST /api/datasets: conteos de lo cargado.
type DatasetUploadResponse struct {
	DatasetID    string    `json:"dataset_id"`
	LoadedAt     time.Time `json:"loaded_at"`
	Transactions int       `json:"transactions"`
	Refunds      int       `json:"refunds"`
	Payouts      int       `json:"payouts"`
	Products     int       `json:"products"`
}

// DatasetStatusResponse salida de GET /api/datasets: el dataset vigente.
// Loaded=false cuando no hay nada cargado (el resto de campos va vacío).
type DatasetStatusResponse struct {
	Loaded       bool      `json:"loaded"`
	DatasetID    string    `json:"dataset_id,omitempty"`
	LoadedAt     time.Time `json:"loaded_at,omitempty"`
	Transactions int       `json:"transactions,omitempty"`
	Refunds      int       `json:"refunds,omitempty"`
	Payouts      int       `json:"payouts,omitempty"`
	Products     int       `json:"products,omitempty"`
	PeriodStart  string    `json:"period_start,omitempty"` // YYYY-MM-DD
	PeriodEnd    string    `json:"period_end,omitempty"`
}
