package ports

import "github.com/jhoicas/cashflow-api/internal/application/dto"

// ReportPDFGenerator define el puerto de salida para renderizar el reporte
// ejecutivo en PDF. El adaptador maroto es la implementación concreta.
type ReportPDFGenerator interface {
	GenerateAnalysisReport(result dto.AnalysisResultDTO) ([]byte, error)
}
