package ports

import (
	"context"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
)

// InsightService define el puerto de salida hacia el proveedor de IA que
// redacta la narrativa ejecutiva de un análisis. Cualquier adaptador
// (Anthropic, Gemini, mock) debe implementar esta interfaz; la capa de
// aplicación solo conoce este contrato, no la implementación concreta.
type InsightService interface {
	// GenerateInsight redacta, en el idioma pedido (etiqueta BCP 47, ej. "en",
	// "es", "it"), una narrativa breve con las conclusiones del análisis.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	GenerateInsight(ctx context.Context, result dto.AnalysisResultDTO, language string) (string, error)
}
