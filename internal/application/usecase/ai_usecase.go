package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
	"github.com/jhoicas/cashflow-api/internal/application/ports"
)

// Idiomas soportados para la narrativa. Cualquier etiqueta que no matchee
// cae en inglés.
var insightLanguages = []language.Tag{
	language.English, // fallback
	language.Italian,
	language.Spanish,
}

var insightMatcher = language.NewMatcher(insightLanguages)

// AIUseCase orquesta la generación de insights con el proveedor de IA.
// Aplica un timeout de 10 segundos en cada llamada al LLM para evitar
// que las latencias externas bloqueen los goroutines del servidor.
type AIUseCase struct {
	insights ports.InsightService
}

// NewAIUseCase construye el caso de uso inyectando el puerto InsightService.
func NewAIUseCase(insights ports.InsightService) *AIUseCase {
	return &AIUseCase{insights: insights}
}

// GenerateInsight normaliza el idioma pedido y delega al proveedor.
// Envuelve el contexto con un timeout de 10 s para respetar los SLAs de la API.
func (uc *AIUseCase) GenerateInsight(
	ctx context.Context,
	result dto.AnalysisResultDTO,
	lang string,
) (string, error) {
	// Timeout de 10 s: las llamadas a LLMs pueden demorar varios segundos.
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	text, err := uc.insights.GenerateInsight(ctx, result, NormalizeLanguage(lang))
	if err != nil {
		return "", fmt.Errorf("insight IA: %w", err)
	}
	return text, nil
}

// NormalizeLanguage reduce cualquier etiqueta BCP 47 ("es-CO", "it-IT") al
// idioma base soportado. Etiquetas vacías o inválidas caen en "en".
func NormalizeLanguage(lang string) string {
	if lang == "" {
		return "en"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "en"
	}
	matched, _, conf := insightMatcher.Match(tag)
	if conf == language.No {
		return "en"
	}
	base, _ := matched.Base()
	return base.String()
}
