// Package ai contiene los adaptadores del puerto InsightService: Anthropic
// (Claude) y Google Gemini, ambos vía API REST con net/http.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/cashflow-api/internal/application/dto"
)

// Instrucciones de idioma para la narrativa, por etiqueta base normalizada.
var languageInstructions = map[string]string{
	"it": "Rispondi SEMPRE in italiano. Usa un tono professionale ma colloquiale, come se stessi consigliando direttamente un imprenditore. Struttura la risposta con paragrafi chiari e numerati quando appropriato.",
	"es": "Responde SIEMPRE en español. Usa un tono profesional pero conversacional, como si estuvieras aconsejando directamente a un empresario. Estructura tu respuesta con párrafos claros y numerados cuando sea apropiado.",
	"en": "Respond in English with a professional but conversational tone, like you're advising a business owner directly. Structure your response with clear, numbered paragraphs when appropriate.",
}

// systemPromptFor arma el prompt de sistema según el análisis y el idioma.
func systemPromptFor(analysisType, language string) string {
	role := "You are a senior business consultant providing executive-level retail insights."
	switch analysisType {
	case dto.AnalysisCashEaters:
		role = "You are an expert retail financial advisor who gives clear, actionable advice."
	case dto.AnalysisReorder:
		role = "You are an expert inventory management advisor for retail businesses."
	}

	instruction, ok := languageInstructions[language]
	if !ok {
		instruction = languageInstructions["en"]
	}
	return role + " " + instruction
}

// userPromptFor serializa las secciones presentes del análisis y pide la
// narrativa correspondiente.
func userPromptFor(result dto.AnalysisResultDTO) (string, error) {
	var b strings.Builder

	writeSection := func(title string, v interface{}) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("serializar sección %s: %w", title, err)
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", title, data)
		return nil
	}

	if result.Snapshot != nil {
		if err := writeSection("BUSINESS SNAPSHOT", result.Snapshot); err != nil {
			return "", err
		}
	}
	if result.CashEaters != nil {
		if err := writeSection("CASH DRAINS AND LOW MARGIN PRODUCTS", result.CashEaters); err != nil {
			return "", err
		}
	}
	if result.ReorderPlan != nil {
		if err := writeSection("RECOMMENDED PURCHASES", result.ReorderPlan); err != nil {
			return "", err
		}
	}
	if result.Clearance != nil {
		if err := writeSection("CLEARANCE ESTIMATE", result.Clearance); err != nil {
			return "", err
		}
	}

	switch result.AnalysisType {
	case dto.AnalysisCashEaters:
		b.WriteString(`Provide a structured analysis answering "What's eating my cash flow?" Format your response with:

1. **Biggest cash drain assessment** (2-3 sentences)
2. **Specific actionable recommendations** (3-4 key points)
3. **Quick wins for this week** (immediate actions)

Use clear paragraph breaks between sections for readability.`)
	case dto.AnalysisReorder:
		b.WriteString(`Provide structured analysis for "What should I reorder with my budget?" Format with:

1. **Purchase plan assessment** (2-3 sentences on the overall strategy)
2. **Product prioritization rationale** (why these specific items)
3. **Expected ROI and cash flow impact** (quantified benefits where possible)

Use clear paragraph breaks between sections. Be specific about financial impact.`)
	default:
		b.WriteString(`Provide a brief executive summary based on this data:

1. **Key business health indicators** (2-3 sentences)
2. **Top 2 opportunities for improvement**
3. **Critical action item for this week**

Keep it concise and executive-focused with clear paragraph breaks.`)
	}

	return b.String(), nil
}

// maxTokensFor presupuesto de tokens por tipo de análisis: el resumen
// ejecutivo es corto, el resto admite más detalle.
func maxTokensFor(analysisType string) int {
	switch analysisType {
	case dto.AnalysisSnapshot:
		return 350
	case dto.AnalysisFull:
		return 900
	default:
		return 600
	}
}
