// Package analysis orchestrates dividend analysis requests against the oracle
package analysis

import (
	"fmt"
	"strings"

	"github.com/asanchez/divicast/internal/models"
)

// BuildQuery assembles the structured natural-language request for one
// (month, year, portfolio) analysis. The instruction encodes the calendar,
// FX, and withholding rules the oracle must follow; no dates, rates, or
// taxes are computed locally. Pure construction, no side effects.
func BuildQuery(month string, year int, portfolio models.Portfolio) *models.AnalysisRequest {
	var sb strings.Builder
	for _, sec := range portfolio.Securities {
		fmt.Fprintf(&sb, "%s (%s) - Acciones: %d\n", sec.Name, sec.Ticker, sec.Shares)
	}
	portfolioStr := strings.TrimRight(sb.String(), "\n")

	prompt := fmt.Sprintf(`Eres un analista financiero experto en fiscalidad española y mercados internacionales. Tu tarea es generar un informe de dividendos EXTREMADAMENTE PRECISO.

CONTEXTO TEMPORAL: Mes de %s de %d.

REGLAS DE VALIDACIÓN DE CALENDARIO:
1. Solo incluye empresas que tengan una FECHA DE PAGO confirmada o históricamente recurrente en el mes de %s.
2. Ejemplo Crítico: Enagás (ENG) NO paga en enero. Solo paga en julio y diciembre. Si el mes es enero, Enagás NO debe aparecer.
3. Verifica los calendarios de dividendos recientes para cada ticker.

REGLAS DE CONVERSIÓN DE DIVISA (FX):
1. Para dividendos en USD o GBP, utiliza el tipo de cambio (EUR/USD o EUR/GBP) correspondiente al DÍA POSTERIOR a la fecha de pago del dividendo.
2. Indica el tipo de cambio usado en exchangeRate.

REGLAS FISCALES (Residente en España):
1. Retención en ORIGEN (originTaxRate): USA (15%%), UK (0%%), España (19%%), Alemania (26.375%%).
2. Retención en ESPAÑA (spanishTaxRate): 19%% adicional para extranjeras sobre el bruto en EUR.

FORMATO DE SALIDA:
- paymentDate y exDividendDate DEBEN estar en formato AAAA-MM-DD.

CARTERA A ANALIZAR:
%s`, month, year, month, portfolioStr)

	return &models.AnalysisRequest{
		Month:  month,
		Year:   year,
		Prompt: prompt,
	}
}
