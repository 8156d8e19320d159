package models

import (
	"strings"
	"time"
)

// DateFormat is the ISO calendar-date format required on all oracle dates.
const DateFormat = "2006-01-02"

// Months holds the twelve selectable month names, January first.
var Months = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthIndex resolves a month name (case-insensitive) to its time.Month.
func MonthIndex(name string) (time.Month, bool) {
	for i, m := range Months {
		if strings.EqualFold(m, strings.TrimSpace(name)) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// MonthName returns the selectable name for a time.Month.
func MonthName(m time.Month) string {
	return Months[int(m)-1]
}

// ParseISODate parses a strict YYYY-MM-DD calendar date. Unlike a bare
// time.Parse it rejects permissive forms like "2025-1-5".
func ParseISODate(s string) (time.Time, bool) {
	t, err := time.Parse(DateFormat, s)
	if err != nil || t.Format(DateFormat) != s {
		return time.Time{}, false
	}
	return t, true
}

// DividendRecord is one confirmed payment event for one security in the
// queried month. Field names match the oracle wire schema.
type DividendRecord struct {
	Company          string  `json:"company"`
	Ticker           string  `json:"ticker"`
	ExDividendDate   string  `json:"exDividendDate"`
	PaymentDate      string  `json:"paymentDate"`
	GrossDivOriginal float64 `json:"grossDivOriginal"`
	Currency         string  `json:"currency"`
	ExchangeRate     float64 `json:"exchangeRate"` // currency → EUR, sampled at pay date + 1
	GrossDivEur      float64 `json:"grossDivEur"`
	TotalGrossEur    float64 `json:"totalGrossEur"` // oracle running total, carried but not trusted
	OriginTaxRate    float64 `json:"originTaxRate"`
	SpanishTaxRate   float64 `json:"spanishTaxRate"`
	NetAmountEur     float64 `json:"netAmountEur"`
}

// ShortTicker returns the record's ticker without its exchange prefix.
func (r *DividendRecord) ShortTicker() string {
	if _, sym, ok := strings.Cut(r.Ticker, ":"); ok {
		return sym
	}
	return r.Ticker
}

// ReportedSummary is the oracle's self-reported aggregate block. It is
// cross-checked against locally recomputed totals, never trusted directly.
type ReportedSummary struct {
	TotalCompanies int     `json:"totalCompanies"`
	TotalGrossEur  float64 `json:"totalGrossEur"`
	TotalNetEur    float64 `json:"totalNetEur"`
}

// AnalysisPayload is the raw decoded oracle response, pre-validation.
type AnalysisPayload struct {
	Results []DividendRecord `json:"results"`
	Summary ReportedSummary  `json:"summary"`
}

// AnalysisRequest is one structured query to the dividend oracle.
type AnalysisRequest struct {
	Month  string // selectable month name, e.g. "Enero"
	Year   int
	Prompt string // natural-language instruction block
}

// AnalysisSummary is the validated aggregate root for one analysis request.
// Totals are recomputed from Results, not taken from the oracle.
type AnalysisSummary struct {
	Month          string           `json:"month"`
	Year           int              `json:"year"`
	Results        []DividendRecord `json:"results"` // order as returned
	TotalCompanies int              `json:"totalCompanies"`
	TotalGrossEur  float64          `json:"totalGrossEur"`
	TotalNetEur    float64          `json:"totalNetEur"`
	GeneratedAt    time.Time        `json:"generatedAt"`
}
