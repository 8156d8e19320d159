package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/asanchez/divicast/internal/common"
	"github.com/asanchez/divicast/internal/models"
)

// Rounding tolerance: the larger of 0.01 currency units or 0.5% relative.
var (
	absTolerance = decimal.RequireFromString("0.01")
	relTolerance = decimal.RequireFromString("0.005")
)

// withinTolerance reports whether got is close enough to want.
func withinTolerance(got, want decimal.Decimal) bool {
	limit := decimal.Max(absTolerance, want.Abs().Mul(relTolerance))
	return got.Sub(want).Abs().LessThanOrEqual(limit)
}

// ValidateAnalysis checks a decoded oracle payload against the domain
// invariants and returns the trusted summary with locally recomputed
// aggregates. On any violation the whole batch is rejected: a partially
// trusted financial report is worse than none. An empty result set is a
// legitimate outcome, not an error.
func ValidateAnalysis(payload *models.AnalysisPayload, month string, year int, logger *common.Logger) (*models.AnalysisSummary, error) {
	m, ok := models.MonthIndex(month)
	if !ok {
		return nil, models.NewDomainFailure(fmt.Sprintf("unknown month %q", month))
	}

	for i := range payload.Results {
		if err := validateRecord(&payload.Results[i], m, year); err != nil {
			return nil, models.NewDomainFailure(fmt.Sprintf("record %d: %v", i, err))
		}
	}

	totalCompanies, totalGrossEur, totalNetEur := Summarize(payload.Results)

	// The oracle's self-reported summary is cross-checked, never trusted.
	// Recomputed values win; a mismatch is flagged for diagnostics.
	reported := payload.Summary
	if reported.TotalCompanies != totalCompanies ||
		!withinTolerance(decimal.NewFromFloat(reported.TotalGrossEur), decimal.NewFromFloat(totalGrossEur)) ||
		!withinTolerance(decimal.NewFromFloat(reported.TotalNetEur), decimal.NewFromFloat(totalNetEur)) {
		logger.Warn().
			Int("reported_companies", reported.TotalCompanies).
			Int("recomputed_companies", totalCompanies).
			Float64("reported_gross_eur", reported.TotalGrossEur).
			Float64("recomputed_gross_eur", totalGrossEur).
			Float64("reported_net_eur", reported.TotalNetEur).
			Float64("recomputed_net_eur", totalNetEur).
			Msg("Oracle summary disagrees with recomputed totals, using recomputed values")
	}

	return &models.AnalysisSummary{
		Month:          models.MonthName(m),
		Year:           year,
		Results:        payload.Results,
		TotalCompanies: totalCompanies,
		TotalGrossEur:  totalGrossEur,
		TotalNetEur:    totalNetEur,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// validateRecord checks one record's dates, currency, and numeric invariants.
func validateRecord(r *models.DividendRecord, month time.Month, year int) error {
	if strings.TrimSpace(r.Company) == "" {
		return fmt.Errorf("company is empty")
	}
	if strings.TrimSpace(r.Ticker) == "" {
		return fmt.Errorf("ticker is empty")
	}

	exDate, ok := models.ParseISODate(r.ExDividendDate)
	if !ok {
		return fmt.Errorf("%s: exDividendDate %q is not a valid ISO date", r.Ticker, r.ExDividendDate)
	}
	payDate, ok := models.ParseISODate(r.PaymentDate)
	if !ok {
		return fmt.Errorf("%s: paymentDate %q is not a valid ISO date", r.Ticker, r.PaymentDate)
	}
	if exDate.After(payDate) {
		return fmt.Errorf("%s: exDividendDate %s is after paymentDate %s", r.Ticker, r.ExDividendDate, r.PaymentDate)
	}

	// The projector buckets by payment date; a record outside the target
	// month could never land in a cell, so it is rejected here.
	if payDate.Year() != year || payDate.Month() != month {
		return fmt.Errorf("%s: paymentDate %s is outside %s %d", r.Ticker, r.PaymentDate, models.MonthName(month), year)
	}

	if money.GetCurrency(strings.ToUpper(r.Currency)) == nil {
		return fmt.Errorf("%s: unknown currency code %q", r.Ticker, r.Currency)
	}

	if r.GrossDivOriginal < 0 {
		return fmt.Errorf("%s: grossDivOriginal %.4f is negative", r.Ticker, r.GrossDivOriginal)
	}
	if r.ExchangeRate <= 0 {
		return fmt.Errorf("%s: exchangeRate %.6f is not positive", r.Ticker, r.ExchangeRate)
	}
	if r.GrossDivEur < 0 {
		return fmt.Errorf("%s: grossDivEur %.4f is negative", r.Ticker, r.GrossDivEur)
	}
	if r.NetAmountEur < 0 {
		return fmt.Errorf("%s: netAmountEur %.4f is negative", r.Ticker, r.NetAmountEur)
	}
	if r.OriginTaxRate < 0 || r.OriginTaxRate > 1 {
		return fmt.Errorf("%s: originTaxRate %.4f outside [0,1]", r.Ticker, r.OriginTaxRate)
	}
	if r.SpanishTaxRate < 0 || r.SpanishTaxRate > 1 {
		return fmt.Errorf("%s: spanishTaxRate %.4f outside [0,1]", r.Ticker, r.SpanishTaxRate)
	}

	gross := decimal.NewFromFloat(r.GrossDivEur)
	expectedGross := decimal.NewFromFloat(r.GrossDivOriginal).Mul(decimal.NewFromFloat(r.ExchangeRate))
	if !withinTolerance(gross, expectedGross) {
		return fmt.Errorf("%s: grossDivEur %.4f does not match grossDivOriginal * exchangeRate = %s",
			r.Ticker, r.GrossDivEur, expectedGross.StringFixed(4))
	}

	net := decimal.NewFromFloat(r.NetAmountEur)
	expectedNet := gross.
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(r.OriginTaxRate))).
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(r.SpanishTaxRate)))
	if !withinTolerance(net, expectedNet) {
		return fmt.Errorf("%s: netAmountEur %.4f does not match gross after withholding = %s",
			r.Ticker, r.NetAmountEur, expectedNet.StringFixed(4))
	}
	if net.GreaterThan(gross.Add(absTolerance)) {
		return fmt.Errorf("%s: netAmountEur %.4f exceeds grossDivEur %.4f", r.Ticker, r.NetAmountEur, r.GrossDivEur)
	}

	return nil
}
