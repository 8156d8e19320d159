package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/asanchez/divicast/internal/models"
)

// Summarize derives the KPI block from a record set: count of distinct
// tickers (deduplicated defensively, the oracle should emit at most one
// record per ticker per month) and EUR gross/net totals. Sums accumulate
// left to right on decimals for reproducibility.
func Summarize(results []models.DividendRecord) (totalCompanies int, totalGrossEur, totalNetEur float64) {
	seen := make(map[string]bool, len(results))
	gross := decimal.Zero
	net := decimal.Zero

	for _, r := range results {
		if !seen[r.Ticker] {
			seen[r.Ticker] = true
			totalCompanies++
		}
		gross = gross.Add(decimal.NewFromFloat(r.GrossDivEur))
		net = net.Add(decimal.NewFromFloat(r.NetAmountEur))
	}

	return totalCompanies, gross.InexactFloat64(), net.InexactFloat64()
}
