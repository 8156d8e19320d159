// Package calendar projects validated dividend records onto a month grid
package calendar

import (
	"fmt"
	"time"

	"github.com/asanchez/divicast/internal/models"
)

// Project builds the flat ordered cell sequence for a named month. The grid
// starts with 0..6 blank cells so that day 1 lands on its ISO weekday column
// (Monday first), followed by one cell per calendar day with the payments
// falling on it. Pure function of its inputs.
func Project(month string, year int, results []models.DividendRecord) ([]models.CalendarCell, error) {
	m, ok := models.MonthIndex(month)
	if !ok {
		return nil, fmt.Errorf("unknown month %q", month)
	}
	return ProjectMonth(m, year, results), nil
}

// ProjectMonth is Project for an already-resolved time.Month.
func ProjectMonth(month time.Month, year int, results []models.DividendRecord) []models.CalendarCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	// time.Weekday is Sunday-first; normalize to Monday = 0.
	leading := (int(first.Weekday()) + 6) % 7

	// Day 0 of the next month is the last day of this one.
	daysIn := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	cells := make([]models.CalendarCell, 0, leading+daysIn)
	for i := 0; i < leading; i++ {
		cells = append(cells, models.CalendarCell{})
	}

	for day := 1; day <= daysIn; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(models.DateFormat)
		payments := make([]models.DividendRecord, 0)
		for _, r := range results {
			if r.PaymentDate == date {
				payments = append(payments, r)
			}
		}
		cells = append(cells, models.CalendarCell{Day: day, Date: date, Payments: payments})
	}

	return cells
}
