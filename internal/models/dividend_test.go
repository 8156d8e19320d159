package models

import (
	"testing"
	"time"
)

func TestMonthIndex(t *testing.T) {
	cases := []struct {
		name  string
		month time.Month
		ok    bool
	}{
		{"Enero", time.January, true},
		{"enero", time.January, true},
		{"DICIEMBRE", time.December, true},
		{" Julio ", time.July, true},
		{"Septiembre", time.September, true},
		{"January", 0, false},
		{"Setiembre", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		m, ok := MonthIndex(tc.name)
		if ok != tc.ok || m != tc.month {
			t.Errorf("MonthIndex(%q) = %v, %v; want %v, %v", tc.name, m, ok, tc.month, tc.ok)
		}
	}
}

func TestMonthNameRoundTrip(t *testing.T) {
	for i, name := range Months {
		m, ok := MonthIndex(name)
		if !ok {
			t.Fatalf("MonthIndex(%q) not found", name)
		}
		if MonthName(m) != name || int(m) != i+1 {
			t.Errorf("month %d round trip: %q → %v → %q", i+1, name, m, MonthName(m))
		}
	}
}

func TestParseISODate(t *testing.T) {
	valid := []string{"2025-01-05", "2024-02-29", "1999-12-31"}
	for _, s := range valid {
		if _, ok := ParseISODate(s); !ok {
			t.Errorf("ParseISODate(%q) rejected a valid date", s)
		}
	}

	invalid := []string{
		"2025-1-5",      // no zero padding
		"05-01-2025",    // wrong order
		"2025/01/05",    // wrong separator
		"2025-13-01",    // month 13
		"2025-01-32",    // day 32
		"2025-02-29",    // not a leap year
		"2025-01-05T00", // timestamp, not a date
		"",
	}
	for _, s := range invalid {
		if _, ok := ParseISODate(s); ok {
			t.Errorf("ParseISODate(%q) accepted an invalid date", s)
		}
	}
}

func TestDividendRecordShortTicker(t *testing.T) {
	r := DividendRecord{Ticker: "NYSE:KO"}
	if r.ShortTicker() != "KO" {
		t.Errorf("ShortTicker = %q, want KO", r.ShortTicker())
	}
	r.Ticker = "IBE"
	if r.ShortTicker() != "IBE" {
		t.Errorf("ShortTicker for bare ticker = %q, want IBE", r.ShortTicker())
	}
}
