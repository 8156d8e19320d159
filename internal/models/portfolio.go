// Package models defines the domain types for Divicast
package models

import (
	"fmt"
	"strings"
)

// Security is one held position in the static portfolio.
// Created at process start from configuration; never mutated.
type Security struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"` // exchange-qualified, e.g. "NYSE:KO"
	Shares int    `json:"shares"`
}

// Validate checks the security against the portfolio invariants.
func (s *Security) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("security name is required")
	}
	exch, sym, ok := strings.Cut(s.Ticker, ":")
	if !ok || strings.TrimSpace(exch) == "" || strings.TrimSpace(sym) == "" {
		return fmt.Errorf("security %q: ticker %q must be exchange-qualified (EXCH:SYM)", s.Name, s.Ticker)
	}
	if s.Shares <= 0 {
		return fmt.Errorf("security %q: shares must be positive, got %d", s.Name, s.Shares)
	}
	return nil
}

// ShortTicker returns the ticker without its exchange prefix ("NYSE:KO" → "KO").
func (s *Security) ShortTicker() string {
	if _, sym, ok := strings.Cut(s.Ticker, ":"); ok {
		return sym
	}
	return s.Ticker
}

// Portfolio is the fixed list of held securities.
type Portfolio struct {
	Securities []Security `json:"securities"`
}

// Validate checks every security and rejects duplicate tickers.
func (p *Portfolio) Validate() error {
	if len(p.Securities) == 0 {
		return fmt.Errorf("portfolio has no securities")
	}
	seen := make(map[string]bool, len(p.Securities))
	for i := range p.Securities {
		if err := p.Securities[i].Validate(); err != nil {
			return err
		}
		if seen[p.Securities[i].Ticker] {
			return fmt.Errorf("duplicate ticker %q in portfolio", p.Securities[i].Ticker)
		}
		seen[p.Securities[i].Ticker] = true
	}
	return nil
}
