package analysis

import (
	"strings"
	"testing"

	"github.com/asanchez/divicast/internal/models"
)

func testPortfolio() models.Portfolio {
	return models.Portfolio{Securities: []models.Security{
		{Name: "Coca-Cola", Ticker: "NYSE:KO", Shares: 120},
		{Name: "Iberdrola", Ticker: "BME:IBE", Shares: 300},
	}}
}

func TestBuildQuery_CarriesSelection(t *testing.T) {
	req := BuildQuery("Enero", 2025, testPortfolio())
	if req.Month != "Enero" || req.Year != 2025 {
		t.Errorf("request selection = %s %d, want Enero 2025", req.Month, req.Year)
	}
}

func TestBuildQuery_EnumeratesHoldings(t *testing.T) {
	req := BuildQuery("Enero", 2025, testPortfolio())

	for _, line := range []string{
		"Coca-Cola (NYSE:KO) - Acciones: 120",
		"Iberdrola (BME:IBE) - Acciones: 300",
	} {
		if !strings.Contains(req.Prompt, line) {
			t.Errorf("prompt missing holding line %q", line)
		}
	}
}

func TestBuildQuery_EncodesRules(t *testing.T) {
	req := BuildQuery("Julio", 2026, testPortfolio())

	for _, fragment := range []string{
		"Mes de Julio de 2026",
		"FECHA DE PAGO confirmada o históricamente recurrente en el mes de Julio",
		"DÍA POSTERIOR a la fecha de pago",
		"USA (15%), UK (0%), España (19%), Alemania (26.375%)",
		"19% adicional para extranjeras",
		"AAAA-MM-DD",
	} {
		if !strings.Contains(req.Prompt, fragment) {
			t.Errorf("prompt missing rule fragment %q", fragment)
		}
	}
}

func TestBuildQuery_Pure(t *testing.T) {
	p := testPortfolio()
	a := BuildQuery("Enero", 2025, p)
	b := BuildQuery("Enero", 2025, p)
	if a.Prompt != b.Prompt {
		t.Error("BuildQuery is not deterministic")
	}
	if len(p.Securities) != 2 {
		t.Error("BuildQuery mutated the portfolio")
	}
}
