package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/asanchez/divicast/internal/models"
)

const validDoc = `{
	"results": [
		{
			"company": "Coca-Cola",
			"ticker": "NYSE:KO",
			"exDividendDate": "2025-01-10",
			"paymentDate": "2025-01-20",
			"grossDivOriginal": 100,
			"currency": "USD",
			"exchangeRate": 0.92,
			"grossDivEur": 92,
			"totalGrossEur": 92,
			"originTaxRate": 0.15,
			"spanishTaxRate": 0.19,
			"netAmountEur": 63.33
		}
	],
	"summary": {"totalCompanies": 1, "totalGrossEur": 92, "totalNetEur": 63.33}
}`

func TestDecodeAnalysisPayload_Valid(t *testing.T) {
	payload, err := decodeAnalysisPayload([]byte(validDoc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(payload.Results) != 1 {
		t.Fatalf("results length = %d, want 1", len(payload.Results))
	}
	r := payload.Results[0]
	if r.Ticker != "NYSE:KO" || r.PaymentDate != "2025-01-20" || r.Currency != "USD" {
		t.Errorf("record mismatch: %+v", r)
	}
	if r.GrossDivEur != 92 || r.NetAmountEur != 63.33 {
		t.Errorf("amounts mismatch: %+v", r)
	}
	if payload.Summary.TotalCompanies != 1 || payload.Summary.TotalNetEur != 63.33 {
		t.Errorf("summary mismatch: %+v", payload.Summary)
	}
}

func TestDecodeAnalysisPayload_EmptyResults(t *testing.T) {
	doc := `{"results": [], "summary": {"totalCompanies": 0, "totalGrossEur": 0, "totalNetEur": 0}}`
	payload, err := decodeAnalysisPayload([]byte(doc))
	if err != nil {
		t.Fatalf("an empty results array is structurally valid: %v", err)
	}
	if len(payload.Results) != 0 {
		t.Errorf("results length = %d, want 0", len(payload.Results))
	}
}

func TestDecodeAnalysisPayload_ToleratesExtraFields(t *testing.T) {
	doc := `{
		"results": [],
		"summary": {"totalCompanies": 0, "totalGrossEur": 0, "totalNetEur": 0},
		"modelNotes": "ignored"
	}`
	if _, err := decodeAnalysisPayload([]byte(doc)); err != nil {
		t.Errorf("extra top-level fields must be tolerated: %v", err)
	}
}

func TestDecodeAnalysisPayload_SchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"not JSON", `the market was closed today`},
		{"truncated", `{"results": [`},
		{"missing results", `{"summary": {"totalCompanies": 0, "totalGrossEur": 0, "totalNetEur": 0}}`},
		{"missing summary", `{"results": []}`},
		{"null results", `{"results": null, "summary": {"totalCompanies": 0, "totalGrossEur": 0, "totalNetEur": 0}}`},
		{"null summary", `{"results": [], "summary": null}`},
		{"results wrong type", `{"results": "none", "summary": {"totalCompanies": 0, "totalGrossEur": 0, "totalNetEur": 0}}`},
		{"summary wrong type", `{"results": [], "summary": [1, 2, 3]}`},
		{"record wrong type", `{"results": [{"ticker": 42}], "summary": {"totalCompanies": 0, "totalGrossEur": 0, "totalNetEur": 0}}`},
		{"top level array", `[]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeAnalysisPayload([]byte(tc.doc))
			if err == nil {
				t.Fatal("expected schema failure")
			}
			var f *models.AnalysisFailure
			if !errors.As(err, &f) {
				t.Fatalf("error is not an AnalysisFailure: %v", err)
			}
			if f.Kind != models.FailureSchema {
				t.Errorf("failure kind = %s, want %s", f.Kind, models.FailureSchema)
			}
		})
	}
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{Text: `{"results":`}, {Text: ` []}`}},
			},
		}},
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if text != `{"results": []}` {
		t.Errorf("text = %q, multi-part responses must concatenate", text)
	}
}

func TestExtractTextFromResponse_Empty(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"no candidates": {},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
		"no parts":      {Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
	} {
		if _, err := extractTextFromResponse(resp); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestResponseSchemaContract(t *testing.T) {
	if responseSchema.Type != genai.TypeObject {
		t.Fatal("top-level schema must be an object")
	}
	for _, field := range []string{"results", "summary"} {
		if _, ok := responseSchema.Properties[field]; !ok {
			t.Errorf("schema missing top-level %q", field)
		}
	}

	record := responseSchema.Properties["results"].Items
	for _, field := range []string{
		"company", "ticker", "exDividendDate", "paymentDate",
		"grossDivOriginal", "currency", "exchangeRate", "grossDivEur",
		"originTaxRate", "spanishTaxRate", "netAmountEur",
	} {
		if _, ok := record.Properties[field]; !ok {
			t.Errorf("record schema missing %q", field)
		}
	}
	if len(record.Required) != len(record.Properties) {
		t.Error("every record field must be required")
	}
}

func TestClientOptions(t *testing.T) {
	c, err := NewClient(context.Background(), "test-key",
		WithModel("gemini-custom"),
		WithTimeout(5*time.Second),
		WithRateLimit(1),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.model != "gemini-custom" {
		t.Errorf("model = %q, want gemini-custom", c.model)
	}
	if c.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", c.timeout)
	}
}

func TestClientOptions_IgnoreZeroValues(t *testing.T) {
	c, err := NewClient(context.Background(), "test-key",
		WithModel(""),
		WithTimeout(0),
		WithRateLimit(0),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.model != DefaultModel {
		t.Errorf("model = %q, want default %q", c.model, DefaultModel)
	}
	if c.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want default %v", c.timeout, DefaultTimeout)
	}
}
