package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/asanchez/divicast/internal/common"
	"github.com/asanchez/divicast/internal/models"
	"github.com/asanchez/divicast/internal/services/analysis"
)

type scriptedOracle struct {
	payload *models.AnalysisPayload
	err     error
}

func (o *scriptedOracle) Analyze(context.Context, *models.AnalysisRequest) (*models.AnalysisPayload, error) {
	return o.payload, o.err
}

func toolService(oracle *scriptedOracle) *analysis.Service {
	portfolio := models.Portfolio{Securities: []models.Security{
		{Name: "Coca-Cola", Ticker: "NYSE:KO", Shares: 120},
	}}
	return analysis.NewService(oracle, portfolio, 30*time.Minute, common.NewSilentLogger())
}

func emptyPayload() *models.AnalysisPayload {
	return &models.AnalysisPayload{Results: []models.DividendRecord{}}
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestAnalyzeDividendsTool(t *testing.T) {
	svc := toolService(&scriptedOracle{payload: emptyPayload()})
	handler := handleAnalyzeDividends(svc, common.NewSilentLogger())

	result, err := handler(context.Background(), toolRequest(map[string]any{
		"month": "Enero",
		"year":  2025,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool returned error: %s", textOf(t, result))
	}

	text := textOf(t, result)
	if !strings.Contains(text, `"state": "ready"`) {
		t.Errorf("result should carry the ready snapshot: %s", text)
	}
	if !strings.Contains(text, `"month": "Enero"`) {
		t.Errorf("result should carry the canonical month: %s", text)
	}
}

func TestAnalyzeDividendsTool_MissingMonth(t *testing.T) {
	svc := toolService(&scriptedOracle{payload: emptyPayload()})
	handler := handleAnalyzeDividends(svc, common.NewSilentLogger())

	result, err := handler(context.Background(), toolRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("missing month must produce a tool error")
	}
}

func TestAnalyzeDividendsTool_UnknownMonth(t *testing.T) {
	svc := toolService(&scriptedOracle{payload: emptyPayload()})
	handler := handleAnalyzeDividends(svc, common.NewSilentLogger())

	result, err := handler(context.Background(), toolRequest(map[string]any{
		"month": "January",
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("unknown month must produce a tool error")
	}
}

func TestAnalyzeDividendsTool_FailurePublishesGenericMessage(t *testing.T) {
	svc := toolService(&scriptedOracle{err: models.NewTransportFailure("oracle down", nil)})
	handler := handleAnalyzeDividends(svc, common.NewSilentLogger())

	result, err := handler(context.Background(), toolRequest(map[string]any{
		"month": "Enero",
		"year":  2025,
	}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	text := textOf(t, result)
	if !strings.Contains(text, models.UserFacingError) {
		t.Errorf("snapshot should carry the generic error: %s", text)
	}
	if strings.Contains(text, "oracle down") {
		t.Errorf("snapshot leaks internal diagnostics: %s", text)
	}
}

func TestGetAnalysisTool(t *testing.T) {
	svc := toolService(&scriptedOracle{payload: emptyPayload()})

	result, err := handleGetAnalysis(svc)(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(textOf(t, result), `"state": "empty"`) {
		t.Errorf("fresh session should be empty: %s", textOf(t, result))
	}

	// analyze, then the session is visible through get_analysis
	if _, err := handleAnalyzeDividends(svc, common.NewSilentLogger())(context.Background(), toolRequest(map[string]any{
		"month": "Enero",
		"year":  2025,
	})); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	result, err = handleGetAnalysis(svc)(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(textOf(t, result), `"state": "ready"`) {
		t.Errorf("session should be ready after analyze: %s", textOf(t, result))
	}
}

func TestGetPortfolioTool(t *testing.T) {
	svc := toolService(&scriptedOracle{payload: emptyPayload()})

	result, err := handleGetPortfolio(svc)(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(textOf(t, result), "NYSE:KO") {
		t.Errorf("portfolio missing holding: %s", textOf(t, result))
	}
}

func TestGetVersionTool(t *testing.T) {
	result, err := handleGetVersion()(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if textOf(t, result) == "" {
		t.Error("version must not be empty")
	}
}

func TestToolDefinitions(t *testing.T) {
	tools := []mcp.Tool{
		createGetVersionTool(),
		createGetPortfolioTool(),
		createAnalyzeDividendsTool(),
		createGetAnalysisTool(),
	}

	names := map[string]bool{}
	for _, tool := range tools {
		if tool.Name == "" || tool.Description == "" {
			t.Errorf("tool %q missing name or description", tool.Name)
		}
		names[tool.Name] = true
	}
	for _, want := range []string{"get_version", "get_portfolio", "analyze_dividends", "get_analysis"} {
		if !names[want] {
			t.Errorf("tool %q not defined", want)
		}
	}

	analyze := tools[2]
	if len(analyze.InputSchema.Required) != 1 || analyze.InputSchema.Required[0] != "month" {
		t.Errorf("analyze_dividends required = %v, want [month]", analyze.InputSchema.Required)
	}
}
