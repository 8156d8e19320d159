package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/asanchez/divicast/internal/common"
	"github.com/asanchez/divicast/internal/interfaces"
)

// mcpSessionID is the shared session used by MCP tool calls.
const mcpSessionID = "mcp"

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Divicast server version and build info"),
	)
}

func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(common.GetFullVersion()), nil
	}
}

func createGetPortfolioTool() mcp.Tool {
	return mcp.NewTool("get_portfolio",
		mcp.WithDescription("Get the configured portfolio of held securities"),
	)
}

func handleGetPortfolio(svc interfaces.AnalysisService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.MarshalIndent(svc.Portfolio(), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func createAnalyzeDividendsTool() mcp.Tool {
	return mcp.NewTool("analyze_dividends",
		mcp.WithDescription("Project the portfolio's expected dividend income for a month, with EUR conversion and Spanish withholding applied"),
		mcp.WithString("month",
			mcp.Required(),
			mcp.Description("Month name (Enero..Diciembre)"),
		),
		mcp.WithNumber("year",
			mcp.Description("Target year, defaults to the current year"),
		),
	)
}

func handleAnalyzeDividends(svc interfaces.AnalysisService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		month, err := req.RequireString("month")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		year := req.GetInt("year", time.Now().Year())

		logger.Info().Str("month", month).Int("year", year).Msg("MCP analyze_dividends")

		snapshot, err := svc.Analyze(ctx, mcpSessionID, month, year)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func createGetAnalysisTool() mcp.Tool {
	return mcp.NewTool("get_analysis",
		mcp.WithDescription("Get the current state of the MCP analysis session"),
	)
}

func handleGetAnalysis(svc interfaces.AnalysisService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.MarshalIndent(svc.Current(mcpSessionID), "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
