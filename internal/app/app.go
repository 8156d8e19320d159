// Package app wires configuration, clients, and services into the shared core
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/asanchez/divicast/internal/clients/gemini"
	"github.com/asanchez/divicast/internal/common"
	"github.com/asanchez/divicast/internal/interfaces"
	"github.com/asanchez/divicast/internal/models"
	"github.com/asanchez/divicast/internal/services/analysis"
)

// App holds all initialized services, clients, and the MCP server.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Oracle      interfaces.DividendOracle
	Analysis    interfaces.AnalysisService
	MCPServer   *server.MCPServer
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, the oracle client, the analysis service,
// and the MCP server. configPath may be empty, in which case the default
// resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Load configuration - check provided path, DIVICAST_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("DIVICAST_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "divicast.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/divicast.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	// Build and validate the static portfolio
	portfolio := models.Portfolio{Securities: make([]models.Security, 0, len(config.Portfolio))}
	for _, sec := range config.Portfolio {
		portfolio.Securities = append(portfolio.Securities, models.Security{
			Name:   sec.Name,
			Ticker: sec.Ticker,
			Shares: sec.Shares,
		})
	}
	if err := portfolio.Validate(); err != nil {
		return nil, fmt.Errorf("invalid portfolio configuration: %w", err)
	}

	// Resolve the oracle API key
	var oracle interfaces.DividendOracle
	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - dividend analysis will be unavailable")
	}

	if geminiKey != "" {
		client, err := gemini.NewClient(context.Background(), geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithTimeout(config.Clients.Gemini.GetTimeout()),
			gemini.WithRateLimit(config.Clients.Gemini.RateLimit),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			oracle = client
		}
	}

	analysisService := analysis.NewService(oracle, portfolio, config.Session.GetTTL(), logger)

	mcpServer := server.NewMCPServer(
		"divicast",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		Oracle:      oracle,
		Analysis:    analysisService,
		MCPServer:   mcpServer,
		StartupTime: startupStart,
	}

	a.registerTools()

	logger.Info().
		Dur("startup", time.Since(startupStart)).
		Int("securities", len(portfolio.Securities)).
		Msg("App initialized")

	return a, nil
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createGetPortfolioTool(), handleGetPortfolio(a.Analysis))
	s.AddTool(createAnalyzeDividendsTool(), handleAnalyzeDividends(a.Analysis, a.Logger))
	s.AddTool(createGetAnalysisTool(), handleGetAnalysis(a.Analysis))
}
