package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/flipscout/internal/common"
	"github.com/ternarybob/flipscout/internal/flippa"
	"github.com/ternarybob/flipscout/internal/services/comparables"
	"github.com/ternarybob/flipscout/internal/services/market"
)

func main() {
	if dir, err := common.LogDir(); err == nil {
		common.InstallCrashHandler(dir)
	}
	defer common.RecoverWithCrashFile()

	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	configPath := os.Getenv("FLIPSCOUT_CONFIG")
	config, err := common.LoadFromFiles(common.ResolveConfigPaths([]string{configPath}, common.DefaultConfigFile)...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so log to file only and keep it quiet
	config.Logging.Output = []string{"file"}
	if config.Logging.Level == "debug" || config.Logging.Level == "info" {
		config.Logging.Level = "warn"
	}
	logger := common.InitLogger(config)

	mcpServer := newServer(flippa.NewClient(config.ClientOptions(logger)...), logger)

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}

// newServer registers every Flippa tool on a new MCP server
func newServer(client *flippa.Client, logger arbor.ILogger) *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"flippa-mcp-server",
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	comparablesService := comparables.NewService(client, logger)
	marketService := market.NewService(client, logger)

	mcpServer.AddTool(createSearchListingsTool(), handleSearchListings(client, logger))
	mcpServer.AddTool(createGetListingTool(), handleGetListing(client, logger))
	mcpServer.AddTool(createAnalyzeListingTool(), handleAnalyzeListing(client, logger))
	mcpServer.AddTool(createComparableSalesTool(), handleComparableSales(comparablesService, logger))
	mcpServer.AddTool(createMarketOverviewTool(), handleMarketOverview(marketService, logger))

	return mcpServer
}
