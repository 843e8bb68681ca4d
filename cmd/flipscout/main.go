package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/flipscout/internal/common"
	"github.com/ternarybob/flipscout/internal/flippa"
	"github.com/ternarybob/flipscout/internal/interfaces"
)

// cli holds the state shared by every command
type cli struct {
	configFiles []string
	logLevel    string

	config *common.Config
	logger arbor.ILogger
	source interfaces.ListingSource
}

func main() {
	if dir, err := common.LogDir(); err == nil {
		common.InstallCrashHandler(dir)
	}
	defer common.RecoverWithCrashFile()

	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	if err := newRootCmd(&cli{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(app *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "flipscout",
		Short:         "Query and analyze Flippa marketplace listings",
		Long:          `Flipscout searches Flippa listings, values them against their revenue and summarizes the open market. Results are printed as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}

	rootCmd.PersistentFlags().StringSliceVarP(&app.configFiles, "config", "c", nil, "Configuration file path (can be repeated, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level (overrides config)")

	rootCmd.AddCommand(
		newSearchCmd(app),
		newGetCmd(app),
		newAnalyzeCmd(app),
		newCompareCmd(app),
		newMarketCmd(app),
		newWatchCmd(app),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads configuration and the logger. A preset source or config is kept.
func (app *cli) setup() error {
	if app.config == nil {
		config, err := common.LoadFromFiles(common.ResolveConfigPaths(app.configFiles, common.DefaultConfigFile)...)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		app.config = config
	}

	if app.logLevel != "" {
		app.config.Logging.Level = app.logLevel
	}

	if app.logger == nil {
		app.logger = common.InitLogger(app.config)
	}

	app.logger.Debug().
		Strs("config_files", app.configFiles).
		Str("base_url", app.config.API.BaseURL).
		Int("max_requests", app.config.RateLimit.MaxRequests).
		Str("window", app.config.RateLimit.Window).
		Msg("Resolved configuration")

	return nil
}

// listings returns the listing source, building the Flippa client on first use
func (app *cli) listings() interfaces.ListingSource {
	if app.source == nil {
		app.source = flippa.NewClient(app.config.ClientOptions(app.logger)...)
	}
	return app.source
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
