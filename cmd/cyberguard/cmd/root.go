// Package cmd contains the CLI commands for cyberguard.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/cyberguard/internal/analysis"
	"github.com/good-yellow-bee/cyberguard/internal/logging"
)

var (
	// Used for flags
	configFile string
	verbose    bool
	output     string
	offline    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cyberguard",
	Short: "CyberGuard - Security operations dashboard simulator",
	Long: `CyberGuard simulates a security operations dashboard: a rolling
alert list, a live threat feed, a notification center and a set of
interactive security tools backed by an external analysis model.

Examples:
  # Run the dashboard API with the built-in catalog
  cyberguard serve

  # Run with a config file and a hot-reloaded catalog
  cyberguard serve -c cyberguard.yaml --catalog threats.yaml --watch

  # Analyze a URL from the command line
  CYBERGUARD_API_KEY=... cyberguard analyze url https://example.com

  # Score a password without echoing it
  cyberguard analyze password`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "use the built-in heuristic analyzer even when an API key is set")
}

// loadConfig reads the config file when given, else the defaults.
func loadConfig() (*Config, error) {
	var cfg *Config
	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}
	cfg.Logging.Verbose = verbose
	return cfg, nil
}

func newLogger(cfg *Config) (*zap.Logger, error) {
	return logging.New(logging.Options{Verbose: cfg.Logging.Verbose, Format: cfg.Logging.Format})
}

// newAnalyzer returns the Gemini backed analyzer when an API key is
// configured, else the offline heuristic.
func newAnalyzer(cfg *Config, log *zap.Logger) (analysis.Analyzer, error) {
	if offline || cfg.Analysis.APIKey == "" {
		log.Info("using heuristic analyzer", zap.Bool("offline", offline))
		return analysis.Heuristic{}, nil
	}

	client, err := analysis.NewGeminiClient(cfg.geminiConfig(), log.Named("gemini"))
	if err != nil {
		return nil, fmt.Errorf("create analysis client: %w", err)
	}
	log.Info("using gemini analyzer", zap.String("model", client.Model()))
	return analysis.NewService(client, analysis.ServiceOptions{CacheTTL: cfg.Analysis.CacheTTL.Duration}, log.Named("analysis")), nil
}

// PrintError prints an error message to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
}
