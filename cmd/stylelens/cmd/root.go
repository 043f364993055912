package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/nfrund/stylelens/internal/analysis"
	"github.com/nfrund/stylelens/internal/logging"
	"github.com/spf13/cobra"
)

var (
	backendURL string
	timeout    time.Duration
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "stylelens",
	Short: "Style Analyzer command-line client",
	Long: `stylelens talks to the style analysis backend directly, using the same
client and profile validation as the web front-end.

Available commands:
  report           Generate a colour analysis PDF for a photo and profile
  color            Print the dominant colour of a photo
  chat             Ask the fashion assistant a question
  topics           List the events published on the internal bus
  list-services    Discover the services shared through the registry

Use "stylelens [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logging.NewWithWriter(os.Stderr, "text", logLevel))
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("ANALYSIS_BASE_URL")
	if defaultURL == "" {
		defaultURL = "http://127.0.0.1:5000"
	}
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", defaultURL, "base URL of the analysis backend (env ANALYSIS_BASE_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "deadline for each backend call, 0 for none")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

func newClient() *analysis.Client {
	return analysis.New(backendURL, timeout)
}
