// Package cmd contains the genai-news CLI commands
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel string
	version  = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "genai-news",
	Short: "Generative AI news aggregator with Japanese translation",
	Long: `genai-news searches recent generative-AI news, extracts short articles,
translates them into Japanese and serves the latest batch over HTTP.

Example usage:
  genai-news serve             # HTTP API with scheduled and sign-in refreshes
  genai-news fetch > out.json  # run the pipeline once and print the batch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel != "" {
			return os.Setenv("LOG_LEVEL", logLevel)
		}
		return nil
	},
}

// ExecuteContext runs the root command with ctx available to subcommands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string reported by the version command
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
}
