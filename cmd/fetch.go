package cmd

import (
	"github.com/spf13/cobra"

	"genai-news/bootstrap"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run the pipeline once and print the batch as JSON",
	Long: `Run the aggregation pipeline once, store the result like a scheduled
refresh would, and print the batch to stdout. A failed pipeline prints the
fallback batch; only storage errors make the command fail.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap.FetchOnce(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
