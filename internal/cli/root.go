package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "photosieve",
	Short: "Batch-by-batch triage for a large photo library",
	Long:  "Photosieve serves small batches of photos to keep or discard, tracking what you've already seen so nothing resurfaces too soon.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if present (ignore errors)
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(cooldownsCmd)
}
