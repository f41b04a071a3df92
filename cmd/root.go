package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "portal",
		Short: "ML-model documentation portal with LLM-assisted catalog uploads",
		Long: `Portal is the backend of an ML-model documentation catalog.

It serves filtered, paginated article and notebook listings from the
catalog API and drives an upload workflow that can pre-fill item metadata
by running an LLM analysis over the uploaded document.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "portal.yaml", "Path to the portal config file")

	// Add subcommands
	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newAnalyzeCmd(&configPath))
	cmd.AddCommand(newImportCmd(&configPath))

	return cmd
}
