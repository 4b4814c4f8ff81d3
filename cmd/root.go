package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/readquiz/internal/api"
)

var rootCmd = &cobra.Command{
	Use:   "readquiz",
	Short: "Generate reading passages and quiz yourself on them",
	Long:  "readquiz generates a reading passage at a chosen level, asks an LLM for comprehension questions about it, and scores your answers.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; the environment may already be set.
		_ = godotenv.Load()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides READQUIZ_API_BASE_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveAPIConfig returns the client config using --api (highest priority),
// then the environment, then the default.
func resolveAPIConfig(cmd *cobra.Command) api.Config {
	cfg := api.ConfigFromEnv()
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.BaseURL = strings.TrimRight(u, "/")
	}
	return cfg
}
