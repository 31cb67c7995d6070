package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"factsift/internal/app"
	"factsift/internal/config"
	"factsift/internal/logging"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "factsift",
	Short: "Search, fact-check and classify news articles",
	Long: `factsift searches the web for articles on a topic, scrapes and
summarizes them, verifies their claims against the Google Fact Check
API and classifies each piece with Gemini.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	// Load .env early so API keys are visible to config.Load.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the YAML config file")
}

func buildApp() (*app.Application, error) {
	cfg := config.Load(cfgPath)
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}
