package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fruitstand-signage/fruitstand/internal/app"
	"github.com/fruitstand-signage/fruitstand/internal/config"
	"github.com/fruitstand-signage/fruitstand/internal/errors"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
)

var (
	configPath string
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "fruitstand",
	Short: "Display demo, render and chart tooling",
	Long: `fruitstand drives display render previews.

It provides:
  - An interactive demo panel whose settings persist between sessions
  - Headless browser screenshots of a render URL
  - A params endpoint turning metric inputs into a query fragment
  - Forecast chart rendering to PNG
  - A per-display history of renders`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, jsonOutput, os.Stderr)

		settings, err := config.Load(configPath)
		if err != nil {
			return errors.ConfigError("failed to load settings", err)
		}
		app.SetDefault(app.New(app.WithSettings(settings)))
		logging.Debug("settings loaded", "state_dir", settings.StateDir, "base_url", settings.BaseURL)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Settings file (default "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
