package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fruitstand-signage/fruitstand/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the loaded settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file and state paths",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configShowYAML bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowYAML, "yaml", false, "Print as YAML instead of TOML")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if configShowYAML {
		data, err = yaml.Marshal(settings())
	} else {
		data, err = config.Encode(settings())
	}
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	settingsFile := configPath
	if settingsFile == "" {
		settingsFile = config.DefaultConfigPath()
	}
	p := paths()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "settings: %s\n", settingsFile)
	fmt.Fprintf(out, "state:    %s\n", p.StateDir)
	fmt.Fprintf(out, "storage:  %s\n", p.StorageFile)
	fmt.Fprintf(out, "history:  %s\n", p.HistoryDir)
	fmt.Fprintf(out, "preview:  %s\n", p.PreviewFile)
	fmt.Fprintf(out, "log:      %s\n", p.LogFile)
	return nil
}
