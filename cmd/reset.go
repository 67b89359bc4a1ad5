package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fruitstand-signage/fruitstand/internal/app"
	"github.com/fruitstand-signage/fruitstand/internal/demo"
	"github.com/fruitstand-signage/fruitstand/internal/errors"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved demo settings",
	Long: `Removes the demo settings saved in the state directory, so the next
demo session starts from the defaults. With --history, render history of
every display is deleted too.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetHistory bool

func init() {
	resetCmd.Flags().BoolVar(&resetHistory, "history", false, "Also delete render history")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	a := app.Default

	logging.Debug("removing saved demo settings", "key", demo.StorageKey)
	if err := a.Storage.RemoveItem(demo.StorageKey); err != nil {
		return errors.StorageError("remove", err)
	}
	logSuccess("Demo settings reset to defaults")

	if !resetHistory {
		return nil
	}

	displays, err := a.History.Displays()
	if err != nil {
		return fmt.Errorf("failed to list render history: %w", err)
	}
	for _, d := range displays {
		if err := a.History.Remove(d); err != nil {
			logWarning("Failed to delete history for %s: %v", d, err)
			continue
		}
		logging.Debug("render history removed", "display", d)
	}
	logSuccess("Removed render history of %d display(s)", len(displays))
	return nil
}
