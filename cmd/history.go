package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fruitstand-signage/fruitstand/internal/app"
	"github.com/fruitstand-signage/fruitstand/internal/history"
	"github.com/fruitstand-signage/fruitstand/internal/tui"
)

var historyCmd = &cobra.Command{
	Use:   "history [display]",
	Short: "Display the render history of a display",
	Long: `Shows every navigation, load, timeout and error recorded for a display key.

Without a display key, lists the displays that have history. With --pick,
choose one interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyJSON  bool
	historyLimit int
	historyPick  bool
	historyClear bool
)

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output events as JSON lines")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the last n events (0 = all)")
	historyCmd.Flags().BoolVar(&historyPick, "pick", false, "Choose the display interactively")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the display's history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := app.Default.History
	out := cmd.OutOrStdout()

	var display string
	switch {
	case len(args) == 1:
		display = args[0]
	case historyPick:
		chosen, err := tui.RunPicker(logger)
		if err != nil {
			return fmt.Errorf("picker error: %w", err)
		}
		if chosen == "" {
			return nil
		}
		display = chosen
	default:
		list, err := tui.SimpleList(logger)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		fmt.Fprint(out, list)
		return nil
	}

	if historyClear {
		if err := logger.Remove(display); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		logSuccess("Cleared render history for %s", display)
		return nil
	}

	events, err := logger.Tail(display, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read render history: %w", err)
	}

	if len(events) == 0 {
		logInfo("No renders recorded for display %s", display)
		return nil
	}

	for _, e := range events {
		if historyJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}
		fmt.Fprintln(out, formatEvent(e))
	}

	return nil
}

func formatEvent(e history.Event) string {
	ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %-8s %s", ts, e.Type, e.Display)
	if e.Width > 0 && e.Height > 0 {
		line += fmt.Sprintf(" %dx%d", e.Width, e.Height)
	}
	if e.Duration > 0 {
		line += fmt.Sprintf(" in %s", e.Duration.Round(1e6))
	}
	if e.URL != "" {
		line += " " + e.URL
	}
	if e.Details != "" {
		line += fmt.Sprintf(" (%s)", e.Details)
	}
	return line
}
