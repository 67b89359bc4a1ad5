package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fruitstand-signage/fruitstand/internal/chart"
	"github.com/fruitstand-signage/fruitstand/internal/errors"
	"github.com/fruitstand-signage/fruitstand/internal/screenshot"
	"github.com/fruitstand-signage/fruitstand/internal/system"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render a forecast chart to PNG",
	Long: `Reads forecast rows and draws temperature on the left axis with
precipitation and humidity on a 0-100% right axis.

Input is a JSON array of {"label", "temp", "precip", "humid"} objects, with
precip and humid as fractions. Use "-" to read from stdin.`,
	Example: `  fruitstand chart -i forecast.json -o forecast.png -W 800 -H 240`,
	Args:    cobra.NoArgs,
	RunE:    runChart,
}

var (
	chartInput  string
	chartOutput string
	chartWidth  int
	chartHeight int
)

func init() {
	chartCmd.Flags().StringVarP(&chartInput, "input", "i", "-", "Forecast rows JSON file")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "Output PNG path (required)")
	chartCmd.Flags().IntVarP(&chartWidth, "width", "W", chart.DefaultWidth, "Image width")
	chartCmd.Flags().IntVarP(&chartHeight, "height", "H", chart.DefaultHeight, "Image height")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	if chartOutput == "" {
		return errors.ValidationError("output path is required")
	}

	var in io.Reader = cmd.InOrStdin()
	if chartInput != "-" {
		f, err := os.Open(chartInput)
		if err != nil {
			return errors.ChartError("failed to open forecast rows", err)
		}
		defer f.Close()
		in = f
	}

	rows, err := chart.ReadRows(in)
	if err != nil {
		return err
	}
	data, err := chart.Render(rows, chart.Options{Width: chartWidth, Height: chartHeight})
	if err != nil {
		return err
	}
	if err := screenshot.WriteImage(system.DefaultFS(), chartOutput, data); err != nil {
		return errors.ChartError("failed to write chart", err)
	}

	logSuccess("Wrote %d-hour chart to %s", len(rows), chartOutput)
	return nil
}
