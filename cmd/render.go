package cmd

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/fruitstand-signage/fruitstand/internal/screenshot"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Screenshot a render URL with a headless browser",
	Long: `Launches a headless browser, sets the viewport, navigates to the URL,
waits until the network is idle and writes a viewport screenshot.

Only Chrome is supported. The browser binary and extra flags default to the
[browser] settings.`,
	Example: `  fruitstand render -u "http://127.0.0.1:5000/display/render?k=lobby" -W 800 -H 480 -p lobby.png`,
	Args:    cobra.NoArgs,
	RunE:    runRender,
}

var (
	renderURL         string
	renderWidth       int
	renderHeight      int
	renderPath        string
	renderBrowser     string
	renderExecPath    string
	renderBrowserArgs string
	renderTimeout     time.Duration
)

func init() {
	renderCmd.Flags().StringVarP(&renderURL, "url", "u", "", "URL to capture (required)")
	renderCmd.Flags().IntVarP(&renderWidth, "width", "W", 0, "Viewport width (required)")
	renderCmd.Flags().IntVarP(&renderHeight, "height", "H", 0, "Viewport height (required)")
	renderCmd.Flags().StringVarP(&renderPath, "path", "p", "", "Output PNG path (required)")
	renderCmd.Flags().StringVarP(&renderBrowser, "browser", "b", screenshot.BrowserChrome, "Browser to use")
	renderCmd.Flags().StringVar(&renderExecPath, "exec-path", "", "Browser binary (default from settings)")
	renderCmd.Flags().StringVar(&renderBrowserArgs, "browser-args", "", "Extra browser flags, shell quoted (default from settings)")
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", 0, "Capture timeout (default from settings)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	s := settings()

	opts := screenshot.Options{
		URL:      renderURL,
		Width:    renderWidth,
		Height:   renderHeight,
		Path:     renderPath,
		Browser:  renderBrowser,
		ExecPath: renderExecPath,
		Args:     renderBrowserArgs,
		Timeout:  renderTimeout,
	}
	if !cmd.Flags().Changed("exec-path") {
		opts.ExecPath = s.Browser.ExecPath
	}
	if !cmd.Flags().Changed("browser-args") {
		opts.Args = s.Browser.Args
	}
	if !cmd.Flags().Changed("timeout") {
		opts.Timeout = s.Browser.Timeout.Duration
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt)
	defer stop()

	logInfo("Capturing %s at %dx%d...", opts.URL, opts.Width, opts.Height)
	if err := screenshot.Capture(ctx, opts); err != nil {
		return err
	}
	logSuccess("Saved %s", opts.Path)
	return nil
}
