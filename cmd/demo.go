package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/fruitstand-signage/fruitstand/internal/app"
	"github.com/fruitstand-signage/fruitstand/internal/config"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
	"github.com/fruitstand-signage/fruitstand/internal/preview"
	"github.com/fruitstand-signage/fruitstand/internal/system"
	"github.com/fruitstand-signage/fruitstand/internal/tui"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Interactive display demo panel",
	Long: `Opens an interactive panel with every demo setting of a display.

Edits are saved to the state directory and restored next time. Each render
resolves the metric inputs through the params endpoint, builds the render
URL and captures it with a headless browser into the preview image.

Keys:
  ↑/↓ j/k  - Move between settings
  Enter    - Edit a setting, or toggle a checkbox
  r        - Render
  x        - Reset every setting to its default
  q/Esc    - Quit`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

var demoRender bool

func init() {
	demoCmd.Flags().BoolVar(&demoRender, "render", false, "Render once when the panel opens")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	p := paths()
	s := settings()

	// The panel owns the terminal, so logs go to a file.
	logFile, err := openDemoLog(system.DefaultFS(), p)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logging.Redirect(logFile, jsonOutput)
	defer logging.Redirect(os.Stderr, jsonOutput)

	browser, err := preview.NewBrowser(s.Browser.ExecPath, s.Browser.Args)
	if err != nil {
		return err
	}
	defer browser.Close()
	frame := preview.New(p.PreviewFile, browser, preview.WithTimeout(s.Browser.Timeout.Duration))

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt)
	defer stop()

	session, err := app.Default.NewSession(ctx, frame)
	if err != nil {
		return err
	}
	logging.Info("demo session started", "preview", p.PreviewFile, "storage", p.StorageFile)

	if demoRender {
		if err := session.Renderer.Render(ctx); err != nil {
			logWarning("Initial render failed: %v", err)
		}
	}

	err = tui.RunPanel(session.Page, session.Renderer, session.Store, tui.PanelOptions{
		Title:       "fruitstand demo - " + s.BaseURL,
		PreviewPath: p.PreviewFile,
		Context:     ctx,
	})
	frame.Wait()
	if err != nil {
		return err
	}

	logSuccess("Demo settings saved to %s", p.StorageFile)
	return nil
}

// contextOrBackground returns cmd's context, which is nil when a command
// runs without ExecuteContext.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openDemoLog creates the state directory and opens the session log in it.
func openDemoLog(fsys system.FileSystem, p *config.Paths) (io.WriteCloser, error) {
	if err := fsys.MkdirAll(p.StateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	logFile, err := fsys.OpenAppend(p.LogFile, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logFile, nil
}
