// Package screenshot drives a headless Chrome to capture a viewport
// screenshot of a render URL once its network has settled.
package screenshot

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/kballard/go-shellquote"

	"github.com/fruitstand-signage/fruitstand/internal/errors"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
	"github.com/fruitstand-signage/fruitstand/internal/system"
)

// BrowserChrome is the only supported browser.
const BrowserChrome = "chrome"

// DefaultTimeout bounds a whole capture.
const DefaultTimeout = 60 * time.Second

// idleEvent is the lifecycle event fired when at most two network
// connections have been open for 500ms.
const idleEvent = "networkAlmostIdle"

// Options describes one capture.
type Options struct {
	URL     string
	Width   int
	Height  int
	Path    string
	Browser string

	// ExecPath overrides the browser binary.
	ExecPath string

	// Args holds extra browser flags in shell syntax, e.g. `--lang=de --hide-scrollbars`.
	Args string

	Timeout time.Duration
}

// Validate checks the options before a browser is launched.
func (o *Options) Validate() error {
	if o.URL == "" {
		return errors.ValidationError("url is required")
	}
	u, err := url.Parse(o.URL)
	if err != nil || u.Scheme == "" {
		return errors.ValidationError(fmt.Sprintf("invalid url %q", o.URL))
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.ValidationError(fmt.Sprintf("invalid viewport %dx%d", o.Width, o.Height))
	}
	if o.Path == "" {
		return errors.ValidationError("output path is required")
	}
	if b := strings.ToLower(o.Browser); b != "" && b != BrowserChrome {
		return errors.ValidationError(fmt.Sprintf("unsupported browser %q (only %s is supported)", o.Browser, BrowserChrome))
	}
	if _, err := ParseArgs(o.Args); err != nil {
		return err
	}
	return nil
}

// Flag is one browser command line switch.
type Flag struct {
	Name  string
	Value interface{}
}

// ParseArgs splits shell-quoted browser switches. "--name=value" becomes
// a string flag and a bare "--name" a boolean one.
func ParseArgs(raw string) ([]Flag, error) {
	words, err := shellquote.Split(raw)
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("invalid browser args: %v", err))
	}

	var flags []Flag
	for _, w := range words {
		if !strings.HasPrefix(w, "-") {
			return nil, errors.ValidationError(fmt.Sprintf("invalid browser arg %q: expected --name[=value]", w))
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(w, "-"), "=")
		if name == "" {
			return nil, errors.ValidationError(fmt.Sprintf("invalid browser arg %q", w))
		}
		if hasValue {
			flags = append(flags, Flag{Name: name, Value: value})
		} else {
			flags = append(flags, Flag{Name: name, Value: true})
		}
	}
	return flags, nil
}

// AllocatorOptions returns the launch options for a headless Chrome with
// sandboxing and GPU disabled, plus execPath and extra flags.
func AllocatorOptions(execPath string, flags []Flag) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("hide-scrollbars", true),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	for _, f := range flags {
		opts = append(opts, chromedp.Flag(f.Name, f.Value))
	}
	return opts
}

// Tasks loads target in a width x height mobile viewport at scale 1,
// waits for the network to go almost idle and captures the viewport
// into buf.
func Tasks(target string, width, height int, buf *[]byte) chromedp.Tasks {
	w := &idleWatcher{idled: make(map[cdp.LoaderID]bool), signal: make(chan struct{}, 1)}
	return chromedp.Tasks{
		chromedp.EmulateViewport(int64(width), int64(height), chromedp.EmulateScale(1), chromedp.EmulateMobile),
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(ctx context.Context) error {
			chromedp.ListenTarget(ctx, w.observe)

			_, loaderID, errorText, err := page.Navigate(target).Do(ctx)
			if err != nil {
				return err
			}
			if errorText != "" {
				return fmt.Errorf("navigation failed: %s", errorText)
			}
			return w.wait(ctx, loaderID)
		}),
		chromedp.CaptureScreenshot(buf),
	}
}

// idleWatcher remembers which document loads reached network idle.
type idleWatcher struct {
	mu     sync.Mutex
	idled  map[cdp.LoaderID]bool
	signal chan struct{}
}

func (w *idleWatcher) observe(ev interface{}) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok || e.Name != idleEvent {
		return
	}
	w.mu.Lock()
	w.idled[e.LoaderID] = true
	w.mu.Unlock()
	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *idleWatcher) wait(ctx context.Context, loaderID cdp.LoaderID) error {
	for {
		w.mu.Lock()
		done := w.idled[loaderID]
		w.mu.Unlock()
		if done {
			return nil
		}
		select {
		case <-w.signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Capture launches a browser, screenshots o.URL and writes the PNG to o.Path.
func Capture(ctx context.Context, o Options) error {
	return CaptureWithFS(ctx, o, system.DefaultFS())
}

// CaptureWithFS is Capture writing through fsys.
func CaptureWithFS(ctx context.Context, o Options, fsys system.FileSystem) error {
	if err := o.Validate(); err != nil {
		return err
	}
	flags, _ := ParseArgs(o.Args)

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, AllocatorOptions(o.ExecPath, flags)...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(Logf))
	defer cancelTab()

	start := time.Now()
	logging.Debug("capturing screenshot", "url", o.URL, "width", o.Width, "height", o.Height)

	var buf []byte
	if err := chromedp.Run(tabCtx, Tasks(o.URL, o.Width, o.Height, &buf)); err != nil {
		return errors.CaptureFailed("capture", err)
	}

	if err := WriteImage(fsys, o.Path, buf); err != nil {
		return errors.CaptureFailed("write", err)
	}
	logging.Info("screenshot saved", "path", o.Path, "bytes", len(buf), "duration", time.Since(start))
	return nil
}

// WriteImage writes data to path through a temporary file so readers
// never see a partial image.
func WriteImage(fsys system.FileSystem, path string, data []byte) error {
	tmp := path + ".tmp"
	if err := fsys.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Logf routes chromedp logging to the debug log.
func Logf(format string, args ...interface{}) {
	logging.Debug(fmt.Sprintf(format, args...), "component", "chromedp")
}
