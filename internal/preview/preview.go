// Package preview implements the demo preview frame as a headless browser
// tab. Each navigation is rendered to a PNG file; the frame reports a
// load once the file has been written.
package preview

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/fruitstand-signage/fruitstand/internal/errors"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
	"github.com/fruitstand-signage/fruitstand/internal/screenshot"
	"github.com/fruitstand-signage/fruitstand/internal/system"
)

// Default viewport used when the renderer resolves no size.
const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

// Shooter captures a URL at a viewport size.
type Shooter interface {
	Shoot(ctx context.Context, url string, width, height int) ([]byte, error)
}

// Frame is a preview frame that writes each navigated page to Path.
type Frame struct {
	path    string
	shooter Shooter
	fs      system.FileSystem
	timeout time.Duration

	mu        sync.Mutex
	width     int
	height    int
	listeners []func(string, error)
	wg        sync.WaitGroup
	run       sync.Mutex
}

// Option configures a Frame.
type Option func(*Frame)

// WithFS sets the file system the preview image is written through.
func WithFS(fsys system.FileSystem) Option {
	return func(f *Frame) { f.fs = fsys }
}

// WithTimeout bounds each capture.
func WithTimeout(d time.Duration) Option {
	return func(f *Frame) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// New returns a frame writing captures to path.
func New(path string, shooter Shooter, opts ...Option) *Frame {
	f := &Frame{
		path:    path,
		shooter: shooter,
		fs:      system.DefaultFS(),
		timeout: screenshot.DefaultTimeout,
		width:   DefaultWidth,
		height:  DefaultHeight,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the preview image path.
func (f *Frame) Path() string { return f.path }

func (f *Frame) SetSize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	f.width, f.height = width, height
}

// Size returns the current viewport.
func (f *Frame) Size() (width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *Frame) OnLoad(fn func(url string, err error)) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// Navigate captures url in the background. Captures run one at a time.
func (f *Frame) Navigate(url string) {
	width, height := f.Size()
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.run.Lock()
		defer f.run.Unlock()
		f.settle(url, f.capture(url, width, height))
	}()
}

// Wait blocks until every started capture has settled.
func (f *Frame) Wait() {
	f.wg.Wait()
}

func (f *Frame) capture(url string, width, height int) error {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	data, err := f.shooter.Shoot(ctx, url, width, height)
	if err != nil {
		return errors.CaptureFailed("capture", err)
	}
	if err := screenshot.WriteImage(f.fs, f.path, data); err != nil {
		return errors.CaptureFailed("write", err)
	}
	logging.Debug("preview written", "path", f.path, "bytes", len(data))
	return nil
}

func (f *Frame) settle(url string, err error) {
	f.mu.Lock()
	listeners := make([]func(string, error), len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(url, err)
	}
}

// Browser is a Shooter backed by one long-lived headless Chrome tab.
type Browser struct {
	execPath string
	flags    []screenshot.Flag

	mu          sync.Mutex
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewBrowser returns a Browser. Chrome starts on the first Shoot.
func NewBrowser(execPath, args string) (*Browser, error) {
	flags, err := screenshot.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	return &Browser{execPath: execPath, flags: flags}, nil
}

// Shoot navigates the tab to url and captures the viewport.
func (b *Browser) Shoot(ctx context.Context, url string, width, height int) ([]byte, error) {
	tabCtx, err := b.tab()
	if err != nil {
		return nil, err
	}

	// Run on the tab context, canceling the actions (not the tab) with ctx.
	runCtx, cancel := context.WithCancel(tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	if err := chromedp.Run(runCtx, screenshot.Tasks(url, width, height, &buf)); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return buf, nil
}

func (b *Browser) tab() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tabCtx != nil && b.tabCtx.Err() == nil {
		return b.tabCtx, nil
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), screenshot.AllocatorOptions(b.execPath, b.flags)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(screenshot.Logf))
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, errors.CaptureFailed("browser start", err)
	}

	b.tabCtx, b.cancelTab, b.cancelAlloc = tabCtx, cancelTab, cancelAlloc
	logging.Debug("preview browser started")
	return tabCtx, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancelTab != nil {
		b.cancelTab()
		b.cancelAlloc()
		b.tabCtx, b.cancelTab, b.cancelAlloc = nil, nil, nil
	}
}
