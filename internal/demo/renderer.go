package demo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fruitstand-signage/fruitstand/internal/errors"
	"github.com/fruitstand-signage/fruitstand/internal/field"
	"github.com/fruitstand-signage/fruitstand/internal/history"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
	"github.com/fruitstand-signage/fruitstand/internal/params"
	"github.com/fruitstand-signage/fruitstand/internal/record"
	"github.com/fruitstand-signage/fruitstand/internal/schedule"
)

// DefaultLoadTimeout is how long a navigation may take before the
// renderer stops waiting for the frame's load report.
const DefaultLoadTimeout = 30 * time.Second

// Frame is the preview surface a render URL is loaded into.
type Frame interface {
	// SetSize resizes the frame. Zero means the frame's own default.
	SetSize(width, height int)

	// Navigate starts loading url and returns without waiting for it.
	Navigate(url string)

	// OnLoad registers fn to be called each time a navigation settles
	// with the URL that was navigated to. err is nil when the page loaded.
	OnLoad(fn func(url string, err error))
}

// Renderer composes render URLs and loads them into a Frame.
type Renderer struct {
	store       *Store
	controls    *Controls
	frame       Frame
	resolver    params.Resolver
	baseURL     string
	sched       schedule.Scheduler
	loadTimeout time.Duration
	recorder    history.Recorder
	ctx         context.Context

	mu        sync.Mutex
	rendering bool
	gen       int
	watchdog  schedule.Task
	started   time.Time
	current   string
	width     string
	height    string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLoadTimeout bounds the wait for a frame load report.
func WithLoadTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		if d > 0 {
			r.loadTimeout = d
		}
	}
}

// WithRendererScheduler sets the scheduler the load watchdog runs on.
func WithRendererScheduler(s schedule.Scheduler) RendererOption {
	return func(r *Renderer) { r.sched = s }
}

// WithRecorder records navigations, loads and timeouts.
func WithRecorder(rec history.Recorder) RendererOption {
	return func(r *Renderer) { r.recorder = rec }
}

// WithContext sets the context automatic renders run under.
func WithContext(ctx context.Context) RendererOption {
	return func(r *Renderer) { r.ctx = ctx }
}

// NewRenderer creates a renderer and subscribes it to store updates and
// frame load reports.
func NewRenderer(store *Store, controls *Controls, frame Frame, resolver params.Resolver, baseURL string, opts ...RendererOption) *Renderer {
	r := &Renderer{
		store:       store,
		controls:    controls,
		frame:       frame,
		resolver:    resolver,
		baseURL:     baseURL,
		sched:       schedule.Real{},
		loadTimeout: DefaultLoadTimeout,
		recorder:    history.Discard{},
		ctx:         context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}

	frame.OnLoad(r.loaded)
	store.OnUpdate(func() {
		if err := r.MaybeAutorender(r.ctx); err != nil {
			logging.Warn("automatic render failed", "error", err)
		}
	})
	return r
}

// Rendering reports whether a render is in flight.
func (r *Renderer) Rendering() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rendering
}

// Size returns the width and height resolved by the last BuildURL.
func (r *Renderer) Size() (width, height string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// BuildURL resolves metric parameters through the params endpoint and
// joins them with the display parameters of the current record.
func (r *Renderer) BuildURL(ctx context.Context) (string, error) {
	metricsQS, err := r.metricsQS(ctx)
	if err != nil {
		return "", err
	}
	paramsQS := r.paramsQS(r.store.Snapshot())

	var parts []string
	for _, p := range []string{paramsQS, metricsQS} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return r.baseURL + strings.Join(parts, "&"), nil
}

func (r *Renderer) metricsQS(ctx context.Context) (string, error) {
	form := params.NewForm()
	for _, m := range r.controls.Metrics {
		if enabled, ok := r.store.Lookup(field.EnabledID(m.Key())); ok && !enabled.Truthy() {
			continue
		}
		m.AppendToForm(form)
	}
	return r.resolver.Resolve(ctx, form)
}

func (r *Renderer) paramsQS(config *record.Record) string {
	style := config.Value(FieldStyleSelect)
	if !style.Truthy() {
		style = config.Value(FieldStyle)
	}

	type param struct {
		name  string
		value record.Value
	}
	parts := []param{
		{"k", config.Value(FieldKey)},
		{"sk", style},
		{"cs", config.Value(FieldColorSpec)},
		{"ds", config.Value(FieldDisplaySpec)},
		{"debug_playlist_id", config.Value(field.PlaylistIDKey)},
		{"debug_playlist_screen_id", config.Value(field.PlaylistScreenIDKey)},
	}

	var width, height string
	if size := config.Value(FieldSize); size.Truthy() {
		width, height, _ = strings.Cut(size.String(), "x")
	} else {
		width = config.Value(FieldWidth).String()
		height = config.Value(FieldHeight).String()
		if !config.Value(FieldWidth).Truthy() {
			width = ""
		}
		if !config.Value(FieldHeight).Truthy() {
			height = ""
		}
	}
	parts = append(parts, param{"w", record.String(width)}, param{"h", record.String(height)})

	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()

	var out []string
	for _, p := range parts {
		if !p.value.Truthy() {
			continue
		}
		out = append(out, p.name+"="+url.QueryEscape(p.value.String()))
	}
	return strings.Join(out, "&")
}

// Render builds the URL and loads it into the frame. A call while a
// render is in flight does nothing. The in-flight state ends when the
// frame reports the load, when the load timeout passes, or immediately
// if the URL cannot be built.
func (r *Renderer) Render(ctx context.Context) error {
	r.mu.Lock()
	if r.rendering {
		r.mu.Unlock()
		logging.Debug("render already in flight")
		return nil
	}
	r.rendering = true
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	display := r.store.Get(FieldKey).String()

	target, err := r.BuildURL(ctx)
	if err != nil {
		r.mu.Lock()
		r.rendering = false
		r.mu.Unlock()
		r.record(history.Event{Type: history.EventError, Display: display, Details: err.Error()})
		return errors.RenderError("failed to build render URL", err)
	}

	r.controls.URL.SetValue(record.String(target))

	width, height := r.Size()
	w, h := atoi(width), atoi(height)
	r.frame.SetSize(w, h)

	r.mu.Lock()
	r.started = time.Now()
	r.current = target
	r.watchdog = r.sched.AfterFunc(r.loadTimeout, func() { r.timedOut(gen, display) })
	r.mu.Unlock()

	logging.Info("rendering", "display", display, "url", target, "width", w, "height", h)
	r.record(history.Event{Type: history.EventNavigate, Display: display, URL: target, Width: w, Height: h})
	r.frame.Navigate(target)
	return nil
}

// MaybeAutorender renders when the autoupdate flag is set.
func (r *Renderer) MaybeAutorender(ctx context.Context) error {
	if !r.store.Get(FieldAutoupdate).Truthy() {
		return nil
	}
	return r.Render(ctx)
}

// loaded settles the in-flight render. Reports for any other URL come
// from navigations the watchdog already gave up on and are ignored.
func (r *Renderer) loaded(url string, err error) {
	r.mu.Lock()
	if !r.rendering || url != r.current {
		r.mu.Unlock()
		logging.Debug("ignoring stale load report", "url", url)
		return
	}
	r.rendering = false
	if r.watchdog != nil {
		r.watchdog.Stop()
		r.watchdog = nil
	}
	elapsed := time.Since(r.started)
	target := r.current
	r.mu.Unlock()

	display := r.store.Get(FieldKey).String()
	if err != nil {
		logging.Warn("preview failed to load", "url", target, "error", err)
		r.record(history.Event{Type: history.EventError, Display: display, URL: target, Duration: elapsed, Details: err.Error()})
		return
	}
	logging.Debug("preview loaded", "url", target, "duration", elapsed)
	r.record(history.Event{Type: history.EventLoaded, Display: display, URL: target, Duration: elapsed})
}

func (r *Renderer) timedOut(gen int, display string) {
	r.mu.Lock()
	if !r.rendering || gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.rendering = false
	r.watchdog = nil
	target := r.current
	r.mu.Unlock()

	logging.Warn("preview load timed out", "url", target, "timeout", r.loadTimeout)
	r.record(history.Event{
		Type:     history.EventTimeout,
		Display:  display,
		URL:      target,
		Duration: r.loadTimeout,
		Details:  fmt.Sprintf("no load report after %s", r.loadTimeout),
	})
}

func (r *Renderer) record(event history.Event) {
	if err := r.recorder.Log(event); err != nil {
		logging.Warn("failed to record render history", "error", err)
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
