package app

import (
	"context"

	"github.com/fruitstand-signage/fruitstand/internal/config"
	"github.com/fruitstand-signage/fruitstand/internal/demo"
	"github.com/fruitstand-signage/fruitstand/internal/dom"
	"github.com/fruitstand-signage/fruitstand/internal/history"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
	"github.com/fruitstand-signage/fruitstand/internal/metric"
	"github.com/fruitstand-signage/fruitstand/internal/params"
	"github.com/fruitstand-signage/fruitstand/internal/schedule"
	"github.com/fruitstand-signage/fruitstand/internal/storage"
)

// App holds the application dependencies
type App struct {
	// Settings is the loaded configuration
	Settings *config.Settings

	// Paths holds the files derived from the state directory
	Paths *config.Paths

	// Storage persists the demo configuration
	Storage storage.Storage

	// History records render activity per display
	History *history.Logger

	// Resolver turns metric inputs into a query fragment
	Resolver params.Resolver

	// Scheduler runs the save debounce and the load watchdog
	Scheduler schedule.Scheduler
}

// Option is a function that configures the App
type Option func(*App)

// WithSettings sets the configuration
func WithSettings(s *config.Settings) Option {
	return func(a *App) {
		a.Settings = s
	}
}

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithStorage sets a custom storage backend
func WithStorage(st storage.Storage) Option {
	return func(a *App) {
		a.Storage = st
	}
}

// WithResolver sets a custom params resolver
func WithResolver(r params.Resolver) Option {
	return func(a *App) {
		a.Resolver = r
	}
}

// WithScheduler sets a custom scheduler
func WithScheduler(s schedule.Scheduler) Option {
	return func(a *App) {
		a.Scheduler = s
	}
}

// New creates a new App with the given options.
// Anything not provided is derived from the settings: paths from the
// state directory, file storage, the history log and the params client.
func New(opts ...Option) *App {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Settings == nil {
		app.Settings = config.Defaults()
	}
	if app.Paths == nil {
		paths, err := config.NewPaths(app.Settings.StateDir)
		if err != nil {
			logging.Debug("failed to resolve state paths", "error", err)
			paths = config.DefaultPaths()
		}
		app.Paths = paths
	}
	if app.Storage == nil {
		app.Storage = storage.NewFile(app.Paths.StorageFile)
	}
	if app.History == nil {
		app.History = history.NewLogger(app.Paths.HistoryDir)
	}
	if app.Resolver == nil {
		app.Resolver = params.NewClient(app.Settings.ParamsURL)
	}
	if app.Scheduler == nil {
		app.Scheduler = schedule.Real{}
	}

	return app
}

// Session is one demo page: its elements, fields, store and renderer.
type Session struct {
	Page     *dom.Page
	Controls *demo.Controls
	Store    *demo.Store
	Renderer *demo.Renderer
}

// NewSession builds the demo page for the configured metrics, renders
// into frame and loads the persisted configuration. Automatic renders
// run under ctx.
func (a *App) NewSession(ctx context.Context, frame demo.Frame) (*Session, error) {
	defs, err := metric.Select(a.Settings.Metrics)
	if err != nil {
		return nil, err
	}
	inputs := metric.DemoInputs(defs)

	page := demo.Page(inputs)
	controls := demo.NewControls(page, inputs)
	store := demo.NewStore(controls.Fields, a.Storage,
		demo.WithScheduler(a.Scheduler),
		demo.WithDebounce(a.Settings.Debounce.Duration),
		demo.WithErrorHandler(func(err error) {
			logging.Warn("config not saved", "error", err)
		}),
	)
	renderer := demo.NewRenderer(store, controls, frame, a.Resolver, a.Settings.BaseURL,
		demo.WithLoadTimeout(a.Settings.LoadTimeout.Duration),
		demo.WithRendererScheduler(a.Scheduler),
		demo.WithRecorder(a.History),
		demo.WithContext(ctx),
	)

	if err := store.Load(); err != nil {
		return nil, err
	}
	if warning := store.LoadWarning(); warning != nil {
		logging.UserWarning("Saved demo settings were unreadable and have been replaced by defaults")
	}

	return &Session{
		Page:     page,
		Controls: controls,
		Store:    store,
		Renderer: renderer,
	}, nil
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
