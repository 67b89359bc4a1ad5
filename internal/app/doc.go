// Package app provides the application context for fruitstand.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Settings  *config.Settings   // Loaded configuration
//	    Paths     *config.Paths      // State files
//	    Storage   storage.Storage    // Persisted demo configuration
//	    History   *history.Logger    // Render history
//	    Resolver  params.Resolver    // Metric params endpoint
//	    Scheduler schedule.Scheduler // Debounce and watchdog timers
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a := app.New(app.WithSettings(settings))
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithPaths(testPaths),
//	    app.WithStorage(storage.NewMemory()),
//	    app.WithResolver(&params.Static{Fragment: "i_temp=70%3Bf"}),
//	    app.WithScheduler(schedule.NewManual()),
//	)
//
// # Sessions
//
// NewSession wires one demo page: elements, fields, the configuration
// store and the renderer, then loads the persisted configuration:
//
//	session, err := a.NewSession(ctx, frame)
//	err = session.Renderer.Render(ctx)
package app
