// Package testutil provides test fixtures and utilities.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/valid_settings.toml
//	fixtures/invalid_settings.toml
//	fixtures/forecast_rows.json
//	fixtures/demo_config.json
//
// Helper functions load and parse them:
//
//	s, err := testutil.ValidSettings()
//	rows, err := testutil.ForecastRows()
//	blob, err := testutil.DemoConfig()
//
// # Test Environment
//
// NewTestEnv builds an app rooted in t.TempDir() with file storage, a
// static params resolver, a manual clock and a fake preview frame, and
// installs it as app.Default until the test ends:
//
//	env := testutil.NewTestEnv(t)
//	session, err := env.App.NewSession(ctx, env.Frame)
//	env.Clock.Advance(env.Settings.Debounce.Duration)
package testutil
