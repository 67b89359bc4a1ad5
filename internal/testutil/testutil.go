// Package testutil provides test utilities for command and integration tests
package testutil

import (
	"os"
	"sync"
	"testing"

	"github.com/fruitstand-signage/fruitstand/internal/app"
	"github.com/fruitstand-signage/fruitstand/internal/config"
	"github.com/fruitstand-signage/fruitstand/internal/params"
	"github.com/fruitstand-signage/fruitstand/internal/schedule"
	"github.com/fruitstand-signage/fruitstand/internal/storage"
)

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	TmpDir   string
	Settings *config.Settings
	Paths    *config.Paths
	Storage  *storage.File
	Resolver *params.Static
	Clock    *schedule.Manual
	Frame    *FakeFrame
	App      *app.App
	cleanup  func()
}

// NewTestEnv creates a new test environment rooted in a temporary state
// directory, with a static params resolver and a manual clock
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()

	settings := config.Defaults()
	settings.StateDir = tmpDir

	paths, err := config.NewPaths(tmpDir)
	if err != nil {
		t.Fatalf("Failed to resolve paths: %v", err)
	}
	if err := os.MkdirAll(paths.HistoryDir, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", paths.HistoryDir, err)
	}

	st := storage.NewFile(paths.StorageFile)
	resolver := &params.Static{Fragment: "i_temp=70%3Bf"}
	clock := schedule.NewManual()

	testApp := app.New(
		app.WithSettings(settings),
		app.WithPaths(paths),
		app.WithStorage(st),
		app.WithResolver(resolver),
		app.WithScheduler(clock),
	)

	// Save original default and set test app
	originalDefault := app.Default
	app.SetDefault(testApp)

	env := &TestEnv{
		T:        t,
		TmpDir:   tmpDir,
		Settings: settings,
		Paths:    paths,
		Storage:  st,
		Resolver: resolver,
		Clock:    clock,
		Frame:    &FakeFrame{},
		App:      testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
	t.Cleanup(env.Cleanup)

	return env
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// SetStored writes a raw persisted demo configuration blob
func (e *TestEnv) SetStored(key, blob string) {
	e.T.Helper()

	if err := e.Storage.SetItem(key, blob); err != nil {
		e.T.Fatalf("Failed to write storage: %v", err)
	}
}

// Stored reads a raw persisted value
func (e *TestEnv) Stored(key string) (string, bool) {
	e.T.Helper()

	v, ok, err := e.Storage.GetItem(key)
	if err != nil {
		e.T.Fatalf("Failed to read storage: %v", err)
	}
	return v, ok
}

// FakeFrame is a preview frame that records navigations. Loads are
// reported by calling Load.
type FakeFrame struct {
	mu        sync.Mutex
	urls      []string
	listeners []func(string, error)
}

func (f *FakeFrame) SetSize(width, height int) {}

func (f *FakeFrame) Navigate(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
}

func (f *FakeFrame) OnLoad(fn func(string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Load reports the latest navigation as settled to every listener.
func (f *FakeFrame) Load(err error) {
	f.mu.Lock()
	var url string
	if len(f.urls) > 0 {
		url = f.urls[len(f.urls)-1]
	}
	listeners := append([]func(string, error){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(url, err)
	}
}

// Navigations returns every URL navigated to.
func (f *FakeFrame) Navigations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.urls...)
}
