package demo

import (
	"io"
	"sync"
	"testing"

	"github.com/fruitstand-signage/fruitstand/internal/logging"
	"github.com/fruitstand-signage/fruitstand/internal/metric"
	"github.com/fruitstand-signage/fruitstand/internal/schedule"
	"github.com/fruitstand-signage/fruitstand/internal/storage"
)

func init() {
	logging.Setup(false, false, io.Discard)
}

// fakeFrame records navigations. Loads are reported by calling Load.
type fakeFrame struct {
	mu        sync.Mutex
	urls      []string
	sizes     [][2]int
	listeners []func(string, error)
}

func (f *fakeFrame) SetSize(width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sizes = append(f.sizes, [2]int{width, height})
}

func (f *fakeFrame) Navigate(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
}

func (f *fakeFrame) OnLoad(fn func(string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Load settles the latest navigation.
func (f *fakeFrame) Load(err error) {
	f.mu.Lock()
	var url string
	if len(f.urls) > 0 {
		url = f.urls[len(f.urls)-1]
	}
	f.mu.Unlock()
	f.LoadURL(url, err)
}

// LoadURL reports a settled navigation of url.
func (f *fakeFrame) LoadURL(url string, err error) {
	f.mu.Lock()
	listeners := append([]func(string, error){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(url, err)
	}
}

func (f *fakeFrame) Navigations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.urls...)
}

type fixture struct {
	controls *Controls
	store    *Store
	storage  *storage.Memory
	clock    *schedule.Manual
}

func newFixture(t *testing.T, metricKeys ...string) *fixture {
	t.Helper()
	var inputs []metric.DemoInput
	if len(metricKeys) > 0 {
		defs, err := metric.Select(metricKeys)
		if err != nil {
			t.Fatal(err)
		}
		inputs = metric.DemoInputs(defs)
	}

	controls := NewControls(Page(inputs), inputs)
	mem := storage.NewMemory()
	clock := schedule.NewManual()
	store := NewStore(controls.Fields, mem, WithScheduler(clock))
	return &fixture{controls: controls, store: store, storage: mem, clock: clock}
}
