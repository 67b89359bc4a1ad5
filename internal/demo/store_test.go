package demo

import (
	"encoding/json"
	"errors"
	"testing"

	fserrors "github.com/fruitstand-signage/fruitstand/internal/errors"
	"github.com/fruitstand-signage/fruitstand/internal/record"
)

func TestStore_LoadWithoutStoredStateNotifiesOnce(t *testing.T) {
	f := newFixture(t)

	calls := [3]int{}
	for i := range calls {
		i := i
		f.store.OnUpdate(func() { calls[i]++ })
	}

	if err := f.store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	for i, n := range calls {
		if n != 1 {
			t.Errorf("subscriber %d called %d times, want 1", i, n)
		}
	}
	if f.store.SavePending() {
		t.Error("loading nothing should not schedule a save")
	}
}

func TestStore_LoadMergesPartialOverrides(t *testing.T) {
	f := newFixture(t)
	f.storage.SetItem(StorageKey, `{"width": "640"}`)

	if err := f.store.Load(); err != nil {
		t.Fatal(err)
	}

	if got := f.store.Get("width").String(); got != "640" {
		t.Errorf("width = %q, want 640", got)
	}
	if got := f.store.Get("height").String(); got != "480" {
		t.Errorf("height = %q, want 480", got)
	}
	if got := f.controls.Field(FieldWidth).Value().String(); got != "640" {
		t.Errorf("width field = %q, want 640", got)
	}
	for _, k := range f.store.Defaults().Keys() {
		if _, ok := f.store.Lookup(k); !ok {
			t.Errorf("merged config dropped default key %s", k)
		}
	}
}

func TestStore_LoadRestoresPlaylistSelection(t *testing.T) {
	f := newFixture(t)
	f.storage.SetItem(StorageKey, `{"playlist_id": 4, "playlist_screen_id": 9, "autoupdate": true}`)

	if err := f.store.Load(); err != nil {
		t.Fatal(err)
	}
	if got := f.controls.Field(FieldPlaylistScreen).Value().String(); got != "p-4;s-9" {
		t.Errorf("playlist_screen = %q", got)
	}
	if !f.controls.Field(FieldAutoupdate).Value().Truthy() {
		t.Error("autoupdate should be restored")
	}
}

func TestStore_LoadIgnoresCorruptState(t *testing.T) {
	tests := []struct {
		name    string
		blob    string
		corrupt bool
	}{
		{"not json", "{width", true},
		{"array", `["a"]`, true},
		{"number", `42`, true},
		{"null", `null`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.storage.SetItem(StorageKey, tt.blob)

			notified := 0
			f.store.OnUpdate(func() { notified++ })

			if err := f.store.Load(); err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if notified != 1 {
				t.Errorf("notified %d times, want 1", notified)
			}
			if !f.store.Snapshot().Equal(f.store.Defaults()) {
				t.Error("config should stay at defaults")
			}
			warning := f.store.LoadWarning()
			if tt.corrupt != errors.Is(warning, fserrors.ErrCorruptState) {
				t.Errorf("LoadWarning() = %v, corrupt = %v", warning, tt.corrupt)
			}
		})
	}
}

func TestStore_LoadKeepsScalarsBesideNestedValues(t *testing.T) {
	f := newFixture(t)
	f.storage.SetItem(StorageKey, `{"width":"640","extra":{"a":1},"tags":["x"]}`)

	if err := f.store.Load(); err != nil {
		t.Fatal(err)
	}
	if got := f.store.Get("width").String(); got != "640" {
		t.Errorf("width = %q, want 640", got)
	}
	if f.store.LoadWarning() != nil {
		t.Errorf("LoadWarning() = %v, want nil", f.store.LoadWarning())
	}
	if _, ok := f.store.Lookup("extra"); ok {
		t.Error("nested entry should be dropped")
	}
}

type failingStorage struct{ err error }

func (s failingStorage) GetItem(string) (string, bool, error) { return "", false, s.err }
func (s failingStorage) SetItem(string, string) error         { return s.err }
func (s failingStorage) RemoveItem(string) error              { return s.err }

func TestStore_LoadReadErrorStillNotifies(t *testing.T) {
	f := newFixture(t)
	store := NewStore(f.controls.Fields, failingStorage{err: errors.New("disk gone")}, WithScheduler(f.clock))

	notified := 0
	store.OnUpdate(func() { notified++ })

	err := store.Load()
	if fserrors.GetExitCode(err) != fserrors.ExitStorageError {
		t.Errorf("Load() = %v, want storage error", err)
	}
	if notified != 1 {
		t.Errorf("notified %d times, want 1", notified)
	}
}

func TestStore_DebounceCoalescesChanges(t *testing.T) {
	f := newFixture(t)
	f.store.Load()

	notified := 0
	f.store.OnUpdate(func() { notified++ })

	width := f.controls.Field(FieldWidth)
	width.SetValue(record.String("640"))
	f.clock.Advance(50 * DefaultDebounce / 100)
	width.SetValue(record.String("720"))
	f.clock.Advance(50 * DefaultDebounce / 100)
	width.SetValue(record.String("1024"))

	if f.storage.Sets != 0 {
		t.Fatalf("saved %d times inside the debounce window", f.storage.Sets)
	}

	f.clock.Advance(DefaultDebounce)

	if f.storage.Sets != 1 {
		t.Fatalf("saved %d times, want 1", f.storage.Sets)
	}
	if notified != 1 {
		t.Errorf("notified %d times after save, want 1", notified)
	}

	raw, _, _ := f.storage.GetItem(StorageKey)
	var saved map[string]any
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		t.Fatal(err)
	}
	if saved["width"] != "1024" {
		t.Errorf("saved width = %v, want 1024", saved["width"])
	}
	if saved["height"] != "480" {
		t.Errorf("saved height = %v, want full record", saved["height"])
	}
}

func TestStore_SuppressedFieldsDoNotSave(t *testing.T) {
	f := newFixture(t)
	f.controls.URL.SetValue(record.String("http://example/render?k=x"))
	f.controls.Update.SetValue(record.String("clicked"))

	if f.store.SavePending() {
		t.Error("suppressed fields should not schedule a save")
	}
	if f.store.Snapshot().Has(FieldURL) {
		t.Error("suppressed field leaked into config")
	}
}

func TestStore_Reset(t *testing.T) {
	f := newFixture(t, "internal_temp")
	f.storage.SetItem(StorageKey, `{"width": "640", "key": "lobby", "playlist_id": 3, "playlist_screen_id": 2, "stale": "x"}`)
	f.store.Load()

	f.controls.Field("metric_internal_temp_temp").SetValue(record.String("55"))

	notified := 0
	f.store.OnUpdate(func() { notified++ })

	f.store.Reset()

	if !f.store.Snapshot().Equal(f.store.Defaults()) {
		t.Errorf("config after reset = %v, want defaults %v", f.store.Snapshot().Keys(), f.store.Defaults().Keys())
	}
	if notified != 1 {
		t.Errorf("Reset notified %d times, want 1", notified)
	}
	if got := f.controls.Field(FieldWidth).Value().String(); got != "800" {
		t.Errorf("width field = %q after reset", got)
	}
	if got := f.controls.Field(FieldPlaylistScreen).Value().String(); got != "p-0;s-0" {
		t.Errorf("playlist field = %q after reset", got)
	}
	if !f.store.SavePending() {
		t.Error("Reset should schedule a save")
	}

	f.clock.Advance(DefaultDebounce)
	raw, _, _ := f.storage.GetItem(StorageKey)
	if raw == "" || f.store.SavePending() {
		t.Error("debounced save should have run")
	}
}

func TestStore_WriteErrorSkipsNotify(t *testing.T) {
	f := newFixture(t)

	var hooked error
	store := NewStore(f.controls.Fields, f.storage, WithScheduler(f.clock), WithErrorHandler(func(err error) { hooked = err }))
	f.storage.SetErr = errors.New("quota exceeded")

	notified := 0
	store.OnUpdate(func() { notified++ })

	f.controls.Field(FieldKey).SetValue(record.String("lobby"))
	f.clock.Advance(DefaultDebounce)

	if notified != 0 {
		t.Errorf("notified %d times after failed save", notified)
	}
	if fserrors.GetExitCode(hooked) != fserrors.ExitStorageError {
		t.Errorf("error hook got %v", hooked)
	}
}

func TestStore_Flush(t *testing.T) {
	f := newFixture(t)
	f.controls.Field(FieldSize).SetValue(record.String("640x384"))

	if err := f.store.Flush(); err != nil {
		t.Fatal(err)
	}
	if f.storage.Sets != 1 || f.store.SavePending() {
		t.Fatalf("Flush should save once and cancel the debounce (sets=%d)", f.storage.Sets)
	}

	f.clock.Advance(DefaultDebounce)
	if f.storage.Sets != 1 {
		t.Errorf("canceled debounce still saved (sets=%d)", f.storage.Sets)
	}
}

func TestStore_WithDebounce(t *testing.T) {
	f := newFixture(t)
	store := NewStore(f.controls.Fields, f.storage, WithScheduler(f.clock), WithDebounce(DefaultDebounce*5))

	f.controls.Field(FieldKey).SetValue(record.String("lobby"))
	f.clock.Advance(DefaultDebounce)
	if !store.SavePending() {
		t.Error("save should still be pending before the longer debounce")
	}
	f.clock.Advance(DefaultDebounce * 4)
	if store.SavePending() {
		t.Error("save should have run")
	}
}
