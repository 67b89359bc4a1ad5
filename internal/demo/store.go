package demo

import (
	"bytes"
	"encoding/json"
	"sync"
	"time"

	"github.com/fruitstand-signage/fruitstand/internal/errors"
	"github.com/fruitstand-signage/fruitstand/internal/field"
	"github.com/fruitstand-signage/fruitstand/internal/logging"
	"github.com/fruitstand-signage/fruitstand/internal/record"
	"github.com/fruitstand-signage/fruitstand/internal/schedule"
	"github.com/fruitstand-signage/fruitstand/internal/storage"
)

// StorageKey is the storage entry the configuration record lives under.
const StorageKey = "fs_demo_data"

// DefaultDebounce is the delay between the last field change and the save.
const DefaultDebounce = 100 * time.Millisecond

// Store aggregates field contributions into the configuration record.
type Store struct {
	fields   []*field.Field
	storage  storage.Storage
	sched    schedule.Scheduler
	debounce time.Duration
	onError  func(error)

	mu          sync.Mutex
	defaults    *record.Record
	config      *record.Record
	pending     schedule.Task
	gen         int
	subscribers []func()
	loadWarning error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithScheduler sets the scheduler the save debounce runs on.
func WithScheduler(s schedule.Scheduler) StoreOption {
	return func(st *Store) { st.sched = s }
}

// WithDebounce sets the save debounce delay.
func WithDebounce(d time.Duration) StoreOption {
	return func(st *Store) {
		if d > 0 {
			st.debounce = d
		}
	}
}

// WithErrorHandler sets a hook receiving persistence write errors.
func WithErrorHandler(fn func(error)) StoreOption {
	return func(st *Store) { st.onError = fn }
}

// NewStore derives the default record from fields and subscribes to their
// changes. The record starts as a copy of the defaults; call Load to
// overlay persisted values.
func NewStore(fields []*field.Field, st storage.Storage, opts ...StoreOption) *Store {
	s := &Store{
		fields:   fields,
		storage:  st,
		sched:    schedule.Real{},
		debounce: DefaultDebounce,
		defaults: record.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, f := range fields {
		s.defaults.Merge(f.Contribution())
		f.OnChange(s.fieldChanged)
	}
	s.config = s.defaults.Clone()
	return s
}

// OnUpdate registers a subscriber called after every load, save and reset.
func (s *Store) OnUpdate(cb func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, cb)
	s.mu.Unlock()
}

// Get returns the configuration value under key.
func (s *Store) Get(key string) record.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Value(key)
}

// Lookup returns the configuration value under key and whether it is set.
func (s *Store) Lookup(key string) (record.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Get(key)
}

// Snapshot returns a copy of the configuration record.
func (s *Store) Snapshot() *record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Clone()
}

// Defaults returns a copy of the default record.
func (s *Store) Defaults() *record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaults.Clone()
}

// LoadWarning returns the recovered problem of the last Load, if any.
// A corrupt persisted blob matches errors.ErrCorruptState.
func (s *Store) LoadWarning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadWarning
}

// Load overlays the persisted record, pushes the merged values back into
// the fields and notifies subscribers. Subscribers are notified even when
// nothing was stored or reading failed; a read failure is returned after
// notification.
func (s *Store) Load() error {
	var readErr, warning error

	raw, ok, err := s.storage.GetItem(StorageKey)
	switch {
	case err != nil:
		readErr = errors.StorageError("read", err)
		logging.Error("failed to read persisted config", "error", err)
	case ok && raw != "":
		overrides, err := decodeBlob(raw)
		if err != nil {
			warning = errors.CorruptState(err)
			logging.Warn("ignoring persisted config", "error", warning)
			break
		}
		if overrides != nil {
			s.mu.Lock()
			s.config.Merge(overrides)
			s.mu.Unlock()
			logging.Debug("persisted config loaded", "keys", overrides.Len())
			s.updateFields()
		}
	}

	s.mu.Lock()
	s.loadWarning = warning
	s.mu.Unlock()

	s.notify()
	return readErr
}

// Reset restores the defaults, schedules a save, pushes the values into
// the fields and notifies subscribers.
func (s *Store) Reset() {
	s.mu.Lock()
	s.config = s.defaults.Clone()
	s.mu.Unlock()

	s.scheduleSave()
	s.updateFields()
	logging.Debug("config reset to defaults")
	s.notify()
}

// Flush persists immediately, canceling any pending debounced save.
func (s *Store) Flush() error {
	s.mu.Lock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.gen++
	s.mu.Unlock()

	return s.persist()
}

// SavePending reports whether a debounced save is scheduled.
func (s *Store) SavePending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func (s *Store) fieldChanged(f *field.Field) {
	contribution := f.Contribution()
	if contribution.Len() == 0 {
		return
	}

	s.mu.Lock()
	s.config.Merge(contribution)
	s.mu.Unlock()

	s.scheduleSave()
}

func (s *Store) scheduleSave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
	}
	s.gen++
	gen := s.gen
	s.pending = s.sched.AfterFunc(s.debounce, func() { s.save(gen) })
}

func (s *Store) save(gen int) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	if err := s.persist(); err != nil {
		logging.Error("failed to persist config", "error", err)
		if s.onError != nil {
			s.onError(err)
		}
		return
	}
	s.notify()
}

func (s *Store) persist() error {
	s.mu.Lock()
	data, err := json.Marshal(s.config)
	n := s.config.Len()
	s.mu.Unlock()
	if err != nil {
		return errors.StorageError("encode", err)
	}

	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		return errors.StorageError("write", err)
	}
	logging.Debug("config saved", "keys", n)
	return nil
}

// updateFields pushes the current record into every field it holds a
// value for.
func (s *Store) updateFields() {
	snapshot := s.Snapshot()
	for _, f := range s.fields {
		f.Restore(snapshot)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	subscribers := make([]func(), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, cb := range subscribers {
		cb()
	}
}

// decodeBlob parses a persisted record. JSON null decodes to nil. Entries
// holding arrays or objects are dropped so the rest still apply.
func decodeBlob(raw string) (*record.Record, error) {
	data := bytes.TrimSpace([]byte(raw))
	if bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	r, skipped, err := record.Decode(data)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		logging.Warn("ignoring non-scalar persisted entries", "keys", skipped)
	}
	return r, nil
}
