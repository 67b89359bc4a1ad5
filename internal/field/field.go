// Package field binds typed values to demo page input elements.
//
// A Field keeps its value and its element in sync in both directions and
// tells observers about every change. Variant behaviour (how a value is
// absorbed, what the field contributes to the configuration record) is
// supplied by a Codec.
package field

import (
	"sync"

	"github.com/fruitstand-signage/fruitstand/internal/dom"
	"github.com/fruitstand-signage/fruitstand/internal/record"
)

// Codec supplies the variant-specific parts of a Field.
type Codec interface {
	// Absorb takes a newly assigned value and returns the value the field
	// reports from then on.
	Absorb(v record.Value) record.Value

	// Contribute adds variant entries to a contribution. They are written
	// before the field's own config key entry.
	Contribute(out *record.Record)

	// Restore derives a field value from a merged configuration record.
	Restore(config *record.Record, configKey string) (record.Value, bool)
}

// Plain is the Codec of an ordinary string or bool field.
type Plain struct{}

func (Plain) Absorb(v record.Value) record.Value { return v }

func (Plain) Contribute(*record.Record) {}

func (Plain) Restore(config *record.Record, configKey string) (record.Value, bool) {
	if configKey == "" {
		return record.Value{}, false
	}
	return config.Get(configKey)
}

// Field is one named input.
type Field struct {
	id        string
	configKey string
	codec     Codec
	el        dom.Element

	mu        sync.Mutex
	value     record.Value
	observers []func(*Field)
	mirrors   []func(record.Value)
}

// Option configures a Field.
type Option func(*Field)

// WithConfigKey stores the field under key instead of its identity.
func WithConfigKey(key string) Option {
	return func(f *Field) { f.configKey = key }
}

// Suppressed keeps the field out of the configuration record.
func Suppressed() Option {
	return func(f *Field) { f.configKey = "" }
}

// WithCodec sets the variant codec.
func WithCodec(c Codec) Option {
	return func(f *Field) { f.codec = c }
}

// New creates a field bound to the element dd_<id> in doc, if any, and
// initializes it to dfl. doc may be nil.
func New(id string, doc dom.Document, dfl record.Value, opts ...Option) *Field {
	f := &Field{
		id:        id,
		configKey: id,
		codec:     Plain{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if doc != nil {
		f.el = doc.Element(dom.ID(id))
	}

	f.SetValue(dfl)

	if f.el != nil {
		f.el.OnChange(f.elementChanged)
	}
	return f
}

// ID returns the field identity.
func (f *Field) ID() string { return f.id }

// DOMID returns the id of the element the field binds to.
func (f *Field) DOMID() string { return dom.ID(f.id) }

// ConfigKey returns the configuration key, or "" when suppressed.
func (f *Field) ConfigKey() string { return f.configKey }

// Element returns the bound element, or nil.
func (f *Field) Element() dom.Element { return f.el }

// Value returns the current value.
func (f *Field) Value() record.Value {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// SetValue assigns v, writes it to the element, refreshes mirrors and
// invokes every observer in registration order.
func (f *Field) SetValue(v record.Value) {
	f.mu.Lock()
	f.value = f.codec.Absorb(v)
	current := f.value
	observers := make([]func(*Field), len(f.observers))
	copy(observers, f.observers)
	mirrors := make([]func(record.Value), len(f.mirrors))
	copy(mirrors, f.mirrors)
	f.mu.Unlock()

	f.writeElement(current)
	for _, m := range mirrors {
		m(current)
	}
	for _, cb := range observers {
		cb(f)
	}
}

// OnChange registers an observer. Observers cannot be removed.
func (f *Field) OnChange(cb func(*Field)) {
	f.mu.Lock()
	f.observers = append(f.observers, cb)
	f.mu.Unlock()
}

// Contribution returns the entries the field adds to the configuration
// record.
func (f *Field) Contribution() *record.Record {
	out := record.New()
	f.codec.Contribute(out)
	if f.configKey != "" {
		out.Set(f.configKey, f.Value())
	}
	return out
}

// Restore pushes the value held for this field in config back into it.
// It reports whether config held anything for the field.
func (f *Field) Restore(config *record.Record) bool {
	v, ok := f.codec.Restore(config, f.configKey)
	if !ok {
		return false
	}
	f.SetValue(v)
	return true
}

func (f *Field) addMirror(m func(record.Value)) {
	f.mu.Lock()
	f.mirrors = append(f.mirrors, m)
	current := f.value
	f.mu.Unlock()
	m(current)
}

func (f *Field) writeElement(v record.Value) {
	if f.el == nil {
		return
	}
	if f.el.IsCheckbox() {
		f.el.SetChecked(v.Truthy())
		return
	}
	f.el.SetValue(v.String())
}

func (f *Field) elementChanged() {
	if f.el.IsCheckbox() {
		f.SetValue(record.Bool(f.el.Checked()))
		return
	}
	f.SetValue(record.String(f.el.Value()))
}
