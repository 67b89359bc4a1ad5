package record

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a mapping from configuration key to Value that remembers the
// order keys were first inserted in. Overwriting a key keeps its position.
// The zero Record is empty and ready to use.
type Record struct {
	m *orderedmap.OrderedMap[string, Value]
}

// New returns an empty Record.
func New() *Record {
	return &Record{m: orderedmap.New[string, Value]()}
}

// Of builds a Record from alternating key, value pairs.
func Of(pairs ...any) *Record {
	if len(pairs)%2 != 0 {
		panic("record.Of: odd number of arguments")
	}
	r := New()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("record.Of: key %v is not a string", pairs[i]))
		}
		val, ok := pairs[i+1].(Value)
		if !ok {
			panic(fmt.Sprintf("record.Of: value for %q is not a record.Value", key))
		}
		r.Set(key, val)
	}
	return r
}

// Set stores v under key.
func (r *Record) Set(key string, v Value) {
	if r.m == nil {
		r.m = orderedmap.New[string, Value]()
	}
	r.m.Set(key, v)
}

// Get returns the value under key and whether it was present.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil || r.m == nil {
		return Value{}, false
	}
	return r.m.Get(key)
}

// Value returns the value under key, or the empty string Value.
func (r *Record) Value(key string) Value {
	v, _ := r.Get(key)
	return v
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil || r.m == nil {
		return 0
	}
	return r.m.Len()
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r.Len() == 0 {
		return nil
	}
	out := make([]string, 0, r.m.Len())
	for p := r.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Merge copies every entry of other into r, in other's order. Later
// entries overwrite earlier ones with the same key.
func (r *Record) Merge(other *Record) {
	if other.Len() == 0 {
		return
	}
	for p := other.m.Oldest(); p != nil; p = p.Next() {
		r.Set(p.Key, p.Value)
	}
}

// Clone returns an independent copy of r.
func (r *Record) Clone() *Record {
	out := New()
	out.Merge(r)
	return out
}

// Equal reports whether r and other hold the same keys and values,
// ignoring order.
func (r *Record) Equal(other *Record) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}
	for p := r.m.Oldest(); p != nil; p = p.Next() {
		ov, ok := other.Get(p.Key)
		if !ok || !ov.Equal(p.Value) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes r as a JSON object with keys in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.Len() == 0 {
		return []byte("{}"), nil
	}
	return r.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object into r, keeping the document's key
// order. Existing entries are replaced. Entries whose value is not a
// scalar are dropped; use Decode to learn which.
func (r *Record) UnmarshalJSON(data []byte) error {
	out, _, err := Decode(data)
	if err != nil {
		return err
	}
	*r = *out
	return nil
}

// Decode parses a JSON object into a Record in document order. Keys whose
// value is an array or object are left out and returned in skipped. An
// input that is not a JSON object is an error.
func Decode(data []byte) (r *Record, skipped []string, err error) {
	if !json.Valid(data) {
		return nil, nil, fmt.Errorf("invalid JSON")
	}
	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(data); err != nil {
		return nil, nil, fmt.Errorf("expected JSON object: %w", err)
	}

	r = New()
	for p := raw.Oldest(); p != nil; p = p.Next() {
		var v Value
		if err := v.UnmarshalJSON(p.Value); err != nil {
			skipped = append(skipped, p.Key)
			continue
		}
		r.Set(p.Key, v)
	}
	return r, skipped, nil
}
