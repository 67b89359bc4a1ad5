// Package record holds the typed values carried by demo fields and the
// insertion-ordered configuration record they flatten into.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a closed union of string, bool and int. The zero Value is the
// empty string.
type Value struct {
	kind Kind
	s    string
	b    bool
	n    int
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bool returns a bool Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an int Value.
func Int(n int) Value { return Value{kind: KindInt, n: n} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// String renders v the way an input element displays it.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.n)
	}
	return v.s
}

// Truthy reports whether v is a non-empty string, true, or a non-zero int.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.n != 0
	}
	return v.s != ""
}

// Equal reports whether v and o hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}

// MarshalJSON encodes v as a JSON string, boolean or number.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.n)
	}
	return json.Marshal(v.s)
}

// UnmarshalJSON decodes a JSON scalar. Integral numbers become ints, other
// numbers keep their literal text, null becomes the empty string. Arrays
// and objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case 'n':
		*v = String("")
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case '[', '{':
		return fmt.Errorf("unsupported value %s", string(data))
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	if n, err := strconv.Atoi(num.String()); err == nil {
		*v = Int(n)
		return nil
	}
	*v = String(num.String())
	return nil
}
