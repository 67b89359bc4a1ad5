// Package params submits metric inputs to the params endpoint and reads
// back the query fragment the render server expects.
package params

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// Entry is one form field.
type Entry struct {
	Name  string
	Value string
}

// Form is an ordered multipart form. Names may repeat.
type Form struct {
	entries []Entry
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{}
}

// Append adds an entry.
func (f *Form) Append(name, value string) {
	f.entries = append(f.entries, Entry{Name: name, Value: value})
}

// Entries returns the entries in submission order.
func (f *Form) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the number of entries.
func (f *Form) Len() int {
	return len(f.entries)
}

// Encode renders the form as a multipart/form-data body.
func (f *Form) Encode() (body []byte, contentType string, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, e := range f.entries {
		if err := w.WriteField(e.Name, e.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", e.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
