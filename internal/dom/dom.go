// Package dom models the input elements a demo page is made of: text and
// checkbox inputs addressed by DOM id, and read-only text outputs.
package dom

import "sync"

// IDPrefix is prepended to a field identity to form its element id.
const IDPrefix = "dd_"

// ID returns the element id for a field identity.
func ID(identity string) string {
	return IDPrefix + identity
}

// Element is an input element.
type Element interface {
	ID() string
	IsCheckbox() bool
	Value() string
	SetValue(v string)
	Checked() bool
	SetChecked(checked bool)

	// OnChange registers a listener fired when the user edits the element.
	// Programmatic SetValue/SetChecked calls do not fire it.
	OnChange(fn func())
}

// TextSink is a read-only output element.
type TextSink interface {
	SetText(text string)
}

// Document looks up elements by id. Both methods return nil when the id
// is not present.
type Document interface {
	Element(id string) Element
	Text(id string) TextSink
}

// Input is an in-memory Element.
type Input struct {
	id       string
	checkbox bool

	mu        sync.Mutex
	value     string
	checked   bool
	listeners []func()
}

// NewInput returns a text input. A checkbox input carries value "on"
// like an unvalued HTML checkbox.
func NewInput(id string, checkbox bool) *Input {
	in := &Input{id: id, checkbox: checkbox}
	if checkbox {
		in.value = "on"
	}
	return in
}

func (in *Input) ID() string       { return in.id }
func (in *Input) IsCheckbox() bool { return in.checkbox }

func (in *Input) Value() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.value
}

func (in *Input) SetValue(v string) {
	in.mu.Lock()
	in.value = v
	in.mu.Unlock()
}

func (in *Input) Checked() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.checked
}

func (in *Input) SetChecked(checked bool) {
	in.mu.Lock()
	in.checked = checked
	in.mu.Unlock()
}

func (in *Input) OnChange(fn func()) {
	in.mu.Lock()
	in.listeners = append(in.listeners, fn)
	in.mu.Unlock()
}

// Change simulates a user edit: the value is replaced and change
// listeners fire.
func (in *Input) Change(v string) {
	in.SetValue(v)
	in.fire()
}

// Toggle simulates a user click on a checkbox.
func (in *Input) Toggle() {
	in.mu.Lock()
	in.checked = !in.checked
	in.mu.Unlock()
	in.fire()
}

func (in *Input) fire() {
	in.mu.Lock()
	listeners := make([]func(), len(in.listeners))
	copy(listeners, in.listeners)
	in.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Text is an in-memory TextSink.
type Text struct {
	id   string
	mu   sync.Mutex
	text string
}

func NewText(id string) *Text {
	return &Text{id: id}
}

func (t *Text) ID() string { return t.id }

func (t *Text) SetText(text string) {
	t.mu.Lock()
	t.text = text
	t.mu.Unlock()
}

func (t *Text) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// Page is an in-memory Document. Inputs keep the order they were added.
type Page struct {
	mu     sync.RWMutex
	inputs map[string]*Input
	order  []string
	texts  map[string]*Text
}

// NewPage returns an empty page.
func NewPage() *Page {
	return &Page{
		inputs: make(map[string]*Input),
		texts:  make(map[string]*Text),
	}
}

// AddInput adds an input element, replacing any element with the same id.
func (p *Page) AddInput(id string, checkbox bool) *Input {
	p.mu.Lock()
	defer p.mu.Unlock()
	in := NewInput(id, checkbox)
	if _, ok := p.inputs[id]; !ok {
		p.order = append(p.order, id)
	}
	p.inputs[id] = in
	return in
}

// AddText adds a text output element.
func (p *Page) AddText(id string) *Text {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := NewText(id)
	p.texts[id] = t
	return t
}

// Input returns the in-memory input with id, or nil.
func (p *Page) Input(id string) *Input {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inputs[id]
}

// Output returns the in-memory text element with id, or nil.
func (p *Page) Output(id string) *Text {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.texts[id]
}

// Inputs returns every input in insertion order.
func (p *Page) Inputs() []*Input {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Input, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.inputs[id])
	}
	return out
}

func (p *Page) Element(id string) Element {
	if in := p.Input(id); in != nil {
		return in
	}
	return nil
}

func (p *Page) Text(id string) TextSink {
	if t := p.Output(id); t != nil {
		return t
	}
	return nil
}
