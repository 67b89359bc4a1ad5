package demo

import (
	"github.com/fruitstand-signage/fruitstand/internal/dom"
	"github.com/fruitstand-signage/fruitstand/internal/field"
	"github.com/fruitstand-signage/fruitstand/internal/metric"
	"github.com/fruitstand-signage/fruitstand/internal/record"
)

// Field identities of the standard controls.
const (
	FieldURL            = "iframe_url"
	FieldKey            = "key"
	FieldPlaylistScreen = "playlist_screen"
	FieldSize           = "size"
	FieldWidth          = "width"
	FieldHeight         = "height"
	FieldColorSpec      = "color_spec"
	FieldDisplaySpec    = "display_spec"
	FieldStyleSelect    = "sk_sel"
	FieldStyle          = "sk"
	FieldUpdate         = "update"
	FieldReset          = "reset"
	FieldAutoupdate     = "autoupdate"
)

// Controls is the full field set of a demo page, in flattening order.
type Controls struct {
	Fields  []*field.Field
	Metrics []*field.Metric

	URL    *field.Field
	Update *field.Field
	Reset  *field.Field

	byID map[string]*field.Field
}

// NewControls creates the standard fields bound to doc, followed by one
// field per metric input and one enable checkbox per distinct metric.
// doc may be nil for a headless control set.
func NewControls(doc dom.Document, inputs []metric.DemoInput) *Controls {
	c := &Controls{byID: make(map[string]*field.Field)}

	c.URL = c.add(field.New(FieldURL, doc, record.String(""), field.Suppressed()))
	c.add(field.New(FieldKey, doc, record.String("demo-display")))
	c.add(field.NewPlaylistScreen(FieldPlaylistScreen, doc, "pl-0;s-0", field.Suppressed()))
	c.add(field.New(FieldSize, doc, record.String("")))
	c.add(field.New(FieldWidth, doc, record.String("800")))
	c.add(field.New(FieldHeight, doc, record.String("480")))
	c.add(field.New(FieldColorSpec, doc, record.String("1b")))
	c.add(field.New(FieldDisplaySpec, doc, record.String("static")))
	c.add(field.New(FieldStyleSelect, doc, record.String("")))
	c.add(field.New(FieldStyle, doc, record.String("")))
	c.Update = c.add(field.New(FieldUpdate, doc, record.String(""), field.Suppressed()))
	c.Reset = c.add(field.New(FieldReset, doc, record.String(""), field.Suppressed()))
	c.add(field.New(FieldAutoupdate, doc, record.Bool(false)))

	seen := make(map[string]bool)
	for _, in := range inputs {
		m := field.NewMetric(in.Key, in.InputName, doc, record.String(in.Default))
		c.Metrics = append(c.Metrics, m)
		c.add(m.Field)
		if !seen[in.Key] {
			seen[in.Key] = true
			c.add(field.New(field.EnabledID(in.Key), doc, record.Bool(true)))
		}
	}
	return c
}

func (c *Controls) add(f *field.Field) *field.Field {
	c.Fields = append(c.Fields, f)
	c.byID[f.ID()] = f
	return f
}

// Field returns the field with identity id, or nil.
func (c *Controls) Field(id string) *field.Field {
	return c.byID[id]
}

// Page builds an in-memory page holding an element for every control
// NewControls creates, plus the metric display outputs.
func Page(inputs []metric.DemoInput) *dom.Page {
	p := dom.NewPage()
	for _, id := range []string{
		FieldURL, FieldKey, FieldPlaylistScreen, FieldSize, FieldWidth, FieldHeight,
		FieldColorSpec, FieldDisplaySpec, FieldStyleSelect, FieldStyle,
	} {
		p.AddInput(dom.ID(id), false)
	}
	p.AddInput(dom.ID(FieldAutoupdate), true)

	seen := make(map[string]bool)
	for _, in := range inputs {
		id := dom.ID(field.MetricID(in.Key, in.InputName))
		p.AddInput(id, false)
		p.AddText(id + "_value")
		if !seen[in.Key] {
			seen[in.Key] = true
			p.AddInput(dom.ID(field.EnabledID(in.Key)), true)
		}
	}
	return p
}
