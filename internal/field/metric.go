package field

import (
	"github.com/fruitstand-signage/fruitstand/internal/dom"
	"github.com/fruitstand-signage/fruitstand/internal/record"
)

// FormWriter receives form entries.
type FormWriter interface {
	Append(name, value string)
}

// Metric is a field for one input of a metric, mirrored into a read-only
// display element.
type Metric struct {
	*Field
	key   string
	input string
}

// MetricID returns the identity of the field for a metric input.
func MetricID(key, input string) string {
	return "metric_" + key + "_" + input
}

// EnabledID returns the identity of a metric's enable checkbox field.
func EnabledID(key string) string {
	return "metric_" + key + "_enabled"
}

// NewMetric creates the field for input of metric key, bound to
// dd_metric_<key>_<input> and mirrored into dd_metric_<key>_<input>_value.
func NewMetric(key, input string, doc dom.Document, dfl record.Value, opts ...Option) *Metric {
	m := &Metric{
		Field: New(MetricID(key, input), doc, dfl, opts...),
		key:   key,
		input: input,
	}
	if doc != nil {
		if out := doc.Text(m.DOMID() + "_value"); out != nil {
			m.addMirror(func(v record.Value) { out.SetText(v.String()) })
		}
	}
	return m
}

// Key returns the metric key.
func (m *Metric) Key() string { return m.key }

// Input returns the metric input name.
func (m *Metric) Input() string { return m.input }

// FormName returns the form entry name "<key>;<input>".
func (m *Metric) FormName() string {
	return m.key + ";" + m.input
}

// AppendToForm adds this input's entry to form. An unchecked checkbox
// adds nothing. A metric without an element submits its field value.
func (m *Metric) AppendToForm(form FormWriter) {
	el := m.Element()
	switch {
	case el == nil:
		form.Append(m.FormName(), m.Value().String())
	case el.IsCheckbox():
		if el.Checked() {
			form.Append(m.FormName(), el.Value())
		}
	default:
		form.Append(m.FormName(), el.Value())
	}
}
