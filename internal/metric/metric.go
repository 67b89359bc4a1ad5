// Package metric is the catalog of sensor metrics a display can be fed:
// their demo inputs and how the inputs are folded into a render URL
// parameter.
package metric

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fruitstand-signage/fruitstand/internal/errors"
)

// Input types.
const (
	InputNumber = "number"
	InputRange  = "range"
	InputSelect = "select"
)

// Choice is one option of a select input.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Input describes one demo input of a metric.
type Input struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Default string   `json:"default"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Step    *float64 `json:"step,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
}

// Definition is a metric known to the render server.
type Definition struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Param       string  `json:"param"`
	Order       int     `json:"order"`
	Format      string  `json:"format"`
	Inputs      []Input `json:"inputs"`

	format func(values map[string]string) (string, error)
}

// DemoInput is one flattened (metric, input) pair with its default.
type DemoInput struct {
	Key       string `json:"key"`
	InputName string `json:"input_name"`
	Default   string `json:"default"`
	Label     string `json:"label"`
	Type      string `json:"type"`
}

func ptr(f float64) *float64 { return &f }

func temperature(key, name, param string, order int) Definition {
	return Definition{
		Key:         key,
		Name:        name,
		Description: strings.Replace(name, "Temp", "Temperature", 1),
		Param:       param,
		Order:       order,
		Format:      `"<temp>;<units>", units is f/c/k or imperial/metric/standard`,
		Inputs: []Input{
			{Name: "temp", Label: "Temperature", Type: InputNumber, Default: "80"},
			{Name: "units", Label: "Units", Type: InputSelect, Default: "f", Choices: []Choice{
				{"f", "Fahrenheit"}, {"c", "Celsius"}, {"k", "Kelvin"},
			}},
		},
		format: numberWithUnits("temp", "units"),
	}
}

func humidity(key, name, param string, order int) Definition {
	return Definition{
		Key:         key,
		Name:        name,
		Description: name,
		Param:       param,
		Order:       order,
		Format:      "Humidity from 0.0-1.0 (percent)",
		Inputs: []Input{
			{Name: "humidity", Label: "Humidity", Type: InputRange, Default: "35",
				Min: ptr(0), Max: ptr(100), Step: ptr(1)},
		},
		format: func(values map[string]string) (string, error) {
			h, err := parseNumber("humidity", values["humidity"])
			if err != nil {
				return "", err
			}
			return formatFloat(h / 100.0), nil
		},
	}
}

func pressure(key, name, param string, order int) Definition {
	return Definition{
		Key:         key,
		Name:        name,
		Description: name,
		Param:       param,
		Order:       order,
		Format:      `"<pressure>;<units>", units is inhg/mmhg/hpa or imperial/metric/standard`,
		Inputs: []Input{
			{Name: "pressure", Label: "Pressure", Type: InputNumber, Default: "29.61"},
			{Name: "units", Label: "Units", Type: InputSelect, Default: "inhg", Choices: []Choice{
				{"inhg", "inHg"}, {"mmhg", "mmHg"}, {"hpa", "hPa"},
			}},
		},
		format: numberWithUnits("pressure", "units"),
	}
}

var catalog = []Definition{
	temperature("internal_temp", "Internal Temp", "i_temp", 10),
	humidity("internal_humidity", "Internal Humidity", "i_hum", 11),
	pressure("internal_pressure", "Internal Pressure", "i_pres", 12),
	temperature("external_temp", "External Temp", "e_temp", 20),
	humidity("external_humidity", "External Humidity", "e_hum", 21),
	pressure("external_pressure", "External Pressure", "e_pres", 22),
}

func init() {
	sort.SliceStable(catalog, func(i, j int) bool { return catalog[i].Order < catalog[j].Order })
}

// Catalog returns every metric ordered by display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a metric by key.
func Lookup(key string) (Definition, bool) {
	for _, d := range catalog {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}

// Select returns the definitions for keys, in catalog order. An empty key
// list selects the whole catalog.
func Select(keys []string) ([]Definition, error) {
	if len(keys) == 0 {
		return Catalog(), nil
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := Lookup(k); !ok {
			return nil, errors.ValidationError(fmt.Sprintf("unknown metric %q", k))
		}
		want[k] = true
	}
	var out []Definition
	for _, d := range catalog {
		if want[d.Key] {
			out = append(out, d)
		}
	}
	return out, nil
}

// DemoInputs flattens defs into their (metric, input) pairs.
func DemoInputs(defs []Definition) []DemoInput {
	var out []DemoInput
	for _, d := range defs {
		for _, in := range d.Inputs {
			out = append(out, DemoInput{
				Key:       d.Key,
				InputName: in.Name,
				Default:   in.Default,
				Label:     in.Label,
				Type:      in.Type,
			})
		}
	}
	return out
}

// Input returns the named input of d.
func (d Definition) Input(name string) (Input, bool) {
	for _, in := range d.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// FormatValue folds submitted input values into the URL parameter value.
// Every input must be present and select inputs must hold one of their
// choices.
func (d Definition) FormatValue(values map[string]string) (string, error) {
	for _, in := range d.Inputs {
		v, ok := values[in.Name]
		if !ok {
			return "", fmt.Errorf("%s: missing input %q", d.Key, in.Name)
		}
		if in.Type == InputSelect && !in.allows(v) {
			return "", fmt.Errorf("%s: %q is not a valid %s", d.Key, v, in.Name)
		}
	}
	out, err := d.format(values)
	if err != nil {
		return "", fmt.Errorf("%s: %w", d.Key, err)
	}
	return out, nil
}

func (in Input) allows(v string) bool {
	for _, c := range in.Choices {
		if strings.EqualFold(c.Value, v) {
			return true
		}
	}
	return false
}

func numberWithUnits(number, units string) func(map[string]string) (string, error) {
	return func(values map[string]string) (string, error) {
		raw := strings.TrimSpace(values[number])
		if _, err := parseNumber(number, raw); err != nil {
			return "", err
		}
		return raw + ";" + strings.ToLower(values[units]), nil
	}
}

func parseNumber(name, raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, raw)
	}
	return f, nil
}

// formatFloat always keeps a fractional part, so 1 renders as "1.0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
