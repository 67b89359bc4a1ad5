package metric

import (
	"testing"

	"github.com/fruitstand-signage/fruitstand/internal/errors"
)

func TestCatalog_Order(t *testing.T) {
	want := []string{
		"internal_temp", "internal_humidity", "internal_pressure",
		"external_temp", "external_humidity", "external_pressure",
	}
	got := Catalog()
	if len(got) != len(want) {
		t.Fatalf("catalog has %d metrics, want %d", len(got), len(want))
	}
	for i, d := range got {
		if d.Key != want[i] {
			t.Errorf("catalog[%d] = %s, want %s", i, d.Key, want[i])
		}
	}
}

func TestSelect(t *testing.T) {
	defs, err := Select([]string{"external_temp", "internal_temp"})
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 || defs[0].Key != "internal_temp" || defs[1].Key != "external_temp" {
		t.Errorf("Select() = %v, want catalog order", defs)
	}

	_, err = Select([]string{"wind"})
	if errors.GetExitCode(err) != errors.ExitGeneralError {
		t.Errorf("unknown metric exit code = %d", errors.GetExitCode(err))
	}
}

func TestDemoInputs(t *testing.T) {
	d, _ := Lookup("internal_temp")
	inputs := DemoInputs([]Definition{d})

	if len(inputs) != 2 {
		t.Fatalf("inputs = %v", inputs)
	}
	if inputs[0].InputName != "temp" || inputs[0].Default != "80" {
		t.Errorf("inputs[0] = %+v", inputs[0])
	}
	if inputs[1].InputName != "units" || inputs[1].Default != "f" {
		t.Errorf("inputs[1] = %+v", inputs[1])
	}
}

func TestFormatValue(t *testing.T) {
	temp, _ := Lookup("internal_temp")
	hum, _ := Lookup("external_humidity")
	pres, _ := Lookup("internal_pressure")

	tests := []struct {
		name    string
		def     Definition
		values  map[string]string
		want    string
		wantErr bool
	}{
		{"temperature", temp, map[string]string{"temp": "80", "units": "f"}, "80;f", false},
		{"temperature upper units", temp, map[string]string{"temp": "21.5", "units": "C"}, "21.5;c", false},
		{"bad units", temp, map[string]string{"temp": "80", "units": "x"}, "", true},
		{"bad number", temp, map[string]string{"temp": "warm", "units": "f"}, "", true},
		{"missing input", temp, map[string]string{"temp": "80"}, "", true},
		{"humidity", hum, map[string]string{"humidity": "35"}, "0.35", false},
		{"humidity full", hum, map[string]string{"humidity": "100"}, "1.0", false},
		{"humidity zero", hum, map[string]string{"humidity": "0"}, "0.0", false},
		{"pressure", pres, map[string]string{"pressure": "29.61", "units": "inhg"}, "29.61;inhg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.def.FormatValue(tt.values)
			if tt.wantErr {
				if err == nil {
					t.Errorf("FormatValue() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatValue() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
