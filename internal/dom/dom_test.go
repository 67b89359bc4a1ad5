package dom

import "testing"

func TestInput_ProgrammaticSetDoesNotFire(t *testing.T) {
	in := NewInput("dd_width", false)
	fired := 0
	in.OnChange(func() { fired++ })

	in.SetValue("640")
	if fired != 0 {
		t.Errorf("SetValue fired %d listeners, want 0", fired)
	}

	in.Change("800")
	if fired != 1 {
		t.Errorf("Change fired %d listeners, want 1", fired)
	}
	if in.Value() != "800" {
		t.Errorf("Value() = %q, want 800", in.Value())
	}
}

func TestInput_Toggle(t *testing.T) {
	in := NewInput("dd_autoupdate", true)
	if in.Value() != "on" {
		t.Errorf("checkbox value = %q, want on", in.Value())
	}

	var seen []bool
	in.OnChange(func() { seen = append(seen, in.Checked()) })
	in.Toggle()
	in.Toggle()

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Errorf("toggle states = %v, want [true false]", seen)
	}
}

func TestPage_Lookup(t *testing.T) {
	p := NewPage()
	p.AddInput("dd_key", false)
	p.AddInput("dd_size", false)
	p.AddText("dd_metric_internal_temp_temp_value")

	if p.Element("dd_key") == nil {
		t.Error("dd_key should be found")
	}
	if el := p.Element("dd_missing"); el != nil {
		t.Errorf("missing element = %v, want nil interface", el)
	}
	if p.Text("dd_metric_internal_temp_temp_value") == nil {
		t.Error("text output should be found")
	}
	if s := p.Text("dd_missing"); s != nil {
		t.Errorf("missing text = %v, want nil interface", s)
	}

	inputs := p.Inputs()
	if len(inputs) != 2 || inputs[0].ID() != "dd_key" || inputs[1].ID() != "dd_size" {
		t.Errorf("Inputs() order wrong: %v", inputs)
	}
}

func TestID(t *testing.T) {
	if got := ID("playlist_screen"); got != "dd_playlist_screen" {
		t.Errorf("ID() = %q", got)
	}
}
