package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults_Valid(t *testing.T) {
	s := Defaults()
	if err := s.Validate(); err != nil {
		t.Fatalf("Defaults() should validate: %v", err)
	}
	if s.Debounce.Duration != 100*time.Millisecond {
		t.Errorf("Debounce = %v, want 100ms", s.Debounce.Duration)
	}
	if s.LoadTimeout.Duration != 30*time.Second {
		t.Errorf("LoadTimeout = %v, want 30s", s.LoadTimeout.Duration)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"missing base url", func(s *Settings) { s.BaseURL = "" }, "base_url is required"},
		{"non-http base url", func(s *Settings) { s.BaseURL = "ftp://x/" }, "base_url must be an http"},
		{"missing params url", func(s *Settings) { s.ParamsURL = "" }, "params_url is required"},
		{"missing state dir", func(s *Settings) { s.StateDir = "" }, "state_dir is required"},
		{"zero debounce", func(s *Settings) { s.Debounce.Duration = 0 }, "debounce must be positive"},
		{"negative load timeout", func(s *Settings) { s.LoadTimeout.Duration = -time.Second }, "load_timeout must be positive"},
		{"zero browser timeout", func(s *Settings) { s.Browser.Timeout.Duration = 0 }, "browser.timeout must be positive"},
		{"missing listen", func(s *Settings) { s.Server.Listen = "" }, "server.listen is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
base_url = "https://signs.example.com/render?"
debounce = "250ms"
metrics = ["internal_temp"]

[browser]
args = "--hide-scrollbars --force-device-scale-factor=1"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.BaseURL != "https://signs.example.com/render?" {
		t.Errorf("BaseURL = %q", s.BaseURL)
	}
	if s.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", s.Debounce.Duration)
	}
	if len(s.Metrics) != 1 || s.Metrics[0] != "internal_temp" {
		t.Errorf("Metrics = %v", s.Metrics)
	}
	if s.Browser.Args != "--hide-scrollbars --force-device-scale-factor=1" {
		t.Errorf("Browser.Args = %q", s.Browser.Args)
	}
	// Untouched keys keep defaults
	if s.ParamsURL != DefaultParamsURL {
		t.Errorf("ParamsURL = %q, want default", s.ParamsURL)
	}
	if s.Browser.Timeout.Duration != DefaultShotTimeout {
		t.Errorf("Browser.Timeout = %v, want default", s.Browser.Timeout.Duration)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
params_url: http://10.0.0.2:8080/demo/params
load_timeout: 5s
server:
  listen: ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.ParamsURL != "http://10.0.0.2:8080/demo/params" {
		t.Errorf("ParamsURL = %q", s.ParamsURL)
	}
	if s.LoadTimeout.Duration != 5*time.Second {
		t.Errorf("LoadTimeout = %v, want 5s", s.LoadTimeout.Duration)
	}
	if s.Server.Listen != ":9000" {
		t.Errorf("Server.Listen = %q", s.Server.Listen)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
			t.Error("expected error for missing explicit file")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		os.WriteFile(path, []byte(`debounce = "soon"`), 0644)
		if _, err := Load(path); err == nil {
			t.Error("expected error for bad duration")
		}
	})

	t.Run("invalid after decode", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.toml")
		os.WriteFile(path, []byte(`base_url = "not a url"`), 0644)
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "invalid settings") {
			t.Errorf("Load() = %v, want invalid settings error", err)
		}
	})
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if s.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", s.BaseURL)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	s := Defaults()
	s.Metrics = []string{"internal_temp", "external_temp"}

	data, err := Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `debounce = "100ms"`) {
		t.Errorf("encoded settings missing debounce:\n%s", data)
	}

	decoded := Defaults()
	decoded.Metrics = nil
	if err := Decode("x.toml", data, decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Metrics) != 2 || decoded.Debounce.Duration != s.Debounce.Duration {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestNewPaths(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPaths(dir)
	if err != nil {
		t.Fatal(err)
	}

	if p.StorageFile != filepath.Join(dir, StorageFileName) {
		t.Errorf("StorageFile = %q", p.StorageFile)
	}
	if p.HistoryDir != filepath.Join(dir, HistoryDirName) {
		t.Errorf("HistoryDir = %q", p.HistoryDir)
	}
	if p.PreviewFile != filepath.Join(dir, PreviewFileName) {
		t.Errorf("PreviewFile = %q", p.PreviewFile)
	}

	if _, err := NewPaths(""); err == nil {
		t.Error("NewPaths(\"\") should fail")
	}
}

func TestWithin_StaysInsideDir(t *testing.T) {
	dir := t.TempDir()

	got, err := Within(dir, "../../etc/passwd")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, dir) {
		t.Errorf("Within escaped base dir: %q", got)
	}

	if _, err := Within(dir, ""); err == nil {
		t.Error("Within with empty name should fail")
	}
}
