package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fruitstand-signage/fruitstand/internal/logging"
)

const (
	DefaultBaseURL     = "http://127.0.0.1:5000/display/render?"
	DefaultParamsURL   = "http://127.0.0.1:8080/demo/params"
	DefaultListenAddr  = "127.0.0.1:8080"
	DefaultDebounce    = 100 * time.Millisecond
	DefaultLoadTimeout = 30 * time.Second
	DefaultShotTimeout = 60 * time.Second
	AppName            = "fruitstand"
)

// Duration is a time.Duration that decodes from strings such as "100ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler (used by TOML).
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML decodes a scalar duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML encodes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// BrowserSettings controls the headless browser used for screenshots and
// the demo preview.
type BrowserSettings struct {
	ExecPath string   `toml:"exec_path" yaml:"exec_path"`
	Args     string   `toml:"args" yaml:"args"` // shell-quoted extra flags
	Timeout  Duration `toml:"timeout" yaml:"timeout"`
}

// ServerSettings controls `fruitstand serve`.
type ServerSettings struct {
	Listen string `toml:"listen" yaml:"listen"`
}

// Settings is the fruitstand configuration file.
type Settings struct {
	BaseURL     string          `toml:"base_url" yaml:"base_url"`
	ParamsURL   string          `toml:"params_url" yaml:"params_url"`
	StateDir    string          `toml:"state_dir" yaml:"state_dir"`
	Debounce    Duration        `toml:"debounce" yaml:"debounce"`
	LoadTimeout Duration        `toml:"load_timeout" yaml:"load_timeout"`
	Metrics     []string        `toml:"metrics" yaml:"metrics"` // empty = whole catalog
	Browser     BrowserSettings `toml:"browser" yaml:"browser"`
	Server      ServerSettings  `toml:"server" yaml:"server"`
}

// Defaults returns the settings used when no configuration file exists.
func Defaults() *Settings {
	return &Settings{
		BaseURL:     DefaultBaseURL,
		ParamsURL:   DefaultParamsURL,
		StateDir:    DefaultStateDir(),
		Debounce:    Duration{DefaultDebounce},
		LoadTimeout: Duration{DefaultLoadTimeout},
		Browser: BrowserSettings{
			Timeout: Duration{DefaultShotTimeout},
		},
		Server: ServerSettings{
			Listen: DefaultListenAddr,
		},
	}
}

// Validate checks that the Settings are usable.
func (s *Settings) Validate() error {
	if err := validateURL("base_url", s.BaseURL); err != nil {
		return err
	}
	if err := validateURL("params_url", s.ParamsURL); err != nil {
		return err
	}
	if s.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}
	if s.Debounce.Duration <= 0 {
		return fmt.Errorf("debounce must be positive (got %s)", s.Debounce.Duration)
	}
	if s.LoadTimeout.Duration <= 0 {
		return fmt.Errorf("load_timeout must be positive (got %s)", s.LoadTimeout.Duration)
	}
	if s.Browser.Timeout.Duration <= 0 {
		return fmt.Errorf("browser.timeout must be positive (got %s)", s.Browser.Timeout.Duration)
	}
	if s.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	return nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL (got %q)", name, raw)
	}
	return nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/fruitstand/config.toml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// DefaultStateDir returns $XDG_STATE_HOME/fruitstand, falling back to
// ~/.local/state/fruitstand.
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".local", "state", AppName)
}

// Load reads settings from path. An empty path means DefaultConfigPath,
// and a missing default file yields Defaults. An explicitly named file
// must exist. YAML is used for .yaml and .yml files, TOML otherwise.
func Load(path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	settings := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			logging.Debug("no settings file, using defaults", "path", path)
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := Decode(path, data, settings); err != nil {
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}

	return settings, nil
}

// Decode parses data into settings, choosing the format from path's
// extension. Values not present in data keep what settings already holds.
func Decode(path string, data []byte, settings *Settings) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	default:
		md, err := toml.Decode(string(data), settings)
		if err != nil {
			return fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			logging.Warn("unknown settings key", "path", path, "key", key.String())
		}
	}
	return nil
}

// Encode renders settings as TOML.
func Encode(settings *Settings) ([]byte, error) {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return []byte(buf.String()), nil
}
