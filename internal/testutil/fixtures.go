package testutil

import (
	"bytes"
	"embed"

	"github.com/fruitstand-signage/fruitstand/internal/chart"
	"github.com/fruitstand-signage/fruitstand/internal/config"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadSettingsFixture decodes a settings fixture over the defaults. It
// does not validate.
func LoadSettingsFixture(name string) (*config.Settings, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	settings := config.Defaults()
	if err := config.Decode(name, data, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ValidSettings returns the valid settings fixture.
func ValidSettings() (*config.Settings, error) {
	return LoadSettingsFixture("valid_settings.toml")
}

// InvalidSettings returns the invalid settings fixture.
func InvalidSettings() (*config.Settings, error) {
	return LoadSettingsFixture("invalid_settings.toml")
}

// ForecastRows returns the forecast chart rows fixture.
func ForecastRows() ([]chart.Row, error) {
	data, err := LoadFixture("forecast_rows.json")
	if err != nil {
		return nil, err
	}
	return chart.ReadRows(bytes.NewReader(data))
}

// DemoConfig returns a persisted demo configuration blob.
func DemoConfig() (string, error) {
	data, err := LoadFixture("demo_config.json")
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(data)), nil
}
