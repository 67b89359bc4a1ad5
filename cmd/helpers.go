package cmd

import (
	"github.com/fruitstand-signage/fruitstand/internal/app"
	"github.com/fruitstand-signage/fruitstand/internal/config"
)

// paths returns the state paths of the loaded settings.
// This is a helper to reduce repetition in commands.
func paths() *config.Paths {
	return app.Default.Paths
}

// settings returns the loaded settings.
func settings() *config.Settings {
	return app.Default.Settings
}
