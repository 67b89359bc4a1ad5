package config

import (
	"fmt"

	securejoin "github.com/cyphar/filepath-securejoin"
)

const (
	StorageFileName = "localstorage.json"
	HistoryDirName  = "renders"
	PreviewFileName = "preview.png"
	LogFileName     = "fruitstand.log"
)

// Paths holds the files derived from the state directory.
type Paths struct {
	StateDir    string
	StorageFile string
	HistoryDir  string
	PreviewFile string
	LogFile     string
}

// NewPaths resolves every state file inside stateDir. Resolution goes
// through securejoin so symlinks inside the state dir cannot point outside it.
func NewPaths(stateDir string) (*Paths, error) {
	if stateDir == "" {
		return nil, fmt.Errorf("state directory is required")
	}

	p := &Paths{StateDir: stateDir}
	for _, entry := range []struct {
		dst  *string
		name string
	}{
		{&p.StorageFile, StorageFileName},
		{&p.HistoryDir, HistoryDirName},
		{&p.PreviewFile, PreviewFileName},
		{&p.LogFile, LogFileName},
	} {
		resolved, err := securejoin.SecureJoin(stateDir, entry.name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", entry.name, err)
		}
		*entry.dst = resolved
	}
	return p, nil
}

// DefaultPaths returns the paths rooted at DefaultStateDir.
func DefaultPaths() *Paths {
	p, err := NewPaths(DefaultStateDir())
	if err != nil {
		dir := DefaultStateDir()
		return &Paths{StateDir: dir}
	}
	return p
}

// Within resolves name under dir the same way NewPaths does. Callers use it
// for per-key files such as render history logs.
func Within(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}
	return securejoin.SecureJoin(dir, name)
}
