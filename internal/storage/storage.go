// Package storage provides the key-value blob store that stands in for
// browser local storage: string keys mapped to string values, all kept
// in a single JSON object.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fruitstand-signage/fruitstand/internal/system"
)

// Storage is a string key-value store.
type Storage interface {
	// GetItem returns the value under key and whether it exists.
	GetItem(key string) (string, bool, error)

	// SetItem stores value under key.
	SetItem(key, value string) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(key string) error
}

// Memory is an in-process Storage.
type Memory struct {
	mu    sync.Mutex
	items map[string]string

	// SetErr, when set, is returned by SetItem without storing anything.
	SetErr error

	// Sets counts successful SetItem calls.
	Sets int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.items[key] = value
	m.Sets++
	return nil
}

func (m *Memory) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// File is a Storage persisted as one JSON object file. Every SetItem
// rewrites the whole file through a temporary file and a rename.
type File struct {
	path string
	fs   system.FileSystem
	mu   sync.Mutex
}

// NewFile returns a File store at path using the default file system.
func NewFile(path string) *File {
	return NewFileWithFS(path, system.DefaultFS())
}

// NewFileWithFS returns a File store backed by fsys.
func NewFileWithFS(path string, fsys system.FileSystem) *File {
	return &File{path: path, fs: fsys}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) GetItem(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (f *File) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}
	items[key] = value
	return f.write(items)
}

func (f *File) RemoveItem(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return f.write(items)
}

// Keys returns the stored keys in sorted order.
func (f *File) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// read loads the backing file. A missing file is an empty store.
func (f *File) read() (map[string]string, error) {
	data, err := f.fs.ReadFile(f.path)
	if err != nil {
		if isNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	items := make(map[string]string)
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse storage file %s: %w", f.path, err)
	}
	return items, nil
}

func (f *File) write(items map[string]string) error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := f.fs.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
