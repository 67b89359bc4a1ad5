// Package history records render activity per display key.
// Events are stored as JSON Lines (JSONL) files, one per display.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// EventType classifies a render event.
type EventType string

const (
	EventNavigate EventType = "navigate"
	EventLoaded   EventType = "loaded"
	EventTimeout  EventType = "timeout"
	EventError    EventType = "error"
)

const eventSuffix = ".events.jsonl"

// Event represents a single render history entry.
type Event struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	Display   string        `json:"display"`
	URL       string        `json:"url,omitempty"`
	Width     int           `json:"width,omitempty"`
	Height    int           `json:"height,omitempty"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
	Details   string        `json:"details,omitempty"`
}

// Recorder accepts render events.
type Recorder interface {
	Log(event Event) error
}

// Logger writes and reads render events.
// Events are stored in {dir}/{display}.events.jsonl.
type Logger struct {
	dir string
	mu  sync.Mutex
}

// NewLogger creates a new history logger rooted at dir.
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir}
}

// eventPath returns the path to the JSONL event log for a display. The
// display key is user input, so the path is confined to the log dir.
func (l *Logger) eventPath(display string) (string, error) {
	if display == "" {
		display = "_"
	}
	path, err := securejoin.SecureJoin(l.dir, display+eventSuffix)
	if err != nil {
		return "", fmt.Errorf("invalid display key %q: %w", display, err)
	}
	return path, nil
}

// Log appends an event to the display's history.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path, err := l.eventPath(event.Display)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// Events reads all events for a display in chronological order.
func (l *Logger) Events(display string) ([]Event, error) {
	path, err := l.eventPath(display)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading history: %w", err)
	}

	return events, nil
}

// Tail returns the last n events for a display. n <= 0 returns them all.
func (l *Logger) Tail(display string, n int) ([]Event, error) {
	events, err := l.Events(display)
	if err != nil || n <= 0 || len(events) <= n {
		return events, err
	}
	return events[len(events)-n:], nil
}

// Displays lists the display keys that have a history, sorted.
func (l *Logger) Displays() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), eventSuffix) {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), eventSuffix))
	}
	sort.Strings(out)
	return out, nil
}

// Remove deletes the history for a display.
func (l *Logger) Remove(display string) error {
	path, err := l.eventPath(display)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Discard is a Recorder that drops every event.
type Discard struct{}

func (Discard) Log(Event) error { return nil }

// Memory is a Recorder that keeps events in memory.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Log(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns the recorded events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Types returns the recorded event types in order.
func (m *Memory) Types() []EventType {
	var out []EventType
	for _, e := range m.Events() {
		out = append(out, e.Type)
	}
	return out
}
