package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fruitstand-signage/fruitstand/internal/history"
)

type fakeSource struct {
	events map[string][]history.Event
	err    error
}

func (f *fakeSource) Displays() ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for _, d := range []string{"kitchen", "lobby", "empty"} {
		if _, ok := f.events[d]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeSource) Tail(display string, n int) ([]history.Event, error) {
	events := f.events[display]
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	return events, nil
}

func TestTruncateURL(t *testing.T) {
	tests := []struct {
		url    string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"http://example.com/render?k=demo", 20, "http://example.co..."},
		{"", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := truncateURL(tt.url, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateURL(%q, %d) = %q, want %q", tt.url, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestDisplayItemMethods(t *testing.T) {
	last := &history.Event{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Type:      history.EventTimeout,
		Display:   "lobby",
		URL:       "http://example.com/render?k=lobby",
	}
	item := displayItem{display: "lobby", last: last}

	if got := item.Title(); got != "lobby" {
		t.Errorf("Title() = %q, want %q", got, "lobby")
	}
	if got := item.FilterValue(); got != "lobby" {
		t.Errorf("FilterValue() = %q, want %q", got, "lobby")
	}

	desc := item.Description()
	for _, want := range []string{"⚠", "timeout", "2026-03-01 12:00:00", "k=lobby"} {
		if !strings.Contains(desc, want) {
			t.Errorf("Description() = %q, missing %q", desc, want)
		}
	}

	if got := (displayItem{display: "x"}).Description(); got != "no events" {
		t.Errorf("Description() without events = %q", got)
	}
}

func TestEventIcon(t *testing.T) {
	tests := []struct {
		typ  history.EventType
		want string
	}{
		{history.EventLoaded, "✓"},
		{history.EventTimeout, "⚠"},
		{history.EventError, "✗"},
		{history.EventNavigate, "●"},
	}
	for _, tt := range tests {
		if got := eventIcon(tt.typ); got != tt.want {
			t.Errorf("eventIcon(%q) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestPicker_SelectAndQuit(t *testing.T) {
	src := &fakeSource{events: map[string][]history.Event{
		"kitchen": {{Type: history.EventNavigate}, {Type: history.EventLoaded}},
		"lobby":   {{Type: history.EventError}},
	}}
	items, err := displayItems(src)
	if err != nil {
		t.Fatalf("displayItems() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if last := items[0].(displayItem).last; last == nil || last.Type != history.EventLoaded {
		t.Errorf("kitchen last event = %+v, want loaded", last)
	}

	t.Run("enter selects", func(t *testing.T) {
		m := NewPicker(items)
		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if got := model.(Model).Selected(); got != "kitchen" {
			t.Errorf("Selected() = %q, want kitchen", got)
		}
	})

	t.Run("q quits without selection", func(t *testing.T) {
		m := NewPicker(items)
		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if got := model.(Model).Selected(); got != "" {
			t.Errorf("Selected() = %q, want empty", got)
		}
		if model.View() != "" {
			t.Error("View() should be empty once quitting")
		}
	})
}

func TestSimpleList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out, err := SimpleList(&fakeSource{})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "No renders recorded") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("lists displays", func(t *testing.T) {
		out, err := SimpleList(&fakeSource{events: map[string][]history.Event{
			"kitchen": {{Type: history.EventLoaded}},
		}})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "1. kitchen") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("source error", func(t *testing.T) {
		if _, err := SimpleList(&fakeSource{err: errors.New("boom")}); err == nil {
			t.Error("expected error")
		}
	})
}
