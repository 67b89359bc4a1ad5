package field

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/fruitstand-signage/fruitstand/internal/dom"
	"github.com/fruitstand-signage/fruitstand/internal/record"
)

// Config keys carrying the decomposed playlist selection.
const (
	PlaylistIDKey       = "playlist_id"
	PlaylistScreenIDKey = "playlist_screen_id"
)

// PlaylistScreen is the Codec of the composite "p-<id>;s-<id>" selector.
type PlaylistScreen struct {
	mu       sync.Mutex
	playlist int
	screen   int
}

// Absorb parses segments separated by ';', each "<key>-<id>". Keys other
// than p and s are ignored. The id is the leading integer of the text
// between the first and second '-', so "p-5-x" and "p-9abc" read 5 and 9;
// a missing or non-numeric id reads as 0.
func (c *PlaylistScreen) Absorb(v record.Value) record.Value {
	playlist, screen := 0, 0
	for _, part := range strings.Split(v.String(), ";") {
		segments := strings.Split(part, "-")
		n := 0
		if len(segments) > 1 {
			n = leadingInt(segments[1])
		}
		switch strings.TrimSpace(segments[0]) {
		case "p":
			playlist = n
		case "s":
			screen = n
		}
	}

	c.mu.Lock()
	c.playlist, c.screen = playlist, screen
	c.mu.Unlock()
	return record.String(formatPlaylistScreen(playlist, screen))
}

func (c *PlaylistScreen) Contribute(out *record.Record) {
	playlist, screen := c.IDs()
	out.Set(PlaylistIDKey, record.Int(playlist))
	out.Set(PlaylistScreenIDKey, record.Int(screen))
}

// Restore prefers the field's own key and otherwise rebuilds the selector
// from the decomposed ids.
func (c *PlaylistScreen) Restore(config *record.Record, configKey string) (record.Value, bool) {
	if configKey != "" {
		if v, ok := config.Get(configKey); ok {
			return v, true
		}
	}
	p, okP := config.Get(PlaylistIDKey)
	s, okS := config.Get(PlaylistScreenIDKey)
	if !okP || !okS {
		return record.Value{}, false
	}
	return record.String("p-" + p.String() + ";s-" + s.String()), true
}

// IDs returns the parsed playlist and screen ids.
func (c *PlaylistScreen) IDs() (playlist, screen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playlist, c.screen
}

func formatPlaylistScreen(playlist, screen int) string {
	return fmt.Sprintf("p-%d;s-%d", playlist, screen)
}

// NewPlaylistScreen creates the composite playlist/screen field.
func NewPlaylistScreen(id string, doc dom.Document, dfl string, opts ...Option) *Field {
	opts = append([]Option{WithCodec(&PlaylistScreen{})}, opts...)
	return New(id, doc, record.String(dfl), opts...)
}

// leadingInt parses an optionally signed run of digits after leading
// whitespace and ignores whatever follows. No digits yields 0.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
