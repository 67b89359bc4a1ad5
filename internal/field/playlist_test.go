package field

import (
	"testing"

	"github.com/fruitstand-signage/fruitstand/internal/dom"
	"github.com/fruitstand-signage/fruitstand/internal/record"
)

func TestPlaylistScreen_Canonicalizes(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		playlist int
		screen   int
	}{
		{"p-3;s-7", "p-3;s-7", 3, 7},
		{"s-7;p-3", "p-3;s-7", 3, 7},
		{"pl-0;s-0", "p-0;s-0", 0, 0},
		{"p-2;x-9;s-4", "p-2;s-4", 2, 4},
		{"p-abc;s-5", "p-0;s-5", 0, 5},
		{"", "p-0;s-0", 0, 0},
		{"p-12", "p-12;s-0", 12, 0},
		{"p-5-x;s-2", "p-5;s-2", 5, 2},
		{"p-9abc;s- 4", "p-9;s-4", 9, 4},
		{"p--3;s-", "p-0;s-0", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			codec := &PlaylistScreen{}
			f := New("playlist_screen", nil, record.String(""), WithCodec(codec), Suppressed())
			f.SetValue(record.String(tt.in))

			if got := f.Value().String(); got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
			p, s := codec.IDs()
			if p != tt.playlist || s != tt.screen {
				t.Errorf("IDs() = %d, %d, want %d, %d", p, s, tt.playlist, tt.screen)
			}
		})
	}
}

func TestPlaylistScreen_Contribution(t *testing.T) {
	f := NewPlaylistScreen("playlist_screen", nil, "p-3;s-7", Suppressed())
	c := f.Contribution()

	keys := c.Keys()
	if len(keys) != 2 || keys[0] != PlaylistIDKey || keys[1] != PlaylistScreenIDKey {
		t.Fatalf("keys = %v", keys)
	}
	if !c.Value(PlaylistIDKey).Equal(record.Int(3)) || !c.Value(PlaylistScreenIDKey).Equal(record.Int(7)) {
		t.Errorf("contribution = %v / %v", c.Value(PlaylistIDKey), c.Value(PlaylistScreenIDKey))
	}

	keyed := NewPlaylistScreen("playlist_screen", nil, "p-1;s-2")
	if keyed.Contribution().Value("playlist_screen").String() != "p-1;s-2" {
		t.Error("keyed composite should also contribute its own key")
	}
}

func TestPlaylistScreen_ElementGetsCanonicalValue(t *testing.T) {
	page := dom.NewPage()
	el := page.AddInput("dd_playlist_screen", false)
	f := NewPlaylistScreen("playlist_screen", page, "pl-0;s-0", Suppressed())

	var seen string
	f.OnChange(func(f *Field) { seen = f.Value().String() })
	el.Change("s-4;p-9")

	if seen != "p-9;s-4" {
		t.Errorf("observer saw %q", seen)
	}
	if el.Value() != "p-9;s-4" {
		t.Errorf("element = %q", el.Value())
	}
}

func TestPlaylistScreen_RestoreFromIDs(t *testing.T) {
	f := NewPlaylistScreen("playlist_screen", nil, "pl-0;s-0", Suppressed())
	ok := f.Restore(record.Of(PlaylistIDKey, record.Int(5), PlaylistScreenIDKey, record.Int(6)))
	if !ok {
		t.Fatal("Restore should apply")
	}
	if f.Value().String() != "p-5;s-6" {
		t.Errorf("Value() = %q", f.Value())
	}
}
