package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/tempo/internal/shared"
)

func TestSong(t *testing.T) {
	t.Run("encodes derived duration and null album", func(t *testing.T) {
		song := Song{ID: 1, Title: "Higher Ground", Artist: "ODESZA", ArtistID: 1, Duration: 227}

		data, err := json.Marshal(song)
		if err != nil {
			t.Fatalf("failed to marshal song: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("failed to unmarshal song: %v", err)
		}

		if decoded["durationFormatted"] != "3:47" {
			t.Errorf("expected durationFormatted 3:47, got %v", decoded["durationFormatted"])
		}
		if album, ok := decoded["album"]; !ok || album != nil {
			t.Errorf("expected album to be present and null, got %v", album)
		}
		if decoded["artistId"] != float64(1) {
			t.Errorf("expected artistId 1, got %v", decoded["artistId"])
		}
	})

	t.Run("round trips through the wire shape", func(t *testing.T) {
		in := Song{ID: 4, Title: "Dreams", Album: StringPtr("Rumours"), Duration: 254}

		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("failed to marshal song: %v", err)
		}

		var out Song
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("failed to unmarshal song: %v", err)
		}
		if out.AlbumName() != "Rumours" || out.DurationFormatted() != "4:14" {
			t.Errorf("unexpected decoded song %+v", out)
		}
	})
}

func TestSongInputValidate(t *testing.T) {
	valid := func() SongInput {
		return SongInput{Title: " Dreams ", Artist: "Fleetwood Mac", ArtistID: 4, Duration: 254, URL: "u", ImageURL: "i"}
	}

	t.Run("trims and accepts", func(t *testing.T) {
		in := valid()
		if err := in.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.Title != "Dreams" {
			t.Errorf("expected trimmed title, got %q", in.Title)
		}
	})

	t.Run("blank album becomes absent", func(t *testing.T) {
		in := valid()
		in.Album = StringPtr("   ")
		if err := in.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.Album != nil {
			t.Errorf("expected nil album, got %q", *in.Album)
		}
	})

	tc := []struct {
		name   string
		mutate func(*SongInput)
		field  string
	}{
		{"missing title", func(in *SongInput) { in.Title = "" }, "title"},
		{"missing artist", func(in *SongInput) { in.Artist = " " }, "artist"},
		{"bad artist id", func(in *SongInput) { in.ArtistID = 0 }, "artistId"},
		{"negative duration", func(in *SongInput) { in.Duration = -1 }, "duration"},
		{"missing url", func(in *SongInput) { in.URL = "" }, "url"},
		{"missing image", func(in *SongInput) { in.ImageURL = "" }, "imageUrl"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)

			err := in.Validate()
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to mention %s, got %v", tt.field, err)
			}
		})
	}
}

func TestPlaylistInputValidate(t *testing.T) {
	t.Run("whitespace name", func(t *testing.T) {
		in := PlaylistInput{Name: "   ", UserID: 1}
		if err := in.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("trims name and drops blank image", func(t *testing.T) {
		in := PlaylistInput{Name: "  Road Trip ", UserID: 1, ImageURL: StringPtr("")}
		if err := in.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in.Name != "Road Trip" || in.ImageURL != nil {
			t.Errorf("unexpected normalized input %+v", in)
		}
	})
}

func TestLikedCollection(t *testing.T) {
	liked := NewLikedCollection(nil)

	data, err := json.Marshal(liked)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(data) != `{"id":"liked","name":"Liked Songs","songs":[]}` {
		t.Errorf("unexpected liked collection %s", data)
	}
}

func TestPlaylistTotalDuration(t *testing.T) {
	p := Playlist{Songs: []Song{{Duration: 60}, {Duration: 5}}}
	if p.TotalDuration() != 65 {
		t.Errorf("expected 65, got %d", p.TotalDuration())
	}
}
