package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/topspot/topspot/pkg/spotify"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		kind      Kind
		timeRange spotify.TimeRange
		want      string
	}{
		{KindTracks, spotify.ShortTerm, "top_tracks_short_term.json"},
		{KindTracks, spotify.MediumTerm, "top_tracks_medium_term.json"},
		{KindTracks, spotify.LongTerm, "top_tracks_long_term.json"},
		{KindArtists, spotify.ShortTerm, "top_artists_short_term.json"},
		{KindArtists, spotify.MediumTerm, "top_artists_medium_term.json"},
		{KindArtists, spotify.LongTerm, "top_artists_long_term.json"},
	}

	for _, tt := range tests {
		if got := Filename(tt.kind, tt.timeRange); got != tt.want {
			t.Errorf("Filename(%s, %s) = %s, want %s", tt.kind, tt.timeRange, got, tt.want)
		}
	}
}

func sampleTracks() []spotify.Track {
	return []spotify.Track{
		{
			ID:               "t1",
			Name:             "Yesterday",
			Artists:          []spotify.SimpleArtist{{ID: "a1", Name: "The Beatles"}},
			AvailableMarkets: []string{"US", "GB", "DE"},
			Album: spotify.Album{
				ID:               "al1",
				Name:             "Help!",
				AvailableMarkets: []string{"US", "GB"},
			},
		},
	}
}

func TestWriteTracks_StripsMarkets(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, false)

	path, err := e.WriteTracks(sampleTracks(), spotify.MediumTerm)
	if err != nil {
		t.Fatalf("WriteTracks failed: %v", err)
	}
	if filepath.Base(path) != "top_tracks_medium_term.json" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if strings.Contains(string(data), "available_markets") {
		t.Error("expected available_markets to be stripped")
	}

	var doc struct {
		Items []spotify.Track `json:"items"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(doc.Items) != 1 || doc.Items[0].Name != "Yesterday" {
		t.Errorf("unexpected items: %+v", doc.Items)
	}
}

func TestWriteTracks_KeepMarkets(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, true)

	original := sampleTracks()
	path, err := e.WriteTracks(original, spotify.ShortTerm)
	if err != nil {
		t.Fatalf("WriteTracks failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "available_markets") {
		t.Error("expected available_markets to be kept")
	}
}

func TestWriteTracks_InputNotMutated(t *testing.T) {
	e := New(t.TempDir(), false)

	original := sampleTracks()
	if _, err := e.WriteTracks(original, spotify.LongTerm); err != nil {
		t.Fatalf("WriteTracks failed: %v", err)
	}

	if len(original[0].AvailableMarkets) != 3 {
		t.Error("expected caller's slice to be left untouched")
	}
	if len(original[0].Album.AvailableMarkets) != 2 {
		t.Error("expected caller's album markets to be left untouched")
	}
}

func TestWriteArtists(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, false)

	artists := []spotify.Artist{
		{ID: "a1", Name: "The Beatles", Popularity: 88},
		{ID: "a2", Name: "Radiohead", Popularity: 85},
	}

	path, err := e.WriteArtists(artists, spotify.LongTerm)
	if err != nil {
		t.Fatalf("WriteArtists failed: %v", err)
	}
	if filepath.Base(path) != "top_artists_long_term.json" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	var doc struct {
		Items []spotify.Artist `json:"items"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Items))
	}
	if doc.Items[1].Name != "Radiohead" {
		t.Errorf("expected items in order, got %+v", doc.Items)
	}
}

func TestTrackSummary(t *testing.T) {
	var tracks []spotify.Track
	for _, name := range []string{"One", "Two", "Three", "Four", "Five", "Six"} {
		tracks = append(tracks, spotify.Track{
			Name:    name,
			Artists: []spotify.SimpleArtist{{Name: "Artist"}},
		})
	}

	summary := TrackSummary(tracks)
	lines := strings.Split(strings.TrimRight(summary, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 summary lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "1. One - Artist") {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if strings.Contains(summary, "Six") {
		t.Error("expected summary to stop at five items")
	}
}

func TestArtistSummary_Truncation(t *testing.T) {
	long := strings.Repeat("x", 200)
	summary := ArtistSummary([]spotify.Artist{{Name: long}})

	line := strings.TrimRight(summary, "\n")
	if !strings.HasSuffix(line, "...") {
		t.Errorf("expected truncated line to end with ellipsis: %q", line)
	}
	if len(line) > 90 {
		t.Errorf("expected line to be bounded, got %d chars", len(line))
	}
}
