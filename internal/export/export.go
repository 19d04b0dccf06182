// Package export serializes fetched top items to JSON files and
// renders the terminal summary shown after a fetch.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/topspot/topspot/pkg/spotify"
)

// Kind names the item family being exported.
type Kind string

const (
	KindTracks  Kind = "tracks"
	KindArtists Kind = "artists"
)

// Exporter writes item listings to the output directory.
type Exporter struct {
	dir         string
	keepMarkets bool
}

// New creates an Exporter writing into dir.
//
// Unless keepMarkets is set, available_markets fields are stripped from
// tracks and their albums before serialization; they blow up file size
// without adding anything to a listening profile.
func New(dir string, keepMarkets bool) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{dir: dir, keepMarkets: keepMarkets}
}

// Filename returns the deterministic output file name for a kind and
// time range, e.g. "top_tracks_medium_term.json".
func Filename(kind Kind, timeRange spotify.TimeRange) string {
	return fmt.Sprintf("top_%s_%s.json", kind, timeRange)
}

// trackPayload is the JSON document shape written for tracks.
type trackPayload struct {
	Items []spotify.Track `json:"items"`
}

// artistPayload is the JSON document shape written for artists.
type artistPayload struct {
	Items []spotify.Artist `json:"items"`
}

// WriteTracks serializes tracks for the given time range and returns
// the path of the written file.
func (e *Exporter) WriteTracks(tracks []spotify.Track, timeRange spotify.TimeRange) (string, error) {
	if !e.keepMarkets {
		tracks = stripMarkets(tracks)
	}
	if tracks == nil {
		tracks = []spotify.Track{}
	}
	return writeJSON(filepath.Join(e.dir, Filename(KindTracks, timeRange)), trackPayload{Items: tracks})
}

// WriteArtists serializes artists for the given time range and returns
// the path of the written file.
func (e *Exporter) WriteArtists(artists []spotify.Artist, timeRange spotify.TimeRange) (string, error) {
	if artists == nil {
		artists = []spotify.Artist{}
	}
	return writeJSON(filepath.Join(e.dir, Filename(KindArtists, timeRange)), artistPayload{Items: artists})
}

// stripMarkets clears available_markets on every track and its album.
// The input slice is left untouched.
func stripMarkets(tracks []spotify.Track) []spotify.Track {
	cleaned := make([]spotify.Track, len(tracks))
	for i, track := range tracks {
		track.AvailableMarkets = nil
		track.Album.AvailableMarkets = nil
		cleaned[i] = track
	}
	return cleaned
}

// writeJSON marshals v with indentation and writes it atomically.
func writeJSON(path string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode items: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write atomically via temp file + rename
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", err
	}

	return path, nil
}
