package spotify

import "fmt"

// TimeRange selects the aggregation window Spotify uses to compute top items.
type TimeRange string

const (
	// ShortTerm covers approximately the last 4 weeks.
	ShortTerm TimeRange = "short_term"
	// MediumTerm covers approximately the last 6 months.
	MediumTerm TimeRange = "medium_term"
	// LongTerm covers approximately the last year.
	LongTerm TimeRange = "long_term"
)

// ParseTimeRange converts a string into a TimeRange.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case ShortTerm, MediumTerm, LongTerm:
		return TimeRange(s), nil
	default:
		return "", fmt.Errorf("spotify: invalid time range %q (want short_term, medium_term or long_term)", s)
	}
}

// String returns the query-parameter form of the time range.
func (t TimeRange) String() string {
	return string(t)
}

// TimeRanges lists all valid time ranges, shortest window first.
func TimeRanges() []TimeRange {
	return []TimeRange{ShortTerm, MediumTerm, LongTerm}
}

// ExternalURLs holds known external links for an object.
type ExternalURLs struct {
	Spotify string `json:"spotify,omitempty"`
}

// Followers holds follower counts for an artist or user.
type Followers struct {
	Total int `json:"total"`
}

// Image is a cover or profile image in one resolution.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// SimpleArtist is the reduced artist object embedded in tracks and albums.
type SimpleArtist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	URI          string       `json:"uri,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls,omitempty"`
}

// Artist is the full artist object returned by /me/top/artists.
type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	URI          string       `json:"uri,omitempty"`
	Genres       []string     `json:"genres,omitempty"`
	Popularity   int          `json:"popularity"`
	Followers    Followers    `json:"followers"`
	Images       []Image      `json:"images,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls,omitempty"`
}

// Album is the album object embedded in tracks.
type Album struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	AlbumType        string         `json:"album_type,omitempty"`
	ReleaseDate      string         `json:"release_date,omitempty"`
	TotalTracks      int            `json:"total_tracks,omitempty"`
	Artists          []SimpleArtist `json:"artists,omitempty"`
	Images           []Image        `json:"images,omitempty"`
	AvailableMarkets []string       `json:"available_markets,omitempty"`
	ExternalURLs     ExternalURLs   `json:"external_urls,omitempty"`
}

// Track is the full track object returned by /me/top/tracks.
type Track struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	URI              string         `json:"uri,omitempty"`
	Album            Album          `json:"album"`
	Artists          []SimpleArtist `json:"artists"`
	Popularity       int            `json:"popularity"`
	DurationMS       int            `json:"duration_ms"`
	Explicit         bool           `json:"explicit,omitempty"`
	AvailableMarkets []string       `json:"available_markets,omitempty"`
	ExternalURLs     ExternalURLs   `json:"external_urls,omitempty"`
}

// ArtistNames joins the track's artist names for display.
func (t Track) ArtistNames() string {
	var names string
	for i, a := range t.Artists {
		if i > 0 {
			names += ", "
		}
		names += a.Name
	}
	return names
}

// TopTracksPage is one page of the user's top tracks.
type TopTracksPage struct {
	Items    []Track `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Href     string  `json:"href,omitempty"`
	Next     string  `json:"next,omitempty"`
	Previous string  `json:"previous,omitempty"`
}

// TopArtistsPage is one page of the user's top artists.
type TopArtistsPage struct {
	Items    []Artist `json:"items"`
	Total    int      `json:"total"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
	Href     string   `json:"href,omitempty"`
	Next     string   `json:"next,omitempty"`
	Previous string   `json:"previous,omitempty"`
}

// User is the current user's profile from /me.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Country     string    `json:"country,omitempty"`
	Product     string    `json:"product,omitempty"`
	Followers   Followers `json:"followers"`
	Images      []Image   `json:"images,omitempty"`
}
