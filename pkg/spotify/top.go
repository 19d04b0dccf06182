package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// TopService provides access to the user's top items.
//
// All operations require the access token to carry the user-top-read scope.
type TopService struct {
	client *Client
}

const (
	// MaxPageSize is the largest page the /me/top endpoints accept.
	MaxPageSize = 50
)

// Tracks fetches one page of the user's top tracks.
//
// limit is clamped to MaxPageSize; a limit of zero or below requests a
// full page. offset is the index of the first item to return.
//
// Example:
//
//	page, err := client.Top().Tracks(ctx, spotify.ShortTerm, 50, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("got %d of %d tracks\n", len(page.Items), page.Total)
func (s *TopService) Tracks(ctx context.Context, timeRange TimeRange, limit, offset int) (*TopTracksPage, error) {
	body, err := s.get(ctx, "tracks", timeRange, limit, offset)
	if err != nil {
		return nil, err
	}

	var page TopTracksPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("spotify: failed to parse top tracks response: %w", err)
	}

	return &page, nil
}

// Artists fetches one page of the user's top artists.
//
// Parameters behave exactly as in Tracks.
func (s *TopService) Artists(ctx context.Context, timeRange TimeRange, limit, offset int) (*TopArtistsPage, error) {
	body, err := s.get(ctx, "artists", timeRange, limit, offset)
	if err != nil {
		return nil, err
	}

	var page TopArtistsPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("spotify: failed to parse top artists response: %w", err)
	}

	return &page, nil
}

// get issues the page request shared by Tracks and Artists.
func (s *TopService) get(ctx context.Context, itemType string, timeRange TimeRange, limit, offset int) ([]byte, error) {
	if _, err := ParseTimeRange(string(timeRange)); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	query := url.Values{}
	query.Set("time_range", timeRange.String())
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	return s.client.get(ctx, "/me/top/"+itemType, query)
}
