// Package fetcher accumulates a user's full top item listings by
// walking the Web API's offset/limit pagination sequentially.
package fetcher

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/topspot/topspot/pkg/spotify"
)

// Fetcher pages through the top item endpoints and collects results.
//
// Requests are issued strictly one at a time; any error from the API,
// including rate limits, stops the walk and is returned to the caller
// untouched.
type Fetcher struct {
	client   *spotify.Client
	logger   zerolog.Logger
	maxItems int
}

// New creates a Fetcher.
//
// maxItems caps how many items are collected per call; zero means
// everything the API reports.
func New(client *spotify.Client, maxItems int, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:   client,
		logger:   logger.With().Str("component", "fetcher").Logger(),
		maxItems: maxItems,
	}
}

// TopTracks collects the user's top tracks for the given time range.
func (f *Fetcher) TopTracks(ctx context.Context, timeRange spotify.TimeRange) ([]spotify.Track, error) {
	var tracks []spotify.Track
	target := -1

	for offset := 0; target < 0 || len(tracks) < target; offset += spotify.MaxPageSize {
		limit := pageLimit(target, len(tracks))

		page, err := f.client.Top().Tracks(ctx, timeRange, limit, offset)
		if err != nil {
			return nil, err
		}

		if target < 0 {
			target = f.target(page.Total)
		}
		tracks = append(tracks, page.Items...)

		f.logger.Info().
			Str("time_range", timeRange.String()).
			Int("fetched", len(tracks)).
			Int("total", target).
			Msg("Fetched top tracks page")

		if len(page.Items) == 0 || page.Next == "" {
			break
		}
	}

	if target >= 0 && len(tracks) > target {
		tracks = tracks[:target]
	}
	return tracks, nil
}

// TopArtists collects the user's top artists for the given time range.
func (f *Fetcher) TopArtists(ctx context.Context, timeRange spotify.TimeRange) ([]spotify.Artist, error) {
	var artists []spotify.Artist
	target := -1

	for offset := 0; target < 0 || len(artists) < target; offset += spotify.MaxPageSize {
		limit := pageLimit(target, len(artists))

		page, err := f.client.Top().Artists(ctx, timeRange, limit, offset)
		if err != nil {
			return nil, err
		}

		if target < 0 {
			target = f.target(page.Total)
		}
		artists = append(artists, page.Items...)

		f.logger.Info().
			Str("time_range", timeRange.String()).
			Int("fetched", len(artists)).
			Int("total", target).
			Msg("Fetched top artists page")

		if len(page.Items) == 0 || page.Next == "" {
			break
		}
	}

	if target >= 0 && len(artists) > target {
		artists = artists[:target]
	}
	return artists, nil
}

// target converts the API's reported total into the number of items
// this fetch should collect, honoring the configured cap.
func (f *Fetcher) target(total int) int {
	if f.maxItems > 0 && f.maxItems < total {
		return f.maxItems
	}
	return total
}

// pageLimit sizes the next page request. The first request always asks
// for a full page; later requests shrink to what is still missing.
func pageLimit(target, have int) int {
	if target < 0 {
		return spotify.MaxPageSize
	}
	remaining := target - have
	if remaining >= spotify.MaxPageSize {
		return spotify.MaxPageSize
	}
	return remaining
}
