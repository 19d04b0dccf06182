// Package spotify provides a client library for the Spotify Web API.
//
// # Overview
//
// This package implements a small, type-safe client for the Web API,
// focusing on the endpoints that read a user's listening profile: the
// top items family (/me/top/tracks, /me/top/artists) and the current
// user profile (/me). It supports context cancellation and maps HTTP
// failures to typed errors.
//
// The package deliberately does not perform the OAuth handshake. It
// expects a valid access token, typically obtained and refreshed with
// golang.org/x/oauth2; see the internal/auth package of this repository
// for the flow this client is paired with.
//
// # Quick Start
//
// Create a client with an access token:
//
//	import "github.com/topspot/topspot/pkg/spotify"
//
//	client, err := spotify.NewClient(spotify.Config{
//	    AccessToken: token.AccessToken,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Top Items
//
// Top items are paginated with offset/limit; the API caps pages at 50
// items (spotify.MaxPageSize). Each page reports the total number of
// items available:
//
//	page, err := client.Top().Tracks(ctx, spotify.MediumTerm, spotify.MaxPageSize, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, track := range page.Items {
//	    fmt.Printf("%s - %s\n", track.Name, track.ArtistNames())
//	}
//
// # Error Handling
//
// Failures carry typed errors that can be inspected with errors.As:
//
//	_, err := client.Top().Artists(ctx, spotify.LongTerm, 50, 0)
//	var rateErr *spotify.RateLimitError
//	if errors.As(err, &rateErr) {
//	    fmt.Println("rate limited, wait", rateErr.RetryAfter)
//	}
//
// A 401 or 403 response becomes *AuthError, a 429 becomes
// *RateLimitError, any other non-success status becomes *APIError.
// The client never retries on its own: callers decide how to react
// to rate limits and expired tokens.
package spotify
