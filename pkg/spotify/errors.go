package spotify

import (
	"fmt"
	"time"
)

// AuthError indicates the API rejected the request's credentials.
//
// A 401 means the access token is missing, invalid or expired and the
// user should re-authenticate. A 403 usually means the application's
// redirect URI or scopes are misconfigured.
type AuthError struct {
	StatusCode int    // HTTP status code (401 or 403)
	Message    string // Error message from Spotify
}

// Error returns the error message.
func (e *AuthError) Error() string {
	if e.StatusCode == 403 {
		return fmt.Sprintf("spotify: access forbidden (403): %s", e.Message)
	}
	return fmt.Sprintf("spotify: authentication failed (%d): %s", e.StatusCode, e.Message)
}

// Is checks whether the target is an AuthError with the same status code.
//
// This allows errors.Is() to work with *AuthError values.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.StatusCode == 0 || e.StatusCode == t.StatusCode
}

// RateLimitError indicates the API returned 429 Too Many Requests.
//
// The client never retries internally; the caller decides whether to
// wait RetryAfter and try again.
type RateLimitError struct {
	RetryAfter time.Duration // Wait interval reported by the Retry-After header (zero if absent)
}

// Error returns the error message.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("spotify: rate limited (429), retry after %s", e.RetryAfter)
	}
	return "spotify: rate limited (429)"
}

// APIError represents any other non-success response from the Web API.
type APIError struct {
	StatusCode int    // HTTP status code
	Message    string // Error message from Spotify, or the HTTP status text
}

// Error returns the error message.
func (e *APIError) Error() string {
	return fmt.Sprintf("spotify: API error %d: %s", e.StatusCode, e.Message)
}

// Is checks whether the target is an APIError with the same status code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.StatusCode == 0 || e.StatusCode == t.StatusCode
}
