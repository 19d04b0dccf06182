package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// errorEnvelope is the JSON error body the Web API returns on failures.
type errorEnvelope struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// get issues a single authenticated GET request against the Web API.
//
// It handles:
// - Request construction with bearer authorization
// - Response body reading
// - Mapping HTTP failures to typed errors (AuthError, RateLimitError, APIError)
// - Context cancellation
//
// There is no retry loop: every call maps to exactly one HTTP request,
// and rate limits are surfaced to the caller.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	c.logDebugf("spotify: GET %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "topspot/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logDebugf("spotify: GET %s succeeded", path)
		return body, nil
	}

	return nil, c.mapStatusError(resp, body)
}

// mapStatusError converts a non-success response into a typed error.
func (c *Client) mapStatusError(resp *http.Response, body []byte) error {
	message := apiMessage(body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode, Message: message}
	case http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}
}

// apiMessage extracts the error message from a Web API error body.
// Returns an empty string if the body is not the expected envelope.
func apiMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Error.Message
}

// parseRetryAfter parses the Retry-After header, which Spotify sends
// as an integer number of seconds.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
