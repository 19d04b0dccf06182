package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient creates a client pointed at the given test server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		AccessToken: "test-access-token",
		BaseURL:     server.URL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestTopService_Tracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/me/top/tracks" {
			t.Errorf("expected path /me/top/tracks, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-access-token" {
			t.Errorf("expected bearer authorization, got %q", auth)
		}

		query := r.URL.Query()
		if tr := query.Get("time_range"); tr != "short_term" {
			t.Errorf("expected time_range short_term, got %s", tr)
		}
		if limit := query.Get("limit"); limit != "50" {
			t.Errorf("expected limit 50, got %s", limit)
		}
		if offset := query.Get("offset"); offset != "100" {
			t.Errorf("expected offset 100, got %s", offset)
		}

		fmt.Fprint(w, `{
			"items": [
				{"id": "t1", "name": "Yesterday", "popularity": 81,
				 "artists": [{"id": "a1", "name": "The Beatles"}],
				 "album": {"id": "al1", "name": "Help!"}},
				{"id": "t2", "name": "Let It Be", "popularity": 79,
				 "artists": [{"id": "a1", "name": "The Beatles"}],
				 "album": {"id": "al2", "name": "Let It Be"}}
			],
			"total": 123, "limit": 50, "offset": 100,
			"next": "https://api.spotify.com/v1/me/top/tracks?offset=150"
		}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	page, err := client.Top().Tracks(context.Background(), ShortTerm, 50, 100)
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Total != 123 {
		t.Errorf("expected total 123, got %d", page.Total)
	}
	if page.Items[0].Name != "Yesterday" {
		t.Errorf("expected first track Yesterday, got %s", page.Items[0].Name)
	}
	if got := page.Items[0].ArtistNames(); got != "The Beatles" {
		t.Errorf("expected artist The Beatles, got %s", got)
	}
	if page.Next == "" {
		t.Error("expected next page URL to be set")
	}
}

func TestTopService_Artists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/top/artists" {
			t.Errorf("expected path /me/top/artists, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"items": [
				{"id": "a1", "name": "The Beatles", "popularity": 88,
				 "genres": ["rock"], "followers": {"total": 25000000}}
			],
			"total": 1, "limit": 50, "offset": 0
		}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	page, err := client.Top().Artists(context.Background(), MediumTerm, 50, 0)
	if err != nil {
		t.Fatalf("Artists failed: %v", err)
	}

	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(page.Items))
	}
	artist := page.Items[0]
	if artist.Name != "The Beatles" {
		t.Errorf("expected artist The Beatles, got %s", artist.Name)
	}
	if artist.Followers.Total != 25000000 {
		t.Errorf("expected 25000000 followers, got %d", artist.Followers.Total)
	}
	if len(artist.Genres) != 1 || artist.Genres[0] != "rock" {
		t.Errorf("unexpected genres: %v", artist.Genres)
	}
}

func TestTopService_LimitClamping(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		offset    int
		wantLimit string
		wantOff   string
	}{
		{name: "zero limit uses max page size", limit: 0, offset: 0, wantLimit: "50", wantOff: "0"},
		{name: "oversized limit is clamped", limit: 200, offset: 0, wantLimit: "50", wantOff: "0"},
		{name: "small limit is preserved", limit: 10, offset: 20, wantLimit: "10", wantOff: "20"},
		{name: "negative offset is reset", limit: 50, offset: -5, wantLimit: "50", wantOff: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				query := r.URL.Query()
				if limit := query.Get("limit"); limit != tt.wantLimit {
					t.Errorf("expected limit %s, got %s", tt.wantLimit, limit)
				}
				if offset := query.Get("offset"); offset != tt.wantOff {
					t.Errorf("expected offset %s, got %s", tt.wantOff, offset)
				}
				fmt.Fprint(w, `{"items": [], "total": 0, "limit": 50, "offset": 0}`)
			}))
			defer server.Close()

			client := newTestClient(t, server)
			if _, err := client.Top().Tracks(context.Background(), LongTerm, tt.limit, tt.offset); err != nil {
				t.Fatalf("Tracks failed: %v", err)
			}
		})
	}
}

func TestTopService_InvalidTimeRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for an invalid time range")
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.Top().Tracks(context.Background(), TimeRange("last_week"), 50, 0)
	if err == nil {
		t.Fatal("expected error for invalid time range")
	}
}

func TestTopService_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		headers    map[string]string
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "401 maps to AuthError",
			statusCode: http.StatusUnauthorized,
			body:       `{"error": {"status": 401, "message": "The access token expired"}}`,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected *AuthError, got %T: %v", err, err)
				}
				if authErr.StatusCode != 401 {
					t.Errorf("expected status 401, got %d", authErr.StatusCode)
				}
				if authErr.Message != "The access token expired" {
					t.Errorf("unexpected message: %s", authErr.Message)
				}
			},
		},
		{
			name:       "403 maps to AuthError",
			statusCode: http.StatusForbidden,
			body:       `{"error": {"status": 403, "message": "Insufficient client scope"}}`,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected *AuthError, got %T: %v", err, err)
				}
				if authErr.StatusCode != 403 {
					t.Errorf("expected status 403, got %d", authErr.StatusCode)
				}
			},
		},
		{
			name:       "429 maps to RateLimitError with Retry-After",
			statusCode: http.StatusTooManyRequests,
			headers:    map[string]string{"Retry-After": "30"},
			body:       `{"error": {"status": 429, "message": "API rate limit exceeded"}}`,
			check: func(t *testing.T, err error) {
				var rateErr *RateLimitError
				if !errors.As(err, &rateErr) {
					t.Fatalf("expected *RateLimitError, got %T: %v", err, err)
				}
				if rateErr.RetryAfter != 30*time.Second {
					t.Errorf("expected retry after 30s, got %s", rateErr.RetryAfter)
				}
			},
		},
		{
			name:       "500 maps to APIError",
			statusCode: http.StatusInternalServerError,
			body:       `{"error": {"status": 500, "message": "Server error"}}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected *APIError, got %T: %v", err, err)
				}
				if apiErr.StatusCode != 500 {
					t.Errorf("expected status 500, got %d", apiErr.StatusCode)
				}
			},
		},
		{
			name:       "unparseable body falls back to status text",
			statusCode: http.StatusBadGateway,
			body:       "<html>bad gateway</html>",
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected *APIError, got %T: %v", err, err)
				}
				if apiErr.Message != "Bad Gateway" {
					t.Errorf("expected status text fallback, got %q", apiErr.Message)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.statusCode)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server)
			_, err := client.Top().Tracks(context.Background(), MediumTerm, 50, 0)
			if err == nil {
				t.Fatal("expected error but got nil")
			}
			tt.check(t, err)

			// No internal retry: exactly one request per call.
			if requests != 1 {
				t.Errorf("expected exactly 1 request, got %d", requests)
			}
		})
	}
}

func TestUsersService_Me(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("expected path /me, got %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": "wizzler", "display_name": "JM Wizzler", "followers": {"total": 12}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	user, err := client.Users().Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if user.ID != "wizzler" {
		t.Errorf("expected id wizzler, got %s", user.ID)
	}
	if user.DisplayName != "JM Wizzler" {
		t.Errorf("expected display name JM Wizzler, got %s", user.DisplayName)
	}
}
