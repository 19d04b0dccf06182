package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// expirySkew is how close to expiry a token may get before it is
// treated as expired. Refreshing slightly early keeps requests from
// racing the real expiry under clock drift.
const expirySkew = 30 * time.Second

// Store persists the OAuth token pair between runs.
//
// Tokens are stored as indented JSON in a single file, readable enough
// to inspect by hand, and written atomically so a crash mid-write never
// leaves a truncated file behind.
type Store struct {
	path string
}

// NewStore creates a token store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted token.
// Returns (nil, nil) when no token has been saved yet.
func (s *Store) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}

// Save persists the token to disk.
func (s *Store) Save(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	// Write atomically via temp file + rename
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return os.Rename(tmpPath, s.path)
}

// Path returns the file path the store writes to.
func (s *Store) Path() string {
	return s.path
}

// Valid reports whether the token can still authorize a request.
// A token within expirySkew of its expiry counts as expired.
func Valid(token *oauth2.Token) bool {
	if token == nil || token.AccessToken == "" {
		return false
	}
	if token.Expiry.IsZero() {
		return true
	}
	return time.Now().Add(expirySkew).Before(token.Expiry)
}
