package spotify

import (
	"fmt"
	"net/http"
)

// Config holds client configuration.
type Config struct {
	AccessToken string       // Required: OAuth access token for resource requests
	HTTPClient  *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL     string       // Optional: Base URL for API (defaults to the Web API, used for testing)
	Logger      Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Spotify Web API operations.
type Client struct {
	accessToken string
	httpClient  *http.Client
	baseURL     string
	logger      Logger

	top   *TopService
	users *UsersService
}

const (
	// DefaultBaseURL is the default Spotify Web API endpoint.
	DefaultBaseURL = "https://api.spotify.com/v1"
)

// NewClient creates a new Spotify Web API client.
//
// Returns an error if the required access token is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("spotify: AccessToken is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		accessToken: cfg.AccessToken,
		httpClient:  httpClient,
		baseURL:     baseURL,
		logger:      cfg.Logger,
	}

	c.top = &TopService{client: c}
	c.users = &UsersService{client: c}

	return c, nil
}

// Top returns the top items service.
func (c *Client) Top() *TopService {
	return c.top
}

// Users returns the user profile service.
func (c *Client) Users() *UsersService {
	return c.users
}

// SetAccessToken replaces the access token used for requests.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// GetAccessToken returns the current access token.
func (c *Client) GetAccessToken() string {
	return c.accessToken
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
