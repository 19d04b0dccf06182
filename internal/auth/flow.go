package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/topspot/topspot/pkg/spotify"
	"golang.org/x/oauth2"
	spotifyoauth "golang.org/x/oauth2/spotify"
)

// Scopes requested during authorization. user-top-read is what the
// top items endpoints require; the profile scopes let the tool greet
// the user after login.
var Scopes = []string{"user-top-read", "user-read-private", "user-read-email"}

// ErrNotAuthenticated is returned when no usable token pair exists.
var ErrNotAuthenticated = errors.New("auth: not authenticated, run 'topspot auth' first")

// Config holds authenticator configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	CallbackPort int              // Port for the local callback listener
	Store        *Store           // Required: token persistence
	Logger       zerolog.Logger   // Logger for flow progress
	Endpoint     *oauth2.Endpoint // Optional: override the accounts service (used for testing)

	// OpenBrowser overrides how the consent URL is opened (used for testing).
	OpenBrowser func(url string) error
}

// Authenticator performs the authorization-code and refresh-token
// exchanges against the Spotify accounts service and keeps the token
// store up to date.
type Authenticator struct {
	oauth       *oauth2.Config
	store       *Store
	logger      zerolog.Logger
	port        int
	openBrowser func(url string) error
}

// New creates an Authenticator.
func New(cfg Config) (*Authenticator, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("auth: client id and secret are required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("auth: token store is required")
	}

	port := cfg.CallbackPort
	if port == 0 {
		port = 8888
	}

	endpoint := spotifyoauth.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}

	openBrowser := cfg.OpenBrowser
	if openBrowser == nil {
		openBrowser = openURLInBrowser
	}

	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  fmt.Sprintf("http://127.0.0.1:%d/callback", port),
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		store:       cfg.Store,
		logger:      cfg.Logger.With().Str("component", "auth").Logger(),
		port:        port,
		openBrowser: openBrowser,
	}, nil
}

// callbackResult carries the outcome of the browser redirect.
type callbackResult struct {
	code string
	err  error
}

// Login runs the interactive authorization-code flow: it opens the
// consent page in a browser, captures the redirect on a short-lived
// local listener, exchanges the code and persists the token pair.
//
// The listener is shut down as soon as a code or error is captured.
func (a *Authenticator) Login(ctx context.Context) (*oauth2.Token, error) {
	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if errParam := query.Get("error"); errParam != "" {
			http.Error(w, "Authentication failed: "+errParam, http.StatusBadRequest)
			results <- callbackResult{err: &spotify.AuthError{StatusCode: http.StatusBadRequest, Message: errParam}}
			return
		}

		if query.Get("state") != state {
			http.Error(w, "State mismatch", http.StatusForbidden)
			results <- callbackResult{err: fmt.Errorf("auth: state mismatch in callback")}
			return
		}

		code := query.Get("code")
		if code == "" {
			http.Error(w, "Invalid callback", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("auth: callback carried no code")}
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, successPage)
		results <- callbackResult{code: code}
	})

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", a.port))
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener on port %d: %w", a.port, err)
	}

	server := &http.Server{Handler: mux}
	go func() {
		_ = server.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := a.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
	a.logger.Info().Str("url", authURL).Msg("Opening browser for authorization")
	if err := a.openBrowser(authURL); err != nil {
		a.logger.Warn().Err(err).Msg("Could not open browser, visit the URL manually")
	}

	var result callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result = <-results:
	}
	if result.err != nil {
		return nil, result.err
	}

	token, err := a.oauth.Exchange(ctx, result.code)
	if err != nil {
		return nil, wrapOAuthError(err)
	}

	if err := a.store.Save(token); err != nil {
		return nil, err
	}

	a.logger.Info().Time("expires", token.Expiry).Msg("Authentication successful, tokens saved")
	return token, nil
}

// Refresh exchanges the stored refresh token for a fresh access token
// and persists the result. When the response omits a refresh token the
// previous one is kept.
func (a *Authenticator) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	if token == nil || token.RefreshToken == "" {
		return nil, ErrNotAuthenticated
	}

	a.logger.Debug().Msg("Refreshing access token")

	source := a.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken})
	fresh, err := source.Token()
	if err != nil {
		return nil, wrapOAuthError(err)
	}

	if fresh.RefreshToken == "" {
		fresh.RefreshToken = token.RefreshToken
	}

	if err := a.store.Save(fresh); err != nil {
		return nil, err
	}

	return fresh, nil
}

// Token returns a token that is valid for at least expirySkew.
//
// The stored token is returned as-is while it is still valid; an
// expired token is refreshed before it is handed out, so no request
// is ever made with a token past its expiry.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	token, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrNotAuthenticated
	}

	if Valid(token) {
		return token, nil
	}

	return a.Refresh(ctx, token)
}

// wrapOAuthError maps token endpoint failures to the SDK's AuthError
// so callers see one error vocabulary for credential problems.
func wrapOAuthError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		message := retrieveErr.ErrorDescription
		if message == "" {
			message = retrieveErr.ErrorCode
		}
		if message == "" {
			message = string(retrieveErr.Body)
		}
		statusCode := http.StatusUnauthorized
		if retrieveErr.Response != nil {
			statusCode = retrieveErr.Response.StatusCode
		}
		return &spotify.AuthError{StatusCode: statusCode, Message: message}
	}
	return err
}

// randomState generates an unguessable state parameter for the
// authorization request.
func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// openURLInBrowser opens the URL with the platform's default browser.
func openURLInBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}

const successPage = `<html>
<head><title>Authentication Successful</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
  <h1 style="color: #1DB954;">Authentication successful</h1>
  <p>You can close this window and return to the terminal.</p>
</body>
</html>`
