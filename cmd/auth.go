package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/topspot/topspot/internal/auth"
	"github.com/topspot/topspot/internal/config"
	"github.com/topspot/topspot/pkg/spotify"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Spotify",
	Long: `Authenticate with Spotify to enable fetching your top items.

This command will guide you through the Spotify authentication process:
1. You'll be prompted for your app's client ID and secret if not configured
2. A browser window opens for you to authorize the application
3. The redirect is captured on a local listener and the token pair is
   saved for future runs

You can create app credentials at: https://developer.spotify.com/dashboard
Set the app's Redirect URI to: http://127.0.0.1:8888/callback`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)
	logger := setupLogger()

	// Load existing config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Spotify Authentication")
	fmt.Println("======================")
	fmt.Println()
	fmt.Println("You can create app credentials at: https://developer.spotify.com/dashboard")
	fmt.Println()

	// Check if we already have credentials
	if cfg.Spotify.ClientID != "" && cfg.Spotify.ClientSecret != "" {
		fmt.Printf("Found existing app credentials.\n")
		fmt.Printf("Client ID: %s\n", cfg.Spotify.ClientID)
		fmt.Print("\nUse existing credentials? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			cfg.Spotify.ClientID = ""
			cfg.Spotify.ClientSecret = ""
		}
	}

	// Prompt for client ID if not set
	if cfg.Spotify.ClientID == "" {
		fmt.Print("Enter your Spotify Client ID: ")
		clientID, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read client ID: %w", err)
		}
		cfg.Spotify.ClientID = strings.TrimSpace(clientID)
	}

	// Prompt for client secret if not set
	if cfg.Spotify.ClientSecret == "" {
		fmt.Print("Enter your Spotify Client Secret: ")
		clientSecret, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read client secret: %w", err)
		}
		cfg.Spotify.ClientSecret = strings.TrimSpace(clientSecret)
	}

	// Validate inputs
	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		return fmt.Errorf("client ID and secret are required")
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	store := auth.NewStore(config.TokenFile())
	authenticator, err := auth.New(auth.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		CallbackPort: cfg.CallbackPort,
		Store:        store,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	// A stored refresh token can be renewed without a browser round trip
	existing, err := store.Load()
	if err != nil {
		return err
	}
	if existing != nil && existing.RefreshToken != "" {
		fmt.Println("\nExisting tokens found. Options:")
		fmt.Println("1. Use existing token (refresh if needed)")
		fmt.Println("2. Re-authenticate (new login)")
		fmt.Print("\nChoice (1/2) [1]: ")

		choice, err := reader.ReadString('\n')
		if err != nil {
			choice = "1"
		}
		choice = strings.TrimSpace(choice)

		if choice == "" || choice == "1" {
			token, err := authenticator.Token(ctx)
			if err == nil {
				fmt.Println("\n✓ Token refreshed successfully!")
				return greet(ctx, token.AccessToken)
			}
			fmt.Printf("\nCould not refresh token: %v\n", err)
			fmt.Println("Starting new authentication flow...")
		}
	}

	fmt.Println("\nOpening browser for authorization...")
	fmt.Printf("Waiting for the redirect on http://127.0.0.1:%d/callback\n", cfg.CallbackPort)

	token, err := authenticator.Login(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	fmt.Printf("\n✓ Authentication successful!\n")
	fmt.Printf("✓ Tokens saved to %s\n", store.Path())
	fmt.Println("\nYou can now use 'topspot fetch' to export your top items.")

	return greet(ctx, token.AccessToken)
}

// greet confirms the login by fetching the user's profile.
func greet(ctx context.Context, accessToken string) error {
	client, err := spotify.NewClient(spotify.Config{AccessToken: accessToken})
	if err != nil {
		return err
	}

	user, err := client.Users().Me(ctx)
	if err != nil {
		// The token works for top items even if the profile scope is
		// denied, so a failed greeting is not fatal.
		return nil
	}

	name := user.DisplayName
	if name == "" {
		name = user.ID
	}
	fmt.Printf("\nLogged in as %s\n", name)
	return nil
}
