package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Output directory for exported JSON files
	OutputDir string

	// Maximum number of items to fetch per kind (0 = everything the API reports)
	MaxItems int

	// Whether to keep available_markets fields in exported tracks
	KeepMarkets bool

	// Port for the local OAuth callback listener
	CallbackPort int

	// Spotify application credentials
	Spotify SpotifyConfig
}

// SpotifyConfig holds Spotify specific configuration
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	// Pick up a .env file from the working directory before reading
	// the environment. Missing files are fine.
	_ = godotenv.Load()

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("output_dir", ".")
	v.SetDefault("max_items", 0)
	v.SetDefault("keep_markets", false)
	v.SetDefault("callback_port", 8888)

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("TOPSPOT")
	v.AutomaticEnv()

	// Credentials come from the Spotify developer dashboard and are
	// conventionally exported as SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET.
	_ = v.BindEnv("spotify.client_id", "SPOTIFY_CLIENT_ID")
	_ = v.BindEnv("spotify.client_secret", "SPOTIFY_CLIENT_SECRET")

	// Map config to struct
	cfg := &Config{
		OutputDir:    v.GetString("output_dir"),
		MaxItems:     v.GetInt("max_items"),
		KeepMarkets:  v.GetBool("keep_markets"),
		CallbackPort: v.GetInt("callback_port"),
		Spotify: SpotifyConfig{
			ClientID:     v.GetString("spotify.client_id"),
			ClientSecret: v.GetString("spotify.client_secret"),
		},
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "topspot")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// TokenFile returns the path of the persisted token file.
func TokenFile() string {
	return filepath.Join(getConfigDir(), "tokens.json")
}

// HistoryDB returns the path of the run history database.
func HistoryDB() string {
	return filepath.Join(getConfigDir(), "topspot.db")
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	// Set config file path
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("output_dir", c.OutputDir)
	v.Set("max_items", c.MaxItems)
	v.Set("keep_markets", c.KeepMarkets)
	v.Set("callback_port", c.CallbackPort)
	v.Set("spotify.client_id", c.Spotify.ClientID)
	v.Set("spotify.client_secret", c.Spotify.ClientSecret)

	// Write to file
	return v.WriteConfigAs(configFile)
}
