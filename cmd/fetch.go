package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/topspot/topspot/internal/auth"
	"github.com/topspot/topspot/internal/config"
	"github.com/topspot/topspot/internal/export"
	"github.com/topspot/topspot/internal/fetcher"
	"github.com/topspot/topspot/internal/history"
	"github.com/topspot/topspot/pkg/spotify"
)

var (
	fetchTimeRange   string
	fetchMaxItems    int
	fetchKeepMarkets bool
	fetchOutputDir   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and export your top tracks and artists",
	Long: `Fetch your top tracks and artists for a time range and export them
to JSON files in the output directory.

The time range selects the aggregation window Spotify uses:
  short_term  - ~last 4 weeks
  medium_term - ~last 6 months
  long_term   - ~last year

Without --time-range the command asks interactively. Each export is
recorded in the local history ('topspot history' lists it, 'topspot tui'
browses it).`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchTimeRange, "time-range", "t", "", "Time range (short_term, medium_term, long_term)")
	fetchCmd.Flags().IntVar(&fetchMaxItems, "max-items", 0, "Maximum items to fetch per kind (0 = all)")
	fetchCmd.Flags().BoolVar(&fetchKeepMarkets, "keep-markets", false, "Keep available_markets fields (increases file size significantly)")
	fetchCmd.Flags().StringVarP(&fetchOutputDir, "output-dir", "o", "", "Output directory (defaults to config value)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := setupLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		return fmt.Errorf("missing Spotify credentials: set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET or run 'topspot auth'")
	}

	// Flags override config
	maxItems := cfg.MaxItems
	if cmd.Flags().Changed("max-items") {
		maxItems = fetchMaxItems
	}
	keepMarkets := cfg.KeepMarkets || fetchKeepMarkets
	outputDir := cfg.OutputDir
	if fetchOutputDir != "" {
		outputDir = fetchOutputDir
	}

	timeRange, err := chooseTimeRange(fetchTimeRange)
	if err != nil {
		return err
	}

	// The token is validated (and refreshed when expired) before any
	// API request goes out.
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

	token, err := authenticator.Token(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			return fmt.Errorf("not authenticated: run 'topspot auth' first")
		}
		return explainAPIError(err)
	}

	client, err := spotify.NewClient(spotify.Config{AccessToken: token.AccessToken})
	if err != nil {
		return err
	}

	f := fetcher.New(client, maxItems, logger)
	exporter := export.New(outputDir, keepMarkets)

	hist, err := history.Open(config.HistoryDB())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hist.Close()

	fmt.Printf("Fetching top tracks (%s)...\n", timeRange)
	tracks, err := f.TopTracks(ctx, timeRange)
	if err != nil {
		return explainAPIError(err)
	}

	tracksFile, err := exporter.WriteTracks(tracks, timeRange)
	if err != nil {
		return err
	}
	if err := recordTracksRun(ctx, hist, tracks, timeRange, tracksFile); err != nil {
		logger.Warn().Err(err).Msg("Failed to record tracks run")
	}

	fmt.Printf("Fetching top artists (%s)...\n", timeRange)
	artists, err := f.TopArtists(ctx, timeRange)
	if err != nil {
		return explainAPIError(err)
	}

	artistsFile, err := exporter.WriteArtists(artists, timeRange)
	if err != nil {
		return err
	}
	if err := recordArtistsRun(ctx, hist, artists, timeRange, artistsFile); err != nil {
		logger.Warn().Err(err).Msg("Failed to record artists run")
	}

	fmt.Println("\n✓ Fetch completed successfully!")
	fmt.Println("Statistics:")
	fmt.Printf("  Tracks:  %d fetched -> %s\n", len(tracks), tracksFile)
	fmt.Printf("  Artists: %d fetched -> %s\n", len(artists), artistsFile)
	fmt.Printf("  Period:  %s\n", timeRange)

	if len(tracks) > 0 {
		fmt.Println("\nTop 5 Tracks:")
		fmt.Print(export.TrackSummary(tracks))
	}
	if len(artists) > 0 {
		fmt.Println("\nTop 5 Artists:")
		fmt.Print(export.ArtistSummary(artists))
	}

	return nil
}

// chooseTimeRange resolves the time range from the flag, or asks
// interactively the way the tool always has.
func chooseTimeRange(flagValue string) (spotify.TimeRange, error) {
	if flagValue != "" {
		return spotify.ParseTimeRange(flagValue)
	}

	fmt.Println("Fetch options:")
	fmt.Println("  1. short_term  - ~last 4 weeks")
	fmt.Println("  2. medium_term - ~last 6 months (default)")
	fmt.Println("  3. long_term   - ~last year")
	fmt.Print("\nChoose time period (1/2/3) [2]: ")

	reader := bufio.NewReader(os.Stdin)
	choice, err := reader.ReadString('\n')
	if err != nil {
		choice = "2"
	}

	switch strings.TrimSpace(choice) {
	case "1":
		return spotify.ShortTerm, nil
	case "3":
		return spotify.LongTerm, nil
	default:
		return spotify.MediumTerm, nil
	}
}

// explainAPIError attaches operator guidance to the SDK's typed errors.
func explainAPIError(err error) error {
	var authErr *spotify.AuthError
	if errors.As(err, &authErr) {
		if authErr.StatusCode == 403 {
			return fmt.Errorf("%w\ncheck the app's Redirect URI and scopes on the developer dashboard", err)
		}
		return fmt.Errorf("%w\nre-authenticate with 'topspot auth'", err)
	}

	var rateErr *spotify.RateLimitError
	if errors.As(err, &rateErr) {
		if rateErr.RetryAfter > 0 {
			return fmt.Errorf("%w\nwait %s and run the command again", err, rateErr.RetryAfter)
		}
		return fmt.Errorf("%w\nwait a while and run the command again", err)
	}

	return err
}

func recordTracksRun(ctx context.Context, hist *history.Store, tracks []spotify.Track, timeRange spotify.TimeRange, file string) error {
	items := make([]history.Item, len(tracks))
	for i, track := range tracks {
		items[i] = history.Item{
			Rank:       i + 1,
			Name:       track.Name,
			Detail:     track.ArtistNames(),
			SpotifyID:  track.ID,
			Popularity: track.Popularity,
		}
	}

	_, err := hist.RecordRun(ctx, history.Run{
		Kind:       string(export.KindTracks),
		TimeRange:  timeRange.String(),
		ItemCount:  len(tracks),
		OutputFile: file,
	}, items)
	return err
}

func recordArtistsRun(ctx context.Context, hist *history.Store, artists []spotify.Artist, timeRange spotify.TimeRange, file string) error {
	items := make([]history.Item, len(artists))
	for i, artist := range artists {
		detail := ""
		if len(artist.Genres) > 0 {
			detail = artist.Genres[0]
		}
		items[i] = history.Item{
			Rank:       i + 1,
			Name:       artist.Name,
			Detail:     detail,
			SpotifyID:  artist.ID,
			Popularity: artist.Popularity,
		}
	}

	_, err := hist.RecordRun(ctx, history.Run{
		Kind:       string(export.KindArtists),
		TimeRange:  timeRange.String(),
		ItemCount:  len(artists),
		OutputFile: file,
	}, items)
	return err
}
