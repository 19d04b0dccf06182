package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/topspot/topspot/internal/config"
	"github.com/topspot/topspot/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past fetch runs",
	Long: `List recorded fetch runs, newest first.

Every 'topspot fetch' records one run per item kind with the time range,
item count and output file.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to list (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := history.Open(config.HistoryDB())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Run 'topspot fetch' first.")
		return nil
	}

	fmt.Printf("%s %s %s %s %s\n",
		pad("WHEN", 17), pad("KIND", 8), pad("RANGE", 12), pad("ITEMS", 6), "FILE")
	for _, run := range runs {
		fmt.Printf("%s %s %s %s %s\n",
			pad(run.FetchedAt.Format("2006-01-02 15:04"), 17),
			pad(run.Kind, 8),
			pad(run.TimeRange, 12),
			pad(fmt.Sprintf("%d", run.ItemCount), 6),
			run.OutputFile)
	}

	return nil
}

// pad pads or truncates text to a fixed display width, measured in
// display columns so wide characters line up.
func pad(text string, width int) string {
	current := runewidth.StringWidth(text)
	if current > width {
		return runewidth.Truncate(text, width, "…")
	}
	return text + strings.Repeat(" ", width-current)
}
