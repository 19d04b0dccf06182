package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/topspot/topspot/internal/config"
	"github.com/topspot/topspot/internal/history"
	"github.com/topspot/topspot/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse fetch history in a terminal UI",
	Long: `Browse recorded fetch runs in a terminal-based user interface.

The left panel lists past runs, the right panel shows the ranked items
of the selected run.

Press Tab to switch panels and 'q' to quit.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	store, err := history.Open(config.HistoryDB())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	return tui.New(store).Run(context.Background())
}
