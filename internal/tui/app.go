// Package tui implements a terminal browser over the fetch history.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/topspot/topspot/internal/history"
)

// App is the TUI application for browsing recorded fetch runs.
type App struct {
	app   *tview.Application
	store *history.Store

	runs    *tview.List
	items   *tview.Table
	status  *tview.TextView
	runList []history.Run
}

// New creates a TUI application over the given history store.
func New(store *history.Store) *App {
	a := &App{
		app:   tview.NewApplication(),
		store: store,
	}
	a.setupUI()
	return a
}

// setupUI creates the UI layout
func (a *App) setupUI() {
	a.runs = tview.NewList().ShowSecondaryText(true)
	a.runs.SetBorder(true).
		SetTitle(" Runs ").
		SetTitleAlign(tview.AlignLeft)

	a.items = tview.NewTable().SetSelectable(true, false)
	a.items.SetBorder(true).
		SetTitle(" Items ").
		SetTitleAlign(tview.AlignLeft)

	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[gray]Tab: switch panel | q: quit[-]")

	columns := tview.NewFlex().
		AddItem(a.runs, 0, 1, true).
		AddItem(a.items, 0, 2, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(columns, 0, 1, true).
		AddItem(a.status, 1, 1, false)

	a.runs.SetChangedFunc(func(index int, _, _ string, _ rune) {
		a.showRun(index)
	})

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q':
			a.app.Stop()
			return nil
		}
		if event.Key() == tcell.KeyTab {
			if a.runs.HasFocus() {
				a.app.SetFocus(a.items)
			} else {
				a.app.SetFocus(a.runs)
			}
			return nil
		}
		return event
	})

	a.app.SetRoot(flex, true)
}

// Run loads the history and blocks until the user quits.
func (a *App) Run(ctx context.Context) error {
	runs, err := a.store.ListRuns(ctx, 50)
	if err != nil {
		return fmt.Errorf("failed to load runs: %w", err)
	}
	a.runList = runs

	if len(runs) == 0 {
		a.runs.AddItem("No runs recorded", "Run 'topspot fetch' first", 0, nil)
	}
	for _, run := range runs {
		main := fmt.Sprintf("%s (%s)", run.Kind, run.TimeRange)
		secondary := fmt.Sprintf("%d items, %s", run.ItemCount, run.FetchedAt.Format("2006-01-02 15:04"))
		a.runs.AddItem(main, secondary, 0, nil)
	}
	if len(runs) > 0 {
		a.showRun(0)
	}

	return a.app.Run()
}

// showRun fills the item table with the selected run's entries.
func (a *App) showRun(index int) {
	a.items.Clear()

	headers := []string{"#", "Name", "Detail", "Popularity"}
	for col, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false)
		a.items.SetCell(0, col, cell)
	}

	if index < 0 || index >= len(a.runList) {
		return
	}
	run := a.runList[index]

	items, err := a.store.RunItems(context.Background(), run.ID)
	if err != nil {
		a.items.SetCell(1, 0, tview.NewTableCell("error: "+err.Error()))
		return
	}

	for row, item := range items {
		a.items.SetCell(row+1, 0, tview.NewTableCell(strconv.Itoa(item.Rank)))
		a.items.SetCell(row+1, 1, tview.NewTableCell(item.Name).SetExpansion(2))
		a.items.SetCell(row+1, 2, tview.NewTableCell(item.Detail).SetExpansion(1))
		a.items.SetCell(row+1, 3, tview.NewTableCell(strconv.Itoa(item.Popularity)))
	}
	a.items.ScrollToBeginning()
}
