package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/fax1015/mosu-cli/internal/repositories"
	"github.com/fax1015/mosu-cli/internal/shared"
	"github.com/fax1015/mosu-cli/internal/ui"
)

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse the library interactively",
		Action: r.TUI,
	}
}

// TUI launches the interactive library browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/mosu-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, log.DebugLevel)
	r.SetLogger(fileLogger)

	repo := repositories.NewItemRepository(db)
	model := ui.NewModel(ctx, repo)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
