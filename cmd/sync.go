package main

import (
	"context"
	"fmt"

	"github.com/fax1015/mosu-cli/internal/repositories"
	"github.com/fax1015/mosu-cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Upload the library snapshot to the configured embed service",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output sync result as JSON",
			},
		},
		Action: r.Sync,
	}
}

// Sync pushes the current library state to the embed endpoint.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewItemRepository(db)
	engine := r.newEngine(repo, "")

	r.logger.Info("syncing library", "url", r.config.Embed.URL)

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go r.drainProgress(progressCh)

	result, err := engine.Sync(ctx, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	if result.Result.Success {
		r.writePlain("Synced %d maps\n", result.ItemCount)
	} else {
		r.writePlain("Sync rejected with status %d\n", result.Result.Status)
		if result.Result.Body != "" {
			r.writePlain("%s\n", result.Result.Body)
		}
		return fmt.Errorf("embed service returned status %d", result.Result.Status)
	}

	return nil
}
