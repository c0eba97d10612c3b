package main

import (
	"context"
	"fmt"

	"github.com/fax1015/mosu-cli/internal/repositories"
	"github.com/fax1015/mosu-cli/internal/shared"
	"github.com/fax1015/mosu-cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Walk the songs directory and import or update beatmaps",
		ArgsUsage: "[directory]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mapper",
				Aliases: []string{"m"},
				Usage:   "Only import maps whose creator or difficulty matches the filter",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output scan summary as JSON",
			},
		},
		Action: r.Scan,
	}
}

// Scan walks a directory of .osu files and upserts them into the library.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = r.config.Library.SongsDir
	}
	if dir == "" {
		return fmt.Errorf("%w: no directory argument and no library.songs_dir configured", shared.ErrMissingArgument)
	}

	mapperFilter := cmd.String("mapper")
	if mapperFilter == "" {
		mapperFilter = r.config.Library.MapperFilter
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewItemRepository(db)
	engine := r.newEngine(repo, mapperFilter)

	r.logger.Info("starting scan", "dir", dir, "mapper", mapperFilter)
	r.writePlain("Scanning %s...\n", dir)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go r.drainProgress(progressCh)

	result, err := engine.Scan(ctx, progressCh, dir)
	close(progressCh)

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainln("Scan complete")
	r.writePlain("Discovered: %d\n", result.Stats.Discovered)
	r.writePlain("Unchanged:  %d\n", result.Stats.Skipped)
	if result.Stats.Filtered > 0 {
		r.writePlain("Filtered:   %d\n", result.Stats.Filtered)
	}
	r.writePlain("Created:    %d\n", result.Created)
	r.writePlain("Updated:    %d\n", result.Updated)
	if result.Stats.Failed > 0 {
		r.writePlain("Failed:     %d\n", result.Stats.Failed)
	}

	return nil
}
