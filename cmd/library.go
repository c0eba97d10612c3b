package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fax1015/mosu-cli/internal/formatter"
	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/repositories"
	"github.com/fax1015/mosu-cli/internal/shared"
	"github.com/fax1015/mosu-cli/internal/tasks"
	"github.com/urfave/cli/v3"
)

func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Browse and annotate imported beatmaps",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List beatmaps in the library",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "done", Usage: "Only show completed maps"},
					&cli.BoolFlag{Name: "todo", Usage: "Only show pending maps"},
					&cli.StringFlag{Name: "creator", Usage: "Filter by mapper name"},
					&cli.StringFlag{Name: "tag", Usage: "Filter by tag"},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
				},
				Action: r.LibraryList,
			},
			{
				Name:      "done",
				Usage:     "Mark a beatmap as completed",
				ArgsUsage: "<id-or-path>",
				Action:    r.LibraryDone,
			},
			{
				Name:      "todo",
				Usage:     "Mark a beatmap as pending",
				ArgsUsage: "<id-or-path>",
				Action:    r.LibraryTodo,
			},
			{
				Name:      "tag",
				Usage:     "Replace the tags on a beatmap",
				ArgsUsage: "<id-or-path> <tags>",
				Action:    r.LibraryTag,
			},
			{
				Name:      "schedule",
				Usage:     "Schedule a beatmap for a date (YYYY-MM-DD), or clear with 'none'",
				ArgsUsage: "<id-or-path> <date>",
				Action:    r.LibrarySchedule,
			},
			{
				Name:      "remove",
				Usage:     "Remove a beatmap from the library",
				ArgsUsage: "<id-or-path>",
				Action:    r.LibraryRemove,
			},
			{
				Name:  "export",
				Usage: "Export the library to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "library",
					},
				},
				Action: r.LibraryExport,
			},
			{
				Name:   "refresh",
				Usage:  "Re-parse every imported beatmap and prune missing files",
				Action: r.LibraryRefresh,
			},
		},
	}
}

// LibraryList prints library items matching the given filters.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repositories.NewItemRepository(db)

	criteria := map[string]any{}
	if cmd.Bool("done") && cmd.Bool("todo") {
		return fmt.Errorf("%w: cannot combine --done and --todo", shared.ErrInvalidFlag)
	}
	if cmd.Bool("done") {
		criteria["done"] = true
	}
	if cmd.Bool("todo") {
		criteria["done"] = false
	}
	if creator := cmd.String("creator"); creator != "" {
		criteria["creator"] = creator
	}
	if tag := cmd.String("tag"); tag != "" {
		criteria["tag"] = tag
	}

	items, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(itemSummaries(items), true)
	}

	if len(items) == 0 {
		r.writePlain("No beatmaps found\n")
		return nil
	}

	r.writePlain("Maps: %d\n", len(items))
	for i, item := range items {
		r.writePlain("%d. [%s] %s (%s)\n", i+1, shared.StatusString(item.Done()), item.DisplayName(), shared.FormatDuration(item.DurationMS()))
		if item.Tags() != "" {
			r.writePlain("   tags: %s\n", item.Tags())
		}
		if item.ScheduledAt() != nil {
			r.writePlain("   scheduled: %s\n", item.ScheduledAt().Format("2006-01-02"))
		}
	}

	return nil
}

// LibraryDone marks an item as completed.
func (r *Runner) LibraryDone(ctx context.Context, cmd *cli.Command) error {
	return r.setDone(cmd, true)
}

// LibraryTodo marks an item as pending.
func (r *Runner) LibraryTodo(ctx context.Context, cmd *cli.Command) error {
	return r.setDone(cmd, false)
}

func (r *Runner) setDone(cmd *cli.Command, done bool) error {
	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("%w: item id or path required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repositories.NewItemRepository(db)

	item, err := r.resolveItem(repo, ref)
	if err != nil {
		return err
	}

	item.SetDone(done)
	if err := repo.Update(item); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	r.writePlain("%s → %s\n", item.DisplayName(), shared.StatusString(done))
	return nil
}

// LibraryTag replaces an item's tags.
func (r *Runner) LibraryTag(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("%w: item id or path required", shared.ErrMissingArgument)
	}
	tags := strings.Join(cmd.Args().Tail(), " ")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repositories.NewItemRepository(db)

	item, err := r.resolveItem(repo, ref)
	if err != nil {
		return err
	}

	item.SetTags(tags)
	if err := repo.Update(item); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if tags == "" {
		r.writePlain("Cleared tags on %s\n", item.DisplayName())
	} else {
		r.writePlain("Tagged %s: %s\n", item.DisplayName(), tags)
	}
	return nil
}

// LibrarySchedule sets or clears an item's scheduled date.
func (r *Runner) LibrarySchedule(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.Args().First()
	dateArg := cmd.Args().Get(1)
	if ref == "" || dateArg == "" {
		return fmt.Errorf("%w: item id and date required", shared.ErrMissingArgument)
	}

	var scheduled *time.Time
	if dateArg != "none" {
		parsed, err := time.Parse("2006-01-02", dateArg)
		if err != nil {
			return fmt.Errorf("%w: date must be YYYY-MM-DD or 'none'", shared.ErrInvalidArgument)
		}
		scheduled = &parsed
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repositories.NewItemRepository(db)

	item, err := r.resolveItem(repo, ref)
	if err != nil {
		return err
	}

	item.SetScheduledAt(scheduled)
	if err := repo.Update(item); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if scheduled == nil {
		r.writePlain("Cleared schedule for %s\n", item.DisplayName())
	} else {
		r.writePlain("Scheduled %s for %s\n", item.DisplayName(), scheduled.Format("2006-01-02"))
	}
	return nil
}

// LibraryRemove soft deletes an item from the library.
func (r *Runner) LibraryRemove(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("%w: item id or path required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repositories.NewItemRepository(db)

	item, err := r.resolveItem(repo, ref)
	if err != nil {
		return err
	}

	if err := repo.Delete(item.ID()); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}

	r.writePlain("Removed %s\n", item.DisplayName())
	return nil
}

// LibraryExport writes the library to a file in the requested format.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repositories.NewItemRepository(db)

	items, err := repo.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	result, err := formatter.WriteExport(items, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.writePlain("Exported %d maps to %s\n", len(items), result.File)
	return nil
}

// LibraryRefresh re-parses every item and prunes items whose files are gone.
func (r *Runner) LibraryRefresh(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := repositories.NewItemRepository(db)
	engine := r.newEngine(repo, "")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go r.drainProgress(progressCh)

	result, err := engine.Refresh(ctx, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("Refreshed %d maps (%d probed, %d fallback)\n", result.Updated, result.Probed, result.Fallback)
	return nil
}

type itemSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Creator     string `json:"creator"`
	Version     string `json:"version"`
	Mode        int    `json:"mode"`
	DurationMS  int    `json:"duration_ms"`
	Done        bool   `json:"done"`
	Tags        string `json:"tags,omitempty"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
	FilePath    string `json:"file_path"`
}

func itemSummaries(items []*models.Item) []itemSummary {
	summaries := make([]itemSummary, 0, len(items))
	for _, item := range items {
		meta := item.Metadata()
		summary := itemSummary{
			ID:         item.ID(),
			Title:      meta.Title,
			Artist:     meta.Artist,
			Creator:    meta.Creator,
			Version:    meta.Version,
			Mode:       meta.Mode,
			DurationMS: item.DurationMS(),
			Done:       item.Done(),
			Tags:       item.Tags(),
			FilePath:   item.FilePath(),
		}
		if item.ScheduledAt() != nil {
			summary.ScheduledAt = item.ScheduledAt().Format("2006-01-02")
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
