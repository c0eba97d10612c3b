package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fax1015/mosu-cli/internal/beatmap"
	"github.com/fax1015/mosu-cli/internal/library"
	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/repositories"
	"github.com/fax1015/mosu-cli/internal/services"
)

// ScanRunResult contains all data from a completed directory scan.
type ScanRunResult struct {
	Stats   library.Stats // Discovery/skip/filter/parse counters
	Created int           // Items inserted for newly seen files
	Updated int           // Items refreshed for changed files
}

// SyncRunResult contains the outcome of an embed sync.
type SyncRunResult struct {
	ItemCount int                  // Items included in the payload
	Result    *services.SyncResult // Endpoint response
}

// RefreshRunResult contains the outcome of a duration refresh.
type RefreshRunResult struct {
	Probed   int // Items whose audio decoded successfully
	Fallback int // Items that fell back to the object timeline
	Updated  int // Items persisted with new duration and ranges
}

// ProbeFunc resolves an audio file's duration in milliseconds.
type ProbeFunc func(audioPath string) (int, error)

// Syncer uploads the public library view.
type Syncer interface {
	Sync(ctx context.Context, items []*models.Item) (*services.SyncResult, error)
}

// LibraryEngine defines the long-running library operations.
type LibraryEngine interface {
	// Scan walks dir, parses new and changed beatmaps, and upserts them.
	Scan(ctx context.Context, progress chan<- ProgressUpdate, dir string) (*ScanRunResult, error)

	// Sync serializes the library and POSTs it to the embed endpoint.
	Sync(ctx context.Context, progress chan<- ProgressUpdate) (*SyncRunResult, error)

	// Refresh re-probes audio durations and recomputes highlight ranges.
	Refresh(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshRunResult, error)
}

// Engine implements LibraryEngine over the item repository, the directory
// scanner, and the embed service.
type Engine struct {
	repo    *repositories.ItemRepository
	scanner *library.Scanner
	embed   Syncer
	probe   ProbeFunc
}

// NewEngine creates an Engine with the provided collaborators. probe may be
// nil, in which case Refresh keeps the object-timeline durations.
func NewEngine(repo *repositories.ItemRepository, scanner *library.Scanner, embed Syncer, probe ProbeFunc) *Engine {
	return &Engine{
		repo:    repo,
		scanner: scanner,
		embed:   embed,
		probe:   probe,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Scan walks dir and upserts parsed items, preserving user fields (done,
// tags, schedule) on items that already exist.
func (e *Engine) Scan(ctx context.Context, progress chan<- ProgressUpdate, dir string) (*ScanRunResult, error) {
	e.sendProgress(progress, discoverUpdate(dir))

	known, err := e.repo.KnownFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load scan cache: %w", err)
	}

	result := &ScanRunResult{}
	var persistErr error

	stats, err := e.scanner.Scan(ctx, dir, known, func(batch []*models.Item) {
		if persistErr != nil {
			return
		}
		for _, item := range batch {
			if err := e.upsert(item); err != nil {
				persistErr = err
				return
			}
			if item.Sequence() > 0 {
				result.Created++
			} else {
				result.Updated++
			}
		}
		e.sendProgress(progress, persistBatchUpdate(result.Created+result.Updated))
	})
	if err != nil {
		return nil, err
	}
	if persistErr != nil {
		return nil, persistErr
	}

	result.Stats = stats
	e.sendProgress(progress, parseBatchUpdate(stats.Parsed, stats.Parsed))
	return result, nil
}

// upsert inserts a freshly scanned item or folds its scan fields into the
// existing row, leaving user fields untouched. Newly created items come back
// with a sequence assigned, which Scan uses to tell the two cases apart.
func (e *Engine) upsert(item *models.Item) error {
	existing, err := e.repo.GetByPath(item.FilePath())
	if err != nil {
		return e.repo.Create(item)
	}

	existing.SetMtimeMS(item.MtimeMS())
	existing.SetMetadata(item.Metadata())
	existing.SetDurationMS(item.DurationMS())
	existing.SetHighlights(item.Highlights())
	if err := e.repo.Update(existing); err != nil {
		return err
	}
	item.SetID(existing.ID())
	return nil
}

// Sync uploads the public projection of every live item.
func (e *Engine) Sync(ctx context.Context, progress chan<- ProgressUpdate) (*SyncRunResult, error) {
	items, err := e.repo.List(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	e.sendProgress(progress, syncCollectUpdate(len(items)))

	e.sendProgress(progress, syncUploadUpdate())
	result, err := e.embed.Sync(ctx, items)
	if err != nil {
		return nil, err
	}

	return &SyncRunResult{ItemCount: len(items), Result: result}, nil
}

// Refresh re-reads every item's beatmap, probes the audio duration, and
// recomputes the highlight ranges against it. Items whose files are gone
// are soft-deleted.
func (e *Engine) Refresh(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshRunResult, error) {
	items, err := e.repo.List(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	result := &RefreshRunResult{}
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		e.sendProgress(progress, refreshProbeUpdate(i+1, len(items), item.DisplayName()))

		content, err := os.ReadFile(item.FilePath())
		if err != nil {
			if removeErr := e.repo.Delete(item.ID()); removeErr != nil {
				return result, removeErr
			}
			continue
		}

		parsed := beatmap.Parse(string(content))
		durationMS := parsed.LastObjectEnd()
		probed := false
		if e.probe != nil && parsed.Metadata.Audio != "" {
			audioPath := filepath.Join(filepath.Dir(item.FilePath()), parsed.Metadata.Audio)
			if d, err := e.probe(audioPath); err == nil && d > 0 {
				durationMS = d
				probed = true
			}
		}
		if probed {
			result.Probed++
		} else {
			result.Fallback++
		}

		highlights, err := beatmap.MarshalRanges(beatmap.BuildAll(parsed, durationMS))
		if err != nil {
			return result, fmt.Errorf("failed to encode highlights: %w", err)
		}

		item.SetDurationMS(durationMS)
		item.SetHighlights(highlights)
		if err := e.repo.Update(item); err != nil {
			return result, err
		}
		result.Updated++
		e.sendProgress(progress, refreshPersistUpdate(result.Updated, len(items)))
	}

	return result, nil
}
