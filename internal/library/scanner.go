package library

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/fax1015/mosu-cli/internal/beatmap"
	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/shared"
)

const (
	// headerReadSize bounds the cheap pre-filter read. Creator and Version
	// live in [Metadata], well inside the first 8KB of any .osu file.
	headerReadSize = 8 * 1024

	defaultBatchSize = 50

	// mtimeEpsilonMS absorbs filesystem timestamp rounding between scans.
	mtimeEpsilonMS = 0.5
)

// FileStat is one discovered .osu file with its modification time in
// milliseconds since the epoch.
type FileStat struct {
	Path    string
	MtimeMS float64
}

// Options configures a [Scanner]. The zero value scans everything with
// sensible defaults.
type Options struct {
	// MapperFilter is a comma-separated list of terms; when non-empty, only
	// files whose creator or version contains one of them (case-insensitive)
	// are parsed.
	MapperFilter string
	// Workers bounds concurrent file parses; <= 0 means GOMAXPROCS.
	Workers int
	// BatchSize is how many items accumulate before emit fires; <= 0 means 50.
	BatchSize int
	// ProbeDuration resolves the audio file's duration in milliseconds.
	// Optional; when nil or failing, the last object's end time is used.
	ProbeDuration func(audioPath string) (int, error)
}

// Stats summarizes a completed scan.
type Stats struct {
	Discovered int
	Skipped    int
	Filtered   int
	Parsed     int
	Failed     int
}

// Scanner turns a songs directory into library items.
type Scanner struct {
	logger *log.Logger
	opts   Options
}

// NewScanner creates a Scanner with the given options
func NewScanner(logger *log.Logger, opts Options) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Scanner{logger: shared.WithLogger(logger, "component", "scanner"), opts: opts}
}

// Discover walks dir collecting every .osu file with its mtime. Unreadable
// subtrees are logged and skipped rather than failing the scan.
func (s *Scanner) Discover(dir string) ([]FileStat, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat songs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotADirectory, dir)
	}

	var files []FileStat
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".osu") {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping unstatable file", "path", path, "error", err)
			return nil
		}
		files = append(files, FileStat{
			Path:    path,
			MtimeMS: float64(fi.ModTime().UnixMilli()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk songs directory: %w", err)
	}

	return files, nil
}

// Scan discovers, filters, and parses .osu files under dir, emitting parsed
// items in batches. known maps file path to the mtime recorded by the last
// scan; files whose mtime is unchanged are skipped without being opened.
// emit is called from a single goroutine.
func (s *Scanner) Scan(ctx context.Context, dir string, known map[string]float64, emit func(batch []*models.Item)) (Stats, error) {
	files, err := s.Discover(dir)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Discovered: len(files)}
	filters := splitFilter(s.opts.MapperFilter)

	var pending []FileStat
	for _, f := range files {
		if cached, ok := known[f.Path]; ok && math.Abs(cached-f.MtimeMS) < mtimeEpsilonMS {
			stats.Skipped++
			continue
		}
		if len(filters) > 0 && !s.headerMatches(f.Path, filters) {
			stats.Filtered++
			continue
		}
		pending = append(pending, f)
	}

	var failed atomic.Int64
	items := make(chan *models.Item, s.opts.BatchSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	go func() {
		for _, f := range pending {
			f := f
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				item, err := s.ParseFile(f)
				if err != nil {
					failed.Add(1)
					s.logger.Warn("failed to parse beatmap", "path", f.Path, "error", err)
					return nil
				}
				select {
				case items <- item:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			})
		}
		g.Wait()
		close(items)
	}()

	batch := make([]*models.Item, 0, s.opts.BatchSize)
	for item := range items {
		stats.Parsed++
		batch = append(batch, item)
		if len(batch) >= s.opts.BatchSize {
			emit(batch)
			batch = make([]*models.Item, 0, s.opts.BatchSize)
		}
	}
	if len(batch) > 0 {
		emit(batch)
	}

	stats.Failed = int(failed.Load())
	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

// ParseFile reads and parses a single .osu file into an item, resolving the
// track duration and building the highlight ranges.
func (s *Scanner) ParseFile(f FileStat) (*models.Item, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read beatmap: %w", err)
	}

	parsed := beatmap.Parse(string(content))
	meta := models.ItemMetadata{
		Title:         parsed.Metadata.Title,
		TitleUnicode:  parsed.Metadata.TitleUnicode,
		Artist:        parsed.Metadata.Artist,
		ArtistUnicode: parsed.Metadata.ArtistUnicode,
		Creator:       parsed.Metadata.Creator,
		Version:       parsed.Metadata.Version,
		BeatmapSetID:  parsed.Metadata.BeatmapSetID,
		Mode:          parsed.Metadata.Mode,
		Audio:         parsed.Metadata.Audio,
		Background:    parsed.Metadata.Background,
		PreviewTime:   parsed.Metadata.PreviewTime,
	}

	durationMS := s.resolveDuration(f.Path, parsed)
	item := models.NewItem(f.Path, f.MtimeMS, meta, durationMS)

	ranges := beatmap.BuildAll(parsed, durationMS)
	highlights, err := beatmap.MarshalRanges(ranges)
	if err != nil {
		return nil, fmt.Errorf("failed to encode highlights: %w", err)
	}
	item.SetHighlights(highlights)

	return item, nil
}

// resolveDuration prefers the audio file's real duration and falls back to
// the last object's end time when probing is unavailable or fails.
func (s *Scanner) resolveDuration(osuPath string, parsed *beatmap.Parsed) int {
	fallback := parsed.LastObjectEnd()
	if s.opts.ProbeDuration == nil || parsed.Metadata.Audio == "" {
		return fallback
	}

	audioPath := filepath.Join(filepath.Dir(osuPath), parsed.Metadata.Audio)
	durationMS, err := s.opts.ProbeDuration(audioPath)
	if err != nil || durationMS <= 0 {
		if err != nil {
			s.logger.Debug("audio probe failed", "path", audioPath, "error", err)
		}
		return fallback
	}
	return durationMS
}

// headerMatches reads at most the first 8KB of the file and reports whether
// the creator or version contains any filter term.
func (s *Scanner) headerMatches(path string, filters []string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	head := make([]byte, headerReadSize)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false
	}

	creator, version := beatmap.HeaderCreatorVersion(string(head[:n]))
	creator = strings.ToLower(creator)
	version = strings.ToLower(version)
	for _, term := range filters {
		if strings.Contains(creator, term) || strings.Contains(version, term) {
			return true
		}
	}
	return false
}

// splitFilter splits a comma-separated filter into trimmed lowercase terms.
func splitFilter(filter string) []string {
	var terms []string
	for _, term := range strings.Split(filter, ",") {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}
