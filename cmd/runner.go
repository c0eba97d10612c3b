package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/fax1015/mosu-cli/internal/audio"
	"github.com/fax1015/mosu-cli/internal/library"
	"github.com/fax1015/mosu-cli/internal/models"
	"github.com/fax1015/mosu-cli/internal/repositories"
	"github.com/fax1015/mosu-cli/internal/services"
	"github.com/fax1015/mosu-cli/internal/shared"
	"github.com/fax1015/mosu-cli/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	logger   *log.Logger
	output   io.Writer
	embed    tasks.Syncer
	releases *services.ReleaseService
	osuweb   *services.OsuWebService
	version  string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Logger   *log.Logger
	Output   io.Writer
	Embed    tasks.Syncer
	Releases *services.ReleaseService
	OsuWeb   *services.OsuWebService
	Version  string
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Embed == nil {
		opts.Embed = services.NewEmbedService(opts.Config.Embed.URL, opts.Config.Embed.APIKey)
	}
	if opts.Releases == nil {
		opts.Releases = services.NewReleaseService(opts.Config.Updates.Repo)
	}
	if opts.OsuWeb == nil {
		opts.OsuWeb = services.NewOsuWebService()
	}

	return &Runner{
		config:   opts.Config,
		logger:   opts.Logger,
		output:   opts.Output,
		embed:    opts.Embed,
		releases: opts.Releases,
		osuweb:   opts.OsuWeb,
		version:  opts.Version,
	}
}

// SetLogger swaps the runner's logger, used when the TUI takes over stdout
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, scanCommand, previewCommand, libraryCommand, syncCommand, mapperCommand, updatesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase opens and configures the sqlite database from config.
// The caller owns the returned handle.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// newEngine builds the library engine over an open repository.
func (r *Runner) newEngine(repo *repositories.ItemRepository, mapperFilter string) *tasks.Engine {
	scanner := library.NewScanner(r.logger, library.Options{
		MapperFilter:  mapperFilter,
		ProbeDuration: audio.ProbeDuration,
	})
	return tasks.NewEngine(repo, scanner, r.embed, audio.ProbeDuration)
}

// resolveItem looks an item up by ID first, then by file path.
func (r *Runner) resolveItem(repo *repositories.ItemRepository, ref string) (*models.Item, error) {
	if item, err := repo.Get(ref); err == nil {
		return item, nil
	}
	item, err := repo.GetByPath(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: no item with id or path %q", shared.ErrItemNotFound, ref)
	}
	return item, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// drainProgress logs progress updates until the channel closes.
func (r *Runner) drainProgress(progress <-chan tasks.ProgressUpdate) {
	for update := range progress {
		r.logger.Info(update.Message, "phase", update.Phase.String())
	}
}
