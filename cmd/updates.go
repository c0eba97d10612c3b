package main

import (
	"context"

	"github.com/fax1015/mosu-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

func updatesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "updates",
		Usage: "Check GitHub for a newer release",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the release page when an update is available",
			},
		},
		Action: r.CheckUpdates,
	}
}

// CheckUpdates compares the running version against the latest GitHub release.
func (r *Runner) CheckUpdates(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking for updates", "repo", r.config.Updates.Repo, "current", r.version)

	release, err := r.releases.Latest(ctx)
	if err != nil {
		return err
	}

	if !release.IsNewer(r.version) {
		r.writePlain("Up to date (%s)\n", r.version)
		return nil
	}

	r.writePlain("Update available: %s → %s\n", r.version, release.Version)
	r.writePlain("%s\n", release.URL)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(release.URL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return nil
}
