package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fax1015/mosu-cli/internal/services"
	"github.com/fax1015/mosu-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

func mapperCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "mapper",
		Usage:     "Look up a mapper's public osu! profile",
		ArgsUsage: "<username, id, or profile url>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output profile as JSON",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the profile in the browser",
			},
		},
		Action: r.MapperLookup,
	}
}

// MapperLookup fetches and prints a mapper profile from the osu! website.
func (r *Runner) MapperLookup(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("%w: username, id, or profile url required", shared.ErrMissingArgument)
	}

	r.logger.Info("looking up mapper", "ref", ref)

	profile, err := r.osuweb.Lookup(ctx, ref)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(profile, true); err != nil {
			return err
		}
	} else {
		r.writePlain("%s (#%d)\n", profile.Username, profile.ID)
		if profile.Country != "" {
			r.writePlain("Country: %s\n", profile.Country)
		}
		if len(profile.PreviousUsernames) > 0 {
			r.writePlain("Previously: %s\n", strings.Join(profile.PreviousUsernames, ", "))
		}
		r.writePlain("Mapsets: %d ranked, %d loved, %d pending, %d graveyard\n",
			profile.MapsetCounts.Ranked, profile.MapsetCounts.Loved,
			profile.MapsetCounts.Pending, profile.MapsetCounts.Graveyard)
		r.writePlain("%s\n", services.ProfileURL(profile.ID))
	}

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(services.ProfileURL(profile.ID)); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return nil
}
