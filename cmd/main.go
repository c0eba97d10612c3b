package main

import (
	"context"
	"errors"
	"os"

	"github.com/fax1015/mosu-cli/internal/shared"
	"github.com/urfave/cli/v3"
)

const appVersion = "0.3.0"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Logger:  logger,
		Version: appVersion,
	})

	app := &cli.Command{
		Name:     "mosu",
		Usage:    "Manage and annotate a local osu! beatmap library",
		Version:  appVersion,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
