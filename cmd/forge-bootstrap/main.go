package main

import (
	"context"
	"os"

	"github.com/savaki/forge-bootstrap/cmd/forge-bootstrap/commands"
	"github.com/savaki/forge-bootstrap/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger(false)
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "forge-bootstrap",
		Usage: "Bootstrap a community repository on GitHub",
		Description: `Creates (or reuses) the community repository, generates a deployment
script for the local website content, configures GitHub Pages, prepares the
founding announcement and reports the resulting status.

Every step runs even when an earlier one fails; the summary lists what needs
to be finished by hand.`,
		Flags:  commands.Flags(),
		Before: commands.Before(&logger),
		Action: commands.RunAction,
		Commands: []*cli.Command{
			commands.RunCommand(),
			commands.ConfigCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
