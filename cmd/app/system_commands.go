package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/mutchinick/ecomm-workers/cmd/app/commands"
	"github.com/mutchinick/ecomm-workers/internal/app"
	"github.com/mutchinick/ecomm-workers/internal/config"
)

func getSystemCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
