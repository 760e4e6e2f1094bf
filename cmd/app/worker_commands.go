package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/mutchinick/ecomm-workers/cmd/app/commands"
	"github.com/mutchinick/ecomm-workers/internal/app"
)

func getWorkerCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "sync-orders-worker",
			Usage: "Apply order lifecycle events to the orders ledger",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWorker(ctx, app.SyncOrdersWorker, version, commands.SyncOrdersRunner)
			},
		},
		{
			Name:  "allocate-stock-worker",
			Usage: "Allocate SKU stock to newly created orders",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWorker(ctx, app.AllocateStockWorker, version, commands.AllocateStockRunner)
			},
		},
		{
			Name:  "restock-sku-worker",
			Usage: "Record SKU restocks in the inventory ledger",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWorker(ctx, app.RestockSkuWorker, version, commands.RestockSkuRunner)
			},
		},
		{
			Name:  "outbox-relay",
			Usage: "Publish pending outbox events to the event topic",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWorker(ctx, "outbox-relay", version, commands.OutboxRelayRunner)
			},
		},
	}
}
