// Command psictl runs the batch jobs around the booking service: slot
// materialization, catalog seeding and search replica rebuilds.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"psibooking/config"
	"psibooking/database"
	"psibooking/utils"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Materialize MaterializeCmd `cmd:"" help:"Create one-hour slots from weekly templates for a date window."`
	Reindex     ReindexCmd     `cmd:"" help:"Rebuild search replica documents from the catalog."`
	Seed        SeedCmd        `cmd:"" help:"Upsert psychologists from a JSON file."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("psictl"),
		kong.Description("Batch jobs for the psychologist booking service"),
		kong.UsageOnError(),
	)

	config.LoadConfig()
	logger := utils.GetLogger()
	defer utils.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.InitDB()
	defer func() { _ = database.Disconnect(context.Background()) }()

	err := kctx.Run(&Context{Ctx: ctx, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
