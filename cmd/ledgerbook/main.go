package main

import (
	"context"
	"os"

	"ledgerbook/internal/cli"
	"ledgerbook/internal/commands"
	"ledgerbook/internal/service"
)

func main() {
	cli.LoadEnvFile()

	cfg, logger := cli.LoadAndValidateConfig()
	store := cli.InitStore(logger, cfg.DBPath)
	defer store.Close()

	ctx := context.Background()
	ledger, err := service.New(ctx, store, cfg.Actor)
	if err != nil {
		logger.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}

	rootCmd := commands.NewRootCommand(ledger, cfg)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
