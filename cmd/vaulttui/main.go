package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matheus3301/chatvault/internal/bus"
	"github.com/matheus3301/chatvault/internal/engine"
	"github.com/matheus3301/chatvault/internal/lock"
	"github.com/matheus3301/chatvault/internal/logging"
	"github.com/matheus3301/chatvault/internal/status"
	"github.com/matheus3301/chatvault/internal/tui"
	"github.com/matheus3301/chatvault/internal/vault"
	"github.com/matheus3301/chatvault/internal/wa"
)

func main() {
	vaultFlag := flag.String("vault", "", "vault name (overrides config default)")
	flag.Parse()

	_ = godotenv.Load()

	vaultName := vault.Resolve(*vaultFlag)
	if err := vault.ValidateName(vaultName); err != nil {
		fatal(err)
	}
	if err := vault.EnsureDir(vaultName); err != nil {
		fatal(err)
	}

	logger, err := logging.New(vault.LogPath(vaultName), vaultName)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	lk, err := lock.Acquire(vault.Dir(vaultName))
	if err != nil {
		fatal(err)
	}
	defer func() { _ = lk.Release() }()

	ctx := context.Background()
	b := bus.New()
	machine := status.NewMachine(b)

	adapter, err := wa.NewAdapter(ctx, vaultName, b, logger)
	if err != nil {
		fatal(err)
	}
	defer adapter.Disconnect()

	handler := wa.NewEventHandler(b, machine, adapter.History(), logger)
	adapter.RegisterEventHandler(handler.Handle)

	eng := engine.New(adapter, engine.NewStore(), logger)

	app := tui.NewApp(eng, adapter, b, machine, vaultName, logger)
	if err := app.Run(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
