package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matheus3301/chatvault/internal/daemon"
	"github.com/matheus3301/chatvault/internal/vault"
	"go.uber.org/fx"
)

func main() {
	vaultFlag := flag.String("vault", "", "vault name (overrides config default)")
	flag.Parse()

	_ = godotenv.Load()

	vaultName := vault.Resolve(*vaultFlag)
	if err := vault.ValidateName(vaultName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := fx.New(
		daemon.Module(daemon.Params{VaultName: vaultName}),
	)

	app.Run()
}
