package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/matheus3301/chatvault/internal/archive"
	"github.com/matheus3301/chatvault/internal/bus"
	"github.com/matheus3301/chatvault/internal/config"
	"github.com/matheus3301/chatvault/internal/extract"
	"github.com/matheus3301/chatvault/internal/logging"
	"github.com/matheus3301/chatvault/internal/status"
	"github.com/matheus3301/chatvault/internal/summarize"
	"github.com/matheus3301/chatvault/internal/vault"
	"github.com/matheus3301/chatvault/internal/wa"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

func main() {
	vaultFlag := flag.String("vault", "", "vault name (overrides config default)")
	rangeFlag := flag.String("range", "", "export range: all|week|month|YYYY-MM-DD (overrides config)")
	flag.Parse()

	_ = godotenv.Load()

	vaultName := vault.Resolve(*vaultFlag)
	if err := vault.ValidateName(vaultName); err != nil {
		fatal(err)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, _ := config.Load(vault.ConfigPath())
	if err := vault.EnsureDir(vaultName); err != nil {
		fatal(err)
	}
	logger, err := logging.New(vault.LogPath(vaultName), vaultName)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	switch args[0] {
	case "auth":
		cmdAuth(ctx, vaultName, logger)
	case "export":
		cmdExport(ctx, vaultName, cfg, *rangeFlag, logger)
	case "extract":
		cmdExtract(vaultName, cfg, logger)
	case "summarize":
		cmdSummarize(ctx, vaultName, cfg, logger)
	case "status":
		cmdStatus(vaultName)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: vaultctl [--vault <name>] [--range <token>] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  auth        Pair with WhatsApp via QR code")
	fmt.Fprintln(os.Stderr, "  export      Export conversations to transcripts")
	fmt.Fprintln(os.Stderr, "  extract     Extract key information from transcripts")
	fmt.Fprintln(os.Stderr, "  summarize   Summarize transcripts")
	fmt.Fprintln(os.Stderr, "  status      Show vault status")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func cmdAuth(ctx context.Context, vaultName string, logger *zap.Logger) {
	adapter, err := wa.NewAdapter(ctx, vaultName, bus.New(), logger)
	if err != nil {
		fatal(err)
	}
	defer adapter.Disconnect()

	if adapter.IsLoggedIn() {
		fmt.Println("Already paired.")
		return
	}

	events, err := adapter.StartQRAuth(ctx)
	if err != nil {
		fatal(err)
	}
	for evt := range events {
		switch evt.Type {
		case wa.AuthEventQRCode:
			fmt.Println("Scan this QR code with WhatsApp:")
			fmt.Println(renderQR(evt.QRCode))
		case wa.AuthEventAuthenticated:
			fmt.Println("Paired successfully.")
			return
		case wa.AuthEventTimeout:
			fatal(fmt.Errorf("QR code expired, run auth again"))
		case wa.AuthEventAuthFailed:
			fatal(fmt.Errorf("pairing failed: %s", evt.Message))
		}
	}
}

// renderQR draws the pairing code with half-block characters so it
// fits a normal terminal.
func renderQR(code string) string {
	qr, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return code
	}
	grid := qr.Bitmap()

	out := ""
	for y := 0; y < len(grid); y += 2 {
		for x := 0; x < len(grid[y]); x++ {
			top := grid[y][x]
			bottom := y+1 < len(grid) && grid[y+1][x]
			switch {
			case top && bottom:
				out += "█"
			case top:
				out += "▀"
			case bottom:
				out += "▄"
			default:
				out += " "
			}
		}
		out += "\n"
	}
	return out
}

func connect(ctx context.Context, vaultName string, logger *zap.Logger) (*wa.Adapter, *bus.Bus) {
	b := bus.New()
	machine := status.NewMachine(b)

	adapter, err := wa.NewAdapter(ctx, vaultName, b, logger)
	if err != nil {
		fatal(err)
	}
	if !adapter.IsLoggedIn() {
		fatal(fmt.Errorf("vault %q is not paired, run 'vaultctl auth' first", vaultName))
	}

	handler := wa.NewEventHandler(b, machine, adapter.History(), logger)
	adapter.RegisterEventHandler(handler.Handle)

	_ = machine.Transition(status.Connecting)
	if err := adapter.Connect(); err != nil {
		fatal(err)
	}
	return adapter, b
}

func cmdExport(ctx context.Context, vaultName string, cfg *config.Config, rangeOverride string, logger *zap.Logger) {
	token := cfg.ExportRange
	if rangeOverride != "" {
		token = rangeOverride
	}
	since, err := archive.ParseSince(token, time.Now())
	if err != nil {
		fatal(err)
	}

	adapter, b := connect(ctx, vaultName, logger)
	defer adapter.Disconnect()

	convs, err := adapter.Conversations(ctx)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Exporting %d conversations since %s...\n", len(convs), since.Format(time.RFC3339))

	outDir := config.ResolveDir(vault.Dir(vaultName), cfg.ExportDir)
	exporter := archive.NewExporter(adapter, outDir, time.Local, b, logger)
	summary := exporter.ExportAll(ctx, convs, since)
	fmt.Printf("Exported: %d  Failed: %d\n", summary.Exported, summary.Failed)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func cmdExtract(vaultName string, cfg *config.Config, logger *zap.Logger) {
	inDir := config.ResolveDir(vault.Dir(vaultName), cfg.ExportDir)
	outDir := config.ResolveDir(vault.Dir(vaultName), cfg.KeyInfoDir)

	summary, err := extract.ExtractDirectory(inDir, outDir, logger)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Processed: %d  Failed: %d\n", summary.Processed, summary.Failed)
}

func cmdSummarize(ctx context.Context, vaultName string, cfg *config.Config, logger *zap.Logger) {
	token := os.Getenv("HUGGINGFACE_API_KEY")
	if token == "" {
		fatal(fmt.Errorf("HUGGINGFACE_API_KEY is not set"))
	}

	inDir := config.ResolveDir(vault.Dir(vaultName), cfg.ExportDir)
	outDir := config.ResolveDir(vault.Dir(vaultName), cfg.SummaryDir)

	client := summarize.NewHFClient(cfg.Summarizer.Endpoint, token)
	runner := summarize.NewRunner(client, cfg.Summarizer.MaxTokens,
		time.Duration(cfg.Summarizer.RateLimitMs)*time.Millisecond, logger)

	summary, err := runner.RunDirectory(ctx, inDir, outDir)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Summarized: %d  Skipped: %d  Failed: %d\n",
		summary.Summarized, summary.Skipped, summary.Failed)
}

func cmdStatus(vaultName string) {
	fmt.Printf("Vault: %s\n", vaultName)
	fmt.Printf("Dir:   %s\n", vault.Dir(vaultName))

	if _, err := os.Stat(vault.CredentialDBPath(vaultName)); err == nil {
		fmt.Println("Paired: yes")
	} else {
		fmt.Println("Paired: no")
	}
	if _, err := os.Stat(vault.LockPath(vaultName)); err == nil {
		fmt.Println("Daemon: lock file present")
	} else {
		fmt.Println("Daemon: not running")
	}
}
