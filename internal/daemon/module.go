// Package daemon composes the long-running vault process: the WhatsApp
// adapter, the archiver pipeline, the search engine and the
// conversational bot, wired through fx.
package daemon

import (
	"context"
	"time"

	"github.com/matheus3301/chatvault/internal/archive"
	"github.com/matheus3301/chatvault/internal/bot"
	"github.com/matheus3301/chatvault/internal/bus"
	"github.com/matheus3301/chatvault/internal/config"
	"github.com/matheus3301/chatvault/internal/engine"
	"github.com/matheus3301/chatvault/internal/lock"
	"github.com/matheus3301/chatvault/internal/logging"
	"github.com/matheus3301/chatvault/internal/status"
	"github.com/matheus3301/chatvault/internal/vault"
	"github.com/matheus3301/chatvault/internal/wa"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved vault configuration passed to the fx module.
type Params struct {
	VaultName string
}

// Module returns the fx module for the daemon, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideConfig,
			provideAdapter,
			provideExporter,
			provideSessionStore,
			provideEngine,
			provideResponder,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(vault.LogPath(p.VaultName), p.VaultName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := vault.EnsureDir(p.VaultName); err != nil {
		return nil, err
	}
	logger.Info("acquiring vault lock", zap.String("vault", p.VaultName))
	l, err := lock.Acquire(vault.Dir(p.VaultName))
	if err != nil {
		return nil, err
	}
	logger.Info("vault lock acquired")
	return l, nil
}

func provideConfig(logger *zap.Logger) *config.Config {
	cfg, err := config.Load(vault.ConfigPath())
	if err != nil {
		logger.Info("no config file, using defaults", zap.Error(err))
	}
	return cfg
}

func provideAdapter(p Params, b *bus.Bus, logger *zap.Logger) (*wa.Adapter, error) {
	return wa.NewAdapter(context.Background(), p.VaultName, b, logger)
}

func provideExporter(p Params, cfg *config.Config, adapter *wa.Adapter, b *bus.Bus, logger *zap.Logger) *archive.Exporter {
	outDir := config.ResolveDir(vault.Dir(p.VaultName), cfg.ExportDir)
	return archive.NewExporter(adapter, outDir, time.Local, b, logger)
}

func provideSessionStore() *engine.Store {
	return engine.NewStore()
}

func provideEngine(adapter *wa.Adapter, store *engine.Store, logger *zap.Logger) *engine.Engine {
	return engine.New(adapter, store, logger)
}

func provideResponder(b *bus.Bus, eng *engine.Engine, adapter *wa.Adapter, logger *zap.Logger) *bot.Responder {
	return bot.New(b, eng, adapter, logger)
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, adapter *wa.Adapter, responder *bot.Responder, machine *status.Machine, b *bus.Bus, logger *zap.Logger) {
	botCtx, stopBot := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			handler := wa.NewEventHandler(b, machine, adapter.History(), logger)
			adapter.RegisterEventHandler(handler.Handle)

			go responder.Run(botCtx)

			if adapter.IsLoggedIn() {
				_ = machine.Transition(status.Connecting)
				go func() {
					if err := adapter.Connect(); err != nil {
						logger.Error("auto-connect failed", zap.Error(err))
						_ = machine.Transition(status.Error)
					}
				}()
			} else {
				logger.Info("no credentials found, auth required")
				_ = machine.Transition(status.AuthRequired)
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopBot()
			adapter.Disconnect()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
