// Command corridormap renders a liquidity heatmap of payment corridors,
// either in the terminal or as a web dashboard.
//
// Usage:
//
//	corridormap --config config.yaml
//	corridormap --setup (interactive wizard)
//	corridormap --mode web --api-url https://api.example.com
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vadiminshakov/corridormap/config"
	"github.com/vadiminshakov/corridormap/dashboard"
	"github.com/vadiminshakov/corridormap/internal/clients"
	"github.com/vadiminshakov/corridormap/internal/services/corridors"
	"github.com/vadiminshakov/corridormap/internal/setup"
	"github.com/vadiminshakov/corridormap/internal/storage/corridorsnapshots"
	"github.com/vadiminshakov/corridormap/internal/tui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Setup {
		path, err := setup.RunTUI()
		if err != nil {
			log.Fatal(err)
		}
		debug := cfg.Debug
		if cfg, err = config.Load(path); err != nil {
			log.Fatal(err)
		}
		cfg.Debug = debug
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := corridorsnapshots.NewWALStore(cfg.WALDir)
	if err != nil {
		logger.Fatal("failed to open corridor snapshot store", zap.Error(err))
	}
	defer store.Close()

	source := newSource(cfg, logger)
	syncer := corridors.NewSyncer(source, store, logger)

	switch cfg.Mode {
	case config.ModeWeb:
		err = runWeb(ctx, cfg, store, syncer, dashboardOptions(source), logger)
	default:
		err = runTUI(ctx, cfg, syncer, logger)
	}
	if err != nil {
		logger.Error("corridormap stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func newSource(cfg config.Config, logger *zap.Logger) clients.CorridorSource {
	if cfg.Source == config.SourceFile {
		return clients.NewFileSource(cfg.CorridorsFile)
	}
	return clients.NewAnalyticsClient(cfg.APIURL, cfg.RequestTimeout, logger)
}

func dashboardOptions(source clients.CorridorSource) []dashboard.Option {
	if client, ok := source.(*clients.AnalyticsClient); ok {
		return []dashboard.Option{dashboard.WithCorridorLookup(client)}
	}
	return nil
}

func runWeb(ctx context.Context, cfg config.Config, store *corridorsnapshots.WALStore, syncer *corridors.Syncer, opts []dashboard.Option, logger *zap.Logger) error {
	server := dashboard.NewServer(cfg.Addr, store, cfg.Period, logger, opts...)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return syncer.Run(ctx, cfg.RefreshInterval)
	})
	g.Go(func() error {
		if len(cfg.Domains) > 0 {
			return server.StartWithAutoTLS(ctx, cfg.Domains, cfg.CertCacheDir)
		}
		return server.Start(ctx)
	})

	logger.Info("web mode started",
		zap.String("addr", cfg.Addr),
		zap.String("source", cfg.Source),
		zap.Duration("refresh_interval", cfg.RefreshInterval))
	return g.Wait()
}

func runTUI(ctx context.Context, cfg config.Config, syncer *corridors.Syncer, logger *zap.Logger) error {
	model := tui.NewModel(syncer.Fetch, cfg.Period, cfg.PublicURL, logger)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// newLogger logs to stderr in web mode and to cfg.LogFile in terminal mode,
// where stderr belongs to the heatmap.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cfg.Mode == config.ModeTUI {
		zapCfg.OutputPaths = []string{cfg.LogFile}
		zapCfg.ErrorOutputPaths = []string{cfg.LogFile}
	}
	return zapCfg.Build()
}
