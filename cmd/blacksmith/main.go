package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/blacksmith/pkg/application/services/catalog"
	"github.com/vsinha/blacksmith/pkg/application/services/estimation"
	"github.com/vsinha/blacksmith/pkg/application/services/stock"
	"github.com/vsinha/blacksmith/pkg/application/services/tree"
	"github.com/vsinha/blacksmith/pkg/domain/repositories"
	"github.com/vsinha/blacksmith/pkg/infrastructure/config"
	"github.com/vsinha/blacksmith/pkg/infrastructure/events"
	"github.com/vsinha/blacksmith/pkg/infrastructure/logger"
	"github.com/vsinha/blacksmith/pkg/infrastructure/metrics"
	"github.com/vsinha/blacksmith/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/blacksmith/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/blacksmith/pkg/infrastructure/repositories/postgres"
	"github.com/vsinha/blacksmith/pkg/interfaces/api"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.App.Env,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Seed.Dir != "" {
		scenario, err := csv.NewLoader().LoadScenario(cfg.Seed.Dir)
		if err != nil {
			return fmt.Errorf("failed to load seed scenario: %w", err)
		}
		ids, seeded, err := scenario.SeedIfEmpty(ctx, store)
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		if seeded {
			log.Info("catalog seeded", zap.String("dir", cfg.Seed.Dir), zap.Int("products", len(ids)))
		} else {
			log.Info("catalog not empty, skipping seed", zap.String("dir", cfg.Seed.Dir))
		}
	}

	eventStore := events.NewInMemoryEventStore(log)
	if err := eventStore.Subscribe(
		[]string{events.StockChangedEvent, events.EstimateRejectedEvent},
		events.NewLogHandler(log.Named("events")),
	); err != nil {
		return fmt.Errorf("failed to subscribe event log: %w", err)
	}

	var m *metrics.Metrics
	estimatorConfig := estimation.EstimatorConfig{MaxParallel: cfg.Estimator.MaxParallel}
	mutatorConfig := stock.MutatorConfig{Events: eventStore}
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Prefix)
		estimatorConfig.Metrics = m
		mutatorConfig.Metrics = m
	}

	resolver := tree.NewResolver(store, log, cfg.Estimator.MaxParallel)
	estimator := estimation.NewEstimatorWithConfig(store, log, estimatorConfig)
	mutator := stock.NewMutator(store, estimator, resolver, log, mutatorConfig)
	handler := api.NewHandler(catalog.NewService(store, resolver, log), estimator, mutator)

	e := api.NewRouter(handler, log, m, cfg.HTTP.CORSOrigins...)
	go func() {
		if err := e.Start(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
			stop()
		}
	}()
	log.Info("HTTP server started", zap.String("addr", cfg.HTTP.Addr), zap.String("store", cfg.Store.Driver))

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	eventStore.Drain()
	log.Info("graceful shutdown complete")
	return nil
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (repositories.Catalog, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, postgres.Config{
			DSN:             cfg.Postgres.DSN,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			LogLevel:        cfg.Postgres.LogLevel,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("postgres connected")
		return store, func() { _ = store.Close() }, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}
