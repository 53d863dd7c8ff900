package main

import (
	"context"
	"io"
	"time"

	"github.com/go-faster/errors"

	"perf-tester/internal/application/aggregator"
	"perf-tester/internal/application/orchestrator"
	"perf-tester/internal/domain"
	"perf-tester/internal/infra"
	"perf-tester/internal/infrastructure/lighthouse"
	"perf-tester/internal/infrastructure/repository/memory"
	"perf-tester/internal/infrastructure/repository/sqlstore"
	"perf-tester/internal/infrastructure/synthetic"
)

const (
	driverMemory = "memory"

	providerLighthouse = "lighthouse"
	providerSynthetic  = "synthetic"
)

func provideConfig() (infra.Config, error) {
	return infra.LoadConfig()
}

func provideServiceName() string {
	return serviceName
}

func provideLogger(out io.Writer, name string, cfg infra.Config) *infra.Logger {
	return infra.NewLogger(out, name, cfg.LogLevel)
}

func provideRepository(ctx context.Context, cfg infra.Config, logger *infra.Logger) (domain.RecordStore, func(), error) {
	if cfg.Database.Driver == driverMemory {
		logger.Warnf(ctx, "using the in-memory store, results are discarded on exit")
		repo := memory.New()
		return repo, func() { _ = repo.Close() }, nil
	}

	if sqlstore.ShouldCheckDatabase(cfg.Database) {
		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := sqlstore.WaitForDatabase(waitCtx, cfg.Database, logger)
		cancel()
		if err != nil {
			logger.Warnf(ctx, "database connectivity check failed: %v", err)
		} else {
			logger.Debugf(ctx, "database connectivity check succeeded")
		}
	}

	dsn, err := sqlstore.BuildDSN(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.Database.Driver, DSN: dsn})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warnf(ctx, "failed to close store: %v", err)
		}
	}
	return store, cleanup, nil
}

func provideReportService(store domain.RecordStore) domain.ReportService {
	return aggregator.New(store)
}

func provideMeasurementProvider(cfg infra.Config) (domain.MeasurementProvider, error) {
	switch cfg.Provider {
	case "", providerLighthouse:
		return lighthouse.New(lighthouse.Config{
			Bin:         cfg.Lighthouse.Bin,
			Timeout:     cfg.Lighthouse.Timeout,
			ChromeFlags: cfg.Lighthouse.ChromeFlags,
		}), nil
	case providerSynthetic:
		return synthetic.New(synthetic.Config{Delay: cfg.SyntheticDelay}), nil
	default:
		return nil, errors.Errorf("unknown measurement provider %q", cfg.Provider)
	}
}

func provideOrchestrator(provider domain.MeasurementProvider, store domain.RecordStore, logger *infra.Logger) *orchestrator.Orchestrator {
	return orchestrator.New(provider, store, logger)
}
