package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/config"
	"github.com/tyee-ai/gpu-thermal/internal/storage"
	"github.com/tyee-ai/gpu-thermal/internal/storage/inmemory"
	"github.com/tyee-ai/gpu-thermal/internal/storage/postgres"
)

// repositories is the storage backend selected by database.driver
type repositories struct {
	events   storage.EventRepository
	metadata storage.GPUMetadataRepository
	close    func() error
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on exit")

		metadata := inmemory.NewGPUMetadataRepository()
		return &repositories{
			events:   inmemory.NewEventRepository(metadata),
			metadata: metadata,
			close:    func() error { return nil },
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.Database, cfg.Ingest.BatchSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &repositories{
		events:   store.Events,
		metadata: store.Metadata,
		close:    store.Close,
	}, nil
}

// openPostgres opens the database without running migrations, for the db subcommands
func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*postgres.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return nil, fmt.Errorf("database commands need a postgres driver, got %q", cfg.Database.Driver)
	}

	dbCfg := cfg.Database
	dbCfg.AutoMigrate = false

	return postgres.Open(ctx, dbCfg, cfg.Ingest.BatchSize, logger)
}
