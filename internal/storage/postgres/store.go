package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/config"
)

// Store owns the database handle and the repositories built on it.
// It is created by Open and released by Close; nothing is global.
type Store struct {
	db       *bun.DB
	logger   *zap.Logger
	Events   *EventRepository
	Metadata *GPUMetadataRepository
}

// Open connects to PostgreSQL with the configured driver and, when
// auto_migrate is set, brings the schema up to date.
func Open(ctx context.Context, cfg config.DatabaseConfig, batchSize int, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sqldb, err := openSQLDB(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(cfg.Debug),
		bundebug.FromEnv(),
	))

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewStore(db, batchSize, logger)
	if cfg.AutoMigrate {
		if _, err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	logger.Info("Connected to database", zap.String("driver", cfg.Driver))
	return store, nil
}

// NewStore wraps an existing bun handle
func NewStore(db *bun.DB, batchSize int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:       db,
		logger:   logger,
		Events:   NewEventRepository(db, batchSize),
		Metadata: NewGPUMetadataRepository(db),
	}
}

func openSQLDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := utcDSN(cfg.DSN)
	switch cfg.Driver {
	case config.DriverPG:
		return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn))), nil
	case config.DriverPostgres:
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return sqldb, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// utcDSN pins the session time zone to UTC unless the DSN already sets one.
// Both drivers pass unknown parameters through as startup parameters.
func utcDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		for key := range q {
			if strings.EqualFold(key, "timezone") {
				return dsn
			}
		}
		q.Set("timezone", "UTC")
		u.RawQuery = q.Encode()
		return u.String()
	}

	if strings.TrimSpace(dsn) == "" || strings.Contains(strings.ToLower(dsn), "timezone=") {
		return dsn
	}
	return dsn + " timezone=UTC"
}

// DB exposes the underlying handle
func (s *Store) DB() *bun.DB {
	return s.db
}

// Migrator returns a migrator over the registered schema migrations
func (s *Store) Migrator() *migrate.Migrator {
	return migrate.NewMigrator(s.db, Migrations)
}

// Migrate applies all pending migrations and returns the applied group
func (s *Store) Migrate(ctx context.Context) (*migrate.MigrationGroup, error) {
	migrator := s.Migrator()
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to lock migrations: %w", err)
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	if group.IsZero() {
		s.logger.Debug("Database schema is up to date")
	} else {
		s.logger.Info("Applied migrations", zap.String("group", group.String()))
	}
	return group, nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}
