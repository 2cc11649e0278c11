package postgres

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS timescaledb"); err != nil {
			return err
		}

		if _, err := db.NewCreateTable().Model((*ThermalEventModel)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*GPUMetadataModel)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.ExecContext(ctx, `SELECT create_hypertable('gpu_thermal_events', 'timestamp',
			if_not_exists => TRUE, chunk_time_interval => INTERVAL '1 day')`); err != nil {
			return err
		}

		for name, column := range map[string]string{
			"idx_gpu_thermal_events_gpu_id":     "gpu_id",
			"idx_gpu_thermal_events_issue_type": "issue_type",
			"idx_gpu_thermal_events_node":       "node",
		} {
			if _, err := db.NewCreateIndex().
				Model((*ThermalEventModel)(nil)).
				Index(name).
				Column(column).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewDropTable().Model((*GPUMetadataModel)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*ThermalEventModel)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
