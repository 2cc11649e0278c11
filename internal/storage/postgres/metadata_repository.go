package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
)

// GPUMetadataRepository implements storage.GPUMetadataRepository on PostgreSQL
type GPUMetadataRepository struct {
	db bun.IDB
}

// NewGPUMetadataRepository creates a new metadata repository
func NewGPUMetadataRepository(db bun.IDB) *GPUMetadataRepository {
	return &GPUMetadataRepository{db: db}
}

// Upsert inserts the record or, on a gpu_id conflict, overwrites only the
// columns supplied with a non-null value. Single statement, own transaction.
func (r *GPUMetadataRepository) Upsert(ctx context.Context, meta *domain.GPUMetadata) error {
	if meta == nil || meta.GPUID == "" {
		return domain.ErrInvalidInput
	}

	model := newGPUMetadataModel(meta)
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(model).
			On("CONFLICT (gpu_id) DO UPDATE").
			Set("node = COALESCE(EXCLUDED.node, gm.node)").
			Set("model = COALESCE(EXCLUDED.model, gm.model)").
			Set("location = COALESCE(EXCLUDED.location, gm.location)").
			Set("max_temp = COALESCE(EXCLUDED.max_temp, gm.max_temp)").
			Set("updated_at = current_timestamp").
			Returning("NULL").
			Exec(ctx)
		return err
	})
	if err != nil {
		return dbError("upsert gpu metadata", err)
	}
	return nil
}

// GetByGPUID returns domain.ErrGPUNotFound when no record exists
func (r *GPUMetadataRepository) GetByGPUID(ctx context.Context, gpuID string) (*domain.GPUMetadata, error) {
	if gpuID == "" {
		return nil, domain.ErrInvalidInput
	}

	model := new(GPUMetadataModel)
	err := r.db.NewSelect().
		Model(model).
		Where("gm.gpu_id = ?", gpuID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGPUNotFound
		}
		return nil, dbError("get gpu metadata", err)
	}
	return model.toDomain(), nil
}

// Count returns the number of metadata records
func (r *GPUMetadataRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.db.NewSelect().Model((*GPUMetadataModel)(nil)).Count(ctx)
	if err != nil {
		return 0, dbError("count gpu metadata", err)
	}
	return int64(n), nil
}
