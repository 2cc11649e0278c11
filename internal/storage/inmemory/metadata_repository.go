package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
)

// GPUMetadataRepository is an in-memory implementation of GPU metadata storage.
// Go maps with mutex protection; used by tests and the "memory" store driver.
type GPUMetadataRepository struct {
	mu   sync.RWMutex
	data map[string]*domain.GPUMetadata // key: GPU ID
	now  func() time.Time
}

// NewGPUMetadataRepository creates a new in-memory metadata repository
func NewGPUMetadataRepository() *GPUMetadataRepository {
	return &GPUMetadataRepository{
		data: make(map[string]*domain.GPUMetadata),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Upsert inserts a record or merges the non-nil fields into the existing one
// Thread-safe for concurrent writes
func (r *GPUMetadataRepository) Upsert(ctx context.Context, meta *domain.GPUMetadata) error {
	if meta == nil || meta.GPUID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	existing, ok := r.data[meta.GPUID]
	if !ok {
		created := meta.Normalized()
		created.CreatedAt = now
		created.UpdatedAt = now
		r.data[meta.GPUID] = created
		return nil
	}

	existing.MergeFrom(meta)
	existing.UpdatedAt = now
	return nil
}

// GetByGPUID retrieves a copy of the metadata for a GPU
// Thread-safe for concurrent reads
func (r *GPUMetadataRepository) GetByGPUID(ctx context.Context, gpuID string) (*domain.GPUMetadata, error) {
	if gpuID == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.data[gpuID]
	if !exists {
		return nil, domain.ErrGPUNotFound
	}
	out := *meta
	return &out, nil
}

// Count returns the number of metadata records
func (r *GPUMetadataRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.data)), nil
}

// snapshot copies all records, for joins done by EventRepository
func (r *GPUMetadataRepository) snapshot() map[string]domain.GPUMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.GPUMetadata, len(r.data))
	for id, meta := range r.data {
		out[id] = *meta
	}
	return out
}

// Clear removes all metadata from the repository
// Useful for testing
func (r *GPUMetadataRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = make(map[string]*domain.GPUMetadata)
}
