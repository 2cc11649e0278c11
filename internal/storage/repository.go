package storage

import (
	"context"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
)

// EventFilter holds the optional query parameters for event queries.
// Empty fields impose no constraint; set fields are combined with AND.
// StartDate and EndDate are inclusive bounds on the event timestamp and are
// handed to the store as given, so a malformed date surfaces as the store's
// own error.
type EventFilter struct {
	StartDate string
	EndDate   string
	GPUID     string
	IssueType string
	Node      string
}

// Interval is the width of a time-series bucket
type Interval string

const (
	IntervalHour Interval = "hour"
	IntervalDay  Interval = "day"
	IntervalWeek Interval = "week"
)

// ParseInterval maps a request value to an Interval, defaulting to day
func ParseInterval(s string) Interval {
	switch Interval(s) {
	case IntervalHour, IntervalWeek:
		return Interval(s)
	default:
		return IntervalDay
	}
}

// EventRepository stores thermal events and answers the reporting queries
type EventRepository interface {
	// BulkInsert persists all events atomically and returns how many were stored
	BulkInsert(ctx context.Context, events []*domain.ThermalEvent) (int, error)

	// Query returns matching events newest first, enriched with GPU metadata
	Query(ctx context.Context, filter EventFilter) ([]*domain.EventRecord, error)

	// Summary computes counts and temperature statistics over matching events
	Summary(ctx context.Context, filter EventFilter) (*domain.SummaryStats, error)

	// TimeSeries groups matching events into buckets of the given width.
	// Empty buckets are omitted.
	TimeSeries(ctx context.Context, filter EventFilter, interval Interval) ([]*domain.TimeBucket, error)

	// ListGPUs returns every GPU with events, busiest first
	ListGPUs(ctx context.Context) ([]*domain.GPUSummary, error)

	// Count returns the total number of stored events
	Count(ctx context.Context) (int64, error)
}

// GPUMetadataRepository stores GPU reference data keyed by GPU ID
type GPUMetadataRepository interface {
	// Upsert inserts the record or merges its non-nil fields into the existing one
	Upsert(ctx context.Context, meta *domain.GPUMetadata) error

	// GetByGPUID returns domain.ErrGPUNotFound when no record exists
	GetByGPUID(ctx context.Context, gpuID string) (*domain.GPUMetadata, error)

	// Count returns the number of metadata records
	Count(ctx context.Context) (int64, error)
}
