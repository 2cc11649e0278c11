package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
	"github.com/tyee-ai/gpu-thermal/internal/storage"
	"github.com/tyee-ai/gpu-thermal/pkg/utils"
)

// EventRepository is an in-memory implementation of thermal event storage.
// It emulates the queries the Postgres store delegates to TimescaleDB,
// including time_bucket alignment, so it can stand in for it in tests.
type EventRepository struct {
	mu       sync.RWMutex
	events   []domain.ThermalEvent
	nextID   int64
	metadata *GPUMetadataRepository
}

// NewEventRepository creates a new in-memory event repository.
// metadata is used to enrich query results and may be nil.
func NewEventRepository(metadata *GPUMetadataRepository) *EventRepository {
	if metadata == nil {
		metadata = NewGPUMetadataRepository()
	}
	return &EventRepository{
		metadata: metadata,
		nextID:   1,
	}
}

// BulkInsert stores all events or none of them
// Thread-safe for concurrent writes
func (r *EventRepository) BulkInsert(ctx context.Context, events []*domain.ThermalEvent) (int, error) {
	for _, e := range events {
		if e == nil || e.Timestamp.IsZero() || !e.IssueType.IsValid() {
			return 0, domain.ErrInvalidInput
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, e := range events {
		stored := *e
		stored.ID = r.nextID
		stored.CreatedAt = now
		r.nextID++
		r.events = append(r.events, stored)
	}
	return len(events), nil
}

// Query returns matching events newest first
// Thread-safe for concurrent reads
func (r *EventRepository) Query(ctx context.Context, filter storage.EventFilter) ([]*domain.EventRecord, error) {
	matched, err := r.match(filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	meta := r.metadata.snapshot()
	records := make([]*domain.EventRecord, 0, len(matched))
	for _, e := range matched {
		record := &domain.EventRecord{ThermalEvent: e}
		if m, ok := meta[e.GPUID]; ok {
			record.Model = m.Model
			record.Location = m.Location
		}
		records = append(records, record)
	}
	return records, nil
}

// Summary computes the summary statistics over matching events
func (r *EventRepository) Summary(ctx context.Context, filter storage.EventFilter) (*domain.SummaryStats, error) {
	matched, err := r.match(filter)
	if err != nil {
		return nil, err
	}

	stats := &domain.SummaryStats{
		TotalEvents:  int64(len(matched)),
		EventsByType: make(map[domain.IssueType]int64),
	}

	byGPU := make(map[string]int64)
	byNode := make(map[string]int64)
	var temps temperatureAggregate
	for _, e := range matched {
		stats.EventsByType[e.IssueType]++
		byGPU[e.GPUID]++
		byNode[e.Node]++
		temps.add(e.Temperature)
	}

	for gpuID, count := range byGPU {
		stats.TopGPUs = append(stats.TopGPUs, domain.GPUCount{GPUID: gpuID, Count: count})
	}
	sort.Slice(stats.TopGPUs, func(i, j int) bool {
		a, b := stats.TopGPUs[i], stats.TopGPUs[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.GPUID < b.GPUID
	})
	if len(stats.TopGPUs) > domain.TopGPULimit {
		stats.TopGPUs = stats.TopGPUs[:domain.TopGPULimit]
	}

	for node, count := range byNode {
		stats.EventsByNode = append(stats.EventsByNode, domain.NodeCount{Node: node, Count: count})
	}
	sort.Slice(stats.EventsByNode, func(i, j int) bool {
		a, b := stats.EventsByNode[i], stats.EventsByNode[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Node < b.Node
	})

	stats.TemperatureStats = domain.TemperatureStats{
		Average: temps.avg(),
		Maximum: temps.max,
		Minimum: temps.min,
	}
	return stats, nil
}

// TimeSeries buckets matching events by hour, day or week (UTC).
// Weeks start on Monday, as with TimescaleDB's time_bucket.
func (r *EventRepository) TimeSeries(ctx context.Context, filter storage.EventFilter, interval storage.Interval) ([]*domain.TimeBucket, error) {
	matched, err := r.match(filter)
	if err != nil {
		return nil, err
	}

	bucketOf := utils.StartOfDay
	switch storage.ParseInterval(string(interval)) {
	case storage.IntervalHour:
		bucketOf = utils.StartOfHour
	case storage.IntervalWeek:
		bucketOf = utils.StartOfWeek
	}

	type bucketAgg struct {
		count int64
		temps temperatureAggregate
	}
	buckets := make(map[time.Time]*bucketAgg)
	for _, e := range matched {
		key := bucketOf(e.Timestamp)
		agg, ok := buckets[key]
		if !ok {
			agg = &bucketAgg{}
			buckets[key] = agg
		}
		agg.count++
		agg.temps.add(e.Temperature)
	}

	series := make([]*domain.TimeBucket, 0, len(buckets))
	for period, agg := range buckets {
		series = append(series, &domain.TimeBucket{
			TimePeriod:     period,
			EventCount:     agg.count,
			AvgTemperature: agg.temps.avg(),
			MaxTemperature: agg.temps.max,
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].TimePeriod.Before(series[j].TimePeriod)
	})
	return series, nil
}

// ListGPUs returns every GPU with at least one event, busiest first
func (r *EventRepository) ListGPUs(ctx context.Context) ([]*domain.GPUSummary, error) {
	r.mu.RLock()
	byGPU := make(map[string]*domain.GPUSummary)
	for i := range r.events {
		e := &r.events[i]
		s, ok := byGPU[e.GPUID]
		if !ok {
			s = &domain.GPUSummary{GPUID: e.GPUID}
			byGPU[e.GPUID] = s
		}
		s.EventCount++
		if s.LastEvent == nil || e.Timestamp.After(*s.LastEvent) {
			ts := e.Timestamp
			s.LastEvent = &ts
		}
	}
	r.mu.RUnlock()

	meta := r.metadata.snapshot()
	gpus := make([]*domain.GPUSummary, 0, len(byGPU))
	for id, s := range byGPU {
		if m, ok := meta[id]; ok {
			s.Model = m.Model
			s.Location = m.Location
			s.Node = m.Node
		}
		gpus = append(gpus, s)
	}
	sort.Slice(gpus, func(i, j int) bool {
		if gpus[i].EventCount != gpus[j].EventCount {
			return gpus[i].EventCount > gpus[j].EventCount
		}
		return gpus[i].GPUID < gpus[j].GPUID
	})
	return gpus, nil
}

// Count returns the total number of events stored
func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.events)), nil
}

// Clear removes all events from the repository
// Useful for testing
func (r *EventRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
	r.nextID = 1
}

// match returns copies of the events satisfying every set filter field
func (r *EventRepository) match(filter storage.EventFilter) ([]domain.ThermalEvent, error) {
	start, err := parseBound(filter.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseBound(filter.EndDate)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.ThermalEvent, 0, len(r.events))
	for _, e := range r.events {
		if start != nil && e.Timestamp.Before(*start) {
			continue
		}
		if end != nil && e.Timestamp.After(*end) {
			continue
		}
		if filter.GPUID != "" && e.GPUID != filter.GPUID {
			continue
		}
		if filter.IssueType != "" && string(e.IssueType) != filter.IssueType {
			continue
		}
		if filter.Node != "" && e.Node != filter.Node {
			continue
		}
		matched = append(matched, e)
	}
	return matched, nil
}

// parseBound converts a date filter the way the database would cast it
func parseBound(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := utils.ParseTimestamp(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid input syntax for type timestamp: %q", domain.ErrInvalidInput, s)
	}
	return &t, nil
}

// temperatureAggregate accumulates avg/max/min over non-null readings
type temperatureAggregate struct {
	sum   float64
	count int
	max   *float64
	min   *float64
}

func (a *temperatureAggregate) add(t *float64) {
	if t == nil {
		return
	}
	v := *t
	a.sum += v
	a.count++
	if a.max == nil || v > *a.max {
		a.max = &v
	}
	if a.min == nil || v < *a.min {
		vv := v
		a.min = &vv
	}
}

func (a *temperatureAggregate) avg() *float64 {
	if a.count == 0 {
		return nil
	}
	v := a.sum / float64(a.count)
	return &v
}
