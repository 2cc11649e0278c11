package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
	"github.com/tyee-ai/gpu-thermal/internal/storage"
)

// bucketWidths maps each interval to the time_bucket width literal
var bucketWidths = map[storage.Interval]string{
	storage.IntervalHour: "1 hour",
	storage.IntervalDay:  "1 day",
	storage.IntervalWeek: "1 week",
}

// EventRepository implements storage.EventRepository on PostgreSQL/TimescaleDB
type EventRepository struct {
	db        bun.IDB
	batchSize int
}

// NewEventRepository creates a repository that inserts in chunks of batchSize rows
func NewEventRepository(db bun.IDB, batchSize int) *EventRepository {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &EventRepository{db: db, batchSize: batchSize}
}

// BulkInsert writes all events in one transaction. Any failure rolls back
// every chunk, so either all events are stored or none are.
func (r *EventRepository) BulkInsert(ctx context.Context, events []*domain.ThermalEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	models := make([]ThermalEventModel, len(events))
	for i, e := range events {
		if e == nil || !e.IssueType.IsValid() {
			return 0, domain.ErrInvalidInput
		}
		models[i] = newThermalEventModel(e)
	}

	var inserted int64
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for start := 0; start < len(models); start += r.batchSize {
			end := min(start+r.batchSize, len(models))
			chunk := models[start:end]

			res, err := tx.NewInsert().Model(&chunk).Returning("NULL").Exec(ctx)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, dbError("bulk insert events", err)
	}

	return int(inserted), nil
}

// Query returns matching events newest first, left-joined with metadata
func (r *EventRepository) Query(ctx context.Context, filter storage.EventFilter) ([]*domain.EventRecord, error) {
	var rows []eventRow
	q := r.db.NewSelect().
		Model(&rows).
		ColumnExpr("e.*").
		ColumnExpr("gm.model AS model, gm.location AS location").
		Join("LEFT JOIN gpu_metadata AS gm ON gm.gpu_id = e.gpu_id").
		OrderExpr("e.timestamp DESC, e.id DESC")

	if err := applyFilter(q, filter).Scan(ctx); err != nil {
		return nil, dbError("query events", err)
	}

	records := make([]*domain.EventRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].toDomain()
	}
	return records, nil
}

// Summary runs the aggregate queries over the matching events
func (r *EventRepository) Summary(ctx context.Context, filter storage.EventFilter) (*domain.SummaryStats, error) {
	var totals struct {
		Total   int64    `bun:"total"`
		AvgTemp *float64 `bun:"avg_temp"`
		MaxTemp *float64 `bun:"max_temp"`
		MinTemp *float64 `bun:"min_temp"`
	}
	err := applyFilter(r.events().
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("AVG(e.temperature) AS avg_temp").
		ColumnExpr("MAX(e.temperature) AS max_temp").
		ColumnExpr("MIN(e.temperature) AS min_temp"), filter).
		Scan(ctx, &totals)
	if err != nil {
		return nil, dbError("summarize events", err)
	}

	var byType []struct {
		IssueType string `bun:"issue_type"`
		Count     int64  `bun:"count"`
	}
	err = applyFilter(r.events().
		ColumnExpr("e.issue_type, COUNT(*) AS count").
		GroupExpr("e.issue_type"), filter).
		Scan(ctx, &byType)
	if err != nil {
		return nil, dbError("count events by type", err)
	}

	var topGPUs []gpuCountRow
	err = applyFilter(r.events().
		ColumnExpr("e.gpu_id, COUNT(*) AS count").
		GroupExpr("e.gpu_id").
		OrderExpr("count DESC, e.gpu_id").
		Limit(domain.TopGPULimit), filter).
		Scan(ctx, &topGPUs)
	if err != nil {
		return nil, dbError("count events by gpu", err)
	}

	var byNode []nodeCountRow
	err = applyFilter(r.events().
		ColumnExpr("e.node, COUNT(*) AS count").
		GroupExpr("e.node").
		OrderExpr("count DESC, e.node"), filter).
		Scan(ctx, &byNode)
	if err != nil {
		return nil, dbError("count events by node", err)
	}

	stats := &domain.SummaryStats{
		TotalEvents:  totals.Total,
		EventsByType: make(map[domain.IssueType]int64, len(byType)),
		TopGPUs:      make([]domain.GPUCount, len(topGPUs)),
		EventsByNode: make([]domain.NodeCount, len(byNode)),
		TemperatureStats: domain.TemperatureStats{
			Average: totals.AvgTemp,
			Maximum: totals.MaxTemp,
			Minimum: totals.MinTemp,
		},
	}
	for _, t := range byType {
		stats.EventsByType[domain.IssueType(t.IssueType)] = t.Count
	}
	for i, g := range topGPUs {
		stats.TopGPUs[i] = domain.GPUCount{GPUID: g.GPUID, Count: g.Count}
	}
	for i, n := range byNode {
		stats.EventsByNode[i] = domain.NodeCount{Node: n.Node, Count: n.Count}
	}
	return stats, nil
}

// TimeSeries buckets matching events with TimescaleDB's time_bucket.
// Unknown intervals fall back to one day.
func (r *EventRepository) TimeSeries(ctx context.Context, filter storage.EventFilter, interval storage.Interval) ([]*domain.TimeBucket, error) {
	width := bucketWidths[storage.ParseInterval(string(interval))]

	var rows []timeBucketRow
	err := applyFilter(r.events().
		ColumnExpr("time_bucket(?::interval, e.timestamp) AS time_period", width).
		ColumnExpr("COUNT(*) AS event_count").
		ColumnExpr("AVG(e.temperature) AS avg_temperature").
		ColumnExpr("MAX(e.temperature) AS max_temperature").
		GroupExpr("time_period").
		OrderExpr("time_period ASC"), filter).
		Scan(ctx, &rows)
	if err != nil {
		return nil, dbError("time series", err)
	}

	buckets := make([]*domain.TimeBucket, len(rows))
	for i, row := range rows {
		buckets[i] = &domain.TimeBucket{
			TimePeriod:     row.TimePeriod.UTC(),
			EventCount:     row.EventCount,
			AvgTemperature: row.AvgTemperature,
			MaxTemperature: row.MaxTemperature,
		}
	}
	return buckets, nil
}

// ListGPUs returns every GPU with events, busiest first
func (r *EventRepository) ListGPUs(ctx context.Context) ([]*domain.GPUSummary, error) {
	var rows []gpuSummaryRow
	err := r.events().
		ColumnExpr("e.gpu_id").
		ColumnExpr("gm.model, gm.location, gm.node").
		ColumnExpr("COUNT(e.id) AS event_count").
		ColumnExpr("MAX(e.timestamp) AS last_event").
		Join("LEFT JOIN gpu_metadata AS gm ON gm.gpu_id = e.gpu_id").
		GroupExpr("e.gpu_id, gm.model, gm.location, gm.node").
		OrderExpr("event_count DESC, e.gpu_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, dbError("list gpus", err)
	}

	gpus := make([]*domain.GPUSummary, len(rows))
	for i, row := range rows {
		gpus[i] = &domain.GPUSummary{
			GPUID:      row.GPUID,
			Model:      row.Model,
			Location:   row.Location,
			Node:       row.Node,
			EventCount: row.EventCount,
			LastEvent:  row.LastEvent,
		}
	}
	return gpus, nil
}

// Count returns the total number of stored events
func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.events().Count(ctx)
	if err != nil {
		return 0, dbError("count events", err)
	}
	return int64(n), nil
}

func (r *EventRepository) events() *bun.SelectQuery {
	return r.db.NewSelect().Model((*ThermalEventModel)(nil))
}

// applyFilter adds a WHERE clause per set filter field. Date bounds are
// passed through for the server to cast, so malformed dates fail there.
func applyFilter(q *bun.SelectQuery, filter storage.EventFilter) *bun.SelectQuery {
	if filter.StartDate != "" {
		q = q.Where("e.timestamp >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("e.timestamp <= ?", filter.EndDate)
	}
	if filter.GPUID != "" {
		q = q.Where("e.gpu_id = ?", filter.GPUID)
	}
	if filter.IssueType != "" {
		q = q.Where("e.issue_type = ?", filter.IssueType)
	}
	if filter.Node != "" {
		q = q.Where("e.node = ?", filter.Node)
	}
	return q
}

func dbError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDatabaseError, op, err)
}
