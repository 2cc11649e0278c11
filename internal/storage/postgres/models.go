package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
)

// ThermalEventModel maps gpu_thermal_events. The table is a TimescaleDB
// hypertable on timestamp, so timestamp is part of the primary key.
type ThermalEventModel struct {
	bun.BaseModel `bun:"table:gpu_thermal_events,alias:e"`

	ID             int64      `bun:"id,pk,autoincrement"`
	Node           string     `bun:"node,type:varchar(50),notnull"`
	GPUID          string     `bun:"gpu_id,type:varchar(50),notnull"`
	Timestamp      time.Time  `bun:"timestamp,pk,type:timestamptz,notnull"`
	Temperature    *float64   `bun:"temperature,type:double precision"`
	AvgTemperature *float64   `bun:"avg_temperature,type:double precision"`
	IssueType      string     `bun:"issue_type,type:varchar(20),notnull"`
	Reason         *string    `bun:"reason,type:varchar(100)"`
	Date           *time.Time `bun:"date,type:timestamptz"`
	CreatedAt      time.Time  `bun:"created_at,type:timestamptz,nullzero,notnull,default:current_timestamp"`
}

// GPUMetadataModel maps gpu_metadata
type GPUMetadataModel struct {
	bun.BaseModel `bun:"table:gpu_metadata,alias:gm"`

	ID        int64     `bun:"id,pk,autoincrement"`
	GPUID     string    `bun:"gpu_id,type:varchar(50),notnull,unique"`
	Node      *string   `bun:"node,type:varchar(50)"`
	Model     *string   `bun:"model,type:varchar(100)"`
	Location  *string   `bun:"location,type:varchar(100)"`
	MaxTemp   *float64  `bun:"max_temp,type:double precision"`
	CreatedAt time.Time `bun:"created_at,type:timestamptz,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,type:timestamptz,nullzero,notnull,default:current_timestamp"`
}

// eventRow is an event left-joined with its GPU metadata
type eventRow struct {
	ThermalEventModel `bun:",extend"`

	Model    *string `bun:"model"`
	Location *string `bun:"location"`
}

func newThermalEventModel(e *domain.ThermalEvent) ThermalEventModel {
	return ThermalEventModel{
		Node:           e.Node,
		GPUID:          e.GPUID,
		Timestamp:      e.Timestamp,
		Temperature:    e.Temperature,
		AvgTemperature: e.AvgTemperature,
		IssueType:      string(e.IssueType),
		Reason:         e.Reason,
		Date:           e.Date,
	}
}

func (m *ThermalEventModel) toDomain() domain.ThermalEvent {
	return domain.ThermalEvent{
		ID:             m.ID,
		Node:           m.Node,
		GPUID:          m.GPUID,
		Timestamp:      m.Timestamp.UTC(),
		Temperature:    m.Temperature,
		AvgTemperature: m.AvgTemperature,
		IssueType:      domain.IssueType(m.IssueType),
		Reason:         m.Reason,
		Date:           m.Date,
		CreatedAt:      m.CreatedAt,
	}
}

func (r *eventRow) toDomain() *domain.EventRecord {
	return &domain.EventRecord{
		ThermalEvent: r.ThermalEventModel.toDomain(),
		Model:        r.Model,
		Location:     r.Location,
	}
}

func newGPUMetadataModel(m *domain.GPUMetadata) *GPUMetadataModel {
	n := m.Normalized()
	return &GPUMetadataModel{
		GPUID:    n.GPUID,
		Node:     n.Node,
		Model:    n.Model,
		Location: n.Location,
		MaxTemp:  n.MaxTemp,
	}
}

func (m *GPUMetadataModel) toDomain() *domain.GPUMetadata {
	return &domain.GPUMetadata{
		GPUID:     m.GPUID,
		Node:      m.Node,
		Model:     m.Model,
		Location:  m.Location,
		MaxTemp:   m.MaxTemp,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type gpuCountRow struct {
	GPUID string `bun:"gpu_id"`
	Count int64  `bun:"count"`
}

type nodeCountRow struct {
	Node  string `bun:"node"`
	Count int64  `bun:"count"`
}

type timeBucketRow struct {
	TimePeriod     time.Time `bun:"time_period"`
	EventCount     int64     `bun:"event_count"`
	AvgTemperature *float64  `bun:"avg_temperature"`
	MaxTemperature *float64  `bun:"max_temperature"`
}

type gpuSummaryRow struct {
	GPUID      string     `bun:"gpu_id"`
	Model      *string    `bun:"model"`
	Location   *string    `bun:"location"`
	Node       *string    `bun:"node"`
	EventCount int64      `bun:"event_count"`
	LastEvent  *time.Time `bun:"last_event"`
}
