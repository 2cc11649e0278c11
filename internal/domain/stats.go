package domain

import "time"

// TopGPULimit caps the number of GPUs reported in SummaryStats.TopGPUs
const TopGPULimit = 10

// SummaryStats aggregates the events matching a filter
type SummaryStats struct {
	TotalEvents      int64               `json:"total_events"`
	EventsByType     map[IssueType]int64 `json:"events_by_type"`
	TopGPUs          []GPUCount          `json:"top_gpus"`
	EventsByNode     []NodeCount         `json:"events_by_node"`
	TemperatureStats TemperatureStats    `json:"temperature_stats"`
}

type GPUCount struct {
	GPUID string `json:"gpu_id"`
	Count int64  `json:"count"`
}

type NodeCount struct {
	Node  string `json:"node"`
	Count int64  `json:"count"`
}

// TemperatureStats excludes null temperatures. All fields are nil when no
// event in the set carries a temperature.
type TemperatureStats struct {
	Average *float64 `json:"average"`
	Maximum *float64 `json:"maximum"`
	Minimum *float64 `json:"minimum"`
}

// TimeBucket is one fixed-width interval of the event time series
type TimeBucket struct {
	TimePeriod     time.Time `json:"time_period"`
	EventCount     int64     `json:"event_count"`
	AvgTemperature *float64  `json:"avg_temperature"`
	MaxTemperature *float64  `json:"max_temperature"`
}
