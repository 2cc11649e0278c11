package dto

import "time"

// SummaryResponse carries the summary statistics of a filtered event set
type SummaryResponse struct {
	TotalEvents      int64                    `json:"total_events" example:"4"`
	EventsByType     map[string]int64         `json:"events_by_type"`
	TopGPUs          []GPUCountResponse       `json:"top_gpus"`
	EventsByNode     []NodeCountResponse      `json:"events_by_node"`
	TemperatureStats TemperatureStatsResponse `json:"temperature_stats"`
}

type GPUCountResponse struct {
	GPUID string `json:"gpu_id"`
	Count int64  `json:"count"`
}

type NodeCountResponse struct {
	Node  string `json:"node"`
	Count int64  `json:"count"`
}

// TemperatureStatsResponse fields are null when no event has a temperature
type TemperatureStatsResponse struct {
	Average *float64 `json:"average"`
	Maximum *float64 `json:"maximum"`
	Minimum *float64 `json:"minimum"`
}

// TimeBucketResponse is one bucket of the time series
type TimeBucketResponse struct {
	TimePeriod     time.Time `json:"time_period"`
	EventCount     int64     `json:"event_count"`
	AvgTemperature *float64  `json:"avg_temperature"`
	MaxTemperature *float64  `json:"max_temperature"`
}

// TimeSeriesResponse wraps the buckets with the interval actually used
type TimeSeriesResponse struct {
	Interval string                `json:"interval" example:"day"`
	Buckets  []*TimeBucketResponse `json:"buckets"`
	Total    int                   `json:"total"`
}
