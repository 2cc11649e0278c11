package domain

import "time"

// ThermalEvent is a single observed throttling or failure incident for a GPU.
// Events are append-only: created by ingestion, never updated or deleted.
type ThermalEvent struct {
	ID int64 `json:"id"`

	// Node is the host the GPU lives on (CSV: node, host, server)
	// Example: "10.4.21.8"
	Node string `json:"node"`

	// GPUID identifies the GPU on its node (CSV: gpu_id, gpu, device_id, device)
	// Example: "GPU_28"
	GPUID string `json:"gpu_id"`

	// Timestamp is when the incident happened. Always set.
	Timestamp time.Time `json:"timestamp"`

	Temperature    *float64 `json:"temperature"`
	AvgTemperature *float64 `json:"avg_temperature"`

	IssueType IssueType `json:"issue_type"`

	// Reason mirrors IssueType once ingested; source wording is not kept
	Reason *string `json:"reason"`

	Date *time.Time `json:"date"`

	// CreatedAt is assigned by the store on insert
	CreatedAt time.Time `json:"created_at"`
}

// EventRecord is a thermal event enriched with its GPU metadata.
// Model and Location are nil when no metadata exists for the GPU.
type EventRecord struct {
	ThermalEvent
	Model    *string `json:"model"`
	Location *string `json:"location"`
}
