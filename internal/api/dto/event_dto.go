package dto

import "time"

// EventResponse represents a thermal event in API responses
type EventResponse struct {
	ID             int64      `json:"id" example:"1"`
	Node           string     `json:"node" example:"10.4.21.8"`
	GPUID          string     `json:"gpu_id" example:"GPU_28"`
	Timestamp      time.Time  `json:"timestamp" example:"2025-03-17T00:00:00Z"`
	Temperature    *float64   `json:"temperature" example:"44.0"`
	AvgTemperature *float64   `json:"avg_temperature" example:"28.08"`
	IssueType      string     `json:"issue_type" example:"failed"`
	Reason         *string    `json:"reason" example:"failed"`
	Date           *time.Time `json:"date"`
	Model          *string    `json:"model"`
	Location       *string    `json:"location"`
	CreatedAt      time.Time  `json:"created_at"`
}

// EventListResponse wraps a list of events
type EventListResponse struct {
	Events []*EventResponse `json:"events"`
	Total  int              `json:"total" example:"2"`
}

// UploadResponse is returned after a CSV upload has been ingested
type UploadResponse struct {
	Message  string `json:"message" example:"Successfully processed 4 records"`
	Filename string `json:"filename" example:"sample.csv"`
	Records  int    `json:"records" example:"4"`
}
