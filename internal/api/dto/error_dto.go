package dto

import "time"

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error     string    `json:"error" example:"GPU not found"`
	Message   string    `json:"message" example:"No metadata found for GPU: GPU_99"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-18T12:34:56Z"`
}
