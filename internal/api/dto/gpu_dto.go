package dto

import "time"

// GPUResponse represents one GPU in the GPU listing
type GPUResponse struct {
	GPUID      string     `json:"gpu_id" example:"GPU_28"`
	Model      *string    `json:"model" example:"NVIDIA H100 80GB HBM3"`
	Location   *string    `json:"location" example:"rack-7"`
	Node       *string    `json:"node" example:"10.4.21.8"`
	EventCount int64      `json:"event_count" example:"2"`
	LastEvent  *time.Time `json:"last_event"`
}

// GPUListResponse wraps a list of GPUs
type GPUListResponse struct {
	GPUs  []*GPUResponse `json:"gpus"`
	Total int            `json:"total" example:"2"`
}

// GPUMetadataResponse is the stored metadata record of a single GPU
type GPUMetadataResponse struct {
	GPUID     string    `json:"gpu_id"`
	Node      *string   `json:"node"`
	Model     *string   `json:"model"`
	Location  *string   `json:"location"`
	MaxTemp   *float64  `json:"max_temp"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
