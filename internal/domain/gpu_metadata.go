package domain

import "time"

// GPUMetadata holds reference information about a GPU, keyed by GPUID.
// At most one record exists per GPUID. Optional fields are only ever
// overwritten by non-nil values (see MergeFrom).
type GPUMetadata struct {
	GPUID    string   `json:"gpu_id"`
	Node     *string  `json:"node"`
	Model    *string  `json:"model"`
	Location *string  `json:"location"`
	MaxTemp  *float64 `json:"max_temp"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MergeFrom copies every non-nil optional field of update into m.
// Empty strings count as absent.
func (m *GPUMetadata) MergeFrom(update *GPUMetadata) {
	if v := nonEmpty(update.Node); v != nil {
		m.Node = v
	}
	if v := nonEmpty(update.Model); v != nil {
		m.Model = v
	}
	if v := nonEmpty(update.Location); v != nil {
		m.Location = v
	}
	if update.MaxTemp != nil {
		m.MaxTemp = update.MaxTemp
	}
}

// Normalized returns a copy with empty optional strings replaced by nil
func (m *GPUMetadata) Normalized() *GPUMetadata {
	out := *m
	out.Node = nonEmpty(m.Node)
	out.Model = nonEmpty(m.Model)
	out.Location = nonEmpty(m.Location)
	return &out
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// GPUSummary is one row of the GPU listing: metadata plus event activity
type GPUSummary struct {
	GPUID      string     `json:"gpu_id"`
	Model      *string    `json:"model"`
	Location   *string    `json:"location"`
	Node       *string    `json:"node"`
	EventCount int64      `json:"event_count"`
	LastEvent  *time.Time `json:"last_event"`
}
