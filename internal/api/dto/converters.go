package dto

import (
	"github.com/tyee-ai/gpu-thermal/internal/domain"
)

// ToEventResponse converts domain.EventRecord to dto.EventResponse
func ToEventResponse(r *domain.EventRecord) *EventResponse {
	if r == nil {
		return nil
	}

	return &EventResponse{
		ID:             r.ID,
		Node:           r.Node,
		GPUID:          r.GPUID,
		Timestamp:      r.Timestamp,
		Temperature:    r.Temperature,
		AvgTemperature: r.AvgTemperature,
		IssueType:      string(r.IssueType),
		Reason:         r.Reason,
		Date:           r.Date,
		Model:          r.Model,
		Location:       r.Location,
		CreatedAt:      r.CreatedAt,
	}
}

// ToEventListResponse converts a slice of domain.EventRecord to dto.EventListResponse
func ToEventListResponse(records []*domain.EventRecord) *EventListResponse {
	responses := make([]*EventResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, ToEventResponse(r))
	}

	return &EventListResponse{
		Events: responses,
		Total:  len(responses),
	}
}

// ToGPUListResponse converts the GPU listing
func ToGPUListResponse(gpus []*domain.GPUSummary) *GPUListResponse {
	responses := make([]*GPUResponse, 0, len(gpus))
	for _, g := range gpus {
		responses = append(responses, &GPUResponse{
			GPUID:      g.GPUID,
			Model:      g.Model,
			Location:   g.Location,
			Node:       g.Node,
			EventCount: g.EventCount,
			LastEvent:  g.LastEvent,
		})
	}

	return &GPUListResponse{
		GPUs:  responses,
		Total: len(responses),
	}
}

// ToGPUMetadataResponse converts domain.GPUMetadata to dto.GPUMetadataResponse
func ToGPUMetadataResponse(m *domain.GPUMetadata) *GPUMetadataResponse {
	if m == nil {
		return nil
	}

	return &GPUMetadataResponse{
		GPUID:     m.GPUID,
		Node:      m.Node,
		Model:     m.Model,
		Location:  m.Location,
		MaxTemp:   m.MaxTemp,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToSummaryResponse converts domain.SummaryStats. Empty groupings are
// rendered as empty lists, never null.
func ToSummaryResponse(s *domain.SummaryStats) *SummaryResponse {
	resp := &SummaryResponse{
		TotalEvents:  s.TotalEvents,
		EventsByType: make(map[string]int64, len(s.EventsByType)),
		TopGPUs:      make([]GPUCountResponse, 0, len(s.TopGPUs)),
		EventsByNode: make([]NodeCountResponse, 0, len(s.EventsByNode)),
		TemperatureStats: TemperatureStatsResponse{
			Average: s.TemperatureStats.Average,
			Maximum: s.TemperatureStats.Maximum,
			Minimum: s.TemperatureStats.Minimum,
		},
	}

	for issue, count := range s.EventsByType {
		resp.EventsByType[string(issue)] = count
	}
	for _, g := range s.TopGPUs {
		resp.TopGPUs = append(resp.TopGPUs, GPUCountResponse{GPUID: g.GPUID, Count: g.Count})
	}
	for _, n := range s.EventsByNode {
		resp.EventsByNode = append(resp.EventsByNode, NodeCountResponse{Node: n.Node, Count: n.Count})
	}

	return resp
}

// ToTimeSeriesResponse converts time buckets
func ToTimeSeriesResponse(interval string, buckets []*domain.TimeBucket) *TimeSeriesResponse {
	responses := make([]*TimeBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		responses = append(responses, &TimeBucketResponse{
			TimePeriod:     b.TimePeriod,
			EventCount:     b.EventCount,
			AvgTemperature: b.AvgTemperature,
			MaxTemperature: b.MaxTemperature,
		})
	}

	return &TimeSeriesResponse{
		Interval: interval,
		Buckets:  responses,
		Total:    len(responses),
	}
}
