package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
)

func TestToEventResponse(t *testing.T) {
	temp := 44.0
	model := "A100"
	reason := "failed"
	ts := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	resp := ToEventResponse(&domain.EventRecord{
		ThermalEvent: domain.ThermalEvent{
			ID:          7,
			Node:        "10.4.21.8",
			GPUID:       "GPU_28",
			Timestamp:   ts,
			Temperature: &temp,
			IssueType:   domain.IssueFailed,
			Reason:      &reason,
		},
		Model: &model,
	})

	require.NotNil(t, resp)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "failed", resp.IssueType)
	assert.Equal(t, ts, resp.Timestamp)
	assert.Equal(t, "A100", *resp.Model)
	assert.Nil(t, resp.Location)
	assert.Nil(t, resp.AvgTemperature)
}

func TestToEventResponse_Nil(t *testing.T) {
	assert.Nil(t, ToEventResponse(nil))
	assert.Nil(t, ToGPUMetadataResponse(nil))
}

func TestToEventListResponse_Empty(t *testing.T) {
	resp := ToEventListResponse(nil)
	assert.NotNil(t, resp.Events)
	assert.Equal(t, 0, resp.Total)
}

func TestToSummaryResponse(t *testing.T) {
	maxTemp := 91.23
	resp := ToSummaryResponse(&domain.SummaryStats{
		TotalEvents:      4,
		EventsByType:     map[domain.IssueType]int64{domain.IssueFailed: 2, domain.IssueThrottled: 2},
		TopGPUs:          []domain.GPUCount{{GPUID: "GPU_22", Count: 2}},
		TemperatureStats: domain.TemperatureStats{Maximum: &maxTemp},
	})

	assert.Equal(t, int64(4), resp.TotalEvents)
	assert.Equal(t, map[string]int64{"failed": 2, "throttled": 2}, resp.EventsByType)
	assert.Equal(t, []GPUCountResponse{{GPUID: "GPU_22", Count: 2}}, resp.TopGPUs)
	assert.NotNil(t, resp.EventsByNode)
	assert.Empty(t, resp.EventsByNode)
	assert.Equal(t, 91.23, *resp.TemperatureStats.Maximum)
	assert.Nil(t, resp.TemperatureStats.Average)
}

func TestToTimeSeriesResponse(t *testing.T) {
	period := time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)
	resp := ToTimeSeriesResponse("week", []*domain.TimeBucket{{TimePeriod: period, EventCount: 2}})

	assert.Equal(t, "week", resp.Interval)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, period, resp.Buckets[0].TimePeriod)
}

func TestToGPUListResponse(t *testing.T) {
	node := "10.4.21.62"
	resp := ToGPUListResponse([]*domain.GPUSummary{
		{GPUID: "GPU_22", Node: &node, EventCount: 2},
		{GPUID: "GPU_28", EventCount: 2},
	})

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "GPU_22", resp.GPUs[0].GPUID)
	assert.Equal(t, node, *resp.GPUs[0].Node)
	assert.Nil(t, resp.GPUs[1].Node)
}
