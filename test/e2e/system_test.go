//go:build e2e

// Package e2e exercises a running gpu-thermal server end to end.
//
//	gpu-thermal serve &
//	go test -tags e2e ./test/e2e/...
package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyee-ai/gpu-thermal/internal/api/dto"
	"github.com/tyee-ai/gpu-thermal/internal/client"
	"github.com/tyee-ai/gpu-thermal/internal/ingest"
)

const defaultBaseURL = "http://localhost:5000"

func baseURL() string {
	if u := os.Getenv("THERMAL_E2E_URL"); u != "" {
		return u
	}
	return defaultBaseURL
}

func TestSystem(t *testing.T) {
	ctx := context.Background()
	c := client.New(baseURL(), 30*time.Second, nil)

	if _, err := c.Health(ctx); err != nil {
		t.Skipf("server not reachable at %s: %v", baseURL(), err)
	}

	rc := resty.New().SetBaseURL(baseURL()).SetTimeout(10 * time.Second)

	before := summary(t, rc)

	t.Run("upload sample", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sample.csv")
		require.NoError(t, ingest.WriteSampleCSV(path))

		result, err := c.UploadCSV(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, 4, result.Records)
	})

	t.Run("summary grows by the upload", func(t *testing.T) {
		after := summary(t, rc)
		assert.Equal(t, before.TotalEvents+4, after.TotalEvents)
	})

	t.Run("events are newest first", func(t *testing.T) {
		var events dto.EventListResponse
		resp, err := rc.R().
			SetQueryParams(map[string]string{"gpu_id": "GPU_28", "start_date": "2025-03-17", "end_date": "2025-03-18"}).
			SetResult(&events).
			Get("/api/data")
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode(), resp.String())
		require.GreaterOrEqual(t, events.Total, 2)

		for i := 0; i < len(events.Events)-1; i++ {
			assert.False(t, events.Events[i].Timestamp.Before(events.Events[i+1].Timestamp),
				"event %d is older than event %d", i, i+1)
		}
	})

	t.Run("gpu listing and metadata", func(t *testing.T) {
		var gpus dto.GPUListResponse
		resp, err := rc.R().SetResult(&gpus).Get("/api/gpus")
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode())
		assert.GreaterOrEqual(t, gpus.Total, 2)

		var meta dto.GPUMetadataResponse
		resp, err = rc.R().SetResult(&meta).Get("/api/gpus/GPU_22")
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode())
		assert.Equal(t, "GPU_22", meta.GPUID)
	})

	t.Run("weekly time series", func(t *testing.T) {
		var series dto.TimeSeriesResponse
		resp, err := rc.R().
			SetQueryParams(map[string]string{"interval": "week", "gpu_id": "GPU_22"}).
			SetResult(&series).
			Get("/api/timeseries")
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode())
		assert.Equal(t, "week", series.Interval)
		assert.NotEmpty(t, series.Buckets)
	})
}

func summary(t *testing.T, rc *resty.Client) dto.SummaryResponse {
	t.Helper()

	var stats dto.SummaryResponse
	resp, err := rc.R().SetResult(&stats).Get("/api/stats")
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode(), resp.String())
	return stats
}
