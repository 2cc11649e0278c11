package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/api/dto"
	"github.com/tyee-ai/gpu-thermal/internal/config"
	"github.com/tyee-ai/gpu-thermal/internal/ingest"
	"github.com/tyee-ai/gpu-thermal/internal/storage/inmemory"
)

const sampleCSV = `node,timestamp,gpu_id,temp,avg_temp,reason,date
10.4.21.8,2025-03-17,GPU_28,44.0,28.08,Thermally Failed,2025-03-17
10.4.21.8,2025-03-18,GPU_28,45.0,28.61,Thermally Failed,2025-03-18
10.4.21.62,2025-04-15,GPU_22,86.24,,Throttled,2025-04-15
10.4.21.62,2025-04-16,GPU_22,91.23,,Throttled,2025-04-16
`

func setupTestRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metadata := inmemory.NewGPUMetadataRepository()
	events := inmemory.NewEventRepository(metadata)
	processor := ingest.NewProcessor(events, metadata, 1, zap.NewNop())

	return NewRouter(events, metadata, processor, config.IngestConfig{
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
	}, zap.NewNop())
}

func serve(router *Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.Engine().ServeHTTP(w, req)
	return w
}

func get(router *Router, path string) *httptest.ResponseRecorder {
	return serve(router, httptest.NewRequest(http.MethodGet, path, nil))
}

func uploadSample(t *testing.T, router *Router) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "sample.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return serve(router, req)
}

func TestNewRouter(t *testing.T) {
	router := setupTestRouter(t)

	assert.NotNil(t, router)
	assert.NotNil(t, router.engine)
	assert.NotNil(t, router.eventHandler)
	assert.NotNil(t, router.gpuHandler)
	assert.NotNil(t, router.uploadHandler)
}

func TestNewRouter_NilLogger(t *testing.T) {
	metadata := inmemory.NewGPUMetadataRepository()
	events := inmemory.NewEventRepository(metadata)

	router := NewRouter(events, metadata, ingest.NewProcessor(events, metadata, 1, nil), config.IngestConfig{}, nil)
	assert.NotNil(t, router.logger)
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := get(router, "/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.NotEmpty(t, response["timestamp"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_UploadThenQuery(t *testing.T) {
	router := setupTestRouter(t)

	w := uploadSample(t, router)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var upload dto.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))
	assert.Equal(t, 4, upload.Records)
	assert.Equal(t, "Successfully processed 4 records", upload.Message)

	t.Run("data filtered by date range", func(t *testing.T) {
		w := get(router, "/api/data?start_date=2025-03-17&end_date=2025-03-18")
		require.Equal(t, http.StatusOK, w.Code)

		var response dto.EventListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Equal(t, 2, response.Total)
		for _, e := range response.Events {
			assert.Equal(t, "GPU_28", e.GPUID)
			assert.Equal(t, "failed", e.IssueType)
			require.NotNil(t, e.Reason)
			assert.Equal(t, "failed", *e.Reason, "reason is stored canonical")
		}
		assert.True(t, response.Events[0].Timestamp.After(response.Events[1].Timestamp), "newest first")
	})

	t.Run("stats", func(t *testing.T) {
		w := get(router, "/api/stats")
		require.Equal(t, http.StatusOK, w.Code)

		var response dto.SummaryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(4), response.TotalEvents)
		assert.Equal(t, map[string]int64{"failed": 2, "throttled": 2}, response.EventsByType)
		assert.InDelta(t, 91.23, *response.TemperatureStats.Maximum, 1e-9)
		assert.InDelta(t, 44.0, *response.TemperatureStats.Minimum, 1e-9)
	})

	t.Run("stats filtered by issue type", func(t *testing.T) {
		w := get(router, "/api/stats?issue_type=throttled")
		require.Equal(t, http.StatusOK, w.Code)

		var response dto.SummaryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(2), response.TotalEvents)
		require.Len(t, response.TopGPUs, 1)
		assert.Equal(t, "GPU_22", response.TopGPUs[0].GPUID)
	})

	t.Run("gpus", func(t *testing.T) {
		w := get(router, "/api/gpus")
		require.Equal(t, http.StatusOK, w.Code)

		var response dto.GPUListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Total)
	})

	t.Run("gpu metadata", func(t *testing.T) {
		w := get(router, "/api/gpus/GPU_22")
		require.Equal(t, http.StatusOK, w.Code)

		var response dto.GPUMetadataResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "GPU_22", response.GPUID)
		assert.Equal(t, "10.4.21.62", *response.Node)
	})

	t.Run("unknown gpu", func(t *testing.T) {
		w := get(router, "/api/gpus/GPU_99")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("timeseries", func(t *testing.T) {
		w := get(router, "/api/timeseries?interval=day")
		require.Equal(t, http.StatusOK, w.Code)

		var response dto.TimeSeriesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "day", response.Interval)
		assert.Equal(t, 4, response.Total)
		for _, b := range response.Buckets {
			assert.Equal(t, int64(1), b.EventCount)
		}
	})
}

func TestRouter_MalformedDateIsServerError(t *testing.T) {
	router := setupTestRouter(t)

	w := get(router, "/api/data?start_date=not-a-date")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "not-a-date")
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/data", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := serve(router, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NotFoundRoute(t *testing.T) {
	router := setupTestRouter(t)

	w := get(router, "/nonexistent")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
