package handlers

import (
	"context"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
	"github.com/tyee-ai/gpu-thermal/internal/storage"
)

// MockEventRepository implements storage.EventRepository for testing
type MockEventRepository struct {
	BulkInsertFunc func(events []*domain.ThermalEvent) (int, error)
	QueryFunc      func(filter storage.EventFilter) ([]*domain.EventRecord, error)
	SummaryFunc    func(filter storage.EventFilter) (*domain.SummaryStats, error)
	TimeSeriesFunc func(filter storage.EventFilter, interval storage.Interval) ([]*domain.TimeBucket, error)
	ListGPUsFunc   func() ([]*domain.GPUSummary, error)
	CountFunc      func() (int64, error)
}

func (m *MockEventRepository) BulkInsert(_ context.Context, events []*domain.ThermalEvent) (int, error) {
	if m.BulkInsertFunc != nil {
		return m.BulkInsertFunc(events)
	}
	return len(events), nil
}

func (m *MockEventRepository) Query(_ context.Context, filter storage.EventFilter) ([]*domain.EventRecord, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(filter)
	}
	return nil, nil
}

func (m *MockEventRepository) Summary(_ context.Context, filter storage.EventFilter) (*domain.SummaryStats, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(filter)
	}
	return &domain.SummaryStats{}, nil
}

func (m *MockEventRepository) TimeSeries(_ context.Context, filter storage.EventFilter, interval storage.Interval) ([]*domain.TimeBucket, error) {
	if m.TimeSeriesFunc != nil {
		return m.TimeSeriesFunc(filter, interval)
	}
	return nil, nil
}

func (m *MockEventRepository) ListGPUs(_ context.Context) ([]*domain.GPUSummary, error) {
	if m.ListGPUsFunc != nil {
		return m.ListGPUsFunc()
	}
	return nil, nil
}

func (m *MockEventRepository) Count(_ context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc()
	}
	return 0, nil
}

// MockGPUMetadataRepository implements storage.GPUMetadataRepository for testing
type MockGPUMetadataRepository struct {
	UpsertFunc     func(meta *domain.GPUMetadata) error
	GetByGPUIDFunc func(gpuID string) (*domain.GPUMetadata, error)
	CountFunc      func() (int64, error)
}

func (m *MockGPUMetadataRepository) Upsert(_ context.Context, meta *domain.GPUMetadata) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(meta)
	}
	return nil
}

func (m *MockGPUMetadataRepository) GetByGPUID(_ context.Context, gpuID string) (*domain.GPUMetadata, error) {
	if m.GetByGPUIDFunc != nil {
		return m.GetByGPUIDFunc(gpuID)
	}
	return nil, domain.ErrGPUNotFound
}

func (m *MockGPUMetadataRepository) Count(_ context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc()
	}
	return 0, nil
}

// MockCSVIngester implements CSVIngester for testing
type MockCSVIngester struct {
	ProcessCSVFileFunc func(path string) (int, error)
	Paths              []string
}

func (m *MockCSVIngester) ProcessCSVFile(_ context.Context, path string) (int, error) {
	m.Paths = append(m.Paths, path)
	if m.ProcessCSVFileFunc != nil {
		return m.ProcessCSVFileFunc(path)
	}
	return 0, nil
}

var (
	_ storage.EventRepository       = (*MockEventRepository)(nil)
	_ storage.GPUMetadataRepository = (*MockGPUMetadataRepository)(nil)
	_ CSVIngester                   = (*MockCSVIngester)(nil)
)

func setupGinTest() (*gin.Engine, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	w := httptest.NewRecorder()
	return router, w
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
