package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/api/dto"
)

// Client talks to a running gpu-thermal server
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// New creates a client for the server at baseURL
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		logger:     logger,
	}
}

// Health checks that the server is up
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/health")
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("server unhealthy: %s", resp.Status())
	}

	return &health, nil
}

// UploadCSV posts the file at path to /upload and returns the ingestion result
func (c *Client) UploadCSV(ctx context.Context, path string) (*dto.UploadResponse, error) {
	var (
		result  dto.UploadResponse
		failure dto.ErrorResponse
	)

	c.logger.Debug("Uploading CSV", zap.String("path", path))

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFile("file", path).
		SetResult(&result).
		SetError(&failure).
		Post("/upload")
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", path, err)
	}

	if resp.IsError() {
		c.logger.Warn("Upload rejected",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", failure.Message),
		)
		if failure.Message != "" {
			return nil, fmt.Errorf("upload failed (%d): %s", resp.StatusCode(), failure.Message)
		}
		return nil, fmt.Errorf("upload failed: %s", resp.Status())
	}

	return &result, nil
}
