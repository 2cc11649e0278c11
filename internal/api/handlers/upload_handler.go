package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/api/dto"
	"github.com/tyee-ai/gpu-thermal/internal/domain"
)

// CSVIngester loads a CSV file from disk into the store
type CSVIngester interface {
	ProcessCSVFile(ctx context.Context, path string) (int, error)
}

// UploadHandler accepts CSV uploads and ingests them
type UploadHandler struct {
	ingester  CSVIngester
	uploadDir string
	maxBytes  int64
	logger    *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(ingester CSVIngester, uploadDir string, maxBytes int64, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{
		ingester:  ingester,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// Upload stores the multipart "file" under the upload directory and ingests it.
//
//	POST /upload
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		if c.Request.ContentLength > h.maxBytes {
			tooLarge(c, h.maxBytes)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge(c, h.maxBytes)
			return
		}
		badRequest(c, "No file provided")
		return
	}

	if fileHeader.Filename == "" {
		badRequest(c, "No file selected")
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		badRequest(c, "Invalid file type. Please upload a CSV file.")
		return
	}

	mtype, err := detectMimeType(fileHeader)
	if err != nil {
		storeError(c, "Failed to read upload", err)
		return
	}
	if !isText(mtype) {
		badRequest(c, fmt.Sprintf("Invalid file content: expected CSV text, got %s", mtype.String()))
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		storeError(c, "Failed to save upload", err)
		return
	}

	filename := filepath.Base(fileHeader.Filename)
	dest := filepath.Join(h.uploadDir, uuid.NewString()+"_"+filename)
	if err := c.SaveUploadedFile(fileHeader, dest); err != nil {
		storeError(c, "Failed to save upload", err)
		return
	}

	records, err := h.ingester.ProcessCSVFile(c.Request.Context(), dest)
	if err != nil {
		h.logger.Warn("Upload ingestion failed",
			zap.String("filename", filename),
			zap.String("path", dest),
			zap.Error(err),
		)
		if errors.Is(err, domain.ErrMissingColumns) || errors.Is(err, domain.ErrParsingError) {
			badRequest(c, err.Error())
			return
		}
		storeError(c, "Failed to process file", err)
		return
	}

	h.logger.Info("Upload ingested",
		zap.String("filename", filename),
		zap.Int("records", records),
	)

	c.JSON(http.StatusOK, dto.UploadResponse{
		Message:  fmt.Sprintf("Successfully processed %d records", records),
		Filename: filename,
		Records:  records,
	})
}

func detectMimeType(fh *multipart.FileHeader) (*mimetype.MIME, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return mimetype.DetectReader(f)
}

// isText accepts text/plain and anything derived from it, such as text/csv
func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:     "Invalid request",
		Message:   message,
		Timestamp: time.Now(),
	})
}

func tooLarge(c *gin.Context, limit int64) {
	c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
		Error:     "File too large",
		Message:   fmt.Sprintf("Upload exceeds the %d byte limit", limit),
		Timestamp: time.Now(),
	})
}
