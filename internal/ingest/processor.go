package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
	"github.com/tyee-ai/gpu-thermal/internal/parser"
	"github.com/tyee-ai/gpu-thermal/internal/storage"
)

// Processor turns thermal event CSV files into stored events and GPU metadata
type Processor struct {
	events   storage.EventRepository
	metadata storage.GPUMetadataRepository
	workers  int
	logger   *zap.Logger
}

// NewProcessor creates a processor. workers bounds how many files
// ProcessDirectory ingests at once.
func NewProcessor(
	events storage.EventRepository,
	metadata storage.GPUMetadataRepository,
	workers int,
	logger *zap.Logger,
) *Processor {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Processor{
		events:   events,
		metadata: metadata,
		workers:  workers,
		logger:   logger.With(zap.String("component", "ingest")),
	}
}

// ProcessCSVFile ingests one CSV file and returns the number of events stored.
//
// The whole file is read and cleaned before anything is written: a CSV that
// cannot be read, is malformed, or lacks a required column fails without
// touching the store. Rows with an unparseable timestamp or an unrecognized
// reason are dropped and only reduce the returned count.
func (p *Processor) ProcessCSVFile(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	log := p.logger.With(zap.String("file", path))

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	rows, dropped, err := readRows(f, log)
	if err != nil {
		log.Error("Failed to read CSV file", zap.Error(err))
		return 0, err
	}

	if dropped > 0 {
		log.Warn("Dropped invalid rows",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(rows)),
		)
	}

	if len(rows) == 0 {
		log.Info("No valid rows to ingest")
		return 0, nil
	}

	events := make([]*domain.ThermalEvent, len(rows))
	for i, row := range rows {
		events[i] = row.ToThermalEvent()
	}

	stored, err := p.events.BulkInsert(ctx, events)
	if err != nil {
		log.Error("Failed to store events", zap.Error(err))
		return 0, fmt.Errorf("failed to store events: %w", err)
	}

	p.upsertMetadata(ctx, rows, log)

	log.Info("Ingested CSV file", zap.Int("events", stored))
	return stored, nil
}

// readRows reads and cleans every data row. Row-level problems are logged
// and counted; CSV-level problems abort the read.
func readRows(r io.Reader, log *zap.Logger) ([]*parser.Row, int, error) {
	reader, err := parser.NewReader(r)
	if err != nil {
		return nil, 0, err
	}

	var rows []*parser.Row
	dropped := 0
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}

		var rowErr *parser.RowError
		if errors.As(err, &rowErr) {
			dropped++
			log.Debug("Dropping row",
				zap.Int("row", rowErr.Row),
				zap.String("value", rowErr.Value),
				zap.Error(rowErr.Err),
			)
			continue
		}
		if err != nil {
			return nil, 0, err
		}

		rows = append(rows, row)
	}

	return rows, dropped, nil
}

type gpuKey struct {
	gpuID string
	node  string
}

// upsertMetadata writes one record per distinct (gpu_id, node) pair in order
// of first appearance. Later rows for a pair fill in or replace the optional
// fields. A failed upsert is logged and does not fail the ingestion.
func (p *Processor) upsertMetadata(ctx context.Context, rows []*parser.Row, log *zap.Logger) {
	var order []gpuKey
	pairs := make(map[gpuKey]*domain.GPUMetadata)
	for _, row := range rows {
		key := gpuKey{gpuID: row.GPUID, node: row.Node}
		if meta, ok := pairs[key]; ok {
			meta.MergeFrom(row.ToGPUMetadata())
			continue
		}
		pairs[key] = row.ToGPUMetadata()
		order = append(order, key)
	}

	for _, key := range order {
		if err := p.metadata.Upsert(ctx, pairs[key]); err != nil {
			log.Warn("Failed to upsert GPU metadata",
				zap.String("gpu_id", key.gpuID),
				zap.String("node", key.node),
				zap.Error(err),
			)
		}
	}
}

// ProcessDirectory ingests every *.csv file directly inside dir, keyed by
// file name. A file that fails is logged and recorded as 0.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (map[string]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var (
		mu      sync.Mutex
		results = make(map[string]int)
	)

	wp := workerpool.New(p.workers)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		name := entry.Name()
		wp.Submit(func() {
			count, err := p.ProcessCSVFile(ctx, filepath.Join(dir, name))
			if err != nil {
				p.logger.Error("Error processing file", zap.String("file", name), zap.Error(err))
				count = 0
			}

			mu.Lock()
			results[name] = count
			mu.Unlock()
		})
	}
	wp.StopWait()

	return results, nil
}
