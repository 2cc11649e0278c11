package ingest

import (
	"os"
	"strings"

	"github.com/tyee-ai/gpu-thermal/internal/parser"
)

const sampleRowLimit = 3

// ValidationResult describes how a CSV file would be interpreted by ingestion.
// When the file cannot be read, only FilePath, Error and Valid are set.
type ValidationResult struct {
	FilePath        string              `json:"file_path"`
	TotalRows       int                 `json:"total_rows"`
	Columns         []string            `json:"columns,omitempty"`
	ColumnMapping   map[string]string   `json:"column_mapping,omitempty"`
	MissingRequired []string            `json:"missing_required"`
	SampleData      []map[string]string `json:"sample_data,omitempty"`
	UniqueGPUs      *int                `json:"unique_gpus,omitempty"`
	UniqueNodes     *int                `json:"unique_nodes,omitempty"`
	Error           string              `json:"error,omitempty"`
	Valid           bool                `json:"valid"`
}

// ValidateCSVFormat inspects a CSV file without cleaning or storing anything
func ValidateCSVFormat(path string) *ValidationResult {
	result := &ValidationResult{FilePath: path}

	f, err := os.Open(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer f.Close()

	header, records, err := parser.ReadAll(f)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	mapping, missing := parser.Reconcile(header)

	result.TotalRows = len(records)
	result.Columns = header
	result.ColumnMapping = make(map[string]string)
	for field, source := range mapping.Sources() {
		result.ColumnMapping[string(field)] = source
	}
	result.MissingRequired = make([]string, len(missing))
	for i, field := range missing {
		result.MissingRequired[i] = string(field)
	}

	for _, record := range records[:min(sampleRowLimit, len(records))] {
		sample := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				sample[column] = record[i]
			}
		}
		result.SampleData = append(result.SampleData, sample)
	}

	if idx, ok := mapping.Index(parser.FieldGPUID); ok {
		n := countUnique(records, idx)
		result.UniqueGPUs = &n
	}
	if idx, ok := mapping.Index(parser.FieldNode); ok {
		n := countUnique(records, idx)
		result.UniqueNodes = &n
	}

	result.Valid = len(missing) == 0
	return result
}

// countUnique counts distinct non-empty values in column idx
func countUnique(records [][]string, idx int) int {
	seen := make(map[string]struct{})
	for _, record := range records {
		if idx >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[idx]); v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}
