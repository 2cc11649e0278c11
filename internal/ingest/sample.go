package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
)

// sampleRows is a minimal dataset in the expected CSV layout
var sampleRows = [][]string{
	{"node", "timestamp", "gpu_id", "temp", "avg_temp", "reason", "date"},
	{"10.4.21.8", "2025-03-17", "GPU_28", "44.0", "28.08", "Thermally Failed", "2025-03-17"},
	{"10.4.21.8", "2025-03-18", "GPU_28", "45.0", "28.61", "Thermally Failed", "2025-03-18"},
	{"10.4.21.62", "2025-04-15", "GPU_22", "86.24", "", "Throttled", "2025-04-15"},
	{"10.4.21.62", "2025-04-16", "GPU_22", "91.23", "", "Throttled", "2025-04-16"},
}

// WriteSampleCSV writes the sample dataset to path
func WriteSampleCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample CSV: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(sampleRows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write sample CSV: %w", err)
	}

	return f.Close()
}
