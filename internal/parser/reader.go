package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tyee-ai/gpu-thermal/internal/domain"
	"github.com/tyee-ai/gpu-thermal/pkg/utils"
)

// Row-level rejection causes. Rows failing with these are dropped, the
// file as a whole is still ingested.
var (
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrUnrecognizedReason = errors.New("unrecognized reason")
	ErrMissingIdentifier  = errors.New("missing node or gpu_id")
)

// RowError describes why a single data row was dropped
type RowError struct {
	Row   int
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v: %q", e.Row, e.Err, e.Value)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Row is one cleaned CSV row
type Row struct {
	Node           string
	GPUID          string
	Timestamp      time.Time
	Temperature    *float64
	AvgTemperature *float64
	IssueType      domain.IssueType
	Reason         string // canonical issue type, as stored
	Date           *time.Time

	// Optional GPU metadata columns
	Model    *string
	Location *string
	MaxTemp  *float64
}

// ToThermalEvent converts the row to a domain event
func (r *Row) ToThermalEvent() *domain.ThermalEvent {
	reason := r.Reason
	return &domain.ThermalEvent{
		Node:           r.Node,
		GPUID:          r.GPUID,
		Timestamp:      r.Timestamp,
		Temperature:    r.Temperature,
		AvgTemperature: r.AvgTemperature,
		IssueType:      r.IssueType,
		Reason:         &reason,
		Date:           r.Date,
	}
}

// ToGPUMetadata returns the metadata carried by the row
func (r *Row) ToGPUMetadata() *domain.GPUMetadata {
	node := r.Node
	return &domain.GPUMetadata{
		GPUID:    r.GPUID,
		Node:     &node,
		Model:    r.Model,
		Location: r.Location,
		MaxTemp:  r.MaxTemp,
	}
}

// Reader reads thermal event rows from CSV data
type Reader struct {
	reader  *csv.Reader
	header  []string
	mapping Mapping
	row     int
}

// NewReader reads and reconciles the header. It fails with
// domain.ErrMissingColumns when a required field has no matching column.
func NewReader(r io.Reader) (*Reader, error) {
	csvReader := newCSVReader(r)

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty CSV file", domain.ErrParsingError)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", domain.ErrParsingError, err)
	}
	header = append([]string(nil), header...)

	mapping, missing := Reconcile(header)
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(names, ", "))
	}

	return &Reader{
		reader:  csvReader,
		header:  header,
		mapping: mapping,
		row:     1, // Row 1 is header
	}, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true
	// Width is checked by callers: short rows are padded, long rows fail the file
	csvReader.FieldsPerRecord = -1
	return csvReader
}

// Header returns the raw header
func (r *Reader) Header() []string {
	return r.header
}

// Mapping returns the reconciled column mapping
func (r *Reader) Mapping() Mapping {
	return r.mapping
}

// Row returns the current row number (1-indexed, header is row 1)
func (r *Reader) Row() int {
	return r.row
}

// Next reads and cleans the next row.
// Returns (nil, io.EOF) at end of input, (nil, *RowError) for a row that
// must be dropped, and a domain.ErrParsingError for malformed CSV.
func (r *Reader) Next() (*Row, error) {
	record, err := r.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParsingError, err)
	}

	r.row++
	if len(record) > len(r.header) {
		return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
			domain.ErrParsingError, r.row, len(record), len(r.header))
	}
	return r.parseRecord(record)
}

func (r *Reader) parseRecord(record []string) (*Row, error) {
	get := func(f Field) string {
		if idx, ok := r.mapping.Index(f); ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	rawTimestamp := get(FieldTimestamp)
	timestamp, err := utils.ParseTimestamp(rawTimestamp)
	if err != nil {
		return nil, &RowError{Row: r.row, Value: rawTimestamp, Err: ErrInvalidTimestamp}
	}

	reason := get(FieldReason)
	issue, ok := domain.NormalizeReason(reason)
	if !ok {
		return nil, &RowError{Row: r.row, Value: reason, Err: ErrUnrecognizedReason}
	}

	node, gpuID := get(FieldNode), get(FieldGPUID)
	if node == "" || gpuID == "" {
		return nil, &RowError{Row: r.row, Value: node + "/" + gpuID, Err: ErrMissingIdentifier}
	}

	row := &Row{
		Node:           node,
		GPUID:          gpuID,
		Timestamp:      timestamp,
		Temperature:    parseFloat(get(FieldTemperature)),
		AvgTemperature: parseFloat(get(FieldAvgTemperature)),
		IssueType:      issue,
		Reason:         string(issue),
		Model:          optional(get(FieldModel)),
		Location:       optional(get(FieldLocation)),
		MaxTemp:        parseFloat(get(FieldMaxTemp)),
	}

	if d, err := utils.ParseTimestamp(get(FieldDate)); err == nil {
		row.Date = &d
	}

	return row, nil
}

// parseFloat returns nil for empty or non-numeric values
func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ReadAll returns the header and every raw record of a CSV without cleaning
func ReadAll(r io.Reader) ([]string, [][]string, error) {
	csvReader := newCSVReader(r)
	csvReader.ReuseRecord = false

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrParsingError, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: empty CSV file", domain.ErrParsingError)
	}
	for i, record := range records[1:] {
		if len(record) > len(records[0]) {
			return nil, nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				domain.ErrParsingError, i+2, len(record), len(records[0]))
		}
	}
	return records[0], records[1:], nil
}
