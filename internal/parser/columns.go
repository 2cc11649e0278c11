package parser

import "strings"

// Field is a canonical logical column of a thermal event CSV
type Field string

const (
	FieldNode           Field = "node"
	FieldTimestamp      Field = "timestamp"
	FieldGPUID          Field = "gpu_id"
	FieldTemperature    Field = "temperature"
	FieldAvgTemperature Field = "avg_temperature"
	FieldReason         Field = "reason"
	FieldDate           Field = "date"
	FieldModel          Field = "model"
	FieldLocation       Field = "location"
	FieldMaxTemp        Field = "max_temp"
)

// ColumnAlias lists the header spellings accepted for a field, in priority order
type ColumnAlias struct {
	Field   Field
	Aliases []string
}

// ColumnAliases is the reconciliation table used by Reconcile.
// For every field the first alias present in the header wins.
var ColumnAliases = []ColumnAlias{
	{FieldNode, []string{"node", "host", "server"}},
	{FieldTimestamp, []string{"timestamp", "time", "datetime"}},
	{FieldGPUID, []string{"gpu_id", "gpu", "device_id", "device"}},
	{FieldTemperature, []string{"temp", "temperature", "gpu_temp", "thermal"}},
	{FieldAvgTemperature, []string{"avg_temp", "average_temp", "avg_temperature"}},
	{FieldReason, []string{"reason", "issue_type", "type", "status", "event_type"}},
	{FieldDate, []string{"date", "event_date"}},
	{FieldModel, []string{"model", "gpu_model", "model_name"}},
	{FieldLocation, []string{"location", "rack", "site"}},
	{FieldMaxTemp, []string{"max_temp", "max_temperature", "rated_max_temp"}},
}

// RequiredFields must all be mapped for a file to be ingested
var RequiredFields = []Field{FieldNode, FieldGPUID, FieldTimestamp, FieldReason}

// Mapping records which source column each mapped field was read from
type Mapping struct {
	index  map[Field]int
	source map[Field]string
}

// Index returns the column index of a field
func (m Mapping) Index(f Field) (int, bool) {
	i, ok := m.index[f]
	return i, ok
}

// Has reports whether the field was found in the header
func (m Mapping) Has(f Field) bool {
	_, ok := m.index[f]
	return ok
}

// Source returns the header spelling a field was mapped from, or ""
func (m Mapping) Source(f Field) string {
	return m.source[f]
}

// Sources returns field -> source header for every mapped field
func (m Mapping) Sources() map[Field]string {
	out := make(map[Field]string, len(m.source))
	for f, s := range m.source {
		out[f] = s
	}
	return out
}

// Reconcile maps a CSV header onto the canonical fields.
// It returns the mapping and the required fields that could not be found.
// Header cells are compared after trimming whitespace and a UTF-8 BOM.
func Reconcile(header []string) (Mapping, []Field) {
	positions := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	m := Mapping{
		index:  make(map[Field]int),
		source: make(map[Field]string),
	}
	for _, ca := range ColumnAliases {
		for _, alias := range ca.Aliases {
			if i, ok := positions[alias]; ok {
				m.index[ca.Field] = i
				m.source[ca.Field] = alias
				break
			}
		}
	}

	var missing []Field
	for _, f := range RequiredFields {
		if !m.Has(f) {
			missing = append(missing, f)
		}
	}
	return m, missing
}
