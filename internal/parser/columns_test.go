package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile_CanonicalHeader(t *testing.T) {
	header := []string{"node", "timestamp", "gpu_id", "temp", "avg_temp", "reason", "date"}

	m, missing := Reconcile(header)

	assert.Empty(t, missing)
	idx, ok := m.Index(FieldTemperature)
	assert.True(t, ok)
	assert.Equal(t, 3, idx)
	assert.Equal(t, "temp", m.Source(FieldTemperature))
	assert.Equal(t, "avg_temp", m.Source(FieldAvgTemperature))
	assert.False(t, m.Has(FieldModel))
}

func TestReconcile_Aliases(t *testing.T) {
	header := []string{"host", "datetime", "device", "gpu_temp", "status", "event_date"}

	m, missing := Reconcile(header)

	assert.Empty(t, missing)
	assert.Equal(t, "host", m.Source(FieldNode))
	assert.Equal(t, "datetime", m.Source(FieldTimestamp))
	assert.Equal(t, "device", m.Source(FieldGPUID))
	assert.Equal(t, "gpu_temp", m.Source(FieldTemperature))
	assert.Equal(t, "status", m.Source(FieldReason))
	assert.Equal(t, "event_date", m.Source(FieldDate))
}

func TestReconcile_PriorityOrder(t *testing.T) {
	// "temp" precedes "temperature" in the alias list even though it comes later in the header
	header := []string{"node", "time", "gpu", "temperature", "temp", "reason"}

	m, _ := Reconcile(header)

	assert.Equal(t, "temp", m.Source(FieldTemperature))
	idx, _ := m.Index(FieldTemperature)
	assert.Equal(t, 4, idx)
}

func TestReconcile_MissingRequired(t *testing.T) {
	header := []string{"host", "temp", "reason"}

	m, missing := Reconcile(header)

	assert.Equal(t, []Field{FieldGPUID, FieldTimestamp}, missing)
	assert.True(t, m.Has(FieldNode))
	assert.True(t, m.Has(FieldTemperature))
}

func TestReconcile_OptionalFieldsAbsent(t *testing.T) {
	header := []string{"node", "timestamp", "gpu_id", "reason"}

	m, missing := Reconcile(header)

	assert.Empty(t, missing)
	assert.False(t, m.Has(FieldTemperature))
	assert.False(t, m.Has(FieldAvgTemperature))
	assert.False(t, m.Has(FieldDate))
	assert.Len(t, m.Sources(), 4)
}

func TestReconcile_TrimsHeaderCells(t *testing.T) {
	header := []string{"\ufeffnode", " timestamp ", "gpu_id", "reason "}

	_, missing := Reconcile(header)

	assert.Empty(t, missing)
}

func TestReconcile_CaseSensitive(t *testing.T) {
	header := []string{"Node", "Timestamp", "GPU_ID", "Reason"}

	_, missing := Reconcile(header)

	assert.Len(t, missing, 4)
}
