package aggregate

import (
	"math"
)

// EntityTable is the aggregation result: one row per entity, one column
// per "{strategy}_{quantity}" pair. Missing cells are NaN.
type EntityTable struct {
	entities []string
	columns  []string
	rows     map[string]map[string]float64
}

// NewEntityTable creates an empty result table.
func NewEntityTable() *EntityTable {
	return &EntityTable{rows: make(map[string]map[string]float64)}
}

// Set stores one cell, registering the entity and column on first use.
// Entity and column order is first-seen.
func (t *EntityTable) Set(entity, column string, value float64) {
	row, ok := t.rows[entity]
	if !ok {
		row = make(map[string]float64)
		t.rows[entity] = row
		t.entities = append(t.entities, entity)
	}
	if _, ok := row[column]; !ok {
		if !t.hasColumn(column) {
			t.columns = append(t.columns, column)
		}
	}
	row[column] = value
}

func (t *EntityTable) hasColumn(column string) bool {
	for _, c := range t.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Entities returns the row keys in first-seen order.
func (t *EntityTable) Entities() []string {
	return append([]string(nil), t.entities...)
}

// Columns returns the column names in first-seen order.
func (t *EntityTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Value returns one cell and whether it was set.
func (t *EntityTable) Value(entity, column string) (float64, bool) {
	row, ok := t.rows[entity]
	if !ok {
		return math.NaN(), false
	}
	v, ok := row[column]
	if !ok {
		return math.NaN(), false
	}
	return v, true
}

// Row returns the values of one entity across all columns, NaN-filled.
func (t *EntityTable) Row(entity string) []float64 {
	out := make([]float64, len(t.columns))
	for i, c := range t.columns {
		v, ok := t.Value(entity, c)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// Len returns the number of entity rows.
func (t *EntityTable) Len() int {
	return len(t.entities)
}
