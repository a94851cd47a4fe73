package run

import (
	"time"

	"resframe/domain/core"
)

// Run is the persistable record of one aggregation run: which source was
// reduced, with what strategy, and the resulting entity table.
type Run struct {
	ID        core.RunID  `json:"id" db:"id"`
	Source    string      `json:"source" db:"source"`
	Strategy  string      `json:"strategy" db:"strategy"`
	Entities  []string    `json:"entities"`
	Columns   []string    `json:"columns"`
	Values    [][]float64 `json:"values"` // row-major, aligned with Entities x Columns
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// New creates a run record with a fresh time-ordered id.
func New(source, strategy string, entities, columns []string, values [][]float64) *Run {
	return &Run{
		ID:        core.RunID(core.NewID()),
		Source:    source,
		Strategy:  strategy,
		Entities:  entities,
		Columns:   columns,
		Values:    values,
		CreatedAt: time.Now(),
	}
}

// Value returns one cell by entity and column name.
func (r *Run) Value(entity, column string) (float64, bool) {
	ei, ci := -1, -1
	for i, e := range r.Entities {
		if e == entity {
			ei = i
			break
		}
	}
	for i, c := range r.Columns {
		if c == column {
			ci = i
			break
		}
	}
	if ei < 0 || ci < 0 || ei >= len(r.Values) || ci >= len(r.Values[ei]) {
		return 0, false
	}
	return r.Values[ei][ci], true
}
