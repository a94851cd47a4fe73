package frame

import (
	"fmt"
	"math"

	"resframe/domain/core"
)

// Label is one hierarchical column label: one value per index level, in
// level order. Values are strings, float64, int or bool.
type Label []interface{}

// Equal compares two labels value by value, NaN-aware.
func (l Label) Equal(other Label) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if !EqualValue(l[i], other[i]) {
			return false
		}
	}
	return true
}

// EqualValue compares two label values. Two NaN floats compare equal, so
// chainage-less labels behave as plain values.
func EqualValue(a, b interface{}) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		return af == bf
	}
	return a == b
}

// ColumnIndex is a hierarchical column index: a fixed list of named levels
// and one label per column. It is immutable; transforms return new indexes.
type ColumnIndex struct {
	levels []string
	labels []Label
}

// NewColumnIndex builds an index from level names and per-column labels.
// Every label must carry exactly one value per level.
func NewColumnIndex(levels []string, labels []Label) (*ColumnIndex, error) {
	for i, l := range labels {
		if len(l) != len(levels) {
			return nil, fmt.Errorf("label %d has %d values for %d levels", i, len(l), len(levels))
		}
	}
	ix := &ColumnIndex{
		levels: append([]string(nil), levels...),
		labels: make([]Label, len(labels)),
	}
	for i, l := range labels {
		ix.labels[i] = append(Label(nil), l...)
	}
	return ix, nil
}

// Levels returns the level names in order.
func (ix *ColumnIndex) Levels() []string {
	return append([]string(nil), ix.levels...)
}

// Len returns the number of columns.
func (ix *ColumnIndex) Len() int {
	return len(ix.labels)
}

// Label returns the label of column i.
func (ix *ColumnIndex) Label(i int) Label {
	return append(Label(nil), ix.labels[i]...)
}

// HasLevel reports whether the index carries the named level.
func (ix *ColumnIndex) HasLevel(level string) bool {
	return ix.levelPos(level) >= 0
}

func (ix *ColumnIndex) levelPos(level string) int {
	for i, name := range ix.levels {
		if name == level {
			return i
		}
	}
	return -1
}

// Values returns the per-column values of one level.
func (ix *ColumnIndex) Values(level string) ([]interface{}, error) {
	pos := ix.levelPos(level)
	if pos < 0 {
		return nil, core.NewMissingLevelError(level)
	}
	out := make([]interface{}, len(ix.labels))
	for i, l := range ix.labels {
		out[i] = l[pos]
	}
	return out, nil
}

// Value returns the value of one level for column i.
func (ix *ColumnIndex) Value(i int, level string) (interface{}, bool) {
	pos := ix.levelPos(level)
	if pos < 0 {
		return nil, false
	}
	return ix.labels[i][pos], true
}

// DropLevel returns a copy of the index without the named level.
func (ix *ColumnIndex) DropLevel(level string) (*ColumnIndex, error) {
	pos := ix.levelPos(level)
	if pos < 0 {
		return nil, core.NewMissingLevelError(level)
	}
	levels := make([]string, 0, len(ix.levels)-1)
	levels = append(levels, ix.levels[:pos]...)
	levels = append(levels, ix.levels[pos+1:]...)
	labels := make([]Label, len(ix.labels))
	for i, l := range ix.labels {
		nl := make(Label, 0, len(l)-1)
		nl = append(nl, l[:pos]...)
		nl = append(nl, l[pos+1:]...)
		labels[i] = nl
	}
	return &ColumnIndex{levels: levels, labels: labels}, nil
}

// DefaultLookup resolves the declared default value of a level. It returns
// false for levels without a declared default; such levels never compact.
type DefaultLookup func(level string) (interface{}, bool)

// Compact drops every level whose values all equal the level's declared
// default. Compacting an already compact index is a no-op.
func (ix *ColumnIndex) Compact(defaults DefaultLookup) *ColumnIndex {
	out := ix
	for _, level := range ix.levels {
		def, ok := defaults(level)
		if !ok {
			continue
		}
		values, err := out.Values(level)
		if err != nil {
			continue
		}
		uniform := true
		for _, v := range values {
			if !EqualValue(v, def) {
				uniform = false
				break
			}
		}
		if uniform {
			dropped, err := out.DropLevel(level)
			if err == nil {
				out = dropped
			}
		}
	}
	return out
}

// Decompact reinstates missing levels with their declared defaults and
// reorders levels into the given full order. It is the inverse of Compact
// for indexes whose dropped levels were uniformly default.
func (ix *ColumnIndex) Decompact(order []string, defaults DefaultLookup) (*ColumnIndex, error) {
	labels := make([]Label, ix.Len())
	for i := range labels {
		labels[i] = make(Label, 0, len(order))
	}
	for _, level := range order {
		pos := ix.levelPos(level)
		if pos >= 0 {
			for i := range labels {
				labels[i] = append(labels[i], ix.labels[i][pos])
			}
			continue
		}
		def, ok := defaults(level)
		if !ok {
			return nil, core.NewMissingLevelError(level)
		}
		for i := range labels {
			labels[i] = append(labels[i], def)
		}
	}
	return &ColumnIndex{levels: append([]string(nil), order...), labels: labels}, nil
}

// String renders the index shape for log and error messages.
func (ix *ColumnIndex) String() string {
	return fmt.Sprintf("ColumnIndex(%d columns, levels=%v)", len(ix.labels), ix.levels)
}
