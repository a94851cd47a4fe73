package frame

import (
	"fmt"
	"time"

	"resframe/domain/core"
)

// Frame is a 2D table of float64 series: rows indexed by time, columns
// keyed by a hierarchical ColumnIndex. Data is stored column-major.
//
// A Frame is built fresh on each read and mutated only through explicit
// column additions; it is not safe for concurrent mutation.
type Frame struct {
	times []time.Time
	index *ColumnIndex
	data  [][]float64
}

// New builds a frame from a time axis, a column index and column-major
// data. Every column must have one value per time step.
func New(times []time.Time, index *ColumnIndex, data [][]float64) (*Frame, error) {
	if index == nil {
		return nil, core.ErrNoColumnIndex
	}
	if len(data) != index.Len() {
		return nil, fmt.Errorf("%w: %d columns for %d labels", core.ErrLengthMismatch, len(data), index.Len())
	}
	for i, col := range data {
		if len(col) != len(times) {
			return nil, fmt.Errorf("%w: column %d has %d rows, time index has %d", core.ErrLengthMismatch, i, len(col), len(times))
		}
	}
	return &Frame{times: times, index: index, data: data}, nil
}

// Len returns the number of time steps.
func (f *Frame) Len() int {
	return len(f.times)
}

// NumColumns returns the number of series.
func (f *Frame) NumColumns() int {
	return len(f.data)
}

// Times returns the time axis.
func (f *Frame) Times() []time.Time {
	return f.times
}

// Index returns the hierarchical column index.
func (f *Frame) Index() *ColumnIndex {
	return f.index
}

// Column returns the values of column i.
func (f *Frame) Column(i int) []float64 {
	return f.data[i]
}

// Row returns the values of time step i across all columns.
func (f *Frame) Row(i int) []float64 {
	out := make([]float64, len(f.data))
	for j, col := range f.data {
		out[j] = col[i]
	}
	return out
}

// WithIndex returns a frame sharing this frame's time axis and data under
// a relabeled column index of the same width.
func (f *Frame) WithIndex(index *ColumnIndex) (*Frame, error) {
	return New(f.times, index, f.data)
}

// AddColumn appends one series under the given label. The label must match
// the index levels and the series must match the time axis.
func (f *Frame) AddColumn(label Label, values []float64) error {
	if len(values) != len(f.times) {
		return fmt.Errorf("%w: column has %d rows, time index has %d", core.ErrLengthMismatch, len(values), len(f.times))
	}
	index, err := NewColumnIndex(f.index.levels, append(f.index.labels, label))
	if err != nil {
		return err
	}
	f.index = index
	f.data = append(f.data, values)
	return nil
}

// Select returns a frame holding only the columns whose label the
// predicate accepts. Data slices are shared, not copied.
func (f *Frame) Select(pred func(label Label) bool) (*Frame, error) {
	labels := make([]Label, 0, f.NumColumns())
	data := make([][]float64, 0, f.NumColumns())
	for i := 0; i < f.NumColumns(); i++ {
		label := f.index.Label(i)
		if pred(label) {
			labels = append(labels, label)
			data = append(data, f.data[i])
		}
	}
	index, err := NewColumnIndex(f.index.levels, labels)
	if err != nil {
		return nil, err
	}
	return New(f.times, index, data)
}

// SelectLevel returns a frame holding only the columns whose value at the
// named level equals want.
func (f *Frame) SelectLevel(level string, want interface{}) (*Frame, error) {
	pos := f.index.levelPos(level)
	if pos < 0 {
		return nil, core.NewMissingLevelError(level)
	}
	return f.Select(func(label Label) bool {
		return EqualValue(label[pos], want)
	})
}

// Compact returns a frame whose column index has all uniformly-default
// levels dropped. Data is shared, not copied.
func (f *Frame) Compact(defaults DefaultLookup) *Frame {
	return &Frame{times: f.times, index: f.index.Compact(defaults), data: f.data}
}

// Decompact returns a frame whose column index carries every level in the
// given order, reinstating dropped levels with their declared defaults.
func (f *Frame) Decompact(order []string, defaults DefaultLookup) (*Frame, error) {
	index, err := f.index.Decompact(order, defaults)
	if err != nil {
		return nil, err
	}
	return &Frame{times: f.times, index: index, data: f.data}, nil
}
