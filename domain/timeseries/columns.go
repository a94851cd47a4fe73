package timeseries

import (
	"fmt"

	"resframe/domain/frame"
)

// ToColumnIndex builds a full hierarchical column index from identities:
// one level per field, fixed order, values verbatim.
func ToColumnIndex(ids []TimeSeriesID) *frame.ColumnIndex {
	labels := make([]frame.Label, len(ids))
	for i, id := range ids {
		t := id.Tuple()
		labels[i] = frame.Label(t[:])
	}
	ix, err := frame.NewColumnIndex(Levels, labels)
	if err != nil {
		// Tuple width always matches Levels.
		panic(err)
	}
	return ix
}

// FromColumnIndex is the exact inverse of ToColumnIndex. Compact indexes
// are accepted: missing levels are reinstated with their declared defaults
// before parsing.
func FromColumnIndex(ix *frame.ColumnIndex) ([]TimeSeriesID, error) {
	full, err := ix.Decompact(Levels, LevelDefault)
	if err != nil {
		return nil, err
	}
	ids := make([]TimeSeriesID, full.Len())
	for i := 0; i < full.Len(); i++ {
		id, err := fromLabel(full.Label(i))
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		ids[i] = id
	}
	return ids, nil
}

// SelectQuery returns the columns of f satisfying the query. The frame
// must carry the full set of levels, compact or not.
func SelectQuery(f *frame.Frame, q Query) (*frame.Frame, error) {
	full, err := f.Decompact(Levels, LevelDefault)
	if err != nil {
		return nil, err
	}
	return full.Select(func(label frame.Label) bool {
		id, err := fromLabel(label)
		if err != nil {
			return false
		}
		return q.Matches(id)
	})
}

func fromLabel(label frame.Label) (TimeSeriesID, error) {
	quantity, ok := label[0].(string)
	if !ok {
		return TimeSeriesID{}, fmt.Errorf("quantity level holds %T, want string", label[0])
	}
	groupName, ok := label[1].(string)
	if !ok {
		return TimeSeriesID{}, fmt.Errorf("group level holds %T, want string", label[1])
	}
	group, err := ParseGroup(groupName)
	if err != nil {
		return TimeSeriesID{}, err
	}
	name, ok := label[2].(string)
	if !ok {
		return TimeSeriesID{}, fmt.Errorf("name level holds %T, want string", label[2])
	}
	chainage, ok := label[3].(float64)
	if !ok {
		return TimeSeriesID{}, fmt.Errorf("chainage level holds %T, want float64", label[3])
	}
	tag, ok := label[4].(string)
	if !ok {
		return TimeSeriesID{}, fmt.Errorf("tag level holds %T, want string", label[4])
	}
	duplicate, ok := label[5].(int)
	if !ok {
		return TimeSeriesID{}, fmt.Errorf("duplicate level holds %T, want int", label[5])
	}
	derived, ok := label[6].(bool)
	if !ok {
		return TimeSeriesID{}, fmt.Errorf("derived level holds %T, want bool", label[6])
	}
	return TimeSeriesID{
		Quantity:  quantity,
		Group:     group,
		Name:      name,
		Chainage:  chainage,
		Tag:       tag,
		Duplicate: duplicate,
		Derived:   derived,
	}, nil
}
