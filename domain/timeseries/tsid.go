package timeseries

import (
	"fmt"
	"math"

	"resframe/domain/core"
)

// Level names for the hierarchical column index, in the fixed field order.
const (
	LevelQuantity  = "quantity"
	LevelGroup     = "group"
	LevelName      = "name"
	LevelChainage  = "chainage"
	LevelTag       = "tag"
	LevelDuplicate = "duplicate"
	LevelDerived   = "derived"
	// LevelTime names the row axis. It is never a column level but the
	// aggregation pipeline addresses it by name like the others.
	LevelTime = "time"
)

// Levels is the fixed column-level order of a full (non-compact) index.
var Levels = []string{
	LevelQuantity,
	LevelGroup,
	LevelName,
	LevelChainage,
	LevelTag,
	LevelDuplicate,
	LevelDerived,
}

// EntityLevels are the grouping-key levels left untouched by aggregation.
var EntityLevels = []string{LevelQuantity, LevelGroup, LevelName, LevelTag, LevelDerived}

// AggregatableLevels are reduced in this order; time is always last.
var AggregatableLevels = []string{LevelDuplicate, LevelChainage, LevelTime}

// LevelDefault returns the declared default value for a column level.
// Decompaction reinstates dropped levels with exactly these values.
func LevelDefault(level string) (interface{}, bool) {
	switch level {
	case LevelQuantity, LevelGroup, LevelName, LevelTag:
		return "", true
	case LevelChainage:
		return math.NaN(), true
	case LevelDuplicate:
		return 0, true
	case LevelDerived:
		return false, true
	}
	return nil, false
}

// TimeSeriesID is the canonical identity of one scalar time series in a
// result set. It is a value type: equality and hashing use all seven fields.
//
// Chainage is always a float64; for groups without a position along a reach
// it is IEEE-754 NaN, never zero and never an empty marker of another type.
type TimeSeriesID struct {
	Quantity  string
	Group     Group
	Name      string
	Chainage  float64
	Tag       string
	Duplicate int
	Derived   bool
}

// New creates an identity for a series without a chainage position.
func New(quantity string, group Group, name string) TimeSeriesID {
	return TimeSeriesID{
		Quantity: quantity,
		Group:    group,
		Name:     name,
		Chainage: math.NaN(),
	}
}

// NewReach creates an identity for a series located along a reach.
func NewReach(quantity, name string, chainage float64, tag string) TimeSeriesID {
	return TimeSeriesID{
		Quantity: quantity,
		Group:    GroupReach,
		Name:     name,
		Chainage: chainage,
		Tag:      tag,
	}
}

// Tuple returns the seven fields in the fixed level order.
func (id TimeSeriesID) Tuple() [7]interface{} {
	return [7]interface{}{
		id.Quantity,
		string(id.Group),
		id.Name,
		id.Chainage,
		id.Tag,
		id.Duplicate,
		id.Derived,
	}
}

// Equal compares all seven fields. Two NaN chainages compare equal so that
// identities of chainage-less series behave as plain values.
func (id TimeSeriesID) Equal(other TimeSeriesID) bool {
	return id.Key() == other.Key()
}

// Key is a comparable form of TimeSeriesID usable as a map key. Chainage is
// folded to its bit pattern with all NaN payloads normalized.
type Key struct {
	Quantity     string
	Group        Group
	Name         string
	ChainageBits uint64
	Tag          string
	Duplicate    int
	Derived      bool
}

// Key returns the comparable map-key form of the identity.
func (id TimeSeriesID) Key() Key {
	bits := math.Float64bits(id.Chainage)
	if math.IsNaN(id.Chainage) {
		bits = math.Float64bits(math.NaN())
	}
	return Key{
		Quantity:     id.Quantity,
		Group:        id.Group,
		Name:         id.Name,
		ChainageBits: bits,
		Tag:          id.Tag,
		Duplicate:    id.Duplicate,
		Derived:      id.Derived,
	}
}

// NextDuplicate returns a copy with the duplicate index incremented.
func (id TimeSeriesID) NextDuplicate() TimeSeriesID {
	id.Duplicate++
	return id
}

// PrevDuplicate returns a copy with the duplicate index decremented.
// Decrementing below zero is a domain error.
func (id TimeSeriesID) PrevDuplicate() (TimeSeriesID, error) {
	if id.Duplicate == 0 {
		return TimeSeriesID{}, fmt.Errorf("%w: %s", core.ErrDuplicateUnderflow, id)
	}
	id.Duplicate--
	return id, nil
}

// ToQuery converts the identity into the storage query for its group.
// Derived series are computed, not stored, so they have no query.
func (id TimeSeriesID) ToQuery() (Query, error) {
	if id.Derived {
		return nil, fmt.Errorf("%w: %s", core.ErrDerivedQuery, id)
	}
	switch id.Group {
	case GroupNode:
		return NodeQuery{Quantity: id.Quantity, Name: id.Name}, nil
	case GroupReach:
		return ReachQuery{Quantity: id.Quantity, Name: id.Name, Chainage: id.Chainage, Tag: id.Tag}, nil
	case GroupCatchment:
		return CatchmentQuery{Quantity: id.Quantity, Name: id.Name}, nil
	case GroupStructure:
		return StructureQuery{Quantity: id.Quantity, Name: id.Name}, nil
	case GroupGlobal:
		return GlobalQuery{Quantity: id.Quantity}, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrUnknownGroup, id.Group)
}

// String renders the identity for log and error messages.
func (id TimeSeriesID) String() string {
	s := fmt.Sprintf("%s:%s:%s", id.Quantity, id.Group, id.Name)
	if !math.IsNaN(id.Chainage) {
		s += fmt.Sprintf(":%.3f", id.Chainage)
	}
	if id.Tag != "" {
		s += ":" + id.Tag
	}
	if id.Duplicate > 0 {
		s += fmt.Sprintf("#%d", id.Duplicate)
	}
	if id.Derived {
		s += " (derived)"
	}
	return s
}

// AssignDuplicates resolves identity collisions in first-seen order: the
// first occurrence of a key keeps Duplicate=0, each repeat gets the next
// free index. Input order is preserved.
func AssignDuplicates(ids []TimeSeriesID) []TimeSeriesID {
	out := make([]TimeSeriesID, len(ids))
	seen := make(map[Key]int, len(ids))
	for i, id := range ids {
		id.Duplicate = 0
		base := id.Key()
		if n, ok := seen[base]; ok {
			id.Duplicate = n
		}
		seen[base]++
		out[i] = id
	}
	return out
}
