package timeseries

import (
	"fmt"
	"math"
)

// Query describes one series request against result storage. Each entity
// group has exactly one query variant; readers resolve queries to columns.
type Query interface {
	// QueryGroup returns the entity group the query targets.
	QueryGroup() Group
	// QuantityName returns the requested physical quantity.
	QuantityName() string
	// Matches reports whether a stored series satisfies the query.
	// Derived series never match; they have no underlying storage.
	Matches(id TimeSeriesID) bool
	// String renders the query in the conventional request syntax.
	String() string
}

// NodeQuery requests a quantity measured on a node.
type NodeQuery struct {
	Quantity string
	Name     string
}

func (q NodeQuery) QueryGroup() Group    { return GroupNode }
func (q NodeQuery) QuantityName() string { return q.Quantity }
func (q NodeQuery) Matches(id TimeSeriesID) bool {
	return matchesEntity(id, GroupNode, q.Quantity, q.Name)
}
func (q NodeQuery) String() string { return fmt.Sprintf("%s:<%s>", q.Quantity, q.Name) }

// ReachQuery requests a quantity on a reach, optionally at one chainage.
// A NaN chainage requests every grid point on the reach.
type ReachQuery struct {
	Quantity string
	Name     string
	Chainage float64
	Tag      string
}

func (q ReachQuery) QueryGroup() Group    { return GroupReach }
func (q ReachQuery) QuantityName() string { return q.Quantity }

func (q ReachQuery) Matches(id TimeSeriesID) bool {
	if !matchesEntity(id, GroupReach, q.Quantity, q.Name) {
		return false
	}
	if q.Tag != "" && id.Tag != q.Tag {
		return false
	}
	// NaN chainage means every grid point.
	return math.IsNaN(q.Chainage) || id.Chainage == q.Chainage
}

func (q ReachQuery) String() string {
	if math.IsNaN(q.Chainage) {
		return fmt.Sprintf("%s:<%s>", q.Quantity, q.Name)
	}
	return fmt.Sprintf("%s:<%s>:%.3f", q.Quantity, q.Name, q.Chainage)
}

// CatchmentQuery requests a quantity measured on a catchment.
type CatchmentQuery struct {
	Quantity string
	Name     string
}

func (q CatchmentQuery) QueryGroup() Group    { return GroupCatchment }
func (q CatchmentQuery) QuantityName() string { return q.Quantity }
func (q CatchmentQuery) Matches(id TimeSeriesID) bool {
	return matchesEntity(id, GroupCatchment, q.Quantity, q.Name)
}
func (q CatchmentQuery) String() string { return fmt.Sprintf("%s:<%s>", q.Quantity, q.Name) }

// StructureQuery requests a quantity measured on a structure.
type StructureQuery struct {
	Quantity string
	Name     string
}

func (q StructureQuery) QueryGroup() Group    { return GroupStructure }
func (q StructureQuery) QuantityName() string { return q.Quantity }
func (q StructureQuery) Matches(id TimeSeriesID) bool {
	return matchesEntity(id, GroupStructure, q.Quantity, q.Name)
}
func (q StructureQuery) String() string { return fmt.Sprintf("%s:<%s>", q.Quantity, q.Name) }

// GlobalQuery requests a result-set wide quantity not tied to an entity.
type GlobalQuery struct {
	Quantity string
}

func (q GlobalQuery) QueryGroup() Group    { return GroupGlobal }
func (q GlobalQuery) QuantityName() string { return q.Quantity }
func (q GlobalQuery) Matches(id TimeSeriesID) bool {
	return matchesEntity(id, GroupGlobal, q.Quantity, "")
}
func (q GlobalQuery) String() string { return q.Quantity }

func matchesEntity(id TimeSeriesID, group Group, quantity, name string) bool {
	if id.Derived || id.Group != group || id.Quantity != quantity {
		return false
	}
	return name == "" || id.Name == name
}
