package timeseries

import (
	"fmt"

	"resframe/domain/core"
)

// Group is the category of network entity a time series is measured on.
type Group string

const (
	GroupNode      Group = "Node"
	GroupReach     Group = "Reach"
	GroupCatchment Group = "Catchment"
	GroupStructure Group = "Structure"
	GroupGlobal    Group = "Global"
)

// AllGroups lists every valid group in a stable order.
var AllGroups = []Group{GroupNode, GroupReach, GroupCatchment, GroupStructure, GroupGlobal}

// ParseGroup converts a string into a Group
func ParseGroup(s string) (Group, error) {
	g := Group(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownGroup, s)
	}
	return g, nil
}

// Valid reports whether g is one of the known groups
func (g Group) Valid() bool {
	switch g {
	case GroupNode, GroupReach, GroupCatchment, GroupStructure, GroupGlobal:
		return true
	}
	return false
}

// HasChainage reports whether series in this group carry a chainage position.
// Only reach series are located along a flow path; every other group uses NaN.
func (g Group) HasChainage() bool {
	return g == GroupReach
}

// String returns the string representation
func (g Group) String() string {
	return string(g)
}
