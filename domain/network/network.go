package network

import (
	"fmt"
	"sort"

	"resframe/domain/core"
	"resframe/domain/timeseries"
)

// Network holds the entities of one loaded result set behind explicit
// name lookups. Entity and quantity names are plain map keys; there is no
// dynamic attribute magic.
type Network struct {
	nodes      map[string]*Node
	reaches    map[string]*Reach
	catchments map[string]*Catchment
	structures map[string]*Structure
	quantities map[timeseries.Group][]string
}

// New creates an empty network.
func New() *Network {
	return &Network{
		nodes:      make(map[string]*Node),
		reaches:    make(map[string]*Reach),
		catchments: make(map[string]*Catchment),
		structures: make(map[string]*Structure),
		quantities: make(map[timeseries.Group][]string),
	}
}

// AddNode registers a node under its name.
func (n *Network) AddNode(node *Node) {
	n.nodes[node.Name] = node
}

// AddReach registers a reach under its name.
func (n *Network) AddReach(reach *Reach) {
	n.reaches[reach.Name] = reach
}

// AddCatchment registers a catchment under its name.
func (n *Network) AddCatchment(c *Catchment) {
	n.catchments[c.Name] = c
}

// AddStructure registers a structure under its name.
func (n *Network) AddStructure(s *Structure) {
	n.structures[s.Name] = s
}

// RegisterQuantity records that a quantity is available for a group.
func (n *Network) RegisterQuantity(group timeseries.Group, quantity string) {
	for _, q := range n.quantities[group] {
		if q == quantity {
			return
		}
	}
	n.quantities[group] = append(n.quantities[group], quantity)
}

// Node returns a node by name.
func (n *Network) Node(name string) (*Node, error) {
	node, ok := n.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: node %q", core.ErrLocationNotFound, name)
	}
	return node, nil
}

// Reach returns a reach by name.
func (n *Network) Reach(name string) (*Reach, error) {
	reach, ok := n.reaches[name]
	if !ok {
		return nil, fmt.Errorf("%w: reach %q", core.ErrLocationNotFound, name)
	}
	return reach, nil
}

// Catchment returns a catchment by name.
func (n *Network) Catchment(name string) (*Catchment, error) {
	c, ok := n.catchments[name]
	if !ok {
		return nil, fmt.Errorf("%w: catchment %q", core.ErrLocationNotFound, name)
	}
	return c, nil
}

// Structure returns a structure by name.
func (n *Network) Structure(name string) (*Structure, error) {
	s, ok := n.structures[name]
	if !ok {
		return nil, fmt.Errorf("%w: structure %q", core.ErrLocationNotFound, name)
	}
	return s, nil
}

// Location returns any entity by group and name.
func (n *Network) Location(group timeseries.Group, name string) (Location, error) {
	switch group {
	case timeseries.GroupNode:
		return n.Node(name)
	case timeseries.GroupReach:
		return n.Reach(name)
	case timeseries.GroupCatchment:
		return n.Catchment(name)
	case timeseries.GroupStructure:
		return n.Structure(name)
	}
	return nil, fmt.Errorf("%w: %q has no locations", core.ErrUnknownGroup, group)
}

// NodeNames returns all node names, sorted.
func (n *Network) NodeNames() []string { return sortedKeys(n.nodes) }

// ReachNames returns all reach names, sorted.
func (n *Network) ReachNames() []string { return sortedKeys(n.reaches) }

// CatchmentNames returns all catchment names, sorted.
func (n *Network) CatchmentNames() []string { return sortedKeys(n.catchments) }

// StructureNames returns all structure names, sorted.
func (n *Network) StructureNames() []string { return sortedKeys(n.structures) }

// Quantities returns the quantity names recorded for a group.
func (n *Network) Quantities(group timeseries.Group) []string {
	return append([]string(nil), n.quantities[group]...)
}

// Counts returns entity counts per group, for summaries and logs.
func (n *Network) Counts() map[timeseries.Group]int {
	return map[timeseries.Group]int{
		timeseries.GroupNode:      len(n.nodes),
		timeseries.GroupReach:     len(n.reaches),
		timeseries.GroupCatchment: len(n.catchments),
		timeseries.GroupStructure: len(n.structures),
	}
}

func sortedKeys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
