package network

import (
	"fmt"

	"resframe/domain/timeseries"
)

// Location is implemented by every network entity results attach to.
// The set of implementations is closed: Node, Reach, Catchment, Structure.
type Location interface {
	// LocationName returns the entity identifier, unique within its group.
	LocationName() string
	// LocationGroup returns the entity category.
	LocationGroup() timeseries.Group
}

// Node is a junction point: manhole, basin or outlet.
type Node struct {
	Name        string
	Type        string // "Manhole", "Basin", "Outlet"
	X           float64
	Y           float64
	GroundLevel float64
	InvertLevel float64
	Diameter    float64
}

func (n *Node) LocationName() string            { return n.Name }
func (n *Node) LocationGroup() timeseries.Group { return timeseries.GroupNode }

// GridPoint is one computation point along a reach.
type GridPoint struct {
	Chainage    float64
	InvertLevel float64
}

// Reach is a flow path between two nodes, discretized into grid points.
type Reach struct {
	Name       string
	FromNode   string
	ToNode     string
	Length     float64
	GridPoints []GridPoint
}

func (r *Reach) LocationName() string            { return r.Name }
func (r *Reach) LocationGroup() timeseries.Group { return timeseries.GroupReach }

// Chainages returns the grid point positions in order.
func (r *Reach) Chainages() []float64 {
	out := make([]float64, len(r.GridPoints))
	for i, gp := range r.GridPoints {
		out[i] = gp.Chainage
	}
	return out
}

// Span renders the reach extent as a tag ("0-250").
func (r *Reach) Span() string {
	if len(r.GridPoints) < 2 {
		return ""
	}
	first := r.GridPoints[0].Chainage
	last := r.GridPoints[len(r.GridPoints)-1].Chainage
	return fmt.Sprintf("%g-%g", first, last)
}

// Catchment is a drainage area contributing runoff to the network.
type Catchment struct {
	Name string
	Area float64
	X    float64
	Y    float64
}

func (c *Catchment) LocationName() string            { return c.Name }
func (c *Catchment) LocationGroup() timeseries.Group { return timeseries.GroupCatchment }

// Structure is a hydraulic control: weir, gate, pump or orifice.
type Structure struct {
	Name      string
	Type      string // "Weir", "Gate", "Pump", "Orifice"
	ReachName string
	Chainage  float64
}

func (s *Structure) LocationName() string            { return s.Name }
func (s *Structure) LocationGroup() timeseries.Group { return timeseries.GroupStructure }
