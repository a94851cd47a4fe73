package derived

import (
	"fmt"
	"math"

	"resframe/domain/network"
	"resframe/domain/timeseries"

	"gonum.org/v1/gonum/floats"
)

// Quantity computes a new time series from one stored series and the
// attributes of the location it is measured on. The set of implementations
// shipped with the module is closed; callers may register their own.
type Quantity interface {
	// Name is the quantity name of the produced series.
	Name() string
	// Source is the stored quantity the computation consumes.
	Source() string
	// AppliesTo reports whether the computation is defined for a group.
	AppliesTo(group timeseries.Group) bool
	// Compute derives the new series. The input slice must not be mutated.
	Compute(values []float64, loc network.Location, chainage float64) ([]float64, error)
}

// AbsoluteDischarge derives |Discharge| on reaches and structures.
type AbsoluteDischarge struct{}

func (AbsoluteDischarge) Name() string   { return "DischargeAbsolute" }
func (AbsoluteDischarge) Source() string { return "Discharge" }

func (AbsoluteDischarge) AppliesTo(group timeseries.Group) bool {
	return group == timeseries.GroupReach || group == timeseries.GroupStructure
}

func (AbsoluteDischarge) Compute(values []float64, _ network.Location, _ float64) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Abs(v)
	}
	return out, nil
}

// NodeWaterDepth derives WaterLevel minus the node invert level.
type NodeWaterDepth struct{}

func (NodeWaterDepth) Name() string   { return "WaterDepth" }
func (NodeWaterDepth) Source() string { return "WaterLevel" }

func (NodeWaterDepth) AppliesTo(group timeseries.Group) bool {
	return group == timeseries.GroupNode
}

func (NodeWaterDepth) Compute(values []float64, loc network.Location, _ float64) ([]float64, error) {
	node, ok := loc.(*network.Node)
	if !ok {
		return nil, fmt.Errorf("water depth needs a node, got %T", loc)
	}
	out := append([]float64(nil), values...)
	floats.AddConst(-node.InvertLevel, out)
	return out, nil
}

// NodeFlooding derives WaterLevel minus the node ground level: positive
// values mean water above ground.
type NodeFlooding struct{}

func (NodeFlooding) Name() string   { return "Flooding" }
func (NodeFlooding) Source() string { return "WaterLevel" }

func (NodeFlooding) AppliesTo(group timeseries.Group) bool {
	return group == timeseries.GroupNode
}

func (NodeFlooding) Compute(values []float64, loc network.Location, _ float64) ([]float64, error) {
	node, ok := loc.(*network.Node)
	if !ok {
		return nil, fmt.Errorf("flooding needs a node, got %T", loc)
	}
	out := append([]float64(nil), values...)
	floats.AddConst(-node.GroundLevel, out)
	return out, nil
}

// ReachWaterDepth derives WaterLevel minus the invert level of the nearest
// grid point at the series chainage.
type ReachWaterDepth struct{}

func (ReachWaterDepth) Name() string   { return "WaterDepth" }
func (ReachWaterDepth) Source() string { return "WaterLevel" }

func (ReachWaterDepth) AppliesTo(group timeseries.Group) bool {
	return group == timeseries.GroupReach
}

func (ReachWaterDepth) Compute(values []float64, loc network.Location, chainage float64) ([]float64, error) {
	reach, ok := loc.(*network.Reach)
	if !ok {
		return nil, fmt.Errorf("water depth needs a reach, got %T", loc)
	}
	invert, err := nearestInvert(reach, chainage)
	if err != nil {
		return nil, err
	}
	out := append([]float64(nil), values...)
	floats.AddConst(-invert, out)
	return out, nil
}

func nearestInvert(reach *network.Reach, chainage float64) (float64, error) {
	if len(reach.GridPoints) == 0 {
		return 0, fmt.Errorf("reach %q has no grid points", reach.Name)
	}
	if math.IsNaN(chainage) {
		return reach.GridPoints[0].InvertLevel, nil
	}
	best := reach.GridPoints[0]
	bestDist := math.Abs(best.Chainage - chainage)
	for _, gp := range reach.GridPoints[1:] {
		if d := math.Abs(gp.Chainage - chainage); d < bestDist {
			best, bestDist = gp, d
		}
	}
	return best.InvertLevel, nil
}
