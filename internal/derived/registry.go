package derived

import (
	"fmt"

	"resframe/domain/frame"
	"resframe/domain/network"
	"resframe/domain/timeseries"
)

// Registry holds the derived quantities to apply to a result frame. It is
// an explicitly constructed object: build one, register what you need and
// pass it where it is used. There is no process-wide instance.
type Registry struct {
	quantities []Quantity
}

// NewRegistry creates a registry with the given quantities.
func NewRegistry(quantities ...Quantity) *Registry {
	return &Registry{quantities: quantities}
}

// NewDefaultRegistry creates a registry with the quantities shipped with
// the module.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		AbsoluteDischarge{},
		NodeWaterDepth{},
		NodeFlooding{},
		ReachWaterDepth{},
	)
}

// Register appends a quantity to the registry.
func (r *Registry) Register(q Quantity) {
	r.quantities = append(r.quantities, q)
}

// Names returns the names of all registered quantities.
func (r *Registry) Names() []string {
	out := make([]string, len(r.quantities))
	for i, q := range r.quantities {
		out[i] = q.Name()
	}
	return out
}

// Apply computes every applicable derived series and returns a new frame
// with the derived columns appended, marked Derived=true. The input frame
// may be compact; the result always carries full column levels.
func (r *Registry) Apply(f *frame.Frame, net *network.Network) (*frame.Frame, error) {
	full, err := f.Decompact(timeseries.Levels, timeseries.LevelDefault)
	if err != nil {
		return nil, err
	}
	ids, err := timeseries.FromColumnIndex(full.Index())
	if err != nil {
		return nil, err
	}

	for _, q := range r.quantities {
		for i, id := range ids {
			if id.Derived || id.Quantity != q.Source() || !q.AppliesTo(id.Group) {
				continue
			}
			loc, err := net.Location(id.Group, id.Name)
			if err != nil {
				return nil, fmt.Errorf("deriving %s: %w", q.Name(), err)
			}
			values, err := q.Compute(full.Column(i), loc, id.Chainage)
			if err != nil {
				return nil, fmt.Errorf("deriving %s for %s: %w", q.Name(), id, err)
			}

			derivedID := id
			derivedID.Quantity = q.Name()
			derivedID.Derived = true
			t := derivedID.Tuple()
			if err := full.AddColumn(frame.Label(t[:]), values); err != nil {
				return nil, err
			}
			net.RegisterQuantity(id.Group, q.Name())
		}
	}
	return full, nil
}
