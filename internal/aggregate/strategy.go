package aggregate

import (
	"fmt"

	"resframe/domain/core"

	"github.com/montanaflynn/stats"
)

// AggFunc reduces a slice of samples to one scalar.
type AggFunc func([]float64) (float64, error)

// Strategy couples a reduction function with the name joined into output
// column labels ("{name}_{quantity}").
type Strategy struct {
	Name string
	Fn   AggFunc
}

// Resolve turns a strategy specification into a Strategy. Accepted forms:
// a built-in name ("mean", "max", ...), an AggFunc, a plain
// func([]float64) float64, or an explicit Strategy. Anything else is a
// configuration error.
func Resolve(spec interface{}) (Strategy, error) {
	switch v := spec.(type) {
	case string:
		return resolveName(v)
	case Strategy:
		if v.Fn == nil {
			return Strategy{}, fmt.Errorf("%w: strategy %q has no function", core.ErrInvalidStrategy, v.Name)
		}
		if v.Name == "" {
			v.Name = "custom"
		}
		return v, nil
	case AggFunc:
		return Strategy{Name: "custom", Fn: v}, nil
	case func([]float64) (float64, error):
		return Strategy{Name: "custom", Fn: v}, nil
	case func([]float64) float64:
		return Strategy{Name: "custom", Fn: func(xs []float64) (float64, error) { return v(xs), nil }}, nil
	default:
		return Strategy{}, fmt.Errorf("%w: got %T", core.ErrInvalidStrategy, spec)
	}
}

func resolveName(name string) (Strategy, error) {
	fn, ok := builtins[name]
	if !ok {
		return Strategy{}, fmt.Errorf("%w: unknown strategy name %q", core.ErrInvalidStrategy, name)
	}
	return Strategy{Name: name, Fn: fn}, nil
}

// builtins are the named reductions. The numeric semantics are exactly
// those of the stats package; no rounding or NaN filtering is added here.
var builtins = map[string]AggFunc{
	"mean":   wrapStats(stats.Mean),
	"max":    wrapStats(stats.Max),
	"min":    wrapStats(stats.Min),
	"sum":    wrapStats(stats.Sum),
	"median": wrapStats(stats.Median),
	"std":    wrapStats(stats.StandardDeviation),
	"first":  first,
	"last":   last,
	"range":  valueRange,
	"p10":    percentile(10),
	"p90":    percentile(90),
}

// wrapStats adapts the stats package's Float64Data parameter type to
// AggFunc; Float64Data is a named []float64, so this is only a type
// conversion.
func wrapStats(fn func(stats.Float64Data) (float64, error)) AggFunc {
	return func(xs []float64) (float64, error) { return fn(xs) }
}

func percentile(p float64) AggFunc {
	return func(xs []float64) (float64, error) {
		return stats.Percentile(xs, p)
	}
}

func first(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, stats.EmptyInputErr
	}
	return xs[0], nil
}

func last(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, stats.EmptyInputErr
	}
	return xs[len(xs)-1], nil
}

func valueRange(xs []float64) (float64, error) {
	max, err := stats.Max(xs)
	if err != nil {
		return 0, err
	}
	min, err := stats.Min(xs)
	if err != nil {
		return 0, err
	}
	return max - min, nil
}
