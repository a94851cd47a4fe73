package aggregate

import (
	"testing"

	"resframe/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuiltinNames(t *testing.T) {
	xs := []float64{4, 1, 3, 2}

	cases := map[string]float64{
		"mean":   2.5,
		"max":    4,
		"min":    1,
		"sum":    10,
		"first":  4,
		"last":   2,
		"range":  3,
		"median": 2.5,
	}
	for name, want := range cases {
		strat, err := Resolve(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, strat.Name)
		got, err := strat.Fn(xs)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestResolveUnknownName(t *testing.T) {
	_, err := Resolve("p50th")
	assert.ErrorIs(t, err, core.ErrInvalidStrategy)
}

func TestResolveFunc(t *testing.T) {
	strat, err := Resolve(func(xs []float64) float64 { return float64(len(xs)) })
	require.NoError(t, err)
	assert.Equal(t, "custom", strat.Name)
	got, err := strat.Fn([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}

func TestResolveNamedStrategy(t *testing.T) {
	strat, err := Resolve(Strategy{Name: "count", Fn: func(xs []float64) (float64, error) {
		return float64(len(xs)), nil
	}})
	require.NoError(t, err)
	assert.Equal(t, "count", strat.Name)

	_, err = Resolve(Strategy{Name: "broken"})
	assert.ErrorIs(t, err, core.ErrInvalidStrategy)
}

func TestResolveRejectsOtherTypes(t *testing.T) {
	for _, bad := range []interface{}{42, []string{"max"}, map[string]string{"time": "max"}, true} {
		_, err := Resolve(bad)
		assert.ErrorIs(t, err, core.ErrInvalidStrategy)
	}
}

func TestFirstLastEmptyInput(t *testing.T) {
	_, err := first(nil)
	assert.Error(t, err)
	_, err = last(nil)
	assert.Error(t, err)
}
