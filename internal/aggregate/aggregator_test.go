package aggregate

import (
	"math"
	"testing"
	"time"

	"resframe/domain/core"
	"resframe/domain/frame"
	"resframe/domain/timeseries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTimes(n int) []time.Time {
	t0 := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = t0.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func TestNewRequiresTimeStrategy(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, core.ErrNoTimeStrategy)
	assert.True(t, core.IsConfigurationError(err))

	// A time override alone is not enough: duplicate and chainage still
	// need a strategy.
	_, err = New(nil, WithTimeStrategy("max"))
	assert.ErrorIs(t, err, core.ErrInvalidStrategy)
}

func TestNewRejectsNonStrategyValues(t *testing.T) {
	_, err := New([]string{"max"})
	assert.ErrorIs(t, err, core.ErrInvalidStrategy)

	_, err = New(map[string]string{"time": "max"})
	assert.ErrorIs(t, err, core.ErrInvalidStrategy)

	_, err = New("not-a-strategy")
	assert.ErrorIs(t, err, core.ErrInvalidStrategy)
}

func TestNewResolvesNamesAndFuncs(t *testing.T) {
	agg, err := New("mean")
	require.NoError(t, err)
	assert.Equal(t, "mean", agg.Name())

	agg, err = New("mean", WithTimeStrategy("max"))
	require.NoError(t, err)
	assert.Equal(t, "max", agg.Name())

	agg, err = New(func(xs []float64) float64 { return xs[0] }, WithName("head"))
	require.NoError(t, err)
	assert.Equal(t, "head", agg.Name())
}

// levelFrame builds a frame over generic levels LA, LB, LC with
// value(row i, col j) = i*10 + j.
func levelFrame(t *testing.T) *frame.Frame {
	t.Helper()
	ix, err := frame.NewColumnIndex([]string{"LA", "LB", "LC"}, []frame.Label{
		{"A", "B", "B"},
		{"A", "B", "A"},
		{"A", "A", "B"},
		{"A", "A", "A"},
	})
	require.NoError(t, err)
	f, err := frame.New(testTimes(2), ix, [][]float64{
		{0, 10},
		{1, 11},
		{2, 12},
		{3, 13},
	})
	require.NoError(t, err)
	return f
}

func TestReduceLevelConcrete(t *testing.T) {
	cases := []struct {
		strategy string
		want     [][]float64 // rows of the reduced frame
	}{
		{"max", [][]float64{{1, 3}, {11, 13}}},
		{"first", [][]float64{{0, 2}, {10, 12}}},
		{"sum", [][]float64{{1, 5}, {21, 25}}},
	}
	for _, tc := range cases {
		strat, err := Resolve(tc.strategy)
		require.NoError(t, err)

		reduced, err := reduceLevel(levelFrame(t), "LC", strat)
		require.NoError(t, err, tc.strategy)

		ix := reduced.Index()
		assert.Equal(t, []string{"LA", "LB"}, ix.Levels())
		require.Equal(t, 2, ix.Len())
		assert.True(t, ix.Label(0).Equal(frame.Label{"A", "B"}))
		assert.True(t, ix.Label(1).Equal(frame.Label{"A", "A"}))

		for r, want := range tc.want {
			assert.Equal(t, want, reduced.Row(r), "%s row %d", tc.strategy, r)
		}
	}
}

func TestReduceLevelGroupsNaNChainagesTogether(t *testing.T) {
	ix, err := frame.NewColumnIndex([]string{"name", "chainage"}, []frame.Label{
		{"N1", math.NaN()},
		{"N1", math.NaN()},
	})
	require.NoError(t, err)
	f, err := frame.New(testTimes(1), ix, [][]float64{{2}, {4}})
	require.NoError(t, err)

	strat, err := Resolve("mean")
	require.NoError(t, err)
	reduced, err := reduceLevel(f, "chainage", strat)
	require.NoError(t, err)
	// Both columns share one reduced label, so they fold into one mean.
	require.Equal(t, 1, reduced.NumColumns())
	assert.Equal(t, []float64{3}, reduced.Column(0))
}

func resultFrame(t *testing.T, ids []timeseries.TimeSeriesID, data [][]float64) *frame.Frame {
	t.Helper()
	f, err := frame.New(testTimes(len(data[0])), timeseries.ToColumnIndex(ids), data)
	require.NoError(t, err)
	return f
}

func TestAggregateReachFrame(t *testing.T) {
	ids := []timeseries.TimeSeriesID{
		timeseries.NewReach("Discharge", "R1", 0, ""),
		timeseries.NewReach("Discharge", "R1", 100, ""),
		timeseries.NewReach("Discharge", "R2", 0, ""),
		timeseries.NewReach("WaterLevel", "R1", 0, ""),
	}
	f := resultFrame(t, ids, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
		{10, 11, 12},
	})

	agg, err := New("max")
	require.NoError(t, err)
	table, err := agg.Aggregate(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"R1", "R2"}, table.Entities())
	assert.Equal(t, []string{"max_Discharge", "max_WaterLevel"}, table.Columns())

	v, ok := table.Value("R1", "max_Discharge")
	require.True(t, ok)
	assert.Equal(t, 6.0, v) // max over chainage then time

	v, ok = table.Value("R2", "max_Discharge")
	require.True(t, ok)
	assert.Equal(t, 9.0, v)

	v, ok = table.Value("R1", "max_WaterLevel")
	require.True(t, ok)
	assert.Equal(t, 12.0, v)

	_, ok = table.Value("R2", "max_WaterLevel")
	assert.False(t, ok)
}

func TestAggregateMixedStrategies(t *testing.T) {
	ids := []timeseries.TimeSeriesID{
		timeseries.NewReach("Discharge", "R1", 0, ""),
		timeseries.NewReach("Discharge", "R1", 100, ""),
	}
	f := resultFrame(t, ids, [][]float64{
		{1, 5},
		{3, 7},
	})

	// Mean over chainage, max over time: mean(1,3)=2, mean(5,7)=6, max=6.
	agg, err := New("mean", WithTimeStrategy("max"))
	require.NoError(t, err)
	table, err := agg.Aggregate(f)
	require.NoError(t, err)

	v, ok := table.Value("R1", "max_Discharge")
	require.True(t, ok)
	assert.Equal(t, 6.0, v)
}

func TestAggregateReducesDuplicatesFirst(t *testing.T) {
	ids := timeseries.AssignDuplicates([]timeseries.TimeSeriesID{
		timeseries.NewReach("Discharge", "R1", 0, ""),
		timeseries.NewReach("Discharge", "R1", 0, ""),
	})
	f := resultFrame(t, ids, [][]float64{
		{1, 2},
		{9, 2},
	})

	// min over duplicates picks {1,2}; max over time then gives 2.
	agg, err := New("min", WithTimeStrategy("max"))
	require.NoError(t, err)
	table, err := agg.Aggregate(f)
	require.NoError(t, err)

	v, ok := table.Value("R1", "max_Discharge")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestAggregateRejectsMixedGroups(t *testing.T) {
	ids := []timeseries.TimeSeriesID{
		timeseries.New("WaterLevel", timeseries.GroupNode, "N1"),
		timeseries.NewReach("WaterLevel", "R1", 0, ""),
	}
	f := resultFrame(t, ids, [][]float64{{1, 2}, {3, 4}})

	agg, err := New("max")
	require.NoError(t, err)
	_, err = agg.Aggregate(f)
	assert.ErrorIs(t, err, core.ErrMixedGroups)
	assert.True(t, core.IsFormatError(err))
}

func TestAggregateRequiresKeyLevels(t *testing.T) {
	ix, err := frame.NewColumnIndex([]string{"sensor"}, []frame.Label{{"s1"}})
	require.NoError(t, err)
	f, err := frame.New(testTimes(1), ix, [][]float64{{1}})
	require.NoError(t, err)

	agg, err := New("max")
	require.NoError(t, err)
	_, err = agg.Aggregate(f)
	assert.ErrorIs(t, err, core.ErrMissingLevel)
	assert.Contains(t, err.Error(), "full column mode")
}

func TestAggregateCompactFrameSkipsAbsentLevels(t *testing.T) {
	// A compact node frame has no duplicate or chainage level; both
	// reductions are no-ops and only time is reduced.
	ids := []timeseries.TimeSeriesID{
		timeseries.New("WaterLevel", timeseries.GroupNode, "N1"),
		timeseries.New("WaterLevel", timeseries.GroupNode, "N2"),
	}
	f := resultFrame(t, ids, [][]float64{{1, 4}, {2, 8}})
	f = f.Compact(timeseries.LevelDefault)

	agg, err := New("mean")
	require.NoError(t, err)
	table, err := agg.Aggregate(f)
	require.NoError(t, err)

	v, ok := table.Value("N1", "mean_WaterLevel")
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	v, ok = table.Value("N2", "mean_WaterLevel")
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestEntityLabelCarriesTagAndDerived(t *testing.T) {
	tagged := timeseries.NewReach("Discharge", "R1", 0, "0-250")
	derived := timeseries.New("WaterDepth", timeseries.GroupReach, "R1")
	derived.Derived = true
	f := resultFrame(t, []timeseries.TimeSeriesID{tagged, derived}, [][]float64{{1}, {2}})

	agg, err := New("max")
	require.NoError(t, err)
	table, err := agg.Aggregate(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"R1 (0-250)", "R1 [derived]"}, table.Entities())
}
