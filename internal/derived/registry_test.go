package derived

import (
	"testing"
	"time"

	"resframe/domain/frame"
	"resframe/domain/network"
	"resframe/domain/timeseries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNetwork() *network.Network {
	net := network.New()
	net.AddNode(&network.Node{Name: "N1", GroundLevel: 5.0, InvertLevel: 1.0})
	net.AddReach(&network.Reach{
		Name: "R1",
		GridPoints: []network.GridPoint{
			{Chainage: 0, InvertLevel: 2.0},
			{Chainage: 100, InvertLevel: 1.5},
		},
	})
	return net
}

func testFrame(t *testing.T, ids []timeseries.TimeSeriesID, data [][]float64) *frame.Frame {
	t.Helper()
	times := make([]time.Time, len(data[0]))
	t0 := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := range times {
		times[i] = t0.Add(time.Duration(i) * time.Hour)
	}
	f, err := frame.New(times, timeseries.ToColumnIndex(ids), data)
	require.NoError(t, err)
	return f
}

func TestApplyAddsDerivedColumns(t *testing.T) {
	ids := []timeseries.TimeSeriesID{
		timeseries.New("WaterLevel", timeseries.GroupNode, "N1"),
		timeseries.NewReach("Discharge", "R1", 0, ""),
	}
	f := testFrame(t, ids, [][]float64{
		{2.0, 6.0},
		{-3.0, 4.0},
	})
	net := testNetwork()

	out, err := NewDefaultRegistry().Apply(f, net)
	require.NoError(t, err)

	// AbsoluteDischarge on the reach, WaterDepth and Flooding on the node.
	require.Equal(t, 5, out.NumColumns())
	derivedIDs, err := timeseries.FromColumnIndex(out.Index())
	require.NoError(t, err)

	byName := make(map[string][]float64)
	for i, id := range derivedIDs {
		if id.Derived {
			byName[id.Quantity] = out.Column(i)
		}
	}
	assert.Equal(t, []float64{3.0, 4.0}, byName["DischargeAbsolute"])
	// Node invert 1.0, ground 5.0.
	assert.Equal(t, []float64{1.0, 5.0}, byName["WaterDepth"])
	assert.Equal(t, []float64{-3.0, 1.0}, byName["Flooding"])
	// The source columns are untouched.
	assert.Equal(t, []float64{2.0, 6.0}, out.Column(0))

	// Derived quantities are registered on the network.
	assert.Contains(t, net.Quantities(timeseries.GroupNode), "WaterDepth")
	assert.Contains(t, net.Quantities(timeseries.GroupReach), "DischargeAbsolute")
}

func TestApplySkipsDerivedSources(t *testing.T) {
	id := timeseries.New("WaterLevel", timeseries.GroupNode, "N1")
	id.Derived = true
	f := testFrame(t, []timeseries.TimeSeriesID{id}, [][]float64{{1, 2}})

	out, err := NewDefaultRegistry().Apply(f, testNetwork())
	require.NoError(t, err)
	assert.Equal(t, 1, out.NumColumns())
}

func TestReachWaterDepthUsesNearestGridPoint(t *testing.T) {
	ids := []timeseries.TimeSeriesID{
		timeseries.NewReach("WaterLevel", "R1", 90, ""),
	}
	f := testFrame(t, ids, [][]float64{{3.0, 2.0}})

	out, err := NewRegistry(ReachWaterDepth{}).Apply(f, testNetwork())
	require.NoError(t, err)
	require.Equal(t, 2, out.NumColumns())
	// Nearest grid point to chainage 90 is 100 with invert 1.5.
	assert.Equal(t, []float64{1.5, 0.5}, out.Column(1))
}

func TestApplyFailsForUnknownLocation(t *testing.T) {
	ids := []timeseries.TimeSeriesID{
		timeseries.New("WaterLevel", timeseries.GroupNode, "missing"),
	}
	f := testFrame(t, ids, [][]float64{{1}})

	_, err := NewDefaultRegistry().Apply(f, testNetwork())
	assert.Error(t, err)
}
