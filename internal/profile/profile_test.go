package profile

import (
	"math"
	"testing"
	"time"

	"resframe/domain/frame"
	"resframe/domain/timeseries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesSkipsNaN(t *testing.T) {
	id := timeseries.New("WaterLevel", timeseries.GroupNode, "N1")
	p := Series(id, []float64{1, math.NaN(), 3, 5, math.NaN()})

	assert.Equal(t, 5, p.Count)
	assert.Equal(t, 2, p.NaNCount)
	assert.Equal(t, 3.0, p.Mean)
	assert.Equal(t, 1.0, p.Min)
	assert.Equal(t, 5.0, p.Max)
	assert.Equal(t, 3.0, p.Median)
}

func TestSeriesAllNaN(t *testing.T) {
	id := timeseries.New("WaterLevel", timeseries.GroupNode, "N1")
	p := Series(id, []float64{math.NaN(), math.NaN()})

	assert.Equal(t, 2, p.NaNCount)
	assert.True(t, math.IsNaN(p.Mean))
	assert.True(t, math.IsNaN(p.StdDev))
	assert.True(t, math.IsNaN(p.Q75))
}

func TestFrameProfilesEverySeries(t *testing.T) {
	ids := []timeseries.TimeSeriesID{
		timeseries.New("WaterLevel", timeseries.GroupNode, "N1"),
		timeseries.NewReach("Discharge", "R1", 100, ""),
	}
	times := []time.Time{
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 1, 0, 0, 0, time.UTC),
	}
	f, err := frame.New(times, timeseries.ToColumnIndex(ids), [][]float64{{2, 4}, {10, 20}})
	require.NoError(t, err)

	profiles, err := Frame(f)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "N1", profiles[0].ID.Name)
	assert.Equal(t, 3.0, profiles[0].Mean)
	assert.Equal(t, 15.0, profiles[1].Mean)
	assert.Equal(t, 20.0, profiles[1].Max)
}
