package timeseries

import (
	"math"
	"testing"

	"resframe/domain/frame"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIDs() []TimeSeriesID {
	dup := NewReach("Discharge", "R2", 0, "")
	dup.Duplicate = 1
	derived := New("WaterDepth", GroupNode, "N1")
	derived.Derived = true
	return []TimeSeriesID{
		New("WaterLevel", GroupNode, "N1"),
		NewReach("Discharge", "R1", 125.75, "0-250"),
		dup,
		New("TotalRunoff", GroupCatchment, "C1"),
		derived,
	}
}

func TestToColumnIndexShape(t *testing.T) {
	ids := sampleIDs()
	ix := ToColumnIndex(ids)

	assert.Equal(t, Levels, ix.Levels())
	assert.Equal(t, len(ids), ix.Len())

	quantities, err := ix.Values(LevelQuantity)
	require.NoError(t, err)
	assert.Equal(t, "WaterLevel", quantities[0])

	chainage, ok := ix.Value(1, LevelChainage)
	require.True(t, ok)
	assert.Equal(t, 125.75, chainage)

	nodeChainage, ok := ix.Value(0, LevelChainage)
	require.True(t, ok)
	assert.True(t, math.IsNaN(nodeChainage.(float64)))
}

func TestColumnIndexRoundTrip(t *testing.T) {
	ids := sampleIDs()
	back, err := FromColumnIndex(ToColumnIndex(ids))
	require.NoError(t, err)
	require.Len(t, back, len(ids))
	for i := range ids {
		assert.True(t, ids[i].Equal(back[i]), "id %d: %s != %s", i, ids[i], back[i])
	}
}

func TestRoundTripSurvivesCompaction(t *testing.T) {
	// All-default tag, duplicate and derived levels drop under compaction;
	// decompaction during parsing reinstates them exactly.
	ids := []TimeSeriesID{
		New("WaterLevel", GroupNode, "N1"),
		New("WaterLevel", GroupNode, "N2"),
	}
	compact := ToColumnIndex(ids).Compact(LevelDefault)
	assert.False(t, compact.HasLevel(LevelTag))
	assert.False(t, compact.HasLevel(LevelDuplicate))
	assert.False(t, compact.HasLevel(LevelDerived))
	assert.False(t, compact.HasLevel(LevelChainage))

	back, err := FromColumnIndex(compact)
	require.NoError(t, err)
	require.Len(t, back, len(ids))
	for i := range ids {
		assert.True(t, ids[i].Equal(back[i]))
	}
}

func TestFromColumnIndexRejectsBadTypes(t *testing.T) {
	ix, err := frame.NewColumnIndex(Levels, []frame.Label{
		{"WaterLevel", "Node", "N1", math.NaN(), "", "0", false},
	})
	require.NoError(t, err)

	_, err = FromColumnIndex(ix)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate level")
}

func TestFromColumnIndexRejectsUnknownGroup(t *testing.T) {
	ix, err := frame.NewColumnIndex(Levels, []frame.Label{
		{"WaterLevel", "Pipe", "N1", math.NaN(), "", 0, false},
	})
	require.NoError(t, err)

	_, err = FromColumnIndex(ix)
	assert.Error(t, err)
}
