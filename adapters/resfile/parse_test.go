package resfile

import (
	"math"
	"testing"
	"time"

	"resframe/domain/network"
	"resframe/domain/timeseries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() [][]string {
	return [][]string{
		{"quantity", "WaterLevel", "WaterLevel", "Discharge", "Discharge"},
		{"group", "Node", "Node", "Reach", "Reach"},
		{"name", "N1", "N2", "R1", "R1"},
		{"chainage", "", "", "0", "125.5"},
		{"tag", "", "", "", ""},
		{"2024-07-01T00:00:00Z", "1.0", "2.0", "3.0", "4.0"},
		{"2024-07-01T01:00:00Z", "1.5", "", "3.5", "4.5"},
	}
}

func TestParseResultRows(t *testing.T) {
	f, net, err := parseResultRows(sampleRows())
	require.NoError(t, err)

	assert.Equal(t, 2, f.Len())
	assert.Equal(t, 4, f.NumColumns())
	assert.Equal(t, timeseries.Levels, f.Index().Levels())

	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), f.Times()[0])
	assert.Equal(t, []float64{1.0, 1.5}, f.Column(0))
	// Blank cells read as NaN.
	assert.True(t, math.IsNaN(f.Column(1)[1]))

	ids, err := timeseries.FromColumnIndex(f.Index())
	require.NoError(t, err)
	assert.Equal(t, "WaterLevel", ids[0].Quantity)
	assert.Equal(t, timeseries.GroupNode, ids[0].Group)
	assert.True(t, math.IsNaN(ids[0].Chainage))
	assert.Equal(t, 125.5, ids[3].Chainage)

	// The stub network carries every named entity and its quantities.
	_, err = net.Node("N1")
	assert.NoError(t, err)
	_, err = net.Reach("R1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Discharge"}, net.Quantities(timeseries.GroupReach))
}

func TestParseResultRowsAssignsDuplicates(t *testing.T) {
	rows := sampleRows()
	// Make the two reach columns identical keys.
	rows[3][4] = "0"

	f, _, err := parseResultRows(rows)
	require.NoError(t, err)

	ids, err := timeseries.FromColumnIndex(f.Index())
	require.NoError(t, err)
	assert.Equal(t, 0, ids[2].Duplicate)
	assert.Equal(t, 1, ids[3].Duplicate)
}

func TestParseResultRowsRejectsBadHeader(t *testing.T) {
	rows := sampleRows()
	rows[1][0] = "category"
	_, _, err := parseResultRows(rows)
	assert.Error(t, err)

	_, _, err = parseResultRows(sampleRows()[:4])
	assert.Error(t, err)
}

func TestParseResultRowsRejectsUnknownGroup(t *testing.T) {
	rows := sampleRows()
	rows[1][1] = "Pipe"
	_, _, err := parseResultRows(rows)
	assert.Error(t, err)
}

func TestParseNetworkRows(t *testing.T) {
	net := network.New()
	net.AddNode(&network.Node{Name: "N1"})

	rows := [][]string{
		{"kind", "name", "a", "b", "c", "d", "e"},
		{"node", "N1", "Manhole", "10", "20", "5.5", "1.2", "1.0"},
		{"reach", "R1", "N1", "N2", "250", "0:99.5;125.5:99.1;250:98.7"},
		{"catchment", "C1", "1200", "11", "21"},
		{"structure", "W1", "Weir", "R1", "125.5"},
	}
	require.NoError(t, parseNetworkRows(rows, net))

	node, err := net.Node("N1")
	require.NoError(t, err)
	assert.Equal(t, "Manhole", node.Type)
	assert.Equal(t, 5.5, node.GroundLevel)
	assert.Equal(t, 1.2, node.InvertLevel)

	reach, err := net.Reach("R1")
	require.NoError(t, err)
	assert.Equal(t, 250.0, reach.Length)
	require.Len(t, reach.GridPoints, 3)
	assert.Equal(t, 125.5, reach.GridPoints[1].Chainage)
	assert.Equal(t, "0-250", reach.Span())

	_, err = net.Catchment("C1")
	assert.NoError(t, err)
	st, err := net.Structure("W1")
	require.NoError(t, err)
	assert.Equal(t, "R1", st.ReachName)
}

func TestParseNetworkRowsRejectsUnknownKind(t *testing.T) {
	err := parseNetworkRows([][]string{{"pipe", "P1"}}, network.New())
	assert.Error(t, err)
}
