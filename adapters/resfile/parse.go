package resfile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"resframe/domain/frame"
	"resframe/domain/network"
	"resframe/domain/timeseries"
)

// headerLabels are the expected first-column labels of the header rows,
// in order. Each header row carries one identity field per series column.
var headerLabels = []string{"quantity", "group", "name", "chainage", "tag"}

// timeLayouts are accepted timestamp formats, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseResultRows turns raw rows into a full-column-mode frame and a
// network stub holding every entity named in the headers.
func parseResultRows(rows [][]string) (*frame.Frame, *network.Network, error) {
	if len(rows) < len(headerLabels)+1 {
		return nil, nil, fmt.Errorf("result table needs %d header rows and at least one data row", len(headerLabels))
	}

	header := make([][]string, len(headerLabels))
	for i, label := range headerLabels {
		row := rows[i]
		if len(row) < 1 || strings.ToLower(strings.TrimSpace(row[0])) != label {
			return nil, nil, fmt.Errorf("header row %d must be labeled %q", i+1, label)
		}
		header[i] = row
	}

	width := len(header[0]) - 1
	if width < 1 {
		return nil, nil, fmt.Errorf("result table has no series columns")
	}

	ids := make([]timeseries.TimeSeriesID, width)
	for c := 0; c < width; c++ {
		id, err := parseColumnID(header, c+1)
		if err != nil {
			return nil, nil, fmt.Errorf("series column %d: %w", c+1, err)
		}
		ids[c] = id
	}
	ids = timeseries.AssignDuplicates(ids)

	dataRows := rows[len(headerLabels):]
	times := make([]time.Time, 0, len(dataRows))
	data := make([][]float64, width)
	for c := range data {
		data[c] = make([]float64, 0, len(dataRows))
	}
	for i, row := range dataRows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		ts, err := parseTime(row[0])
		if err != nil {
			return nil, nil, fmt.Errorf("data row %d: %w", i+1, err)
		}
		times = append(times, ts)
		for c := 0; c < width; c++ {
			data[c] = append(data[c], parseCell(row, c+1))
		}
	}

	f, err := frame.New(times, timeseries.ToColumnIndex(ids), data)
	if err != nil {
		return nil, nil, err
	}
	return f, stubNetwork(ids), nil
}

func parseColumnID(header [][]string, col int) (timeseries.TimeSeriesID, error) {
	quantity := headerCell(header[0], col)
	groupName := headerCell(header[1], col)
	name := headerCell(header[2], col)
	chainageRaw := headerCell(header[3], col)
	tag := headerCell(header[4], col)

	group, err := timeseries.ParseGroup(groupName)
	if err != nil {
		return timeseries.TimeSeriesID{}, err
	}

	chainage := math.NaN()
	if chainageRaw != "" {
		chainage, err = strconv.ParseFloat(chainageRaw, 64)
		if err != nil {
			return timeseries.TimeSeriesID{}, fmt.Errorf("bad chainage %q: %w", chainageRaw, err)
		}
	}

	id := timeseries.TimeSeriesID{
		Quantity: quantity,
		Group:    group,
		Name:     name,
		Chainage: chainage,
		Tag:      tag,
	}
	return id, nil
}

func headerCell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// parseCell reads one value; blank and malformed cells become NaN so a
// ragged row never shifts the column alignment.
func parseCell(row []string, col int) float64 {
	if col >= len(row) {
		return math.NaN()
	}
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// stubNetwork creates locations for every entity named in the column
// headers. Attributes stay zero until a network file fills them in.
func stubNetwork(ids []timeseries.TimeSeriesID) *network.Network {
	net := network.New()
	for _, id := range ids {
		net.RegisterQuantity(id.Group, id.Quantity)
		switch id.Group {
		case timeseries.GroupNode:
			if _, err := net.Node(id.Name); err != nil {
				net.AddNode(&network.Node{Name: id.Name})
			}
		case timeseries.GroupReach:
			if _, err := net.Reach(id.Name); err != nil {
				net.AddReach(&network.Reach{Name: id.Name})
			}
		case timeseries.GroupCatchment:
			if _, err := net.Catchment(id.Name); err != nil {
				net.AddCatchment(&network.Catchment{Name: id.Name})
			}
		case timeseries.GroupStructure:
			if _, err := net.Structure(id.Name); err != nil {
				net.AddStructure(&network.Structure{Name: id.Name})
			}
		}
	}
	return net
}
