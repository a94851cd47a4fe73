package resfile

import (
	"fmt"
	"strconv"
	"strings"

	"resframe/domain/network"
)

// parseNetworkRows fills network attributes from kind-prefixed rows:
//
//	node,<name>,<type>,<x>,<y>,<ground level>,<invert level>,<diameter>
//	reach,<name>,<from node>,<to node>,<length>,<gridpoints ch:invert;...>
//	catchment,<name>,<area>,<x>,<y>
//	structure,<name>,<type>,<reach>,<chainage>
//
// A header row starting with "kind" is skipped. Entities already stubbed
// from result headers are replaced with the attributed version.
func parseNetworkRows(rows [][]string, net *network.Network) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		kind := strings.ToLower(strings.TrimSpace(row[0]))
		if kind == "" || kind == "kind" {
			continue
		}
		var err error
		switch kind {
		case "node":
			err = parseNodeRow(row, net)
		case "reach":
			err = parseReachRow(row, net)
		case "catchment":
			err = parseCatchmentRow(row, net)
		case "structure":
			err = parseStructureRow(row, net)
		default:
			err = fmt.Errorf("unknown entity kind %q", kind)
		}
		if err != nil {
			return fmt.Errorf("network row %d: %w", i+1, err)
		}
	}
	return nil
}

func parseNodeRow(row []string, net *network.Network) error {
	if len(row) < 2 {
		return fmt.Errorf("node row needs a name")
	}
	node := &network.Node{
		Name:        strings.TrimSpace(row[1]),
		Type:        headerCell(row, 2),
		X:           floatCell(row, 3),
		Y:           floatCell(row, 4),
		GroundLevel: floatCell(row, 5),
		InvertLevel: floatCell(row, 6),
		Diameter:    floatCell(row, 7),
	}
	net.AddNode(node)
	return nil
}

func parseReachRow(row []string, net *network.Network) error {
	if len(row) < 2 {
		return fmt.Errorf("reach row needs a name")
	}
	reach := &network.Reach{
		Name:     strings.TrimSpace(row[1]),
		FromNode: headerCell(row, 2),
		ToNode:   headerCell(row, 3),
		Length:   floatCell(row, 4),
	}
	if raw := headerCell(row, 5); raw != "" {
		points, err := parseGridPoints(raw)
		if err != nil {
			return fmt.Errorf("reach %q: %w", reach.Name, err)
		}
		reach.GridPoints = points
	}
	net.AddReach(reach)
	return nil
}

func parseCatchmentRow(row []string, net *network.Network) error {
	if len(row) < 2 {
		return fmt.Errorf("catchment row needs a name")
	}
	net.AddCatchment(&network.Catchment{
		Name: strings.TrimSpace(row[1]),
		Area: floatCell(row, 2),
		X:    floatCell(row, 3),
		Y:    floatCell(row, 4),
	})
	return nil
}

func parseStructureRow(row []string, net *network.Network) error {
	if len(row) < 2 {
		return fmt.Errorf("structure row needs a name")
	}
	net.AddStructure(&network.Structure{
		Name:      strings.TrimSpace(row[1]),
		Type:      headerCell(row, 2),
		ReachName: headerCell(row, 3),
		Chainage:  floatCell(row, 4),
	})
	return nil
}

// parseGridPoints reads a "chainage:invert;chainage:invert" list.
func parseGridPoints(raw string) ([]network.GridPoint, error) {
	parts := strings.Split(raw, ";")
	points := make([]network.GridPoint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.SplitN(part, ":", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("bad grid point %q", part)
		}
		chainage, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad grid point chainage %q", fields[0])
		}
		invert, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad grid point invert %q", fields[1])
		}
		points = append(points, network.GridPoint{Chainage: chainage, InvertLevel: invert})
	}
	return points, nil
}

func floatCell(row []string, col int) float64 {
	raw := headerCell(row, col)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
