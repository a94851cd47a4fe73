package excel

import (
	"fmt"
	"math"

	"resframe/domain/run"
	"resframe/internal/errors"

	"github.com/xuri/excelize/v2"
)

// AggregatedSheet is the sheet the entity table is written to.
const AggregatedSheet = "Aggregated"

// Writer exports aggregation run records to XLSX workbooks.
type Writer struct{}

// NewWriter creates an XLSX run exporter.
func NewWriter() *Writer {
	return &Writer{}
}

// Export writes the run's entity table to path: one header row, one row
// per entity, plus run metadata above the table. NaN cells stay empty.
func (w *Writer) Export(r *run.Run, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(AggregatedSheet)
	if err != nil {
		return errors.ExportError(path, err)
	}
	f.SetActiveSheet(index)
	// Drop the default sheet so the workbook only carries results.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.ExportError(path, err)
	}

	meta := [][]interface{}{
		{"run", r.ID.String()},
		{"source", r.Source},
		{"strategy", r.Strategy},
		{"created", r.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	for i, row := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(AggregatedSheet, cell, &row); err != nil {
			return errors.ExportError(path, err)
		}
	}

	headerRow := len(meta) + 2
	header := make([]interface{}, 0, len(r.Columns)+1)
	header = append(header, "entity")
	for _, c := range r.Columns {
		header = append(header, c)
	}
	cell, _ := excelize.CoordinatesToCellName(1, headerRow)
	if err := f.SetSheetRow(AggregatedSheet, cell, &header); err != nil {
		return errors.ExportError(path, err)
	}

	for i, entity := range r.Entities {
		row := make([]interface{}, 0, len(r.Columns)+1)
		row = append(row, entity)
		for j := range r.Columns {
			v := math.NaN()
			if i < len(r.Values) && j < len(r.Values[i]) {
				v = r.Values[i][j]
			}
			if math.IsNaN(v) {
				row = append(row, "")
			} else {
				row = append(row, v)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err := f.SetSheetRow(AggregatedSheet, cell, &row); err != nil {
			return errors.ExportError(path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.ExportError(path, fmt.Errorf("failed to save workbook: %w", err))
	}
	return nil
}
