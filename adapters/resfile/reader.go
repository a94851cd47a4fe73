package resfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resframe/domain/frame"
	"resframe/domain/network"
	"resframe/internal/errors"
	"resframe/internal/logging"

	"github.com/xuri/excelize/v2"
)

// ResultSheet is the sheet holding the result table in xlsx sources.
const ResultSheet = "Results"

// NetworkSheet is the optional sheet holding network attributes.
const NetworkSheet = "Network"

// Reader loads a tabular result file (CSV or XLSX) into a frame and the
// network its series attach to. The table layout is five header rows
// (quantity, group, name, chainage, tag) over one timestamp column plus
// one column per series; duplicates are resolved in first-seen order.
type Reader struct {
	resultPath  string
	networkPath string
	fileType    string // "xlsx" or "csv"
	log         *logging.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithNetworkFile points the reader at a CSV file with network entity
// attributes. Without one, locations are synthesized from column headers
// with zero-valued attributes.
func WithNetworkFile(path string) Option {
	return func(r *Reader) { r.networkPath = path }
}

// WithLogger overrides the reader's logger.
func WithLogger(log *logging.Logger) Option {
	return func(r *Reader) { r.log = log }
}

// NewReader creates a reader for a CSV or XLSX result file.
func NewReader(resultPath string, opts ...Option) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(resultPath)) == ".csv" {
		fileType = "csv"
	}
	r := &Reader{
		resultPath: resultPath,
		fileType:   fileType,
		log:        logging.NewFromEnv(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source identifies the result file.
func (r *Reader) Source() string {
	return r.resultPath
}

// Read materializes the frame and network.
func (r *Reader) Read(ctx context.Context) (*frame.Frame, *network.Network, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(r.resultPath); os.IsNotExist(err) {
		return nil, nil, errors.NotFound(fmt.Sprintf("result file %s", r.resultPath))
	}

	var (
		rows        [][]string
		networkRows [][]string
		err         error
	)
	switch r.fileType {
	case "csv":
		rows, err = readCSV(r.resultPath)
	case "xlsx":
		rows, networkRows, err = readXLSX(r.resultPath)
	default:
		err = fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, nil, errors.ReadError(r.resultPath, err)
	}
	r.log.Debug("read %d raw rows from %s", len(rows), r.resultPath)

	f, net, err := parseResultRows(rows)
	if err != nil {
		return nil, nil, errors.ReadError(r.resultPath, err)
	}

	if r.networkPath != "" {
		networkRows, err = readCSV(r.networkPath)
		if err != nil {
			return nil, nil, errors.ReadError(r.networkPath, err)
		}
	}
	if len(networkRows) > 0 {
		if err := parseNetworkRows(networkRows, net); err != nil {
			return nil, nil, errors.ReadError(r.resultPath, err)
		}
	}

	r.log.Info("loaded %s: %d time steps, %d series", r.resultPath, f.Len(), f.NumColumns())
	return f, net, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) (results [][]string, networkRows [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	results, err = f.GetRows(ResultSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", ResultSheet, err)
	}
	// The network sheet is optional.
	if idx, _ := f.GetSheetIndex(NetworkSheet); idx >= 0 {
		networkRows, err = f.GetRows(NetworkSheet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %s: %w", NetworkSheet, err)
		}
	}
	return results, networkRows, nil
}
