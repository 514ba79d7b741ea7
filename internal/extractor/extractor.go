// =============================================================================
// Product File Generator - Row Extractor
// =============================================================================
//
// This module locates the product rows inside a loosely structured vendor table
// and turns each one into a Record. Two strategies exist:
//
//   SENTINEL: The data block starts on the row after the first '#' in column A
//             and ends before the first '-' in column K. Columns are named
//             positionally from a canonical list.
//
//   STRIDE:   Starting at a fixed row, every Nth row is one record. Fields are
//             projected through a fixed column-index map.
//
// Both strategies tolerate short rows: a missing cell reads as "".
//
// =============================================================================

package extractor

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

// Structural errors. Each one rejects a single file, never the whole run.
var (
	ErrMissingStartMarker     = errors.New("start marker not found")
	ErrMissingEndMarkerColumn = errors.New("end marker column does not exist")
	ErrMissingEndMarker       = errors.New("end marker not found")

	// ErrEmptyDataBlock is a warning: the markers exist but nothing lies
	// between them.
	ErrEmptyDataBlock = errors.New("no data between markers")
)

// =============================================================================
// EXTRACTOR INTERFACE
// =============================================================================

// Extractor turns a raw table into records.
type Extractor interface {
	Extract(table types.RawTable) ([]types.Record, error)
}

// New builds the extractor selected by the configuration.
func New(cfg config.ExtractionConfig) (Extractor, error) {
	switch cfg.Strategy {
	case config.StrategySentinel:
		return &SentinelExtractor{
			StartMarker:     cfg.StartMarker,
			EndMarker:       cfg.EndMarker,
			EndMarkerColumn: cfg.EndColumn(),
			ColumnNames:     cfg.ColumnNames,
		}, nil
	case config.StrategyStride:
		return &StrideExtractor{
			StartRow:  cfg.StartRow,
			RowStep:   cfg.RowStep,
			ColumnMap: cfg.ColumnMap,
		}, nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q", cfg.Strategy)
	}
}

// =============================================================================
// SENTINEL EXTRACTION
// =============================================================================

// DataBlock is the half-open row range [Start, End) holding product rows.
type DataBlock struct {
	Start int
	End   int
}

// Len returns the number of rows in the block.
func (b DataBlock) Len() int {
	if b.End <= b.Start {
		return 0
	}
	return b.End - b.Start
}

// SentinelExtractor extracts the rows between a start and an end marker.
type SentinelExtractor struct {
	// StartMarker is matched exactly against column A.
	StartMarker string

	// EndMarker is matched exactly against EndMarkerColumn.
	EndMarker string

	// EndMarkerColumn is 0-based.
	EndMarkerColumn int

	// ColumnNames names the block's columns.
	ColumnNames []string
}

// FindDataBlock locates the data block in a table.
//
// RETURNS:
//   - The block on success.
//   - ErrMissingStartMarker, ErrMissingEndMarkerColumn or ErrMissingEndMarker
//     when the table lacks the structure.
//   - ErrEmptyDataBlock, together with the (empty) block, when the markers
//     leave no rows between them.
func (e *SentinelExtractor) FindDataBlock(table types.RawTable) (DataBlock, error) {
	startMarkerRow := findRow(table, 0, e.StartMarker)
	if startMarkerRow < 0 {
		return DataBlock{}, fmt.Errorf("%w: %q in column A", ErrMissingStartMarker, e.StartMarker)
	}

	endColumn, err := excelize.ColumnNumberToName(e.EndMarkerColumn + 1)
	if err != nil {
		return DataBlock{}, fmt.Errorf("invalid end marker column %d: %w", e.EndMarkerColumn, err)
	}

	if e.EndMarkerColumn >= table.Width() {
		return DataBlock{}, fmt.Errorf("%w: column %s", ErrMissingEndMarkerColumn, endColumn)
	}

	endMarkerRow := findRow(table, e.EndMarkerColumn, e.EndMarker)
	if endMarkerRow < 0 {
		return DataBlock{}, fmt.Errorf("%w: %q in column %s", ErrMissingEndMarker, e.EndMarker, endColumn)
	}

	block := DataBlock{Start: startMarkerRow + 1, End: endMarkerRow}
	if block.Start >= block.End {
		return block, fmt.Errorf("%w: %q and %q", ErrEmptyDataBlock, e.StartMarker, e.EndMarker)
	}

	return block, nil
}

// Extract returns one record per row of the data block.
func (e *SentinelExtractor) Extract(table types.RawTable) ([]types.Record, error) {
	block, err := e.FindDataBlock(table)
	if err != nil {
		return nil, err
	}

	names := NameColumns(table.Width(), e.ColumnNames)

	records := make([]types.Record, 0, block.Len())
	for i := block.Start; i < block.End; i++ {
		records = append(records, ProjectRow(table[i], names))
	}

	return records, nil
}

// findRow returns the index of the first row whose cell in col equals value,
// or -1.
func findRow(table types.RawTable, col int, value string) int {
	for i := range table {
		if col < len(table[i]) && table[i][col] == value {
			return i
		}
	}
	return -1
}

// =============================================================================
// STRIDE EXTRACTION
// =============================================================================

// StrideExtractor takes every RowStep-th row from StartRow onwards.
type StrideExtractor struct {
	// StartRow is 1-based.
	StartRow int

	// RowStep is the distance between record rows.
	RowStep int

	// ColumnMap maps field names to 0-based column indexes.
	ColumnMap map[string]int
}

// Extract returns one record per selected row.
func (e *StrideExtractor) Extract(table types.RawTable) ([]types.Record, error) {
	step := e.RowStep
	if step < 1 {
		step = 1
	}
	start := e.StartRow - 1
	if start < 0 {
		start = 0
	}

	var records []types.Record
	for i := start; i < len(table); i += step {
		records = append(records, ProjectByIndex(table[i], e.ColumnMap))
	}

	return records, nil
}
