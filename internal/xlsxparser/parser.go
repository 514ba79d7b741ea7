// =============================================================================
// Product File Generator - XLSX Reader
// =============================================================================
//
// This module reads workbooks with excelize. Two kinds of workbook are read:
//   - Vendor input files, turned into a header-less RawTable
//   - The output template, inspected to confirm it can be written to
//
// Only the Office Open XML format (.xlsx, .xlsm) is supported. Legacy binary
// .xls files fail to open and are reported as unreadable.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
)

// =============================================================================
// TABLE PARSING
// =============================================================================

// Parse reads the first sheet of a workbook into a RawTable.
//
// Cells are read with their raw stored value rather than their display
// format, so a price stored as 1500.25 is read as "1500.25" even when the cell
// is formatted as currency.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//
// RETURNS:
//   - The table of the first sheet.
//   - An error if the file cannot be opened or has no sheets.
func Parse(filePath string) (types.RawTable, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader reads the first sheet of a workbook from r.
func ParseReader(r io.Reader) (types.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return firstSheet(f)
}

// firstSheet returns every row of the workbook's first sheet.
func firstSheet(f *excelize.File) (types.RawTable, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	return types.RawTable(rows), nil
}

// =============================================================================
// TEMPLATE INSPECTION
// =============================================================================

// TemplateInfo describes an output template.
type TemplateInfo struct {
	// Path is the template file.
	Path string

	// Sheet is the active sheet, which receives the data rows.
	Sheet string

	// Sheets lists every sheet in the workbook.
	Sheets []string

	// UsedRows is the number of rows that already hold content.
	UsedRows int
}

// InspectTemplate opens a template and reports its write target.
//
// RETURNS:
//   - The template description.
//   - An error if the template cannot be opened or has no active sheet.
func InspectTemplate(path string) (*TemplateInfo, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("template has no active sheet")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read template sheet %q: %w", sheet, err)
	}

	return &TemplateInfo{
		Path:     path,
		Sheet:    sheet,
		Sheets:   f.GetSheetList(),
		UsedRows: len(rows),
	}, nil
}
