// =============================================================================
// Product File Generator - Template Writer
// =============================================================================
//
// This module writes records into a copy of the output template. Each record
// becomes one row. The layout decides which value lands in which column:
//
//   ROW LAYOUT (sentinel profile):
//
//   A    B             C/D          E     F            G            I
//   "B"  Manufacturer  Part Number  SIN   Clean Desc.  Description  "EA"
//
//   L            O               P               Q..W, AD, AF
//   =P{row}*1.4  =P{row}*0.9925  Max List Price  literals, Total Sales
//
// Formulas are written as live formulas, not computed values, so they follow
// edits to the price column. Every written cell gets the layout font on top
// of whatever number format, fill and borders the template gave it.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
)

// FirstDataRow is the first row below the template's header rows.
const FirstDataRow = 3

// =============================================================================
// CELL PLAN
// =============================================================================

// cellKind tells WriteRecord how to fill a column.
type cellKind int

const (
	kindLiteral cellKind = iota
	kindField
	kindFormula
)

// plannedCell is one column of the row layout.
type plannedCell struct {
	column     int
	kind       cellKind
	value      string
	numeric    bool
	multiplier float64
}

// planRow flattens a layout into cells ordered by column.
func planRow(layout config.LayoutConfig) []plannedCell {
	cells := make([]plannedCell, 0, len(layout.Literals)+len(layout.Fields)+len(layout.Formulas))

	for _, lit := range layout.Literals {
		cells = append(cells, plannedCell{column: lit.Column, kind: kindLiteral, value: lit.Value})
	}
	for _, field := range layout.Fields {
		cells = append(cells, plannedCell{column: field.Column, kind: kindField, value: field.Field, numeric: field.Numeric})
	}
	for _, formula := range layout.Formulas {
		cells = append(cells, plannedCell{column: formula.Column, kind: kindFormula, multiplier: formula.Multiplier})
	}

	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].column < cells[j].column
	})

	return cells
}

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open copy of the template receiving rows.
type Workbook struct {
	file      *excelize.File
	sheet     string
	cells     []plannedCell
	priceCol  string
	font      excelize.Font

	// styles maps a template style ID to the same style with the layout font.
	styles map[int]int
}

// Open opens a template copy for writing. Rows go to the template's active
// sheet.
//
// PARAMETERS:
//   - path: The workbook to write into. It is modified only by SaveAs.
//   - layout: The row layout.
//
// RETURNS:
//   - The open workbook. The caller must Close it.
//   - An error if the file cannot be opened or the layout is unusable.
func Open(path string, layout config.LayoutConfig) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template copy: %w", err)
	}

	w, err := newWorkbook(f, layout)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func newWorkbook(f *excelize.File, layout config.LayoutConfig) (*Workbook, error) {
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("template has no active sheet")
	}

	w := &Workbook{
		file:   f,
		sheet:  sheet,
		cells:  planRow(layout),
		font:   excelize.Font{Family: layout.FontName, Size: layout.FontSize},
		styles: make(map[int]int),
	}

	if len(layout.Formulas) > 0 {
		priceCol, err := excelize.ColumnNumberToName(layout.PriceColumn)
		if err != nil {
			return nil, fmt.Errorf("invalid price column %d: %w", layout.PriceColumn, err)
		}
		w.priceCol = priceCol
	}

	return w, nil
}

// Sheet returns the name of the sheet receiving rows.
func (w *Workbook) Sheet() string {
	return w.sheet
}

// WriteRecord writes one record on the given 1-based row.
func (w *Workbook) WriteRecord(row int, rec types.Record) error {
	for _, c := range w.cells {
		cell, err := excelize.CoordinatesToCellName(c.column, row)
		if err != nil {
			return fmt.Errorf("invalid cell at column %d row %d: %w", c.column, row, err)
		}

		switch c.kind {
		case kindLiteral:
			err = w.file.SetCellStr(w.sheet, cell, c.value)
		case kindField:
			err = w.file.SetCellValue(w.sheet, cell, fieldValue(rec.Get(c.value), c.numeric))
		case kindFormula:
			err = w.file.SetCellFormula(w.sheet, cell, formula(w.priceCol, row, c.multiplier))
		}
		if err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}

		if err := w.applyFont(cell); err != nil {
			return fmt.Errorf("failed to style cell %s: %w", cell, err)
		}
	}

	return nil
}

// applyFont replaces the font of a cell's current style and keeps the rest.
func (w *Workbook) applyFont(cell string) error {
	base, err := w.file.GetCellStyle(w.sheet, cell)
	if err != nil {
		return err
	}

	id, ok := w.styles[base]
	if !ok {
		style, err := w.file.GetStyle(base)
		if err != nil {
			return err
		}
		font := w.font
		style.Font = &font
		if id, err = w.file.NewStyle(style); err != nil {
			return err
		}
		w.styles[base] = id
	}

	return w.file.SetCellStyle(w.sheet, cell, cell, id)
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// fieldValue returns the cell value for a record field. Numeric fields are
// written as numbers when the text parses as one so that prices keep their
// type and formulas can reference them.
func fieldValue(value string, numeric bool) interface{} {
	if !numeric {
		return value
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return value
	}
	return n
}

// formula returns "<priceCol><row>*<multiplier>", e.g. "P3*1.4".
func formula(priceCol string, row int, multiplier float64) string {
	return fmt.Sprintf("%s%d*%s", priceCol, row, strconv.FormatFloat(multiplier, 'f', -1, 64))
}
