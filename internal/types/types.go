// =============================================================================
// Product File Generator - Shared Types
// =============================================================================
//
// This package contains the types shared by the extraction, resolution and
// writing stages. Keeping them here avoids import cycles between:
//   - extractor
//   - sin
//   - xlsxwriter
//   - converter
//
// =============================================================================

package types

// =============================================================================
// RAW TABLE
// =============================================================================

// RawTable is a header-less, possibly ragged grid of cell text as read from
// one input file. Rows are 0-indexed; a row may be shorter than the widest row.
type RawTable [][]string

// Width returns the number of columns of the widest row.
func (t RawTable) Width() int {
	width := 0
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell returns the value at (row, col), or "" when the cell does not exist.
func (t RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t) {
		return ""
	}
	if col < 0 || col >= len(t[row]) {
		return ""
	}
	return t[row][col]
}

// =============================================================================
// CANONICAL FIELD NAMES
// =============================================================================

// Canonical field names every record is normalized to.
const (
	FieldManufacturer     = "Manufacturer"
	FieldPartNumber       = "Part Number"
	FieldDescription      = "Description"
	FieldCleanDescription = "Clean Description"
	FieldItemName         = "Item Name"
	FieldTotalSales       = "Total Sales"
	FieldMaxListPrice     = "Max List Price"
	FieldUnitPrice        = "Unit Price"
	FieldExtendedPrice    = "Extended Price"
	FieldSINNumber        = "Sin Number"
)

// =============================================================================
// RECORD
// =============================================================================

// Record maps canonical field names to cell values for one extracted row.
//
// A field that was never set is absent, which is distinct from a field that
// was set to "". Readers that do not care about the difference use Get, which
// resolves absent fields to "".
type Record map[string]string

// Lookup returns the value of a field and whether it is present.
func (r Record) Lookup(field string) (string, bool) {
	value, ok := r[field]
	return value, ok
}

// Get returns the value of a field, or "" when the field is absent.
func (r Record) Get(field string) string {
	return r[field]
}

// Set assigns a field value.
func (r Record) Set(field, value string) {
	r[field] = value
}
