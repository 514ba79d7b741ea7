package extractor

import (
	"fmt"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
)

// NameColumns names width columns from the canonical list. Columns past the
// end of the list get placeholder names Extra_0, Extra_1, ...
func NameColumns(width int, canonical []string) []string {
	names := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(canonical) {
			names[i] = canonical[i]
			continue
		}
		names[i] = fmt.Sprintf("Extra_%d", i-len(canonical))
	}
	return names
}

// ProjectRow maps a row onto column names. Every named column is present in
// the record; cells past the end of a short row are "".
//
// When a canonical name repeats, the leftmost column wins.
func ProjectRow(row []string, names []string) types.Record {
	rec := make(types.Record, len(names))
	for i, name := range names {
		if _, seen := rec[name]; seen {
			continue
		}
		value := ""
		if i < len(row) {
			value = row[i]
		}
		rec[name] = value
	}
	return rec
}

// ProjectByIndex maps a row through a field -> column index map. Indexes past
// the end of the row yield "".
func ProjectByIndex(row []string, columnMap map[string]int) types.Record {
	rec := make(types.Record, len(columnMap))
	for field, idx := range columnMap {
		value := ""
		if idx >= 0 && idx < len(row) {
			value = row[idx]
		}
		rec[field] = value
	}
	return rec
}
