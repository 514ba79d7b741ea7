package sin

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/csvparser"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/xlsxparser"
)

// Mapping translates a key (a raw SIN code or an input file name) to a
// resolved SIN code.
type Mapping map[string]string

// Lookup returns the mapped code, or "" when key is unknown.
func (m Mapping) Lookup(key string) string {
	return m[key]
}

// LoadMapping reads a two-column mapping table. Workbooks (.xlsx, .xlsm) are
// read from their first sheet; anything else is read as delimited text.
//
// Keys and values are trimmed. Rows with fewer than two cells, or an empty
// key, are skipped. When a key repeats, the last row wins.
func LoadMapping(path string, settings config.CSVSettings) (Mapping, error) {
	var (
		table types.RawTable
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = xlsxparser.Parse(path)
	default:
		table, err = csvparser.Parse(path, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load SIN mapping %s: %w", path, err)
	}

	return MappingFromTable(table), nil
}

// MappingFromTable builds a mapping from the first two columns of a table.
func MappingFromTable(table types.RawTable) Mapping {
	m := make(Mapping, len(table))
	for _, row := range table {
		if len(row) < 2 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		m[key] = strings.TrimSpace(row[1])
	}
	return m
}
