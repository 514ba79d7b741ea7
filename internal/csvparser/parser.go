// =============================================================================
// Product File Generator - CSV Reader
// =============================================================================
//
// This module reads delimited vendor files into a header-less RawTable. Vendor
// exports are loosely structured, so the reader is deliberately permissive:
//   - Rows may have different numbers of fields
//   - Quotes that break strict CSV rules are accepted
//   - Non UTF-8 encodings are decoded before parsing
//   - A UTF-8 byte order mark is dropped
//
// No row is treated as a header and no row is skipped; locating the data is the
// extractor's job.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited file into a RawTable.
//
// PARAMETERS:
//   - filePath: The path to the file.
//   - settings: Delimiter and encoding settings.
//
// RETURNS:
//   - The table, one entry per record in file order.
//   - An error if the file cannot be opened, decoded or parsed.
func Parse(filePath string, settings config.CSVSettings) (types.RawTable, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, settings)
}

// ParseReader reads delimited data from r into a RawTable.
func ParseReader(r io.Reader, settings config.CSVSettings) (types.RawTable, error) {
	decoder, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := transform.NewReader(bufio.NewReader(r), decoder.NewDecoder())

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return types.RawTable(rows), nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = Delimiter(settings.Delimiter)

	// Vendor files have ragged rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = settings.TrimLeadingSpace
}

// Delimiter converts a configured delimiter name into the separator rune.
func Delimiter(name string) rune {
	switch name {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	default:
		if len(name) > 0 {
			return rune(name[0])
		}
		return ','
	}
}

// CheckEncoding reports whether an encoding name is supported.
func CheckEncoding(name string) error {
	_, err := decoderFor(name)
	return err
}

// decoderFor maps an encoding name to a decoder.
//
// UTF-8 input goes through a BOM-aware decoder so spreadsheet exports that
// start with a byte order mark parse the same as those that don't.
func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(name, "_", "-")) {
	case "", "UTF-8", "UTF8":
		return unicode.UTF8BOM, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return charmap.ISO8859_1, nil
	case "UTF-16", "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}
