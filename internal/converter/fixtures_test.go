package converter

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
)

// fixture is a run directory with a template, a SIN mapping and an input
// directory.
type fixture struct {
	root     string
	in       string
	out      string
	template string
	mapping  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	fx := fixture{
		root:     root,
		in:       filepath.Join(root, "in"),
		out:      filepath.Join(root, "out"),
		template: filepath.Join(root, "template.xlsx"),
		mapping:  filepath.Join(root, "sin_mapping.csv"),
	}
	require.NoError(t, os.Mkdir(fx.in, 0o755))

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Type"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Manufacturer"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "required"))
	require.NoError(t, f.SaveAs(fx.template))
	require.NoError(t, f.Close())

	mapping := "acme.csv,332999\nwidgets.xlsx,OLM\nX1,33411\n"
	require.NoError(t, os.WriteFile(fx.mapping, []byte(mapping), 0o644))

	return fx
}

func (fx fixture) config(t *testing.T, profile string) *config.MainConfig {
	t.Helper()
	cfg := &config.MainConfig{
		Profile:        profile,
		InputDir:       fx.in,
		OutputDir:      fx.out,
		TemplatePath:   fx.template,
		SinMappingPath: fx.mapping,
	}
	require.NoError(t, config.ApplyDefaults(cfg))
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sentinelRow builds an 11-column row in the sentinel layout.
func sentinelRow(manufacturer, part, desc, total, maxList string) []string {
	row := make([]string, 11)
	row[1] = manufacturer
	row[2] = part
	row[3] = desc
	row[4] = total
	row[9] = maxList
	return row
}

func startMarker() []string {
	row := make([]string, 11)
	row[0] = "#"
	return row
}

func endMarker() []string {
	row := make([]string, 11)
	row[10] = "-"
	return row
}

// writeCSV writes rows as comma-joined lines. Cells must not contain commas.
func (fx fixture) writeCSV(t *testing.T, name string, rows ...[]string) string {
	t.Helper()
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	path := filepath.Join(fx.in, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// writeXLSX writes rows to the first sheet of a new workbook.
func (fx fixture) writeXLSX(t *testing.T, name string, rows ...[]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
	}

	path := filepath.Join(fx.in, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// acmeCSV has two product rows.
func (fx fixture) acmeCSV(t *testing.T) string {
	return fx.writeCSV(t, "acme.csv",
		[]string{"Vendor report", "", "", "", "", "", "", "", "", "", ""},
		startMarker(),
		sentinelRow("ACME", "P-1", "Widget A; Extra long descriptive phrase that overflows", "1500.25", "12.5"),
		sentinelRow("ACME", "P-2", "Gadget", "80", "4"),
		endMarker(),
	)
}

// widgetsXLSX has one product row.
func (fx fixture) widgetsXLSX(t *testing.T) string {
	return fx.writeXLSX(t, "widgets.xlsx",
		startMarker(),
		sentinelRow("WidgetCo", "W-1", "Widget", "10", "5"),
		endMarker(),
	)
}

// dataRows returns every row of the output workbook below the header rows.
func dataRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()), excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	return rows[2:]
}

// cell returns a 0-based cell of a row, or "".
func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}
