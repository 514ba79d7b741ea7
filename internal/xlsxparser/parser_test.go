package xlsxparser

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// createVendorWorkbook builds a workbook with a currency-formatted price so the
// raw-value read can be checked.
//
//	A1: "#"
//	A2: "ACME"  B2: "P-1"  C2: 1500.25 (formatted "$#,##0.00")
func createVendorWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "A1", "#"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "ACME"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "P-1"))
	require.NoError(t, f.SetCellValue(sheet, "C2", 1500.25))

	currency := "$#,##0.00"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currency})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "C2", "C2", style))

	path := filepath.Join(t.TempDir(), "vendor.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse_FirstSheetRawValues(t *testing.T) {
	table, err := Parse(createVendorWorkbook(t))
	require.NoError(t, err)

	require.Len(t, table, 2)
	assert.Equal(t, "#", table.Cell(0, 0))
	assert.Equal(t, "ACME", table.Cell(1, 0))
	assert.Equal(t, "P-1", table.Cell(1, 1))
	assert.Equal(t, "1500.25", table.Cell(1, 2))
}

func TestParseReader(t *testing.T) {
	data, err := os.ReadFile(createVendorWorkbook(t))
	require.NoError(t, err)

	table, err := ParseReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "#", table.Cell(0, 0))
}

func TestParse_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.xls")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := Parse(path)
	assert.ErrorContains(t, err, "failed to open workbook")
}

func TestInspectTemplate(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Header"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Hint"))
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	info, err := InspectTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", info.Sheet)
	assert.Equal(t, []string{"Sheet1"}, info.Sheets)
	assert.Equal(t, 2, info.UsedRows)
}

func TestInspectTemplate_Missing(t *testing.T) {
	_, err := InspectTemplate(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
