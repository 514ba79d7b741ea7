package converter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
)

// scratchDirs lists leftover scratch directories in dir.
func scratchDirs(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var found []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".scratch-") {
			found = append(found, e.Name())
		}
	}
	return found
}

func TestRun_EndToEnd(t *testing.T) {
	fx := newFixture(t)
	cfg := fx.config(t, config.StrategySentinel)

	inputs := []string{
		fx.acmeCSV(t),
		fx.writeCSV(t, "broken.csv", endMarker()),
		fx.writeCSV(t, "empty.csv", startMarker(), endMarker()),
		fx.widgetsXLSX(t),
	}

	summary, err := Run(context.Background(), cfg, inputs, discardLogger())
	require.NoError(t, err)

	require.Len(t, summary.Results, 4)
	require.Len(t, summary.Outputs, 1)
	assert.Equal(t, 3, summary.RowsWritten())

	out := summary.Outputs[0]
	assert.Equal(t, filepath.Join(fx.out, "FCP_Product_File_1(AC-WI).xlsx"), out.Path)

	rows := dataRows(t, out.Path)
	require.Len(t, rows, 3)

	assert.Equal(t, "B", cell(rows[0], 0))
	assert.Equal(t, "ACME", cell(rows[0], 1))
	assert.Equal(t, "P-1", cell(rows[0], 2))
	assert.Equal(t, "P-1", cell(rows[0], 3))
	assert.Equal(t, "332999", cell(rows[0], 4))
	assert.Equal(t, "Widget A", cell(rows[0], 5))
	assert.Equal(t, "12.5", cell(rows[0], 15))
	assert.Equal(t, "1500.25", cell(rows[0], 31))

	assert.Equal(t, "P-2", cell(rows[1], 2))
	assert.Equal(t, "WidgetCo", cell(rows[2], 1))
	assert.Equal(t, "OLM", cell(rows[2], 4))

	report, err := os.ReadFile(filepath.Join(fx.out, "Processing_Report.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"[OK] Successfully processed acme.csv using SIN: 332999\n"+
			"[ERROR] '#' not found in column A of broken.csv\n"+
			"[WARN] No data between '#' and '-' in empty.csv\n"+
			"[OK] Successfully processed widgets.xlsx using SIN: OLM\n",
		string(report))

	assert.Empty(t, scratchDirs(t, fx.out), "scratch directory is removed")
}

func TestRun_PaginatesAcrossFiles(t *testing.T) {
	fx := newFixture(t)
	cfg := fx.config(t, config.StrategySentinel)
	cfg.MaxRowsPerFile = 2

	summary, err := Run(context.Background(), cfg, []string{fx.acmeCSV(t), fx.widgetsXLSX(t)}, discardLogger())
	require.NoError(t, err)
	require.Len(t, summary.Outputs, 2)

	assert.Equal(t, "FCP_Product_File_1(AC-AC).xlsx", filepath.Base(summary.Outputs[0].Path))
	assert.Equal(t, "FCP_Product_File_2(WI-WI).xlsx", filepath.Base(summary.Outputs[1].Path))
	assert.Len(t, dataRows(t, summary.Outputs[0].Path), 2)
	assert.Len(t, dataRows(t, summary.Outputs[1].Path), 1)
}

func TestRun_IsRepeatable(t *testing.T) {
	fx := newFixture(t)
	cfg := fx.config(t, config.StrategySentinel)
	inputs := []string{fx.acmeCSV(t), fx.widgetsXLSX(t)}

	first, err := Run(context.Background(), cfg, inputs, discardLogger())
	require.NoError(t, err)
	firstRows := dataRows(t, first.Outputs[0].Path)

	second, err := Run(context.Background(), cfg, inputs, discardLogger())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	require.Len(t, second.Outputs, 1)
	assert.Equal(t, first.Outputs[0].Path, second.Outputs[0].Path)
	assert.Equal(t, firstRows, dataRows(t, second.Outputs[0].Path))

	matches, err := filepath.Glob(filepath.Join(fx.out, "*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRun_NoRowsStillWritesWorkbook(t *testing.T) {
	fx := newFixture(t)
	cfg := fx.config(t, config.StrategySentinel)

	summary, err := Run(context.Background(), cfg, []string{fx.writeCSV(t, "x.csv", endMarker())}, discardLogger())
	require.NoError(t, err)
	require.Len(t, summary.Outputs, 1)
	assert.Equal(t, "FCP_Product_File_1(XX-YY).xlsx", filepath.Base(summary.Outputs[0].Path))
	assert.Equal(t, 0, summary.RowsWritten())
}

func TestRun_FatalPrerequisites(t *testing.T) {
	t.Run("missing template", func(t *testing.T) {
		fx := newFixture(t)
		cfg := fx.config(t, config.StrategySentinel)
		cfg.TemplatePath = filepath.Join(fx.root, "nope.xlsx")

		summary, err := Run(context.Background(), cfg, []string{fx.acmeCSV(t)}, discardLogger())
		assert.ErrorContains(t, err, "failed to load template")
		assert.Nil(t, summary)
		assert.Empty(t, scratchDirs(t, fx.out))
	})

	t.Run("template is not a workbook", func(t *testing.T) {
		fx := newFixture(t)
		require.NoError(t, os.WriteFile(fx.template, []byte("plain text"), 0o644))
		cfg := fx.config(t, config.StrategySentinel)

		_, err := Run(context.Background(), cfg, []string{fx.acmeCSV(t)}, discardLogger())
		assert.ErrorContains(t, err, "failed to load template")
	})

	t.Run("missing SIN mapping", func(t *testing.T) {
		fx := newFixture(t)
		cfg := fx.config(t, config.StrategySentinel)
		cfg.SinMappingPath = filepath.Join(fx.root, "nope.csv")

		_, err := Run(context.Background(), cfg, []string{fx.acmeCSV(t)}, discardLogger())
		assert.ErrorContains(t, err, "failed to load SIN mapping")
		assert.Empty(t, scratchDirs(t, fx.out))
		assert.NoFileExists(t, filepath.Join(fx.out, "Processing_Report.txt"))
	})

	t.Run("no inputs", func(t *testing.T) {
		fx := newFixture(t)
		_, err := Run(context.Background(), fx.config(t, config.StrategySentinel), nil, discardLogger())
		assert.ErrorIs(t, err, ErrNoInputFiles)
	})
}

func TestRun_WritesAuditDatabase(t *testing.T) {
	fx := newFixture(t)
	cfg := fx.config(t, config.StrategySentinel)
	cfg.AuditDB = filepath.Join(fx.root, "audit.db")

	_, err := Run(context.Background(), cfg, []string{fx.acmeCSV(t)}, discardLogger())
	require.NoError(t, err)
	assert.FileExists(t, cfg.AuditDB)
}
