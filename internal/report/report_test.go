package report

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	r := New()
	r.Add(LevelError, "broken.csv", "'#' not found in column A of broken.csv")
	r.Add(LevelWarning, "empty.csv", "No data between '#' and '-' in empty.csv")
	r.Add(LevelSuccess, "acme.xlsx", "Successfully processed acme.xlsx using SIN: 332999")
	return r
}

func TestReport_WriteToKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	n, err := sampleReport().WriteTo(&buf)
	require.NoError(t, err)

	want := "[ERROR] '#' not found in column A of broken.csv\n" +
		"[WARN] No data between '#' and '-' in empty.csv\n" +
		"[OK] Successfully processed acme.xlsx using SIN: 332999\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, int64(len(want)), n)
}

func TestReport_Counts(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, 1, r.Count(LevelSuccess))
	assert.Equal(t, 1, r.Count(LevelWarning))
	assert.Equal(t, 1, r.Count(LevelError))
	assert.Len(t, r.Lines(), 3)
}

func TestReport_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Processing_Report.txt")
	require.NoError(t, sampleReport().WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[OK] Successfully processed acme.xlsx")

	// An empty report still produces a file.
	require.NoError(t, New().WriteFile(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSaveSQLite_AppendsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	ctx := context.Background()
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	run := RunInfo{
		RunID:    "run-1",
		Profile:  "sentinel",
		Started:  started,
		Finished: started.Add(time.Minute),
		Inputs:   3,
		Outputs:  []string{"out/FCP_Product_File_1(AC-AC).xlsx"},
	}
	require.NoError(t, SaveSQLite(ctx, path, run, sampleReport()))

	run.RunID = "run-2"
	require.NoError(t, SaveSQLite(ctx, path, run, New()))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var runs int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, 2, runs)

	var errorsCount, warnings int
	require.NoError(t, db.QueryRow(`SELECT errors, warnings FROM runs WHERE run_id = ?`, "run-1").Scan(&errorsCount, &warnings))
	assert.Equal(t, 1, errorsCount)
	assert.Equal(t, 1, warnings)

	var level, file string
	require.NoError(t, db.QueryRow(`SELECT level, file FROM report_lines WHERE run_id = ? AND seq = 3`, "run-1").Scan(&level, &file))
	assert.Equal(t, "success", level)
	assert.Equal(t, "acme.xlsx", file)

	var outputs int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM outputs`).Scan(&outputs))
	assert.Equal(t, 2, outputs)
}

func TestSaveSQLite_DuplicateRunIDFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	run := RunInfo{RunID: "same", Profile: "stride", Started: time.Now(), Finished: time.Now()}

	require.NoError(t, SaveSQLite(context.Background(), path, run, New()))
	assert.ErrorContains(t, SaveSQLite(context.Background(), path, run, New()), "failed to insert run")
}
