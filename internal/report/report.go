// =============================================================================
// Product File Generator - Processing Report
// =============================================================================
//
// The processing report records one outcome line per input file, in the
// order the files were processed. It is written next to the output workbooks
// as plain text:
//
//   [OK] Successfully processed acme.xlsx using SIN: 332999
//   [WARN] No data between '#' and '-' in empty.csv
//   [ERROR] '#' not found in column A of broken.csv
//
// Lines are only ever appended.
//
// =============================================================================

package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

// Level classifies a report line.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// tag is the prefix a level gets in the text report.
func (l Level) tag() string {
	switch l {
	case LevelSuccess:
		return "[OK]"
	case LevelWarning:
		return "[WARN]"
	default:
		return "[ERROR]"
	}
}

// Line is one outcome.
type Line struct {
	Level   Level
	File    string
	Message string
	Time    time.Time
}

// String renders the line as it appears in the text report.
func (l Line) String() string {
	return l.Level.tag() + " " + l.Message
}

// Report is an append-only list of outcome lines.
type Report struct {
	lines []Line
	now   func() time.Time
}

// New creates an empty report.
func New() *Report {
	return &Report{now: time.Now}
}

// Add appends a line.
func (r *Report) Add(level Level, file, message string) {
	r.lines = append(r.lines, Line{
		Level:   level,
		File:    file,
		Message: message,
		Time:    r.now(),
	})
}

// Lines returns a copy of the lines in order.
func (r *Report) Lines() []Line {
	return append([]Line(nil), r.lines...)
}

// Count returns the number of lines at a level.
func (r *Report) Count(level Level) int {
	n := 0
	for _, line := range r.lines {
		if line.Level == level {
			n++
		}
	}
	return n
}

// WriteTo writes the text report, one newline-terminated line per outcome.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for _, line := range r.lines {
		n, err := bw.WriteString(line.String() + "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// WriteFile writes the text report to path, replacing any previous report.
func (r *Report) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer file.Close()

	if _, err := r.WriteTo(file); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return file.Close()
}
