// =============================================================================
// Product File Generator - Batch Paginator
// =============================================================================
//
// This module owns the output workbook of a run. Records are appended row by
// row; once a workbook holds MaxRows data rows the next record starts a new
// workbook copied from the template.
//
// LIFECYCLE:
//   Start  -> copy the template to <base>_<counter>_temp.xlsx and open it
//   Write  -> roll over if full, then write one row
//   Finish -> finalize the open workbook, even an empty one
//
// FINALIZATION:
//   The temp workbook is saved, closed and moved into the output directory as
//   <base>_<counter>(<first>-<last>).xlsx, where <first> and <last> are codes
//   derived from the first and last input file that wrote into it. A finalized
//   workbook is never reopened.
//
// =============================================================================

package paginator

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/xlsxwriter"
	"github.com/ginjaninja78/fcp-product-file-generator/pkg/utils"
)

// =============================================================================
// STATE
// =============================================================================

// State is the cursor of the current batch.
type State struct {
	// FileCounter numbers the output workbooks from 1.
	FileCounter int

	// CurrentRow is the next row to write, starting at xlsxwriter.FirstDataRow.
	CurrentRow int

	// FirstFile and LastFile label the batch.
	FirstFile string
	LastFile  string

	// Rows is the number of data rows in the current workbook.
	Rows int
}

// Output describes one finalized workbook.
type Output struct {
	Path      string
	Counter   int
	Rows      int
	FirstFile string
	LastFile  string
}

// =============================================================================
// PAGINATOR
// =============================================================================

// Options configures a Paginator.
type Options struct {
	// TemplatePath is the template every workbook is copied from.
	TemplatePath string

	// WorkDir holds the unfinished workbooks.
	WorkDir string

	// OutputDir receives the finalized workbooks.
	OutputDir string

	// BaseName prefixes the output names.
	BaseName string

	// MaxRows is the number of data rows per workbook.
	MaxRows int

	Layout config.LayoutConfig
	Logger *slog.Logger
}

// Paginator writes records across a sequence of bounded workbooks.
type Paginator struct {
	opts     Options
	logger   *slog.Logger
	state    State
	workbook *xlsxwriter.Workbook
	tempPath string
	outputs  []Output

	// err is a failed rollover. The batch it held is lost and every later
	// Write and Finish report it.
	err error
}

// New creates a Paginator. Nothing is opened until Start.
func New(opts Options) *Paginator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Paginator{
		opts:   opts,
		logger: logger,
		state:  State{FileCounter: 1, CurrentRow: xlsxwriter.FirstDataRow},
	}
}

// State returns a copy of the pagination state.
func (p *Paginator) State() State {
	return p.state
}

// Outputs returns the workbooks finalized so far.
func (p *Paginator) Outputs() []Output {
	return append([]Output(nil), p.outputs...)
}

// Start opens the first workbook. firstFile labels the batch until a file
// writes into it.
func (p *Paginator) Start(firstFile string) error {
	if p.workbook != nil {
		return fmt.Errorf("paginator already started")
	}
	p.state.FirstFile = firstFile
	p.state.LastFile = firstFile
	return p.open()
}

// Write appends one record coming from file.
func (p *Paginator) Write(file string, rec types.Record) error {
	if p.err != nil {
		return p.err
	}
	if p.workbook == nil {
		return fmt.Errorf("paginator not started")
	}

	// Rows 1-2 are the template header, so MaxRows data rows end on MaxRows+2.
	if p.state.CurrentRow > p.opts.MaxRows+2 {
		if err := p.rollover(file); err != nil {
			p.err = fmt.Errorf("failed to roll over workbook %d: %w", p.state.FileCounter, err)
			return p.err
		}
	}

	if err := p.workbook.WriteRecord(p.state.CurrentRow, rec); err != nil {
		return fmt.Errorf("failed to write row %d: %w", p.state.CurrentRow, err)
	}

	if p.state.Rows == 0 {
		p.state.FirstFile = file
	}
	p.state.LastFile = file
	p.state.CurrentRow++
	p.state.Rows++

	return nil
}

// rollover finalizes the full workbook and opens the next one.
func (p *Paginator) rollover(file string) error {
	if err := p.finalize(); err != nil {
		return err
	}
	p.state.FileCounter++
	p.state.FirstFile = file
	p.state.LastFile = file
	return p.open()
}

// Finish finalizes the open workbook and returns every output of the run.
// A failed rollover earlier in the run is returned here as well.
func (p *Paginator) Finish() ([]Output, error) {
	if p.workbook != nil {
		if err := p.finalize(); err != nil {
			return p.Outputs(), errors.Join(p.err, err)
		}
	}
	return p.Outputs(), p.err
}

// Close releases an open workbook without finalizing it. It is safe to call
// after Finish.
func (p *Paginator) Close() {
	if p.workbook == nil {
		return
	}
	if err := p.workbook.Close(); err != nil {
		p.logger.Warn("failed to close workbook", slog.String("path", p.tempPath), slog.Any("error", err))
	}
	p.workbook = nil
}

// open copies the template to a fresh temp workbook and opens it.
func (p *Paginator) open() error {
	tempName := fmt.Sprintf("%s_%d_temp.xlsx", p.opts.BaseName, p.state.FileCounter)
	tempPath := filepath.Join(p.opts.WorkDir, tempName)

	if err := utils.CopyFile(p.opts.TemplatePath, tempPath); err != nil {
		return fmt.Errorf("failed to copy template: %w", err)
	}

	wb, err := xlsxwriter.Open(tempPath, p.opts.Layout)
	if err != nil {
		return err
	}

	p.workbook = wb
	p.tempPath = tempPath
	p.state.CurrentRow = xlsxwriter.FirstDataRow
	p.state.Rows = 0

	p.logger.Debug("opened output workbook",
		slog.Int("counter", p.state.FileCounter),
		slog.String("path", tempPath),
		slog.String("sheet", wb.Sheet()))

	return nil
}

// finalize saves the open workbook and moves it to its final name.
func (p *Paginator) finalize() error {
	defer p.Close()

	if err := p.workbook.SaveAs(p.tempPath); err != nil {
		return err
	}

	name := OutputFileName(p.opts.BaseName, p.state.FileCounter, p.state.FirstFile, p.state.LastFile)
	finalPath := filepath.Join(p.opts.OutputDir, name)

	if err := utils.MoveFile(p.tempPath, finalPath); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", name, err)
	}

	p.outputs = append(p.outputs, Output{
		Path:      finalPath,
		Counter:   p.state.FileCounter,
		Rows:      p.state.Rows,
		FirstFile: p.state.FirstFile,
		LastFile:  p.state.LastFile,
	})

	p.logger.Info("finalized output workbook",
		slog.String("file", name),
		slog.Int("rows", p.state.Rows))

	return nil
}

// =============================================================================
// NAMING
// =============================================================================

// OutputFileName returns "<base>_<counter>(<first>-<last>).xlsx".
func OutputFileName(base string, counter int, firstFile, lastFile string) string {
	return fmt.Sprintf("%s_%d(%s-%s).xlsx",
		base, counter,
		CodeFromFilename(firstFile, "XX"),
		CodeFromFilename(lastFile, "YY"))
}

// CodeFromFilename returns the first two characters of the file's stem in
// upper case, or fallback when the stem is shorter.
func CodeFromFilename(name, fallback string) string {
	base := filepath.Base(name)
	stem := []rune(strings.TrimSuffix(base, filepath.Ext(base)))
	if len(stem) < 2 {
		return fallback
	}
	return strings.ToUpper(string(stem[:2]))
}
