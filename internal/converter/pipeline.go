package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/paginator"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/report"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/sin"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/xlsxparser"
	"github.com/ginjaninja78/fcp-product-file-generator/pkg/utils"
)

// ErrNoInputFiles is returned when a run is started without inputs.
var ErrNoInputFiles = errors.New("no input files")

// Summary describes a finished run.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time

	// Results holds one entry per input, in processing order.
	Results []Result

	// Outputs are the finalized workbooks.
	Outputs []paginator.Output

	// ReportPath is the text report.
	ReportPath string

	Report *report.Report
}

// RowsWritten returns the number of data rows across all outputs.
func (s *Summary) RowsWritten() int {
	total := 0
	for _, out := range s.Outputs {
		total += out.Rows
	}
	return total
}

// Run processes inputs in order into paginated workbooks.
//
// PARAMETERS:
//   - ctx: Used for the audit database only.
//   - cfg: The run configuration, with defaults applied.
//   - inputs: Input file paths, processed in the given order.
//   - logger: Destination for progress logging.
//
// RETURNS:
//   - The run summary. It is nil only when the run could not start.
//   - An error if a prerequisite is missing (template, SIN mapping, a valid
//     configuration) or if finalizing the outputs, the report or the audit
//     fails. Per-file problems are never returned; they are in the report.
//
// A scratch directory is created under the output directory and removed
// before Run returns, whatever the outcome.
func Run(ctx context.Context, cfg *config.MainConfig, inputs []string, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputFiles
	}

	// =========================================================================
	// PREREQUISITES
	// =========================================================================

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir)
	if err := fm.EnsureDirectories(); err != nil {
		return nil, err
	}

	scratch, err := utils.NewScratchDir(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := scratch.Cleanup(); err != nil {
			logger.Warn("scratch cleanup failed", slog.String("path", scratch.Path), slog.Any("error", err))
		}
	}()

	summary := &Summary{RunID: scratch.RunID, Started: time.Now()}
	log := logger.With(slog.String("run", scratch.RunID))

	templateCopy := scratch.Join("template.xlsx")
	if err := utils.CopyFile(cfg.TemplatePath, templateCopy); err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	tmpl, err := xlsxparser.InspectTemplate(templateCopy)
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	log.Debug("template loaded", slog.String("sheet", tmpl.Sheet), slog.Int("used_rows", tmpl.UsedRows))

	mapping, err := sin.LoadMapping(cfg.SinMappingPath, cfg.CSVSettings)
	if err != nil {
		return nil, err
	}
	log.Debug("SIN mapping loaded", slog.Int("entries", len(mapping)))

	conv, err := New(cfg, mapping, log)
	if err != nil {
		return nil, err
	}

	pag := paginator.New(paginator.Options{
		TemplatePath: templateCopy,
		WorkDir:      scratch.Path,
		OutputDir:    cfg.OutputDir,
		BaseName:     cfg.OutputBaseFilename,
		MaxRows:      cfg.MaxRowsPerFile,
		Layout:       cfg.Layout,
		Logger:       log,
	})
	defer pag.Close()

	if err := pag.Start(filepath.Base(inputs[0])); err != nil {
		return nil, fmt.Errorf("failed to open output workbook: %w", err)
	}

	// =========================================================================
	// PER-FILE PROCESSING
	// =========================================================================

	rep := report.New()
	summary.Report = rep

	for _, path := range inputs {
		log.Info("processing file", slog.String("file", filepath.Base(path)))

		result := conv.Convert(path)
		if result.Outcome == OutcomeSuccess {
			writeRecords(pag, &result)
		}

		switch result.Outcome {
		case OutcomeSuccess:
			rep.Add(report.LevelSuccess, result.FileName, result.Message)
			log.Info("file processed",
				slog.String("file", result.FileName),
				slog.String("sin", result.SIN),
				slog.Int("rows", len(result.Records)))
		case OutcomeWarning:
			rep.Add(report.LevelWarning, result.FileName, result.Message)
			log.Warn("file skipped", slog.String("file", result.FileName), slog.Any("reason", result.Err))
		default:
			rep.Add(report.LevelError, result.FileName, result.Message)
			log.Error("file failed", slog.String("file", result.FileName), slog.Any("error", result.Err))
		}

		summary.Results = append(summary.Results, result)
	}

	// =========================================================================
	// FINALIZATION
	// =========================================================================

	outputs, finishErr := pag.Finish()
	summary.Outputs = outputs
	summary.Finished = time.Now()

	summary.ReportPath = filepath.Join(cfg.OutputDir, cfg.ReportFilename)
	if err := rep.WriteFile(summary.ReportPath); err != nil {
		return summary, errors.Join(finishErr, err)
	}

	if cfg.AuditDB != "" {
		run := report.RunInfo{
			RunID:    summary.RunID,
			Profile:  cfg.Profile,
			Started:  summary.Started,
			Finished: summary.Finished,
			Inputs:   len(inputs),
		}
		for _, out := range outputs {
			run.Outputs = append(run.Outputs, out.Path)
		}
		if err := report.SaveSQLite(ctx, cfg.AuditDB, run, rep); err != nil {
			return summary, errors.Join(finishErr, err)
		}
	}

	if finishErr != nil {
		return summary, fmt.Errorf("failed to finalize output: %w", finishErr)
	}

	return summary, nil
}

// writeRecords hands a converted file to the paginator. A write failure turns
// the result into an error; rows already written stay in the workbook.
func writeRecords(pag *paginator.Paginator, result *Result) {
	for i, rec := range result.Records {
		if err := pag.Write(result.FileName, rec); err != nil {
			result.Records = result.Records[:i]
			result.fail(OutcomeError, err, "Failed to write %s: %v", result.FileName, err)
			return
		}
	}
}
