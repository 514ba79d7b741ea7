// =============================================================================
// Product File Generator - Converter Module
// =============================================================================
//
// This module contains the per-file conversion logic. It turns one vendor
// file into records that are ready to be written to the output template.
//
// CONVERSION PIPELINE:
//   1. Read the input file into a raw table (CSV or XLSX)
//   2. Extract the product rows
//   3. Clean the descriptions
//   4. Resolve the file's SIN and stamp it on every record
//   5. Drop records matched by the skip filter
//
// Writing is left to the caller so that a rejected file writes nothing.
//
// FAILURE HANDLING:
//   Every failure is confined to its file. Convert never returns an error and
//   never panics; it classifies the outcome and phrases the report line.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/csvparser"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/description"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/extractor"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/sin"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/xlsxparser"
)

// ErrUnreadableFile marks an input that could not be read as a table.
var ErrUnreadableFile = errors.New("unreadable file")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Outcome classifies how a file was handled.
type Outcome int

const (
	// OutcomeSuccess means the records are ready to be written.
	OutcomeSuccess Outcome = iota

	// OutcomeWarning means the file was skipped without being broken.
	OutcomeWarning

	// OutcomeError means the file could not be processed.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeWarning:
		return "warning"
	default:
		return "error"
	}
}

// Result represents the outcome of converting a single file.
type Result struct {
	// FilePath is the input file.
	FilePath string

	// FileName is the base name used in reports and output names.
	FileName string

	Outcome Outcome

	// Err is the cause of a warning or error outcome.
	Err error

	// Message is the report line for the outcome.
	Message string

	// SIN is the resolved code.
	SIN string

	// Records are ready to be written. Empty unless Outcome is OutcomeSuccess.
	Records []types.Record

	Stats ProcessingStats
}

// ProcessingStats contains statistics about the conversion.
type ProcessingStats struct {
	// TableRows is the number of rows read from the file.
	TableRows int

	// Extracted is the number of records found in the data block.
	Extracted int

	// Filtered is the number of records dropped by the skip filter.
	Filtered int

	// ProcessingTime is the time taken to convert the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts input files with one configuration. It holds no
// per-file state.
type Converter struct {
	cfg       *config.MainConfig
	extractor extractor.Extractor
	normalize description.Normalizer
	resolver  sin.Resolver
	filter    *RecordFilter
	logger    *slog.Logger
}

// New creates a Converter.
//
// PARAMETERS:
//   - cfg: The run configuration, with defaults applied.
//   - mapping: The SIN mapping table.
//   - logger: Destination for diagnostics. nil means slog.Default().
//
// RETURNS:
//   - A new Converter.
//   - An error if a configured strategy, policy or expression is invalid.
func New(cfg *config.MainConfig, mapping sin.Mapping, logger *slog.Logger) (*Converter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ex, err := extractor.New(cfg.Extraction)
	if err != nil {
		return nil, err
	}

	normalize, err := description.NewNormalizer(cfg.Description.Policy, cfg.Description.MaxLength)
	if err != nil {
		return nil, err
	}

	resolver, err := sin.NewResolver(cfg.SIN, mapping)
	if err != nil {
		return nil, err
	}

	filter, err := NewRecordFilter(cfg.SkipRecordWhen)
	if err != nil {
		return nil, fmt.Errorf("invalid skip_record_when: %w", err)
	}

	return &Converter{
		cfg:       cfg,
		extractor: ex,
		normalize: normalize,
		resolver:  resolver,
		filter:    filter,
		logger:    logger,
	}, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert runs the conversion pipeline for one file.
func (c *Converter) Convert(path string) (result Result) {
	startTime := time.Now()
	name := filepath.Base(path)
	result = Result{FilePath: path, FileName: name}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic while converting file", slog.String("file", name), slog.Any("panic", r))
			result.Records = nil
			result.fail(OutcomeError, fmt.Errorf("panic: %v", r), "Unexpected error in %s: panic: %v", name, r)
		}
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	// =========================================================================
	// STEP 1: READ THE TABLE
	// =========================================================================

	table, err := c.readTable(path)
	if err != nil {
		result.fail(OutcomeError, fmt.Errorf("%w: %w", ErrUnreadableFile, err), "Failed to read %s: %v", name, err)
		return result
	}
	result.Stats.TableRows = len(table)

	c.logger.Debug("read input table", slog.String("file", name), slog.Int("rows", len(table)))

	// =========================================================================
	// STEP 2: EXTRACT THE PRODUCT ROWS
	// =========================================================================

	records, err := c.extractor.Extract(table)
	if err != nil {
		c.classifyExtractError(&result, err)
		return result
	}
	result.Stats.Extracted = len(records)

	// =========================================================================
	// STEP 3: CLEAN THE DESCRIPTIONS
	// =========================================================================
	// The raw description is kept next to the cleaned one; layouts pick the
	// column they need.

	for _, rec := range records {
		rec.Set(types.FieldCleanDescription, c.normalize(rec.Get(types.FieldDescription)))
	}

	// =========================================================================
	// STEP 4: RESOLVE THE SIN
	// =========================================================================

	code, err := c.resolver.Resolve(name, records)
	if err != nil {
		if errors.Is(err, sin.ErrNoValidSIN) {
			result.fail(OutcomeWarning, err, "No valid SIN found for %s. Skipping.", name)
		} else {
			result.fail(OutcomeError, err, "Unexpected error in %s: %v", name, err)
		}
		return result
	}
	sin.Apply(records, code)
	result.SIN = code

	// =========================================================================
	// STEP 5: APPLY THE SKIP FILTER
	// =========================================================================

	kept, dropped, err := c.filter.Apply(name, records)
	if err != nil {
		result.fail(OutcomeError, err, "Unexpected error in %s: %v", name, err)
		return result
	}
	result.Stats.Filtered = dropped
	if dropped > 0 {
		c.logger.Debug("records skipped by filter", slog.String("file", name), slog.Int("skipped", dropped))
	}

	result.Outcome = OutcomeSuccess
	result.Records = kept
	result.Message = fmt.Sprintf("Successfully processed %s using SIN: %s", name, code)

	return result
}

// fail records a warning or error outcome.
func (r *Result) fail(outcome Outcome, err error, format string, args ...interface{}) {
	r.Outcome = outcome
	r.Err = err
	r.Message = fmt.Sprintf(format, args...)
}

// classifyExtractError maps a structural error to its report line.
func (c *Converter) classifyExtractError(result *Result, err error) {
	ex := c.cfg.Extraction
	name := result.FileName
	endColumn, colErr := excelize.ColumnNumberToName(ex.EndColumn() + 1)
	if colErr != nil {
		endColumn = fmt.Sprintf("#%d", ex.EndColumn())
	}

	switch {
	case errors.Is(err, extractor.ErrMissingStartMarker):
		result.fail(OutcomeError, err, "'%s' not found in column A of %s", ex.StartMarker, name)
	case errors.Is(err, extractor.ErrMissingEndMarkerColumn):
		result.fail(OutcomeError, err, "Column %s does not exist in %s", endColumn, name)
	case errors.Is(err, extractor.ErrMissingEndMarker):
		result.fail(OutcomeError, err, "'%s' not found in column %s of %s", ex.EndMarker, endColumn, name)
	case errors.Is(err, extractor.ErrEmptyDataBlock):
		result.fail(OutcomeWarning, err, "No data between '%s' and '%s' in %s", ex.StartMarker, ex.EndMarker, name)
	default:
		result.fail(OutcomeError, err, "Unexpected error in %s: %v", name, err)
	}
}

// readTable reads an input file by extension. Delimited text goes through
// the CSV parser; everything else is opened as a workbook.
func (c *Converter) readTable(path string) (types.RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return csvparser.Parse(path, c.cfg.CSVSettings)
	default:
		return xlsxparser.Parse(path)
	}
}
