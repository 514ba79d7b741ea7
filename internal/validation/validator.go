// =============================================================================
// Product File Generator - Validation Engine
// =============================================================================
//
// This module checks a run configuration before any file is processed. A bad
// configuration is a fatal condition: it would otherwise surface as the same
// failure on every input file, or worse, as silently misplaced columns.
//
// Validation happens at two levels:
//   1. Config-level: settings, strategies, layout columns and the skip
//      expression are checked without touching the file system.
//   2. File-level: the template and the SIN mapping are opened and read.
//
// ERROR HANDLING:
//   - Errors are collected, not returned one by one
//   - Warnings flag suspicious but workable settings
//   - Each entry names the offending setting by its YAML path
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/converter"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/csvparser"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/sin"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/types"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/xlsxparser"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is "error" (the run must not start) or "warning".
	Severity string

	// Field is the YAML path of the setting, e.g. "layout.fields[2].column".
	Field string

	// Value is the offending value.
	Value string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (value: '%s')", strings.ToUpper(e.Severity), e.Field, e.Message, e.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all findings, warnings included.
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int
}

func newResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

func (r *ValidationResult) errorf(field, value, format string, args ...interface{}) {
	r.Errors = append(r.Errors, &ValidationError{
		Severity: SeverityError,
		Field:    field,
		Value:    value,
		Message:  fmt.Sprintf(format, args...),
	})
	r.ErrorCount++
	r.IsValid = false
}

func (r *ValidationResult) warnf(field, value, format string, args ...interface{}) {
	r.Errors = append(r.Errors, &ValidationError{
		Severity: SeverityWarning,
		Field:    field,
		Value:    value,
		Message:  fmt.Sprintf(format, args...),
	})
	r.WarningCount++
}

// Merge appends the findings of other.
func (r *ValidationResult) Merge(other *ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.ErrorCount += other.ErrorCount
	r.WarningCount += other.WarningCount
	r.IsValid = r.IsValid && other.IsValid
}

// Err returns nil for a valid result, or an error listing every finding.
func (r *ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", FormatErrors(r.Errors))
}

// =============================================================================
// CONFIG-LEVEL VALIDATION
// =============================================================================

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// ValidateConfig checks a configuration that already has its defaults
// applied. It does not touch the file system.
func ValidateConfig(cfg *config.MainConfig) *ValidationResult {
	r := newResult()

	if cfg.TemplatePath == "" {
		r.errorf("template_path", "", "a template workbook is required")
	}
	if cfg.SinMappingPath == "" {
		r.errorf("sin_mapping_path", "", "a SIN mapping file is required")
	}
	if cfg.MaxRowsPerFile < 1 {
		r.errorf("max_rows_per_file", fmt.Sprint(cfg.MaxRowsPerFile), "must be at least 1")
	}
	if !logLevels[strings.ToLower(cfg.LogLevel)] {
		r.errorf("log_level", cfg.LogLevel, "must be one of debug, info, warn, error")
	}
	if strings.ContainsAny(cfg.OutputBaseFilename, `/\`) {
		r.errorf("output_base_filename", cfg.OutputBaseFilename, "must not contain path separators")
	}

	if err := csvparser.CheckEncoding(cfg.CSVSettings.Encoding); err != nil {
		r.errorf("csv_settings.encoding", cfg.CSVSettings.Encoding, "%v", err)
	}

	validateExtraction(r, cfg.Extraction)
	validateSIN(r, cfg.SIN)
	validateDescription(r, cfg.Description)
	validateLayout(r, cfg.Layout, producedFields(cfg.Extraction))

	if _, err := converter.NewRecordFilter(cfg.SkipRecordWhen); err != nil {
		r.errorf("skip_record_when", cfg.SkipRecordWhen, "%v", err)
	}

	return r
}

func validateExtraction(r *ValidationResult, ex config.ExtractionConfig) {
	switch ex.Strategy {
	case config.StrategySentinel:
		if ex.StartMarker == "" {
			r.errorf("extraction.start_marker", "", "must not be empty")
		}
		if ex.EndMarker == "" {
			r.errorf("extraction.end_marker", "", "must not be empty")
		}
		if ex.EndColumn() < 0 {
			r.errorf("extraction.end_marker_column", fmt.Sprint(ex.EndColumn()), "must not be negative")
		}
		if len(ex.ColumnNames) == 0 {
			r.warnf("extraction.column_names", "", "no column names; every column will be named Extra_<n>")
		}
	case config.StrategyStride:
		if ex.StartRow < 1 {
			r.errorf("extraction.start_row", fmt.Sprint(ex.StartRow), "must be at least 1")
		}
		if ex.RowStep < 1 {
			r.errorf("extraction.row_step", fmt.Sprint(ex.RowStep), "must be at least 1")
		}
		if len(ex.ColumnMap) == 0 {
			r.errorf("extraction.column_map", "", "must map at least one field")
		}
		for field, idx := range ex.ColumnMap {
			if idx < 0 {
				r.errorf("extraction.column_map."+field, fmt.Sprint(idx), "column index must not be negative")
			}
		}
	default:
		r.errorf("extraction.strategy", ex.Strategy, "must be %q or %q", config.StrategySentinel, config.StrategyStride)
	}
}

func validateSIN(r *ValidationResult, cfg config.SINConfig) {
	switch cfg.Strategy {
	case config.SINDirect:
	case config.SINMajority:
		if len(cfg.Allowed) == 0 {
			r.errorf("sin.allowed", "", "majority resolution needs an allow-list")
		}
	default:
		r.errorf("sin.strategy", cfg.Strategy, "must be %q or %q", config.SINDirect, config.SINMajority)
	}
}

func validateDescription(r *ValidationResult, cfg config.DescriptionConfig) {
	switch cfg.Policy {
	case config.DescriptionPhrase, config.DescriptionLegacy:
	default:
		r.errorf("description.policy", cfg.Policy, "must be %q or %q", config.DescriptionPhrase, config.DescriptionLegacy)
	}
	if cfg.MaxLength < 1 {
		r.errorf("description.max_length", fmt.Sprint(cfg.MaxLength), "must be at least 1")
	}
}

// producedFields lists the fields an extraction strategy can fill.
func producedFields(ex config.ExtractionConfig) map[string]bool {
	fields := map[string]bool{
		types.FieldCleanDescription: true,
		types.FieldSINNumber:        true,
	}
	if ex.Strategy == config.StrategyStride {
		for field := range ex.ColumnMap {
			fields[field] = true
		}
		return fields
	}
	for _, name := range ex.ColumnNames {
		fields[name] = true
	}
	return fields
}

func validateLayout(r *ValidationResult, layout config.LayoutConfig, produced map[string]bool) {
	used := make(map[int]string)
	claim := func(field string, col int) {
		if col < 1 || col > excelize.MaxColumns {
			r.errorf(field, fmt.Sprint(col), "column must be between 1 and %d", excelize.MaxColumns)
			return
		}
		if prev, ok := used[col]; ok {
			r.errorf(field, fmt.Sprint(col), "column already written by %s", prev)
			return
		}
		used[col] = field
	}

	for i, lit := range layout.Literals {
		claim(fmt.Sprintf("layout.literals[%d].column", i), lit.Column)
	}

	priceMapped := false
	for i, f := range layout.Fields {
		path := fmt.Sprintf("layout.fields[%d]", i)
		claim(path+".column", f.Column)
		if f.Field == "" {
			r.errorf(path+".field", "", "must name a field")
		} else if !produced[f.Field] {
			r.warnf(path+".field", f.Field, "no extraction column produces this field; the column will be empty")
		}
		if f.Column == layout.PriceColumn {
			priceMapped = true
		}
	}

	for i, f := range layout.Formulas {
		claim(fmt.Sprintf("layout.formulas[%d].column", i), f.Column)
		if f.Multiplier == 0 {
			r.warnf(fmt.Sprintf("layout.formulas[%d].multiplier", i), "0", "formula always yields zero")
		}
	}

	if len(layout.Formulas) > 0 {
		if layout.PriceColumn < 1 || layout.PriceColumn > excelize.MaxColumns {
			r.errorf("layout.price_column", fmt.Sprint(layout.PriceColumn), "formulas need a valid price column")
		} else if !priceMapped {
			r.warnf("layout.price_column", fmt.Sprint(layout.PriceColumn), "no field is written to the price column")
		}
	}

	if layout.FontSize <= 0 {
		r.errorf("layout.font_size", fmt.Sprint(layout.FontSize), "must be positive")
	}
}

// =============================================================================
// FILE-LEVEL VALIDATION
// =============================================================================

// ValidateFiles opens the template and the SIN mapping named by cfg.
func ValidateFiles(cfg *config.MainConfig) *ValidationResult {
	r := newResult()

	if cfg.TemplatePath != "" {
		info, err := xlsxparser.InspectTemplate(cfg.TemplatePath)
		if err != nil {
			r.errorf("template_path", cfg.TemplatePath, "%v", err)
		} else if info.UsedRows > 2 {
			r.warnf("template_path", cfg.TemplatePath, "sheet %q already has %d rows; data rows from row 3 will overwrite them", info.Sheet, info.UsedRows)
		}
	}

	if cfg.SinMappingPath != "" {
		mapping, err := sin.LoadMapping(cfg.SinMappingPath, cfg.CSVSettings)
		if err != nil {
			r.errorf("sin_mapping_path", cfg.SinMappingPath, "%v", err)
		} else if len(mapping) == 0 {
			r.warnf("sin_mapping_path", cfg.SinMappingPath, "mapping has no entries")
		}
	}

	return r
}

// Validate runs the config-level checks and, if they pass, the file-level
// checks.
func Validate(cfg *config.MainConfig) *ValidationResult {
	r := ValidateConfig(cfg)
	if r.IsValid {
		r.Merge(ValidateFiles(cfg))
	}
	return r
}

// =============================================================================
// OUTPUT FORMATTING
// =============================================================================

// FormatErrors formats findings for display.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
