// =============================================================================
// Product File Generator - Configuration Module
// =============================================================================
//
// This module loads the run configuration. Values are layered, later layers
// winning over earlier ones:
//   1. Built-in profile defaults (see profiles.go)
//   2. The YAML config file (optional)
//   3. Environment variables prefixed with FCP_ (a .env file is honoured)
//   4. Command-line flags (applied by the cmd package)
//
// PROFILES:
//   "sentinel" - rows between a '#' marker in column A and a '-' marker in
//                column K, SIN looked up by file name.
//   "stride"   - every second row from row 3, SIN chosen by majority vote.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. FCP_OUTPUT_DIR.
const EnvPrefix = "FCP"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the configuration for one processing run.
type MainConfig struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// Profile selects the preset for extraction, SIN resolution, description
	// cleaning and output layout. Sections left empty in the YAML file are
	// filled from the profile.
	// Default: "sentinel"
	Profile string `yaml:"profile"`

	// InputDir is scanned for input files when none are given on the
	// command line.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the finalized workbooks and the processing report.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// TemplatePath is the local workbook every output file is copied from.
	TemplatePath string `yaml:"template_path"`

	// SinMappingPath is the two-column raw code -> resolved code table.
	SinMappingPath string `yaml:"sin_mapping_path"`

	// AuditDB is an optional SQLite file that receives one row per run and
	// one row per report line. Empty disables the audit.
	AuditDB string `yaml:"audit_db"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputBaseFilename prefixes every output workbook name.
	// Default: "FCP_Product_File"
	OutputBaseFilename string `yaml:"output_base_filename"`

	// ReportFilename is the name of the text report written next to the
	// workbooks.
	// Default: "Processing_Report.txt"
	ReportFilename string `yaml:"report_filename"`

	// MaxRowsPerFile is the number of data rows after which a new output
	// workbook is started.
	// Default: 10000
	MaxRowsPerFile int `yaml:"max_rows_per_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PIPELINE SETTINGS
	// =========================================================================

	CSVSettings CSVSettings       `yaml:"csv_settings"`
	Extraction  ExtractionConfig  `yaml:"extraction"`
	SIN         SINConfig         `yaml:"sin"`
	Description DescriptionConfig `yaml:"description"`
	Layout      LayoutConfig      `yaml:"layout"`

	// SkipRecordWhen is an optional boolean expression evaluated against each
	// extracted record. Matching records are dropped before writing.
	//
	// The expression sees:
	//   record - map of canonical field name to value
	//   file   - the input file name
	//
	// Example: record["Part Number"] == "" && record["Manufacturer"] == ""
	SkipRecordWhen string `yaml:"skip_record_when"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for reading delimited input files.
type CSVSettings struct {
	// Delimiter is the field separator.
	// Common values: "," (comma), "|" (pipe), "\t" or "tab" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the file.
	// Supported: "UTF-8", "windows-1252", "ISO-8859-1"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// TrimLeadingSpace drops leading white space in a field.
	// Default: false
	TrimLeadingSpace bool `yaml:"trim_leading_space"`
}

// =============================================================================
// EXTRACTION STRUCTURE
// =============================================================================

// Extraction strategies.
const (
	StrategySentinel = "sentinel"
	StrategyStride   = "stride"
)

// ExtractionConfig selects and parameterizes the row extractor.
type ExtractionConfig struct {
	// Strategy is "sentinel" or "stride".
	Strategy string `yaml:"strategy"`

	// StartMarker is the column-A value that opens the data block.
	StartMarker string `yaml:"start_marker"`

	// EndMarker is the EndMarkerColumn value that closes the data block.
	EndMarker string `yaml:"end_marker"`

	// EndMarkerColumn is the 0-based column searched for EndMarker. Unset
	// means the profile's column; 0 selects column A.
	// Default: 10 (column K)
	EndMarkerColumn *int `yaml:"end_marker_column"`

	// ColumnNames names the block's columns left to right. Columns past the
	// end of this list are named Extra_0, Extra_1, ...
	ColumnNames []string `yaml:"column_names"`

	// StartRow is the 1-based row where stride extraction begins.
	StartRow int `yaml:"start_row"`

	// RowStep is the stride between records.
	RowStep int `yaml:"row_step"`

	// ColumnMap maps canonical field names to 0-based column indexes for
	// stride extraction.
	ColumnMap map[string]int `yaml:"column_map"`
}

// EndColumn returns the end marker column, or 10 (column K) when unset.
func (e ExtractionConfig) EndColumn() int {
	if e.EndMarkerColumn == nil {
		return 10
	}
	return *e.EndMarkerColumn
}

// =============================================================================
// SIN STRUCTURE
// =============================================================================

// SIN resolution strategies.
const (
	SINDirect   = "direct"
	SINMajority = "majority"
)

// SINConfig selects the SIN resolution strategy.
type SINConfig struct {
	// Strategy is "direct" (look the file name up in the mapping) or
	// "majority" (vote over the records' SIN column).
	Strategy string `yaml:"strategy"`

	// Allowed replaces the built-in allow-list when non-empty.
	Allowed []string `yaml:"allowed"`
}

// =============================================================================
// DESCRIPTION STRUCTURE
// =============================================================================

// Description cleaning policies.
const (
	DescriptionPhrase = "phrase"
	DescriptionLegacy = "legacy"
)

// DescriptionConfig controls description cleaning.
type DescriptionConfig struct {
	// Policy is "phrase" (keep whole semicolon phrases) or "legacy"
	// (trim and hard-truncate).
	Policy string `yaml:"policy"`

	// MaxLength is the maximum length in characters.
	// Default: 40
	MaxLength int `yaml:"max_length"`
}

// =============================================================================
// LAYOUT STRUCTURE
// =============================================================================

// LayoutConfig describes which value goes into which output column.
// Columns are 1-based (A=1).
type LayoutConfig struct {
	// Literals are constant cells written on every row.
	Literals []LiteralColumn `yaml:"literals"`

	// Fields copy a record field into a column.
	Fields []FieldColumn `yaml:"fields"`

	// PriceColumn is the column the derived price formulas reference.
	PriceColumn int `yaml:"price_column"`

	// Formulas are cells computed from the row's own price cell.
	Formulas []FormulaColumn `yaml:"formulas"`

	// FontName and FontSize style every written cell.
	FontName string  `yaml:"font_name"`
	FontSize float64 `yaml:"font_size"`
}

// LiteralColumn writes a fixed value.
type LiteralColumn struct {
	Column int    `yaml:"column"`
	Value  string `yaml:"value"`
}

// FieldColumn writes a record field.
type FieldColumn struct {
	Column int    `yaml:"column"`
	Field  string `yaml:"field"`

	// Numeric writes the value as a number when it parses as one.
	Numeric bool `yaml:"numeric,omitempty"`
}

// FormulaColumn writes "=<price cell>*Multiplier".
type FormulaColumn struct {
	Column     int     `yaml:"column"`
	Multiplier float64 `yaml:"multiplier"`
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides lists the settings that may be overridden from the
// environment. Only non-zero values are applied.
type envOverrides struct {
	Profile        string `envconfig:"PROFILE"`
	InputDir       string `envconfig:"INPUT_DIR"`
	OutputDir      string `envconfig:"OUTPUT_DIR"`
	TemplatePath   string `envconfig:"TEMPLATE_PATH"`
	SinMappingPath string `envconfig:"SIN_MAPPING_PATH"`
	AuditDB        string `envconfig:"AUDIT_DB"`
	MaxRowsPerFile int    `envconfig:"MAX_ROWS_PER_FILE"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load builds the configuration for a run.
//
// PARAMETERS:
//   - configPath: Path to a YAML file. Empty means built-in defaults only.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read or parsed, or the environment holds
//     malformed values.
func Load(configPath string) (*MainConfig, error) {
	// A missing .env file is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &MainConfig{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	mergeEnv(cfg, env)

	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeEnv copies every non-zero environment value onto the config.
func mergeEnv(cfg *MainConfig, env envOverrides) {
	if env.Profile != "" {
		cfg.Profile = env.Profile
	}
	if env.InputDir != "" {
		cfg.InputDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.OutputDir = env.OutputDir
	}
	if env.TemplatePath != "" {
		cfg.TemplatePath = env.TemplatePath
	}
	if env.SinMappingPath != "" {
		cfg.SinMappingPath = env.SinMappingPath
	}
	if env.AuditDB != "" {
		cfg.AuditDB = env.AuditDB
	}
	if env.MaxRowsPerFile != 0 {
		cfg.MaxRowsPerFile = env.MaxRowsPerFile
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}
}

// ApplyDefaults fills every unset option from the selected profile and the
// global defaults. It is safe to call more than once, which the cmd package
// does after applying flags.
func ApplyDefaults(cfg *MainConfig) error {
	if cfg.Profile == "" {
		cfg.Profile = StrategySentinel
	}
	cfg.Profile = strings.ToLower(strings.TrimSpace(cfg.Profile))

	preset, ok := Preset(cfg.Profile)
	if !ok {
		return fmt.Errorf("unknown profile %q", cfg.Profile)
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.OutputBaseFilename == "" {
		cfg.OutputBaseFilename = "FCP_Product_File"
	}
	if cfg.ReportFilename == "" {
		cfg.ReportFilename = "Processing_Report.txt"
	}
	if cfg.MaxRowsPerFile == 0 {
		cfg.MaxRowsPerFile = 10000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// CSV settings defaults.
	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = ","
	}
	if cfg.CSVSettings.Encoding == "" {
		cfg.CSVSettings.Encoding = "UTF-8"
	}

	applyExtractionDefaults(&cfg.Extraction, preset.Extraction)

	if cfg.SIN.Strategy == "" {
		cfg.SIN.Strategy = preset.SIN.Strategy
	}
	if len(cfg.SIN.Allowed) == 0 {
		cfg.SIN.Allowed = append([]string(nil), preset.SIN.Allowed...)
	}

	if cfg.Description.Policy == "" {
		cfg.Description.Policy = preset.Description.Policy
	}
	if cfg.Description.MaxLength == 0 {
		cfg.Description.MaxLength = preset.Description.MaxLength
	}

	applyLayoutDefaults(&cfg.Layout, preset.Layout)

	return nil
}

// applyExtractionDefaults fills unset extraction options from the preset.
func applyExtractionDefaults(ext *ExtractionConfig, preset ExtractionConfig) {
	if ext.Strategy == "" {
		ext.Strategy = preset.Strategy
	}
	if ext.StartMarker == "" {
		ext.StartMarker = preset.StartMarker
	}
	if ext.EndMarker == "" {
		ext.EndMarker = preset.EndMarker
	}
	if ext.EndMarkerColumn == nil && preset.EndMarkerColumn != nil {
		col := *preset.EndMarkerColumn
		ext.EndMarkerColumn = &col
	}
	if len(ext.ColumnNames) == 0 {
		ext.ColumnNames = append([]string(nil), preset.ColumnNames...)
	}
	if ext.StartRow == 0 {
		ext.StartRow = preset.StartRow
	}
	if ext.RowStep == 0 {
		ext.RowStep = preset.RowStep
	}
	if len(ext.ColumnMap) == 0 {
		ext.ColumnMap = make(map[string]int, len(preset.ColumnMap))
		for field, idx := range preset.ColumnMap {
			ext.ColumnMap[field] = idx
		}
	}
}

// applyLayoutDefaults replaces an empty layout with the preset layout. A
// layout with any columns configured is taken as complete.
func applyLayoutDefaults(layout *LayoutConfig, preset LayoutConfig) {
	if len(layout.Literals) == 0 && len(layout.Fields) == 0 && len(layout.Formulas) == 0 {
		layout.Literals = append([]LiteralColumn(nil), preset.Literals...)
		layout.Fields = append([]FieldColumn(nil), preset.Fields...)
		layout.Formulas = append([]FormulaColumn(nil), preset.Formulas...)
		if layout.PriceColumn == 0 {
			layout.PriceColumn = preset.PriceColumn
		}
	}
	if layout.FontName == "" {
		layout.FontName = preset.FontName
	}
	if layout.FontSize == 0 {
		layout.FontSize = preset.FontSize
	}
}
