package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
)

func defaults(t *testing.T, profile string) *config.MainConfig {
	t.Helper()
	cfg := &config.MainConfig{
		Profile:        profile,
		TemplatePath:   "template.xlsx",
		SinMappingPath: "sin_mapping.csv",
	}
	require.NoError(t, config.ApplyDefaults(cfg))
	return cfg
}

// fields returns the Field of every finding with the given severity.
func fields(r *ValidationResult, severity string) []string {
	var out []string
	for _, e := range r.Errors {
		if e.Severity == severity {
			out = append(out, e.Field)
		}
	}
	return out
}

func TestValidateConfig_ProfilesAreValid(t *testing.T) {
	for _, profile := range config.Profiles() {
		t.Run(profile, func(t *testing.T) {
			r := ValidateConfig(defaults(t, profile))
			assert.True(t, r.IsValid, FormatErrors(r.Errors))
			assert.Zero(t, r.ErrorCount)
			assert.Zero(t, r.WarningCount)
			assert.NoError(t, r.Err())
		})
	}
}

func TestValidateConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.MainConfig)
		field  string
	}{
		{"no template", func(c *config.MainConfig) { c.TemplatePath = "" }, "template_path"},
		{"no mapping", func(c *config.MainConfig) { c.SinMappingPath = "" }, "sin_mapping_path"},
		{"negative rows", func(c *config.MainConfig) { c.MaxRowsPerFile = -1 }, "max_rows_per_file"},
		{"log level", func(c *config.MainConfig) { c.LogLevel = "loud" }, "log_level"},
		{"base name", func(c *config.MainConfig) { c.OutputBaseFilename = "a/b" }, "output_base_filename"},
		{"encoding", func(c *config.MainConfig) { c.CSVSettings.Encoding = "EBCDIC" }, "csv_settings.encoding"},
		{"strategy", func(c *config.MainConfig) { c.Extraction.Strategy = "guess" }, "extraction.strategy"},
		{"end marker column", func(c *config.MainConfig) { col := -2; c.Extraction.EndMarkerColumn = &col }, "extraction.end_marker_column"},
		{"sin strategy", func(c *config.MainConfig) { c.SIN.Strategy = "coin-flip" }, "sin.strategy"},
		{"policy", func(c *config.MainConfig) { c.Description.Policy = "shout" }, "description.policy"},
		{"max length", func(c *config.MainConfig) { c.Description.MaxLength = -1 }, "description.max_length"},
		{"font size", func(c *config.MainConfig) { c.Layout.FontSize = -3 }, "layout.font_size"},
		{"skip expression", func(c *config.MainConfig) { c.SkipRecordWhen = "record[" }, "skip_record_when"},
		{"column out of range", func(c *config.MainConfig) { c.Layout.Literals[0].Column = 0 }, "layout.literals[0].column"},
		{"price column", func(c *config.MainConfig) { c.Layout.PriceColumn = 0 }, "layout.price_column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults(t, config.StrategySentinel)
			cfg.Layout.Literals = append([]config.LiteralColumn(nil), cfg.Layout.Literals...)
			tt.mutate(cfg)

			r := ValidateConfig(cfg)
			assert.False(t, r.IsValid)
			assert.Contains(t, fields(r, SeverityError), tt.field)
			assert.ErrorContains(t, r.Err(), tt.field)
		})
	}
}

func TestValidateConfig_DuplicateColumn(t *testing.T) {
	cfg := defaults(t, config.StrategySentinel)
	cfg.Layout.Formulas = append([]config.FormulaColumn(nil), cfg.Layout.Formulas...)
	cfg.Layout.Formulas[0].Column = 1

	r := ValidateConfig(cfg)
	require.False(t, r.IsValid)
	require.Equal(t, 1, r.ErrorCount)
	assert.Equal(t, "layout.formulas[0].column", r.Errors[0].Field)
	assert.Contains(t, r.Errors[0].Message, "layout.literals[0].column")
}

func TestValidateConfig_StrideSettings(t *testing.T) {
	cfg := defaults(t, config.StrategyStride)
	cfg.Extraction.StartRow = -1
	cfg.Extraction.RowStep = -1
	cfg.SIN.Allowed = nil
	cfg.Extraction.ColumnMap["Unit Price"] = -4

	r := ValidateConfig(cfg)
	assert.ElementsMatch(t, []string{
		"extraction.start_row",
		"extraction.row_step",
		"extraction.column_map.Unit Price",
		"sin.allowed",
	}, fields(r, SeverityError))
}

func TestValidateConfig_Warnings(t *testing.T) {
	cfg := defaults(t, config.StrategySentinel)
	cfg.Layout.Fields = append(cfg.Layout.Fields[:0:0], cfg.Layout.Fields...)
	cfg.Layout.Fields = append(cfg.Layout.Fields, config.FieldColumn{Column: 40, Field: "Colour"})

	r := ValidateConfig(cfg)
	assert.True(t, r.IsValid)
	assert.Equal(t, 1, r.WarningCount)
	assert.Equal(t, []string{"layout.fields[8].field"}, fields(r, SeverityWarning))
	assert.NoError(t, r.Err())
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()

	template := filepath.Join(dir, "template.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Type"))
	require.NoError(t, f.SaveAs(template))
	require.NoError(t, f.Close())

	mapping := filepath.Join(dir, "sin_mapping.csv")
	require.NoError(t, os.WriteFile(mapping, []byte("acme.csv,332999\n"), 0o644))

	cfg := defaults(t, config.StrategySentinel)
	cfg.TemplatePath = template
	cfg.SinMappingPath = mapping

	r := ValidateFiles(cfg)
	assert.True(t, r.IsValid, FormatErrors(r.Errors))
	assert.Empty(t, r.Errors)

	cfg.TemplatePath = filepath.Join(dir, "missing.xlsx")
	cfg.SinMappingPath = filepath.Join(dir, "missing.csv")
	r = ValidateFiles(cfg)
	assert.False(t, r.IsValid)
	assert.Equal(t, []string{"template_path", "sin_mapping_path"}, fields(r, SeverityError))
}

func TestValidate_SkipsFilesWhenConfigInvalid(t *testing.T) {
	cfg := defaults(t, config.StrategySentinel)
	cfg.TemplatePath = "/does/not/exist.xlsx"
	cfg.LogLevel = "loud"

	r := Validate(cfg)
	assert.Equal(t, []string{"log_level"}, fields(r, SeverityError))
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	out := FormatErrors([]*ValidationError{
		{Severity: SeverityError, Field: "log_level", Value: "loud", Message: "bad"},
		{Severity: SeverityWarning, Field: "sin.allowed", Message: "empty"},
	})
	assert.Contains(t, out, "2 finding(s)")
	assert.Contains(t, out, "1. [ERROR] log_level: bad (value: 'loud')")
	assert.Contains(t, out, "2. [WARNING] sin.allowed: empty")
}
