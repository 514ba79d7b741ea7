// =============================================================================
// Product File Generator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs the generator over a
// batch of vendor reports.
//
// COMMAND USAGE:
//   fcpgen process [files...] [flags]
//
// FLAGS:
//   --template     : The local FCP template workbook
//   --sin-mapping  : The SIN mapping table (CSV or XLSX)
//   --input-dir    : Directory scanned when no files are given
//   --output-dir   : Directory for workbooks and the report
//   --profile      : "sentinel" or "stride"
//   --max-rows     : Data rows per output workbook
//   --audit-db     : Optional SQLite audit database
//
// PROCESSING PIPELINE:
//   1. Load configuration (file, environment, flags)
//   2. Validate the configuration
//   3. Resolve the input files (arguments, or discovery in --input-dir)
//   4. Run the converter pipeline, one file at a time
//   5. Print a summary
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/converter"
	"github.com/ginjaninja78/fcp-product-file-generator/internal/validation"
	"github.com/ginjaninja78/fcp-product-file-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// processFlags holds the overrides given on the command line. Empty or zero
// values leave the configuration untouched.
type processFlags struct {
	template   string
	sinMapping string
	inputDir   string
	outputDir  string
	profile    string
	maxRows    int
	auditDB    string
}

var procFlags processFlags

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Generate FCP product files from vendor reports",
	Long: `The process command extracts product rows from each input file and writes
them into copies of the template workbook.

Input files are processed strictly in the order given. With no arguments, the
input directory is scanned for .xlsx, .xls and .csv files, sorted by name.

For each file one line is added to the processing report:
  [OK]    rows were written, with the resolved SIN
  [WARN]  the file had no data or no valid SIN and was skipped
  [ERROR] the file could not be read or lacked its markers

The run stops early only if the template or the SIN mapping cannot be loaded.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	addConfigFlags(processCmd, &procFlags)

	processCmd.Flags().StringVar(&procFlags.inputDir, "input-dir", "", "Directory scanned for input files when none are given")
	processCmd.Flags().IntVar(&procFlags.maxRows, "max-rows", 0, "Data rows per output workbook (default 10000)")
	processCmd.Flags().StringVar(&procFlags.auditDB, "audit-db", "", "SQLite file that records each run and its report lines")
}

// addConfigFlags registers the flags shared by process and validate.
func addConfigFlags(cmd *cobra.Command, f *processFlags) {
	cmd.Flags().StringVar(&f.template, "template", "", "Path to the local FCP template workbook")
	cmd.Flags().StringVar(&f.sinMapping, "sin-mapping", "", "Path to the SIN mapping table (.csv or .xlsx)")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Directory for output workbooks and the report (default ./output)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "Extraction profile: sentinel or stride")
}

// apply copies every set flag onto cfg.
func (f processFlags) apply(cfg *config.MainConfig) {
	if f.template != "" {
		cfg.TemplatePath = f.template
	}
	if f.sinMapping != "" {
		cfg.SinMappingPath = f.sinMapping
	}
	if f.inputDir != "" {
		cfg.InputDir = f.inputDir
	}
	if f.outputDir != "" {
		cfg.OutputDir = f.outputDir
	}
	if f.profile != "" {
		cfg.Profile = f.profile
	}
	if f.maxRows != 0 {
		cfg.MaxRowsPerFile = f.maxRows
	}
	if f.auditDB != "" {
		cfg.AuditDB = f.auditDB
	}
}

// buildConfig loads the configuration and layers the flags on top.
func buildConfig(f processFlags) (*config.MainConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// Load already filled the profile sections, so --profile clears them for
	// ApplyDefaults to refill from the new preset.
	f.apply(cfg)
	if f.profile != "" {
		cfg.Extraction = config.ExtractionConfig{}
		cfg.SIN = config.SINConfig{}
		cfg.Description = config.DescriptionConfig{}
		cfg.Layout = config.LayoutConfig{}
	}
	if err := config.ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD AND VALIDATE CONFIGURATION
	// =========================================================================

	cfg, err := buildConfig(procFlags)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	result := validation.ValidateConfig(cfg)
	for _, finding := range result.Errors {
		if finding.Severity == validation.SeverityWarning {
			logger.Warn("configuration warning",
				slog.String("setting", finding.Field),
				slog.String("message", finding.Message))
		}
	}
	if err := result.Err(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: RESOLVE INPUT FILES
	// =========================================================================

	inputs := args
	if len(inputs) == 0 {
		if cfg.InputDir == "" {
			return fmt.Errorf("no input files given and no input directory configured")
		}
		fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir)
		inputs, err = fm.DiscoverInputFiles(utils.DefaultInputExtensions)
		if err != nil {
			return err
		}
	}

	if len(inputs) == 0 {
		fmt.Println("No input files found.")
		return nil
	}

	fmt.Println("=== FCP Product File Generator ===")
	fmt.Printf("Profile:         %s\n", cfg.Profile)
	fmt.Printf("Files:           %d\n", len(inputs))

	// =========================================================================
	// STEP 3: RUN THE PIPELINE
	// =========================================================================

	summary, runErr := converter.Run(ctx, cfg, inputs, logger)
	if summary == nil {
		return runErr
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	var ok, warned, failed int
	for _, r := range summary.Results {
		switch r.Outcome {
		case converter.OutcomeSuccess:
			ok++
			fmt.Printf("  ✓ %s\n", r.Message)
		case converter.OutcomeWarning:
			warned++
			fmt.Printf("  ! %s\n", r.Message)
		default:
			failed++
			fmt.Printf("  ✗ %s\n", r.Message)
		}
	}

	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total files:     %d\n", len(summary.Results))
	fmt.Printf("Successful:      %d\n", ok)
	fmt.Printf("Skipped:         %d\n", warned)
	fmt.Printf("Errors:          %d\n", failed)
	fmt.Printf("Rows written:    %d\n", summary.RowsWritten())
	for _, out := range summary.Outputs {
		fmt.Printf("Output:          %s (%d rows)\n", filepath.Base(out.Path), out.Rows)
	}
	fmt.Printf("Report:          %s\n", summary.ReportPath)
	fmt.Printf("Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))

	if runErr != nil {
		return errors.Join(fmt.Errorf("run %s finished with errors", summary.RunID), runErr)
	}
	return nil
}
