// =============================================================================
// Product File Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (fcpgen)
//   ├── processCmd  (fcpgen process)
//   ├── validateCmd (fcpgen validate)
//   └── versionCmd  (fcpgen version)
//
// The root command owns the persistent flags (--config, --verbose) and the
// shared helpers that load the configuration and build the logger.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
	"github.com/ginjaninja78/fcp-product-file-generator/pkg/utils"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "config.yaml"

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "fcpgen",
	Short: "FCP Product File Generator - Build FCP upload workbooks from vendor reports",
	Long: `fcpgen reads vendor sales reports (XLSX or CSV), extracts the product rows,
cleans their descriptions, resolves each file's SIN code and writes the rows
into copies of a local FCP template workbook, starting a new workbook every
--max-rows rows.

Every input file gets one line in Processing_Report.txt. A broken file is
reported and skipped; it never stops the run.

Example Usage:
  fcpgen process --template FCP.xlsx --sin-mapping sin.csv reports/*.xlsx
  fcpgen process --input-dir ./reports --profile stride
  fcpgen validate --config ./fcp.yaml`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the YAML configuration file (default is ./config.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig reads the configuration file named by --config, or
// ./config.yaml when the flag is absent and the file exists.
func loadConfig() (*config.MainConfig, error) {
	path := cfgFile
	if path == "" && utils.FileExists(defaultConfigFile) {
		path = defaultConfigFile
	}
	return config.Load(path)
}

// newLogger builds the run logger. Logs go to stderr so stdout carries only
// the summary.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
