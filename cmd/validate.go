// =============================================================================
// Product File Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configuration,
// the output layout, the template workbook and the SIN mapping without
// processing any input.
//
// COMMAND USAGE:
//   fcpgen validate [flags]
//
// EXIT STATUS:
//   0 when no errors were found (warnings are printed but allowed)
//   1 otherwise
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/validation"
)

var validateFlags processFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration, template and SIN mapping",
	Long: `The validate command loads the configuration exactly as 'process' would,
checks every setting and layout column, then opens the template workbook and
loads the SIN mapping. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addConfigFlags(validateCmd, &validateFlags)
}

func runValidate() error {
	cfg, err := buildConfig(validateFlags)
	if err != nil {
		return err
	}

	result := validation.Validate(cfg)

	fmt.Printf("Profile:     %s\n", cfg.Profile)
	fmt.Printf("Template:    %s\n", cfg.TemplatePath)
	fmt.Printf("SIN mapping: %s\n\n", cfg.SinMappingPath)
	fmt.Print(validation.FormatErrors(result.Errors))

	if !result.IsValid {
		return fmt.Errorf("validation failed with %d error(s)", result.ErrorCount)
	}
	if len(result.Errors) == 0 {
		fmt.Println()
	}
	fmt.Println("Configuration is valid.")
	return nil
}
