// =============================================================================
// FCP Product File Generator - Main Entry Point
// =============================================================================
//
// USAGE:
//   fcpgen process [files...] - Generate product files from vendor reports
//   fcpgen validate           - Check configuration, template and SIN mapping
//   fcpgen version            - Display the application version
//
// ARCHITECTURE:
//   - cmd/      : CLI command definitions (Cobra)
//   - internal/ : Extraction, SIN resolution, pagination and reporting
//   - pkg/      : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/fcp-product-file-generator/cmd"
)

func main() {
	cmd.Execute()
}
