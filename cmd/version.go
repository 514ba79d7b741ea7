// =============================================================================
// Product File Generator - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   fcpgen version
//
// OUTPUT:
//   FCP Product File Generator
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//   Profiles:   sentinel, stride
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fcp-product-file-generator/internal/config"
)

// These variables are set at build time using ldflags:
//   go build -ldflags "-X 'github.com/ginjaninja78/fcp-product-file-generator/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, Go runtime version and the built-in profiles.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("FCP Product File Generator")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Build Date: %s\n", BuildDate)
		fmt.Printf("Go Version: %s\n", runtime.Version())
		fmt.Printf("Profiles:   %s\n", strings.Join(config.Profiles(), ", "))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
