package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ldmcsv",
	Short: "Generate LDM column configs from CSV files and load the data",
	Long: `ldmcsv derives a logical data model config (ldmcsv.yaml holds the tool
settings, the column config is a separate YAML file) from the header row of a
CSV file, and loads CSV data that matches such a config into a backend.

New columns get rotating ATTRIBUTE/FACT/LABEL types as a starting point.
Review the generated config (or use --interactive) before loading data.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid parameters or configuration
  11 - Backend connection failed
  12 - Input file missing or unreadable
  13 - Malformed column config
  14 - Data does not match the column config
  15 - File system failure`,
	SilenceUsage: true,
}

type rootFlagValues struct {
	verbose       bool
	projectConfig string
}

var rootFlags rootFlagValues

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false,
		"Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&rootFlags.projectConfig, "project-config", ".",
		"ldmcsv.yaml, or the directory containing it")
}
