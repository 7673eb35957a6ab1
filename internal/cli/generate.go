package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/ldmcsv/internal/processor"
	"github.com/vvka-141/ldmcsv/internal/tui"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

var generateCmd = &cobra.Command{
	Use:     "generate-config",
	Aliases: []string{"gen"},
	Short:   "Create or extend a column config from a CSV header row",
	Long: `generate-config reads the first row of --header-file and appends one column
descriptor to --config for every header beyond the columns already present.
Existing columns are never changed. The config file is created when missing.

Without --ldm-type, new columns cycle ATTRIBUTE, FACT, LABEL and LABEL
columns reference a placeholder attribute that has to be edited by hand.

Examples:
  # Scaffold a config for orders.csv
  ldmcsv generate-config --config orders.yaml --header-file orders.csv

  # Add new columns as facts in the "metrics" folder
  ldmcsv generate-config --config orders.yaml --header-file orders.csv \
    --ldm-type FACT --folder metrics

  # Pick the type of every new column before writing
  ldmcsv generate-config --config orders.yaml --header-file orders.csv --interactive`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

type generateFlagValues struct {
	configFile     string
	headerFile     string
	ldmType        string
	folder         string
	labelReference string
	interactive    bool
}

var generateFlags generateFlagValues

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateFlags.configFile, "config", "c", "",
		"Column config file to create or extend (required)")
	generateCmd.Flags().StringVar(&generateFlags.headerFile, "header-file", "",
		"CSV file whose first row holds the column headers (required)")
	generateCmd.Flags().StringVarP(&generateFlags.ldmType, "ldm-type", "t", "",
		"LDM type for all new columns: ATTRIBUTE|FACT|LABEL|CONNECTION_POINT|REFERENCE|DATE|IGNORE")
	generateCmd.Flags().StringVar(&generateFlags.folder, "folder", "",
		"Folder for new columns, used together with --ldm-type")
	generateCmd.Flags().StringVar(&generateFlags.labelReference, "label-reference", "",
		"Attribute that new LABEL and REFERENCE columns point at")
	generateCmd.Flags().BoolVarP(&generateFlags.interactive, "interactive", "i", false,
		"Review the type of each new column before writing")

	_ = generateCmd.MarkFlagRequired("config")
	_ = generateCmd.MarkFlagRequired("header-file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	if generateFlags.labelReference != "" {
		s.connector.LabelReference = generateFlags.labelReference
	}
	if generateFlags.interactive {
		if tui.IsInteractive() {
			s.connector.Review = tui.RunReview(s.connector.LabelReference)
		} else {
			s.logger.Info("--interactive ignored: not running in a terminal")
		}
	}

	params := map[string]string{
		processor.ParamConfigFile:    generateFlags.configFile,
		processor.ParamCsvHeaderFile: generateFlags.headerFile,
		processor.ParamLdmType:       generateFlags.ldmType,
		processor.ParamFolder:        generateFlags.folder,
	}
	command := processor.NewCommand(processor.CmdGenerateConfig, params)

	gen, err := s.connector.GenerateConfig(command)
	if err != nil {
		return ldmcsv.NewProcessingError(command.Name, err)
	}

	if added := gen.Added(); len(added) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderColumns(added))
	}
	return nil
}
