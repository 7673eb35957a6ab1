package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/ldmcsv/internal/processor"
)

var loadCmd = &cobra.Command{
	Use:   "load-data",
	Short: "Load a CSV data file described by a column config into the backend",
	Long: `load-data validates --config and --data-file, then extracts the rows into
the backend configured in ldmcsv.yaml (backend.type: none, postgres, sqlite
or minio). With the default "none" backend the rows are only checked
against the config.

--header is required: with true the first row of the data file is skipped
before extraction, with false the run validates its parameters and stops.

Examples:
  ldmcsv load-data --config orders.yaml --data-file orders.csv --header=true
  ldmcsv load-data --config orders.yaml --data-file orders-noheader.csv --header=false`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

type loadFlagValues struct {
	configFile string
	dataFile   string
	header     string
	projectID  string
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVarP(&loadFlags.configFile, "config", "c", "",
		"Column config describing the data file (required)")
	loadCmd.Flags().StringVar(&loadFlags.dataFile, "data-file", "",
		"CSV data file to load (required)")
	loadCmd.Flags().StringVar(&loadFlags.header, "header", "",
		"Whether the data file starts with a header row: true|false (required)")
	loadCmd.Flags().StringVar(&loadFlags.projectID, "project", "",
		"Project ID recorded with the run (default: project_id or $LDMCSV_PROJECT_ID)")

	_ = loadCmd.MarkFlagRequired("config")
	_ = loadCmd.MarkFlagRequired("data-file")
	_ = loadCmd.MarkFlagRequired("header")
}

func loadCommands(f loadFlagValues) []processor.Command {
	var commands []processor.Command
	if f.projectID != "" {
		commands = append(commands, processor.NewCommand(processor.CmdSetProject, map[string]string{
			processor.ParamID: f.projectID,
		}))
	}
	return append(commands,
		processor.NewCommand(processor.CmdLoadData, map[string]string{
			processor.ParamConfigFile:  f.configFile,
			processor.ParamCsvDataFile: f.dataFile,
			processor.ParamHeader:      f.header,
		}),
		processor.NewCommand(processor.CmdExtractData, nil),
	)
}

func runLoad(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := s.run(ctx, loadCommands(loadFlags)); err != nil {
		return err
	}
	s.logger.Info("Loaded %s", loadFlags.dataFile)
	return nil
}
