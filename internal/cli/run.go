package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/ldmcsv/internal/processor"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a command script",
	Long: `run executes the statements of a script file in order and stops at the
first failure. All statements share one load context, so a LoadCsv is
picked up by a later ExtractData.

Script syntax:
  // comments are allowed
  SetProject(id="sales");
  GenerateCsvConfig(configFile="orders.yaml", csvHeaderFile="orders.csv");
  LoadCsv(configFile="orders.yaml", csvDataFile="orders.csv", header=true);
  ExtractData();`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w: %w", ldmcsv.ErrFileAccess, err)
	}
	defer f.Close()

	commands, err := processor.ParseScript(path, f)
	if err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := s.run(ctx, commands); err != nil {
		return err
	}
	s.logger.Info("Ran %d statement(s) from %s", len(commands), path)
	return nil
}
