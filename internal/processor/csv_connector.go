package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvka-141/ldmcsv/internal/backend"
	"github.com/vvka-141/ldmcsv/internal/extract"
	"github.com/vvka-141/ldmcsv/internal/logging"
	"github.com/vvka-141/ldmcsv/internal/schema"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// ReviewFunc may edit newly generated columns before the config is written.
// Returning an error aborts generation without writing.
type ReviewFunc func(g *schema.Generated) error

// CsvConnector handles GenerateCsvConfig and LoadCsv.
type CsvConnector struct {
	// Logger may be nil.
	Logger ldmcsv.Logger
	// Next receives every command this connector does not handle.
	Next Handler

	Delimiter      rune
	TempDir        string
	ScaffoldFolder string
	LabelReference string

	// Sinks creates the backend sink when loaded data is extracted.
	Sinks  backend.Factory
	Review ReviewFunc
}

func (c *CsvConnector) ProcessCommand(ctx context.Context, cmd Command, pctx *Context) error {
	var err error
	switch {
	case cmd.Is(CmdGenerateConfig):
		_, err = c.GenerateConfig(cmd)
	case cmd.Is(CmdLoadData):
		err = c.LoadData(cmd, pctx)
	case c.Next != nil:
		err = c.Next.ProcessCommand(ctx, cmd, pctx)
	default:
		err = fmt.Errorf("%q: %w", cmd.Name, ldmcsv.ErrUnknownCommand)
	}
	return ldmcsv.NewProcessingError(cmd.Name, err)
}

// GenerateConfig extends (or creates) the config file with columns for the
// headers of csvHeaderFile that it does not cover yet, and writes it.
// Parameters: configFile, csvHeaderFile, optional ldmType and folder.
func (c *CsvConnector) GenerateConfig(cmd Command) (*schema.Generated, error) {
	if err := cmd.Require(ParamConfigFile, ParamCsvHeaderFile); err != nil {
		return nil, err
	}
	configFile, _ := cmd.Param(ParamConfigFile)
	headerFile, _ := cmd.Param(ParamCsvHeaderFile)

	builder := schema.Builder{
		ScaffoldFolder: c.ScaffoldFolder,
		LabelReference: c.LabelReference,
	}
	if raw, ok := cmd.Param(ParamLdmType); ok {
		t, err := schema.ParseLdmType(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", ParamLdmType, ldmcsv.ErrParameter, err)
		}
		builder.DefaultLdmType = t
		builder.DefaultFolder, _ = cmd.Param(ParamFolder)
	}

	headerFile, err := resolveFile(headerFile)
	if err != nil {
		return nil, err
	}

	gen, err := schema.Generate(schema.GenerateOptions{
		ConfigFile: configFile,
		HeaderFile: headerFile,
		Delimiter:  c.Delimiter,
		Builder:    builder,
	})
	if err != nil {
		return nil, err
	}

	added := len(gen.Added())
	if added == 0 && gen.Known > 0 {
		c.log().Info("%s already covers all %d columns of %s", configFile, gen.Known, headerFile)
		return gen, nil
	}

	if c.Review != nil {
		if err := c.Review(gen); err != nil {
			return nil, err
		}
	}

	if err := schema.Write(gen.Schema, configFile); err != nil {
		return nil, err
	}

	c.log().Info("Wrote %s: %d existing, %d new column(s)", configFile, gen.Known, added)
	if builder.DefaultLdmType == "" && added > 0 {
		c.log().Info("New columns got rotating ATTRIBUTE/FACT/LABEL types as a starting point; review %s before loading", configFile)
	}
	return gen, nil
}

// LoadData validates configFile, csvDataFile and header, loads the schema and
// only then records the load in pctx.
func (c *CsvConnector) LoadData(cmd Command, pctx *Context) error {
	if err := cmd.Require(ParamConfigFile, ParamCsvDataFile, ParamHeader); err != nil {
		return err
	}
	rawHeader, _ := cmd.Param(ParamHeader)
	hasHeader, err := parseBool(rawHeader)
	if err != nil {
		return err
	}

	rawConfig, _ := cmd.Param(ParamConfigFile)
	rawData, _ := cmd.Param(ParamCsvDataFile)

	configFile, configErr := resolveFile(rawConfig)
	dataFile, dataErr := resolveFile(rawData)
	if err := errors.Join(configErr, dataErr); err != nil {
		return err
	}

	s, err := schema.Load(configFile)
	if err != nil {
		return err
	}

	pctx.Schema = s
	pctx.DataFile = dataFile
	pctx.HasHeader = hasHeader
	pctx.Source = &csvSource{connector: c}

	c.log().Verbose("loaded schema %q (%d columns) for %s, header=%t", s.Name, len(s.Columns), dataFile, hasHeader)
	return nil
}

func (c *CsvConnector) log() ldmcsv.Logger {
	if c.Logger == nil {
		return logging.NewNullLogger()
	}
	return c.Logger
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%s must be true or false, got %q: %w", ParamHeader, s, ldmcsv.ErrParameter)
}

// resolveFile makes path absolute and checks that it is an existing regular file.
func resolveFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w: %w", path, ldmcsv.ErrFileAccess, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", path, ldmcsv.ErrFileAccess, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file: %w", path, ldmcsv.ErrFileAccess)
	}
	return abs, nil
}

// csvSource extracts the data file recorded in the context.
type csvSource struct {
	connector *CsvConnector
}

func (s *csvSource) Extract(ctx context.Context, pctx *Context) error {
	c := s.connector
	if c.Sinks == nil {
		return fmt.Errorf("no backend configured: %w", ldmcsv.ErrInvalidConfig)
	}
	sink, err := c.Sinks(backend.Target{Schema: pctx.Schema, RunID: pctx.RunID})
	if err != nil {
		return err
	}

	pipeline := &extract.Pipeline{Logger: c.Logger, TempDir: c.TempDir, Delimiter: c.Delimiter}
	return pipeline.Run(ctx, pctx.DataFile, pctx.HasHeader, sink)
}
