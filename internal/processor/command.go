package processor

import (
	"fmt"
	"strings"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// Command names. Each has a script spelling and a CLI spelling.
const (
	CmdGenerateConfig = "GenerateCsvConfig"
	CmdLoadData       = "LoadCsv"
	CmdExtractData    = "ExtractData"
	CmdSetProject     = "SetProject"
)

var aliases = map[string]string{
	"generate-config": CmdGenerateConfig,
	"load-data":       CmdLoadData,
	"extract-data":    CmdExtractData,
	"set-project":     CmdSetProject,
}

// Parameter names.
const (
	ParamConfigFile    = "configFile"
	ParamCsvHeaderFile = "csvHeaderFile"
	ParamCsvDataFile   = "csvDataFile"
	ParamHeader        = "header"
	ParamLdmType       = "ldmType"
	ParamFolder        = "folder"
	ParamID            = "id"
)

// Command is one invocation: a name and its named string parameters.
type Command struct {
	Name   string
	Params map[string]string
}

func NewCommand(name string, params map[string]string) Command {
	if params == nil {
		params = map[string]string{}
	}
	return Command{Name: name, Params: params}
}

// Is reports whether the command is name, ignoring case and accepting the
// CLI alias.
func (c Command) Is(name string) bool {
	if canonical, ok := aliases[strings.ToLower(c.Name)]; ok {
		return canonical == name
	}
	return strings.EqualFold(c.Name, name)
}

// Param returns a trimmed parameter value; empty counts as absent.
func (c Command) Param(key string) (string, bool) {
	v := strings.TrimSpace(c.Params[key])
	return v, v != ""
}

// Require checks that every key is present and non-empty. All missing keys
// are named in one ErrParameter.
func (c Command) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if _, ok := c.Param(k); !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing mandatory parameter(s) %s: %w", strings.Join(missing, ", "), ldmcsv.ErrParameter)
	}
	return nil
}

func (c Command) String() string {
	keys := sortedKeys(c.Params)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, c.Params[k])
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}
