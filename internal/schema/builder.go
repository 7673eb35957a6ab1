package schema

import (
	"fmt"

	"github.com/vvka-141/ldmcsv/internal/csvfile"
	"github.com/vvka-141/ldmcsv/internal/naming"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// Builder appends column descriptors for headers a schema does not cover yet.
type Builder struct {
	// DefaultLdmType, when set, is given to every new column together with
	// DefaultFolder. When empty, new columns cycle ATTRIBUTE, FACT, LABEL.
	DefaultLdmType LdmType
	DefaultFolder  string

	// ScaffoldFolder is the folder of cycled columns.
	ScaffoldFolder string

	// LabelReference is the attribute that new LABEL columns point at. The
	// cycled default is a placeholder that has to be edited by hand.
	LabelReference string
}

func (b Builder) scaffoldFolder() string {
	if b.ScaffoldFolder == "" {
		return ldmcsv.DefaultScaffoldFolder
	}
	return b.ScaffoldFolder
}

func (b Builder) labelReference() string {
	if b.LabelReference == "" {
		return ldmcsv.DefaultLabelReference
	}
	return b.LabelReference
}

// Build returns a copy of s with one column appended for every header at an
// index >= len(s.Columns). Columns are matched to headers by position only;
// the existing ones are copied unchanged.
func (b Builder) Build(s *Schema, headers []string) *Schema {
	out := s.Clone()
	known := len(s.Columns)
	if known >= len(headers) {
		return out
	}

	ids := naming.NewBoundedTransformer(naming.IdentifierRule, naming.MaxIdentifierLength)
	titles := naming.NewTransformer(naming.TitleRule)
	for _, c := range s.Columns {
		ids.Reserve(c.Name)
		titles.Reserve(c.Title)
	}

	for i, header := range headers[known:] {
		col := Column{
			Name:  ids.Transform(header),
			Title: titles.Transform(header),
		}
		if b.DefaultLdmType != "" {
			col.LdmType = b.DefaultLdmType
			col.Folder = b.DefaultFolder
		} else {
			col.LdmType = scaffoldType(i)
			col.Folder = b.scaffoldFolder()
		}
		if col.LdmType.NeedsReference() {
			col.Reference = b.labelReference()
		}
		out.Columns = append(out.Columns, col)
	}
	return out
}

// scaffoldType is the coarse round-robin default for the n-th new column.
// It exists to give a starting point for manual editing, not to infer roles.
func scaffoldType(n int) LdmType {
	switch n % 3 {
	case 0:
		return Attribute
	case 1:
		return Fact
	default:
		return Label
	}
}

// GenerateOptions configures Generate.
type GenerateOptions struct {
	// ConfigFile is the existing config to extend, if present.
	ConfigFile string
	// HeaderFile is the data file whose first row supplies the headers.
	HeaderFile string
	Delimiter  rune
	Builder    Builder
}

// Generated is the outcome of Generate.
type Generated struct {
	Schema *Schema
	// Known is the number of columns the config had before generation.
	Known int
}

// Added returns the columns appended by generation.
func (g *Generated) Added() []Column {
	return g.Schema.Columns[g.Known:]
}

// Generate loads the config (or starts an empty one named after the header
// file), reads the header row and appends columns for the new headers.
// Nothing is written.
func Generate(opts GenerateOptions) (*Generated, error) {
	existing, err := LoadOrNew(opts.ConfigFile, NameFromDataFile(opts.HeaderFile))
	if err != nil {
		return nil, err
	}

	headers, err := csvfile.ReadHeader(opts.HeaderFile, opts.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}

	return &Generated{
		Schema: opts.Builder.Build(existing, headers),
		Known:  len(existing.Columns),
	}, nil
}
