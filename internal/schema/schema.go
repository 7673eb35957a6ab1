package schema

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// LdmType is the logical data model role of a column.
type LdmType string

const (
	Attribute       LdmType = "ATTRIBUTE"
	Fact            LdmType = "FACT"
	Label           LdmType = "LABEL"
	ConnectionPoint LdmType = "CONNECTION_POINT"
	Reference       LdmType = "REFERENCE"
	Date            LdmType = "DATE"
	Ignore          LdmType = "IGNORE"
)

// LdmTypes lists every known type in display order.
var LdmTypes = []LdmType{Attribute, Fact, Label, ConnectionPoint, Reference, Date, Ignore}

// ParseLdmType matches s case-insensitively against the known types.
func ParseLdmType(s string) (LdmType, error) {
	candidate := LdmType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range LdmTypes {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown LDM type %q", s)
}

// NeedsReference reports whether columns of this type must name another column.
func (t LdmType) NeedsReference() bool {
	return t == Label || t == Reference
}

// Column describes one source column.
type Column struct {
	Name      string  `yaml:"name"`
	LdmType   LdmType `yaml:"ldmType"`
	Title     string  `yaml:"title"`
	Folder    string  `yaml:"folder,omitempty"`
	Reference string  `yaml:"reference,omitempty"`
}

// Schema is an ordered set of column descriptors under a name.
type Schema struct {
	Name    string   `yaml:"name"`
	Columns []Column `yaml:"columns"`
}

// New returns an empty schema.
func New(name string) *Schema {
	return &Schema{Name: name, Columns: []Column{}}
}

// NameFromDataFile derives a schema name from a data file path: the base
// name up to its first dot ("orders.2024.csv" -> "orders").
func NameFromDataFile(path string) string {
	base := filepath.Base(path)
	name, _, _ := strings.Cut(base, ".")
	if name == "" {
		return base
	}
	return name
}

// Clone returns a deep copy.
func (s *Schema) Clone() *Schema {
	c := &Schema{Name: s.Name, Columns: make([]Column, len(s.Columns))}
	copy(c.Columns, s.Columns)
	return c
}

// Column returns the column with the given identifier.
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns identifiers in column order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks the invariants of a loaded config. All violations are
// reported together, each wrapping ldmcsv.ErrFormat.
func (s *Schema) Validate() error {
	var errs []error

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, fmt.Errorf("schema name is required: %w", ldmcsv.ErrFormat))
	}

	names := make(map[string]int, len(s.Columns))
	titles := make(map[string]int, len(s.Columns))
	for i, c := range s.Columns {
		pos := i + 1
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("column %d: name is required: %w", pos, ldmcsv.ErrFormat))
		} else if prev, dup := names[c.Name]; dup {
			errs = append(errs, fmt.Errorf("column %d: name %q already used by column %d: %w", pos, c.Name, prev, ldmcsv.ErrFormat))
		} else {
			names[c.Name] = pos
		}

		if c.Title == "" {
			errs = append(errs, fmt.Errorf("column %d: title is required: %w", pos, ldmcsv.ErrFormat))
		} else if prev, dup := titles[c.Title]; dup {
			errs = append(errs, fmt.Errorf("column %d: title %q already used by column %d: %w", pos, c.Title, prev, ldmcsv.ErrFormat))
		} else {
			titles[c.Title] = pos
		}

		if _, err := ParseLdmType(string(c.LdmType)); err != nil {
			errs = append(errs, fmt.Errorf("column %d: %v: %w", pos, err, ldmcsv.ErrFormat))
		} else if c.LdmType.NeedsReference() && c.Reference == "" {
			errs = append(errs, fmt.Errorf("column %d: %s column needs a reference: %w", pos, c.LdmType, ldmcsv.ErrFormat))
		}
	}

	return errors.Join(errs...)
}
