package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// Load reads and validates a config file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema config %s: %w: %w", path, ldmcsv.ErrFileAccess, err)
	}

	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("schema config %s: %w", path, err)
	}
	return s, nil
}

// Decode parses config content. Unknown keys are rejected so that typos in a
// hand-edited file are caught instead of silently dropped.
func Decode(data []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Schema
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document: %w", ldmcsv.ErrFormat)
		}
		return nil, fmt.Errorf("%w: %v", ldmcsv.ErrFormat, err)
	}

	for i := range s.Columns {
		if t, err := ParseLdmType(string(s.Columns[i].LdmType)); err == nil {
			s.Columns[i].LdmType = t
		}
	}
	if s.Columns == nil {
		s.Columns = []Column{}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadOrNew loads the config at path when the file exists and otherwise
// returns an empty schema called name. A file that exists but cannot be read
// is an error, not a reason to start over.
func LoadOrNew(path, name string) (*Schema, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(name), nil
		}
		return nil, fmt.Errorf("stat schema config %s: %w: %w", path, ldmcsv.ErrFileAccess, err)
	}
	return Load(path)
}

// Encode renders the config. Equal schemas encode to identical bytes.
func Encode(s *Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode schema config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode schema config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the file at path with the encoded schema. The content goes
// to a temporary file in the same directory first and is renamed into place,
// so a failed write leaves the previous config intact.
func Write(s *Schema, path string) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ldmcsv-config-*")
	if err != nil {
		return fmt.Errorf("write schema config %s: %w: %w", path, ldmcsv.ErrFileAccess, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write schema config %s: %w: %w", path, ldmcsv.ErrFileAccess, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write schema config %s: %w: %w", path, ldmcsv.ErrFileAccess, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write schema config %s: %w: %w", path, ldmcsv.ErrFileAccess, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write schema config %s: %w: %w", path, ldmcsv.ErrFileAccess, err)
	}
	return nil
}
