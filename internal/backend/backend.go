package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vvka-141/ldmcsv/internal/config"
	"github.com/vvka-141/ldmcsv/internal/csvfile"
	"github.com/vvka-141/ldmcsv/internal/db"
	"github.com/vvka-141/ldmcsv/internal/naming"
	"github.com/vvka-141/ldmcsv/internal/schema"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// RunIDColumn is added to staging tables to tell loads apart.
const RunIDColumn = "ldmcsv_run_id"

// Target is what a sink is created for: one schema, one load run.
type Target struct {
	Schema *schema.Schema
	RunID  uuid.UUID
}

// Factory creates the sink for a target.
type Factory func(t Target) (ldmcsv.Sink, error)

// layout maps file fields to staged columns. IGNORE columns are read but
// not staged.
type layout struct {
	width   int
	indexes []int
	columns []string
}

func newLayout(s *schema.Schema) layout {
	l := layout{width: len(s.Columns)}
	for i, c := range s.Columns {
		if c.LdmType == schema.Ignore {
			continue
		}
		l.indexes = append(l.indexes, i)
		l.columns = append(l.columns, c.Name)
	}
	return l
}

func (l layout) check(line int, record []string) error {
	if len(record) != l.width {
		return fmt.Errorf("row %d has %d fields, schema has %d columns: %w", line, len(record), l.width, ldmcsv.ErrModel)
	}
	return nil
}

func (l layout) project(record []string) []string {
	out := make([]string, len(l.indexes))
	for i, idx := range l.indexes {
		out[i] = record[idx]
	}
	return out
}

// checkRows validates every row of the file at path and returns the count.
func checkRows(path string, delimiter rune, l layout) (int, error) {
	rows := 0
	err := csvfile.ForEachRecord(path, delimiter, 0, func(line int, record []string) error {
		if err := l.check(line, record); err != nil {
			return err
		}
		rows++
		return nil
	})
	return rows, err
}

// TableName is the staging table for a schema unless overridden.
func TableName(s *schema.Schema, override string) string {
	if override != "" {
		return override
	}
	return naming.IdentifierRule(s.Name)
}

// NewFactory returns the Factory for the configured backend type.
func NewFactory(cfg config.BackendConfig, delimiter rune, logger ldmcsv.Logger) (Factory, error) {
	switch cfg.Type {
	case "", config.BackendNone:
		return func(t Target) (ldmcsv.Sink, error) {
			return NewCheckSink(t, delimiter, logger), nil
		}, nil

	case config.BackendPostgres:
		connConfig, err := cfg.Postgres.ConnectionConfig()
		if err != nil {
			return nil, err
		}
		connector, err := db.NewConnector(connConfig, logger)
		if err != nil {
			return nil, err
		}
		return func(t Target) (ldmcsv.Sink, error) {
			return NewPostgresSink(connector, t, PostgresOptions{
				Table:     TableName(t.Schema, cfg.Table),
				Delimiter: delimiter,
			}, logger), nil
		}, nil

	case config.BackendSQLite:
		return func(t Target) (ldmcsv.Sink, error) {
			return NewSQLiteSink(cfg.SQLite.Path, t, SQLiteOptions{
				Table:     TableName(t.Schema, cfg.Table),
				Delimiter: delimiter,
			}, logger), nil
		}, nil

	case config.BackendMinIO:
		client, err := NewMinIOClient(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return func(t Target) (ldmcsv.Sink, error) {
			return NewObjectStoreSink(client, t, ObjectStoreOptions{
				Bucket:       cfg.MinIO.Bucket,
				Prefix:       cfg.MinIO.Prefix,
				Region:       cfg.MinIO.Region,
				CreateBucket: cfg.MinIO.CreateBucket,
				Delimiter:    delimiter,
			}, logger), nil
		}, nil

	default:
		return nil, fmt.Errorf("backend type %q: %w", cfg.Type, ldmcsv.ErrInvalidConfig)
	}
}

// CheckSink validates the rows against the schema and stores nothing.
type CheckSink struct {
	target    Target
	delimiter rune
	logger    ldmcsv.Logger
}

func NewCheckSink(t Target, delimiter rune, logger ldmcsv.Logger) *CheckSink {
	return &CheckSink{target: t, delimiter: delimiter, logger: logger}
}

func (s *CheckSink) Extract(_ context.Context, path string) error {
	rows, err := checkRows(path, s.delimiter, newLayout(s.target.Schema))
	if err != nil {
		return err
	}
	s.logger.Info("Checked %d rows against schema %q (no backend configured)", rows, s.target.Schema.Name)
	return nil
}
