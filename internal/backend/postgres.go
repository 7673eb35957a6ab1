package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/ldmcsv/internal/csvfile"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

type PostgresOptions struct {
	Table     string
	Delimiter rune
}

// PostgresSink copies rows into a text-typed staging table, creating the
// table on first use.
type PostgresSink struct {
	connector ldmcsv.Connector
	target    Target
	opts      PostgresOptions
	logger    ldmcsv.Logger
}

func NewPostgresSink(connector ldmcsv.Connector, t Target, opts PostgresOptions, logger ldmcsv.Logger) *PostgresSink {
	return &PostgresSink{connector: connector, target: t, opts: opts, logger: logger}
}

func (s *PostgresSink) Extract(ctx context.Context, path string) error {
	pool, err := s.connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		pool.Close()
		if closer, ok := s.connector.(io.Closer); ok {
			closer.Close()
		}
	}()

	l := newLayout(s.target.Schema)
	if err := s.ensureTable(ctx, pool, l); err != nil {
		return err
	}

	records, err := csvfile.OpenRecords(path, s.opts.Delimiter)
	if err != nil {
		return err
	}
	defer records.Close()

	src := &copySource{records: records, layout: l, runID: pgtype.UUID{Bytes: s.target.RunID, Valid: true}}
	columns := append(append([]string{}, l.columns...), RunIDColumn)

	n, err := pool.CopyFrom(ctx, pgx.Identifier{s.opts.Table}, columns, src)
	if err != nil {
		return classifyPgError(fmt.Errorf("copy into %s: %w", s.opts.Table, err))
	}

	s.logger.Info("Copied %d rows into %s (run %s)", n, s.opts.Table, s.target.RunID)
	return nil
}

func (s *PostgresSink) ensureTable(ctx context.Context, pool *pgxpool.Pool, l layout) error {
	_, err := pool.Exec(ctx, createTableSQL(s.opts.Table, l.columns))
	if err != nil {
		return classifyPgError(fmt.Errorf("create staging table %s: %w", s.opts.Table, err))
	}
	return nil
}

func createTableSQL(table string, columns []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(pgx.Identifier{table}.Sanitize())
	b.WriteString(" (")
	for _, c := range columns {
		b.WriteString(pgx.Identifier{c}.Sanitize())
		b.WriteString(" text, ")
	}
	b.WriteString(pgx.Identifier{RunIDColumn}.Sanitize())
	b.WriteString(" uuid NOT NULL, loaded_at timestamptz NOT NULL DEFAULT now())")
	return b.String()
}

// classifyPgError marks errors caused by the data or the staging table
// layout as ErrModel.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == "42703", // undefined_column
		pgErr.Code == "42701", // duplicate_column
		strings.HasPrefix(pgErr.Code, "22"), // data exception
		strings.HasPrefix(pgErr.Code, "23"): // integrity constraint violation
		return fmt.Errorf("%w: %w", ldmcsv.ErrModel, err)
	}
	return err
}

// copySource feeds CopyFrom from a record iterator.
type copySource struct {
	records *csvfile.Records
	layout  layout
	runID   pgtype.UUID
	values  []any
	err     error
}

func (c *copySource) Next() bool {
	record, err := c.records.Next()
	if errors.Is(err, io.EOF) {
		return false
	}
	if err == nil {
		err = c.layout.check(c.records.Line(), record)
	}
	if err != nil {
		c.err = err
		return false
	}

	projected := c.layout.project(record)
	c.values = make([]any, 0, len(projected)+1)
	for _, v := range projected {
		c.values = append(c.values, v)
	}
	c.values = append(c.values, c.runID)
	return true
}

func (c *copySource) Values() ([]any, error) {
	return c.values, nil
}

func (c *copySource) Err() error {
	return c.err
}
