package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vvka-141/ldmcsv/internal/csvfile"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

type SQLiteOptions struct {
	Table     string
	Delimiter rune
}

// SQLiteSink inserts rows into a staging table of a local SQLite database.
// All rows of one file are inserted in a single transaction.
type SQLiteSink struct {
	path   string
	target Target
	opts   SQLiteOptions
	logger ldmcsv.Logger
}

func NewSQLiteSink(path string, t Target, opts SQLiteOptions, logger ldmcsv.Logger) *SQLiteSink {
	return &SQLiteSink{path: path, target: t, opts: opts, logger: logger}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *SQLiteSink) Extract(ctx context.Context, path string) error {
	database, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w: %w", s.path, ldmcsv.ErrConnectionFailed, err)
	}
	defer database.Close()

	l := newLayout(s.target.Schema)
	if _, err := database.ExecContext(ctx, s.createTableSQL(l)); err != nil {
		return fmt.Errorf("create staging table %s: %w: %w", s.opts.Table, ldmcsv.ErrConnectionFailed, err)
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.insertSQL(l))
	if err != nil {
		if strings.Contains(err.Error(), "no column named") {
			return fmt.Errorf("prepare insert into %s: %w: %w", s.opts.Table, ldmcsv.ErrModel, err)
		}
		return fmt.Errorf("prepare insert into %s: %w", s.opts.Table, err)
	}
	defer stmt.Close()

	records, err := csvfile.OpenRecords(path, s.opts.Delimiter)
	if err != nil {
		return err
	}
	defer records.Close()

	rows := 0
	runID := s.target.RunID.String()
	for {
		record, err := records.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := l.check(records.Line(), record); err != nil {
			return err
		}

		args := make([]any, 0, len(l.indexes)+1)
		for _, v := range l.project(record) {
			args = append(args, v)
		}
		args = append(args, runID)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", records.Line(), err)
		}
		rows++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("Inserted %d rows into %s:%s (run %s)", rows, s.path, s.opts.Table, s.target.RunID)
	return nil
}

func (s *SQLiteSink) createTableSQL(l layout) string {
	cols := make([]string, 0, len(l.columns)+2)
	for _, c := range l.columns {
		cols = append(cols, quoteIdent(c)+" TEXT")
	}
	cols = append(cols, quoteIdent(RunIDColumn)+" TEXT NOT NULL", "loaded_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP")
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(s.opts.Table), strings.Join(cols, ", "))
}

func (s *SQLiteSink) insertSQL(l layout) string {
	cols := make([]string, 0, len(l.columns)+1)
	for _, c := range l.columns {
		cols = append(cols, quoteIdent(c))
	}
	cols = append(cols, quoteIdent(RunIDColumn))
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(s.opts.Table), strings.Join(cols, ", "), placeholders)
}
