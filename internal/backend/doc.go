// Package backend provides the sinks that receive header-stripped data files:
// a PostgreSQL staging table loaded with COPY, a SQLite staging table, an
// S3-compatible object store, and a validating no-op sink.
//
// Every sink checks that each row has exactly one field per schema column
// and reports a mismatch as ldmcsv.ErrModel.
package backend
