// Package csvfile holds the delimited-file plumbing shared by config
// generation and extraction: reading the header row, producing a
// header-stripped copy, and walking records for backends that need to
// inspect rows.
package csvfile
