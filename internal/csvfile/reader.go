package csvfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoHeader is returned when a file has no rows at all.
var ErrNoHeader = errors.New("file has no header row")

// skipBOM discards a leading UTF-8 byte order mark from r and returns the
// number of bytes dropped. It must run before r is handed to a csv.Reader,
// which would otherwise not see a quote right after the mark.
func skipBOM(r *bufio.Reader) int {
	head, _ := r.Peek(len(utf8BOM))
	if !bytes.Equal(head, utf8BOM) {
		return 0
	}
	n, _ := r.Discard(len(utf8BOM))
	return n
}

func newReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// ReadHeader returns the raw header strings from row 0 of the file at path.
// A leading UTF-8 byte order mark is ignored.
func ReadHeader(path string, delimiter rune) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w: %w", path, ldmcsv.ErrIO, err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	skipBOM(br)
	headers, err := newReader(br, delimiter).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv header %s: %w: %w", path, ldmcsv.ErrIO, ErrNoHeader)
		}
		return nil, fmt.Errorf("read csv header %s: %w: %w", path, ldmcsv.ErrIO, err)
	}
	return headers, nil
}

// Records iterates the records of a file one at a time.
type Records struct {
	file   *os.File
	reader *csv.Reader
	line   int
}

// OpenRecords opens path for record iteration. Close must be called.
func OpenRecords(path string, delimiter rune) (*Records, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w: %w", path, ldmcsv.ErrIO, err)
	}
	br := bufio.NewReader(file)
	skipBOM(br)
	return &Records{file: file, reader: newReader(br, delimiter)}, nil
}

// Next returns the next record, or io.EOF after the last one.
// The returned slice is not reused between calls.
func (r *Records) Next() ([]string, error) {
	record, err := r.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	r.line++
	if err != nil {
		return nil, fmt.Errorf("read csv row %d: %w: %w", r.line, ldmcsv.ErrIO, err)
	}
	return record, nil
}

// Line is the 1-based number of the record last returned by Next.
func (r *Records) Line() int {
	return r.line
}

func (r *Records) Close() error {
	return r.file.Close()
}

// ForEachRecord calls fn for every record after the first skip records.
// line is the 1-based record number in the file.
// Iteration stops at the first error returned by fn.
func ForEachRecord(path string, delimiter rune, skip int, fn func(line int, record []string) error) error {
	records, err := OpenRecords(path, delimiter)
	if err != nil {
		return err
	}
	defer records.Close()

	for {
		record, err := records.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if records.Line() <= skip {
			continue
		}
		if err := fn(records.Line(), record); err != nil {
			return err
		}
	}
}
