package csvfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// StripHeader copies everything after the first record of src into a new
// temporary file in dir (os.TempDir() when empty) and returns its path.
// Data rows are copied byte for byte. The caller owns the returned file and
// must remove it.
func StripHeader(src, dir string, delimiter rune) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open csv file %s: %w: %w", src, ldmcsv.ErrIO, err)
	}
	defer in.Close()

	br := bufio.NewReader(in)
	bom := skipBOM(br)
	reader := newReader(br, delimiter)
	reader.ReuseRecord = true
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("strip header of %s: %w: %w", src, ldmcsv.ErrIO, ErrNoHeader)
		}
		return "", fmt.Errorf("strip header of %s: %w: %w", src, ldmcsv.ErrIO, err)
	}
	// InputOffset counts from after the byte order mark and ends just past
	// the header's line terminator.
	if _, err := in.Seek(int64(bom)+reader.InputOffset(), io.SeekStart); err != nil {
		return "", fmt.Errorf("seek past header of %s: %w: %w", src, ldmcsv.ErrIO, err)
	}

	out, err := os.CreateTemp(dir, ldmcsv.TempFilePattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w: %w", ldmcsv.ErrIO, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("copy rows of %s: %w: %w", src, ldmcsv.ErrIO, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("close temp file: %w: %w", ldmcsv.ErrIO, err)
	}

	return out.Name(), nil
}
