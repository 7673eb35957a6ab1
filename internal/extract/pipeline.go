// Package extract hands the data rows of a file to a sink.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vvka-141/ldmcsv/internal/csvfile"
	"github.com/vvka-141/ldmcsv/internal/logging"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// Pipeline strips the header row of a data file into a temporary copy and
// passes the copy to a sink. The copy is removed on every exit path.
type Pipeline struct {
	// Logger may be nil; messages are then dropped.
	Logger ldmcsv.Logger
	// TempDir holds the header-stripped copies. Empty means os.TempDir().
	TempDir   string
	Delimiter rune
}

// Run extracts dataFile into sink. When hasHeader is false nothing happens:
// no temporary file is created and the sink is not called.
func (p *Pipeline) Run(ctx context.Context, dataFile string, hasHeader bool, sink ldmcsv.Sink) error {
	logger := p.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	if !hasHeader {
		logger.Verbose("%s has no header row; nothing to extract", dataFile)
		return nil
	}

	tmp, err := csvfile.StripHeader(dataFile, p.TempDir, p.Delimiter)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Error("remove temporary file %s: %v", tmp, err)
		}
	}()
	logger.Verbose("stripped header of %s into %s", dataFile, tmp)

	if err := sink.Extract(ctx, tmp); err != nil {
		return fmt.Errorf("extract %s: %w", dataFile, err)
	}
	return nil
}
