package processor

import (
	"context"
	"fmt"

	"github.com/vvka-141/ldmcsv/internal/logging"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// BaseHandler is the end of the chain. It runs extraction for loaded data,
// sets the project and rejects everything else.
type BaseHandler struct {
	Logger ldmcsv.Logger
}

func (h *BaseHandler) ProcessCommand(ctx context.Context, cmd Command, pctx *Context) error {
	var err error
	switch {
	case cmd.Is(CmdExtractData):
		err = h.extractData(ctx, pctx)
	case cmd.Is(CmdSetProject):
		err = h.setProject(cmd, pctx)
	default:
		err = fmt.Errorf("%q: %w", cmd.Name, ldmcsv.ErrUnknownCommand)
	}
	return ldmcsv.NewProcessingError(cmd.Name, err)
}

func (h *BaseHandler) extractData(ctx context.Context, pctx *Context) error {
	if pctx.Source == nil {
		return fmt.Errorf("no data loaded, run %s first: %w", CmdLoadData, ldmcsv.ErrParameter)
	}
	h.log().Verbose("extracting %s for project %q, run %s", pctx.DataFile, pctx.ProjectID, pctx.RunID)
	return pctx.Source.Extract(ctx, pctx)
}

func (h *BaseHandler) log() ldmcsv.Logger {
	if h.Logger == nil {
		return logging.NewNullLogger()
	}
	return h.Logger
}

func (h *BaseHandler) setProject(cmd Command, pctx *Context) error {
	if err := cmd.Require(ParamID); err != nil {
		return err
	}
	pctx.ProjectID, _ = cmd.Param(ParamID)
	h.log().Verbose("project set to %q", pctx.ProjectID)
	return nil
}
