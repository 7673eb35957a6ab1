package processor

import (
	"context"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/vvka-141/ldmcsv/internal/schema"
)

// Extractor is a loaded data source that can push its rows to a backend.
type Extractor interface {
	Extract(ctx context.Context, pctx *Context) error
}

// Context carries the state one command sequence works on. It is passed
// explicitly to every handler and never shared between runs.
type Context struct {
	Schema    *schema.Schema
	DataFile  string
	HasHeader bool

	// Source is set by a successful load and used by ExtractData.
	Source Extractor

	ProjectID string
	RunID     uuid.UUID
}

// NewContext starts a run with a fresh run ID.
func NewContext(projectID string) *Context {
	return &Context{ProjectID: projectID, RunID: uuid.New()}
}

// Handler processes one command against a context.
type Handler interface {
	ProcessCommand(ctx context.Context, cmd Command, pctx *Context) error
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
