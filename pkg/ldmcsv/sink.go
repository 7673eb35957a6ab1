package ldmcsv

import "context"

// Sink is the backend that ingests header-stripped row data for downstream
// transformation. The file at path is owned by the caller and may be deleted
// as soon as Extract returns.
//
// Implementations report structural mismatches between the file and the
// schema by wrapping ErrModel.
type Sink interface {
	Extract(ctx context.Context, path string) error
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(ctx context.Context, path string) error

// Extract calls f(ctx, path).
func (f SinkFunc) Extract(ctx context.Context, path string) error {
	return f(ctx, path)
}
