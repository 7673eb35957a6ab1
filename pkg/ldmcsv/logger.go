package ldmcsv

// Logger receives progress from config generation and data loading.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Verbose is for diagnostics shown only with --verbose.
	Verbose(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}
