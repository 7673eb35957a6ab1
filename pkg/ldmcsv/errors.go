package ldmcsv

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure categories of config generation and loading.
// Callers distinguish them with errors.Is().
//
// Example usage:
//
//	err := connector.ProcessCommand(ctx, cmd, pctx)
//	if errors.Is(err, ldmcsv.ErrFileAccess) {
//	    // Handle a missing or unreadable input file
//	}
var (
	// ErrParameter indicates a missing or invalid mandatory command parameter.
	ErrParameter = errors.New("invalid parameter")

	// ErrFileAccess indicates a path that does not exist or cannot be read or written.
	ErrFileAccess = errors.New("file access failed")

	// ErrFormat indicates a malformed schema artifact.
	ErrFormat = errors.New("malformed schema config")

	// ErrModel indicates the backend rejected the data because it does not match the schema.
	ErrModel = errors.New("data does not match schema")

	// ErrIO indicates a generic file system failure while reading rows or handling temp files.
	ErrIO = errors.New("i/o failure")

	// ErrUnknownCommand indicates no dispatcher in the chain recognised the command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidConfig indicates the project configuration (ldmcsv.yaml) is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the backend database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ProcessingError is the single error category surfaced to command callers.
// It records which command failed and keeps the original cause reachable
// through errors.Is and errors.As.
type ProcessingError struct {
	Command string
	Err     error
}

func (e *ProcessingError) Error() string {
	if e.Command == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError wraps err for the named command. A nil err stays nil and
// an error that is already a ProcessingError is returned unchanged.
func NewProcessingError(command string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return err
	}
	return &ProcessingError{Command: command, Err: err}
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrParameter), errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrUnsupportedAuthMethod), errors.Is(err, ErrUnknownCommand):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrFileAccess):
		return ExitFileAccessError
	case errors.Is(err, ErrFormat):
		return ExitFormatError
	case errors.Is(err, ErrModel):
		return ExitModelError
	case errors.Is(err, ErrIO):
		return ExitIOError
	}

	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
