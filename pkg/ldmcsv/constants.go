package ldmcsv

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid parameters or configuration
	ExitConnectionError = 11 // Failed to connect to the backend
	ExitFileAccessError = 12 // Input file missing or unreadable
	ExitFormatError     = 13 // Malformed schema config
	ExitModelError      = 14 // Data does not match the schema
	ExitIOError         = 15 // File system failure
)

const (
	// DefaultScaffoldFolder is the folder assigned to round-robin scaffold columns.
	DefaultScaffoldFolder = "folder"

	// DefaultLabelReference is the placeholder attribute name given to
	// scaffolded LABEL columns. It is meant to be replaced by hand.
	DefaultLabelReference = "existing-attribute-name"

	// DefaultDelimiter is the field separator of data files.
	DefaultDelimiter = ','

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// TempFilePattern names the header-stripped copies handed to backends.
	TempFilePattern = "ldmcsv-*.csv"
)
