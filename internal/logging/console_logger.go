package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	verbosePrefix = "[VERBOSE] "
	errorPrefix   = "[ERROR] "
)

// ConsoleLogger writes one line per message. Writes are serialized so
// lines from concurrent callers never interleave.
type ConsoleLogger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

// NewConsoleLogger logs to stderr. Verbose lines are dropped unless verbose is set.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewWriterLogger(os.Stderr, verbose)
}

func NewWriterLogger(w io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{out: w, verbose: verbose}
}

func (l *ConsoleLogger) Verbose(format string, args ...any) {
	if l.verbose {
		l.println(verbosePrefix, format, args)
	}
}

func (l *ConsoleLogger) Info(format string, args ...any) {
	l.println("", format, args)
}

func (l *ConsoleLogger) Error(format string, args ...any) {
	l.println(errorPrefix, format, args)
}

// println formats only when args are given, so a bare message may contain '%'.
func (l *ConsoleLogger) println(prefix, format string, args []any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, prefix+msg)
}
