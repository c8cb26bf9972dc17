// Package common holds small pieces of machinery shared by every other
// package in the module: logging.
package common

import (
	"fmt"
	"io"
	"os"
)

// Logger is the interface used for diagnostics throughout gropdf.
// It has two tiers: warnings (recoverable parse problems, unknown
// escapes) and debug traces. There is no Info/Notice tier because the
// CLI only exposes -d and -w. The dispatcher emits warnings only; no
// code in the module calls Debug, so -d produces no output.
type Logger interface {
	Warning(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// DummyLogger discards everything. It is the default so that importing
// the translator as a library never writes to a stream the caller does
// not control.
type DummyLogger struct{}

// Warning does nothing.
func (DummyLogger) Warning(format string, args ...interface{}) {}

// Debug does nothing.
func (DummyLogger) Debug(format string, args ...interface{}) {}

// WriterLogger writes warnings and/or debug traces to Output, gated
// independently by the -w and -d flags.
type WriterLogger struct {
	Output io.Writer
	Warn   bool
	Debug_ bool
}

// NewWriterLogger builds a logger writing to w, with the two tiers gated
// independently (the CLI's -w and -d flags are independent switches, not
// a single verbosity level).
func NewWriterLogger(w io.Writer, warn, debug bool) *WriterLogger {
	return &WriterLogger{Output: w, Warn: warn, Debug_: debug}
}

// Warning logs a warning message if warnings are enabled.
func (l *WriterLogger) Warning(format string, args ...interface{}) {
	if l.Warn {
		fmt.Fprintf(l.Output, "[WARNING] "+format+"\n", args...)
	}
}

// Debug logs a debug message if debug diagnostics are enabled.
func (l *WriterLogger) Debug(format string, args ...interface{}) {
	if l.Debug_ {
		fmt.Fprintf(l.Output, "[DEBUG] "+format+"\n", args...)
	}
}

// Log is the package-level logger used by the command dispatcher. It
// defaults to DummyLogger so that the library is silent
// unless the CLI (or a test) installs a real one with SetLogger.
var Log Logger = DummyLogger{}

// SetLogger installs the logger used for the remainder of the process.
func SetLogger(logger Logger) {
	Log = logger
}

// NewConsoleLogger is a convenience constructor matching the CLI's use
// case: diagnostics always go to stderr.
func NewConsoleLogger(warn, debug bool) *WriterLogger {
	return NewWriterLogger(os.Stderr, warn, debug)
}
