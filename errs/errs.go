// Package errs defines the error taxonomy shared by every other package:
// a small, closed set of *kinds* (not one Go type per failure). The
// dispatcher consults Kind.Fatal to decide whether a failure stops the
// run; the command-line entry point exits non-zero for any error that
// does.
package errs

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind classifies a failure. The dispatcher and its collaborators never
// invent a new kind; they pick one of these five.
type Kind int

const (
	// WrongDevice: the intermediate stream's "x T" device name is not pdf.
	WrongDevice Kind = iota
	// FontNotFound: no description file exists for a requested short name.
	FontNotFound
	// ParseError: malformed numeric argument, unknown command letter, or
	// unknown x sub-command. Non-fatal: the offending line is skipped.
	ParseError
	// Io: a read or write against the underlying stream failed.
	Io
	// StateViolation: a command arrived in a state that cannot honor it,
	// e.g. "p" before "x init", or "t" before any "p".
	StateViolation
)

func (k Kind) String() string {
	switch k {
	case WrongDevice:
		return "wrong device"
	case FontNotFound:
		return "font not found"
	case ParseError:
		return "parse error"
	case Io:
		return "io error"
	case StateViolation:
		return "state violation"
	default:
		return "unknown error"
	}
}

// Error pairs a Kind with context. Line is the 1-based input line number
// when known, or zero. Wrapped, if set, is the underlying cause (e.g. an
// *os.PathError for an Io-kind failure) and is reachable via errors.Is /
// errors.As through Unwrap.
type Error struct {
	Kind    Kind
	Line    int
	Msg     string
	Wrapped error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Wrapped != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Kind, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap exposes the wrapped cause, implementing the xerrors.Wrapper /
// stdlib errors.Unwrap contract.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Fatal reports whether a failure of this kind must abort the run.
// Only ParseError is recoverable; the dispatcher warns and skips the
// offending line instead of stopping.
func (k Kind) Fatal() bool {
	return k != ParseError
}

// New constructs an *Error with no line context.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NewAt constructs an *Error citing an input line number.
func NewAt(kind Kind, line int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error around an underlying cause, formatting Msg
// with xerrors.Errorf and keeping only its text (the caller frame
// xerrors records is not part of Msg); the cause itself remains
// reachable through Unwrap rather than being flattened into the message
// twice.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: xerrors.Errorf(format, args...).Error(), Wrapped: cause}
}
