package errors

import (
	stderrors "errors"
	"fmt"
)

// Code represents a stable error code for every failure mode of a classpath scan
type Code string

const (
	// MalformedClassFile indicates bad magic, truncated stream or unknown constant pool tag
	MalformedClassFile Code = "MALFORMED_CLASS_FILE"
	// UnsupportedClassVersion indicates a class file newer than the parser recognizes; non-fatal
	UnsupportedClassVersion Code = "UNSUPPORTED_CLASS_VERSION"
	// UnreadableArchive indicates the JAR container could not be opened
	UnreadableArchive Code = "UNREADABLE_ARCHIVE"
	// AmbiguousResolution indicates several JARs provide a referenced class; reported as a finding
	AmbiguousResolution Code = "AMBIGUOUS_RESOLUTION"
	// UnresolvedSymbol indicates a referenced class is provided by nothing; reported as a finding
	UnresolvedSymbol Code = "UNRESOLVED_SYMBOL"
	// EmptyClasspath indicates nothing could be loaded; fails the run
	EmptyClasspath Code = "EMPTY_CLASSPATH"
	// SinkFailure indicates the report could not be written; fails the run
	SinkFailure Code = "SINK_FAILURE"
	// InvalidConfig indicates a configuration value is out of range
	InvalidConfig Code = "INVALID_CONFIG"
)

// Error carries a Code next to a message and an optional cause
type Error struct {
	Code    Code   `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	cause   error
}

// New creates an error with the given code
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with the given code wrapping cause
func Wrap(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the code of the first *Error in err's chain, or "" when there is none
func CodeOf(err error) Code {
	var target *Error
	if stderrors.As(err, &target) {
		return target.Code
	}
	return ""
}

// Is reports whether err carries the given code
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// IsFatal reports whether err must fail the whole run
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case EmptyClasspath, SinkFailure, InvalidConfig:
		return true
	}
	return false
}

// IsDegraded reports whether err describes a partial, still usable result
func IsDegraded(err error) bool {
	return Is(err, UnsupportedClassVersion)
}
