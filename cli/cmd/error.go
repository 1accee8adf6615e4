package cmd

import (
	"log/slog"
	"strings"
)

// Error represents a CLI command error with structured logging support.
//
// An Error may carry a diagnostic: a human-readable rendering of the failure
// (e.g. a source snippet with a caret) meant to be printed verbatim instead
// of logged.
type Error struct {
	msg   string
	err   error
	diag  string
	attrs []slog.Attr
}

// NewError returns an Error with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Is reports whether target is an *Error with the same message, so copies
// made by [Error.Wrap] and [Error.With] match their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Diagnostic returns the rendered diagnostic, or the empty string.
func (e *Error) Diagnostic() string { return e.diag }

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...)

	return &c
}

// WithDiagnostic attaches a rendered diagnostic to the error.
func (e *Error) WithDiagnostic(diag string) *Error {
	c := *e
	c.diag = diag

	return &c
}

var (
	ErrReadSource    = NewError("read source")
	ErrLoadVars      = NewError("load variables")
	ErrInvalidName   = NewError("invalid variable name")
	ErrInvalidSigil  = NewError("sigil must be a single unreserved punctuation character")
	ErrEvaluate      = NewError("evaluate")
	ErrInvalidFormat = NewError("invalid format")
	ErrJSONMarshal   = NewError("marshal JSON")
	ErrYAMLMarshal   = NewError("marshal YAML")
	ErrWriteConfig   = NewError("write configuration file")
	ErrFileExists    = NewError("file exists (use --force to overwrite)")
)
