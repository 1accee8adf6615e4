package token

import (
	"log/slog"
	"strings"
)

// Error is a lexical error attributed to a source span.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg  string
	span Span
}

func newError(span Span, msg string) *Error {
	return &Error{msg: msg, span: span}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.span.IsValid() {
		part = append(part, e.span.String())
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	return strings.Join(part, ": ")
}

// Message returns the error message without location.
func (e *Error) Message() string { return e.msg }

// Span returns the source span the error is attributed to.
func (e *Error) Span() Span { return e.span }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.msg),
		slog.String("position", e.span.String()),
	)
}
