package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/tmpl/token"
)

// Kind classifies an evaluation [Error].
type Kind int

const (
	// KindSyntax is malformed directive grammar.
	KindSyntax Kind = iota + 1

	// KindScope is use of an iteration accessor outside any iteration.
	KindScope

	// KindNotFound is a missing name, map key, or list index.
	KindNotFound

	// KindType is an operation the item variant does not support.
	KindType

	// KindEndOfInput is a production that ran out of tokens.
	KindEndOfInput
)

// String returns a string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"

	case KindScope:
		return "scope error"

	case KindNotFound:
		return "not found"

	case KindType:
		return "type error"

	case KindEndOfInput:
		return "end of input"

	default:
		return "error"
	}
}

// Predefined errors (sentinel values).
//
// Every [Error] matches the sentinel of its [Kind] with [errors.Is].
var (
	ErrSyntax     = &Error{kind: KindSyntax}
	ErrScope      = &Error{kind: KindScope}
	ErrNotFound   = &Error{kind: KindNotFound}
	ErrType       = &Error{kind: KindType}
	ErrEndOfInput = &Error{kind: KindEndOfInput}
)

// Error is an evaluation failure attributed to a source span.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind  Kind
	msg   string
	span  token.Span
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error of the given kind with a message.
func NewError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func syntaxError(span token.Span, msg string) *Error {
	return &Error{kind: KindSyntax, msg: msg, span: span}
}

func scopeError(span token.Span, msg string) *Error {
	return &Error{kind: KindScope, msg: msg, span: span}
}

func notFoundError(span token.Span) *Error {
	return &Error{kind: KindNotFound, msg: "item not found", span: span}
}

func typeError(span token.Span, msg string) *Error {
	return &Error{kind: KindType, msg: msg, span: span}
}

func endOfInputError(span token.Span) *Error {
	return &Error{kind: KindEndOfInput, msg: "unexpected end of input", span: span}
}

func unexpectedToken(span token.Span) *Error {
	return syntaxError(span, "unexpected token")
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message from whichever fields are set:
	//
	//   "<line>:<col>: <msg>: <err>"
	part := make([]string, 0, 3)

	if e.span.IsValid() {
		part = append(part, e.span.String())
	}

	part = append(part, e.Message())

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Is reports whether target is a sentinel of the same kind, or an error of
// the same kind and message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t.kind != e.kind {
		return false
	}

	return t.msg == "" || t.msg == e.msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// Span returns the source span the error is attributed to.
func (e *Error) Span() token.Span { return e.span }

// Message returns the short error message without location.
func (e *Error) Message() string {
	if e.msg == "" {
		return e.kind.String()
	}

	return e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	attrs = append(attrs,
		slog.String("kind", e.kind.String()),
		slog.String("error", e.Message()),
	)

	if e.span.IsValid() {
		attrs = append(attrs, slog.String("position", e.span.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		span:  e.span,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		span:  e.span,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Attr returns the value of the structured attribute named key, if any.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// FormatError renders err with the offending line of source and a caret
// under the error column. Errors without a source location are returned
// as their plain message.
func FormatError(source string, err error) string {
	if err == nil {
		return ""
	}

	var (
		span  token.Span
		title string
		msg   string
	)

	var le *Error
	var te *token.Error

	switch {
	case errors.As(err, &le):
		span, title, msg = le.Span(), le.Kind().String(), le.Message()

		if s, ok := le.Attr("suggestion"); ok {
			msg += " (did you mean " + strconv.Quote(s.String()) + "?)"
		}

	case errors.As(err, &te):
		span, title, msg = te.Span(), "lexical error", te.Message()

	default:
		return err.Error()
	}

	if !span.IsValid() {
		return title + ": " + msg
	}

	var buf strings.Builder

	// Write error location and description
	buf.WriteString(title)
	buf.WriteString(" at line ")
	buf.WriteString(strconv.Itoa(span.Start.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(span.Start.Column))
	buf.WriteString(": ")
	buf.WriteString(msg)
	buf.WriteRune('\n')

	lines := strings.Split(source, "\n")

	// Show the offending line if within bounds
	if span.Start.Line <= len(lines) {
		line := lines[span.Start.Line-1]

		buf.WriteString("  ")
		buf.WriteString(strconv.Itoa(span.Start.Line))
		buf.WriteString(" | ")
		buf.WriteString(line)
		buf.WriteRune('\n')

		// +5 accounts for: 2 leading spaces + " | " (3 chars)
		lineNumWidth := len(strconv.Itoa(span.Start.Line))
		padding := strings.Repeat(" ", lineNumWidth+5+span.Start.Column-1)

		buf.WriteString(padding + "^\n")
	}

	return buf.String()
}
