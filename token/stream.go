package token

import (
	"strconv"
	"strings"
)

// Stream is an ordered sequence of tokens.
type Stream []Token

// Span returns the span covering every token of s.
func (s Stream) Span() Span {
	var span Span

	for _, t := range s {
		span = span.Join(t.Span)
	}

	return span
}

// String renders s as source text. Tokens are separated by a single space
// except after joint punctuation.
func (s Stream) String() string {
	var sb strings.Builder

	s.write(&sb)

	return sb.String()
}

// String renders t as source text.
func (t Token) String() string {
	var sb strings.Builder

	t.write(&sb)

	return sb.String()
}

func (s Stream) write(sb *strings.Builder) {
	for i, t := range s {
		t.write(sb)

		if i < len(s)-1 && !(t.Kind == KindPunct && t.Joint) {
			sb.WriteByte(' ')
		}
	}
}

func (t Token) write(sb *strings.Builder) {
	if t.Kind != KindGroup {
		sb.WriteString(t.Text)

		return
	}

	sb.WriteRune(t.Delim.Open())

	if len(t.Stream) > 0 {
		sb.WriteByte(' ')
		t.Stream.write(sb)
		sb.WriteByte(' ')
	}

	sb.WriteRune(t.Delim.Close())
}

// Quote returns a string literal token containing the rendered text of s.
func Quote(s Stream) Token {
	return NewLiteral(strconv.Quote(s.String()), s.Span())
}

// Equal reports whether a and b are the same token trees, ignoring spans
// and punctuation spacing.
func Equal(a, b Stream) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Text != b[i].Text ||
			a[i].Delim != b[i].Delim {
			return false
		}

		if a[i].Kind == KindGroup && !Equal(a[i].Stream, b[i].Stream) {
			return false
		}
	}

	return true
}
