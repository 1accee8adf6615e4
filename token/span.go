package token

import "strconv"

// Position is a location in source text.
// Line and Column are 1-based; the zero Position is invalid.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether p refers to a real source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns "line:column", or "-" for an invalid position.
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// before reports whether p precedes q in the source.
func (p Position) before(q Position) bool { return p.Offset < q.Offset }

// Span is a half-open range [Start, End) of source text.
type Span struct {
	Start Position
	End   Position
}

// IsValid reports whether s refers to real source text.
func (s Span) IsValid() bool { return s.Start.IsValid() }

// Join returns the smallest span covering both s and other.
// An invalid operand is ignored.
func (s Span) Join(other Span) Span {
	switch {
	case !s.IsValid():
		return other
	case !other.IsValid():
		return s
	}

	if other.Start.before(s.Start) {
		s.Start = other.Start
	}

	if s.End.before(other.End) {
		s.End = other.End
	}

	return s
}

// String returns "line:column" of the span start.
func (s Span) String() string { return s.Start.String() }
