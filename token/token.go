// Package token defines the lexical token tree consumed and produced by the
// template engine in package lang.
//
// A token is an identifier, a literal, a single punctuation rune, or a group
// of nested tokens enclosed in a pair of delimiters. Every token carries the
// [Span] of source text it was read from, so that errors and expanded output
// can be attributed to the directive that produced them.
//
// The package also provides [Lex], which segments source text into a token
// tree, and [Dump], which writes a debug view of a tree.
package token

// Kind identifies the variant of a [Token].
type Kind int

const (
	// KindIdent is an identifier such as foo or _bar9.
	KindIdent Kind = iota

	// KindLiteral is a numeric, string, or character literal kept verbatim.
	KindLiteral

	// KindPunct is a single punctuation rune.
	KindPunct

	// KindGroup is a delimited sequence of nested tokens.
	KindGroup
)

// String returns a string representation of the token kind.
func (k Kind) String() string {
	switch k {
	case KindIdent:
		return "Ident"

	case KindLiteral:
		return "Literal"

	case KindPunct:
		return "Punct"

	case KindGroup:
		return "Group"

	default:
		return "Unknown"
	}
}

// Delimiter identifies the pair of runes enclosing a group.
type Delimiter int

const (
	// Parenthesis is ( ... ).
	Parenthesis Delimiter = iota + 1

	// Brace is { ... }.
	Brace

	// Bracket is [ ... ].
	Bracket
)

// String returns a string representation of the delimiter.
func (d Delimiter) String() string {
	switch d {
	case Parenthesis:
		return "Parenthesis"

	case Brace:
		return "Brace"

	case Bracket:
		return "Bracket"

	default:
		return "None"
	}
}

// Open returns the opening rune of the delimiter.
func (d Delimiter) Open() rune {
	switch d {
	case Parenthesis:
		return '('
	case Brace:
		return '{'
	case Bracket:
		return '['
	default:
		return 0
	}
}

// Close returns the closing rune of the delimiter.
func (d Delimiter) Close() rune {
	switch d {
	case Parenthesis:
		return ')'
	case Brace:
		return '}'
	case Bracket:
		return ']'
	default:
		return 0
	}
}

// Token is one node of a token tree.
type Token struct {
	Kind Kind
	// Text is the identifier name, the raw literal text, or the punctuation
	// rune. It is empty for groups.
	Text string
	// Joint reports whether a punctuation token is immediately followed by
	// the next token with no intervening whitespace.
	Joint bool
	// Delim and Stream are set for groups only.
	Delim  Delimiter
	Stream Stream
	Span   Span
}

// NewIdent returns an identifier token.
func NewIdent(name string, span Span) Token {
	return Token{Kind: KindIdent, Text: name, Span: span}
}

// NewLiteral returns a literal token with the given raw text.
func NewLiteral(raw string, span Span) Token {
	return Token{Kind: KindLiteral, Text: raw, Span: span}
}

// NewPunct returns a punctuation token.
func NewPunct(ch rune, joint bool, span Span) Token {
	return Token{Kind: KindPunct, Text: string(ch), Joint: joint, Span: span}
}

// NewGroup returns a group token enclosing stream.
func NewGroup(delim Delimiter, stream Stream, span Span) Token {
	return Token{Kind: KindGroup, Delim: delim, Stream: stream, Span: span}
}

// IsPunct reports whether t is the punctuation rune ch.
func (t Token) IsPunct(ch rune) bool {
	return t.Kind == KindPunct && t.Text == string(ch)
}

// IsGroup reports whether t is a group enclosed by delim.
func (t Token) IsGroup(delim Delimiter) bool {
	return t.Kind == KindGroup && t.Delim == delim
}

// IsIdent reports whether t is the identifier name.
func (t Token) IsIdent(name string) bool {
	return t.Kind == KindIdent && t.Text == name
}

// WithSpan returns a copy of t attributed to span.
func (t Token) WithSpan(span Span) Token {
	t.Span = span

	return t
}
