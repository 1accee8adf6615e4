package token

import (
	"unicode"
	"unicode/utf8"
)

// Lex segments source text into a token tree.
//
// Identifiers, numeric literals, string, raw string and character literals
// become single tokens; whitespace and // or /* */ comments separate tokens
// and are discarded; every other rune is a punctuation token. Matching pairs
// of (), [] and {} are folded into groups.
func Lex(src string) (Stream, error) {
	l := &lexer{
		input: []byte(src),
		line:  1,
		col:   1,
	}

	return l.lex()
}

// frame is an open group awaiting its closing delimiter.
type frame struct {
	delim  Delimiter
	start  Position
	tokens Stream
}

// lexer holds the lexer state.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
	stack []frame
}

func (l *lexer) lex() (Stream, error) {
	l.stack = []frame{{}}

	for {
		err := l.skipWhitespaceAndComments()
		if err != nil {
			return nil, err
		}

		if l.eof() {
			break
		}

		err = l.scanToken()
		if err != nil {
			return nil, err
		}
	}

	if len(l.stack) > 1 {
		top := l.stack[len(l.stack)-1]

		return nil, newError(
			Span{Start: top.start, End: l.position()},
			"unclosed delimiter "+string(top.delim.Open()),
		)
	}

	return l.stack[0].tokens, nil
}

func (l *lexer) scanToken() error {
	start := l.position()
	ch := l.peek()

	switch {
	case isIdentifierStart(ch):
		l.scanIdentifier()
		l.emit(NewIdent(l.text(start), l.span(start)))

	case isDecimal(ch):
		l.scanNumber(l.followsDot(start))
		l.emit(NewLiteral(l.text(start), l.span(start)))

	case ch == '"' || ch == '\'' || ch == '`':
		err := l.scanQuoted(ch)
		if err != nil {
			return err
		}

		l.emit(NewLiteral(l.text(start), l.span(start)))

	case delimiterOpening(ch) != 0:
		l.advance()
		l.stack = append(l.stack, frame{delim: delimiterOpening(ch), start: start})

	case delimiterClosing(ch) != 0:
		l.advance()

		top := l.stack[len(l.stack)-1]
		if top.delim != delimiterClosing(ch) {
			return newError(l.span(start), "unexpected closing delimiter "+string(ch))
		}

		l.stack = l.stack[:len(l.stack)-1]
		l.emit(NewGroup(top.delim, top.tokens, Span{Start: top.start, End: l.position()}))

	default:
		l.advance()
		l.emit(NewPunct(ch, false, l.span(start)))
	}

	return nil
}

// emit appends t to the innermost open group, marking a preceding adjacent
// punctuation token as joint.
func (l *lexer) emit(t Token) {
	top := &l.stack[len(l.stack)-1]

	if n := len(top.tokens); n > 0 {
		prev := &top.tokens[n-1]
		if prev.Kind == KindPunct && prev.Span.End.Offset == t.Span.Start.Offset {
			prev.Joint = true
		}
	}

	top.tokens = append(top.tokens, t)
}

// followsDot reports whether the token starting at start directly follows a
// '.' punctuation token, in which case a number is an index segment and must
// not absorb a fraction.
func (l *lexer) followsDot(start Position) bool {
	top := l.stack[len(l.stack)-1]

	if n := len(top.tokens); n > 0 {
		prev := top.tokens[n-1]

		return prev.IsPunct('.') && prev.Span.End.Offset == start.Offset
	}

	return false
}

func (l *lexer) scanIdentifier() {
	l.advance()

	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}
}

func (l *lexer) scanNumber(intOnly bool) {
	if l.peek() == '0' && isRadixPrefix(l.peekNext()) {
		l.advance()
		l.advance()

		for !l.eof() && (isHex(l.peek()) || l.peek() == '_') {
			l.advance()
		}
	} else {
		l.scanDigits()

		if !intOnly && l.peek() == '.' && isDecimal(l.peekNext()) {
			l.advance()
			l.scanDigits()
		}

		if !intOnly && (l.peek() == 'e' || l.peek() == 'E') {
			next := l.peekNext()
			if isDecimal(next) || next == '+' || next == '-' {
				l.advance()

				if next == '+' || next == '-' {
					l.advance()
				}

				l.scanDigits()
			}
		}
	}

	// Type suffix, e.g. 5u8 or 1.0f32.
	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}
}

func (l *lexer) scanDigits() {
	for !l.eof() && (isDecimal(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

func (l *lexer) scanQuoted(quote rune) error {
	start := l.position()

	l.advance() // skip opening quote

	for !l.eof() {
		ch := l.peek()

		if quote != '`' && ch == '\n' {
			break
		}

		if quote != '`' && ch == '\\' {
			l.advance() // skip backslash

			if !l.eof() {
				l.advance() // skip escaped char
			}

			continue
		}

		l.advance()

		if ch == quote {
			return nil
		}
	}

	return newError(l.span(start), "unterminated literal")
}

func (l *lexer) skipWhitespaceAndComments() error {
	for !l.eof() {
		switch {
		case unicode.IsSpace(l.peek()):
			l.advance()

		case l.peek() == '/' && l.peekNext() == '/':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case l.peek() == '/' && l.peekNext() == '*':
			start := l.position()

			l.advance() // skip '/'
			l.advance() // skip '*'

			for {
				if l.eof() {
					return newError(l.span(start), "unterminated comment")
				}

				if l.peek() == '*' && l.peekNext() == '/' {
					l.advance()
					l.advance()

					break
				}

				l.advance()
			}

		default:
			return nil
		}
	}

	return nil
}

// Helper methods

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])

	return r
}

// peekNext returns the rune following the current one.
func (l *lexer) peekNext() rune {
	if l.eof() {
		return 0
	}

	_, size := utf8.DecodeRune(l.input[l.pos:])
	if l.pos+size >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(l.input[l.pos+size:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRune(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *lexer) span(start Position) Span {
	return Span{Start: start, End: l.position()}
}

func (l *lexer) text(start Position) string {
	return string(l.input[start.Offset:l.pos])
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}

// IsIdentifier reports whether s is exactly one identifier token.
func IsIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) {
			return false
		}

		if i > 0 && !isIdentifierContinue(r) {
			return false
		}
	}

	return s != "" && s != "_"
}

func isDecimal(r rune) bool { return '0' <= r && r <= '9' }

func isHex(r rune) bool {
	return isDecimal(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

func isRadixPrefix(r rune) bool {
	switch r {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	default:
		return false
	}
}

func delimiterOpening(r rune) Delimiter {
	switch r {
	case '(':
		return Parenthesis
	case '{':
		return Brace
	case '[':
		return Bracket
	default:
		return 0
	}
}

func delimiterClosing(r rune) Delimiter {
	switch r {
	case ')':
		return Parenthesis
	case '}':
		return Brace
	case ']':
		return Bracket
	default:
		return 0
	}
}
