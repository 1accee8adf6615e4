package lang

import (
	"log/slog"

	"github.com/ardnew/tmpl/token"
)

type valueKind int

const (
	valueIdent valueKind = iota
	valueLiteral
	valueStream
	valueList
	valueMap
	valueItem
)

// value is the parsed right-hand side of an assignment.
type value struct {
	kind valueKind
	tok  token.Token // ident or literal token, or the enclosing group
	span token.Span
}

// parseValue parses an assignment value from c.
//
// A directive in value position is expanded immediately and its output is
// spliced to the front of c, then parsing is retried. An unmodified item
// reference $(path) is kept as a reference to the item itself.
func (s *state) parseValue(c *cursor) (value, error) {
	for {
		t, err := c.expect()
		if err != nil {
			return value{}, err
		}

		switch {
		case t.Kind == token.KindIdent:
			return value{kind: valueIdent, tok: t, span: t.Span}, nil

		case t.Kind == token.KindLiteral:
			return value{kind: valueLiteral, tok: t, span: t.Span}, nil

		case t.IsGroup(token.Parenthesis):
			return value{kind: valueList, tok: t, span: t.Span}, nil

		case t.IsGroup(token.Brace):
			if len(t.Stream) == 1 && t.Stream[0].IsGroup(token.Brace) {
				return value{kind: valueStream, tok: t.Stream[0], span: t.Span}, nil
			}

			return value{kind: valueMap, tok: t, span: t.Span}, nil

		case t.IsPunct('@'):
			path, err := expectGroup(c, token.Parenthesis)
			if err != nil {
				return value{}, err
			}

			return value{kind: valueItem, tok: path, span: t.Span.Join(path.Span)}, nil

		case t.IsPunct(s.sigil):
			a, err := s.parseAction(c, t)
			if err != nil {
				return value{}, err
			}

			switch a.kind {
			case actionEscape:
				return value{}, unexpectedToken(a.sigil.Span)

			case actionAssign:
				return value{}, syntaxError(a.span, "unexpected assignment")
			}

			if a.quote.kind == quoteItem && a.quote.item == itemNone {
				return value{kind: valueItem, tok: a.quote.path, span: a.span}, nil
			}

			var out token.Stream
			if err := s.expand(a.quote, &out); err != nil {
				return value{}, err
			}

			s.logger.TraceContext(s.ctx, "value spliced",
				slog.String("position", a.span.String()),
				slog.Int("tokens", len(out)),
			)

			c.splice(out)

		default:
			return value{}, unexpectedToken(t.Span)
		}
	}
}

// evalValue converts a parsed value into an item.
func (s *state) evalValue(v value) (*Item, error) {
	switch v.kind {
	case valueIdent, valueLiteral:
		return tokenItem(v.tok), nil

	case valueStream:
		out, err := s.scopedBlock(v.tok, nil)
		if err != nil {
			return nil, err
		}

		return NewStream(out), nil

	case valueItem:
		return s.resolve(v.tok)

	case valueList:
		return s.evalList(v.tok)

	default:
		return s.evalMap(v.tok)
	}
}

// evalList expands the contents of group, then evaluates each
// comma-separated element in order. A trailing comma is permitted.
func (s *state) evalList(group token.Token) (*Item, error) {
	out, err := s.scopedBlock(group, nil)
	if err != nil {
		return nil, err
	}

	c := newCursor(out, group.Span)

	var elems []*Item

	for !c.empty() {
		v, err := s.parseValue(c)
		if err != nil {
			return nil, err
		}

		item, err := s.evalValue(v)
		if err != nil {
			return nil, err
		}

		elems = append(elems, item)

		if err := expectSeparator(c); err != nil {
			return nil, err
		}
	}

	return NewList(elems...), nil
}

// evalMap expands the contents of group, then evaluates each
// comma-separated "key: value" entry. Later duplicate keys overwrite
// earlier ones.
func (s *state) evalMap(group token.Token) (*Item, error) {
	out, err := s.scopedBlock(group, nil)
	if err != nil {
		return nil, err
	}

	c := newCursor(out, group.Span)
	table := map[string]*Item{}

	for !c.empty() {
		key, _ := c.next()
		if key.Kind != token.KindIdent {
			return nil, unexpectedToken(key.Span)
		}

		colon, err := c.expect()
		if err != nil {
			return nil, err
		}

		if !colon.IsPunct(':') {
			return nil, unexpectedToken(colon.Span)
		}

		v, err := s.parseValue(c)
		if err != nil {
			return nil, err
		}

		item, err := s.evalValue(v)
		if err != nil {
			return nil, err
		}

		table[key.Text] = item

		if err := expectSeparator(c); err != nil {
			return nil, err
		}
	}

	return &Item{kind: ItemMap, table: table}, nil
}

// expectSeparator consumes a comma between entries, or nothing at the end.
func expectSeparator(c *cursor) error {
	t, ok := c.next()
	if ok && !t.IsPunct(',') {
		return unexpectedToken(t.Span)
	}

	return nil
}
