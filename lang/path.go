package lang

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ardnew/tmpl/token"
)

// iteration accessors following '@'
const (
	accessValue = iota
	accessIndex
	accessKey
)

// resolve parses the path enclosed by group and returns the item it names.
//
// A path is a dot-separated sequence of identifier keys and integer indexes,
// optionally led by '@' to start from the current iteration context:
//
//	name.key.0     binding, map key, list index
//	@ or @value    the iteration value, optionally followed by .segment
//	@index         the iteration index; must be the whole path
//	@key           the iteration key; must be the whole path
func (s *state) resolve(group token.Token) (*Item, error) {
	c := newCursor(group.Stream, group.Span)

	var (
		path    []segment
		base    *Item
		baseAt  token.Span
		needSeg = true
	)

	for {
		t, ok := c.next()
		if !ok {
			if needSeg {
				return nil, endOfInputError(c.last)
			}

			break
		}

		switch {
		case t.IsPunct('.') && !needSeg:
			needSeg = true

		case t.IsPunct('@') && base == nil && len(path) == 0:
			acc, err := parseAccessor(c, t)
			if err != nil {
				return nil, err
			}

			iter := s.env.iterContext()
			if iter == nil {
				return nil, scopeError(acc.span, acc.name+" is only available in iterator blocks")
			}

			switch acc.kind {
			case accessIndex:
				return NewLiteral(strconv.Itoa(iter.Index), acc.span), nil

			case accessKey:
				return NewIdent(iter.Key, acc.span), nil
			}

			base, baseAt, needSeg = iter.Value, acc.span, acc.dot

		case t.Kind == token.KindIdent && needSeg:
			needSeg = false
			path = append(path, segment{key: t.Text, span: t.Span})

		case t.Kind == token.KindLiteral && needSeg:
			index, err := strconv.ParseUint(t.Text, 10, strconv.IntSize-1)
			if errors.Is(err, strconv.ErrRange) {
				return nil, notFoundError(t.Span).With(slog.String("index", t.Text))
			}

			if err != nil {
				return nil, unexpectedToken(t.Span)
			}

			needSeg = false
			path = append(path, segment{index: int(index), isIndex: true, span: t.Span})

		default:
			return nil, unexpectedToken(t.Span)
		}
	}

	if base != nil {
		return base.lookup(baseAt, path)
	}

	return s.env.lookup(path)
}

// accessor is the iteration accessor following '@'.
type accessor struct {
	kind int
	name string
	span token.Span
	dot  bool // followed by '.', so a segment must come next
}

func parseAccessor(c *cursor, at token.Token) (accessor, error) {
	acc := accessor{kind: accessValue, name: "@", span: at.Span}

	t, ok := c.next()
	if !ok {
		return acc, nil
	}

	switch {
	case t.IsIdent("value"):
		acc.name = "@value"
		acc.span = acc.span.Join(t.Span)

	case t.IsIdent("index"), t.IsIdent("key"):
		acc.name = "@" + t.Text
		acc.span = acc.span.Join(t.Span)

		acc.kind = accessKey
		if t.Text == "index" {
			acc.kind = accessIndex
		}

		if rest, ok := c.next(); ok {
			return acc, unexpectedToken(rest.Span)
		}

	case t.IsPunct('.'):
		acc.dot = true

	default:
		return acc, unexpectedToken(t.Span)
	}

	return acc, nil
}
