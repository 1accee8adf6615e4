package lang

import "github.com/ardnew/tmpl/token"

type actionKind int

const (
	actionEscape actionKind = iota
	actionAssign
	actionQuote
)

// action is a directive recognized after the sigil.
type action struct {
	kind  actionKind
	span  token.Span  // sigil through the last token consumed
	sigil token.Token // escape: the literal sigil to emit
	name  token.Token // assign: the bound identifier
	value value       // assign: the right-hand side
	quote quote       // quote: the expansion request
}

type quoteKind int

const (
	quoteBlock quoteKind = iota
	quoteIter
	quoteItem
)

type blockModifier int

const (
	blockNone blockModifier = iota
	blockConcat
	blockFirst
	blockLast
	blockNotFirst
	blockNotLast
)

type itemModifier int

const (
	itemNone itemModifier = iota
	itemLen
)

// quote is an expansion request: a scoped block, an iteration over a
// collection, or an item substitution.
type quote struct {
	kind  quoteKind
	block blockModifier
	item  itemModifier
	path  token.Token // iter and item: the parenthesis or bracket group
	body  token.Token // block and iter: the brace group
	span  token.Span
}

// blockModifiers are the identifiers accepted before a brace group.
var blockModifiers = map[string]blockModifier{
	"first":        blockFirst,
	"last":         blockLast,
	"concat_ident": blockConcat,
}

// parseAction parses the directive following sigil.
func (s *state) parseAction(c *cursor, sigil token.Token) (action, error) {
	span := sigil.Span

	lead, err := c.expect()
	if err != nil {
		return action{}, err
	}

	span = span.Join(lead.Span)

	switch lead.Kind {
	case token.KindIdent:
		next, err := c.expect()
		if err != nil {
			return action{}, err
		}

		span = span.Join(next.Span)

		switch {
		case next.IsPunct(':'):
			v, err := s.parseValue(c)
			if err != nil {
				return action{}, err
			}

			return action{
				kind:  actionAssign,
				span:  span.Join(v.span),
				name:  lead,
				value: v,
			}, nil

		case next.IsGroup(token.Brace):
			mod, ok := blockModifiers[lead.Text]
			if !ok {
				return action{}, syntaxError(lead.Span, "unknown modifier")
			}

			return blockAction(mod, next, span), nil

		case next.IsGroup(token.Parenthesis):
			if lead.Text != "len" {
				return action{}, syntaxError(lead.Span, "unknown modifier")
			}

			return action{kind: actionQuote, span: span, quote: quote{
				kind: quoteItem,
				item: itemLen,
				path: next,
				span: span,
			}}, nil

		default:
			return action{}, unexpectedToken(next.Span)
		}

	case token.KindPunct:
		switch {
		case lead.IsPunct(s.sigil):
			return action{kind: actionEscape, span: span, sigil: lead}, nil

		case lead.IsPunct('#'):
			body, err := expectGroup(c, token.Brace)
			if err != nil {
				return action{}, err
			}

			return blockAction(blockConcat, body, span.Join(body.Span)), nil

		case lead.IsPunct('!'):
			name, err := c.expect()
			if err != nil {
				return action{}, err
			}

			var mod blockModifier

			switch {
			case name.IsIdent("first"):
				mod = blockNotFirst

			case name.IsIdent("last"):
				mod = blockNotLast

			case name.Kind == token.KindIdent:
				return action{}, syntaxError(name.Span, "unknown modifier")

			default:
				return action{}, unexpectedToken(name.Span)
			}

			body, err := expectGroup(c, token.Brace)
			if err != nil {
				return action{}, err
			}

			return blockAction(mod, body, span.Join(body.Span)), nil

		default:
			return action{}, unexpectedToken(lead.Span)
		}

	case token.KindGroup:
		switch lead.Delim {
		case token.Brace:
			return blockAction(blockNone, lead, span), nil

		case token.Parenthesis:
			return action{kind: actionQuote, span: span, quote: quote{
				kind: quoteItem,
				item: itemNone,
				path: lead,
				span: span,
			}}, nil

		case token.Bracket:
			body, err := expectGroup(c, token.Brace)
			if err != nil {
				return action{}, err
			}

			span = span.Join(body.Span)

			return action{kind: actionQuote, span: span, quote: quote{
				kind: quoteIter,
				path: lead,
				body: body,
				span: span,
			}}, nil
		}
	}

	return action{}, unexpectedToken(lead.Span)
}

func blockAction(mod blockModifier, body token.Token, span token.Span) action {
	return action{kind: actionQuote, span: span, quote: quote{
		kind:  quoteBlock,
		block: mod,
		body:  body,
		span:  span,
	}}
}

// expectGroup consumes the next token, which must be a delim group.
func expectGroup(c *cursor, delim token.Delimiter) (token.Token, error) {
	t, err := c.expect()
	if err != nil {
		return t, err
	}

	if !t.IsGroup(delim) {
		return t, unexpectedToken(t.Span)
	}

	return t, nil
}
