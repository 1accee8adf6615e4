package lang

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/tmpl/token"
)

// expand executes q and appends the emitted tokens to out.
func (s *state) expand(q quote, out *token.Stream) error {
	switch q.kind {
	case quoteBlock:
		return s.expandBlock(q, out)

	case quoteIter:
		return s.expandIter(q, out)

	default:
		return s.expandItem(q, out)
	}
}

func (s *state) expandBlock(q quote, out *token.Stream) error {
	switch q.block {
	case blockFirst, blockLast, blockNotFirst, blockNotLast:
		iter := s.env.iterContext()
		if iter == nil || !emits(q.block, iter) {
			return nil
		}

	case blockConcat:
		body, err := s.scopedBlock(q.body, nil)
		if err != nil {
			return err
		}

		name := strings.ReplaceAll(body.String(), " ", "")
		if !token.IsIdentifier(name) {
			return syntaxError(q.span, "this doesn't evaluate to a valid identifier").
				With(slog.String("text", name))
		}

		*out = append(*out, token.NewIdent(name, q.span))

		return nil
	}

	body, err := s.scopedBlock(q.body, nil)
	if err != nil {
		return err
	}

	*out = append(*out, body...)

	return nil
}

// emits reports whether a conditional block is emitted within iter.
func emits(mod blockModifier, iter *IterContext) bool {
	switch mod {
	case blockFirst:
		return iter.First

	case blockLast:
		return iter.Last

	case blockNotFirst:
		return !iter.First

	case blockNotLast:
		return !iter.Last

	default:
		return true
	}
}

// expandIter evaluates the body once per element of the collection. Map
// entries are visited in sorted key order; any item other than a list or
// map is a sequence of one.
func (s *state) expandIter(q quote, out *token.Stream) error {
	item, err := s.resolve(q.path)
	if err != nil {
		return err
	}

	var (
		keys  []string
		elems []*Item
	)

	switch item.kind {
	case ItemMap:
		keys = item.Keys()
		elems = make([]*Item, len(keys))

		for i, k := range keys {
			elems[i] = item.table[k]
		}

	case ItemList:
		elems = item.list

	default:
		elems = []*Item{item}
	}

	s.logger.TraceContext(s.ctx, "iterate",
		slog.String("kind", item.kind.String()),
		slog.Int("count", len(elems)),
	)

	for i, elem := range elems {
		iter := &IterContext{
			First: i == 0,
			Last:  i == len(elems)-1,
			Index: i,
			Key:   strconv.Itoa(i),
			Value: elem,
		}

		if keys != nil {
			iter.Key = keys[i]
		}

		body, err := s.scopedBlock(q.body, iter)
		if err != nil {
			return err
		}

		*out = append(*out, body...)
	}

	return nil
}

func (s *state) expandItem(q quote, out *token.Stream) error {
	item, err := s.resolve(q.path)
	if err != nil {
		return err
	}

	if q.item == itemLen {
		*out = append(*out, token.NewLiteral(strconv.Itoa(item.Len()), q.span))

		return nil
	}

	switch item.kind {
	case ItemIdent, ItemLiteral:
		*out = append(*out, item.tok.WithSpan(q.span))

	case ItemStream:
		*out = append(*out, item.stream...)

	case ItemList:
		return typeError(q.span, "can not quote a list item")

	case ItemMap:
		return typeError(q.span, "can not quote a map item")
	}

	return nil
}
