package lang

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/ardnew/tmpl/token"
)

// ItemKind identifies the variant of an [Item].
type ItemKind int

const (
	// ItemIdent is a single identifier token.
	ItemIdent ItemKind = iota

	// ItemLiteral is a single literal token.
	ItemLiteral

	// ItemStream is a captured, already-expanded token fragment.
	ItemStream

	// ItemList is an ordered sequence of items.
	ItemList

	// ItemMap is a mapping from unique string keys to items.
	ItemMap
)

// String returns a string representation of the item kind.
func (k ItemKind) String() string {
	switch k {
	case ItemIdent:
		return "ident"

	case ItemLiteral:
		return "literal"

	case ItemStream:
		return "stream"

	case ItemList:
		return "list"

	case ItemMap:
		return "map"

	default:
		return "unknown"
	}
}

// Item is a value produced by evaluating a directive.
//
// Items are immutable after construction and are shared by pointer: the same
// Item may be bound under a name, held by a list or map, and be the value of
// an active iteration at the same time.
type Item struct {
	kind ItemKind

	// Exactly one of these is set according to kind.
	tok    token.Token
	stream token.Stream
	list   []*Item
	table  map[string]*Item
}

// NewIdent returns an identifier item.
func NewIdent(name string, span token.Span) *Item {
	return &Item{kind: ItemIdent, tok: token.NewIdent(name, span)}
}

// NewLiteral returns a literal item with the given raw token text.
func NewLiteral(raw string, span token.Span) *Item {
	return &Item{kind: ItemLiteral, tok: token.NewLiteral(raw, span)}
}

// NewStream returns an item capturing s.
func NewStream(s token.Stream) *Item {
	return &Item{kind: ItemStream, stream: s}
}

// NewList returns a list item with the given elements in order.
func NewList(elems ...*Item) *Item {
	return &Item{kind: ItemList, list: elems}
}

// NewMap returns a map item holding a copy of entries.
func NewMap(entries map[string]*Item) *Item {
	table := make(map[string]*Item, len(entries))
	maps.Copy(table, entries)

	return &Item{kind: ItemMap, table: table}
}

func tokenItem(t token.Token) *Item {
	kind := ItemIdent
	if t.Kind == token.KindLiteral {
		kind = ItemLiteral
	}

	return &Item{kind: kind, tok: t}
}

// Kind returns the item variant.
func (i *Item) Kind() ItemKind { return i.kind }

// Token returns the token of an identifier or literal item.
func (i *Item) Token() token.Token { return i.tok }

// Stream returns the captured tokens of a stream item.
func (i *Item) Stream() token.Stream { return i.stream }

// Elems returns the elements of a list item.
func (i *Item) Elems() []*Item { return i.list }

// Keys returns the keys of a map item in sorted order.
func (i *Item) Keys() []string {
	return slices.Sorted(maps.Keys(i.table))
}

// Get returns the entry of a map item stored under key.
func (i *Item) Get(key string) (*Item, bool) {
	item, ok := i.table[key]

	return item, ok
}

// Len returns the number of elements of a list, the number of entries of a
// map, or 1 for every other item.
func (i *Item) Len() int {
	switch i.kind {
	case ItemList:
		return len(i.list)

	case ItemMap:
		return len(i.table)

	default:
		return 1
	}
}

// String renders the item for display.
func (i *Item) String() string {
	switch i.kind {
	case ItemIdent, ItemLiteral:
		return i.tok.Text

	case ItemStream:
		return "{ " + i.stream.String() + " }"

	case ItemList:
		s := "("
		for n, e := range i.list {
			if n > 0 {
				s += ", "
			}

			s += e.String()
		}

		return s + ")"

	default:
		s := "{"
		for n, k := range i.Keys() {
			if n > 0 {
				s += ","
			}

			s += " " + k + ": " + i.table[k].String()
		}

		return s + " }"
	}
}

// segment is one step of a path: a map key or a list index.
type segment struct {
	key     string
	index   int
	isIndex bool
	span    token.Span
}

// lookup walks path from i. The span of the path prefix consumed so far
// attributes errors on non-indexable items.
func (i *Item) lookup(span token.Span, path []segment) (*Item, error) {
	item := i

	for _, seg := range path {
		switch item.kind {
		case ItemList:
			if !seg.isIndex {
				return nil, typeError(seg.span, "can't index list with an identifier")
			}

			if seg.index < 0 || seg.index >= len(item.list) {
				return nil, notFoundError(seg.span).With(
					slog.Int("index", seg.index),
					slog.Int("length", len(item.list)),
				)
			}

			item = item.list[seg.index]

		case ItemMap:
			if seg.isIndex {
				return nil, typeError(seg.span, "can't index map with an integer")
			}

			next, ok := item.table[seg.key]
			if !ok {
				return nil, withSuggestion(notFoundError(seg.span), seg.key, item.Keys())
			}

			item = next

		default:
			return nil, typeError(span, "item is not indexable")
		}

		span = span.Join(seg.span)
	}

	return item, nil
}

// FromNative converts a decoded YAML or JSON value into an item.
//
// Strings that are valid identifiers become identifiers and other strings
// become string literals. Numbers become literals, booleans identifiers,
// slices lists, and maps with string keys maps.
func FromNative(v any) (*Item, error) {
	switch v := v.(type) {
	case *Item:
		return v, nil

	case string:
		if token.IsIdentifier(v) {
			return NewIdent(v, token.Span{}), nil
		}

		return NewLiteral(strconv.Quote(v), token.Span{}), nil

	case bool:
		return NewIdent(strconv.FormatBool(v), token.Span{}), nil

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return NewLiteral(fmt.Sprint(v), token.Span{}), nil

	case float32:
		return NewLiteral(strconv.FormatFloat(float64(v), 'g', -1, 32), token.Span{}), nil

	case float64:
		return NewLiteral(strconv.FormatFloat(v, 'g', -1, 64), token.Span{}), nil

	case []any:
		elems := make([]*Item, len(v))

		for n, e := range v {
			item, err := FromNative(e)
			if err != nil {
				return nil, err
			}

			elems[n] = item
		}

		return NewList(elems...), nil

	case map[string]any:
		table := make(map[string]*Item, len(v))

		for k, e := range v {
			item, err := FromNative(e)
			if err != nil {
				return nil, err
			}

			table[k] = item
		}

		return &Item{kind: ItemMap, table: table}, nil

	case map[any]any:
		table := make(map[string]any, len(v))
		for k, e := range v {
			table[fmt.Sprint(k)] = e
		}

		return FromNative(table)

	default:
		return nil, NewError(KindType, "unsupported native value").
			With(slog.String("type", fmt.Sprintf("%T", v)))
	}
}

// ToNative converts the item to native Go values suitable for JSON or YAML
// encoding. String literals are unquoted and numeric literals parsed where
// possible; streams render as source text.
func (i *Item) ToNative() any {
	switch i.kind {
	case ItemIdent:
		return i.tok.Text

	case ItemLiteral:
		if s, err := strconv.Unquote(i.tok.Text); err == nil {
			return s
		}

		if n, err := strconv.ParseInt(i.tok.Text, 0, 64); err == nil {
			return n
		}

		if f, err := strconv.ParseFloat(i.tok.Text, 64); err == nil {
			return f
		}

		return i.tok.Text

	case ItemStream:
		return i.stream.String()

	case ItemList:
		result := make([]any, len(i.list))
		for n, e := range i.list {
			result[n] = e.ToNative()
		}

		return result

	default:
		result := make(map[string]any, len(i.table))
		for k, e := range i.table {
			result[k] = e.ToNative()
		}

		return result
	}
}
