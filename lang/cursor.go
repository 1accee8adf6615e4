package lang

import (
	"github.com/edwingeng/deque"

	"github.com/ardnew/tmpl/token"
)

// reader is a position within one token stream.
type reader struct {
	stream token.Stream
	pos    int
}

// cursor reads tokens from a stack of streams. Spliced streams are drained
// before whatever remains of the streams beneath them.
type cursor struct {
	readers deque.Deque // <*reader>, top at the back
	last    token.Span  // span of the last consumed token
}

// newCursor returns a cursor over s. The span of the enclosing construct
// attributes an end-of-input error when s is empty.
func newCursor(s token.Stream, span token.Span) *cursor {
	c := &cursor{readers: deque.NewDeque(), last: span}
	c.splice(s)

	return c
}

// splice pushes s to be consumed before the remainder of the input.
func (c *cursor) splice(s token.Stream) {
	if len(s) > 0 {
		c.readers.PushBack(&reader{stream: s})
	}
}

// next returns the next token, popping exhausted readers.
func (c *cursor) next() (token.Token, bool) {
	for !c.readers.Empty() {
		r := c.readers.Back().(*reader)

		if r.pos < len(r.stream) {
			t := r.stream[r.pos]
			r.pos++
			c.last = t.Span

			return t, true
		}

		c.readers.PopBack()
	}

	return token.Token{}, false
}

// expect returns the next token or an end-of-input error attributed to the
// last token consumed.
func (c *cursor) expect() (token.Token, error) {
	t, ok := c.next()
	if !ok {
		return t, endOfInputError(c.last)
	}

	return t, nil
}

// empty reports whether no tokens remain.
func (c *cursor) empty() bool {
	for !c.readers.Empty() {
		r := c.readers.Back().(*reader)
		if r.pos < len(r.stream) {
			return false
		}

		c.readers.PopBack()
	}

	return true
}
