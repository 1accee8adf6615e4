package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/tmpl/log"
	"github.com/ardnew/tmpl/token"
)

// DefaultSigil is the punctuation rune that introduces every directive.
const DefaultSigil = '$'

// ReservedPunct lists the punctuation runes with a fixed meaning inside
// directives. None of them can serve as the sigil.
const ReservedPunct = "@#!:,."

// IsReserved reports whether r has a fixed meaning inside directives.
func IsReserved(r rune) bool {
	return strings.ContainsRune(ReservedPunct, r)
}

// Evaluator expands token trees against a root scope that persists across
// calls to [Evaluator.Evaluate].
//
// An Evaluator is not safe for concurrent use.
type Evaluator struct {
	sigil  rune
	logger log.Logger
	env    *env
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithSigil sets the rune that introduces directives.
// Doubling it in the input emits it literally.
//
// The sigil must be a punctuation rune that the directive grammar does not
// already use: not a delimiter and none of [ReservedPunct].
func WithSigil(sigil rune) Option {
	return func(e *Evaluator) {
		e.sigil = sigil
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithGlobals binds every entry of globals in the root scope.
func WithGlobals(globals map[string]*Item) Option {
	return func(e *Evaluator) {
		for name, item := range globals {
			if item != nil {
				e.env.set(name, item)
			}
		}
	}
}

// New returns an [Evaluator] with an empty root scope.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		sigil: DefaultSigil,
		env:   newEnv(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate expands every directive of input and returns the resulting
// token tree. Tokens that are not directives are copied unchanged.
//
// Evaluation stops at the first failure, which is returned as an [Error]
// attributed to the span of the offending tokens. Bindings made at the top
// level of input remain visible to later calls only if evaluation succeeds;
// a failed call leaves the root scope as it was.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	input token.Stream,
) (token.Stream, error) {
	s := &state{
		ctx:    ctx,
		sigil:  e.sigil,
		logger: e.logger,
		env:    e.env,
	}

	s.logger.TraceContext(ctx, "evaluate start",
		slog.Int("tokens", len(input)),
		slog.String("sigil", string(e.sigil)),
	)

	var out token.Stream

	saved := e.env.snapshot()

	err := s.block(newCursor(input, input.Span()), &out)
	if err != nil {
		e.env.restore(saved)
		s.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

		return nil, err
	}

	s.logger.TraceContext(ctx, "evaluate complete", slog.Int("tokens", len(out)))

	return out, nil
}

// Names returns the names bound in the root scope in sorted order.
func (e *Evaluator) Names() []string {
	return e.env.names()
}

// Lookup returns the item bound to name in the root scope.
func (e *Evaluator) Lookup(name string) (*Item, bool) {
	return e.env.get(name)
}

// Evaluate expands input with a fresh [Evaluator] configured by opts.
func Evaluate(
	ctx context.Context,
	input token.Stream,
	opts ...Option,
) (token.Stream, error) {
	return New(opts...).Evaluate(ctx, input)
}

// EvaluateString lexes src with [token.Lex] and expands the result with a
// fresh [Evaluator] configured by opts.
func EvaluateString(
	ctx context.Context,
	src string,
	opts ...Option,
) (token.Stream, error) {
	input, err := token.Lex(src)
	if err != nil {
		return nil, err
	}

	return Evaluate(ctx, input, opts...)
}

// state is threaded through one call to Evaluate.
type state struct {
	ctx    context.Context
	sigil  rune
	logger log.Logger
	env    *env
}

// block copies tokens from c to out, dispatching directives and recursing
// into groups. Groups do not open a scope.
func (s *state) block(c *cursor, out *token.Stream) error {
	for {
		t, ok := c.next()
		if !ok {
			return nil
		}

		switch {
		case t.IsPunct(s.sigil):
			a, err := s.parseAction(c, t)
			if err != nil {
				return err
			}

			switch a.kind {
			case actionEscape:
				*out = append(*out, a.sigil)

			case actionAssign:
				item, err := s.evalValue(a.value)
				if err != nil {
					return err
				}

				s.env.set(a.name.Text, item)

				s.logger.TraceContext(s.ctx, "assign",
					slog.String("name", a.name.Text),
					slog.String("kind", item.kind.String()),
					slog.Int("depth", s.env.depth()),
				)

			case actionQuote:
				if err := s.expand(a.quote, out); err != nil {
					return err
				}
			}

		case t.Kind == token.KindGroup:
			var inner token.Stream

			err := s.block(newCursor(t.Stream, t.Span), &inner)
			if err != nil {
				return err
			}

			*out = append(*out, token.NewGroup(t.Delim, inner, t.Span))

		default:
			*out = append(*out, t)
		}
	}
}

// scopedBlock evaluates the contents of group in a child scope carrying
// iter, which may be nil.
func (s *state) scopedBlock(group token.Token, iter *IterContext) (token.Stream, error) {
	s.env.push(iter)
	defer s.env.pop()

	var out token.Stream

	err := s.block(newCursor(group.Stream, group.Span), &out)

	return out, err
}
