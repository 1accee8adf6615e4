package lang

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/sahilm/fuzzy"
)

// IterContext is the state visible inside one pass of an iteration body.
type IterContext struct {
	First bool
	Last  bool
	Index int
	Key   string
	Value *Item
}

// scope is one level of name bindings with an optional iteration context.
type scope struct {
	items map[string]*Item
	iter  *IterContext
}

// env is a LIFO stack of scopes. It always holds at least the root scope.
type env struct {
	scopes []*scope
}

func newEnv() *env {
	return &env{scopes: []*scope{{items: map[string]*Item{}}}}
}

func (e *env) push(iter *IterContext) {
	e.scopes = append(e.scopes, &scope{items: map[string]*Item{}, iter: iter})
}

func (e *env) pop() {
	if len(e.scopes) > 1 {
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

func (e *env) depth() int { return len(e.scopes) }

// snapshot copies the root scope bindings.
func (e *env) snapshot() map[string]*Item {
	return maps.Clone(e.scopes[0].items)
}

// restore drops every scope above the root and replaces the root bindings
// with saved.
func (e *env) restore(saved map[string]*Item) {
	e.scopes = e.scopes[:1]
	e.scopes[0].items = saved
}

// set binds name in the innermost scope, overwriting any existing binding.
func (e *env) set(name string, item *Item) {
	e.scopes[len(e.scopes)-1].items[name] = item
}

// iterContext returns the nearest enclosing iteration context, or nil.
func (e *env) iterContext() *IterContext {
	for _, s := range slices.Backward(e.scopes) {
		if s.iter != nil {
			return s.iter
		}
	}

	return nil
}

// get returns the innermost binding of name.
func (e *env) get(name string) (*Item, bool) {
	for _, s := range slices.Backward(e.scopes) {
		if item, ok := s.items[name]; ok {
			return item, true
		}
	}

	return nil, false
}

// lookup resolves a path whose first segment names a binding.
func (e *env) lookup(path []segment) (*Item, error) {
	first := path[0]

	if first.isIndex {
		return nil, typeError(first.span, "can't index scope with an integer")
	}

	item, ok := e.get(first.key)
	if !ok {
		return nil, withSuggestion(notFoundError(first.span), first.key, e.names())
	}

	return item.lookup(first.span, path[1:])
}

// names returns every visible binding name in sorted order.
func (e *env) names() []string {
	seen := map[string]struct{}{}

	for _, s := range e.scopes {
		for name := range s.items {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// withSuggestion attaches the closest fuzzy match of key among candidates.
func withSuggestion(err *Error, key string, candidates []string) *Error {
	err = err.With(slog.String("name", key))

	matches := fuzzy.Find(key, candidates)
	if len(matches) == 0 {
		return err
	}

	return err.With(slog.String("suggestion", matches[0].Str))
}
