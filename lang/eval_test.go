package lang

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/tmpl/token"
)

func expand(t *testing.T, src string, opts ...Option) string {
	t.Helper()

	out, err := EvaluateString(t.Context(), src, opts...)
	if err != nil {
		t.Fatalf("evaluate %q: %v", src, err)
	}

	return out.String()
}

func TestEvaluate_Expansion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"assign then reference", `$x: 5 $(x)`, `5`},
		{"list length", `$xs: (1, 2, 3) $len(xs)`, `3`},
		{"empty list length", `$xs: () $len(xs)`, `0`},
		{"map length", `$m: { a: 1, b: 2 } $len(m)`, `2`},
		{"scalar length", `$x: foo $len(x)`, `1`},
		{"map field", `$m: { a: 1, b: 2 } $(m.a)`, `1`},
		{"list index", `$xs: (a, b, c) $(xs.2)`, `c`},
		{"nested lists", `$xs: ((1, 2), (3)) $(xs.0.1) $len(xs.1)`, `2 1`},
		{"trailing comma", `$xs: (1, 2,) $len(xs)`, `2`},
		{"duplicate key overwrites", `$m: { a: 1, a: 2 } $(m.a)`, `2`},
		{"list literal binding is local", `$t: 0 $xs: ($t: 1 $(t)) $(xs.0) $(t)`, `1 0`},
		{"string literal", `$s: "hi there" $(s)`, `"hi there"`},
		{"escape", `$$`, `$`},
		{"escape before ident", `a $$b`, `a $b`},
		{"rebinding", `$x: 1 $x: 2 $(x)`, `2`},
		{
			"group does not open a scope",
			`( $x: 1 ) $(x)`,
			`() 1`,
		},
		{
			"nested group expansion",
			`$x: 1 f($(x), [$(x)])`,
			`f ( 1 , [ 1 ] )`,
		},
		{
			"plain block",
			`$x: a ${ $x: b $(x) } $(x)`,
			`b a`,
		},
		{
			"captured stream",
			`$s: {{ a + b }} $(s) $(s)`,
			`a + b a + b`,
		},
		{
			"stream captures at definition",
			`$v: 1 $s: {{ x = $(v) }} $v: 2 $(s) $(v)`,
			`x = 1 2`,
		},
		{
			"directive inside list literal",
			`$a: 7 $xs: ($(a), 8) $(xs.0) $(xs.1)`,
			`7 8`,
		},
		{
			"directive inside map literal",
			`$a: 7 $m: { k: $(a) } $(m.k)`,
			`7`,
		},
		{
			"item reference value shares the item",
			`$xs: (1, 2) $ys: $(xs) $len(ys)`,
			`2`,
		},
		{
			"at item reference value",
			`$xs: (1, 2) $ys: @(xs) $(ys.1)`,
			`2`,
		},
		{
			"spliced length value",
			`$xs: (1, 2) $n: $len(xs) $(n)`,
			`2`,
		},
		{
			"spliced block value",
			`$a: foo $y: ${ $(a) } $(y)`,
			`foo`,
		},
		{
			"spliced concat value",
			`$a: foo $y: $#{ $(a) _bar } $(y)`,
			`foo_bar`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expand(t, tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEvaluate_Iteration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"first and last flags",
			`$xs: (a, b, c) $[xs]{ $first{F} $(@) $last{L} }`,
			`F a b c L`,
		},
		{
			"negated modifiers",
			`$xs: (a, b, c) $[xs]{ $!first{,} $(@) }`,
			`a , b , c`,
		},
		{
			"not last separator",
			`$xs: (a, b, c) $[xs]{ $(@) $!last{+} }`,
			`a + b + c`,
		},
		{
			"index",
			`$xs: (a, b, c) $[xs]{ $(@index) }`,
			`0 1 2`,
		},
		{
			"map in sorted key order",
			`$m: { b: 2, a: 1 } $[m]{ $(@key) = $(@) ; }`,
			`a = 1 ; b = 2 ;`,
		},
		{
			"value fields",
			`$servers: ({ host: a, port: 1 }, { host: b, port: 2 })
			 $[servers]{ $(@.host) : $(@value.port) ; }`,
			`a : 1 ; b : 2 ;`,
		},
		{
			"single item iterates once",
			`$x: foo $[x]{ $(@) $(@key) $first{F} $last{L} }`,
			`foo 0 F L`,
		},
		{
			"empty list",
			`$xs: () $[xs]{ never }`,
			``,
		},
		{
			"nested iteration uses nearest context",
			`$xs: (a, b) $ys: (1, 2) $[xs]{ $[ys]{ $(@) } }`,
			`1 2 1 2`,
		},
		{
			"outer binding visible in body",
			`$sep: - $xs: (a, b) $[xs]{ $(@) $(sep) }`,
			`a - b -`,
		},
		{
			"iterate path",
			`$m: { xs: (1, 2) } $[m.xs]{ $(@) }`,
			`1 2`,
		},
		{
			"modifiers outside iteration emit nothing",
			`$first{a} $!first{b} $last{c} $!last{d}`,
			``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expand(t, tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEvaluate_Shadowing(t *testing.T) {
	got := expand(t, `$x: outer $xs: (1) $[xs]{ $first{ $x: inner $(x) } } $(x)`)
	if got != "inner outer" {
		t.Errorf("expected %q, got %q", "inner outer", got)
	}
}

func TestEvaluate_Concat(t *testing.T) {
	out, err := EvaluateString(t.Context(), `$a: foo $b: bar $#{ $(a) $(b) }`)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if len(out) != 1 || out[0].Kind != token.KindIdent || out[0].Text != "foobar" {
		t.Fatalf("expected identifier foobar, got %s", out)
	}

	if got := expand(t, `$a: foo $concat_ident{ $(a) _ 2 }`); got != "foo_2" {
		t.Errorf("expected foo_2, got %q", got)
	}

	_, err = EvaluateString(t.Context(), `$a: 1 $b: 2 $#{ $(a) $(b) }`)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}

	var le *Error
	if !errors.As(err, &le) || le.Message() != "this doesn't evaluate to a valid identifier" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	inputs := []string{
		`fn main() { let x = [1, 2]; println!("{}", x); }`,
		`a.b.c :: d -> e`,
		`{ [ ( ) ] }`,
		``,
	}

	for _, src := range inputs {
		in, err := token.Lex(src)
		if err != nil {
			t.Fatalf("lex error: %v", err)
		}

		out, err := Evaluate(t.Context(), in)
		if err != nil {
			t.Fatalf("evaluate %q: %v", src, err)
		}

		if !token.Equal(in, out) {
			t.Errorf("expected %q unchanged, got %q", in, out)
		}
	}
}

func TestEvaluate_EscapeRoundTrip(t *testing.T) {
	out, err := EvaluateString(t.Context(), `$$`)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if len(out) != 1 || !out[0].IsPunct('$') {
		t.Errorf("expected single '$', got %s", out)
	}
}

func TestEvaluate_RestampsSpan(t *testing.T) {
	out, err := EvaluateString(t.Context(), `$x: 5 $(x)`)
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("expected 1 token, got %d", len(out))
	}

	if out[0].Span.Start.Column != 7 || out[0].Span.End.Column != 11 {
		t.Errorf("expected span of directive, got %s-%s",
			out[0].Span.Start, out[0].Span.End)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
		msg    string
	}{
		{"absent key", `$m: { a: 1, b: 2 } $(m.c)`, ErrNotFound, "item not found"},
		{"absent name", `$(nope)`, ErrNotFound, "item not found"},
		{"index out of range", `$xs: (1) $(xs.1)`, ErrNotFound, "item not found"},
		{"index above uint64", `$xs: (1, 2) $(xs.18446744073709551616)`, ErrNotFound, "item not found"},
		{"max uint64 index", `$xs: (1, 2) $(xs.18446744073709551615)`, ErrNotFound, "item not found"},
		{"index above max int", `$xs: (1, 2) $(xs.9223372036854775808)`, ErrNotFound, "item not found"},
		{"stream binding stays inside", `$s: {{ $t: 1 }} $(t)`, ErrNotFound, "item not found"},
		{"list binding stays inside", `$xs: ($t: 1 2) $(t)`, ErrNotFound, "item not found"},
		{"map binding stays inside", `$m: { $t: 1 k: 2 } $(t)`, ErrNotFound, "item not found"},
		{"quote list", `$xs: (1, 2) $(xs)`, ErrType, "can not quote a list item"},
		{"quote map", `$m: { a: 1 } $(m)`, ErrType, "can not quote a map item"},
		{"list by key", `$xs: (1, 2) $(xs.a)`, ErrType, "can't index list with an identifier"},
		{"map by index", `$m: { a: 1 } $(m.0)`, ErrType, "can't index map with an integer"},
		{"scalar index", `$x: y $(x.z)`, ErrType, "item is not indexable"},
		{"scope by index", `$(0)`, ErrType, "can't index scope with an integer"},
		{"index outside iteration", `$(@index)`, ErrScope, "@index is only available in iterator blocks"},
		{"key outside iteration", `$(@key)`, ErrScope, "@key is only available in iterator blocks"},
		{"value outside iteration", `$(@value)`, ErrScope, "@value is only available in iterator blocks"},
		{"at outside iteration", `$(@)`, ErrScope, "@ is only available in iterator blocks"},
		{"at in value outside iteration", `$x: @(@.a)`, ErrScope, "@ is only available in iterator blocks"},
		{"trailing sigil", `a $`, ErrEndOfInput, "unexpected end of input"},
		{"missing value", `$x:`, ErrEndOfInput, "unexpected end of input"},
		{"empty path", `$()`, ErrEndOfInput, "unexpected end of input"},
		{"dangling dot", `$x: 1 $(x.)`, ErrEndOfInput, "unexpected end of input"},
		{"missing body", `$xs: () $[xs]`, ErrEndOfInput, "unexpected end of input"},
		{"unknown modifier", `$foo{ x }`, ErrSyntax, "unknown modifier"},
		{"unknown negated modifier", `$!foo{ x }`, ErrSyntax, "unknown modifier"},
		{"unknown call", `$size(x)`, ErrSyntax, "unknown modifier"},
		{"unexpected punct", `$%`, ErrSyntax, "unexpected token"},
		{"ident then junk", `$x + 1`, ErrSyntax, "unexpected token"},
		{"iter without brace", `$[xs] x`, ErrSyntax, "unexpected token"},
		{"assignment as value", `$x: $y: 1`, ErrSyntax, "unexpected assignment"},
		{"escape as value", `$x: $$`, ErrSyntax, "unexpected token"},
		{"punct as value", `$x: +`, ErrSyntax, "unexpected token"},
		{"list separator", `$xs: (1 2)`, ErrSyntax, "unexpected token"},
		{"map key", `$m: { 1: a }`, ErrSyntax, "unexpected token"},
		{"map colon", `$m: { a = 1 }`, ErrSyntax, "unexpected token"},
		{"accessor with segment", `$xs: (1) $[xs]{ $(@index.0) }`, ErrSyntax, "unexpected token"},
		{"at after segment", `$x: 1 $(x.@)`, ErrSyntax, "unexpected token"},
		{"fractional index", `$xs: (1) $(xs 1.5)`, ErrSyntax, "unexpected token"},
		{"error inside iteration", `$xs: (1) $[xs]{ $(missing) }`, ErrNotFound, "item not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EvaluateString(t.Context(), tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}

			var le *Error
			if !errors.As(err, &le) {
				t.Fatalf("expected *Error, got %T", err)
			}

			if le.Message() != tt.msg {
				t.Errorf("expected message %q, got %q", tt.msg, le.Message())
			}

			if !le.Span().IsValid() {
				t.Error("expected a valid span")
			}
		})
	}
}

func TestEvaluate_ErrorSpan(t *testing.T) {
	_, err := EvaluateString(t.Context(), `$m: {a: 1} $(m.c)`)

	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("expected *Error, got %v", err)
	}

	if got := le.Span().Start.Column; got != 16 {
		t.Errorf("expected error at column 16, got %d", got)
	}

	_, err = EvaluateString(t.Context(), `$a: 1 $b: 2 $#{ $(a) $(b) }`)
	if !errors.As(err, &le) {
		t.Fatalf("expected *Error, got %v", err)
	}

	span := le.Span()
	if span.Start.Column != 13 || span.End.Column != 28 {
		t.Errorf("expected directive span 13-28, got %s-%s", span.Start, span.End)
	}
}

func TestEvaluate_NotFoundSuggestion(t *testing.T) {
	_, err := EvaluateString(t.Context(), `$name: 1 $(nme)`)

	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("expected *Error, got %v", err)
	}

	s, ok := le.Attr("suggestion")
	if !ok || s.String() != "name" {
		t.Errorf("expected suggestion %q, got %v", "name", s)
	}
}

func TestEvaluate_ScopesRestoredAfterError(t *testing.T) {
	e := New()

	_, err := e.Evaluate(t.Context(), mustLex(t, `$xs: (1) $[xs]{ $inner: 1 $(missing) }`))
	if err == nil {
		t.Fatal("expected error")
	}

	if d := e.env.depth(); d != 1 {
		t.Errorf("expected only the root scope, got depth %d", d)
	}

	if _, ok := e.Lookup("inner"); ok {
		t.Error("expected body binding to be discarded")
	}
}

func TestEvaluator_RootRestoredAfterError(t *testing.T) {
	e := New()

	if _, err := e.Evaluate(t.Context(), mustLex(t, `$a: 1 $b: 2`)); err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	_, err := e.Evaluate(t.Context(), mustLex(t, `$a: 3 $c: 4 $(missing)`))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if names := e.Names(); !slices.Equal(names, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", names)
	}

	out, err := e.Evaluate(t.Context(), mustLex(t, `$(a)`))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if out.String() != "1" {
		t.Errorf("expected earlier binding 1, got %q", out)
	}
}

func TestEvaluator_Persistent(t *testing.T) {
	e := New()

	if _, err := e.Evaluate(t.Context(), mustLex(t, `$x: 1 $y: (a)`)); err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	out, err := e.Evaluate(t.Context(), mustLex(t, `$(x)`))
	if err != nil {
		t.Fatalf("evaluate error: %v", err)
	}

	if out.String() != "1" {
		t.Errorf("expected 1, got %q", out)
	}

	names := e.Names()
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("expected [x y], got %v", names)
	}
}

func TestEvaluate_Options(t *testing.T) {
	if got := expand(t, `%x: 1 %(x) %% $(x)`, WithSigil('%')); got != "1 % $( x )" {
		t.Errorf("unexpected expansion with custom sigil: %q", got)
	}

	globals := map[string]*Item{
		"name": NewIdent("world", token.Span{}),
		"nums": NewList(NewLiteral("1", token.Span{}), NewLiteral("2", token.Span{})),
	}

	if got := expand(t, `hello $(name) $len(nums)`, WithGlobals(globals)); got != "hello world 2" {
		t.Errorf("unexpected expansion with globals: %q", got)
	}
}

func mustLex(t *testing.T, src string) token.Stream {
	t.Helper()

	s, err := token.Lex(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	return s
}
