package token

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func kinds(s Stream) []Kind {
	k := make([]Kind, len(s))
	for i, t := range s {
		k[i] = t.Kind
	}

	return k
}

func TestLex_Directive(t *testing.T) {
	s, err := Lex(`$x: 5 $(x)`)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	want := []Kind{KindPunct, KindIdent, KindPunct, KindLiteral, KindPunct, KindGroup}
	got := kinds(s)

	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	if !s[0].Joint {
		t.Error("expected '$' before identifier to be joint")
	}

	if s[2].Joint {
		t.Error("expected ':' followed by space to be alone")
	}

	if !s[5].IsGroup(Parenthesis) || len(s[5].Stream) != 1 ||
		!s[5].Stream[0].IsIdent("x") {
		t.Errorf("unexpected group: %v", s[5])
	}
}

func TestLex_IndexPathDoesNotScanFloats(t *testing.T) {
	s, err := Lex(`xs.0.1`)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	want := []string{"xs", ".", "0", ".", "1"}
	if len(s) != len(want) {
		t.Fatalf("expected %d tokens, got %d (%s)", len(want), len(s), s)
	}

	for i, text := range want {
		if s[i].Text != text {
			t.Errorf("token %d: expected %q, got %q", i, text, s[i].Text)
		}
	}
}

func TestLex_Literals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`1.5`, `1.5`},
		{`0x1F`, `0x1F`},
		{`1_000`, `1_000`},
		{`5u8`, `5u8`},
		{`2e10`, `2e10`},
		{`"a \" b"`, `"a \" b"`},
		{"`raw\nstring`", "`raw\nstring`"},
		{`'c'`, `'c'`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if len(s) != 1 || s[0].Kind != KindLiteral {
				t.Fatalf("expected one literal, got %v", kinds(s))
			}

			if s[0].Text != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s[0].Text)
			}
		})
	}
}

func TestLex_CommentsSkipped(t *testing.T) {
	s, err := Lex("a // line\n/* block */ b")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	if len(s) != 2 || !s[0].IsIdent("a") || !s[1].IsIdent("b") {
		t.Errorf("unexpected tokens: %s", s)
	}

	if s[1].Span.Start.Line != 2 {
		t.Errorf("expected b on line 2, got %d", s[1].Span.Start.Line)
	}
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"unclosed", `(a`, "unclosed delimiter ("},
		{"unexpected close", `a)`, "unexpected closing delimiter )"},
		{"mismatched", `(a]`, "unexpected closing delimiter ]"},
		{"unterminated string", `"abc`, "unterminated literal"},
		{"unterminated comment", `/* abc`, "unterminated comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			var le *Error
			if !errors.As(err, &le) {
				t.Fatalf("expected *Error, got %T", err)
			}

			if le.Message() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, le.Message())
			}

			if !le.Span().IsValid() {
				t.Error("expected a valid span")
			}
		})
	}
}

func TestStream_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`a ( b , c )`, `a ( b , c )`},
		{`f(x)`, `f ( x )`},
		{`a::b`, `a ::b`},
		{`{}`, `{}`},
		{`x.y`, `x .y`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("lex error: %v", err)
			}

			if got := s.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSpan_Join(t *testing.T) {
	a := Span{Start: Position{0, 1, 1}, End: Position{3, 1, 4}}
	b := Span{Start: Position{10, 2, 1}, End: Position{12, 2, 3}}

	j := a.Join(b)
	if j.Start != a.Start || j.End != b.End {
		t.Errorf("unexpected join: %+v", j)
	}

	if b.Join(a) != j {
		t.Error("expected join to be commutative")
	}

	if (Span{}).Join(a) != a || a.Join(Span{}) != a {
		t.Error("expected invalid span to be ignored")
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"foobar": true,
		"a1":     true,
		"_x":     true,
		"_":      false,
		"12":     false,
		"a-b":    false,
		"":       false,
	}

	for s, want := range tests {
		if got := IsIdentifier(s); got != want {
			t.Errorf("IsIdentifier(%q): expected %v, got %v", s, want, got)
		}
	}
}

func TestDump(t *testing.T) {
	s, err := Lex(`a ($b)`)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	var buf bytes.Buffer
	if err := Dump(&buf, s); err != nil {
		t.Fatalf("dump error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Ident a @1:1",
		"Group Parenthesis @1:3",
		"  Punct $ joint @1:4",
		"  Ident b @1:5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected dump to contain %q, got:\n%s", want, out)
		}
	}
}

func TestQuote(t *testing.T) {
	s, err := Lex(`a "b"`)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}

	q := Quote(s)
	if q.Kind != KindLiteral || q.Text != `"a \"b\""` {
		t.Errorf("unexpected quote: %s", q.Text)
	}
}
