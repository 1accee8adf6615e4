package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmpl/lang"
)

// testContext returns a context carrying a parsed kong context whose
// output is captured in out.
func testContext(t *testing.T, out *bytes.Buffer, vars kong.Vars, opts ...lang.Option) context.Context {
	t.Helper()

	var cli struct {
		Sigil Sigil `default:"$"`
	}

	parser, err := kong.New(&cli, kong.Writers(out, out), vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	return WithOptions(WithContext(t.Context(), ktx), opts...)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		quote bool
		opts  []lang.Option
		want  string
	}{
		{"plain", "$x: world\nhello $(x)", false, nil, "hello world\n"},
		{"quoted", `$x: a $(x) b`, true, nil, `"a b"` + "\n"},
		{"sigil", `%x: 1 %(x) $`, false, []lang.Option{lang.WithSigil('%')}, "1 $\n"},
		{"empty", `$x: 1`, false, nil, "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := testContext(t, &out, nil, tt.opts...)
			e := Expand{Quote: tt.quote, Source: []string{writeFile(t, "in.tmpl", tt.src)}}

			if err := e.Run(ctx); err != nil {
				t.Fatal(err)
			}

			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestExpand_Stdin(t *testing.T) {
	var out bytes.Buffer

	ctx := WithStdin(testContext(t, &out, nil), strings.NewReader(`$xs: (a, b) $[xs]{ $(@) $!last{,} }`))

	if err := (&Expand{Source: []string{"-"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "a , b\n" {
		t.Errorf("expected %q, got %q", "a , b\n", got)
	}
}

func TestExpand_Diagnostic(t *testing.T) {
	var out bytes.Buffer

	ctx := testContext(t, &out, nil)
	path := writeFile(t, "bad.tmpl", "ok\n$(missing)")

	err := (&Expand{Source: []string{path}}).Run(ctx)

	var cmdErr *Error
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}

	if !errors.Is(err, lang.ErrNotFound) {
		t.Errorf("expected not found cause, got %v", err)
	}

	diag := cmdErr.Diagnostic()
	for _, want := range []string{"line 2, column 3", "  2 | $(missing)"} {
		if !strings.Contains(diag, want) {
			t.Errorf("expected diagnostic to contain %q:\n%s", want, diag)
		}
	}

	if out.Len() > 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestDump(t *testing.T) {
	path := writeFile(t, "in.tmpl", `$x: v $(x)`)

	tests := []struct {
		format string
		expand bool
		check  func(t *testing.T, out string)
	}{
		{"text", false, func(t *testing.T, out string) {
			if !strings.HasPrefix(out, "Punct $ joint @1:1\n") {
				t.Errorf("unexpected text dump:\n%s", out)
			}
		}},
		{"text", true, func(t *testing.T, out string) {
			if !strings.HasPrefix(out, "Ident v @") || strings.Count(out, "\n") != 1 {
				t.Errorf("unexpected expanded dump:\n%s", out)
			}
		}},
		{"tree", false, func(t *testing.T, out string) {
			for _, want := range []string{"Stream", "()", "@1:8"} {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in tree:\n%s", want, out)
				}
			}
		}},
		{"json", true, func(t *testing.T, out string) {
			var got []map[string]any
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON: %v\n%s", err, out)
			}

			if len(got) != 1 || got[0]["text"] != "v" || got[0]["kind"] != "Ident" {
				t.Errorf("unexpected JSON dump: %v", got)
			}
		}},
		{"yaml", false, func(t *testing.T, out string) {
			var got []map[string]any
			if err := yaml.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid YAML: %v\n%s", err, out)
			}

			if len(got) != 6 {
				t.Errorf("expected 6 top-level tokens, got %d", len(got))
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var out bytes.Buffer

			d := Dump{Format: tt.format, Indent: 2, Expand: tt.expand, Source: []string{path}}

			if err := d.Run(testContext(t, &out, nil)); err != nil {
				t.Fatal(err)
			}

			tt.check(t, out.String())
		})
	}
}

func TestDump_Bindings(t *testing.T) {
	path := writeFile(t, "in.tmpl", `$b: (1, two) $a: { k: "v w" } $s: {{ x + y }}`)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var out bytes.Buffer

			d := Dump{Format: format, Indent: 2, Bindings: true, Source: []string{path}}

			if err := d.Run(testContext(t, &out, nil)); err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("invalid output: %v\n%s", err, out.String())
			}

			if got["s"] != "x + y" {
				t.Errorf("expected stream rendered as text, got %v", got["s"])
			}

			if m, ok := got["a"].(map[string]any); !ok || m["k"] != "v w" {
				t.Errorf("expected map binding, got %v", got["a"])
			}

			if l, ok := got["b"].([]any); !ok || len(l) != 2 || l[1] != "two" {
				t.Errorf("expected list binding, got %v", got["b"])
			}
		})
	}
}

func TestDump_InvalidFormat(t *testing.T) {
	var out bytes.Buffer

	d := Dump{Format: "xml", Source: []string{writeFile(t, "in.tmpl", "a")}}

	if err := d.Run(testContext(t, &out, nil)); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected invalid format, got %v", err)
	}
}

func TestInit(t *testing.T) {
	var out bytes.Buffer

	path := filepath.Join(t.TempDir(), "tmpl", "config.yaml")
	ctx := testContext(t, &out, kong.Vars{ConfigIdentifier: path})

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid YAML %q: %v", data, err)
	}

	if got["sigil"] != "$" {
		t.Errorf("expected sigil in config, got %v", got)
	}

	if _, ok := got["help"]; ok {
		t.Error("did not expect help flag in config")
	}

	if err := (&Init{}).Run(ctx); !errors.Is(err, ErrFileExists) {
		t.Errorf("expected file exists error, got %v", err)
	}

	if err := (&Init{Force: true}).Run(ctx); err != nil {
		t.Errorf("expected forced overwrite, got %v", err)
	}
}

func TestLoadVars(t *testing.T) {
	first := writeFile(t, "a.yaml", "name: world\nnames: [ann, bob]\nport: 8080\n")
	second := writeFile(t, "b.yaml", "name: \"two words\"\nserver:\n  host: example\n")

	vars, err := LoadVars(t.Context(), first, second)
	if err != nil {
		t.Fatal(err)
	}

	out, err := lang.EvaluateString(t.Context(),
		`$(name) $[names]{ hi $(@) } $(port) $(server.host)`,
		lang.WithGlobals(vars))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), `"two words" hi ann hi bob 8080 example`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLoadVars_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"invalid name", "bad-name: 1\n", ErrInvalidName},
		{"null value", "x:\n", lang.ErrType},
		{"malformed", "x: [1\n", ErrLoadVars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadVars(t.Context(), writeFile(t, "vars.yaml", tt.content))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReadSources(t *testing.T) {
	a := writeFile(t, "a.tmpl", "one")
	b := writeFile(t, "b.tmpl", "two\n")

	link := filepath.Join(t.TempDir(), "link.tmpl")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	ctx := WithStdin(t.Context(), strings.NewReader("three"))

	src, err := ReadSources(ctx, "-", a, b, link)
	if err != nil {
		t.Fatal(err)
	}

	if src.Text != "one\ntwo\nthree" {
		t.Errorf("unexpected text %q", src.Text)
	}

	if want := []string{a, b, "-"}; strings.Join(src.Names, ",") != strings.Join(want, ",") {
		t.Errorf("expected names %v, got %v", want, src.Names)
	}

	if _, err := ReadSources(ctx, filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrReadSource) {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestSigil(t *testing.T) {
	tests := []struct {
		text    string
		want    Sigil
		wantErr bool
	}{
		{"$", '$', false},
		{"%", '%', false},
		{"~", '~', false},
		{"a", 0, true},
		{"$$", 0, true},
		{"(", 0, true},
		{"", 0, true},
		{"7", 0, true},
		{"@", 0, true},
		{"#", 0, true},
		{"!", 0, true},
		{":", 0, true},
		{",", 0, true},
		{".", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var s Sigil

			err := s.UnmarshalText([]byte(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}

			if !tt.wantErr && s != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s)
			}
		})
	}

	var zero Sigil
	if zero.String() != "$" {
		t.Errorf("expected zero sigil to render as default, got %q", zero.String())
	}
}
