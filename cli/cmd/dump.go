package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/token"
)

// Dump prints the token tree of a template.
type Dump struct {
	Format string `default:"tree" enum:"tree,text,json,yaml" help:"Output format (${enum})" short:"f"`
	Indent int    `default:"2"                               help:"Indent width for JSON and YAML output" short:"i"`
	Expand bool   `help:"Dump the expansion instead of the input" short:"e"`

	Bindings bool `help:"Dump the root-scope bindings after expansion (JSON or YAML)" short:"b"`

	Source []string `arg:"" default:"-" help:"Template file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) error {
	src, err := ReadSources(ctx, d.Source...)
	if err != nil {
		return err
	}

	stream, err := token.Lex(src.Text)
	if err != nil {
		return diagnose(src, err)
	}

	if d.Bindings {
		ev := newEvaluator(ctx)

		if _, err := evaluate(ctx, ev, src); err != nil {
			return err
		}

		return d.writeBindings(ctx, stdout(ctx), ev)
	}

	if d.Expand {
		stream, err = evaluate(ctx, newEvaluator(ctx), src)
		if err != nil {
			return err
		}
	}

	return d.write(ctx, stdout(ctx), stream)
}

func (d *Dump) write(ctx context.Context, w io.Writer, s token.Stream) error {
	switch d.Format {
	case "tree", "":
		_, err := fmt.Fprintln(w, renderTree(w, s))

		return err

	case "text":
		return token.Dump(w, s)

	case "json":
		return d.writeJSON(w, s.ToNative())

	case "yaml":
		return d.writeYAML(ctx, w, s.ToNative())

	default:
		return ErrInvalidFormat.With(slog.String("format", d.Format))
	}
}

// writeBindings prints every root-scope binding of ev by name. Formats other
// than JSON print YAML.
func (d *Dump) writeBindings(ctx context.Context, w io.Writer, ev *lang.Evaluator) error {
	var (
		ordered yaml.MapSlice
		native  = make(map[string]any)
	)

	for _, name := range ev.Names() {
		if item, ok := ev.Lookup(name); ok {
			native[name] = item.ToNative()
			ordered = append(ordered, yaml.MapItem{Key: name, Value: native[name]})
		}
	}

	switch d.Format {
	case "json":
		return d.writeJSON(w, native)

	case "tree", "text", "yaml", "":
		return d.writeYAML(ctx, w, ordered)

	default:
		return ErrInvalidFormat.With(slog.String("format", d.Format))
	}
}

func (d *Dump) writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", strings.Repeat(" ", d.Indent))
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func (d *Dump) writeYAML(ctx context.Context, w io.Writer, v any) error {
	data, err := yaml.MarshalContext(ctx, v, yaml.Indent(d.Indent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}

// renderTree draws s as a tree rooted at "Stream", styled for w.
func renderTree(w io.Writer, s token.Stream) string {
	r := lipgloss.NewRenderer(w)

	style := map[token.Kind]lipgloss.Style{
		token.KindIdent:   r.NewStyle().Foreground(lipgloss.Color("6")),
		token.KindLiteral: r.NewStyle().Foreground(lipgloss.Color("3")),
		token.KindPunct:   r.NewStyle().Foreground(lipgloss.Color("5")),
		token.KindGroup:   r.NewStyle().Bold(true),
	}
	dim := r.NewStyle().Foreground(lipgloss.Color("8"))

	var build func(root string, s token.Stream) *tree.Tree

	build = func(root string, s token.Stream) *tree.Tree {
		t := tree.Root(root).EnumeratorStyle(dim)

		for _, tok := range s {
			at := dim.Render("@" + tok.Span.String())

			switch tok.Kind {
			case token.KindGroup:
				label := style[tok.Kind].Render(
					string(tok.Delim.Open())+string(tok.Delim.Close())) + " " + at
				t.Child(build(label, tok.Stream))

			case token.KindPunct:
				spacing := "alone"
				if tok.Joint {
					spacing = "joint"
				}

				t.Child(style[tok.Kind].Render(tok.Text) + " " + dim.Render(spacing) + " " + at)

			default:
				t.Child(style[tok.Kind].Render(tok.Text) + " " + at)
			}
		}

		return t
	}

	return build(style[token.KindGroup].Render("Stream"), s).String()
}
