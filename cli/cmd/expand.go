package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/log"
	"github.com/ardnew/tmpl/token"
)

// Expand evaluates a template and prints the expansion.
type Expand struct {
	Quote bool `help:"Print the expansion as one string literal" short:"q"`

	Source []string `arg:"" default:"-" help:"Template file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) error {
	src, err := ReadSources(ctx, e.Source...)
	if err != nil {
		return err
	}

	out, err := evaluate(ctx, newEvaluator(ctx), src)
	if err != nil {
		return err
	}

	text := out.String()
	if e.Quote {
		text = token.Quote(out).Text
	}

	log.DebugContext(ctx, "expanded",
		slog.Int("tokens", len(out)),
		slog.Bool("quote", e.Quote),
	)

	_, err = fmt.Fprintln(stdout(ctx), text)

	return err
}

// evaluate lexes src and expands it with ev. Failures carry a diagnostic
// pointing into src.
func evaluate(ctx context.Context, ev *lang.Evaluator, src Source) (token.Stream, error) {
	input, err := token.Lex(src.Text)
	if err != nil {
		return nil, diagnose(src, err)
	}

	out, err := ev.Evaluate(ctx, input)
	if err != nil {
		return nil, diagnose(src, err)
	}

	return out, nil
}

func diagnose(src Source, err error) *Error {
	return ErrEvaluate.
		With(slog.Any("files", src.Names)).
		WithDiagnostic(lang.FormatError(src.Text, err)).
		Wrap(err)
}
