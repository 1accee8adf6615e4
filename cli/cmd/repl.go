package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/tmpl/cli/cmd/repl"
	"github.com/ardnew/tmpl/log"
)

// Repl starts an interactive session.
type Repl struct {
	Source []string `arg:"" help:"Template file(s) evaluated before the session starts" name:"source" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	ev := newEvaluator(ctx)

	if len(r.Source) > 0 {
		src, err := ReadSources(ctx, r.Source...)
		if err != nil {
			return err
		}

		if _, err := evaluate(ctx, ev, src); err != nil {
			return err
		}

		log.DebugContext(ctx, "repl preloaded",
			slog.Any("files", src.Names),
			slog.Int("names", len(ev.Names())),
		)
	}

	var history string
	if dir, ok := kongVar(ctx, CacheIdentifier); ok {
		history = filepath.Join(dir, repl.HistoryFile)
	}

	return repl.Run(ctx, ev, history, log.Default())
}
