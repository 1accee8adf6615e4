package cmd

import (
	"context"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/log"
	"github.com/ardnew/tmpl/token"
)

// LoadVars decodes each YAML file in paths as a mapping of variable names to
// values and converts the values with [lang.FromNative]. Later files
// override earlier ones.
func LoadVars(ctx context.Context, paths ...string) (map[string]*lang.Item, error) {
	vars := make(map[string]*lang.Item)

	for _, path := range paths {
		src, err := ReadSources(ctx, path)
		if err != nil {
			return nil, ErrLoadVars.Wrap(err)
		}

		var values map[string]any

		err = yaml.UnmarshalContext(ctx, []byte(src.Text), &values)
		if err != nil {
			return nil, ErrLoadVars.
				With(slog.String("file", path)).
				Wrap(err)
		}

		for name, value := range values {
			if !token.IsIdentifier(name) {
				return nil, ErrLoadVars.
					With(slog.String("file", path), slog.String("name", name)).
					Wrap(ErrInvalidName)
			}

			item, err := lang.FromNative(value)
			if err != nil {
				return nil, ErrLoadVars.
					With(slog.String("file", path), slog.String("name", name)).
					Wrap(err)
			}

			vars[name] = item
		}

		log.DebugContext(ctx, "loaded variables",
			slog.String("file", path),
			slog.Int("count", len(values)),
		)
	}

	return vars, nil
}
