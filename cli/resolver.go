package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Keys are flag names. Nested mappings are joined to their parent key with
// "-", so these are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Command-line flags override
// config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var values map[string]any

	err := yaml.NewDecoder(r).Decode(&values)
	if errors.Is(err, io.EOF) {
		return config{}, nil
	}

	if err != nil {
		return nil, err
	}

	cfg := config{}
	cfg.flatten("", values)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]string

func (c config) flatten(prefix string, values map[string]any) {
	for key, value := range values {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(key, v)

		case []any:
			elems := make([]string, len(v))
			for i, e := range v {
				elems[i] = scalar(e)
			}

			c[key] = strings.Join(elems, ",")

		case nil:

		default:
			c[key] = scalar(v)
		}
	}
}

// scalar formats a decoded YAML scalar the way it would be written on the
// command line.
func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v

	case bool:
		return strconv.FormatBool(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}
