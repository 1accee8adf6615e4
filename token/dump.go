package token

import (
	"io"
	"strings"
)

func writer(w io.Writer) func(eol string, item ...string) error {
	return func(eol string, item ...string) error {
		_, err := io.WriteString(w, strings.Join(item, " ")+eol)

		return err
	}
}

// Dump writes a debug view of s to w, one token per line, with nested
// groups indented.
func Dump(w io.Writer, s Stream) error {
	return s.dump(writer(w), 0)
}

func (s Stream) dump(put func(string, ...string) error, indent int) error {
	prefix := strings.Repeat("  ", indent)

	for _, t := range s {
		var err error

		switch t.Kind {
		case KindGroup:
			err = put("\n", prefix+t.Kind.String(), t.Delim.String(), "@"+t.Span.String())
			if err == nil {
				if len(t.Stream) == 0 {
					err = put("\n", prefix+"  (empty)")
				} else {
					err = t.Stream.dump(put, indent+1)
				}
			}

		case KindPunct:
			spacing := "alone"
			if t.Joint {
				spacing = "joint"
			}

			err = put("\n", prefix+t.Kind.String(), t.Text, spacing, "@"+t.Span.String())

		default:
			err = put("\n", prefix+t.Kind.String(), t.Text, "@"+t.Span.String())
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// ToNative converts s to a tree of native Go maps and slices suitable for
// JSON or YAML encoding.
func (s Stream) ToNative() []any {
	result := make([]any, len(s))

	for i, t := range s {
		result[i] = t.ToNative()
	}

	return result
}

// ToNative converts t to a native Go map suitable for JSON or YAML encoding.
func (t Token) ToNative() map[string]any {
	node := map[string]any{
		"kind": t.Kind.String(),
		"span": t.Span.String(),
	}

	switch t.Kind {
	case KindGroup:
		node["delimiter"] = t.Delim.String()
		node["stream"] = t.Stream.ToNative()

	case KindPunct:
		node["text"] = t.Text
		node["joint"] = t.Joint

	default:
		node["text"] = t.Text
	}

	return node
}
