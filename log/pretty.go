package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the handler's writer, so output to a non-terminal carries
// no escape sequences.
type palette struct {
	key, str, num, on, off, dur, null lipgloss.Style

	trace, debug, info, warn, err lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		on:    fg("2"),
		off:   fg("1"),
		dur:   fg("5"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

func (p palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return p.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return p.on.Render("true")
		}

		return p.off.Render("false")

	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())

	case slog.KindAny:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		return p.str.Render(v.String())

	default:
		return p.str.Render(v.String())
	}
}

// field is a resolved attribute with its group-qualified path.
type field struct {
	path []string
	val  slog.Value
}

// flatten resolves a and appends it, expanding groups, under prefix.
func flatten(dst []field, prefix []string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return dst
	}

	path := append(prefix[:len(prefix):len(prefix)], a.Key)

	if a.Value.Kind() != slog.KindGroup {
		return append(dst, field{path: path, val: a.Value})
	}

	if a.Key == "" {
		path = prefix
	}

	for _, g := range a.Value.Group() {
		dst = flatten(dst, path, g)
	}

	return dst
}

// prettyHandler carries the state shared by the text and JSON handlers.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	style      palette
	mu         *sync.Mutex
	w          io.Writer
	fields     []field
	groups     []string
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// record splits r into its builtin fields and its attributes.
func (h *prettyHandler) record(r slog.Record) (head []field, attrs []field) {
	if t := h.formatTime(r.Time); !r.Time.IsZero() && t != "" {
		head = append(head, field{[]string{slog.TimeKey}, slog.StringValue(t)})
	}

	head = append(head, field{[]string{slog.LevelKey}, slog.AnyValue(r.Level)})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			loc := src.File + ":" + strconv.Itoa(src.Line)
			head = append(head, field{[]string{slog.SourceKey}, slog.StringValue(loc)})
		}
	}

	head = append(head, field{[]string{slog.MessageKey}, slog.StringValue(r.Message)})

	attrs = append(attrs, h.fields...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = flatten(attrs, h.groups, a)

		return true
	})

	return head, attrs
}

func (h *prettyHandler) render(f field) string {
	if level, ok := f.val.Any().(slog.Level); ok && f.val.Kind() == slog.KindAny {
		return h.style.level(level).Render(strings.ToUpper(Level(level).String()))
	}

	return h.style.value(f.val)
}

func (h *prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	fields := h.fields[:len(h.fields):len(h.fields)]
	for _, a := range attrs {
		fields = flatten(fields, h.groups, a)
	}

	h.fields = fields

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name != "" {
		h.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	}

	return h
}

// prettyTextHandler writes one line per record: key=value pairs with
// unquoted, colorized values.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		style:      newPalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	head, attrs := h.record(r)

	for i, f := range append(head, attrs...) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(strings.Join(f.path, ".")))
		buf.WriteByte('=')
		buf.WriteString(h.render(f))
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes each record as an indented, colorized object
// with groups nested.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		style:      newPalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	head, attrs := h.record(r)

	buf.WriteString("{")

	var open []string // group path of the innermost open object

	for i, f := range append(head, attrs...) {
		dir, key := f.path[:len(f.path)-1], f.path[len(f.path)-1]

		// Close objects not shared with this field's path.
		common := 0
		for common < len(open) && common < len(dir) && open[common] == dir[common] {
			common++
		}

		for len(open) > common {
			open = open[:len(open)-1]
			buf.WriteString("\n" + strings.Repeat("  ", len(open)+1) + "}")
		}

		if i > 0 {
			buf.WriteByte(',')
		}

		for _, g := range dir[common:] {
			buf.WriteString("\n" + strings.Repeat("  ", len(open)+1))
			buf.WriteString(h.style.key.Render(g) + ": {")

			open = append(open, g)
		}

		buf.WriteString("\n" + strings.Repeat("  ", len(open)+1))
		buf.WriteString(h.style.key.Render(key) + ": " + h.render(f))
	}

	for len(open) > 0 {
		open = open[:len(open)-1]
		buf.WriteString("\n" + strings.Repeat("  ", len(open)+1) + "}")
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
