package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelWarn), WithPretty(false))

	logger.Trace("trace message")
	logger.Debug("debug message")
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	for _, want := range []string{"warn message", "error message"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output: %s", want, out)
		}
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace), WithPretty(false))
	logger.TraceContext(t.Context(), "deep")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if got["level"] != "TRACE" {
		t.Errorf("expected TRACE, got %v", got["level"])
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false), WithTimeLayout("none"))
	logger.Info("hello", slog.String("key", "value"), slog.Int("n", 3))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if got["msg"] != "hello" || got["key"] != "value" || got["n"] != float64(3) {
		t.Errorf("unexpected record: %v", got)
	}

	if _, ok := got["time"]; ok {
		t.Error("expected time to be omitted")
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output: %s", buf.String())
	}
}

func TestLogger_PrettyText(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithTimeLayout("none"),
	).With(slog.String("component", "lang"))

	logger.Info("expanded", slog.Group("input", slog.Int("tokens", 4)))

	got := strings.TrimSpace(buf.String())
	want := "level=INFO msg=expanded component=lang input.tokens=4"

	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestLogger_PrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"))
	logger.Warn("nested", slog.Group("span", slog.Int("line", 1), slog.Int("column", 2)))

	want := strings.Join([]string{
		"{",
		"  level: WARN,",
		"  msg: nested,",
		"  span: {",
		"    line: 1,",
		"    column: 2",
		"  }",
		"}",
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError))
	debug := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError {
		t.Errorf("wrap modified original level: %v", base.Level())
	}

	if debug.Level() != LevelDebug {
		t.Errorf("expected wrapped level debug, got %v", debug.Level())
	}

	if debug.Format() != base.Format() {
		t.Error("expected wrapped logger to keep format")
	}
}

func TestLogger_Zero(t *testing.T) {
	var logger Logger

	logger.Info("dropped")
	logger.With(slog.String("k", "v")).Error("dropped")

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("expected defaults from zero logger")
	}

	if w := logger.Wrap(WithLevel(LevelDebug)); w.Level() != LevelDebug {
		t.Error("expected wrapped zero logger to apply options")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf bytes.Buffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))

	for i := range 16 {
		wg.Go(func() {
			logger.Info("message", slog.Int("i", i))
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("expected 16 lines, got %d", n)
	}
}
