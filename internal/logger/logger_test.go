package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandlerStructural(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: LevelDebug}
	h := NewPrettyHandler(&buf, opts, false)
	l := slog.New(h)

	t.Run("WithAttrs", func(t *testing.T) {
		buf.Reset()
		l2 := l.With("run_id", "abc-123")
		l2.Info("scan complete", "files", 4)

		output := buf.String()
		if !strings.Contains(output, "run_id=") || !strings.Contains(output, "abc-123") {
			t.Errorf("output missing persistent attr: %q", output)
		}
		if !strings.Contains(output, "files=") || !strings.Contains(output, "4") {
			t.Errorf("output missing record attr: %q", output)
		}
	})

	t.Run("WithGroup", func(t *testing.T) {
		buf.Reset()
		l2 := l.WithGroup("batch").With("size", 12)
		l2.Info("dispatching", "target", "ja")

		output := buf.String()
		if !strings.Contains(output, "batch.size=") || !strings.Contains(output, "12") {
			t.Errorf("output missing grouped persistent attr: %q", output)
		}
		if !strings.Contains(output, "batch.target=") || !strings.Contains(output, "ja") {
			t.Errorf("output missing grouped record attr: %q", output)
		}
	})
}

func TestRedactAttr(t *testing.T) {
	t.Run("KeyBasedRedaction", func(t *testing.T) {
		for _, key := range []string{"api_key", "content", "prompt", "gemini_key"} {
			attr := RedactAttr(nil, slog.String(key, "something private"))
			if attr.Value.String() != "[REDACTED]" {
				t.Errorf("key %q not redacted: %v", key, attr.Value)
			}
		}
	})

	t.Run("ValueBasedRedaction", func(t *testing.T) {
		attr := RedactAttr(nil, slog.String("detail", "AIzaSyB1234567890abcdef"))
		if attr.Value.String() != "[REDACTED]" {
			t.Errorf("credential-looking value not redacted: %v", attr.Value)
		}
	})

	t.Run("PlainAttrsPassThrough", func(t *testing.T) {
		attr := RedactAttr(nil, slog.String("path", "example.py"))
		if attr.Value.String() != "example.py" {
			t.Errorf("plain attr mangled: %v", attr.Value)
		}
		attr = RedactAttr(nil, slog.Int("line", 42))
		if attr.Value.Int64() != 42 {
			t.Errorf("int attr mangled: %v", attr.Value)
		}
	})
}

func TestRedactionAppliedByHandler(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: LevelDebug, ReplaceAttr: RedactAttr}
	l := slog.New(NewPrettyHandler(&buf, opts, false))

	l.Info("configured", "api_key", "AIzaSyB1234567890abcdef", "path", "a.go")

	output := buf.String()
	if strings.Contains(output, "AIza") {
		t.Errorf("secret leaked into output: %q", output)
	}
	if !strings.Contains(output, "path=a.go") {
		t.Errorf("plain attr lost: %q", output)
	}
}
