package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	return slog.New(&prettyHandler{writer: buf, level: levelVar})
}

func TestPrettyHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo)

	logger.Info("download complete", "url", "https://example.test/v", "tracks", 12)

	line := buf.String()
	if !strings.Contains(line, "INFO") {
		t.Fatalf("line %q missing level", line)
	}
	if !strings.Contains(line, "download complete") {
		t.Fatalf("line %q missing message", line)
	}
	if !strings.Contains(line, "url=https://example.test/v") {
		t.Fatalf("line %q missing url attr", line)
	}
	if !strings.Contains(line, "tracks=12") {
		t.Fatalf("line %q missing int attr", line)
	}
}

func TestPrettyHandlerComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestLogger(&buf, slog.LevelInfo), "downloads")

	logger.Info("task started")

	line := buf.String()
	if !strings.Contains(line, "downloads: task started") {
		t.Fatalf("line %q should fold the component into the prefix", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("line %q should not repeat the component as an attr", line)
	}
}

func TestPrettyHandlerQuotesAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo)

	logger.Warn("problem", Args(String("title", "two words"), Error(errors.New("boom failed")))...)

	line := buf.String()
	if !strings.Contains(line, `title="two words"`) {
		t.Fatalf("line %q should quote spaced values", line)
	}
	if !strings.Contains(line, `error="boom failed"`) {
		t.Fatalf("line %q should render the error attr", line)
	}
}

func TestPrettyHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelWarn)

	logger.Info("quiet")
	logger.Warn("loud")

	line := buf.String()
	if strings.Contains(line, "quiet") {
		t.Fatalf("output %q should suppress info below the level", line)
	}
	if !strings.Contains(line, "loud") {
		t.Fatalf("output %q should keep warnings", line)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NopLogger()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("no-op logger should report disabled at every level")
	}
}
