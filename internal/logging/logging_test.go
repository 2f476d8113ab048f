package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		"WARN":     slog.LevelWarn,
		"warning":  slog.LevelWarn,
		"error":    slog.LevelError,
		"info":     slog.LevelInfo,
		"":         slog.LevelInfo,
		"verbeux":  slog.LevelInfo,
		" Debug  ": slog.LevelDebug,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden below the configured level")
	logger.Warn("planning recompute slow", "year", 2026)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not a single JSON record: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "planning recompute slow" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["year"] != float64(2026) {
		t.Errorf("year = %v", entry["year"])
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := slog.Default()
	ctx := ContextWithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("expected the attached logger back")
	}
	if FromContext(context.Background()) != nil {
		t.Error("expected nil for a bare context")
	}
}
