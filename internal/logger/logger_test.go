package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/neomorfeo/onboardiq/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriter_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.Logging{Level: "warn", Service: "onboardiq"}, &buf)

	log.Info("dropped")
	log.Warn("kept", "request_id", "r-1")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("got %d records, want 1: %s", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal(lines[0], &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["service"] != "onboardiq" {
		t.Errorf("service = %v, want onboardiq", rec["service"])
	}
	if rec["msg"] != "kept" || rec["request_id"] != "r-1" {
		t.Errorf("record = %v", rec)
	}
}
