package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, l := range []string{"trace", "debug", "info", "warn", "error", "disabled", "Debug"} {
		if !ValidLevel(l) {
			t.Errorf("ValidLevel(%q) = false", l)
		}
	}
	for _, l := range []string{"", "verbose", "fatal"} {
		if ValidLevel(l) {
			t.Errorf("ValidLevel(%q) = true", l)
		}
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "info")

	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "m/44'/195'/0'/0/0").Msg("derived")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["message"] != "derived" || entry["level"] != "info" {
		t.Errorf("entry = %v", entry)
	}
	if entry["path"] != "m/44'/195'/0'/0/0" {
		t.Errorf("path field = %v", entry["path"])
	}
}

func TestInit_File(t *testing.T) {
	prev := Logger
	t.Cleanup(func() {
		Logger = prev
		initComponentLoggers()
	})

	file := filepath.Join(t.TempDir(), "tronkey.log")
	if err := Init("debug", true, file); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	Keystore.Debug().Msg("opened")

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"component":"keystore"`) {
		t.Errorf("log file missing component field: %s", data)
	}
}
