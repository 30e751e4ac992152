package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected invalid level error")
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.log")
	logger, closer, err := New(Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug().Msg("hidden")
	logger.Info().Str("action", "signal").Msg("action finished")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above debug, got %d", len(lines))
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json line: %v", err)
	}
	if entry["action"] != "signal" || entry["message"] != "action finished" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestBuildConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := build(&buf, zerolog.DebugLevel, "console", "")
	logger.Debug().Str("op", "get-signal").Msg("backend call failed")
	out := buf.String()
	if !strings.Contains(out, "backend call failed") || !strings.Contains(out, "op=get-signal") {
		t.Fatalf("unexpected console output %q", out)
	}
}
