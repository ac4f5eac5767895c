package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.name); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("shown", "file", "a.db")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Error("Expected info record to be filtered")
	}
	if !strings.Contains(output, "msg=shown") || !strings.Contains(output, "file=a.db") {
		t.Errorf("Expected warn record in output, got %q", output)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "json").Debug("table copied", "rows", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "table copied" {
		t.Errorf("Expected msg 'table copied', got %v", record["msg"])
	}
	if record["rows"] != float64(3) {
		t.Errorf("Expected rows 3, got %v", record["rows"])
	}
}
