package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: WarnLevel, Output: &buf})

	logger.Debug("dropped", nil)
	logger.Info("dropped", nil)
	logger.Warn("kept warn", nil)
	logger.Error("kept error", nil)

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("output contains filtered messages: %q", out)
	}
	if !strings.Contains(out, "kept warn") || !strings.Contains(out, "kept error") {
		t.Errorf("output missing messages at or above level: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	logger.Info("allocated", Fields{"cable": "F-100", "pairs": 37})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "allocated" {
		t.Errorf("message = %v, want allocated", entry["message"])
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok || fields["cable"] != "F-100" {
		t.Errorf("fields not preserved: %v", entry["fields"])
	}
}

func TestHumanFormatFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})

	logger.Info("msg", Fields{"zebra": 1, "alpha": 2})

	out := buf.String()
	if strings.Index(out, "alpha") > strings.Index(out, "zebra") {
		t.Errorf("fields not sorted: %q", out)
	}
}

func TestDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Output: &buf})

	logger.Debug("hidden", nil)
	logger.Info("shown", nil)

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug message logged at default level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info message missing at default level")
	}
}
