package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("json"); err != nil {
		t.Errorf("json rejected: %v", err)
	}
	if _, err := ParseFormat("human"); err != nil {
		t.Errorf("human rejected: %v", err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml accepted")
	}
}

func TestEncodeJSON(t *testing.T) {
	data, err := EncodeJSON(map[string]string{"range": "1-8 & 9-12"})
	if err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}
	if strings.Contains(string(data), `&`) {
		t.Errorf("HTML escaping applied: %s", data)
	}
	if !strings.Contains(string(data), "1-8 & 9-12") {
		t.Errorf("value lost: %s", data)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, "NAME", "PAIRS")
	table.Row("F-100", 100)
	table.Row("D-50", 50)
	if err := table.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "NAME") || !strings.Contains(lines[1], "F-100") {
		t.Errorf("unexpected table output: %q", out)
	}
}
