// Package output renders command results as JSON or human-readable
// tables.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Format selects the rendering of command output.
type Format string

const (
	// JSON renders indented JSON
	JSON Format = "json"
	// Human renders aligned plain-text tables
	Human Format = "human"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case JSON, Human:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or human)", s)
	}
}

// EncodeJSON renders v as indented JSON without HTML escaping.
func EncodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Table writes aligned rows. Header is optional (nil skips it).
type Table struct {
	w   *tabwriter.Writer
	out io.Writer
}

// NewTable creates a table writer over out.
func NewTable(out io.Writer, header ...string) *Table {
	t := &Table{
		w:   tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
		out: out,
	}
	if len(header) > 0 {
		t.Row(toAny(header)...)
	}
	return t
}

// Row appends one row of cells.
func (t *Table) Row(cells ...interface{}) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(t.w, "\t")
		}
		fmt.Fprint(t.w, c)
	}
	fmt.Fprintln(t.w)
}

// Flush renders the accumulated rows.
func (t *Table) Flush() error {
	return t.w.Flush()
}

func toAny(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
