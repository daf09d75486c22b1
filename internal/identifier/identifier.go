// Package identifier parses and normalizes circuit identifiers of the
// form "prefix,start-end" and provides the overlap algebra used by
// allocation and splice matching.
package identifier

import (
	"fmt"
	"strconv"
	"strings"

	"pairplan/internal/errors"
)

// Identifier is the parsed form of a circuit identifier.
type Identifier struct {
	Prefix string
	Start  int
	End    int
}

// String reconstructs the canonical "prefix,start-end" form.
func (id Identifier) String() string {
	return fmt.Sprintf("%s,%d-%d", id.Prefix, id.Start, id.End)
}

// PairCount returns the number of pairs the identifier spans.
func (id Identifier) PairCount() int {
	return id.End - id.Start + 1
}

// Contains reports whether other's numeric range lies fully inside id's
// range and both share a prefix. Exact equality is a valid containment.
func (id Identifier) Contains(other Identifier) bool {
	return id.Prefix == other.Prefix && id.Start <= other.Start && other.End <= id.End
}

// Intersects reports whether two identifiers share a prefix and their
// numeric ranges intersect.
func (id Identifier) Intersects(other Identifier) bool {
	return id.Prefix == other.Prefix && id.Start <= other.End && other.Start <= id.End
}

// Parse parses a raw identifier string into its typed form.
//
// The canonical grammar is "prefix,start-end". A legacy whitespace form
// "token... start end" is accepted: all tokens except the last two are
// concatenated (no separator) into the prefix and the final two tokens
// become start and end. A string that already contains a comma skips
// legacy normalization entirely.
func Parse(raw string) (Identifier, error) {
	canonical := normalizeLegacy(raw)

	prefix, rangePart, ok := strings.Cut(canonical, ",")
	if !ok {
		return Identifier{}, errors.Newf(errors.FormatError,
			"identifier %q is not in prefix,start-end form", raw)
	}

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Identifier{}, errors.Newf(errors.FormatError,
			"identifier %q has an empty prefix", raw)
	}

	startStr, endStr, ok := strings.Cut(strings.TrimSpace(rangePart), "-")
	if !ok {
		return Identifier{}, errors.Newf(errors.FormatError,
			"identifier %q range part is not start-end", raw)
	}

	start, err := parseBound(startStr)
	if err != nil {
		return Identifier{}, errors.Wrap(errors.FormatError,
			fmt.Sprintf("identifier %q has a bad start bound", raw), err)
	}
	end, err := parseBound(endStr)
	if err != nil {
		return Identifier{}, errors.Wrap(errors.FormatError,
			fmt.Sprintf("identifier %q has a bad end bound", raw), err)
	}

	if start > end {
		return Identifier{}, errors.Newf(errors.FormatError,
			"identifier %q range is reversed (%d > %d)", raw, start, end)
	}

	return Identifier{Prefix: prefix, Start: start, End: end}, nil
}

// Normalize returns the canonical "prefix,start-end" string for raw.
// Normalizing an already-canonical identifier is a no-op.
func Normalize(raw string) (string, error) {
	id, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// PairCount parses raw and returns the number of pairs it spans.
func PairCount(raw string) (int, error) {
	id, err := Parse(raw)
	if err != nil {
		return 0, err
	}
	return id.PairCount(), nil
}

// Overlaps reports whether two raw identifiers share a prefix and their
// numeric ranges intersect. Malformed input on either side yields false;
// the overlap check degrades rather than propagating a parse failure.
func Overlaps(rawA, rawB string) bool {
	a, err := Parse(rawA)
	if err != nil {
		return false
	}
	b, err := Parse(rawB)
	if err != nil {
		return false
	}
	return a.Intersects(b)
}

// normalizeLegacy rewrites the whitespace-delimited legacy form into the
// comma form. Input already containing a comma passes through unchanged.
func normalizeLegacy(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.Contains(trimmed, ",") {
		return trimmed
	}

	fields := strings.Fields(trimmed)
	if len(fields) < 3 {
		return trimmed
	}

	prefix := strings.Join(fields[:len(fields)-2], "")
	start := fields[len(fields)-2]
	end := fields[len(fields)-1]
	return prefix + "," + start + "-" + end
}

// parseBound parses a digits-only non-negative range bound.
func parseBound(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty bound")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("bound %q is not digits", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return n, nil
}
