// Package binder segments physical pair ranges into per-binder spans.
// A binder is a fixed-size group of consecutive pairs (25 in standard
// multi-pair copper cable construction).
package binder

// DefaultSize is the standard binder group size.
const DefaultSize = 25

// Segment is a contiguous run of pairs inside a single binder. Start and
// End are 1-indexed positions within the binder, inclusive.
type Segment struct {
	Binder int `json:"binder"`
	Start  int `json:"start"`
	End    int `json:"end"`
}

// Number returns the binder number a physical pair belongs to (1-indexed).
func Number(pair, size int) int {
	return (pair-1)/size + 1
}

// Position returns the pair's 1-indexed position within its binder.
func Position(pair, size int) int {
	return (pair-1)%size + 1
}

// Segments splits the physical pair range [pairStart, pairEnd] into an
// ordered, gap-free sequence of per-binder segments. A new segment opens
// whenever the binder number changes; the first and last segments may be
// partial. An inverted or non-positive range yields nil.
func Segments(pairStart, pairEnd, size int) []Segment {
	if size <= 0 || pairStart < 1 || pairEnd < pairStart {
		return nil
	}

	var segs []Segment
	for pair := pairStart; pair <= pairEnd; {
		b := Number(pair, size)
		binderEnd := b * size
		runEnd := pairEnd
		if binderEnd < runEnd {
			runEnd = binderEnd
		}
		segs = append(segs, Segment{
			Binder: b,
			Start:  Position(pair, size),
			End:    Position(runEnd, size),
		})
		pair = runEnd + 1
	}
	return segs
}
