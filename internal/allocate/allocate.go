// Package allocate recomputes the derived physical pair ranges of a
// cable's circuits from their order and identifier pair counts.
//
// The circuit list of one cable is treated as a single value: every
// structural change (insert, delete, move, identifier edit) reindexes
// positions and recomputes all ranges, then the caller replaces the
// stored list wholesale.
package allocate

import (
	"fmt"

	"pairplan/internal/errors"
	"pairplan/internal/identifier"
	"pairplan/internal/plan"
)

// Reindex assigns dense 0-based positions following the slice order.
func Reindex(circuits []*plan.Circuit) {
	for i, c := range circuits {
		c.Position = i
	}
}

// Recompute walks the circuits in slice order and rewrites each derived
// [PairStart, PairEnd] range: the first circuit starts at pair 1, each
// subsequent circuit starts immediately after its predecessor, and each
// span length equals the identifier's pair count. Returns the total
// number of assigned pairs. Recompute is idempotent.
func Recompute(circuits []*plan.Circuit) (int, error) {
	next := 1
	for _, c := range circuits {
		id, err := identifier.Parse(c.Identifier)
		if err != nil {
			return 0, fmt.Errorf("circuit %s: %w", c.ID, err)
		}
		c.PairStart = next
		c.PairEnd = next + id.PairCount() - 1
		next = c.PairEnd + 1
	}
	return next - 1, nil
}

// ValidateSibling rejects a raw identifier that is malformed or whose
// numeric range overlaps any sibling identifier in the same cable under
// the shared-prefix overlap algebra. excludeID skips the circuit being
// edited. This runs before allocation; the allocator assumes all
// identifiers within one cable are pairwise non-overlapping.
func ValidateSibling(circuits []*plan.Circuit, raw string, excludeID string) error {
	if _, err := identifier.Parse(raw); err != nil {
		return err
	}
	for _, c := range circuits {
		if c.ID == excludeID {
			continue
		}
		if identifier.Overlaps(raw, c.Identifier) {
			return errors.Newf(errors.OverlapError,
				"identifier %q overlaps circuit %s (%q)", raw, c.ID, c.Identifier)
		}
	}
	return nil
}

// CheckCapacity compares total assigned pairs against the cable capacity.
// Over-capacity is reported, not blocked; callers surface it as a warning.
func CheckCapacity(totalAssigned, capacity int) error {
	if totalAssigned > capacity {
		return errors.Newf(errors.CapacityExceeded,
			"%d pairs assigned exceeds cable capacity of %d", totalAssigned, capacity)
	}
	return nil
}

// Direction selects which neighbor a circuit swaps with in a move.
type Direction int

const (
	// Up moves a circuit toward position 0
	Up Direction = -1
	// Down moves a circuit toward the end of the list
	Down Direction = 1
)

// Move swaps the circuit at index with its neighbor in the given
// direction and returns true. A move past either end of the list is a
// no-op and returns false. Positions and ranges are not touched; callers
// follow a successful move with Reindex and Recompute.
func Move(circuits []*plan.Circuit, index int, dir Direction) bool {
	target := index + int(dir)
	if index < 0 || index >= len(circuits) || target < 0 || target >= len(circuits) {
		return false
	}
	circuits[index], circuits[target] = circuits[target], circuits[index]
	return true
}
