// Package splice locates compatible feed circuits for distribution
// circuits and guards feed pair ranges against double allocation.
package splice

import (
	"pairplan/internal/errors"
	"pairplan/internal/identifier"
	"pairplan/internal/plan"
)

// Match is the result of locating a feed circuit for a distribution
// circuit. FeedPairStart/FeedPairEnd are positions on the feed cable's
// physical numbering, derived by translating the logical offset of the
// distribution range onto the feed circuit's allocated physical range.
type Match struct {
	FeedCable   *plan.Cable
	FeedCircuit *plan.Circuit

	FeedPairStart int
	FeedPairEnd   int

	// Ambiguous counts additional feed circuits that also contain the
	// distribution range. First match wins over stable iteration order;
	// callers should surface the ambiguity rather than hide it.
	Ambiguous int
}

// Universe is the read-only snapshot the matcher scans: cables in
// creation order, circuits per cable in position order.
type Universe struct {
	Cables   []*plan.Cable
	Circuits map[string][]*plan.Circuit
}

// FindFeed locates the feed circuit whose identifier shares the
// distribution circuit's prefix and whose numeric range fully contains
// the distribution circuit's numeric range (boundary equality counts as
// containment). Identifier ranges and physical pair ranges are
// independent numbering systems, so the physical feed range is derived
// in two steps: offset within the feed's logical range, then translation
// onto the feed circuit's physical range.
func FindFeed(d *plan.Circuit, u Universe) (*Match, error) {
	dID, err := identifier.Parse(d.Identifier)
	if err != nil {
		return nil, err
	}

	var match *Match
	for _, cable := range u.Cables {
		if cable.Role != plan.RoleFeed || cable.ID == d.CableID {
			continue
		}
		for _, f := range u.Circuits[cable.ID] {
			fID, err := identifier.Parse(f.Identifier)
			if err != nil {
				// A feed circuit with a bad identifier can't be matched
				// against; skip it rather than failing the whole scan.
				continue
			}
			if !fID.Contains(dID) {
				continue
			}
			if match != nil {
				match.Ambiguous++
				continue
			}
			match = &Match{
				FeedCable:     cable,
				FeedCircuit:   f,
				FeedPairStart: f.PairStart + (dID.Start - fID.Start),
				FeedPairEnd:   f.PairStart + (dID.End - fID.Start),
			}
		}
	}

	if match == nil {
		return nil, errors.Newf(errors.NoMatchingFeedCircuit,
			"no feed circuit with prefix %q contains range %d-%d",
			dID.Prefix, dID.Start, dID.End)
	}
	return match, nil
}
