package splice

import (
	"pairplan/internal/errors"
	"pairplan/internal/plan"
)

// Claim is an already-assigned physical pair range on a feed cable.
type Claim struct {
	CircuitID string
	Start     int
	End       int
}

// ClaimsOnFeed collects the feed pair claims held by spliced circuits
// referencing the given feed cable, excluding the circuit identified by
// excludeID (the one whose candidate range is being checked).
func ClaimsOnFeed(circuits []*plan.Circuit, feedCableID, excludeID string) []Claim {
	var claims []Claim
	for _, c := range circuits {
		if !c.IsSpliced || c.FeedCableID != feedCableID || c.ID == excludeID {
			continue
		}
		claims = append(claims, Claim{CircuitID: c.ID, Start: c.FeedPairStart, End: c.FeedPairEnd})
	}
	return claims
}

// CheckConflict reports whether the candidate range [start, end] on a
// feed cable intersects any existing claim. Runs between matching and
// persisting; a hit aborts the splice toggle.
func CheckConflict(start, end int, claims []Claim) error {
	for _, claim := range claims {
		if start <= claim.End && claim.Start <= end {
			return errors.Newf(errors.FeedPairConflict,
				"feed pairs %d-%d are already claimed by circuit %s (%d-%d)",
				start, end, claim.CircuitID, claim.Start, claim.End).
				WithDetails(claim)
		}
	}
	return nil
}

// CheckSpliceOverlap guards manual splice records: the candidate dest
// range must not intersect any existing splice's dest range on the same
// cable.
func CheckSpliceOverlap(destCableID string, start, end int, existing []*plan.Splice) error {
	for _, s := range existing {
		if s.DestCableID != destCableID {
			continue
		}
		if start <= s.DestPairEnd && s.DestPairStart <= end {
			return errors.Newf(errors.FeedPairConflict,
				"dest pairs %d-%d overlap splice %s (%d-%d)",
				start, end, s.ID, s.DestPairStart, s.DestPairEnd)
		}
	}
	return nil
}
