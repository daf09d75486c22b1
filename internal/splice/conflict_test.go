package splice

import (
	"strings"
	"testing"

	"pairplan/internal/errors"
	"pairplan/internal/plan"
)

func TestCheckConflict(t *testing.T) {
	// d2 ("pon,1-8") already holds feed pairs 1-8 on f1; d3 ("pon,8-12")
	// deriving feed pairs 8-12 must be rejected: pair 8 is claimed twice.
	claims := []Claim{{CircuitID: "d2", Start: 1, End: 8}}

	err := CheckConflict(8, 12, claims)
	if !errors.HasCode(err, errors.FeedPairConflict) {
		t.Fatalf("expected FEED_PAIR_CONFLICT, got %v", err)
	}

	// The error names the conflicting circuit.
	if got := err.Error(); !strings.Contains(got, "d2") {
		t.Errorf("conflict error %q does not name circuit d2", got)
	}

	if err := CheckConflict(9, 12, claims); err != nil {
		t.Errorf("adjacent range rejected: %v", err)
	}
	if err := CheckConflict(20, 30, nil); err != nil {
		t.Errorf("no claims should never conflict: %v", err)
	}
}

func TestClaimsOnFeed(t *testing.T) {
	circuits := []*plan.Circuit{
		{ID: "d2", IsSpliced: true, FeedCableID: "f1", FeedPairStart: 1, FeedPairEnd: 8},
		{ID: "d4", IsSpliced: true, FeedCableID: "f2", FeedPairStart: 1, FeedPairEnd: 4},
		{ID: "d5", IsSpliced: false, FeedCableID: "", FeedPairStart: 0, FeedPairEnd: 0},
		{ID: "d6", IsSpliced: true, FeedCableID: "f1", FeedPairStart: 20, FeedPairEnd: 25},
	}

	claims := ClaimsOnFeed(circuits, "f1", "")
	if len(claims) != 2 {
		t.Fatalf("got %d claims, want 2", len(claims))
	}

	// The circuit being re-toggled excludes its own old claim.
	claims = ClaimsOnFeed(circuits, "f1", "d2")
	if len(claims) != 1 || claims[0].CircuitID != "d6" {
		t.Fatalf("exclusion failed: %+v", claims)
	}
}

func TestCheckSpliceOverlap(t *testing.T) {
	existing := []*plan.Splice{
		{ID: "s1", DestCableID: "f1", DestPairStart: 1, DestPairEnd: 10},
		{ID: "s2", DestCableID: "f2", DestPairStart: 1, DestPairEnd: 10},
	}

	if err := CheckSpliceOverlap("f1", 10, 15, existing); !errors.HasCode(err, errors.FeedPairConflict) {
		t.Errorf("expected FEED_PAIR_CONFLICT, got %v", err)
	}
	if err := CheckSpliceOverlap("f1", 11, 15, existing); err != nil {
		t.Errorf("non-overlapping splice rejected: %v", err)
	}
	if err := CheckSpliceOverlap("f3", 1, 10, existing); err != nil {
		t.Errorf("different cable rejected: %v", err)
	}
}
