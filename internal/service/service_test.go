package service

import (
	"os"
	"testing"

	"pairplan/internal/allocate"
	"pairplan/internal/errors"
	"pairplan/internal/logging"
	"pairplan/internal/plan"
	"pairplan/internal/storage"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "pairplan-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	db, err := storage.Open(tmpDir, logging.Discard())
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
		_ = os.RemoveAll(tmpDir)
	})
	return New(db, logging.Discard(), 25)
}

func mustCable(t *testing.T, s *Service, name string, pairs int, role plan.Role) *plan.Cable {
	t.Helper()
	c, err := s.CreateCable(name, pairs, role)
	if err != nil {
		t.Fatalf("CreateCable(%s) failed: %v", name, err)
	}
	return c
}

func mustCircuit(t *testing.T, s *Service, cableID, raw string) *plan.Circuit {
	t.Helper()
	c, err := s.AddCircuit(cableID, raw)
	if err != nil {
		t.Fatalf("AddCircuit(%s, %q) failed: %v", cableID, raw, err)
	}
	return c
}

// checkInvariant verifies the allocation postcondition on the stored
// circuit list: contiguous ranges from 1, dense positions.
func checkInvariant(t *testing.T, s *Service, cableID string) {
	t.Helper()
	circuits, err := s.Circuits(cableID)
	if err != nil {
		t.Fatalf("Circuits failed: %v", err)
	}
	next := 1
	for i, c := range circuits {
		if c.Position != i {
			t.Errorf("position gap: circuit %s at %d, want %d", c.ID, c.Position, i)
		}
		if c.PairStart != next {
			t.Errorf("range gap: circuit %s starts at %d, want %d", c.ID, c.PairStart, next)
		}
		next = c.PairEnd + 1
	}
}

func TestCreateCableValidation(t *testing.T) {
	s := setupService(t)

	if _, err := s.CreateCable("", 100, plan.RoleFeed); !errors.HasCode(err, errors.InvalidInput) {
		t.Errorf("empty name: got %v", err)
	}
	if _, err := s.CreateCable("X", 0, plan.RoleFeed); !errors.HasCode(err, errors.InvalidInput) {
		t.Errorf("zero pairs: got %v", err)
	}
	if _, err := s.CreateCable("X", 10, plan.Role("trunk")); !errors.HasCode(err, errors.InvalidInput) {
		t.Errorf("bad role: got %v", err)
	}
}

func TestAddCircuitAllocatesAndNormalizes(t *testing.T) {
	s := setupService(t)
	cable := mustCable(t, s, "D-50", 50, plan.RoleDistribution)

	c1 := mustCircuit(t, s, cable.ID, "pon 1 8")
	if c1.Identifier != "pon,1-8" {
		t.Errorf("identifier not normalized: %q", c1.Identifier)
	}
	mustCircuit(t, s, cable.ID, "pon,9-12")
	mustCircuit(t, s, cable.ID, "lg,1-25")

	circuits, _ := s.Circuits(cable.ID)
	if len(circuits) != 3 {
		t.Fatalf("got %d circuits, want 3", len(circuits))
	}
	checkInvariant(t, s, cable.ID)
	if circuits[2].PairStart != 13 || circuits[2].PairEnd != 37 {
		t.Errorf("third circuit range [%d,%d], want [13,37]", circuits[2].PairStart, circuits[2].PairEnd)
	}
}

func TestAddCircuitRejectsOverlapBeforeAllocation(t *testing.T) {
	s := setupService(t)
	cable := mustCable(t, s, "D-50", 50, plan.RoleDistribution)
	mustCircuit(t, s, cable.ID, "pon,1-8")

	_, err := s.AddCircuit(cable.ID, "pon,8-12")
	if !errors.HasCode(err, errors.OverlapError) {
		t.Fatalf("expected OVERLAP_ERROR, got %v", err)
	}

	// State untouched: still one circuit, invariant intact.
	circuits, _ := s.Circuits(cable.ID)
	if len(circuits) != 1 {
		t.Fatalf("failed add mutated state: %d circuits", len(circuits))
	}
	checkInvariant(t, s, cable.ID)

	if _, err := s.AddCircuit(cable.ID, "not an identifier"); !errors.HasCode(err, errors.FormatError) {
		t.Errorf("expected FORMAT_ERROR, got %v", err)
	}
}

func TestMoveAndRemoveKeepInvariant(t *testing.T) {
	s := setupService(t)
	cable := mustCable(t, s, "D-50", 50, plan.RoleDistribution)
	c1 := mustCircuit(t, s, cable.ID, "a,1-8")
	c2 := mustCircuit(t, s, cable.ID, "b,1-4")
	c3 := mustCircuit(t, s, cable.ID, "c,1-5")

	// Boundary moves are no-ops.
	if err := s.MoveCircuit(c1.ID, allocate.Up); err != nil {
		t.Fatalf("boundary move errored: %v", err)
	}
	if err := s.MoveCircuit(c3.ID, allocate.Down); err != nil {
		t.Fatalf("boundary move errored: %v", err)
	}
	circuits, _ := s.Circuits(cable.ID)
	if circuits[0].ID != c1.ID || circuits[2].ID != c3.ID {
		t.Fatal("boundary move changed order")
	}

	if err := s.MoveCircuit(c3.ID, allocate.Up); err != nil {
		t.Fatalf("MoveCircuit failed: %v", err)
	}
	circuits, _ = s.Circuits(cable.ID)
	if circuits[1].ID != c3.ID || circuits[2].ID != c2.ID {
		t.Errorf("order after move: %s,%s,%s", circuits[0].ID, circuits[1].ID, circuits[2].ID)
	}
	checkInvariant(t, s, cable.ID)

	if err := s.RemoveCircuit(c1.ID); err != nil {
		t.Fatalf("RemoveCircuit failed: %v", err)
	}
	circuits, _ = s.Circuits(cable.ID)
	if len(circuits) != 2 || circuits[0].ID != c3.ID {
		t.Errorf("unexpected circuits after remove: %+v", circuits)
	}
	checkInvariant(t, s, cable.ID)
	if circuits[0].PairStart != 1 || circuits[0].PairEnd != 5 {
		t.Errorf("ranges not recomputed after remove: [%d,%d]", circuits[0].PairStart, circuits[0].PairEnd)
	}
}

func TestEditCircuitRecomputesAndClearsLink(t *testing.T) {
	s := setupService(t)
	feed := mustCable(t, s, "F-100", 100, plan.RoleFeed)
	dist := mustCable(t, s, "D-50", 50, plan.RoleDistribution)
	mustCircuit(t, s, feed.ID, "pon,1-20")
	d1 := mustCircuit(t, s, dist.ID, "pon,1-8")
	d2 := mustCircuit(t, s, dist.ID, "lg,1-4")

	if _, err := s.ToggleSplice(d1.ID); err != nil {
		t.Fatalf("ToggleSplice failed: %v", err)
	}

	// Editing the spliced circuit's span clears its link.
	edited, err := s.EditCircuit(d1.ID, "pon,1-6")
	if err != nil {
		t.Fatalf("EditCircuit failed: %v", err)
	}
	if edited.IsSpliced || edited.FeedCableID != "" {
		t.Errorf("splice link not cleared on edit: %+v", edited)
	}
	checkInvariant(t, s, dist.ID)

	// Successor shifted down: lg,1-4 now starts at pair 7.
	got, _ := s.Circuit(d2.ID)
	if got.PairStart != 7 || got.PairEnd != 10 {
		t.Errorf("successor range [%d,%d], want [7,10]", got.PairStart, got.PairEnd)
	}

	// Overlap with sibling rejected; self-overlap on edit allowed.
	if _, err := s.EditCircuit(d2.ID, "pon,5-9"); !errors.HasCode(err, errors.OverlapError) {
		t.Errorf("expected OVERLAP_ERROR, got %v", err)
	}
	if _, err := s.EditCircuit(d2.ID, "lg,1-5"); err != nil {
		t.Errorf("edit keeping own prefix rejected: %v", err)
	}
}

func TestToggleSpliceMatchAndConflict(t *testing.T) {
	s := setupService(t)
	feed := mustCable(t, s, "F-100", 100, plan.RoleFeed)
	dist := mustCable(t, s, "D-50", 50, plan.RoleDistribution)

	// Feed circuit pon,1-20 occupies physical pairs 1-20.
	mustCircuit(t, s, feed.ID, "pon,1-20")
	d2 := mustCircuit(t, s, dist.ID, "pon,1-8")
	d3 := mustCircuit(t, s, dist.ID, "pon,9-12")

	got, err := s.ToggleSplice(d2.ID)
	if err != nil {
		t.Fatalf("ToggleSplice(d2) failed: %v", err)
	}
	if !got.IsSpliced || got.FeedCableID != feed.ID {
		t.Fatalf("splice link not set: %+v", got)
	}
	if got.FeedPairStart != 1 || got.FeedPairEnd != 8 {
		t.Errorf("feed range [%d,%d], want [1,8]", got.FeedPairStart, got.FeedPairEnd)
	}

	// d3 maps onto feed pairs 9-12; no conflict with d2's 1-8.
	if _, err := s.ToggleSplice(d3.ID); err != nil {
		t.Fatalf("ToggleSplice(d3) failed: %v", err)
	}

	// Toggle d3 back off so only d2's claim remains.
	if _, err := s.ToggleSplice(d3.ID); err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}

	// pon,8-12 overlaps sibling pon,1-8 inside the same cable, so the
	// conflict scenario needs a second distribution cable: its circuit
	// derives feed pairs 8-12, colliding with d2's claim on pair 8.
	dist2 := mustCable(t, s, "D-25", 25, plan.RoleDistribution)
	d5 := mustCircuit(t, s, dist2.ID, "pon,8-12")
	_, err = s.ToggleSplice(d5.ID)
	if !errors.HasCode(err, errors.FeedPairConflict) {
		t.Fatalf("expected FEED_PAIR_CONFLICT, got %v", err)
	}

	// Failure left d5 unspliced.
	got, _ = s.Circuit(d5.ID)
	if got.IsSpliced {
		t.Error("failed toggle left circuit spliced")
	}
}

func TestToggleSpliceNoMatch(t *testing.T) {
	s := setupService(t)
	feed := mustCable(t, s, "F-100", 100, plan.RoleFeed)
	dist := mustCable(t, s, "D-50", 50, plan.RoleDistribution)
	mustCircuit(t, s, feed.ID, "pon,9-20")
	d := mustCircuit(t, s, dist.ID, "pon,1-8")

	_, err := s.ToggleSplice(d.ID)
	if !errors.HasCode(err, errors.NoMatchingFeedCircuit) {
		t.Fatalf("expected NO_MATCHING_FEED_CIRCUIT, got %v", err)
	}
	got, _ := s.Circuit(d.ID)
	if got.IsSpliced {
		t.Error("failed match left circuit spliced")
	}
}

func TestToggleSpliceOnFeedCircuitRejected(t *testing.T) {
	s := setupService(t)
	feed := mustCable(t, s, "F-100", 100, plan.RoleFeed)
	fc := mustCircuit(t, s, feed.ID, "pon,1-20")

	if _, err := s.ToggleSplice(fc.ID); !errors.HasCode(err, errors.InvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestDeleteCableCascades(t *testing.T) {
	s := setupService(t)
	feed := mustCable(t, s, "F-100", 100, plan.RoleFeed)
	dist := mustCable(t, s, "D-50", 50, plan.RoleDistribution)
	mustCircuit(t, s, feed.ID, "pon,1-20")
	d := mustCircuit(t, s, dist.ID, "pon,1-8")

	if _, err := s.ToggleSplice(d.ID); err != nil {
		t.Fatalf("ToggleSplice failed: %v", err)
	}
	if _, err := s.AddSplice(SpliceInput{
		SourceCableID: dist.ID, SourcePairStart: 1, SourcePairEnd: 4,
		DestCableID: feed.ID, DestPairStart: 21, DestPairEnd: 24,
	}); err != nil {
		t.Fatalf("AddSplice failed: %v", err)
	}

	if err := s.DeleteCable(feed.ID); err != nil {
		t.Fatalf("DeleteCable failed: %v", err)
	}

	// Distribution circuit unspliced, manual splice gone, feed circuits gone.
	got, _ := s.Circuit(d.ID)
	if got.IsSpliced || got.FeedCableID != "" {
		t.Errorf("feed link survived cable deletion: %+v", got)
	}
	splices, _ := s.Splices()
	if len(splices) != 0 {
		t.Errorf("%d manual splices survived deletion", len(splices))
	}
	if _, err := s.Cable(feed.ID); !errors.HasCode(err, errors.NotFound) {
		t.Errorf("cable still present: %v", err)
	}
}

func TestManualSpliceValidation(t *testing.T) {
	s := setupService(t)
	a := mustCable(t, s, "A", 50, plan.RoleDistribution)
	b := mustCable(t, s, "B", 50, plan.RoleFeed)

	// Unequal lengths rejected.
	_, err := s.AddSplice(SpliceInput{
		SourceCableID: a.ID, SourcePairStart: 1, SourcePairEnd: 5,
		DestCableID: b.ID, DestPairStart: 1, DestPairEnd: 4,
	})
	if !errors.HasCode(err, errors.RangeMismatch) {
		t.Fatalf("expected RANGE_MISMATCH, got %v", err)
	}

	first, err := s.AddSplice(SpliceInput{
		SourceCableID: a.ID, SourcePairStart: 1, SourcePairEnd: 5,
		DestCableID: b.ID, DestPairStart: 11, DestPairEnd: 15,
		PONStart: 200, PONEnd: 204,
	})
	if err != nil {
		t.Fatalf("AddSplice failed: %v", err)
	}

	// Overlapping dest range on the same cable rejected.
	_, err = s.AddSplice(SpliceInput{
		SourceCableID: a.ID, SourcePairStart: 6, SourcePairEnd: 10,
		DestCableID: b.ID, DestPairStart: 15, DestPairEnd: 19,
	})
	if !errors.HasCode(err, errors.FeedPairConflict) {
		t.Fatalf("expected FEED_PAIR_CONFLICT, got %v", err)
	}

	if err := s.CompleteSplice(first.ID, true); err != nil {
		t.Fatalf("CompleteSplice failed: %v", err)
	}
	splices, _ := s.Splices()
	if len(splices) != 1 || !splices[0].Completed || splices[0].PONStart != 200 {
		t.Errorf("splice state unexpected: %+v", splices[0])
	}
}

func TestCableSummary(t *testing.T) {
	s := setupService(t)
	cable := mustCable(t, s, "D-30", 30, plan.RoleDistribution)
	mustCircuit(t, s, cable.ID, "a,1-19") // pairs 1-19
	mustCircuit(t, s, cable.ID, "b,1-11") // pairs 20-30, spans binders 1 and 2

	summary, err := s.CableSummary(cable.ID)
	if err != nil {
		t.Fatalf("CableSummary failed: %v", err)
	}
	if summary.TotalAssigned != 30 || !summary.WithinCapacity {
		t.Errorf("total=%d within=%v, want 30/true", summary.TotalAssigned, summary.WithinCapacity)
	}
	segs := summary.Circuits[1].Segments
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(segs), segs)
	}
	if segs[0].Binder != 1 || segs[0].Start != 20 || segs[0].End != 25 {
		t.Errorf("segment 0 = %+v, want binder 1 pairs 20-25", segs[0])
	}
	if segs[1].Binder != 2 || segs[1].Start != 1 || segs[1].End != 5 {
		t.Errorf("segment 1 = %+v, want binder 2 pairs 1-5", segs[1])
	}

	// Over capacity reported, not blocked.
	mustCircuit(t, s, cable.ID, "c,1-5")
	summary, _ = s.CableSummary(cable.ID)
	if summary.WithinCapacity {
		t.Error("over-capacity cable reported as within capacity")
	}
}

func TestSnapshotRestoreNormalizes(t *testing.T) {
	s := setupService(t)
	feed := mustCable(t, s, "F-100", 100, plan.RoleFeed)
	dist := mustCable(t, s, "D-50", 50, plan.RoleDistribution)
	mustCircuit(t, s, feed.ID, "pon,1-20")
	d := mustCircuit(t, s, dist.ID, "pon,1-8")
	if _, err := s.ToggleSplice(d.ID); err != nil {
		t.Fatalf("ToggleSplice failed: %v", err)
	}

	snapshot, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	// Corrupt the derived ranges and dangle the splice link; restore must
	// recompute the former and clear the latter.
	for _, c := range snapshot.Circuits {
		c.PairStart = 999
		c.PairEnd = 0
		if c.IsSpliced {
			c.FeedCableID = "deleted-cable"
		}
	}

	if err := s.Restore(snapshot); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	checkInvariant(t, s, feed.ID)
	checkInvariant(t, s, dist.ID)

	restored, _ := s.Circuits(dist.ID)
	if len(restored) != 1 {
		t.Fatalf("got %d circuits, want 1", len(restored))
	}
	if restored[0].PairStart != 1 || restored[0].PairEnd != 8 {
		t.Errorf("derived range not recomputed: [%d,%d]", restored[0].PairStart, restored[0].PairEnd)
	}
	if restored[0].IsSpliced {
		t.Error("dangling splice link survived restore")
	}
}

func TestRestoreIsIdempotentOnCleanSnapshot(t *testing.T) {
	s := setupService(t)
	cable := mustCable(t, s, "D-50", 50, plan.RoleDistribution)
	mustCircuit(t, s, cable.ID, "pon,1-8")
	mustCircuit(t, s, cable.ID, "pon,9-12")

	before, _ := s.Snapshot()
	if err := s.Restore(before); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	after, _ := s.Snapshot()

	if len(before.Circuits) != len(after.Circuits) {
		t.Fatalf("circuit count changed: %d -> %d", len(before.Circuits), len(after.Circuits))
	}
	for i := range before.Circuits {
		b, a := before.Circuits[i], after.Circuits[i]
		if b.PairStart != a.PairStart || b.PairEnd != a.PairEnd || b.Position != a.Position {
			t.Errorf("circuit %s changed: %+v -> %+v", b.ID, b, a)
		}
	}
}
