package service

import (
	"database/sql"
	"sort"
	"time"

	"pairplan/internal/allocate"
	"pairplan/internal/binder"
	"pairplan/internal/logging"
	"pairplan/internal/plan"
	"pairplan/internal/storage"
)

// CircuitView pairs a circuit with its binder segmentation for display.
// FeedSegments is populated for spliced circuits, segmented against the
// feed cable's binder size.
type CircuitView struct {
	Circuit      *plan.Circuit    `json:"circuit"`
	Segments     []binder.Segment `json:"segments"`
	FeedSegments []binder.Segment `json:"feedSegments,omitempty"`
}

// Summary is the capacity report for one cable.
type Summary struct {
	Cable          *plan.Cable   `json:"cable"`
	Circuits       []CircuitView `json:"circuits"`
	TotalAssigned  int           `json:"totalAssigned"`
	WithinCapacity bool          `json:"withinCapacity"`
}

// CableSummary composes the display view of one cable: circuits in
// position order, per-binder segments, and the assigned-vs-capacity
// figure.
func (s *Service) CableSummary(cableID string) (*Summary, error) {
	cable, err := s.Cable(cableID)
	if err != nil {
		return nil, err
	}
	circuits, err := s.circuits.ListByCable(cableID)
	if err != nil {
		return nil, err
	}

	feedSizes := map[string]int{}
	summary := &Summary{Cable: cable}
	total := 0
	for _, c := range circuits {
		view := CircuitView{
			Circuit:  c,
			Segments: binder.Segments(c.PairStart, c.PairEnd, cable.BinderSize),
		}
		if c.IsSpliced && c.FeedCableID != "" {
			size, ok := feedSizes[c.FeedCableID]
			if !ok {
				// A dangling feed reference renders with the default size
				// rather than failing the whole summary.
				size = binder.DefaultSize
				if feed, err := s.cables.GetByID(c.FeedCableID); err == nil && feed != nil {
					size = feed.BinderSize
				}
				feedSizes[c.FeedCableID] = size
			}
			view.FeedSegments = binder.Segments(c.FeedPairStart, c.FeedPairEnd, size)
		}
		summary.Circuits = append(summary.Circuits, view)
		total += c.PairSpan()
	}

	summary.TotalAssigned = total
	summary.WithinCapacity = total <= cable.PairCount
	return summary, nil
}

// Snapshot reads the full plan state as one portable value.
func (s *Service) Snapshot() (*plan.Snapshot, error) {
	cables, err := s.cables.List()
	if err != nil {
		return nil, err
	}
	circuits, err := s.circuits.ListAll()
	if err != nil {
		return nil, err
	}
	splices, err := s.splices.List()
	if err != nil {
		return nil, err
	}
	return &plan.Snapshot{Cables: cables, Circuits: circuits, Splices: splices}, nil
}

// Restore replaces the whole plan with the snapshot's contents. Loaded
// circuits are re-normalized: positions reindexed per cable, derived
// ranges recomputed, splice links pointing at cables absent from the
// snapshot cleared, manual splices with missing cables dropped. Restore
// is all-or-nothing.
func (s *Service) Restore(snapshot *plan.Snapshot) error {
	cableIDs := make(map[string]*plan.Cable, len(snapshot.Cables))
	for _, c := range snapshot.Cables {
		cableIDs[c.ID] = c
	}

	byCable := map[string][]*plan.Circuit{}
	orphaned := 0
	for _, c := range snapshot.Circuits {
		if _, ok := cableIDs[c.CableID]; !ok {
			orphaned++
			continue
		}
		if c.FeedCableID != "" {
			if _, ok := cableIDs[c.FeedCableID]; !ok {
				c.ClearFeedLink()
			}
		}
		byCable[c.CableID] = append(byCable[c.CableID], c)
	}
	if orphaned > 0 {
		s.logger.Warn("snapshot contains circuits of missing cables", logging.Fields{
			"dropped": orphaned,
		})
	}

	for id, circuits := range byCable {
		sort.Slice(circuits, func(i, j int) bool { return circuits[i].Position < circuits[j].Position })
		allocate.Reindex(circuits)
		total, err := allocate.Recompute(circuits)
		if err != nil {
			return err
		}
		if err := allocate.CheckCapacity(total, cableIDs[id].PairCount); err != nil {
			s.logger.Warn("restored cable over capacity", logging.Fields{
				"cable": id, "assigned": total, "capacity": cableIDs[id].PairCount,
			})
		}
	}

	var keptSplices []*plan.Splice
	for _, sp := range snapshot.Splices {
		if _, ok := cableIDs[sp.SourceCableID]; !ok {
			continue
		}
		if _, ok := cableIDs[sp.DestCableID]; !ok {
			continue
		}
		keptSplices = append(keptSplices, sp)
	}

	return s.db.WithTx(func(tx *sql.Tx) error {
		if err := storage.WipeTx(tx); err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, c := range snapshot.Cables {
			if c.BinderSize <= 0 {
				c.BinderSize = binder.DefaultSize
			}
			if c.CreatedAt.IsZero() {
				c.CreatedAt = now
			}
			if err := s.cables.CreateTx(tx, c); err != nil {
				return err
			}
		}
		for id, circuits := range byCable {
			if err := s.circuits.ReplaceForCableTx(tx, id, circuits); err != nil {
				return err
			}
		}
		for _, sp := range keptSplices {
			if err := s.splices.CreateTx(tx, sp); err != nil {
				return err
			}
		}
		return nil
	})
}
