// Package service orchestrates plan mutations: every structural change
// to a cable's circuit list re-runs the allocator and replaces the
// stored list wholesale inside one transaction, so derived pair ranges
// are always a pure function of (ordering, identifiers).
package service

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pairplan/internal/allocate"
	"pairplan/internal/binder"
	"pairplan/internal/errors"
	"pairplan/internal/identifier"
	"pairplan/internal/logging"
	"pairplan/internal/plan"
	"pairplan/internal/splice"
	"pairplan/internal/storage"
)

// Service coordinates the allocation core with the persistent store.
type Service struct {
	db       *storage.DB
	cables   *storage.CableRepository
	circuits *storage.CircuitRepository
	splices  *storage.SpliceRepository
	logger   *logging.Logger
	// binderSize applies to newly created cables.
	binderSize int
}

// New creates a Service over an open database.
func New(db *storage.DB, logger *logging.Logger, binderSize int) *Service {
	if binderSize <= 0 {
		binderSize = binder.DefaultSize
	}
	return &Service{
		db:         db,
		cables:     storage.NewCableRepository(db),
		circuits:   storage.NewCircuitRepository(db),
		splices:    storage.NewSpliceRepository(db),
		logger:     logger,
		binderSize: binderSize,
	}
}

// Cables returns all cables in creation order.
func (s *Service) Cables() ([]*plan.Cable, error) {
	return s.cables.List()
}

// Cable returns a cable by id.
func (s *Service) Cable(id string) (*plan.Cable, error) {
	c, err := s.cables.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.Newf(errors.NotFound, "cable %s not found", id)
	}
	return c, nil
}

// Circuits returns a cable's circuits in position order.
func (s *Service) Circuits(cableID string) ([]*plan.Circuit, error) {
	return s.circuits.ListByCable(cableID)
}

// Circuit returns a circuit by id.
func (s *Service) Circuit(id string) (*plan.Circuit, error) {
	c, err := s.circuits.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.Newf(errors.NotFound, "circuit %s not found", id)
	}
	return c, nil
}

// CreateCable creates a cable with the service's configured binder size.
func (s *Service) CreateCable(name string, pairCount int, role plan.Role) (*plan.Cable, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New(errors.InvalidInput, "cable name must not be empty")
	}
	if pairCount <= 0 {
		return nil, errors.Newf(errors.InvalidInput, "pair count must be positive, got %d", pairCount)
	}
	if !role.Valid() {
		return nil, errors.Newf(errors.InvalidInput, "unknown cable role %q", role)
	}

	now := time.Now().UTC()
	cable := &plan.Cable{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(name),
		PairCount:  pairCount,
		BinderSize: s.binderSize,
		Role:       role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.cables.Create(cable); err != nil {
		return nil, err
	}
	s.logger.Info("cable created", logging.Fields{
		"cable": cable.ID, "name": cable.Name, "role": string(role), "pairs": pairCount,
	})
	return cable, nil
}

// RenameCable changes a cable's display name.
func (s *Service) RenameCable(id, name string) (*plan.Cable, error) {
	cable, err := s.Cable(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New(errors.InvalidInput, "cable name must not be empty")
	}
	cable.Name = strings.TrimSpace(name)
	if err := s.cables.Update(cable); err != nil {
		return nil, err
	}
	return cable, nil
}

// DeleteCable removes a cable, its circuits, any manual splices touching
// it, and unsplices distribution circuits that fed from it — all in one
// transaction.
func (s *Service) DeleteCable(id string) error {
	cable, err := s.Cable(id)
	if err != nil {
		return err
	}

	err = s.db.WithTx(func(tx *sql.Tx) error {
		if err := s.circuits.ClearFeedLinksTx(tx, id); err != nil {
			return err
		}
		if err := s.circuits.DeleteByCableTx(tx, id); err != nil {
			return err
		}
		if err := s.splices.DeleteByCableTx(tx, id); err != nil {
			return err
		}
		return s.cables.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("cable deleted", logging.Fields{"cable": id, "name": cable.Name})
	return nil
}

// AddCircuit validates and appends a circuit at the end of the cable's
// order, then recomputes all derived ranges.
func (s *Service) AddCircuit(cableID, rawIdentifier string) (*plan.Circuit, error) {
	cable, err := s.Cable(cableID)
	if err != nil {
		return nil, err
	}
	circuits, err := s.circuits.ListByCable(cableID)
	if err != nil {
		return nil, err
	}

	if err := allocate.ValidateSibling(circuits, rawIdentifier, ""); err != nil {
		return nil, err
	}
	normalized, err := identifier.Normalize(rawIdentifier)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	circuit := &plan.Circuit{
		ID:         uuid.NewString(),
		CableID:    cableID,
		Identifier: normalized,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	circuits = append(circuits, circuit)

	if err := s.reallocateAndStore(cable, circuits); err != nil {
		return nil, err
	}
	return circuit, nil
}

// EditCircuit replaces a circuit's identifier. The splice link is
// cleared when the parsed identifier changed, since the stored feed
// range was derived from the old one.
func (s *Service) EditCircuit(circuitID, rawIdentifier string) (*plan.Circuit, error) {
	circuit, err := s.Circuit(circuitID)
	if err != nil {
		return nil, err
	}
	cable, err := s.Cable(circuit.CableID)
	if err != nil {
		return nil, err
	}
	circuits, err := s.circuits.ListByCable(circuit.CableID)
	if err != nil {
		return nil, err
	}

	if err := allocate.ValidateSibling(circuits, rawIdentifier, circuitID); err != nil {
		return nil, err
	}
	normalized, err := identifier.Normalize(rawIdentifier)
	if err != nil {
		return nil, err
	}

	var edited *plan.Circuit
	for _, c := range circuits {
		if c.ID != circuitID {
			continue
		}
		if c.Identifier != normalized && c.IsSpliced {
			s.logger.Warn("identifier changed, clearing splice link", logging.Fields{
				"circuit": c.ID, "old": c.Identifier, "new": normalized,
			})
			c.ClearFeedLink()
		}
		c.Identifier = normalized
		c.UpdatedAt = time.Now().UTC()
		edited = c
	}

	if err := s.reallocateAndStore(cable, circuits); err != nil {
		return nil, err
	}
	return edited, nil
}

// RemoveCircuit deletes a circuit; later circuits shift down and all
// ranges are recomputed.
func (s *Service) RemoveCircuit(circuitID string) error {
	circuit, err := s.Circuit(circuitID)
	if err != nil {
		return err
	}
	cable, err := s.Cable(circuit.CableID)
	if err != nil {
		return err
	}
	circuits, err := s.circuits.ListByCable(circuit.CableID)
	if err != nil {
		return err
	}

	kept := circuits[:0]
	for _, c := range circuits {
		if c.ID != circuitID {
			kept = append(kept, c)
		}
	}
	return s.reallocateAndStore(cable, kept)
}

// MoveCircuit swaps a circuit with its neighbor in the given direction.
// Moves past either end of the order are no-ops.
func (s *Service) MoveCircuit(circuitID string, dir allocate.Direction) error {
	circuit, err := s.Circuit(circuitID)
	if err != nil {
		return err
	}
	cable, err := s.Cable(circuit.CableID)
	if err != nil {
		return err
	}
	circuits, err := s.circuits.ListByCable(circuit.CableID)
	if err != nil {
		return err
	}

	index := -1
	for i, c := range circuits {
		if c.ID == circuitID {
			index = i
			break
		}
	}
	if index < 0 {
		return errors.Newf(errors.NotFound, "circuit %s not found in cable order", circuitID)
	}
	if !allocate.Move(circuits, index, dir) {
		return nil
	}
	return s.reallocateAndStore(cable, circuits)
}

// ToggleSplice flips a distribution circuit's splice state. Turning the
// splice on runs the matcher and the conflict detector; any failure
// leaves the circuit unspliced and the store untouched.
func (s *Service) ToggleSplice(circuitID string) (*plan.Circuit, error) {
	circuit, err := s.Circuit(circuitID)
	if err != nil {
		return nil, err
	}

	cable, err := s.cables.GetByID(circuit.CableID)
	if err != nil {
		return nil, err
	}
	if cable == nil {
		return nil, errors.Newf(errors.DanglingReference,
			"circuit %s belongs to missing cable %s", circuitID, circuit.CableID)
	}

	if circuit.IsSpliced {
		circuit.ClearFeedLink()
		err := s.db.WithTx(func(tx *sql.Tx) error {
			return s.circuits.UpdateFeedLinkTx(tx, circuit)
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("splice cleared", logging.Fields{"circuit": circuitID})
		return circuit, nil
	}

	if cable.Role != plan.RoleDistribution {
		return nil, errors.Newf(errors.InvalidInput,
			"circuit %s belongs to feed cable %s; only distribution circuits splice", circuitID, cable.Name)
	}

	universe, err := s.buildUniverse()
	if err != nil {
		return nil, err
	}
	match, err := splice.FindFeed(circuit, universe)
	if err != nil {
		return nil, err
	}
	if match.Ambiguous > 0 {
		s.logger.Warn("multiple containing feed circuits, first match used", logging.Fields{
			"circuit":    circuitID,
			"matched":    match.FeedCircuit.ID,
			"additional": match.Ambiguous,
		})
	}

	refs, err := s.circuits.ListReferencingFeed(match.FeedCable.ID)
	if err != nil {
		return nil, err
	}
	claims := splice.ClaimsOnFeed(refs, match.FeedCable.ID, circuitID)
	if err := splice.CheckConflict(match.FeedPairStart, match.FeedPairEnd, claims); err != nil {
		return nil, err
	}

	circuit.IsSpliced = true
	circuit.FeedCableID = match.FeedCable.ID
	circuit.FeedPairStart = match.FeedPairStart
	circuit.FeedPairEnd = match.FeedPairEnd
	err = s.db.WithTx(func(tx *sql.Tx) error {
		return s.circuits.UpdateFeedLinkTx(tx, circuit)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("splice set", logging.Fields{
		"circuit":    circuitID,
		"feed_cable": match.FeedCable.ID,
		"feed_pairs": []int{match.FeedPairStart, match.FeedPairEnd},
	})
	return circuit, nil
}

// reallocateAndStore reindexes positions, recomputes derived ranges, and
// replaces the cable's circuit list wholesale. Over-capacity is logged,
// not blocked.
func (s *Service) reallocateAndStore(cable *plan.Cable, circuits []*plan.Circuit) error {
	allocate.Reindex(circuits)
	total, err := allocate.Recompute(circuits)
	if err != nil {
		return err
	}
	if err := allocate.CheckCapacity(total, cable.PairCount); err != nil {
		s.logger.Warn("cable over capacity", logging.Fields{
			"cable": cable.ID, "assigned": total, "capacity": cable.PairCount,
		})
	}

	return s.db.WithTx(func(tx *sql.Tx) error {
		return s.circuits.ReplaceForCableTx(tx, cable.ID, circuits)
	})
}

// buildUniverse loads the read-only snapshot the matcher scans.
func (s *Service) buildUniverse() (splice.Universe, error) {
	cables, err := s.cables.List()
	if err != nil {
		return splice.Universe{}, err
	}
	all, err := s.circuits.ListAll()
	if err != nil {
		return splice.Universe{}, err
	}

	byCable := make(map[string][]*plan.Circuit, len(cables))
	for _, c := range all {
		byCable[c.CableID] = append(byCable[c.CableID], c)
	}
	for _, list := range byCable {
		sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	}
	return splice.Universe{Cables: cables, Circuits: byCable}, nil
}
