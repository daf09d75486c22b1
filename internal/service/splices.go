package service

import (
	"time"

	"github.com/google/uuid"

	"pairplan/internal/errors"
	"pairplan/internal/logging"
	"pairplan/internal/plan"
	"pairplan/internal/splice"
)

// SpliceInput carries the fields of a manual splice record.
type SpliceInput struct {
	SourceCableID   string
	SourcePairStart int
	SourcePairEnd   int
	DestCableID     string
	DestPairStart   int
	DestPairEnd     int
	PONStart        int
	PONEnd          int
}

// AddSplice records a manual splice between equal-length pair ranges on
// two cables. The destination range must not overlap any existing manual
// splice on the same destination cable.
func (s *Service) AddSplice(in SpliceInput) (*plan.Splice, error) {
	if in.SourcePairStart < 1 || in.SourcePairEnd < in.SourcePairStart {
		return nil, errors.Newf(errors.InvalidInput,
			"source range %d-%d is not a valid pair range", in.SourcePairStart, in.SourcePairEnd)
	}
	if in.DestPairStart < 1 || in.DestPairEnd < in.DestPairStart {
		return nil, errors.Newf(errors.InvalidInput,
			"dest range %d-%d is not a valid pair range", in.DestPairStart, in.DestPairEnd)
	}

	srcLen := in.SourcePairEnd - in.SourcePairStart
	dstLen := in.DestPairEnd - in.DestPairStart
	if srcLen != dstLen {
		return nil, errors.Newf(errors.RangeMismatch,
			"source spans %d pairs but dest spans %d", srcLen+1, dstLen+1)
	}

	if _, err := s.Cable(in.SourceCableID); err != nil {
		return nil, err
	}
	if _, err := s.Cable(in.DestCableID); err != nil {
		return nil, err
	}

	existing, err := s.splices.List()
	if err != nil {
		return nil, err
	}
	if err := splice.CheckSpliceOverlap(in.DestCableID, in.DestPairStart, in.DestPairEnd, existing); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &plan.Splice{
		ID:              uuid.NewString(),
		SourceCableID:   in.SourceCableID,
		SourcePairStart: in.SourcePairStart,
		SourcePairEnd:   in.SourcePairEnd,
		DestCableID:     in.DestCableID,
		DestPairStart:   in.DestPairStart,
		DestPairEnd:     in.DestPairEnd,
		PONStart:        in.PONStart,
		PONEnd:          in.PONEnd,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.splices.Create(record); err != nil {
		return nil, err
	}

	s.logger.Info("splice recorded", logging.Fields{
		"splice": record.ID,
		"source": in.SourceCableID,
		"dest":   in.DestCableID,
	})
	return record, nil
}

// Splices returns all manual splice records in creation order.
func (s *Service) Splices() ([]*plan.Splice, error) {
	return s.splices.List()
}

// SplicesByCable returns manual splices touching a cable on either side.
func (s *Service) SplicesByCable(cableID string) ([]*plan.Splice, error) {
	return s.splices.ListByCable(cableID)
}

// CompleteSplice marks a manual splice as completed (or not).
func (s *Service) CompleteSplice(id string, completed bool) error {
	record, err := s.splices.GetByID(id)
	if err != nil {
		return err
	}
	if record == nil {
		return errors.Newf(errors.NotFound, "splice %s not found", id)
	}
	return s.splices.SetCompleted(id, completed)
}

// DeleteSplice removes a manual splice record.
func (s *Service) DeleteSplice(id string) error {
	record, err := s.splices.GetByID(id)
	if err != nil {
		return err
	}
	if record == nil {
		return errors.Newf(errors.NotFound, "splice %s not found", id)
	}
	return s.splices.Delete(id)
}
