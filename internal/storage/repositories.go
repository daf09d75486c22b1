package storage

import (
	"database/sql"
	"fmt"
	"time"

	"pairplan/internal/plan"
)

// CableRepository provides CRUD operations for the cables table
type CableRepository struct {
	db *DB
}

// NewCableRepository creates a new cable repository
func NewCableRepository(db *DB) *CableRepository {
	return &CableRepository{db: db}
}

// Create inserts a new cable
func (r *CableRepository) Create(c *plan.Cable) error {
	_, err := r.db.Exec(`
		INSERT INTO cables (id, name, pair_count, binder_size, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.PairCount, c.BinderSize, string(c.Role),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create cable: %w", err)
	}
	return nil
}

// CreateTx inserts a new cable inside an existing transaction
func (r *CableRepository) CreateTx(tx *sql.Tx, c *plan.Cable) error {
	_, err := tx.Exec(`
		INSERT INTO cables (id, name, pair_count, binder_size, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.PairCount, c.BinderSize, string(c.Role),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create cable: %w", err)
	}
	return nil
}

// GetByID returns a cable by id, or nil if it doesn't exist
func (r *CableRepository) GetByID(id string) (*plan.Cable, error) {
	row := r.db.QueryRow(`
		SELECT id, name, pair_count, binder_size, role, created_at, updated_at
		FROM cables WHERE id = ?
	`, id)
	c, err := scanCable(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// List returns all cables in creation order. Creation order is the
// stable iteration order splice matching depends on.
func (r *CableRepository) List() ([]*plan.Cable, error) {
	rows, err := r.db.Query(`
		SELECT id, name, pair_count, binder_size, role, created_at, updated_at
		FROM cables ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cables: %w", err)
	}
	defer rows.Close()

	var cables []*plan.Cable
	for rows.Next() {
		c, err := scanCable(rows)
		if err != nil {
			return nil, err
		}
		cables = append(cables, c)
	}
	return cables, rows.Err()
}

// Update rewrites a cable's mutable fields (name only; capacity and
// binder size are immutable allocation inputs)
func (r *CableRepository) Update(c *plan.Cable) error {
	_, err := r.db.Exec(`
		UPDATE cables SET name = ?, updated_at = ? WHERE id = ?
	`, c.Name, formatTime(time.Now().UTC()), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update cable: %w", err)
	}
	return nil
}

// DeleteTx removes a cable inside an existing transaction
func (r *CableRepository) DeleteTx(tx *sql.Tx, id string) error {
	if _, err := tx.Exec(`DELETE FROM cables WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete cable: %w", err)
	}
	return nil
}

// CircuitRepository provides CRUD operations for the circuits table
type CircuitRepository struct {
	db *DB
}

// NewCircuitRepository creates a new circuit repository
func NewCircuitRepository(db *DB) *CircuitRepository {
	return &CircuitRepository{db: db}
}

// GetByID returns a circuit by id, or nil if it doesn't exist
func (r *CircuitRepository) GetByID(id string) (*plan.Circuit, error) {
	row := r.db.QueryRow(circuitSelect+` WHERE id = ?`, id)
	c, err := scanCircuit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// ListByCable returns a cable's circuits ordered by position
func (r *CircuitRepository) ListByCable(cableID string) ([]*plan.Circuit, error) {
	rows, err := r.db.Query(circuitSelect+` WHERE cable_id = ? ORDER BY position`, cableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list circuits: %w", err)
	}
	defer rows.Close()
	return collectCircuits(rows)
}

// ListAll returns every circuit, grouped-friendly ordering (cable, position)
func (r *CircuitRepository) ListAll() ([]*plan.Circuit, error) {
	rows, err := r.db.Query(circuitSelect + ` ORDER BY cable_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list circuits: %w", err)
	}
	defer rows.Close()
	return collectCircuits(rows)
}

// ListReferencingFeed returns all circuits whose splice link points at
// the given feed cable
func (r *CircuitRepository) ListReferencingFeed(feedCableID string) ([]*plan.Circuit, error) {
	rows, err := r.db.Query(circuitSelect+` WHERE feed_cable_id = ? ORDER BY cable_id, position`, feedCableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list circuits by feed: %w", err)
	}
	defer rows.Close()
	return collectCircuits(rows)
}

// ReplaceForCableTx replaces a cable's whole circuit list inside an
// existing transaction. This is the only write path for derived pair
// ranges: callers run the allocator first, then swap the list wholesale.
func (r *CircuitRepository) ReplaceForCableTx(tx *sql.Tx, cableID string, circuits []*plan.Circuit) error {
	if _, err := tx.Exec(`DELETE FROM circuits WHERE cable_id = ?`, cableID); err != nil {
		return fmt.Errorf("failed to clear circuits: %w", err)
	}
	for _, c := range circuits {
		if err := insertCircuitTx(tx, c); err != nil {
			return err
		}
	}
	return nil
}

// UpdateFeedLinkTx rewrites a circuit's splice-link fields inside an
// existing transaction
func (r *CircuitRepository) UpdateFeedLinkTx(tx *sql.Tx, c *plan.Circuit) error {
	_, err := tx.Exec(`
		UPDATE circuits
		SET is_spliced = ?, feed_cable_id = ?, feed_pair_start = ?, feed_pair_end = ?, updated_at = ?
		WHERE id = ?
	`, boolToInt(c.IsSpliced), c.FeedCableID, c.FeedPairStart, c.FeedPairEnd,
		formatTime(time.Now().UTC()), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update feed link: %w", err)
	}
	return nil
}

// DeleteByCableTx removes all circuits of a cable inside an existing transaction
func (r *CircuitRepository) DeleteByCableTx(tx *sql.Tx, cableID string) error {
	if _, err := tx.Exec(`DELETE FROM circuits WHERE cable_id = ?`, cableID); err != nil {
		return fmt.Errorf("failed to delete circuits: %w", err)
	}
	return nil
}

// ClearFeedLinksTx unsplices every circuit referencing the given feed
// cable inside an existing transaction
func (r *CircuitRepository) ClearFeedLinksTx(tx *sql.Tx, feedCableID string) error {
	_, err := tx.Exec(`
		UPDATE circuits
		SET is_spliced = 0, feed_cable_id = '', feed_pair_start = 0, feed_pair_end = 0, updated_at = ?
		WHERE feed_cable_id = ?
	`, formatTime(time.Now().UTC()), feedCableID)
	if err != nil {
		return fmt.Errorf("failed to clear feed links: %w", err)
	}
	return nil
}

// SpliceRepository provides CRUD operations for the splices table
type SpliceRepository struct {
	db *DB
}

// NewSpliceRepository creates a new splice repository
func NewSpliceRepository(db *DB) *SpliceRepository {
	return &SpliceRepository{db: db}
}

// Create inserts a new manual splice record
func (r *SpliceRepository) Create(s *plan.Splice) error {
	_, err := r.db.Exec(`
		INSERT INTO splices (
			id, source_cable_id, source_pair_start, source_pair_end,
			dest_cable_id, dest_pair_start, dest_pair_end,
			pon_start, pon_end, completed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.SourceCableID, s.SourcePairStart, s.SourcePairEnd,
		s.DestCableID, s.DestPairStart, s.DestPairEnd,
		s.PONStart, s.PONEnd, boolToInt(s.Completed),
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create splice: %w", err)
	}
	return nil
}

// CreateTx inserts a new manual splice record inside an existing transaction
func (r *SpliceRepository) CreateTx(tx *sql.Tx, s *plan.Splice) error {
	_, err := tx.Exec(`
		INSERT INTO splices (
			id, source_cable_id, source_pair_start, source_pair_end,
			dest_cable_id, dest_pair_start, dest_pair_end,
			pon_start, pon_end, completed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.SourceCableID, s.SourcePairStart, s.SourcePairEnd,
		s.DestCableID, s.DestPairStart, s.DestPairEnd,
		s.PONStart, s.PONEnd, boolToInt(s.Completed),
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create splice: %w", err)
	}
	return nil
}

// GetByID returns a splice by id, or nil if it doesn't exist
func (r *SpliceRepository) GetByID(id string) (*plan.Splice, error) {
	row := r.db.QueryRow(spliceSelect+` WHERE id = ?`, id)
	s, err := scanSplice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// List returns all manual splices in creation order
func (r *SpliceRepository) List() ([]*plan.Splice, error) {
	rows, err := r.db.Query(spliceSelect + ` ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list splices: %w", err)
	}
	defer rows.Close()
	return collectSplices(rows)
}

// ListByCable returns splices touching the given cable on either side
func (r *SpliceRepository) ListByCable(cableID string) ([]*plan.Splice, error) {
	rows, err := r.db.Query(spliceSelect+`
		WHERE source_cable_id = ? OR dest_cable_id = ?
		ORDER BY created_at, rowid`, cableID, cableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list splices by cable: %w", err)
	}
	defer rows.Close()
	return collectSplices(rows)
}

// SetCompleted flips a splice's completion flag
func (r *SpliceRepository) SetCompleted(id string, completed bool) error {
	_, err := r.db.Exec(`
		UPDATE splices SET completed = ?, updated_at = ? WHERE id = ?
	`, boolToInt(completed), formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("failed to update splice: %w", err)
	}
	return nil
}

// Delete removes a manual splice record
func (r *SpliceRepository) Delete(id string) error {
	if _, err := r.db.Exec(`DELETE FROM splices WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete splice: %w", err)
	}
	return nil
}

// DeleteByCableTx removes all splices referencing a cable on either side
// inside an existing transaction
func (r *SpliceRepository) DeleteByCableTx(tx *sql.Tx, cableID string) error {
	_, err := tx.Exec(`DELETE FROM splices WHERE source_cable_id = ? OR dest_cable_id = ?`, cableID, cableID)
	if err != nil {
		return fmt.Errorf("failed to delete splices: %w", err)
	}
	return nil
}

// WipeTx clears all plan tables inside an existing transaction. Used by
// snapshot restore, which replaces the whole plan as one value.
func WipeTx(tx *sql.Tx) error {
	for _, table := range []string{"splices", "circuits", "cables"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("failed to wipe %s: %w", table, err)
		}
	}
	return nil
}

const circuitSelect = `
	SELECT id, cable_id, identifier, position, pair_start, pair_end,
	       is_spliced, feed_cable_id, feed_pair_start, feed_pair_end,
	       created_at, updated_at
	FROM circuits`

const spliceSelect = `
	SELECT id, source_cable_id, source_pair_start, source_pair_end,
	       dest_cable_id, dest_pair_start, dest_pair_end,
	       pon_start, pon_end, completed, created_at, updated_at
	FROM splices`

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCable(s scanner) (*plan.Cable, error) {
	var c plan.Cable
	var role, createdAt, updatedAt string
	if err := s.Scan(&c.ID, &c.Name, &c.PairCount, &c.BinderSize, &role, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.Role = plan.Role(role)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

func scanCircuit(s scanner) (*plan.Circuit, error) {
	var c plan.Circuit
	var spliced int
	var createdAt, updatedAt string
	if err := s.Scan(&c.ID, &c.CableID, &c.Identifier, &c.Position, &c.PairStart, &c.PairEnd,
		&spliced, &c.FeedCableID, &c.FeedPairStart, &c.FeedPairEnd, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.IsSpliced = spliced != 0
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

func scanSplice(s scanner) (*plan.Splice, error) {
	var sp plan.Splice
	var completed int
	var createdAt, updatedAt string
	if err := s.Scan(&sp.ID, &sp.SourceCableID, &sp.SourcePairStart, &sp.SourcePairEnd,
		&sp.DestCableID, &sp.DestPairStart, &sp.DestPairEnd,
		&sp.PONStart, &sp.PONEnd, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	sp.Completed = completed != 0
	sp.CreatedAt = parseTime(createdAt)
	sp.UpdatedAt = parseTime(updatedAt)
	return &sp, nil
}

func collectCircuits(rows *sql.Rows) ([]*plan.Circuit, error) {
	var circuits []*plan.Circuit
	for rows.Next() {
		c, err := scanCircuit(rows)
		if err != nil {
			return nil, err
		}
		circuits = append(circuits, c)
	}
	return circuits, rows.Err()
}

func collectSplices(rows *sql.Rows) ([]*plan.Splice, error) {
	var splices []*plan.Splice
	for rows.Next() {
		s, err := scanSplice(rows)
		if err != nil {
			return nil, err
		}
		splices = append(splices, s)
	}
	return splices, rows.Err()
}

func insertCircuitTx(tx *sql.Tx, c *plan.Circuit) error {
	_, err := tx.Exec(`
		INSERT INTO circuits (
			id, cable_id, identifier, position, pair_start, pair_end,
			is_spliced, feed_cable_id, feed_pair_start, feed_pair_end,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.CableID, c.Identifier, c.Position, c.PairStart, c.PairEnd,
		boolToInt(c.IsSpliced), c.FeedCableID, c.FeedPairStart, c.FeedPairEnd,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert circuit %s: %w", c.ID, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
