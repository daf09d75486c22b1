package export

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"

	"pairplan/internal/allocate"
	"pairplan/internal/binder"
	"pairplan/internal/identifier"
	"pairplan/internal/plan"
)

// DeclarationFile is the default filename for declarative plan imports
const DeclarationFile = "PLAN.toml"

// PlanDeclaration is a hand-written TOML plan: cables with their ordered
// circuit identifiers. Derived fields don't appear; the allocator
// computes them on import.
type PlanDeclaration struct {
	Cables []CableDeclaration `toml:"cables"`
}

// CableDeclaration declares one cable and its circuit order
type CableDeclaration struct {
	// Name is the cable's display name
	Name string `toml:"name"`

	// Pairs is the cable's total pair capacity
	Pairs int `toml:"pairs"`

	// Role is "feed" or "distribution"
	Role string `toml:"role"`

	// BinderSize overrides the standard 25-pair binder group (optional)
	BinderSize int `toml:"binderSize,omitempty"`

	// Circuits lists identifiers in position order; legacy whitespace
	// forms are accepted and normalized
	Circuits []string `toml:"circuits"`
}

// LoadDeclaration reads and parses a PLAN.toml file
func LoadDeclaration(path string) (*PlanDeclaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan declaration: %w", err)
	}

	var decl PlanDeclaration
	if err := toml.Unmarshal(data, &decl); err != nil {
		return nil, fmt.Errorf("failed to parse plan declaration: %w", err)
	}
	return &decl, nil
}

// ToSnapshot materializes the declaration into a snapshot: ids minted,
// identifiers validated against their siblings, positions assigned from
// declaration order. Derived ranges are left for the restore path's
// allocator pass.
func (d *PlanDeclaration) ToSnapshot() (*plan.Snapshot, error) {
	now := time.Now().UTC()
	snapshot := &plan.Snapshot{}

	for i, cd := range d.Cables {
		role := plan.Role(cd.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("cable %q: unknown role %q", cd.Name, cd.Role)
		}
		if cd.Pairs <= 0 {
			return nil, fmt.Errorf("cable %q: pairs must be positive, got %d", cd.Name, cd.Pairs)
		}
		size := cd.BinderSize
		if size <= 0 {
			size = binder.DefaultSize
		}

		cable := &plan.Cable{
			ID:         uuid.NewString(),
			Name:       cd.Name,
			PairCount:  cd.Pairs,
			BinderSize: size,
			Role:       role,
			// Offset keeps creation order (and with it splice-matching
			// iteration order) aligned with declaration order.
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
			UpdatedAt: now,
		}
		snapshot.Cables = append(snapshot.Cables, cable)

		var siblings []*plan.Circuit
		for pos, raw := range cd.Circuits {
			if err := allocate.ValidateSibling(siblings, raw, ""); err != nil {
				return nil, fmt.Errorf("cable %q circuit %d: %w", cd.Name, pos, err)
			}
			normalized, err := identifier.Normalize(raw)
			if err != nil {
				return nil, fmt.Errorf("cable %q circuit %d: %w", cd.Name, pos, err)
			}
			circuit := &plan.Circuit{
				ID:         uuid.NewString(),
				CableID:    cable.ID,
				Identifier: normalized,
				Position:   pos,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			siblings = append(siblings, circuit)
		}
		snapshot.Circuits = append(snapshot.Circuits, siblings...)
	}

	return snapshot, nil
}
