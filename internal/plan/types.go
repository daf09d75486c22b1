// Package plan defines the cable-plan data model shared by the
// allocation core, the store, and the service layer.
package plan

import "time"

// Role distinguishes the two cable roles.
type Role string

const (
	// RoleFeed marks a cable whose circuits are splice targets
	RoleFeed Role = "feed"
	// RoleDistribution marks a cable whose circuits splice onto feed circuits
	RoleDistribution Role = "distribution"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleFeed || r == RoleDistribution
}

// Cable is a multi-pair copper cable. PairCount and BinderSize are
// immutable inputs to allocation.
type Cable struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	PairCount  int       `json:"pairCount" yaml:"pairCount"`
	BinderSize int       `json:"binderSize" yaml:"binderSize"`
	Role       Role      `json:"role" yaml:"role"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Circuit is a named, ordered sub-allocation of pairs within one cable.
//
// PairStart/PairEnd are derived state: they are recomputed by the
// allocator from (position order, identifier pair counts) on every
// structural change and are never accepted from external writers.
// The feed link fields are only meaningful on distribution circuits.
type Circuit struct {
	ID         string `json:"id" yaml:"id"`
	CableID    string `json:"cableId" yaml:"cableId"`
	Identifier string `json:"identifier" yaml:"identifier"`
	Position   int    `json:"position" yaml:"position"`
	PairStart  int    `json:"pairStart" yaml:"pairStart"`
	PairEnd    int    `json:"pairEnd" yaml:"pairEnd"`

	IsSpliced     bool   `json:"isSpliced" yaml:"isSpliced"`
	FeedCableID   string `json:"feedCableId,omitempty" yaml:"feedCableId,omitempty"`
	FeedPairStart int    `json:"feedPairStart,omitempty" yaml:"feedPairStart,omitempty"`
	FeedPairEnd   int    `json:"feedPairEnd,omitempty" yaml:"feedPairEnd,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// PairSpan returns the number of physical pairs the circuit occupies.
func (c *Circuit) PairSpan() int {
	return c.PairEnd - c.PairStart + 1
}

// ClearFeedLink resets the splice-link fields.
func (c *Circuit) ClearFeedLink() {
	c.IsSpliced = false
	c.FeedCableID = ""
	c.FeedPairStart = 0
	c.FeedPairEnd = 0
}

// Splice is an explicit manual mapping between equal-length pair ranges
// on two cables, independent of the circuit-level splice link.
type Splice struct {
	ID              string `json:"id" yaml:"id"`
	SourceCableID   string `json:"sourceCableId" yaml:"sourceCableId"`
	SourcePairStart int    `json:"sourcePairStart" yaml:"sourcePairStart"`
	SourcePairEnd   int    `json:"sourcePairEnd" yaml:"sourcePairEnd"`
	DestCableID     string `json:"destCableId" yaml:"destCableId"`
	DestPairStart   int    `json:"destPairStart" yaml:"destPairStart"`
	DestPairEnd     int    `json:"destPairEnd" yaml:"destPairEnd"`

	// Optional PON annotation, not used in matching logic.
	PONStart int `json:"ponStart,omitempty" yaml:"ponStart,omitempty"`
	PONEnd   int `json:"ponEnd,omitempty" yaml:"ponEnd,omitempty"`

	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Snapshot is the full portable plan state.
type Snapshot struct {
	Cables   []*Cable   `json:"cables" yaml:"cables"`
	Circuits []*Circuit `json:"circuits" yaml:"circuits"`
	Splices  []*Splice  `json:"splices" yaml:"splices"`
}
