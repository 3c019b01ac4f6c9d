// Package card defines the candidate flashcard under review and the
// state transitions it may take. State is a closed variant held in an
// unexported field, so the only way to move a candidate between states
// is through the transition functions; all of them take a Candidate by
// value and return a new value, so a candidate can never be observed
// half-transitioned.
package card

import (
	"fmt"

	"github.com/google/uuid"
)

// State is the review decision state of a candidate.
type State string

// Candidate review states. Transitions are one-directional except that
// an edited candidate may be edited again.
const (
	StatePending  State = "pending"
	StateAccepted State = "accepted"
	StateEdited   State = "edited"
	StateRejected State = "rejected"
)

// Provenance records whether persisted content is machine output as-is
// or passed through a user edit before acceptance.
type Provenance string

const (
	ProvenanceGenerated       Provenance = "generated"
	ProvenanceGeneratedEdited Provenance = "generated_edited"
)

// Field names a candidate's editable text field.
type Field string

const (
	FieldFront Field = "front"
	FieldBack  Field = "back"
)

// Seed is one generated front/back pair from the generation service.
type Seed struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Candidate is one generated flashcard awaiting a decision.
//
// ID is assigned locally and replaced by the server identifier after a
// successful commit. OriginalFront/OriginalBack are the immutable
// snapshot captured at session start.
type Candidate struct {
	ID            string
	Front         string
	Back          string
	OriginalFront string
	OriginalBack  string

	state      State
	provenance Provenance
}

// New creates a pending candidate from a generated pair, capturing the
// original snapshot and assigning a temporary local ID.
func New(seed Seed) Candidate {
	return Candidate{
		ID:            uuid.NewString(),
		Front:         seed.Front,
		Back:          seed.Back,
		OriginalFront: seed.Front,
		OriginalBack:  seed.Back,
		state:         StatePending,
		provenance:    ProvenanceGenerated,
	}
}

// State returns the candidate's review decision state.
func (c Candidate) State() State { return c.state }

// Provenance returns the candidate's content provenance.
func (c Candidate) Provenance() Provenance { return c.provenance }

// Edited reports whether the candidate's content differs from the
// snapshot captured at session start.
func (c Candidate) Edited() bool {
	return c.Front != c.OriginalFront || c.Back != c.OriginalBack
}

// Committable reports whether the candidate is part of the set submitted
// on commit.
func (c Candidate) Committable() bool {
	return c.state == StateAccepted || c.state == StateEdited
}

// Get returns the content of the named field.
func (c Candidate) Get(f Field) string {
	if f == FieldFront {
		return c.Front
	}
	return c.Back
}

// Accept transitions a pending candidate to accepted. Edited candidates
// stay edited; accepting them is not an error but changes nothing.
func (c Candidate) Accept() (Candidate, error) {
	switch c.state {
	case StatePending:
		c.state = StateAccepted
		return c, nil
	case StateEdited:
		return c, nil
	default:
		return c, fmt.Errorf("cannot accept candidate in state %q", c.state)
	}
}

// WithContent writes edited content into the candidate, marking it
// edited with generated_edited provenance. Pending and edited candidates
// may be written; accepted and rejected ones may not.
func (c Candidate) WithContent(front, back string) (Candidate, error) {
	if c.state != StatePending && c.state != StateEdited {
		return c, fmt.Errorf("cannot edit candidate in state %q", c.state)
	}
	c.Front = front
	c.Back = back
	c.state = StateEdited
	c.provenance = ProvenanceGeneratedEdited
	return c, nil
}

// Reject transitions any non-terminal candidate to rejected. The caller
// removes rejected candidates from the sequence; they are never flagged
// in place.
func (c Candidate) Reject() (Candidate, error) {
	if c.state == StateRejected {
		return c, fmt.Errorf("candidate already rejected")
	}
	c.state = StateRejected
	return c, nil
}
