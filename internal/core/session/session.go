// Package session holds the in-memory review session: the ordered
// candidate sequence, the cursor, the edit buffer, and the bulk
// operations. A session is created once per review invocation and
// discarded when the review completes or is cancelled; it never survives
// across invocations.
//
// Every operation is a single synchronous state transition. The sequence
// is mutated only through these operations.
package session

import (
	"errors"

	"github.com/quizkit/deckhand/internal/core/card"
	"github.com/quizkit/deckhand/internal/core/validate"
)

// ErrFieldInvalid is returned by SaveEdit while any field of the edit
// buffer holds a validation error. The save is a no-op in that case.
var ErrFieldInvalid = errors.New("edit buffer has invalid fields")

// ErrNotEditing is returned by edit-buffer operations when no buffer is
// open.
var ErrNotEditing = errors.New("no edit in progress")

// EditBuffer is the in-progress edit for the candidate at the cursor.
// It is discarded on navigation away without an explicit save.
type EditBuffer struct {
	Front string
	Back  string
}

// Session is the review context for one batch of candidates.
type Session struct {
	items       []card.Candidate
	cursor      int
	flipped     bool
	buffer      *EditBuffer
	fieldErrors map[card.Field]*validate.FieldError
	open        bool
}

// New seeds a session from the generation service's candidate pairs,
// preserving their order as the review order.
func New(seeds []card.Seed) *Session {
	items := make([]card.Candidate, 0, len(seeds))
	for _, seed := range seeds {
		items = append(items, card.New(seed))
	}
	return &Session{
		items:       items,
		fieldErrors: make(map[card.Field]*validate.FieldError),
		open:        true,
	}
}

// Len returns the number of candidates remaining in the session.
func (s *Session) Len() int { return len(s.items) }

// Cursor returns the current cursor index.
func (s *Session) Cursor() int { return s.cursor }

// Items returns a copy of the candidate sequence in review order.
func (s *Session) Items() []card.Candidate {
	out := make([]card.Candidate, len(s.items))
	copy(out, s.items)
	return out
}

// Current returns the candidate at the cursor. ok is false when the
// session is empty.
func (s *Session) Current() (card.Candidate, bool) {
	if len(s.items) == 0 {
		return card.Candidate{}, false
	}
	return s.items[s.cursor], true
}

// IsOpen reports whether the session still owns its results. Closed
// sessions suppress commit outcome reporting.
func (s *Session) IsOpen() bool { return s.open }

// Close discards the session. Decisions made so far produce no
// persistence side effects; an in-flight commit's result is suppressed.
func (s *Session) Close() {
	s.open = false
	s.closeBuffer()
}

// GoTo moves the cursor to index, clamping at the bounds. Any open edit
// buffer is discarded, field errors are cleared, and the card flips back
// to the front.
func (s *Session) GoTo(index int) {
	if len(s.items) == 0 {
		s.cursor = 0
		s.closeBuffer()
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.items)-1 {
		index = len(s.items) - 1
	}
	s.cursor = index
	s.flipped = false
	s.closeBuffer()
}

// Next moves the cursor forward one candidate, clamping at the end.
func (s *Session) Next() { s.GoTo(s.cursor + 1) }

// Previous moves the cursor back one candidate, clamping at the start.
func (s *Session) Previous() { s.GoTo(s.cursor - 1) }

// ToggleFlip flips the current card between front and back. Pure UI
// state; it never affects persistence.
func (s *Session) ToggleFlip() { s.flipped = !s.flipped }

// Flipped reports whether the back of the current card is showing.
func (s *Session) Flipped() bool { return s.flipped }

// Editing reports whether an edit buffer is open.
func (s *Session) Editing() bool { return s.buffer != nil }

// Buffer returns the open edit buffer, or nil.
func (s *Session) Buffer() *EditBuffer {
	if s.buffer == nil {
		return nil
	}
	b := *s.buffer
	return &b
}

// FieldError returns the current validation error for a field of the
// open edit buffer, or nil.
func (s *Session) FieldError(f card.Field) *validate.FieldError {
	return s.fieldErrors[f]
}

// HasFieldErrors reports whether any field of the edit buffer currently
// holds a validation error.
func (s *Session) HasFieldErrors() bool {
	for _, err := range s.fieldErrors {
		if err != nil {
			return true
		}
	}
	return false
}

// BeginEdit opens an edit buffer seeded from the candidate at the
// cursor. No-op when the session is empty or a buffer is already open.
func (s *Session) BeginEdit() {
	if len(s.items) == 0 || s.buffer != nil {
		return
	}
	cur := s.items[s.cursor]
	if cur.State() != card.StatePending && cur.State() != card.StateEdited {
		return
	}
	s.buffer = &EditBuffer{Front: cur.Front, Back: cur.Back}
	s.revalidate()
}

// ChangeField updates one field of the open edit buffer and re-runs
// field validation. Called per keystroke by the editor.
func (s *Session) ChangeField(f card.Field, content string) error {
	if s.buffer == nil {
		return ErrNotEditing
	}
	if f == card.FieldFront {
		s.buffer.Front = content
	} else {
		s.buffer.Back = content
	}
	s.fieldErrors[f] = validate.Field(f, content)
	return nil
}

// SaveEdit writes the buffer into the current candidate, marking it
// edited with generated_edited provenance, and closes the buffer. The
// save is refused without any state change while a field error is
// present. Saving a buffer identical to the candidate's current content
// closes the buffer without a transition.
func (s *Session) SaveEdit() error {
	if s.buffer == nil {
		return ErrNotEditing
	}
	if s.HasFieldErrors() {
		return ErrFieldInvalid
	}

	cur := s.items[s.cursor]
	if s.buffer.Front == cur.Front && s.buffer.Back == cur.Back {
		s.closeBuffer()
		return nil
	}

	next, err := cur.WithContent(s.buffer.Front, s.buffer.Back)
	if err != nil {
		return err
	}
	s.items[s.cursor] = next
	s.closeBuffer()
	return nil
}

// CancelEdit discards the open edit buffer and clears field errors.
func (s *Session) CancelEdit() { s.closeBuffer() }

// Accept marks the current candidate accepted and advances the cursor
// when a next candidate exists. Pending candidates transition to
// accepted; edited candidates are left as edited.
func (s *Session) Accept() error {
	if len(s.items) == 0 {
		return errors.New("session is empty")
	}
	next, err := s.items[s.cursor].Accept()
	if err != nil {
		return err
	}
	s.items[s.cursor] = next
	if s.cursor < len(s.items)-1 {
		s.GoTo(s.cursor + 1)
	}
	return nil
}

// Reject removes the current candidate from the sequence. Subsequent
// indices shift down; the cursor is clamped to the new last index when
// the removed candidate was last. Removed candidates cannot be restored
// within the session.
func (s *Session) Reject() error {
	if len(s.items) == 0 {
		return errors.New("session is empty")
	}
	if _, err := s.items[s.cursor].Reject(); err != nil {
		return err
	}
	s.items = append(s.items[:s.cursor], s.items[s.cursor+1:]...)
	if s.cursor > len(s.items)-1 {
		s.cursor = len(s.items) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	s.flipped = false
	s.closeBuffer()
	return nil
}

// AcceptAll transitions every pending candidate to accepted. Candidates
// already decided (accepted or edited) are untouched. Returns the number
// of candidates transitioned. Confirmation is the caller's concern.
func (s *Session) AcceptAll() int {
	s.closeBuffer()
	n := 0
	for i, item := range s.items {
		if item.State() != card.StatePending {
			continue
		}
		next, err := item.Accept()
		if err != nil {
			continue
		}
		s.items[i] = next
		n++
	}
	return n
}

// RejectAll removes every remaining pending candidate in one step.
// Decided candidates stay. Returns the number removed. Confirmation is
// the caller's concern.
func (s *Session) RejectAll() int {
	s.closeBuffer()
	kept := s.items[:0]
	n := 0
	for _, item := range s.items {
		if item.State() == card.StatePending {
			n++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	if s.cursor > len(s.items)-1 {
		s.cursor = len(s.items) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	return n
}

// Committable returns the accepted and edited candidates in review
// order.
func (s *Session) Committable() []card.Candidate {
	var out []card.Candidate
	for _, item := range s.items {
		if item.Committable() {
			out = append(out, item)
		}
	}
	return out
}

// revalidate runs field validation over the whole buffer, used when a
// buffer opens so pre-existing violations surface immediately.
func (s *Session) revalidate() {
	s.fieldErrors[card.FieldFront] = validate.Field(card.FieldFront, s.buffer.Front)
	s.fieldErrors[card.FieldBack] = validate.Field(card.FieldBack, s.buffer.Back)
}

func (s *Session) closeBuffer() {
	s.buffer = nil
	s.fieldErrors = make(map[card.Field]*validate.FieldError)
}
