// Package commit persists a review session's final decisions. It is the
// only component in the tree that performs durable writes; everything in
// the session core is in-memory.
package commit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quizkit/deckhand/internal/api"
	"github.com/quizkit/deckhand/internal/core/card"
	"github.com/quizkit/deckhand/internal/core/validate"
)

// Persister is the network boundary for one card write.
type Persister interface {
	CreateCard(ctx context.Context, deckID string, req api.NewCard) (api.Card, error)
}

// Result is the outcome of a fully successful commit: every submitted
// candidate's persisted record, in review order, with server-assigned
// identifiers.
type Result struct {
	Persisted []api.Card
}

// PartialError reports a commit that failed mid-batch. Already-persisted
// cards are not undone and the remaining candidates were never
// submitted; the session's decision state stays intact so the caller can
// retry the remainder.
type PartialError struct {
	Succeeded int
	FailedID  string
	FailedIdx int
	FrontHint string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("commit failed on item %d after %d persisted: %v", e.FailedIdx+1, e.Succeeded, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Pipeline serializes persistence of accepted/edited candidates.
type Pipeline struct {
	persister Persister
	deckID    string
	log       zerolog.Logger
}

// New creates a pipeline writing into the given deck.
func New(persister Persister, deckID string, log zerolog.Logger) *Pipeline {
	return &Pipeline{persister: persister, deckID: deckID, log: log}
}

// Complete validates and persists the session's decisions.
//
// Validation runs first over every accepted/edited candidate; on a
// violation the pipeline aborts before any network call and returns the
// single *validate.ItemError. Qualifying candidates are then persisted
// strictly sequentially in review order, keeping the first-failure point
// unambiguous. The first failing write stops the batch and returns a
// *PartialError.
func (p *Pipeline) Complete(ctx context.Context, items []card.Candidate) (Result, error) {
	if err := validate.ForCommit(items); err != nil {
		return Result{}, err
	}

	var queue []card.Candidate
	for _, item := range items {
		if item.Committable() {
			queue = append(queue, item)
		}
	}

	persisted := make([]api.Card, 0, len(queue))
	for i, item := range queue {
		rec, err := p.persister.CreateCard(ctx, p.deckID, api.NewCard{
			Front:      item.Front,
			Back:       item.Back,
			Provenance: item.Provenance(),
		})
		if err != nil {
			p.log.Error().
				Err(err).
				Str("deck", p.deckID).
				Int("succeeded", len(persisted)).
				Int("failed_index", i).
				Msg("commit: persistence failed mid-batch")

			return Result{Persisted: persisted}, &PartialError{
				Succeeded: len(persisted),
				FailedID:  item.ID,
				FailedIdx: i,
				FrontHint: item.Front,
				Err:       err,
			}
		}
		persisted = append(persisted, rec)
	}

	p.log.Info().
		Str("deck", p.deckID).
		Int("persisted", len(persisted)).
		Msg("commit: complete")

	return Result{Persisted: persisted}, nil
}
