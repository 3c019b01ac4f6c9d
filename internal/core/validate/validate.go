// Package validate provides the content rules applied to candidate
// fields, both per keystroke while editing and as a final pass before
// commit.
package validate

import (
	"strings"

	"github.com/quizkit/deckhand/internal/core/card"
	"github.com/quizkit/deckhand/internal/core/i18n"
)

// MaxFieldLength is the upper bound on a field's trimmed length.
const MaxFieldLength = 1000

// Error kinds carried by FieldError. Callers branch on the kind; the
// message text comes from the i18n catalog.
const (
	KindRequired  = "required"
	KindMaxLength = "max_length"
)

// FieldError is a field-scoped validation failure.
type FieldError struct {
	Field  card.Field
	Kind   string
	Params map[string]any
}

func (e *FieldError) Error() string {
	return i18n.T("error."+e.Kind, e.Params)
}

// Field checks a single field's content. Leading/trailing whitespace is
// stripped for the emptiness and length checks only; the stored content
// keeps it. Returns nil when the content is valid.
func Field(field card.Field, content string) *FieldError {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &FieldError{Field: field, Kind: KindRequired}
	}
	if len([]rune(trimmed)) > MaxFieldLength {
		return &FieldError{
			Field:  field,
			Kind:   KindMaxLength,
			Params: map[string]any{"max": MaxFieldLength},
		}
	}
	return nil
}

// ItemError tags a field error with the candidate it belongs to.
type ItemError struct {
	Index int
	ID    string
	*FieldError
}

// ForCommit re-applies the field rules to every accepted or edited
// candidate and returns the first violation found. This pass exists
// because a candidate can be accepted without ever entering edit mode,
// so edit-time validation does not cover it. Pending and rejected
// candidates are skipped.
func ForCommit(items []card.Candidate) *ItemError {
	for i, item := range items {
		if !item.Committable() {
			continue
		}
		for _, f := range []card.Field{card.FieldFront, card.FieldBack} {
			if err := Field(f, item.Get(f)); err != nil {
				return &ItemError{Index: i, ID: item.ID, FieldError: err}
			}
		}
	}
	return nil
}
