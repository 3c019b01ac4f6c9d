package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/quizkit/deckhand/internal/core/card"
)

// Card is a persisted flashcard as the server returns it.
type Card struct {
	ID         string          `json:"id"`
	Front      string          `json:"front"`
	Back       string          `json:"back"`
	Provenance card.Provenance `json:"provenance"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewCard is the persistence request for one accepted or edited
// candidate.
type NewCard struct {
	Front      string          `json:"front"`
	Back       string          `json:"back"`
	Provenance card.Provenance `json:"provenance"`
}

// Deck is a card collection summary.
type Deck struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"cardCount"`
}

// CardPage is one page of a deck's cards. The server owns the ordering.
type CardPage struct {
	Cards   []Card `json:"cards"`
	Page    int    `json:"page"`
	HasMore bool   `json:"hasMore"`
}

// CreateCard persists one card into a deck. Write path: retried at most
// the write attempt budget.
func (c *Client) CreateCard(ctx context.Context, deckID string, req NewCard) (Card, error) {
	var out Card
	path := fmt.Sprintf("/api/decks/%s/cards", url.PathEscape(deckID))
	if err := c.do(ctx, http.MethodPost, path, req, &out, c.writeAttempts); err != nil {
		return Card{}, fmt.Errorf("create card: %w", err)
	}
	c.log.Debug().Str("deck", deckID).Str("card_id", out.ID).Msg("api: card created")
	return out, nil
}

// ListDecks returns the available decks.
func (c *Client) ListDecks(ctx context.Context) ([]Deck, error) {
	var out struct {
		Decks []Deck `json:"decks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/decks", nil, &out, c.readAttempts); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return out.Decks, nil
}

// ListCards returns one page of a deck's cards. Page numbers start at 1.
func (c *Client) ListCards(ctx context.Context, deckID string, page int) (CardPage, error) {
	var out CardPage
	path := fmt.Sprintf("/api/decks/%s/cards?page=%d", url.PathEscape(deckID), page)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, c.readAttempts); err != nil {
		return CardPage{}, fmt.Errorf("list cards: %w", err)
	}
	return out, nil
}

// StudyQueue returns the cards currently due for review. deckID may be
// empty to fetch the queue across all decks.
func (c *Client) StudyQueue(ctx context.Context, deckID string) ([]Card, error) {
	path := "/api/study/queue"
	if deckID != "" {
		path += "?deck=" + url.QueryEscape(deckID)
	}
	var out struct {
		Cards []Card `json:"cards"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out, c.readAttempts); err != nil {
		return nil, fmt.Errorf("study queue: %w", err)
	}
	return out.Cards, nil
}

// SubmitGrade reports one study review grade (0-5) for a card. The
// scheduling itself is server-side.
func (c *Client) SubmitGrade(ctx context.Context, cardID string, grade int) error {
	body := struct {
		CardID string `json:"cardId"`
		Grade  int    `json:"grade"`
	}{CardID: cardID, Grade: grade}

	if err := c.do(ctx, http.MethodPost, "/api/study/reviews", body, nil, c.writeAttempts); err != nil {
		return fmt.Errorf("submit grade: %w", err)
	}
	return nil
}
