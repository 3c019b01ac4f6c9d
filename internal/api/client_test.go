package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizkit/deckhand/internal/core/card"
)

// noWait keeps retry tests instant.
func noWait(int) time.Duration { return 0 }

// newTestClient wires a client against an in-process server. The handler
// receives the 1-based call number so tests can fail the first N
// attempts.
func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, call int32), opts ...Option) (*Client, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(w, r, atomic.AddInt32(&calls, 1))
	}))
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBackoff(noWait)}, opts...)
	return New(srv.URL, "test-token", opts...), &calls
}

func TestReadRetriesThenSucceeds(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		if call <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"decks": []Deck{{ID: "d1", Name: "Spanish Verbs", CardCount: 42}},
		})
	})

	decks, err := client.ListDecks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls), "two failures consume two of three attempts")
	require.Len(t, decks, 1)
	assert.Equal(t, "Spanish Verbs", decks[0].Name)
}

func TestReadExhaustsAttempts(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "database down"})
	})

	_, err := client.ListDecks(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls), "read budget is three attempts")

	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.Status)
	assert.Contains(t, err.Error(), "database down", "the last error is reported, not a generic timeout")
}

func TestAuthErrorNeverRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	})

	_, err := client.ListDecks(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "401 fails on the first attempt")
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "token expired")
}

func TestNotFoundNeverRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.ListCards(context.Background(), "ghost", 1)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.True(t, IsNotFound(err))
}

func TestRateLimitRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		if call == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"cards": []Card{}})
	})

	_, err := client.StudyQueue(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestClientErrorFailsImmediatelyWithServerMessage(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "duplicate_card",
			"message": "a card with this front already exists",
		})
	})

	_, err := client.CreateCard(context.Background(), "d1", NewCard{Front: "f", Back: "b"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "4xx other than 429 is not retried")

	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "duplicate_card", serr.Code)
	assert.Contains(t, err.Error(), "a card with this front already exists")
}

func TestWriteBudgetIsTwoAttempts(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CreateCard(context.Background(), "d1", NewCard{Front: "f", Back: "b"})
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls), "writes retry once, not twice")
}

func TestCreateCardRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody NewCard

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Card{
			ID:         "srv_9",
			Front:      gotBody.Front,
			Back:       gotBody.Back,
			Provenance: gotBody.Provenance,
			CreatedAt:  time.Now().UTC(),
		})
	})

	got, err := client.CreateCard(context.Background(), "deck one", NewCard{
		Front:      "Hola",
		Back:       "Hello",
		Provenance: card.ProvenanceGeneratedEdited,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/decks/deck%20one/cards", gotPath, "deck IDs are path-escaped")
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "Hola", gotBody.Front)
	assert.Equal(t, card.ProvenanceGeneratedEdited, gotBody.Provenance)
	assert.Equal(t, "srv_9", got.ID, "the server-assigned ID replaces the temporary one")
}

func TestStudyQueueDeckFilter(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]any{"cards": []Card{}})
	})

	_, err := client.StudyQueue(context.Background(), "verbs")
	require.NoError(t, err)
	assert.Equal(t, "deck=verbs", gotQuery)
}

func TestBackoffAbortsOnContextCancel(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithBackoff(func(int) time.Duration { return time.Minute }))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.ListDecks(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "the wait aborts before the second attempt")
}

func TestDefaultBackoffDoubles(t *testing.T) {
	assert.Equal(t, time.Second, DefaultBackoff(0))
	assert.Equal(t, 2*time.Second, DefaultBackoff(1))
	assert.Equal(t, 4*time.Second, DefaultBackoff(2))
}
