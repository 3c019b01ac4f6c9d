// Package tui is the interactive review interface. It is a thin
// dispatcher: every key maps to one session operation, and bubbletea's
// single Update loop guarantees no second input is applied until the
// prior transition has completed.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/quizkit/deckhand/internal/api"
	"github.com/quizkit/deckhand/internal/core/card"
	"github.com/quizkit/deckhand/internal/core/commit"
	"github.com/quizkit/deckhand/internal/core/session"
	"github.com/quizkit/deckhand/internal/tui/components"
)

type mode int

const (
	modeReview mode = iota
	modeEdit
	modeConfirm
	modeCommitting
	modeSummary
)

type bulkAction int

const (
	bulkNone bulkAction = iota
	bulkAccept
	bulkReject
)

// commitDoneMsg carries the pipeline outcome back onto the UI loop.
type commitDoneMsg struct {
	result commit.Result
	err    error
}

// Model is the review TUI.
type Model struct {
	session  *session.Session
	pipeline *commit.Pipeline
	deckID   string
	log      zerolog.Logger

	mode        mode
	editor      editForm
	confirm     *components.ConfirmModal
	pendingBulk bulkAction

	width  int
	height int

	persisted    []api.Card
	persistedIDs map[string]struct{}
	inFlight     []card.Candidate
	commitErr    error
	cancelled    bool
}

// New creates the review model over an open session.
func New(sess *session.Session, pipeline *commit.Pipeline, deckID string, log zerolog.Logger) Model {
	return Model{
		session:  sess,
		pipeline: pipeline,
		deckID:   deckID,
		log:      log,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Persisted returns the records persisted by a successful commit, for
// the caller's completion handling after the program exits.
func (m Model) Persisted() []api.Card { return m.persisted }

// CommitErr returns the commit failure, if any.
func (m Model) CommitErr() error { return m.commitErr }

// Cancelled reports whether the user closed the session without
// committing.
func (m Model) Cancelled() bool { return m.cancelled }

// Update implements tea.Model. Dispatch order matters: an active modal
// owns the keyboard, then the current mode, then the review keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The editor's textareas exist only while editing; resizing a
		// zero-value textarea panics.
		if m.mode == modeEdit {
			m.editor.setSize(msg.Width)
		}
		return m, nil

	case commitDoneMsg:
		// The session may have been closed while the request was in
		// flight; it no longer controls these results, so drop them.
		if !m.session.IsOpen() {
			m.log.Debug().Msg("tui: commit result suppressed, session closed")
			return m, tea.Quit
		}
		m.mode = modeSummary
		// Record which candidates made it, by ID. A partial failure's
		// successes are durable and must not be resubmitted, even if the
		// user changes other decisions before retrying.
		if m.persistedIDs == nil {
			m.persistedIDs = make(map[string]struct{})
		}
		for i := range msg.result.Persisted {
			if i < len(m.inFlight) {
				m.persistedIDs[m.inFlight[i].ID] = struct{}{}
			}
		}
		m.inFlight = nil
		m.persisted = append(m.persisted, msg.result.Persisted...)
		m.commitErr = msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.session.Close()
			m.cancelled = true
			return m, tea.Quit
		}
		return m.updateKey(msg)
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeConfirm:
		return m.updateConfirm(msg)
	case modeEdit:
		return m.updateEdit(msg)
	case modeCommitting:
		// A commit is in flight; input is applied only after it reports.
		return m, nil
	case modeSummary:
		return m.updateSummary(msg)
	default:
		return m.updateReview(msg)
	}
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal, cmd := m.confirm.Update(msg)
	m.confirm = &modal

	if m.confirm.Confirmed() {
		switch m.pendingBulk {
		case bulkAccept:
			n := m.session.AcceptAll()
			m.log.Debug().Int("accepted", n).Msg("tui: accept all")
		case bulkReject:
			n := m.session.RejectAll()
			m.log.Debug().Int("rejected", n).Msg("tui: reject all")
		}
		m.pendingBulk = bulkNone
		m.confirm = nil
		m.mode = modeReview
		return m, cmd
	}

	if m.confirm.Cancelled() {
		m.pendingBulk = bulkNone
		m.confirm = nil
		m.mode = modeReview
	}
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.session.CancelEdit()
		m.mode = modeReview
		return m, nil
	case "tab", "shift+tab":
		var cmd tea.Cmd
		m.editor, cmd = m.editor.switchFocus()
		return m, cmd
	case "ctrl+s":
		err := m.session.SaveEdit()
		if errors.Is(err, session.ErrFieldInvalid) {
			// Refused without state change; errors stay on screen.
			return m, nil
		}
		if err != nil {
			m.log.Error().Err(err).Msg("tui: save edit failed")
			return m, nil
		}
		m.mode = modeReview
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.update(msg, m.session)
	return m, cmd
}

func (m Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "enter":
		if m.commitErr != nil {
			// Decisions are intact; go back to the session so the user
			// can fix or retry.
			m.commitErr = nil
			m.mode = modeReview
			return m, nil
		}
		return m, tea.Quit
	case "c":
		if m.commitErr != nil {
			return m.startCommit()
		}
	}
	return m, nil
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.session.Close()
		m.cancelled = true
		return m, tea.Quit

	case "left":
		m.session.Previous()
		return m, nil

	case "right":
		m.session.Next()
		return m, nil

	case "up", "down", " ":
		m.session.ToggleFlip()
		return m, nil

	case "enter":
		if m.session.Len() == 0 {
			return m, nil
		}
		if err := m.session.Accept(); err != nil {
			m.log.Debug().Err(err).Msg("tui: accept refused")
		}
		return m, nil

	case "e":
		m.session.BeginEdit()
		if buf := m.session.Buffer(); buf != nil {
			m.editor = newEditForm(*buf, m.width)
			m.mode = modeEdit
			return m, m.editor.front.Focus()
		}
		return m, nil

	case "x":
		if err := m.session.Reject(); err != nil {
			m.log.Debug().Err(err).Msg("tui: reject refused")
		}
		return m, nil

	case "a":
		if m.session.Len() == 0 {
			return m, nil
		}
		modal := components.NewConfirmModal("Accept all pending candidates?")
		m.confirm = &modal
		m.pendingBulk = bulkAccept
		m.mode = modeConfirm
		return m, nil

	case "r":
		if m.session.Len() == 0 {
			return m, nil
		}
		modal := components.NewConfirmModal(fmt.Sprintf("Reject all pending candidates? Removed cards cannot be restored (%d remaining).", m.session.Len()))
		m.confirm = &modal
		m.pendingBulk = bulkReject
		m.mode = modeConfirm
		return m, nil

	case "c":
		if len(m.session.Committable()) == 0 {
			return m, nil
		}
		return m.startCommit()
	}

	return m, nil
}

// startCommit kicks off the pipeline as a command. The session stays
// open; only its keyboard is parked until the outcome arrives. On a
// retry after a partial failure, candidates already persisted are
// filtered out by ID so nothing is written twice, regardless of how
// decisions changed in between.
func (m Model) startCommit() (tea.Model, tea.Cmd) {
	m.mode = modeCommitting
	m.commitErr = nil

	var items []card.Candidate
	for _, item := range m.session.Committable() {
		if _, done := m.persistedIDs[item.ID]; done {
			continue
		}
		items = append(items, item)
	}
	m.inFlight = items
	pipeline := m.pipeline

	return m, func() tea.Msg {
		result, err := pipeline.Complete(context.Background(), items)
		return commitDoneMsg{result: result, err: err}
	}
}
