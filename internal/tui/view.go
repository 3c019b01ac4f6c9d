package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quizkit/deckhand/internal/core/card"
	"github.com/quizkit/deckhand/internal/core/commit"
	"github.com/quizkit/deckhand/internal/core/validate"
)

// View implements tea.Model.
func (m Model) View() string {
	var body string

	switch m.mode {
	case modeEdit:
		body = m.editor.view(m.session)
	case modeCommitting:
		body = m.viewCommitting()
	case modeSummary:
		body = m.viewSummary()
	default:
		body = m.viewReview()
	}

	if m.mode == modeConfirm && m.confirm != nil {
		modal := modalStyle.Render(m.confirm.View())
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return modal
	}

	return body
}

func (m Model) viewReview() string {
	if m.session.Len() == 0 {
		empty := []string{
			titleStyle.Render("Review — " + m.deckID),
			"",
			helpStyle.Render("No candidates remain."),
			"",
		}
		if len(m.session.Committable()) > 0 {
			empty = append(empty, helpStyle.Render("c: save accepted cards • q: quit"))
		} else {
			empty = append(empty, helpStyle.Render("q: quit"))
		}
		return lipgloss.JoinVertical(lipgloss.Left, empty...)
	}

	cur, _ := m.session.Current()

	header := titleStyle.Render(fmt.Sprintf("Review — deck %s", m.deckID)) +
		helpStyle.Render(fmt.Sprintf("  card %d/%d", m.session.Cursor()+1, m.session.Len()))

	side := "Front"
	text := cur.Front
	if m.session.Flipped() {
		side = "Back"
		text = cur.Back
	}

	boxWidth := m.width - 4
	if boxWidth < 20 {
		boxWidth = 60
	}
	box := cardBoxStyle.Width(boxWidth).Render(
		cardLabelStyle.Render(side) + "\n\n" + cardTextStyle.Render(text),
	)

	decided := 0
	for _, item := range m.session.Items() {
		if item.Committable() {
			decided++
		}
	}

	status := stateBadge(cur) + helpStyle.Render(fmt.Sprintf("  •  %d ready to save", decided))

	help := helpStyle.Render(
		"←/→: navigate • space: flip • enter: accept • e: edit • x: reject\n" +
			"a: accept all • r: reject all • c: save accepted • esc: quit without saving",
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, "", box, "", status, "", help)
}

func stateBadge(c card.Candidate) string {
	switch c.State() {
	case card.StateAccepted:
		return badgeAcceptedStyle.Render("● accepted")
	case card.StateEdited:
		return badgeEditedStyle.Render("● edited")
	default:
		return badgePendingStyle.Render("○ pending")
	}
}

func (m Model) viewCommitting() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Saving cards…"),
		"",
		helpStyle.Render("Cards are persisted one at a time, in review order."),
	)
}

func (m Model) viewSummary() string {
	if m.commitErr == nil {
		lines := []string{
			successStyle.Render(fmt.Sprintf("✓ %d card(s) saved", len(m.persisted))),
			"",
		}
		for _, rec := range m.persisted {
			lines = append(lines, helpStyle.Render("  • ")+cardTextStyle.Render(truncate(rec.Front, 60)))
		}
		lines = append(lines, "", helpStyle.Render("q: quit"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines := []string{errorStyle.Render("✗ Commit failed"), ""}

	var itemErr *validate.ItemError
	var partial *commit.PartialError
	switch {
	case errors.As(m.commitErr, &itemErr):
		lines = append(lines,
			cardTextStyle.Render(fmt.Sprintf("Card %d has an invalid %s field: %s",
				itemErr.Index+1, itemErr.Field, itemErr.Error())),
			"",
			helpStyle.Render("Nothing was saved. Fix the card and save again."),
		)
	case errors.As(m.commitErr, &partial):
		lines = append(lines,
			cardTextStyle.Render(fmt.Sprintf("%d card(s) saved before %q failed: %v",
				partial.Succeeded, truncate(partial.FrontHint, 40), partial.Err)),
			"",
			helpStyle.Render("Saved cards were not undone. Your decisions are intact."),
		)
	default:
		lines = append(lines, cardTextStyle.Render(m.commitErr.Error()))
	}

	lines = append(lines, "", helpStyle.Render("c: retry • q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
