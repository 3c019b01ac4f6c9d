package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quizkit/deckhand/internal/core/card"
	"github.com/quizkit/deckhand/internal/core/session"
)

// editForm is the two-field editor for the candidate at the cursor.
// Every keystroke is written through to the session's edit buffer, which
// re-runs field validation; the form only renders what the session
// reports.
type editForm struct {
	front textarea.Model
	back  textarea.Model
	focus card.Field
}

func newEditForm(buf session.EditBuffer, width int) editForm {
	front := newFieldArea("Question…", width)
	front.SetValue(buf.Front)

	back := newFieldArea("Answer…", width)
	back.SetValue(buf.Back)

	return editForm{front: front, back: back, focus: card.FieldFront}
}

func newFieldArea(placeholder string, width int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(4)
	if width > 8 {
		ta.SetWidth(width - 8)
	}
	return ta
}

// switchFocus moves focus to the other field.
func (f editForm) switchFocus() (editForm, tea.Cmd) {
	if f.focus == card.FieldFront {
		f.focus = card.FieldBack
		f.front.Blur()
		return f, f.back.Focus()
	}
	f.focus = card.FieldFront
	f.back.Blur()
	return f, f.front.Focus()
}

// update forwards a message to the focused textarea and writes the new
// value through to the session's edit buffer.
func (f editForm) update(msg tea.Msg, sess *session.Session) (editForm, tea.Cmd) {
	var cmd tea.Cmd
	if f.focus == card.FieldFront {
		f.front, cmd = f.front.Update(msg)
		_ = sess.ChangeField(card.FieldFront, f.front.Value())
	} else {
		f.back, cmd = f.back.Update(msg)
		_ = sess.ChangeField(card.FieldBack, f.back.Value())
	}
	return f, cmd
}

// setSize resizes both textareas.
func (f *editForm) setSize(width int) {
	if width > 8 {
		f.front.SetWidth(width - 8)
		f.back.SetWidth(width - 8)
	}
}

// view renders both fields with their labels and any field-scoped
// validation errors the session currently holds.
func (f editForm) view(sess *session.Session) string {
	sections := []string{
		titleStyle.Render("Edit card"),
		"",
		f.fieldView("Front", card.FieldFront, f.front, sess),
		"",
		f.fieldView("Back", card.FieldBack, f.back, sess),
		"",
		helpStyle.Render("tab: switch field • ctrl+s: save • esc: cancel"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (f editForm) fieldView(label string, field card.Field, ta textarea.Model, sess *session.Session) string {
	title := fieldLabelStyle.Render(label)
	if f.focus != field {
		title = cardLabelStyle.Render(label)
	}

	parts := []string{title, ta.View()}
	if err := sess.FieldError(field); err != nil {
		parts = append(parts, errorStyle.Render("✗ "+err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
