package ui

import (
	"unicode"

	"github.com/atomicstack/gridcase/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l == nil {
		return
	}
	if before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

// filterKey is one editing binding for the filter line. Edits change the
// query, so the list is refiltered and the detail panel follows; the rest
// only move the filter cursor.
type filterKey struct {
	apply func(*level) bool
	edit  bool
	trace func(*level)
}

func traceFilterCursor(l *level) { events.Filter.Cursor(l.ID, l.FilterCursor) }

var filterKeys = map[string]filterKey{
	"ctrl+u":    {apply: clearFilter, edit: true, trace: func(l *level) { events.Filter.Cleared(l.ID) }},
	"ctrl+w":    {apply: (*level).DeleteFilterWordBackward, edit: true, trace: func(l *level) { events.Filter.WordBackspace(l.ID, l.Filter) }},
	"backspace": {apply: (*level).DeleteFilterRuneBackward, edit: true, trace: func(l *level) { events.Filter.Backspace(l.ID, l.Filter) }},
	"ctrl+h":    {apply: (*level).DeleteFilterRuneBackward, edit: true, trace: func(l *level) { events.Filter.Backspace(l.ID, l.Filter) }},
	"ctrl+a":    {apply: (*level).MoveFilterCursorStart, trace: traceFilterCursor},
	"ctrl+e":    {apply: (*level).MoveFilterCursorEnd, trace: traceFilterCursor},
	"alt+b":     {apply: (*level).MoveFilterCursorWordBackward, trace: traceFilterCursor},
	"alt+f":     {apply: (*level).MoveFilterCursorWordForward, trace: traceFilterCursor},
	"left":      {apply: (*level).MoveFilterCursorRuneBackward, trace: traceFilterCursor},
	"right":     {apply: (*level).MoveFilterCursorRuneForward, trace: traceFilterCursor},
}

func clearFilter(l *level) bool {
	if l.Filter == "" {
		return false
	}
	l.SetFilter("", 0)
	return true
}

// handleTextInput applies filter keys and typed text to the current level.
// It reports false for keys the filter line does not use.
func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	if m.loading {
		return false
	}
	current := m.currentLevel()
	if current == nil {
		return false
	}
	if key, ok := filterKeys[msg.String()]; ok {
		return m.applyFilterKey(current, key)
	}
	text, ok := typedText(msg)
	if !ok {
		return false
	}
	return m.applyFilterKey(current, filterKey{
		apply: func(l *level) bool { return l.InsertFilterText(text) },
		edit:  true,
		trace: func(l *level) { events.Filter.Append(l.ID, l.Filter) },
	})
}

func (m *Model) applyFilterKey(l *level, key filterKey) bool {
	before := l.FilterCursorPos()
	if !key.apply(l) {
		return false
	}
	m.noteFilterCursorChange(l, before)
	key.trace(l)
	if key.edit {
		m.forceClearInfo()
		m.errMsg = ""
		m.syncViewport(l)
		m.ensureDetailForLevel(l)
	}
	return true
}

// typedText returns the printable text a key press adds to the filter.
func typedText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return " ", true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return "", false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) || unicode.IsSpace(r) {
				return "", false
			}
		}
		return string(msg.Runes), true
	}
	return "", false
}

const filterPlaceholder = "(type to search, #n for a case)"

// filterPrompt renders the filter line with the blinking caret over the
// rune at the filter cursor. An empty filter shows the placeholder with the
// caret on its first rune.
func (m *Model) filterPrompt() string {
	prompt := renderStyled(styles.FilterPrompt, "» ")
	current := m.currentLevel()
	if current == nil {
		return prompt
	}
	m.filterCursor.Style = styleOrZero(styles.Cursor)
	textStyle := styles.Filter
	runes := []rune(current.Filter)
	pos := current.FilterCursorPos()
	if len(runes) == 0 {
		textStyle = styles.FilterPlaceholder
		runes = []rune(filterPlaceholder)
		pos = 0
	}
	m.filterCursor.TextStyle = styleOrZero(textStyle)
	caret := " "
	after := ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = string(runes[pos+1:])
	}
	return prompt +
		renderStyled(textStyle, string(runes[:pos])) +
		m.renderFilterCursor(caret) +
		renderStyled(textStyle, after)
}

func renderStyled(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

func styleOrZero(style *lipgloss.Style) lipgloss.Style {
	if style == nil {
		return lipgloss.Style{}
	}
	return style.Copy()
}

// renderFilterCursor draws the caret. While the blink is in its off phase
// the rune is drawn plainly; otherwise the cursor style, or reverse video
// without one, marks it.
func (m *Model) renderFilterCursor(char string) string {
	m.filterCursor.SetChar(char)
	base := m.filterCursor.TextStyle.Copy().Inline(true)
	switch {
	case m.filterCursor.Blink:
		return base.Render(char)
	case styles.Cursor != nil:
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
