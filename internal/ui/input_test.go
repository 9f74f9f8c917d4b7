package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/gridcase/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

func TestHandleTextInputAppendsRunes(t *testing.T) {
	m := NewModel(Options{})
	current := m.currentLevel()
	current.UpdateItems([]menu.Item{{ID: "one"}})
	handled := m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	if !handled {
		t.Fatalf("expected key press to be handled")
	}
	if current.Filter != "abc" {
		t.Fatalf("expected filter 'abc', got %q", current.Filter)
	}
	if pos := current.FilterCursorPos(); pos != 3 {
		t.Fatalf("expected cursor at end, got %d", pos)
	}
}

func TestHandleTextInputCursorMovement(t *testing.T) {
	m := NewModel(Options{})
	current := m.currentLevel()
	current.UpdateItems([]menu.Item{{ID: "one"}})
	current.SetFilter("abc", 3)

	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyLeft}) {
		t.Fatalf("expected left arrow to be handled")
	}
	if pos := current.FilterCursorPos(); pos != 2 {
		t.Fatalf("expected cursor at 2 after left, got %d", pos)
	}

	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyRight}) {
		t.Fatalf("expected right arrow to be handled")
	}
	if pos := current.FilterCursorPos(); pos != 3 {
		t.Fatalf("expected cursor back at 3, got %d", pos)
	}
}

func TestFilterPromptPlaceholder(t *testing.T) {
	m := NewModel(Options{})
	current := m.currentLevel()
	current.SetFilter("", 0)
	prompt := m.filterPrompt()
	if prompt == "" {
		t.Fatalf("expected non-empty prompt")
	}
	if !strings.Contains(prompt, "type to search") {
		t.Fatalf("expected placeholder in prompt, got %q", prompt)
	}
}

func TestFilterByCaseIDUpdatesDetail(t *testing.T) {
	m, _ := browsingModel(t, Options{})
	nested, _ := menu.FormItems(m.form, "0")
	lvl := newLevel("results:0", "temps.csv (2)", nested, nil)
	m.stack = append(m.stack, lvl)
	m.ensureDetailForLevel(lvl)
	if d := m.activeDetail(); d == nil || d.target != "0:1" {
		t.Fatalf("expected detail for the last item, got %#v", d)
	}

	for _, r := range "#0" {
		if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}) {
			t.Fatalf("expected %q to be handled", r)
		}
	}
	if len(lvl.Items) != 1 || lvl.Items[0].CaseID != 0 {
		t.Fatalf("expected only case 0, got %#v", lvl.Items)
	}
	if d := m.activeDetail(); d == nil || d.target != "0:0" {
		t.Fatalf("expected detail to follow the filter, got %#v", d)
	}

	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlU}) {
		t.Fatalf("expected ctrl+u to clear the filter")
	}
	if lvl.Filter != "" || len(lvl.Items) != 2 {
		t.Fatalf("expected filter cleared, got %q %#v", lvl.Filter, lvl.Items)
	}
}
