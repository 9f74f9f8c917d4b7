package ui

import (
	"strings"

	"github.com/atomicstack/gridcase/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleScriptForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.scriptForm == nil {
		return false, nil
	}
	cmd, done, cancel := m.scriptForm.Update(msg)
	if cancel {
		m.scriptForm = nil
		m.mode = ModeMenu
		return true, cmd
	}
	if done {
		path := m.scriptForm.Value()
		m.scriptForm = nil
		m.mode = ModeMenu
		m.loading = true
		m.pendingID = "script"
		m.pendingLabel = path
		return true, cmd
	}
	return true, cmd
}

func (m *Model) startScriptForm(prompt menu.ScriptPrompt) {
	m.scriptForm = menu.NewScriptForm(prompt)
	m.mode = ModeScriptForm
}

func (m *Model) viewScriptFormWithHeader(header string) string {
	lines := []string{}
	if header != "" {
		lines = append(lines, header)
	}
	lines = append(lines, m.scriptForm.Title(), "", m.scriptForm.InputView())
	if err := m.scriptForm.Error(); err != "" {
		lines = append(lines, "", styles.Error.Render(err))
	}
	lines = append(lines, "", m.scriptForm.Help())
	return strings.Join(lines, "\n")
}
