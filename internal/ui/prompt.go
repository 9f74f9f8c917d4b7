package ui

import (
	"github.com/atomicstack/gridcase/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

type promptResult struct {
	Cmd  tea.Cmd
	Info string
	Err  error
}

// withPrompt centralises the common prompt flow: reset pending state, then
// run the provided action. The action can return a promptResult to control
// follow-up behaviour (command to run, informational message, or error).
func (m *Model) withPrompt(action func() promptResult) tea.Cmd {
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	m.forceClearInfo()
	m.errMsg = ""
	if action == nil {
		return nil
	}
	result := action()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		return nil
	}
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	}
	return result.Cmd
}

func (m *Model) handleScriptPromptMsg(msg tea.Msg) tea.Cmd {
	prompt, ok := msg.(menu.ScriptPrompt)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		m.startScriptForm(prompt)
		return promptResult{Info: "Enter a script path"}
	})
}
