package ui

import (
	"fmt"
	"path/filepath"

	"github.com/atomicstack/gridcase/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent loads a watched file into the session. Failures stay
// visible in the status line until the next successful load.
func (m *Model) applyBackendEvent(evt backend.Event) {
	res := m.dispatcher.Handle(evt)
	name := filepath.Base(evt.Path)
	if res.Err != nil {
		m.backendLastErr = fmt.Sprintf("%s: %v", name, res.Err)
		return
	}
	m.backendLastErr = ""
	if !res.Changed() {
		return
	}
	m.refresh()
	switch {
	case res.Geometry != "":
		m.setInfo(fmt.Sprintf("Loaded model %s from %s", res.Geometry, name))
	case len(res.Cases) == 1:
		m.setInfo(fmt.Sprintf("Loaded 1 case from %s", name))
	default:
		m.setInfo(fmt.Sprintf("Loaded %d cases from %s", len(res.Cases), name))
	}
}

func (m *Model) backendIssue() (bool, string) {
	if m.backendLastErr == "" {
		return false, ""
	}
	return true, m.backendLastErr
}
