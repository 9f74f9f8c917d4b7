package ui

import (
	"github.com/atomicstack/gridcase/internal/logging"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	m.refresh()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		events.Action.Error(result.Err)
		return nil
	}
	m.errMsg = ""
	if result.Info != "" {
		m.setInfo(result.Info)
	} else {
		m.forceClearInfo()
	}
	events.Action.Success(result.Info)
	return nil
}

// loadMenuCmd runs the loader now, against the current session, and defers
// only the level push to the returned command.
func (m *Model) loadMenuCmd(id, title string, loader menu.Loader) tea.Cmd {
	items, err := loader(m.menuContext())
	if err != nil {
		logging.Error(err)
	}
	return func() tea.Msg {
		return categoryLoadedMsg{id: id, title: title, items: items, err: err}
	}
}

// categoryLoadedMsg carries a loaded submenu to the level stack.
type categoryLoadedMsg struct {
	id    string
	title string
	items []menu.Item
	err   error
}

func (m *Model) menuContext() menu.Context {
	return menu.Context{
		Session: m.session,
		Form:    m.form,
		Model:   m.session.Registry.Active(),
	}
}
