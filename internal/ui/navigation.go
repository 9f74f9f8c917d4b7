package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/gridcase/internal/logging"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/menu"
	"github.com/atomicstack/gridcase/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleEscapeKey() tea.Cmd {
	current := m.currentLevel()
	if current == nil {
		return tea.Quit
	}
	if len(m.stack) <= 1 {
		return tea.Quit
	}
	parent := m.stack[len(m.stack)-2]
	m.stack = m.stack[:len(m.stack)-1]
	m.clearDetail(current.ID)
	if parent != nil {
		if parent.LastCursor >= 0 && parent.LastCursor < len(parent.Items) {
			parent.Cursor = parent.LastCursor
		} else if idx := parent.IndexOf(current.ID); idx >= 0 {
			parent.Cursor = idx
		} else if len(parent.Items) > 0 {
			parent.Cursor = len(parent.Items) - 1
		}
		parent.LastCursor = -1
		m.syncViewport(parent)
		m.ensureDetailForLevel(parent)
	}
	m.errMsg = ""
	m.forceClearInfo()
	return nil
}

func (m *Model) handleEnterKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	if current == nil || len(current.Items) == 0 {
		return nil
	}
	ctx := m.menuContext()
	item := current.Items[current.Cursor]
	events.UI.Enter(current.ID, item.ID, item.Label, current.Filter)
	beforeCursor := current.FilterCursorPos()
	current.SetFilter("", 0)
	m.noteFilterCursorChange(current, beforeCursor)
	if _, ok := menu.ResultsPath(current.ID); ok && item.Group {
		current.LastCursor = current.Cursor
		id := menu.ResultsLevelID(item.ID)
		m.startLoading(id, item.Label)
		return m.loadMenuCmd(id, item.Label, menu.FormLoader(item.ID))
	}
	node := current.Node
	if node == nil {
		node, _ = m.registry.Find(current.ID)
	}
	if node != nil {
		if child, ok := node.Children[item.ID]; ok {
			if child.Loader != nil {
				current.LastCursor = current.Cursor
				m.startLoading(child.ID, item.Label)
				return m.loadMenuCmd(child.ID, item.Label, child.Loader)
			}
			if child.Action != nil {
				m.startLoading(child.ID, item.Label)
				return m.bus.Execute(ctx, command.Request{ID: child.ID, Label: item.Label, Handler: child.Action, Item: item})
			}
		}
		if node.Action != nil {
			m.startLoading(node.ID, item.Label)
			return m.bus.Execute(ctx, command.Request{ID: node.ID, Label: item.Label, Handler: node.Action, Item: item})
		}
	}
	m.setInfo(fmt.Sprintf("Selected %s (no action defined)", item.Label))
	return nil
}

func (m *Model) startLoading(id, label string) {
	m.loading = true
	m.pendingID = id
	m.pendingLabel = label
	m.errMsg = ""
	m.forceClearInfo()
}

// cycleModel makes the next loaded model active. The result tree belongs to
// the session, so only model-derived levels change.
func (m *Model) cycleModel() {
	names := m.session.Registry.Names()
	if len(names) == 0 {
		m.setInfo("No models loaded.")
		return
	}
	from := m.session.Registry.Active()
	next := menu.NextModel(names, from)
	if next == from {
		m.setInfo(fmt.Sprintf("Only model: %s", from))
		return
	}
	m.session.SetActive(next)
	events.UI.SwitchModel(from, next)
	m.refresh()
	m.setInfo(fmt.Sprintf("Active model: %s", next))
}

func (m *Model) moveCursorUp() {
	if current := m.currentLevel(); current != nil {
		if n := len(current.Items); n > 0 {
			if current.Cursor > 0 {
				current.Cursor--
			} else {
				current.Cursor = n - 1
			}
			events.UI.Cursor(current.ID, current.Cursor)
			m.syncViewport(current)
			m.ensureDetailForLevel(current)
		}
	}
}

func (m *Model) moveCursorDown() {
	if current := m.currentLevel(); current != nil {
		if n := len(current.Items); n > 0 {
			if current.Cursor < n-1 {
				current.Cursor++
			} else {
				current.Cursor = 0
			}
			events.UI.Cursor(current.ID, current.Cursor)
			m.syncViewport(current)
			m.ensureDetailForLevel(current)
		}
	}
}

func (m *Model) moveCursorPageUp() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorPageUp(m.maxVisibleItems()); moved {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
		m.ensureDetailForLevel(current)
	}
}

func (m *Model) moveCursorPageDown() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorPageDown(m.maxVisibleItems()); moved {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
		m.ensureDetailForLevel(current)
	}
}

func (m *Model) moveCursorHome() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorHome(); moved {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
		m.ensureDetailForLevel(current)
	}
}

func (m *Model) moveCursorEnd() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorEnd(); moved {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
		m.ensureDetailForLevel(current)
	}
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.mode != ModeMenu {
		return nil
	}
	if keyMsg.Type == tea.KeyTab {
		m.cycleModel()
		return nil
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "up":
		m.moveCursorUp()
	case "down":
		m.moveCursorDown()
	case "pgup":
		m.moveCursorPageUp()
	case "pgdown":
		m.moveCursorPageDown()
	case "home":
		m.moveCursorHome()
	case "end":
		m.moveCursorEnd()
	}
	return nil
}

func (m *Model) handleCategoryLoadedMsg(msg tea.Msg) tea.Cmd {
	update, ok := msg.(categoryLoadedMsg)
	if !ok {
		return nil
	}
	if update.id != m.pendingID {
		return nil
	}
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	if update.err != nil {
		m.errMsg = update.err.Error()
		return nil
	}
	m.errMsg = ""
	node, _ := m.registry.Find(update.id)
	level := newLevel(update.id, update.title, update.items, node)
	m.syncViewport(level)
	m.stack = append(m.stack, level)
	m.ensureDetailForLevel(level)
	if len(level.Items) == 0 {
		m.setInfo("No entries found.")
	} else if m.infoMsg != "" {
		m.clearInfo()
	}
	return nil
}

func (m *Model) findLevelByID(id string) *level {
	for _, lvl := range m.stack {
		if lvl.ID == id {
			return lvl
		}
	}
	return nil
}

func (m *Model) applyRootMenuOverride(requested string) {
	trimmed := strings.TrimSpace(requested)
	if trimmed == "" {
		m.rootMenuID = ""
		m.rootTitle = defaultRootTitle
		return
	}
	if m.registry == nil {
		return
	}
	id := strings.ToLower(trimmed)
	node, ok := m.registry.Find(id)
	if !ok || node.Loader == nil || node == m.registry.Root() {
		m.errMsg = fmt.Sprintf("Unknown root menu %q", trimmed)
		m.rootMenuID = ""
		m.rootTitle = defaultRootTitle
		return
	}

	items, err := node.Loader(m.menuContext())
	if err != nil {
		logging.Error(err)
		m.errMsg = fmt.Sprintf("Failed to load %s menu: %v", id, err)
	} else {
		m.errMsg = ""
	}

	title := strings.TrimSpace(headerSegmentCleaner.Replace(node.ID))
	root := newLevel(node.ID, title, items, node)
	m.syncViewport(root)
	m.stack = []*level{root}
	m.rootMenuID = node.ID

	segment := headerSegmentForLevel(root)
	if segment == "" {
		segment = title
	}
	if segment == "" {
		segment = node.ID
	}
	m.rootTitle = segment
	m.ensureDetailForLevel(root)
}

func (m *Model) currentLevel() *level {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}
