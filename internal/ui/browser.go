package ui

import (
	"github.com/atomicstack/gridcase/internal/catalog"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/menu"
)

// UpdateResults replaces the displayed result tree. Open result levels are
// rebuilt from the new tree; levels whose group no longer exists are closed.
func (m *Model) UpdateResults(form []catalog.FormNode, name string) error {
	m.form = catalog.CloneForm(form)
	m.formModel = name
	events.UI.Results(name, len(form))
	m.refreshResultLevels()
	return nil
}

// UpdateMethods replaces the list of available display methods.
func (m *Model) UpdateMethods(methods []catalog.FormNode) error {
	m.methods = catalog.CloneForm(methods)
	names := make([]string, 0, len(methods))
	for _, method := range methods {
		names = append(names, method.Name)
	}
	events.UI.Methods(names)
	return nil
}

// GetForm returns the tree currently shown.
func (m *Model) GetForm() []catalog.FormNode {
	return catalog.CloneForm(m.form)
}

// refresh pulls the catalog's tree after a session mutation that does not
// push (clearing geometry empties the catalog silently) and rebuilds every
// level whose content derives from the session.
func (m *Model) refresh() {
	m.form = m.session.Catalog.Form()
	m.formModel = m.session.Registry.Active()
	m.refreshResultLevels()
	ctx := m.menuContext()
	if lvl := m.findLevelByID("models"); lvl != nil {
		lvl.UpdateItems(menu.ModelItems(ctx))
		m.syncViewport(lvl)
	}
	if lvl := m.findLevelByID("labels"); lvl != nil {
		if node, ok := m.registry.Find("labels"); ok && node.Loader != nil {
			if items, err := node.Loader(ctx); err == nil {
				lvl.UpdateItems(items)
				m.syncViewport(lvl)
			}
		}
	}
	m.ensureDetailForLevel(m.currentLevel())
}

func (m *Model) refreshResultLevels() {
	for i, lvl := range m.stack {
		path, ok := menu.ResultsPath(lvl.ID)
		if !ok {
			continue
		}
		items, err := menu.FormItems(m.form, path)
		if err != nil {
			m.truncateStack(i)
			break
		}
		lvl.UpdateItems(items)
		m.syncViewport(lvl)
		m.clearDetail(lvl.ID)
	}
	m.ensureDetailForLevel(m.currentLevel())
}

// truncateStack drops the level at index i and everything above it. The
// root level is never dropped.
func (m *Model) truncateStack(i int) {
	if i < 1 {
		i = 1
	}
	if i >= len(m.stack) {
		return
	}
	for _, lvl := range m.stack[i:] {
		m.clearDetail(lvl.ID)
	}
	m.stack = m.stack[:i]
	parent := m.stack[len(m.stack)-1]
	if parent.LastCursor >= 0 && parent.LastCursor < len(parent.Items) {
		parent.Cursor = parent.LastCursor
	}
	parent.LastCursor = -1
	m.syncViewport(parent)
}
