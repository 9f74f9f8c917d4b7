package menu

import (
	"strings"
	"unicode"

	"github.com/atomicstack/gridcase/internal/catalog"
	"github.com/atomicstack/gridcase/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Item represents a selectable menu entry.
type Item struct {
	ID    string
	Label string
	// CaseID is the catalog case behind a result leaf, or catalog.NoCase.
	CaseID int
	// Group marks form-tree groups, which open a nested level.
	Group bool
}

// Context carries runtime data needed by loader and action functions.
type Context struct {
	Session *session.Session
	Form    []catalog.FormNode
	Model   string
}

// Loader populates submenu entries on demand.
type Loader func(Context) ([]Item, error)

// Action runs a menu action. Session changes happen before the returned
// command is built, so actions must be invoked on the goroutine that owns
// the session; only the outcome message is delivered through the command.
type Action func(Context, Item) tea.Cmd

// ActionResult communicates the outcome of executing a menu action.
type ActionResult struct {
	Info string
	Err  error
}

// RootItems returns the top-level menu entries.
func RootItems() []Item {
	return []Item{
		{ID: "results", Label: "results", CaseID: catalog.NoCase},
		{ID: "models", Label: "models", CaseID: catalog.NoCase},
		{ID: "labels", Label: "labels", CaseID: catalog.NoCase},
		{ID: "script", Label: "run script", CaseID: catalog.NoCase},
	}
}

// CategoryLoaders lists submenu loaders keyed by root item ID.
func CategoryLoaders() map[string]Loader {
	return map[string]Loader{
		"results": loadResultsMenu,
		"models":  loadModelsMenu,
		"labels":  loadLabelsMenu,
	}
}

// ActionHandlers maps menu identifiers to their execution logic. Actions
// under a category apply to the item chosen in that category's level.
func ActionHandlers() map[string]Action {
	return map[string]Action{
		"results": ShowCaseAction,
		"models":  SwitchModelAction,
		"labels":  ClearLabelsAction,
		"script":  ScriptAction,
	}
}

func prettyLabel(id string) string {
	if id == "" {
		return id
	}
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, part := range parts {
		runes := []rune(part)
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func failed(err error) tea.Cmd {
	return func() tea.Msg { return ActionResult{Err: err} }
}

func done(info string) tea.Cmd {
	return func() tea.Msg { return ActionResult{Info: info} }
}
