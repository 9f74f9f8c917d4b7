package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atomicstack/gridcase/internal/catalog"
	"github.com/atomicstack/gridcase/internal/errors"
	tea "github.com/charmbracelet/bubbletea"
)

// ResultsLevelID is the level id for the form-tree node at path.
func ResultsLevelID(path string) string {
	if path == "" {
		return "results"
	}
	return "results:" + path
}

// ResultsPath returns the form path a results level id refers to.
func ResultsPath(levelID string) (string, bool) {
	if levelID == "results" {
		return "", true
	}
	if rest, ok := strings.CutPrefix(levelID, "results:"); ok {
		return rest, true
	}
	return "", false
}

// ParsePath splits a "0:2:1" form path into child indexes.
func ParsePath(path string) ([]int, error) {
	if path == "" {
		return nil, nil
	}
	parts := strings.Split(path, ":")
	out := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, errors.Newf("invalid form path %q", path)
		}
		out[i] = n
	}
	return out, nil
}

// FormItems lists the children of the form node at path.
func FormItems(form []catalog.FormNode, path string) ([]Item, error) {
	idx, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	nodes := form
	for depth, i := range idx {
		if i >= len(nodes) {
			return nil, errors.Newf("form path %q: no entry %d at depth %d", path, i, depth)
		}
		nodes = nodes[i].Children
	}
	items := make([]Item, 0, len(nodes))
	for i, node := range nodes {
		id := strconv.Itoa(i)
		if path != "" {
			id = path + ":" + id
		}
		item := Item{ID: id, Label: node.Name, CaseID: node.CaseID}
		if !node.IsLeaf() {
			item.Group = true
			item.CaseID = catalog.NoCase
			item.Label = fmt.Sprintf("%s (%d)", node.Name, len(node.Children))
		}
		items = append(items, item)
	}
	return items, nil
}

// FormLoader returns a loader for the form node at path.
func FormLoader(path string) Loader {
	return func(ctx Context) ([]Item, error) {
		return FormItems(ctx.Form, path)
	}
}

func loadResultsMenu(ctx Context) ([]Item, error) {
	return FormItems(ctx.Form, "")
}

// ShowCaseAction colours the active model with the chosen case.
func ShowCaseAction(ctx Context, item Item) tea.Cmd {
	if item.Group || item.CaseID == catalog.NoCase {
		return failed(errors.Newf("%s is a group, not a result", item.Label))
	}
	if ctx.Session == nil {
		return failed(errors.New("no session"))
	}
	if err := ctx.Session.ShowCase(item.CaseID); err != nil {
		return failed(err)
	}
	return done(fmt.Sprintf("Showing %s (case %d)", item.Label, item.CaseID))
}
