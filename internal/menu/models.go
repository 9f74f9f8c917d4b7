package menu

import (
	"fmt"
	"path/filepath"

	"github.com/atomicstack/gridcase/internal/catalog"
	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/format/table"
	tea "github.com/charmbracelet/bubbletea"
)

func loadModelsMenu(ctx Context) ([]Item, error) {
	if ctx.Session == nil {
		return nil, nil
	}
	return ModelItems(ctx), nil
}

// ModelItems lists every registered model with its size and source file.
func ModelItems(ctx Context) []Item {
	reg := ctx.Session.Registry
	names := reg.Names()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		nodes, elements := "-", "-"
		if grid, err := reg.Context(name).Grid(); err == nil {
			nodes = fmt.Sprintf("%d nodes", grid.NumberOfPoints())
			elements = fmt.Sprintf("%d elements", grid.NumberOfCells())
		}
		file := ctx.Session.GeometryFile(name)
		if file != "" {
			file = filepath.Base(file)
		}
		active := ""
		if name == reg.Active() {
			active = "active"
		}
		rows = append(rows, []string{name, nodes, elements, file, active})
	}
	lines := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignRight})
	items := make([]Item, 0, len(names))
	for i, name := range names {
		items = append(items, Item{ID: name, Label: lines[i], CaseID: catalog.NoCase})
	}
	return items
}

// SwitchModelAction makes the chosen model active.
func SwitchModelAction(ctx Context, item Item) tea.Cmd {
	if ctx.Session == nil {
		return failed(errors.New("no session"))
	}
	if item.ID == "" {
		return failed(errors.New("invalid model selection"))
	}
	ctx.Session.SetActive(item.ID)
	return done(fmt.Sprintf("Active model: %s", item.ID))
}

// NextModel returns the model after current in sorted order, wrapping
// around. It returns current when there is nothing to cycle to.
func NextModel(names []string, current string) string {
	if len(names) == 0 {
		return current
	}
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
