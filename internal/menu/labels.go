package menu

import (
	"fmt"
	"strconv"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/format/table"
	tea "github.com/charmbracelet/bubbletea"
)

func loadLabelsMenu(ctx Context) ([]Item, error) {
	if ctx.Session == nil {
		return nil, nil
	}
	cat := ctx.Session.Catalog
	var rows [][]string
	var ids []int
	for _, id := range cat.CaseIDs() {
		labels := cat.Labels(id)
		if len(labels) == 0 {
			continue
		}
		cs, err := cat.Case(id)
		if err != nil {
			return nil, err
		}
		noun := "labels"
		if len(labels) == 1 {
			noun = "label"
		}
		rows = append(rows, []string{strconv.Itoa(id), cs.Title, fmt.Sprintf("%d %s", len(labels), noun)})
		ids = append(ids, id)
	}
	lines := table.Format(rows, []table.Alignment{table.AlignRight})
	items := make([]Item, 0, len(ids))
	for i, id := range ids {
		items = append(items, Item{ID: strconv.Itoa(id), Label: lines[i], CaseID: id})
	}
	return items, nil
}

// ClearLabelsAction removes every label placed on the chosen case.
func ClearLabelsAction(ctx Context, item Item) tea.Cmd {
	if ctx.Session == nil {
		return failed(errors.New("no session"))
	}
	if _, err := ctx.Session.Catalog.Case(item.CaseID); err != nil {
		return failed(err)
	}
	n := ctx.Session.Catalog.ClearLabels(item.CaseID)
	return done(fmt.Sprintf("Cleared %d labels from case %d", n, item.CaseID))
}
