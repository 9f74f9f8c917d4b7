package ui

import (
	"fmt"
	"strconv"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/format/table"
	"github.com/atomicstack/gridcase/internal/menu"
	"github.com/atomicstack/gridcase/internal/results"
	"github.com/atomicstack/gridcase/internal/session"
)

type detailKind int

const (
	detailKindNone detailKind = iota
	detailKindResult
	detailKindModel
	detailKindLabels
)

type detailData struct {
	kind         detailKind
	target       string
	label        string
	lines        []string
	err          string
	scrollOffset int // first visible line; see clampScroll
}

func detailKindForLevel(id string) detailKind {
	if _, ok := menu.ResultsPath(id); ok {
		return detailKindResult
	}
	switch id {
	case "models":
		return detailKindModel
	case "labels":
		return detailKindLabels
	default:
		return detailKindNone
	}
}

// ensureDetailForLevel builds the side panel for the item under the cursor.
// Everything it reads is in memory, so the panel is rebuilt on the spot.
func (m *Model) ensureDetailForLevel(l *level) {
	if l == nil {
		return
	}
	kind := detailKindForLevel(l.ID)
	if kind == detailKindNone || len(l.Items) == 0 {
		m.clearDetail(l.ID)
		return
	}
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		l.Cursor = 0
	}
	item := l.Items[l.Cursor]
	if existing, ok := m.detail[l.ID]; ok && existing.target == item.ID {
		return
	}
	data := &detailData{kind: kind, target: item.ID, label: item.Label}
	var err error
	switch kind {
	case detailKindResult:
		data.lines, err = m.resultDetailLines(item)
	case detailKindModel:
		data.lines = m.modelDetailLines(item.ID)
	case detailKindLabels:
		data.lines = m.labelDetailLines(item.CaseID)
	}
	if err != nil {
		data.err = err.Error()
	}
	if m.detail == nil {
		m.detail = make(map[string]*detailData)
	}
	m.detail[l.ID] = data
}

func (m *Model) clearDetail(levelID string) {
	if levelID == "" || m.detail == nil {
		return
	}
	delete(m.detail, levelID)
}

func (m *Model) activeDetail() *detailData {
	current := m.currentLevel()
	if current == nil || m.detail == nil {
		return nil
	}
	return m.detail[current.ID]
}

func (m *Model) resultDetailLines(item menu.Item) ([]string, error) {
	if item.Group {
		path, err := menu.ParsePath(item.ID)
		if err != nil {
			return nil, err
		}
		nodes := m.form
		for depth, i := range path {
			if i >= len(nodes) {
				return nil, errors.Newf("form path %q: no entry at depth %d", item.ID, depth)
			}
			nodes = nodes[i].Children
		}
		lines := make([]string, 0, len(nodes))
		for _, child := range nodes {
			marker := "  "
			if child.IsLeaf() && child.CaseID == m.session.ActiveCase() {
				marker = "* "
			} else if !child.IsLeaf() {
				marker = "+ "
			}
			lines = append(lines, marker+child.Name)
		}
		return lines, nil
	}
	cs, err := m.session.Catalog.Case(item.CaseID)
	if err != nil {
		return nil, err
	}
	res := cs.Result
	lo, hi := res.Range()
	kind := "scalar"
	if disp, ok := res.(*results.DisplacementResult); ok {
		kind = disp.Kind().String()
	}
	rows := [][]string{
		{"case", strconv.Itoa(cs.ID)},
		{"title", cs.Title},
		{"source", cs.Source},
		{"subcase", strconv.Itoa(cs.Slot)},
		{"location", res.Location().String()},
		{"kind", kind},
		{"format", res.Format()},
		{"rows", strconv.Itoa(res.Len())},
		{"min", res.FormatValue(lo)},
		{"max", res.FormatValue(hi)},
		{"labels", strconv.Itoa(len(m.session.Catalog.Labels(cs.ID)))},
	}
	if disp, ok := res.(*results.DisplacementResult); ok {
		rows = append(rows, []string{"scale", strconv.FormatFloat(disp.ScaleFactor(), 'g', 4, 64)})
	}
	lines := table.Format(rows, nil)
	if m.session.ActiveCase() == cs.ID && m.session.Text.Visible() {
		lines = append(lines, "")
		lines = append(lines, m.session.Text.Lines()...)
	}
	return lines, nil
}

func (m *Model) modelDetailLines(name string) []string {
	reg := m.session.Registry
	rows := [][]string{{"model", name}}
	if file := m.session.GeometryFile(name); file != "" {
		rows = append(rows, []string{"file", file})
	}
	if grid, err := reg.Context(name).Grid(); err == nil {
		rows = append(rows,
			[]string{"nodes", strconv.Itoa(grid.NumberOfPoints())},
			[]string{"elements", strconv.Itoa(grid.NumberOfCells())},
			[]string{"size", strconv.FormatFloat(grid.MaxDimension(), 'g', 4, 64)},
		)
	} else {
		rows = append(rows, []string{"grid", "(none)"})
	}
	if name == reg.Active() {
		rows = append(rows, []string{"status", "active"})
		if id := m.session.ActiveCase(); id != session.NoActiveCase {
			if cs, err := m.session.Catalog.Case(id); err == nil {
				rows = append(rows, []string{"showing", cs.Title})
			}
		}
	}
	return table.Format(rows, nil)
}

func (m *Model) labelDetailLines(caseID int) []string {
	labels := m.session.Catalog.Labels(caseID)
	if len(labels) == 0 {
		return []string{"(no labels)"}
	}
	lines := make([]string, 0, len(labels))
	for _, l := range labels {
		lines = append(lines, fmt.Sprintf("row %d  %s", l.Row, l.Text))
	}
	return lines
}
