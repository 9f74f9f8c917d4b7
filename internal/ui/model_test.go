package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/atomicstack/gridcase/internal/loader"
	"github.com/atomicstack/gridcase/internal/menu"
	"github.com/atomicstack/gridcase/internal/render"
	"github.com/atomicstack/gridcase/internal/session"
	"github.com/atomicstack/gridcase/internal/testutil"
)

const tempsCSV = "# temp, stress\n20.5, 1\n21.0, 2\n19.25, 3\n22.0, 4\n"

func lineModel(name string, nodes int) loader.Geometry {
	geom := loader.Geometry{Name: name}
	for i := 0; i < nodes; i++ {
		geom.NodeIDs = append(geom.NodeIDs, i+1)
		geom.XYZ = append(geom.XYZ, [3]float64{float64(i), 0, 0})
	}
	for i := 0; i < nodes-1; i++ {
		geom.Elements = append(geom.Elements, loader.Element{
			ID:    100 + i,
			Type:  render.CellLine,
			Nodes: []int{i + 1, i + 2},
		})
	}
	return geom
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	testutil.LogToTemp(t)
	s := session.New()
	if err := s.LoadGeometry("strip", lineModel("strip", 4)); err != nil {
		t.Fatalf("load geometry: %v", err)
	}
	return s
}

func parseTable(t *testing.T, source, content string) loader.Table {
	t.Helper()
	tbl, err := loader.ParseCSV(strings.NewReader(content), source)
	if err != nil {
		t.Fatalf("parse %s: %v", source, err)
	}
	return tbl
}

func addTable(t *testing.T, s *session.Session, source, content string) []int {
	t.Helper()
	ids, err := s.AddCases(session.TableBatch(parseTable(t, source, content), session.ResultOptions{}))
	if err != nil {
		t.Fatalf("add %s: %v", source, err)
	}
	return ids
}

// browsingModel returns a model over a session holding one model and the
// two cases of tempsCSV.
func browsingModel(t *testing.T, opts Options) (*Model, *session.Session) {
	t.Helper()
	s := testSession(t)
	opts.Session = s
	m := NewModel(opts)
	addTable(t, s, "temps.csv", tempsCSV)
	return m, s
}

func TestMenuHeaderRootLevel(t *testing.T) {
	m := NewModel(Options{})
	got := m.menuHeader()
	want := defaultRootTitle
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMenuHeaderNestedLevels(t *testing.T) {
	m := NewModel(Options{})
	m.stack = append(m.stack, newLevel("models", "models", nil, nil))
	got := m.menuHeader()
	want := "models"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMenuHeaderNamesResultGroups(t *testing.T) {
	m := NewModel(Options{})
	m.stack = append(m.stack, newLevel("results", "results", nil, nil))
	m.stack = append(m.stack, newLevel("results:0", "temps.csv (2)", nil, nil))
	m.stack = append(m.stack, newLevel("results:0:1", "Stress_Tensor (6)", nil, nil))
	got := m.menuHeader()
	want := "results→temps.csv→Stress_Tensor"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRootMenuOverrideSetsInitialLevel(t *testing.T) {
	s := testSession(t)
	m := NewModel(Options{Session: s, RootMenu: "models"})
	if got := m.stack[0].ID; got != "models" {
		t.Fatalf("expected root id models, got %s", got)
	}
	if m.rootMenuID != "models" {
		t.Fatalf("expected rootMenuID to be models, got %s", m.rootMenuID)
	}
	if header := m.menuHeader(); header != "models" {
		t.Fatalf("expected header models, got %s", header)
	}
	if len(m.stack[0].Items) != 1 || m.stack[0].Items[0].ID != "strip" {
		t.Fatalf("expected the strip model listed, got %#v", m.stack[0].Items)
	}
}

func TestInvalidRootMenuFallsBackToDefault(t *testing.T) {
	for _, requested := range []string{"does-not-exist", "script"} {
		m := NewModel(Options{RootMenu: requested})
		if got := m.stack[0].ID; got != "root" {
			t.Fatalf("%s: expected default root id, got %s", requested, got)
		}
		if m.rootMenuID != "" {
			t.Fatalf("%s: expected empty rootMenuID, got %s", requested, m.rootMenuID)
		}
		if m.errMsg == "" {
			t.Fatalf("%s: expected error message for invalid root menu", requested)
		}
	}
}

func TestNewModelBecomesSessionBrowser(t *testing.T) {
	m, s := browsingModel(t, Options{})
	if len(m.form) != 1 || m.form[0].Name != "temps.csv" {
		t.Fatalf("expected pushed form, got %#v", m.form)
	}
	if m.formModel != "strip" {
		t.Fatalf("expected form model strip, got %q", m.formModel)
	}
	if err := s.Catalog.SetForm(s.Catalog.Form(), "strip"); err != nil {
		t.Fatalf("set form: %v", err)
	}
	if len(m.methods) != 1 || m.methods[0].Name != "nodal" {
		t.Fatalf("expected nodal method, got %#v", m.methods)
	}
	got := m.GetForm()
	got[0].Name = "mutated"
	if m.form[0].Name != "temps.csv" {
		t.Fatalf("expected GetForm to return a copy")
	}
}

func TestNewModelAdoptsExistingCases(t *testing.T) {
	s := testSession(t)
	addTable(t, s, "temps.csv", tempsCSV)
	m := NewModel(Options{Session: s})
	if len(m.form) != 1 {
		t.Fatalf("expected existing tree to be shown, got %#v", m.form)
	}
}

func TestUpdateResultsRefreshesOpenLevels(t *testing.T) {
	m, s := browsingModel(t, Options{})
	items, _ := menu.FormItems(m.form, "")
	m.stack = append(m.stack, newLevel("results", "results", items, nil))
	addTable(t, s, "more.csv", "# extra\n1\n2\n3\n4\n")
	lvl := m.findLevelByID("results")
	if len(lvl.Items) != 2 || lvl.Items[1].Label != "more.csv (1)" {
		t.Fatalf("expected refreshed results level, got %#v", lvl.Items)
	}
}

func TestUpdateResultsClosesVanishedGroups(t *testing.T) {
	m, _ := browsingModel(t, Options{})
	top, _ := menu.FormItems(m.form, "")
	nested, _ := menu.FormItems(m.form, "0")
	m.stack = append(m.stack,
		newLevel("results", "results", top, nil),
		newLevel("results:0", "temps.csv (2)", nested, nil),
	)
	if err := m.UpdateResults(nil, "strip"); err != nil {
		t.Fatalf("update results: %v", err)
	}
	if len(m.stack) != 2 {
		t.Fatalf("expected nested level closed, got %d levels", len(m.stack))
	}
	if got := m.currentLevel(); got.ID != "results" || len(got.Items) != 0 {
		t.Fatalf("expected empty results level, got %s %#v", got.ID, got.Items)
	}
}

func TestLevelCursorPaging(t *testing.T) {
	items := make([]menu.Item, 12)
	for i := range items {
		items[i] = menu.Item{ID: fmt.Sprintf("item-%d", i)}
	}
	lvl := newLevel("test", "Test", items, nil)
	lvl.Cursor = 0
	if !lvl.MoveCursorPageDown(5) || lvl.Cursor != 5 {
		t.Fatalf("expected cursor at 5, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageDown(5) || lvl.Cursor != 10 {
		t.Fatalf("expected cursor at 10, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageDown(5) || lvl.Cursor != 11 {
		t.Fatalf("expected cursor at end, got %d", lvl.Cursor)
	}
	if lvl.MoveCursorPageDown(5) {
		t.Fatalf("expected no movement past end")
	}
	if !lvl.MoveCursorPageUp(5) || lvl.Cursor != 6 {
		t.Fatalf("expected cursor at 6, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageUp(5) || lvl.Cursor != 1 {
		t.Fatalf("expected cursor at 1, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageUp(5) || lvl.Cursor != 0 {
		t.Fatalf("expected cursor at start, got %d", lvl.Cursor)
	}
	if lvl.MoveCursorPageUp(5) {
		t.Fatalf("expected no movement past start")
	}
}

func TestLevelCursorHomeEnd(t *testing.T) {
	lvl := newLevel("test", "Test", []menu.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)
	lvl.Cursor = 1
	if !lvl.MoveCursorHome() || lvl.Cursor != 0 {
		t.Fatalf("expected home to set cursor to 0, got %d", lvl.Cursor)
	}
	if lvl.MoveCursorHome() {
		t.Fatalf("expected no movement when already at home")
	}
	if !lvl.MoveCursorEnd() || lvl.Cursor != 2 {
		t.Fatalf("expected end to set cursor to last item, got %d", lvl.Cursor)
	}
	if lvl.MoveCursorEnd() {
		t.Fatalf("expected no movement when already at end")
	}
}
