package menu

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/gridcase/internal/catalog"
	"github.com/atomicstack/gridcase/internal/loader"
	"github.com/atomicstack/gridcase/internal/render"
	"github.com/atomicstack/gridcase/internal/results"
	"github.com/atomicstack/gridcase/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

func testSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.New()
	geom := loader.Geometry{
		NodeIDs:  []int{1, 2, 3},
		XYZ:      [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Elements: []loader.Element{{ID: 1, Type: render.CellTriangle, Nodes: []int{1, 2, 3}}},
	}
	if err := s.LoadGeometry("main", geom); err != nil {
		t.Fatalf("load geometry: %v", err)
	}
	arr := results.Array{{1}, {2}, {3}}
	_, err := s.AddCases(catalog.Batch{
		Values:   map[string]results.Array{"temp": arr, "flux": arr},
		Formats:  map[string]string{"temp": "%g", "flux": "%g"},
		Fields:   []string{"temp", "flux"},
		Location: results.Node,
		Source:   "run.csv",
		Scalar:   true,
	})
	if err != nil {
		t.Fatalf("add cases: %v", err)
	}
	return s
}

func resultOf(t *testing.T, cmd tea.Cmd) ActionResult {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected command")
	}
	res, ok := cmd().(ActionResult)
	if !ok {
		t.Fatalf("expected ActionResult")
	}
	return res
}

func TestRegistryFindResolvesNestedResultLevels(t *testing.T) {
	reg := BuildRegistry()
	for _, id := range []string{"results", "results:0", "results:0:3:1"} {
		node, ok := reg.Find(id)
		if !ok || node.ID != "results" {
			t.Fatalf("Find(%q) = %v, %v; want results node", id, node, ok)
		}
	}
	if _, ok := reg.Find("nope"); ok {
		t.Fatalf("expected unknown id to miss")
	}
	child, ok := reg.Child("root", "models")
	if !ok || child.Loader == nil || child.Action == nil {
		t.Fatalf("expected models node with loader and action")
	}
	if node, ok := reg.Child("root", "script"); !ok || node.Loader != nil || node.Action == nil {
		t.Fatalf("expected script node to be an action only")
	}
}

func TestFormItems(t *testing.T) {
	form := []catalog.FormNode{
		catalog.Group("run.csv", catalog.Leaf("temp", 0), catalog.Leaf("flux", 1)),
		catalog.Leaf("loose", 2),
	}
	items, err := FormItems(form, "")
	if err != nil {
		t.Fatalf("FormItems: %v", err)
	}
	if len(items) != 2 || !items[0].Group || items[0].Label != "run.csv (2)" || items[0].CaseID != catalog.NoCase {
		t.Fatalf("unexpected root items %+v", items)
	}
	if items[1].Group || items[1].CaseID != 2 || items[1].ID != "1" {
		t.Fatalf("unexpected leaf %+v", items[1])
	}

	nested, err := FormItems(form, "0")
	if err != nil {
		t.Fatalf("FormItems nested: %v", err)
	}
	if len(nested) != 2 || nested[1].ID != "0:1" || nested[1].CaseID != 1 {
		t.Fatalf("unexpected nested items %+v", nested)
	}

	if _, err := FormItems(form, "5"); err == nil {
		t.Fatalf("expected error for missing path")
	}
	if _, err := FormItems(form, "x"); err == nil {
		t.Fatalf("expected error for invalid path")
	}
}

func TestResultsLevelIDRoundTrip(t *testing.T) {
	for _, path := range []string{"", "0", "2:1"} {
		got, ok := ResultsPath(ResultsLevelID(path))
		if !ok || got != path {
			t.Fatalf("round trip of %q gave %q, %v", path, got, ok)
		}
	}
	if _, ok := ResultsPath("models"); ok {
		t.Fatalf("models is not a results level")
	}
}

func TestShowCaseAction(t *testing.T) {
	s := testSession(t)
	ctx := Context{Session: s, Form: s.Catalog.Form(), Model: "main"}

	res := resultOf(t, ShowCaseAction(ctx, Item{ID: "0:1", Label: "flux", CaseID: 1}))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if s.ActiveCase() != 1 {
		t.Fatalf("expected case 1 active, got %d", s.ActiveCase())
	}
	if !strings.Contains(res.Info, "flux") {
		t.Fatalf("unexpected info %q", res.Info)
	}

	res = resultOf(t, ShowCaseAction(ctx, Item{ID: "0", Label: "run.csv", CaseID: catalog.NoCase, Group: true}))
	if res.Err == nil {
		t.Fatalf("expected error for group")
	}
	res = resultOf(t, ShowCaseAction(ctx, Item{ID: "9", Label: "ghost", CaseID: 9}))
	if res.Err == nil {
		t.Fatalf("expected error for unknown case")
	}
}

func TestModelItemsAndSwitch(t *testing.T) {
	s := testSession(t)
	if err := s.SetQuadGrid("caero", [][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, [][]int{{0, 1, 2, 3}}, [3]float64{}, 1, 1); err != nil {
		t.Fatalf("quad grid: %v", err)
	}
	ctx := Context{Session: s}
	items := ModelItems(ctx)
	if len(items) != 2 || items[0].ID != "caero" || items[1].ID != "main" {
		t.Fatalf("unexpected items %+v", items)
	}
	if !strings.HasSuffix(strings.TrimSpace(items[1].Label), "active") {
		t.Fatalf("expected main marked active, got %q", items[1].Label)
	}
	if !strings.Contains(items[0].Label, "4 nodes") {
		t.Fatalf("expected node count in %q", items[0].Label)
	}

	res := resultOf(t, SwitchModelAction(ctx, items[0]))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if s.Registry.Active() != "caero" {
		t.Fatalf("expected caero active, got %s", s.Registry.Active())
	}
}

func TestNextModel(t *testing.T) {
	names := []string{"a", "b", "c"}
	cases := map[string]string{"a": "b", "c": "a", "zz": "a"}
	for current, want := range cases {
		if got := NextModel(names, current); got != want {
			t.Fatalf("NextModel(%q) = %q, want %q", current, got, want)
		}
	}
	if got := NextModel(nil, "main"); got != "main" {
		t.Fatalf("expected current kept with no names, got %q", got)
	}
}

func TestLabelsMenuAndClear(t *testing.T) {
	s := testSession(t)
	ctx := Context{Session: s}
	items, err := loadLabelsMenu(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected no labelled cases, got %v %v", items, err)
	}
	for _, row := range []int{0, 2} {
		if err := s.AddLabel(1, row); err != nil {
			t.Fatalf("label: %v", err)
		}
	}
	items, err = loadLabelsMenu(ctx)
	if err != nil {
		t.Fatalf("loadLabelsMenu: %v", err)
	}
	if len(items) != 1 || items[0].CaseID != 1 || !strings.Contains(items[0].Label, "2 labels") {
		t.Fatalf("unexpected items %+v", items)
	}
	res := resultOf(t, ClearLabelsAction(ctx, items[0]))
	if res.Err != nil || !strings.Contains(res.Info, "Cleared 2") {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(s.Catalog.Labels(1)) != 0 {
		t.Fatalf("expected labels cleared")
	}
}

func TestScriptFormValidatesAndRuns(t *testing.T) {
	s := testSession(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "run.gc")
	if err := os.WriteFile(path, []byte("show 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	form := NewScriptForm(ScriptPrompt{Context: Context{Session: s}, Initial: dir})
	cmd, done, cancel := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || done || cancel {
		t.Fatalf("expected directory to be rejected")
	}
	if !strings.Contains(form.Error(), "directory") {
		t.Fatalf("unexpected error %q", form.Error())
	}

	form = NewScriptForm(ScriptPrompt{Context: Context{Session: s}, Initial: path})
	cmd, done, _ = form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !done {
		t.Fatalf("expected form to finish")
	}
	res := resultOf(t, cmd)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if s.ActiveCase() != 0 {
		t.Fatalf("expected script to show case 0, got %d", s.ActiveCase())
	}

	form = NewScriptForm(ScriptPrompt{})
	if _, _, cancel := form.Update(tea.KeyMsg{Type: tea.KeyEsc}); !cancel {
		t.Fatalf("expected escape to cancel")
	}
}

func TestScriptActionSeedsPromptFromGeometryDir(t *testing.T) {
	msg := ScriptAction(Context{Session: session.New()}, Item{ID: "script"})()
	prompt, ok := msg.(ScriptPrompt)
	if !ok {
		t.Fatalf("expected ScriptPrompt, got %T", msg)
	}
	if prompt.Initial != "" {
		t.Fatalf("expected empty initial path, got %q", prompt.Initial)
	}
}
