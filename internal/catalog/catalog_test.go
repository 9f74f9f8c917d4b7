package catalog

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/results"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	name     string
	nodes    int
	elements int
}

func (m fakeModel) Name() string      { return m.name }
func (m fakeModel) NodeCount() int    { return m.nodes }
func (m fakeModel) ElementCount() int { return m.elements }
func (m fakeModel) DimMax() float64   { return 10 }
func (m fakeModel) NominalXYZ() [][3]float64 {
	return make([][3]float64, m.nodes)
}

type pushedResults struct {
	form []FormNode
	name string
}

type recordingBrowser struct {
	results []pushedResults
	methods [][]FormNode
	fail    error
}

func (b *recordingBrowser) UpdateResults(form []FormNode, name string) error {
	if b.fail != nil {
		return b.fail
	}
	b.results = append(b.results, pushedResults{form: form, name: name})
	return nil
}

func (b *recordingBrowser) UpdateMethods(methods []FormNode) error {
	b.methods = append(b.methods, methods)
	return nil
}

func (b *recordingBrowser) GetForm() []FormNode {
	if len(b.results) == 0 {
		return nil
	}
	return b.results[len(b.results)-1].form
}

func column(rows int, cols int) results.Array {
	arr := make(results.Array, rows)
	for i := range arr {
		arr[i] = make([]float64, cols)
		for j := range arr[i] {
			arr[i][j] = float64(i + j)
		}
	}
	return arr
}

func scalarBatch(source string, rows int, fields ...string) Batch {
	b := Batch{
		Values:   map[string]results.Array{},
		Formats:  map[string]string{},
		Fields:   fields,
		Location: results.Node,
		Source:   source,
		Scalar:   true,
	}
	for _, f := range fields {
		b.Values[f] = column(rows, 1)
		b.Formats[f] = "%f"
	}
	return b
}

func TestAddCasesScenario(t *testing.T) {
	browser := &recordingBrowser{}
	c := New(browser)
	model := fakeModel{name: "main", nodes: 10, elements: 4}

	ids, err := c.AddCases(model, scalarBatch("results.csv", 10, "disp_x", "disp_y"))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, ids)
	require.Equal(t, 2, c.Len())

	want := []FormNode{Group("results.csv", Leaf("disp_x", 0), Leaf("disp_y", 1))}
	require.Equal(t, want, c.Form())
	require.Len(t, browser.results, 1)
	require.Equal(t, want, browser.results[0].form)
	require.Equal(t, "main", browser.results[0].name)

	cs, err := c.Case(1)
	require.NoError(t, err)
	require.Equal(t, "disp_y", cs.Title)
	require.Equal(t, 0, cs.Slot)
	require.Empty(t, c.Labels(1))
}

func TestAddCasesShapeMismatch(t *testing.T) {
	browser := &recordingBrowser{}
	c := New(browser)
	model := fakeModel{name: "main", nodes: 10}

	_, err := c.AddCases(model, scalarBatch("short.csv", 9, "disp_x"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrShapeMismatch))
	require.Contains(t, err.Error(), `"disp_x"`)
	require.Contains(t, err.Error(), "expected 10, got 9")
	require.Zero(t, c.Len())
	require.Empty(t, browser.results)
}

func TestAddCasesIsAtomic(t *testing.T) {
	browser := &recordingBrowser{}
	c := New(browser)
	model := fakeModel{name: "main", nodes: 10}
	_, err := c.AddCases(model, scalarBatch("first.csv", 10, "a"))
	require.NoError(t, err)
	formBefore := c.Form()

	b := scalarBatch("second.csv", 10, "f1", "f2", "f3")
	b.Values["f2"] = column(9, 1)
	_, err = c.AddCases(model, b)

	var shape *ShapeMismatchError
	require.True(t, errors.As(err, &shape))
	require.Equal(t, "f2", shape.Field)
	require.Equal(t, 1, c.Len())
	require.Equal(t, formBefore, c.Form())
	require.Len(t, browser.results, 1)
}

func TestAddCasesMissingFormat(t *testing.T) {
	c := New(nil)
	b := scalarBatch("x.csv", 3, "a")
	delete(b.Formats, "a")
	_, err := c.AddCases(fakeModel{nodes: 3}, b)
	require.True(t, errors.Is(err, ErrShapeMismatch))
	require.Contains(t, err.Error(), "no format entry")
}

func TestAddCasesCentroidUsesElementCount(t *testing.T) {
	c := New(nil)
	b := scalarBatch("eids.csv", 4, "pid")
	b.Location = results.Centroid
	_, err := c.AddCases(fakeModel{nodes: 10, elements: 4}, b)
	require.NoError(t, err)
	loc, err := c.Location(0)
	require.NoError(t, err)
	require.Equal(t, results.Centroid, loc)
}

func TestAddCasesRollsBackWhenBrowserFails(t *testing.T) {
	browser := &recordingBrowser{}
	c := New(browser)
	model := fakeModel{name: "main", nodes: 2}
	_, err := c.AddCases(model, scalarBatch("ok.csv", 2, "a"))
	require.NoError(t, err)

	browser.fail = fmt.Errorf("widget gone")
	_, err = c.AddCases(model, scalarBatch("lost.csv", 2, "b", "c"))
	require.ErrorContains(t, err, "widget gone")
	require.Equal(t, 1, c.Len())
	require.Len(t, c.Form(), 1)
	_, err = c.Case(1)
	require.True(t, errors.Is(err, ErrUnknownCase))

	browser.fail = nil
	ids, err := c.AddCases(model, scalarBatch("again.csv", 2, "b"))
	require.NoError(t, err)
	require.Equal(t, []int{1}, ids)
}

func TestAddCasesVectorNeedsThreeColumns(t *testing.T) {
	c := New(nil)
	model := fakeModel{nodes: 3}
	b := Batch{
		Values:  map[string]results.Array{"deflection": column(3, 3)},
		Formats: map[string]string{"deflection": "%g"},
		Fields:  []string{"deflection"},
		Source:  "defl.csv",
	}
	_, err := c.AddCases(model, b)
	require.NoError(t, err)
	cs, err := c.Case(0)
	require.NoError(t, err)
	require.True(t, cs.Result.IsVector())

	b.Values["deflection"] = column(3, 2)
	_, err = c.AddCases(model, b)
	require.ErrorContains(t, err, "3 columns")
	require.Equal(t, 1, c.Len())
}

func TestSlotInferenceReusesFirstSubcase(t *testing.T) {
	c := New(nil)
	model := fakeModel{nodes: 2}

	_, err := c.AddCases(model, scalarBatch("plain.csv", 2, "a"))
	require.NoError(t, err)

	first, second := 7, 9
	b := scalarBatch("sub7.nod", 2, "b")
	b.Slot = &first
	_, err = c.AddCases(model, b)
	require.NoError(t, err)
	b = scalarBatch("sub9.nod", 2, "c")
	b.Slot = &second
	_, err = c.AddCases(model, b)
	require.NoError(t, err)

	ids, err := c.AddCases(model, scalarBatch("later.csv", 2, "d"))
	require.NoError(t, err)
	cs, err := c.Case(ids[0])
	require.NoError(t, err)
	require.Equal(t, 7, cs.Slot)

	plain, err := c.Case(0)
	require.NoError(t, err)
	require.Equal(t, 0, plain.Slot)
}

func TestCaseIDsStayDenseAcrossBatches(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	browser := &recordingBrowser{}
	c := New(browser)
	model := fakeModel{name: "main", nodes: 5}

	for round := 0; round < 25; round++ {
		n := rng.Intn(4)
		fields := make([]string, n)
		for i := range fields {
			fields[i] = fmt.Sprintf("r%d_f%d", round, i)
		}
		b := scalarBatch(fmt.Sprintf("round%d.csv", round), 5, fields...)
		if n > 0 && rng.Intn(3) == 0 {
			b.Values[fields[n-1]] = column(4, 1)
		}
		_, _ = c.AddCases(model, b)

		ids := c.CaseIDs()
		for i, id := range ids {
			require.Equal(t, i, id)
		}
		leaves := LeafIDs(c.Form())
		require.ElementsMatch(t, ids, leaves)
	}
}

func TestSetFormPushesTreeAndMethod(t *testing.T) {
	browser := &recordingBrowser{}
	c := New(browser)
	b := scalarBatch("eids.csv", 3, "eid", "pid")
	b.Location = results.Centroid
	_, err := c.AddCases(fakeModel{name: "main", elements: 3}, b)
	require.NoError(t, err)

	form := []FormNode{Group("Geometry", Leaf("ElementID", 0), Leaf("PropertyID", 1))}
	require.NoError(t, c.SetForm(form, "main"))
	require.Equal(t, form, c.Form())
	require.Equal(t, form, browser.GetForm())
	require.Equal(t, [][]FormNode{{Group("centroid")}}, browser.methods)
}

func TestSetFormNodalMethod(t *testing.T) {
	browser := &recordingBrowser{}
	c := New(browser)
	_, err := c.AddCases(fakeModel{nodes: 2}, scalarBatch("n.csv", 2, "a"))
	require.NoError(t, err)
	require.NoError(t, c.SetForm(c.Form(), "main"))
	require.Equal(t, "nodal", browser.methods[0][0].Name)
	require.Equal(t, NoCase, browser.methods[0][0].CaseID)
}

func TestSetFormRejectsUnknownCase(t *testing.T) {
	c := New(nil)
	_, err := c.AddCases(fakeModel{nodes: 2}, scalarBatch("n.csv", 2, "a"))
	require.NoError(t, err)
	err = c.SetForm([]FormNode{Leaf("ghost", 4)}, "main")
	require.True(t, errors.Is(err, ErrUnknownCase))
}

func TestClearThenSetFormFailsWithEmptyCatalog(t *testing.T) {
	c := New(nil)
	_, err := c.AddCases(fakeModel{nodes: 2}, scalarBatch("n.csv", 2, "a", "b", "c"))
	require.NoError(t, err)
	require.NoError(t, c.AddLabel(1, Label{Row: 0, ID: 1, Text: "1"}))

	c.Clear()
	require.Zero(t, c.Len())
	require.Empty(t, c.Form())
	require.Empty(t, c.Labels(1))

	err = c.SetForm([]FormNode{Group("empty")}, "main")
	require.True(t, errors.Is(err, ErrEmptyCatalog))
	_, err = c.Method()
	require.True(t, errors.Is(err, ErrEmptyCatalog))

	ids, err := c.AddCases(fakeModel{nodes: 2}, scalarBatch("n.csv", 2, "z"))
	require.NoError(t, err)
	require.Equal(t, []int{0}, ids)
}

func TestLabels(t *testing.T) {
	c := New(nil)
	_, err := c.AddCases(fakeModel{nodes: 2}, scalarBatch("n.csv", 2, "a"))
	require.NoError(t, err)

	require.NoError(t, c.AddLabel(0, Label{Row: 1, ID: 20, Text: "20: 1.0"}))
	require.NoError(t, c.AddLabel(0, Label{Row: 0, ID: 10, Text: "10: 0.0"}))
	require.Len(t, c.Labels(0), 2)

	err = c.AddLabel(3, Label{Row: 0})
	require.True(t, errors.Is(err, ErrUnknownCase))

	require.Equal(t, 2, c.ClearLabels(0))
	require.Empty(t, c.Labels(0))
}

func TestAddLabelKeepsOneMarkerPerRow(t *testing.T) {
	c := New(nil)
	_, err := c.AddCases(fakeModel{nodes: 2}, scalarBatch("n.csv", 2, "a"))
	require.NoError(t, err)

	require.NoError(t, c.AddLabel(0, Label{Row: 1, ID: 20, Text: "20: 1.0"}))
	require.NoError(t, c.AddLabel(0, Label{Row: 1, ID: 20, Text: "20: 1.5"}))
	labels := c.Labels(0)
	require.Len(t, labels, 1)
	require.Equal(t, "20: 1.5", labels[0].Text)
	require.Equal(t, 1, c.ClearLabels(0))
}

func TestSetFormKeepsPreviousTreeWhenBrowserFails(t *testing.T) {
	browser := &recordingBrowser{}
	c := New(browser)
	_, err := c.AddCases(fakeModel{nodes: 2}, scalarBatch("n.csv", 2, "a", "b"))
	require.NoError(t, err)
	before := c.Form()

	browser.fail = fmt.Errorf("widget gone")
	err = c.SetForm([]FormNode{Group("renamed", Leaf("b", 1))}, "main")
	require.ErrorContains(t, err, "widget gone")
	require.Equal(t, before, c.Form())
	require.Empty(t, browser.methods)
}
