// Package catalog holds the append-only list of result cases shown by the
// viewer, the form tree that groups them for browsing, and the labels
// placed per case.
//
// Case ids are dense: they start at 0, follow insertion order, and are only
// reset by Clear. AddCases is all-or-nothing: every field of one call is
// validated and wrapped before the catalog changes, and a failed browser
// push rolls the call back.
package catalog

import (
	"slices"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/results"
)

// Browser is the widget that presents the form tree.
type Browser interface {
	UpdateResults(form []FormNode, name string) error
	UpdateMethods(methods []FormNode) error
	GetForm() []FormNode
}

// Model is what AddCases needs to know about the model the values belong to.
type Model interface {
	Name() string
	NodeCount() int
	ElementCount() int
	DimMax() float64
	NominalXYZ() [][3]float64
}

// Case is one computed field for one subcase.
type Case struct {
	ID     int
	Slot   int
	Title  string
	Source string
	Result results.Result
	// Subcase is set when the case was added under an explicit subcase; slot
	// inference for later batches reuses the first such case's slot.
	Subcase bool
}

// Label is a marker placed on one node or element row for one case.
type Label struct {
	Row      int
	ID       int
	Text     string
	Position [3]float64
}

// Batch is the input of AddCases.
type Batch struct {
	Values   map[string]results.Array
	Formats  map[string]string
	Fields   []string
	Location results.Location
	Source   string
	Scalar   bool
	// Vector selects force-style vectors when Scalar is false; otherwise the
	// vectors are treated as translations.
	Vector bool
	// Slot overrides slot inference when set.
	Slot *int
}

// Catalog is the session's result-case catalog.
type Catalog struct {
	cases   []Case
	form    []FormNode
	labels  map[int][]Label
	browser Browser
}

// New returns an empty catalog. A nil browser discards pushes.
func New(browser Browser) *Catalog {
	c := &Catalog{labels: make(map[int][]Label)}
	c.SetBrowser(browser)
	return c
}

// SetBrowser replaces the widget that receives form updates.
func (c *Catalog) SetBrowser(b Browser) {
	if b == nil {
		b = discardBrowser{}
	}
	c.browser = b
}

// Len is the total number of cases.
func (c *Catalog) Len() int {
	return len(c.cases)
}

// CaseIDs returns the case ids in catalog order.
func (c *Catalog) CaseIDs() []int {
	ids := make([]int, len(c.cases))
	for i := range c.cases {
		ids[i] = c.cases[i].ID
	}
	return ids
}

// Case looks up a case by id.
func (c *Catalog) Case(id int) (Case, error) {
	if id < 0 || id >= len(c.cases) {
		return Case{}, errors.Wrapf(ErrUnknownCase, "case %d (have %d)", id, len(c.cases))
	}
	return c.cases[id], nil
}

// Location returns where the case's values live.
func (c *Catalog) Location(id int) (results.Location, error) {
	cs, err := c.Case(id)
	if err != nil {
		return results.Node, err
	}
	return cs.Result.Location(), nil
}

// Form returns a copy of the top-level form tree.
func (c *Catalog) Form() []FormNode {
	return CloneForm(c.form)
}

// AddCases wraps each field of b into a case, appends a form group named
// b.Source, and pushes the tree to the browser. It returns the new case ids.
func (c *Catalog) AddCases(model Model, b Batch) ([]int, error) {
	if err := c.validate(model, b); err != nil {
		events.Catalog.Reject(b.Source, err)
		return nil, err
	}
	slot := c.inferSlot()
	if b.Slot != nil {
		slot = *b.Slot
	}

	built := make([]Case, 0, len(b.Fields))
	next := len(c.cases)
	for _, field := range b.Fields {
		var opts []results.Option
		if !b.Scalar {
			opts = append(opts, results.WithScale(model.DimMax()), results.WithNominal(model.NominalXYZ()))
			if b.Vector {
				opts = append(opts, results.WithKind(results.Force))
			}
		}
		res, title, err := results.Create(slot, b.Fields, field, b.Values, b.Formats, b.Location, opts...)
		if err != nil {
			err = errors.Wrapf(err, "add cases from %s", b.Source)
			events.Catalog.Reject(b.Source, err)
			return nil, err
		}
		built = append(built, Case{
			ID:      next + len(built),
			Slot:    slot,
			Title:   title,
			Source:  b.Source,
			Result:  res,
			Subcase: b.Slot != nil,
		})
	}

	prevCases, prevForm := len(c.cases), len(c.form)
	group := Group(b.Source)
	ids := make([]int, 0, len(built))
	for i, cs := range built {
		c.cases = append(c.cases, cs)
		c.labels[cs.ID] = nil
		group.Children = append(group.Children, Leaf(b.Fields[i], cs.ID))
		ids = append(ids, cs.ID)
	}
	c.form = append(c.form, group)

	if err := c.browser.UpdateResults(CloneForm(c.form), model.Name()); err != nil {
		for _, id := range ids {
			delete(c.labels, id)
		}
		c.cases = c.cases[:prevCases]
		c.form = c.form[:prevForm]
		err = errors.Wrapf(err, "push results for %s", b.Source)
		events.Catalog.Reject(b.Source, err)
		return nil, err
	}
	events.Catalog.Add(b.Source, slot, next, b.Fields)
	return ids, nil
}

func (c *Catalog) validate(model Model, b Batch) error {
	expected := model.NodeCount()
	if b.Location == results.Centroid {
		expected = model.ElementCount()
	}
	for _, field := range b.Fields {
		arr, ok := b.Values[field]
		if !ok {
			return errors.WithStack(&ShapeMismatchError{Field: field, Location: b.Location, Missing: "values"})
		}
		if _, ok := b.Formats[field]; !ok {
			return errors.WithStack(&ShapeMismatchError{Field: field, Location: b.Location, Missing: "format"})
		}
		if arr.Rows() != expected {
			return errors.WithStack(&ShapeMismatchError{
				Field:    field,
				Location: b.Location,
				Expected: expected,
				Actual:   arr.Rows(),
			})
		}
	}
	return nil
}

// inferSlot reuses the slot of the first subcase-keyed case, or 0.
func (c *Catalog) inferSlot() int {
	for _, cs := range c.cases {
		if cs.Subcase {
			return cs.Slot
		}
	}
	return 0
}

// Method reports the browsing mode derived from the first case: "centroid"
// for element results, "nodal" otherwise.
func (c *Catalog) Method() (string, error) {
	if len(c.cases) == 0 {
		return "", errors.WithStack(ErrEmptyCatalog)
	}
	if c.cases[0].Result.Location() == results.Centroid {
		return "centroid", nil
	}
	return "nodal", nil
}

// SetForm replaces the form tree, pushes it to the browser for the named
// model, and pushes the derived method list.
func (c *Catalog) SetForm(form []FormNode, name string) error {
	method, err := c.Method()
	if err != nil {
		return errors.WithHint(err, "add cases before setting the form")
	}
	for _, id := range LeafIDs(form) {
		if id < 0 || id >= len(c.cases) {
			return errors.Wrapf(ErrUnknownCase, "form references case %d (have %d)", id, len(c.cases))
		}
	}
	prev := c.form
	c.form = CloneForm(form)
	if err := c.browser.UpdateResults(CloneForm(c.form), name); err != nil {
		c.form = prev
		return errors.Wrap(err, "push form")
	}
	if err := c.browser.UpdateMethods([]FormNode{Group(method)}); err != nil {
		return errors.Wrap(err, "push methods")
	}
	events.Catalog.SetForm(len(form), method)
	return nil
}

// Clear drops every case, label, and form entry; ids restart at 0.
func (c *Catalog) Clear() {
	events.Catalog.Clear(len(c.cases))
	c.cases = nil
	c.form = nil
	c.labels = make(map[int][]Label)
}

// AddLabel places a marker for a case. A case holds at most one marker per
// row; placing the same row again replaces the earlier marker.
func (c *Catalog) AddLabel(caseID int, l Label) error {
	if _, err := c.Case(caseID); err != nil {
		return err
	}
	placed := c.labels[caseID]
	if i := slices.IndexFunc(placed, func(p Label) bool { return p.Row == l.Row }); i >= 0 {
		placed[i] = l
	} else {
		c.labels[caseID] = append(placed, l)
	}
	events.Catalog.Label(caseID, l.Row)
	return nil
}

// Labels returns the markers placed for a case.
func (c *Catalog) Labels(caseID int) []Label {
	return append([]Label(nil), c.labels[caseID]...)
}

// ClearLabels removes every marker for a case and returns how many there were.
func (c *Catalog) ClearLabels(caseID int) int {
	n := len(c.labels[caseID])
	if _, ok := c.labels[caseID]; ok {
		c.labels[caseID] = nil
	}
	return n
}

type discardBrowser struct{}

func (discardBrowser) UpdateResults([]FormNode, string) error { return nil }
func (discardBrowser) UpdateMethods([]FormNode) error         { return nil }
func (discardBrowser) GetForm() []FormNode                    { return nil }
