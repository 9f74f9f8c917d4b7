// Package session owns the state of one viewer session: the named-context
// registry, the result-case catalog, display settings, and the text overlay.
// Every field is set at construction and reset by explicit teardown methods.
package session

import (
	"fmt"

	"github.com/atomicstack/gridcase/internal/catalog"
	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/registry"
	"github.com/atomicstack/gridcase/internal/render"
	"github.com/atomicstack/gridcase/internal/results"
	"github.com/google/uuid"
)

// NoActiveCase is the ActiveCase value before any case is shown.
const NoActiveCase = -1

// Settings are display parameters shared by every model.
type Settings struct {
	// DimMax is the largest model dimension; it drives vector scaling and
	// label size.
	DimMax     float64
	LabelScale float64
}

// Session is the per-session state struct.
type Session struct {
	ID       string
	Registry *registry.Registry
	Catalog  *catalog.Catalog
	Settings Settings
	Text     *render.TextOverlay

	activeCase int
	// geometryFiles records the file each model was loaded from.
	geometryFiles map[string]string
}

// New builds a session with every field at its default.
func New() *Session {
	return &Session{
		ID:            uuid.NewString(),
		Registry:      registry.New(),
		Catalog:       catalog.New(nil),
		Settings:      Settings{DimMax: 1, LabelScale: 1},
		Text:          render.NewTextOverlay(),
		activeCase:    NoActiveCase,
		geometryFiles: make(map[string]string),
	}
}

// SetBrowser routes catalog pushes to the browsing widget.
func (s *Session) SetBrowser(b catalog.Browser) {
	s.Catalog.SetBrowser(b)
}

// ActiveCase returns the id of the case last shown, or NoActiveCase.
func (s *Session) ActiveCase() int {
	return s.activeCase
}

// SetActive switches the active model name.
func (s *Session) SetActive(name string) {
	s.Registry.SetActive(name)
}

// activeModel adapts the active registry context to catalog.Model.
type activeModel struct {
	ctx    *registry.Context
	grid   *render.Grid
	dimMax float64
}

func (m activeModel) Name() string             { return m.ctx.Name() }
func (m activeModel) NodeCount() int           { return m.grid.NumberOfPoints() }
func (m activeModel) ElementCount() int        { return m.grid.NumberOfCells() }
func (m activeModel) DimMax() float64          { return m.dimMax }
func (m activeModel) NominalXYZ() [][3]float64 { return m.grid.Points() }

func (s *Session) model() (activeModel, error) {
	ctx := s.Registry.ActiveContext()
	grid, err := ctx.Grid()
	if err != nil {
		return activeModel{}, err
	}
	return activeModel{ctx: ctx, grid: grid, dimMax: s.Settings.DimMax}, nil
}

// AddCases adds a batch against the active model.
func (s *Session) AddCases(b catalog.Batch) ([]int, error) {
	m, err := s.model()
	if err != nil {
		return nil, errors.Wrapf(err, "add cases from %s", b.Source)
	}
	return s.Catalog.AddCases(m, b)
}

// ShowCase colours the active model with a case: the mapper gets the case's
// scalars and range, the actor is made visible, and the text overlay is
// refreshed.
func (s *Session) ShowCase(id int) error {
	cs, err := s.Catalog.Case(id)
	if err != nil {
		return err
	}
	ctx := s.Registry.ActiveContext()
	mapper, err := ctx.GridMapper()
	if err != nil {
		return errors.Wrapf(err, "show case %d", id)
	}
	actor, err := ctx.GeomActor()
	if err != nil {
		return errors.Wrapf(err, "show case %d", id)
	}
	lo, hi := cs.Result.Range()
	mapper.SetScalars(cs.Result.Scalars(), lo, hi)
	actor.SetVisibility(true)
	s.updateText(cs, lo, hi)
	s.activeCase = id
	events.Catalog.Show(id, ctx.Name())
	return nil
}

func (s *Session) updateText(cs catalog.Case, lo, hi float64) {
	s.Text.Set("max", "Max:  "+cs.Result.FormatValue(hi))
	s.Text.Set("min", "Min:  "+cs.Result.FormatValue(lo))
	s.Text.Set("subcase", fmt.Sprintf("Subcase: %d", cs.Slot))
	s.Text.Set("label", "Label: "+cs.Title)
	s.Text.On()
}

// AddLabel places a marker on one row of a shown case. The marker text is
// "<id>: <value>" using the case's format.
func (s *Session) AddLabel(caseID, row int) error {
	cs, err := s.Catalog.Case(caseID)
	if err != nil {
		return err
	}
	if row < 0 || row >= cs.Result.Len() {
		return errors.Newf("label row %d out of range for case %d (%d rows)", row, caseID, cs.Result.Len())
	}
	ctx := s.Registry.ActiveContext()
	ids := registry.IDMap(nil)
	var position [3]float64
	if cs.Result.Location() == results.Centroid {
		ids, err = ctx.ElementIDMap()
	} else {
		ids, err = ctx.NodeIDMap()
		if grid, gerr := ctx.Grid(); gerr == nil && row < grid.NumberOfPoints() {
			position = grid.Points()[row]
		}
	}
	if err != nil {
		return errors.Wrapf(err, "label case %d", caseID)
	}
	rowIDs := ids.Rows()
	id := row
	if row < len(rowIDs) {
		id = rowIDs[row]
	}
	value := cs.Result.Scalars()[row]
	return s.Catalog.AddLabel(caseID, catalog.Label{
		Row:      row,
		ID:       id,
		Text:     fmt.Sprintf("%d: %s", id, cs.Result.FormatValue(value)),
		Position: position,
	})
}

// DisplacementScaleFactor is a quarter of the largest model dimension.
func (s *Session) DisplacementScaleFactor() float64 {
	return s.Settings.DimMax * 0.25
}
