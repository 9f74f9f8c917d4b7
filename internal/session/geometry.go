package session

import (
	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/loader"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/registry"
	"github.com/atomicstack/gridcase/internal/render"
)

// LoadGeometry builds a model context for name from parsed geometry and
// makes it active. Resources are attached in load order: grid, mapper,
// actor, edge mapper and actor, then the id maps.
func (s *Session) LoadGeometry(name string, geom loader.Geometry) error {
	if name == "" {
		name = geom.Name
	}
	if name == "" {
		name = registry.DefaultName
	}
	nidMap := make(registry.IDMap, len(geom.NodeIDs))
	for row, nid := range geom.NodeIDs {
		nidMap[nid] = row
	}
	grid := render.NewGrid()
	grid.SetPoints(geom.XYZ)
	eidMap := make(registry.IDMap, len(geom.Elements))
	byType := make(map[render.CellType][][]int)
	var order []render.CellType
	for _, e := range geom.Elements {
		conn := make([]int, len(e.Nodes))
		for i, nid := range e.Nodes {
			row, ok := nidMap[nid]
			if !ok {
				return errors.Newf("element %d references unknown node %d", e.ID, nid)
			}
			conn[i] = row
		}
		if _, ok := byType[e.Type]; !ok {
			order = append(order, e.Type)
		}
		byType[e.Type] = append(byType[e.Type], conn)
	}
	// cells are grouped by type, so element rows follow that grouping
	row := 0
	for _, t := range order {
		if err := grid.InsertCells(t, byType[t]); err != nil {
			return errors.Wrapf(err, "build grid %s", name)
		}
	}
	for _, t := range order {
		for _, e := range geom.Elements {
			if e.Type == t {
				eidMap[e.ID] = row
				row++
			}
		}
	}
	grid.Modified()

	s.Registry.SetActive(name)
	ctx := s.Registry.ActiveContext()
	ctx.SetGrid(grid)
	mapper := render.NewMapper(grid)
	ctx.SetGridMapper(mapper)
	ctx.SetGeomActor(render.NewActor(mapper))
	edgeMapper := render.NewMapper(grid)
	ctx.SetEdgeMapper(edgeMapper)
	edgeActor := render.NewActor(edgeMapper)
	edgeActor.SetRepresentation(render.Wireframe)
	edgeActor.SetVisibility(false)
	ctx.SetEdgeActor(edgeActor)
	ctx.SetNodeIDMap(nidMap)
	ctx.SetElementIDMap(eidMap)

	if dim := grid.MaxDimension(); dim > s.Settings.DimMax {
		s.Settings.DimMax = dim
	}
	events.Registry.LoadGeometry(name, grid.NumberOfPoints(), grid.NumberOfCells())
	return nil
}

// LoadGeometryFile reads a geometry file and loads it under name, replacing
// whatever that model showed before.
func (s *Session) LoadGeometryFile(name, path string) error {
	geom, err := loader.ReadGeometry(path)
	if err != nil {
		return err
	}
	return s.ReplaceGeometry(name, path, geom)
}

// ReplaceGeometry clears the model named name (the geometry's own name or
// the default when empty) and loads geom in its place.
func (s *Session) ReplaceGeometry(name, path string, geom loader.Geometry) error {
	if name == "" {
		name = geom.Name
	}
	if name == "" {
		name = registry.DefaultName
	}
	s.Registry.SetActive(name)
	if _, err := s.ClearGeometry(path); err != nil {
		return err
	}
	if err := s.LoadGeometry(name, geom); err != nil {
		return err
	}
	s.geometryFiles[name] = path
	return nil
}

// GeometryFile returns the file a model was loaded from.
func (s *Session) GeometryFile(name string) string {
	return s.geometryFiles[name]
}

// SetQuadGrid creates an alternate model made of quads, shown as a
// wireframe. Empty node or quad input leaves just the empty grid.
func (s *Session) SetQuadGrid(name string, nodes [][3]float64, quads [][]int, color [3]float64, lineWidth, opacity float64) error {
	ctx := s.Registry.Context(name)
	grid := render.NewGrid()
	ctx.SetGrid(grid)
	if len(nodes) == 0 || len(quads) == 0 {
		return nil
	}
	grid.SetPoints(nodes)
	if err := grid.InsertCells(render.CellQuad, quads); err != nil {
		ctx.SetGrid(render.NewGrid())
		return errors.Wrapf(err, "quad grid %s", name)
	}
	mapper := render.NewMapper(grid)
	actor := render.NewActor(mapper)
	actor.SetRepresentation(render.Wireframe)
	actor.Color = color
	actor.LineWidth = lineWidth
	actor.Opacity = opacity
	ctx.SetGridMapper(mapper)
	ctx.SetGeomActor(actor)
	grid.Modified()
	return nil
}

// ClearGeometry tears down the active model before new geometry is read.
// It returns skip=true, doing nothing else, when filename is empty or no
// geometry is loaded under the active name; otherwise the text overlay is
// turned off, the active grid is reset, and the catalog is cleared. The
// active id maps are emptied in every case.
func (s *Session) ClearGeometry(filename string) (bool, error) {
	ctx := s.Registry.ActiveContext()
	ctx.SetNodeIDMap(registry.IDMap{})
	ctx.SetElementIDMap(registry.IDMap{})
	if filename == "" || !s.Registry.HasGrid(ctx.Name()) {
		return true, nil
	}
	grid, err := ctx.Grid()
	if err != nil {
		return false, err
	}
	s.Text.Off()
	grid.Reset()
	if mapper, err := ctx.GridMapper(); err == nil {
		mapper.ClearScalars()
	}
	s.Catalog.Clear()
	s.activeCase = NoActiveCase
	return false, nil
}

// RemoveModel discards every resource registered under name.
func (s *Session) RemoveModel(name string) {
	s.Registry.RemoveContext(name)
	delete(s.geometryFiles, name)
}
