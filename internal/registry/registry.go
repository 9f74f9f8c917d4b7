// Package registry keeps per-model rendering handles and id maps keyed by
// model name, with an active name selecting which entry the convenience
// accessors read and write.
//
// Each resource lives in its own table because models are built
// incrementally: the grid exists before its mapper, the mapper before its
// actor. Reads of a missing entry fail with a NotFoundError; writes create
// the entry.
package registry

import (
	"sort"

	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/render"
)

// DefaultName is the active name of a fresh registry.
const DefaultName = "main"

// Table names as reported in NotFoundError.
const (
	TableGrids       = "grids"
	TableGridMappers = "grid_mappers"
	TableGeomActors  = "geometry_actors"
	TableEdgeMappers = "edge_mappers"
	TableEdgeActors  = "edge_actors"
	TableNodeIDMaps  = "nid_maps"
	TableElemIDMaps  = "eid_maps"
)

// IDMap maps an external node or element id to its row index.
type IDMap map[int]int

// Rows returns the ids ordered by row index.
func (m IDMap) Rows() []int {
	ids := make([]int, len(m))
	for id, row := range m {
		if row >= 0 && row < len(ids) {
			ids[row] = id
		}
	}
	return ids
}

// Registry is the set of per-name tables plus the active name.
type Registry struct {
	active string

	grids       *table[*render.Grid]
	gridMappers *table[*render.Mapper]
	geomActors  *table[*render.Actor]
	edgeMappers *table[*render.Mapper]
	edgeActors  *table[*render.Actor]
	nidMaps     *table[IDMap]
	eidMaps     *table[IDMap]
}

// New returns an empty registry whose active name is DefaultName.
func New() *Registry {
	return &Registry{
		active:      DefaultName,
		grids:       newTable[*render.Grid](TableGrids),
		gridMappers: newTable[*render.Mapper](TableGridMappers),
		geomActors:  newTable[*render.Actor](TableGeomActors),
		edgeMappers: newTable[*render.Mapper](TableEdgeMappers),
		edgeActors:  newTable[*render.Actor](TableEdgeActors),
		nidMaps:     newTable[IDMap](TableNodeIDMaps),
		eidMaps:     newTable[IDMap](TableElemIDMaps),
	}
}

// SetActive changes the active name. Existence is checked on access.
func (r *Registry) SetActive(name string) {
	if name == r.active {
		return
	}
	events.Registry.SetActive(r.active, name)
	r.active = name
}

// Active returns the active name.
func (r *Registry) Active() string {
	return r.active
}

// Context returns a handle bound to name regardless of the active name.
func (r *Registry) Context(name string) *Context {
	return &Context{name: name, reg: r}
}

// ActiveContext returns a handle bound to the current active name. The
// handle keeps its name if the active name changes later.
func (r *Registry) ActiveContext() *Context {
	return r.Context(r.active)
}

// RemoveContext deletes name from every table. Missing entries are ignored.
func (r *Registry) RemoveContext(name string) {
	events.Registry.Remove(name)
	r.grids.remove(name)
	r.gridMappers.remove(name)
	r.geomActors.remove(name)
	r.edgeMappers.remove(name)
	r.edgeActors.remove(name)
	r.nidMaps.remove(name)
	r.eidMaps.remove(name)
}

// Names returns every name present in at least one table, sorted.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{})
	for _, keys := range [][]string{
		r.grids.keys(), r.gridMappers.keys(), r.geomActors.keys(),
		r.edgeMappers.keys(), r.edgeActors.keys(),
		r.nidMaps.keys(), r.eidMaps.keys(),
	} {
		for _, k := range keys {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// HasGrid reports whether name has a geometry container.
func (r *Registry) HasGrid(name string) bool {
	return r.grids.has(name)
}

func (r *Registry) Grid() (*render.Grid, error)         { return r.ActiveContext().Grid() }
func (r *Registry) SetGrid(g *render.Grid)              { r.ActiveContext().SetGrid(g) }
func (r *Registry) GridMapper() (*render.Mapper, error) { return r.ActiveContext().GridMapper() }
func (r *Registry) SetGridMapper(m *render.Mapper)      { r.ActiveContext().SetGridMapper(m) }
func (r *Registry) GeomActor() (*render.Actor, error)   { return r.ActiveContext().GeomActor() }
func (r *Registry) SetGeomActor(a *render.Actor)        { r.ActiveContext().SetGeomActor(a) }
func (r *Registry) EdgeMapper() (*render.Mapper, error) { return r.ActiveContext().EdgeMapper() }
func (r *Registry) SetEdgeMapper(m *render.Mapper)      { r.ActiveContext().SetEdgeMapper(m) }
func (r *Registry) EdgeActor() (*render.Actor, error)   { return r.ActiveContext().EdgeActor() }
func (r *Registry) SetEdgeActor(a *render.Actor)        { r.ActiveContext().SetEdgeActor(a) }
func (r *Registry) NodeIDMap() (IDMap, error)           { return r.ActiveContext().NodeIDMap() }
func (r *Registry) SetNodeIDMap(m IDMap)                { r.ActiveContext().SetNodeIDMap(m) }
func (r *Registry) ElementIDMap() (IDMap, error)        { return r.ActiveContext().ElementIDMap() }
func (r *Registry) SetElementIDMap(m IDMap)             { r.ActiveContext().SetElementIDMap(m) }
