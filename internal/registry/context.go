package registry

import "github.com/atomicstack/gridcase/internal/render"

// Context is a handle on one model name within a Registry.
type Context struct {
	name string
	reg  *Registry
}

// Name returns the model name the handle is bound to.
func (c *Context) Name() string {
	return c.name
}

func (c *Context) Grid() (*render.Grid, error) {
	return c.reg.grids.get(c.name)
}

func (c *Context) SetGrid(g *render.Grid) {
	c.reg.grids.set(c.name, g)
}

func (c *Context) GridMapper() (*render.Mapper, error) {
	return c.reg.gridMappers.get(c.name)
}

func (c *Context) SetGridMapper(m *render.Mapper) {
	c.reg.gridMappers.set(c.name, m)
}

func (c *Context) GeomActor() (*render.Actor, error) {
	return c.reg.geomActors.get(c.name)
}

func (c *Context) SetGeomActor(a *render.Actor) {
	c.reg.geomActors.set(c.name, a)
}

func (c *Context) EdgeMapper() (*render.Mapper, error) {
	return c.reg.edgeMappers.get(c.name)
}

func (c *Context) SetEdgeMapper(m *render.Mapper) {
	c.reg.edgeMappers.set(c.name, m)
}

func (c *Context) EdgeActor() (*render.Actor, error) {
	return c.reg.edgeActors.get(c.name)
}

func (c *Context) SetEdgeActor(a *render.Actor) {
	c.reg.edgeActors.set(c.name, a)
}

// NodeIDMap returns the node id -> row map.
func (c *Context) NodeIDMap() (IDMap, error) {
	return c.reg.nidMaps.get(c.name)
}

func (c *Context) SetNodeIDMap(m IDMap) {
	c.reg.nidMaps.set(c.name, m)
}

// ElementIDMap returns the element id -> row map.
func (c *Context) ElementIDMap() (IDMap, error) {
	return c.reg.eidMaps.get(c.name)
}

func (c *Context) SetElementIDMap(m IDMap) {
	c.reg.eidMaps.set(c.name, m)
}
