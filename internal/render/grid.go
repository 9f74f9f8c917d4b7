package render

import (
	"math"

	"github.com/atomicstack/gridcase/internal/errors"
)

// CellType identifies cell topology using the toolkit's numeric codes.
type CellType int

const (
	CellLine       CellType = 3
	CellTriangle   CellType = 5
	CellQuad       CellType = 9
	CellTetra      CellType = 10
	CellHexahedron CellType = 12
)

var cellSizes = map[CellType]int{
	CellLine:       2,
	CellTriangle:   3,
	CellQuad:       4,
	CellTetra:      4,
	CellHexahedron: 8,
}

var cellNames = map[string]CellType{
	"line":  CellLine,
	"tri":   CellTriangle,
	"quad":  CellQuad,
	"tet":   CellTetra,
	"tetra": CellTetra,
	"hex":   CellHexahedron,
}

// ParseCellType maps a short element name (tri, quad, ...) to its cell type.
func ParseCellType(name string) (CellType, error) {
	t, ok := cellNames[name]
	if !ok {
		return 0, errors.Newf("unknown cell type %q", name)
	}
	return t, nil
}

// Size returns the number of points a cell of this type references.
func (t CellType) Size() int {
	return cellSizes[t]
}

// Cell is one piece of topology referencing point rows.
type Cell struct {
	Type   CellType
	Points []int
}

// Grid is an unstructured geometry container: points plus typed cells.
type Grid struct {
	points [][3]float64
	cells  []Cell
	mtime  uint64
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{}
}

// SetPoints replaces the point array.
func (g *Grid) SetPoints(points [][3]float64) {
	g.points = append([][3]float64(nil), points...)
}

// Points returns a copy of the point array.
func (g *Grid) Points() [][3]float64 {
	return append([][3]float64(nil), g.points...)
}

// InsertCells appends cells of a single type. Each row of conn holds point
// row indices; rows of the wrong length or out-of-range indices are rejected
// before anything is appended.
func (g *Grid) InsertCells(t CellType, conn [][]int) error {
	size := t.Size()
	if size == 0 {
		return errors.Newf("unsupported cell type %d", t)
	}
	for i, row := range conn {
		if len(row) != size {
			return errors.Newf("cell %d: expected %d points, got %d", i, size, len(row))
		}
		for _, p := range row {
			if p < 0 || p >= len(g.points) {
				return errors.Newf("cell %d: point %d out of range [0, %d)", i, p, len(g.points))
			}
		}
	}
	for _, row := range conn {
		g.cells = append(g.cells, Cell{Type: t, Points: append([]int(nil), row...)})
	}
	return nil
}

// Cells returns a copy of the cell list.
func (g *Grid) Cells() []Cell {
	return append([]Cell(nil), g.cells...)
}

// NumberOfPoints reports the point count.
func (g *Grid) NumberOfPoints() int {
	return len(g.points)
}

// NumberOfCells reports the cell count.
func (g *Grid) NumberOfCells() int {
	return len(g.cells)
}

// Reset drops all points and cells.
func (g *Grid) Reset() {
	g.points = nil
	g.cells = nil
	g.Modified()
}

// Modified marks the grid as changed so dependent mappers re-read it.
func (g *Grid) Modified() {
	g.mtime++
}

// MTime returns the modification counter.
func (g *Grid) MTime() uint64 {
	return g.mtime
}

// MaxDimension returns the largest extent of the bounding box.
func (g *Grid) MaxDimension() float64 {
	if len(g.points) == 0 {
		return 0
	}
	lo := g.points[0]
	hi := g.points[0]
	for _, p := range g.points[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}
	dim := 0.0
	for k := 0; k < 3; k++ {
		dim = math.Max(dim, hi[k]-lo[k])
	}
	return dim
}
