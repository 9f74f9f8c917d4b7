package loader

import (
	"os"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/render"
	"gopkg.in/yaml.v3"
)

// Element is one cell of a geometry file, referencing node ids.
type Element struct {
	ID    int
	Type  render.CellType
	Nodes []int
}

// Geometry is a parsed model: node ids with coordinates, and elements.
type Geometry struct {
	Name     string
	NodeIDs  []int
	XYZ      [][3]float64
	Elements []Element
}

type geometryFile struct {
	Name     string        `yaml:"name"`
	Nodes    [][]float64   `yaml:"nodes"`
	Elements []elementFile `yaml:"elements"`
}

type elementFile struct {
	ID    int    `yaml:"id"`
	Type  string `yaml:"type"`
	Nodes []int  `yaml:"nodes"`
}

// ReadGeometry parses a YAML geometry file:
//
//	name: main
//	nodes:
//	  - [1, 0.0, 0.0, 0.0]
//	elements:
//	  - {id: 1, type: quad, nodes: [1, 2, 3, 4]}
func ReadGeometry(path string) (Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "read geometry %s", path)
	}
	geom, err := ParseGeometry(data)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "parse geometry %s", path)
	}
	return geom, nil
}

// ParseGeometry decodes and validates YAML geometry.
func ParseGeometry(data []byte) (Geometry, error) {
	var raw geometryFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Geometry{}, errors.Wrap(err, "decode yaml")
	}
	geom := Geometry{Name: raw.Name}
	seen := make(map[int]struct{}, len(raw.Nodes))
	for i, n := range raw.Nodes {
		if len(n) != 4 {
			return Geometry{}, errors.Newf("node %d: expected [id, x, y, z], got %d values", i, len(n))
		}
		id := int(n[0])
		if _, dup := seen[id]; dup {
			return Geometry{}, errors.Newf("node %d: duplicate id %d", i, id)
		}
		seen[id] = struct{}{}
		geom.NodeIDs = append(geom.NodeIDs, id)
		geom.XYZ = append(geom.XYZ, [3]float64{n[1], n[2], n[3]})
	}
	for i, e := range raw.Elements {
		ct, err := render.ParseCellType(e.Type)
		if err != nil {
			return Geometry{}, errors.Wrapf(err, "element %d", e.ID)
		}
		if len(e.Nodes) != ct.Size() {
			return Geometry{}, errors.Newf("element %d (index %d): %s needs %d nodes, got %d",
				e.ID, i, e.Type, ct.Size(), len(e.Nodes))
		}
		for _, nid := range e.Nodes {
			if _, ok := seen[nid]; !ok {
				return Geometry{}, errors.Newf("element %d references unknown node %d", e.ID, nid)
			}
		}
		geom.Elements = append(geom.Elements, Element{ID: e.ID, Type: ct, Nodes: append([]int(nil), e.Nodes...)})
	}
	return geom, nil
}
