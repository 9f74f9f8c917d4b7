package results

import "github.com/atomicstack/gridcase/internal/errors"

// Location says whether a result is attached to nodes or element centroids.
type Location int

const (
	Node Location = iota
	Centroid
)

func (l Location) String() string {
	if l == Centroid {
		return "centroid"
	}
	return "node"
}

// ParseLocation accepts "node" or "centroid" ("element" is an alias).
func ParseLocation(s string) (Location, error) {
	switch s {
	case "node", "nodal":
		return Node, nil
	case "centroid", "element":
		return Centroid, nil
	}
	return Node, errors.Newf("unknown result location %q (want node or centroid)", s)
}
