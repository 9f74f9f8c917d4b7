// Package loader reads geometry and result files into the shapes the
// session consumes: a Geometry for a model, or a Table of named value
// arrays for the catalog.
package loader

import "github.com/atomicstack/gridcase/internal/results"

// Table is a parsed result file: values and display format per field, and
// the field order to materialise.
type Table struct {
	Values  map[string]results.Array
	Formats map[string]string
	Fields  []string
	Source  string
	// Slot is set by formats that carry a subcase id.
	Slot *int
}

func newTable(source string) Table {
	return Table{
		Values:  map[string]results.Array{},
		Formats: map[string]string{},
		Source:  source,
	}
}
