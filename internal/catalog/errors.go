package catalog

import (
	"fmt"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/results"
)

var (
	// ErrShapeMismatch matches every ShapeMismatchError via errors.Is.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrEmptyCatalog is returned when an operation needs at least one case.
	ErrEmptyCatalog = errors.New("empty catalog")
	// ErrUnknownCase is returned for case ids the catalog never assigned.
	ErrUnknownCase = errors.New("unknown case")
)

// ShapeMismatchError rejects an AddCases call whose inputs disagree with the
// active model. Missing is set when the field has no values or no format.
type ShapeMismatchError struct {
	Field    string
	Location results.Location
	Expected int
	Actual   int
	Missing  string
}

func (e *ShapeMismatchError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("%s: field %q has no %s entry", ErrShapeMismatch, e.Field, e.Missing)
	}
	return fmt.Sprintf("%s: field %q (%s): expected %d, got %d",
		ErrShapeMismatch, e.Field, e.Location, e.Expected, e.Actual)
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
