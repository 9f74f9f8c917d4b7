// Package results wraps raw value arrays into the typed result objects the
// catalog stores: one scalar per row, or a three-component vector per row
// with the nominal coordinates needed to draw a deflected shape.
package results

import (
	"math"

	"github.com/atomicstack/gridcase/internal/errors"
)

// Array is a rows x columns block of values for one field.
type Array [][]float64

// Rows returns the number of rows.
func (a Array) Rows() int {
	return len(a)
}

// Cols returns the column count of the first row.
func (a Array) Cols() int {
	if len(a) == 0 {
		return 0
	}
	return len(a[0])
}

// checkWidth reports the first row whose width is not cols.
func (a Array) checkWidth(key string, cols int) error {
	for i, row := range a {
		if len(row) != cols {
			return errors.Newf("field %q: row %d has %d columns, want %d", key, i, len(row), cols)
		}
	}
	return nil
}

// Column extracts column j.
func (a Array) Column(j int) []float64 {
	out := make([]float64, len(a))
	for i, row := range a {
		if j < len(row) {
			out[i] = row[j]
		}
	}
	return out
}

// Result is one computed field ready to be shown on a model.
type Result interface {
	Field() string
	Title() string
	Slot() int
	Location() Location
	Format() string
	Len() int
	// Scalars returns the value per row; vectors report their magnitude.
	Scalars() []float64
	Range() (float64, float64)
	FormatValue(v float64) string
	IsVector() bool
}

type base struct {
	field    string
	slot     int
	location Location
	format   string
}

func (b base) Field() string                { return b.field }
func (b base) Title() string                { return b.field }
func (b base) Slot() int                    { return b.slot }
func (b base) Location() Location           { return b.location }
func (b base) Format() string               { return b.format }
func (b base) FormatValue(v float64) string { return FormatValue(b.format, v) }

// ScalarResult is a single value per row.
type ScalarResult struct {
	base
	values []float64
}

func (r *ScalarResult) Len() int           { return len(r.values) }
func (r *ScalarResult) Scalars() []float64 { return append([]float64(nil), r.values...) }
func (r *ScalarResult) Range() (float64, float64) {
	return valueRange(r.values)
}
func (r *ScalarResult) IsVector() bool { return false }

// VectorKind distinguishes translations, which deflect the model, from other
// vector quantities such as forces.
type VectorKind int

const (
	Displacement VectorKind = iota
	Force
)

func (k VectorKind) String() string {
	if k == Force {
		return "force"
	}
	return "displacement"
}

// DisplacementResult is a three-component vector per row.
type DisplacementResult struct {
	base
	kind    VectorKind
	vectors [][3]float64
	nominal [][3]float64
	dimMax  float64
}

func (r *DisplacementResult) Len() int       { return len(r.vectors) }
func (r *DisplacementResult) IsVector() bool { return true }

// Kind reports whether the vectors are translations or forces.
func (r *DisplacementResult) Kind() VectorKind { return r.kind }

// Vectors returns a copy of the per-row vectors.
func (r *DisplacementResult) Vectors() [][3]float64 {
	return append([][3]float64(nil), r.vectors...)
}

func (r *DisplacementResult) Scalars() []float64 {
	out := make([]float64, len(r.vectors))
	for i, v := range r.vectors {
		out[i] = math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	}
	return out
}

func (r *DisplacementResult) Range() (float64, float64) {
	return valueRange(r.Scalars())
}

// ScaleFactor is the display scale that makes the largest vector a quarter
// of the model's largest dimension.
func (r *DisplacementResult) ScaleFactor() float64 {
	_, hi := r.Range()
	if hi == 0 {
		return 0
	}
	return r.dimMax * 0.25 / hi
}

// Deflected returns nominal + factor*ScaleFactor*vector per node. Only
// meaningful for nodal translations.
func (r *DisplacementResult) Deflected(factor float64) [][3]float64 {
	out := make([][3]float64, len(r.nominal))
	scale := factor * r.ScaleFactor()
	for i, xyz := range r.nominal {
		out[i] = xyz
		if i < len(r.vectors) {
			for k := 0; k < 3; k++ {
				out[i][k] += scale * r.vectors[i][k]
			}
		}
	}
	return out
}

type options struct {
	dimMax  float64
	nominal [][3]float64
	kind    VectorKind
}

// Option configures vector result construction.
type Option func(*options)

// WithScale supplies the model's largest dimension.
func WithScale(dimMax float64) Option {
	return func(o *options) { o.dimMax = dimMax }
}

// WithNominal supplies the undeformed node coordinates.
func WithNominal(xyz [][3]float64) Option {
	return func(o *options) { o.nominal = xyz }
}

// WithKind marks vectors as forces rather than translations.
func WithKind(kind VectorKind) Option {
	return func(o *options) { o.kind = kind }
}

// Create builds the result for key. With no options the field must be a
// single column; WithScale/WithNominal select a vector result, which needs
// three columns.
func Create(slot int, fields []string, key string, values map[string]Array, formats map[string]string, loc Location, opts ...Option) (Result, string, error) {
	arr, ok := values[key]
	if !ok {
		return nil, "", errors.Newf("no values for field %q (fields=%v)", key, fields)
	}
	format, ok := formats[key]
	if !ok {
		return nil, "", errors.Newf("no format for field %q", key)
	}
	b := base{field: key, slot: slot, location: loc, format: format}
	if len(opts) == 0 {
		if arr.Rows() > 0 && arr.Cols() != 1 {
			return nil, "", errors.Newf("field %q: scalar result needs 1 column, got %d", key, arr.Cols())
		}
		if err := arr.checkWidth(key, 1); err != nil {
			return nil, "", err
		}
		res := &ScalarResult{base: b, values: arr.Column(0)}
		return res, res.Title(), nil
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if arr.Rows() > 0 && arr.Cols() != 3 {
		return nil, "", errors.Newf("field %q: vector result needs 3 columns, got %d", key, arr.Cols())
	}
	if err := arr.checkWidth(key, 3); err != nil {
		return nil, "", err
	}
	vectors := make([][3]float64, arr.Rows())
	for i, row := range arr {
		copy(vectors[i][:], row)
	}
	res := &DisplacementResult{
		base:    b,
		kind:    o.kind,
		vectors: vectors,
		nominal: append([][3]float64(nil), o.nominal...),
		dimMax:  o.dimMax,
	}
	return res, res.Title(), nil
}

// valueRange ignores NaN; all-NaN or empty input yields (0, 0).
func valueRange(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
