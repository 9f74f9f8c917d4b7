package session

import (
	"path/filepath"
	"strings"

	"github.com/atomicstack/gridcase/internal/catalog"
	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/loader"
	"github.com/atomicstack/gridcase/internal/results"
)

// ResultOptions describe how a result file is interpreted.
type ResultOptions struct {
	Location results.Location
	// Deflection reads a three-column CSV as one vector field.
	Deflection bool
	// Force marks vector fields as forces instead of translations.
	Force bool
}

// TableBatch converts a loaded table into a catalog batch.
func TableBatch(tbl loader.Table, opts ResultOptions) catalog.Batch {
	return catalog.Batch{
		Values:   tbl.Values,
		Formats:  tbl.Formats,
		Fields:   tbl.Fields,
		Location: opts.Location,
		Source:   tbl.Source,
		Scalar:   !opts.Deflection && !opts.Force,
		Vector:   opts.Force,
		Slot:     tbl.Slot,
	}
}

// LoadResults reads a result file by extension (.csv, .nod) and adds its
// fields as cases on the active model.
func (s *Session) LoadResults(path string, opts ResultOptions) ([]int, error) {
	tbl, err := s.ReadResults(path, opts)
	if err != nil {
		return nil, err
	}
	return s.AddCases(TableBatch(tbl, opts))
}

// ReadResults parses a result file without touching the catalog.
func (s *Session) ReadResults(path string, opts ResultOptions) (loader.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nod":
		nids, err := s.Registry.NodeIDMap()
		if err != nil {
			return loader.Table{}, errors.Wrapf(err, "load %s", path)
		}
		return loader.ReadNod(path, nids)
	case ".csv", ".txt", ".dat":
		if opts.Deflection || opts.Force {
			return loader.ReadDeflectionCSV(path)
		}
		return loader.ReadCSV(path)
	}
	return loader.Table{}, errors.WithHint(
		errors.Newf("unsupported result file %s", path),
		"use .csv or .nod",
	)
}
