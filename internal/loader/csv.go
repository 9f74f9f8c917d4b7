package loader

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/results"
)

// ReadCSV loads a result CSV. The header is either a comment line
// ("# disp_x, disp_y") or the first row of names. Each column becomes one
// single-column field; all-integer columns get the "%i" format, others "%f".
func ReadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	tbl, err := ParseCSV(f, filepath.Base(path))
	if err != nil {
		return Table{}, errors.Wrapf(err, "parse %s", path)
	}
	return tbl, nil
}

// ParseCSV reads CSV content; source becomes the form group name.
func ParseCSV(r io.Reader, source string) (Table, error) {
	headers, rows, err := readNumeric(r)
	if err != nil {
		return Table{}, err
	}
	tbl := newTable(source)
	for j, name := range headers {
		arr := make(results.Array, len(rows))
		integer := true
		for i, row := range rows {
			arr[i] = []float64{row[j]}
			if row[j] != math.Trunc(row[j]) {
				integer = false
			}
		}
		tbl.Fields = append(tbl.Fields, name)
		tbl.Values[name] = arr
		tbl.Formats[name] = "%f"
		if integer {
			tbl.Formats[name] = "%i"
		}
	}
	return tbl, nil
}

// ReadDeflectionCSV loads a three-column CSV as one vector field named after
// the file.
func ReadDeflectionCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	source := filepath.Base(path)
	_, rows, err := readNumeric(f)
	if err != nil {
		return Table{}, errors.Wrapf(err, "parse %s", path)
	}
	name := strings.TrimSuffix(source, filepath.Ext(source))
	arr := make(results.Array, len(rows))
	for i, row := range rows {
		if len(row) != 3 {
			return Table{}, errors.Newf("%s row %d: deflection needs 3 columns, got %d", path, i+1, len(row))
		}
		arr[i] = append([]float64(nil), row...)
	}
	tbl := newTable(source)
	tbl.Fields = []string{name}
	tbl.Values[name] = arr
	tbl.Formats[name] = "%g"
	return tbl, nil
}

func readNumeric(r io.Reader) ([]string, [][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "read csv")
	}
	var headers []string
	var rows [][]float64
	for lineNo, rec := range records {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(rec[0]), "#") {
			if headers == nil && len(rows) == 0 {
				headers = cleanHeaders(rec)
			}
			continue
		}
		values, numeric := parseRow(rec)
		if !numeric {
			if headers == nil && len(rows) == 0 {
				headers = cleanHeaders(rec)
				continue
			}
			return nil, nil, errors.Newf("line %d: non-numeric value in %v", lineNo+1, rec)
		}
		if len(rows) > 0 && len(values) != len(rows[0]) {
			return nil, nil, errors.Newf("line %d: expected %d columns, got %d", lineNo+1, len(rows[0]), len(values))
		}
		rows = append(rows, values)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("no data rows")
	}
	ncols := len(rows[0])
	if headers == nil {
		for j := 0; j < ncols; j++ {
			headers = append(headers, "column_"+strconv.Itoa(j))
		}
	}
	if len(headers) != ncols {
		return nil, nil, errors.Newf("header names %d columns, data has %d", len(headers), ncols)
	}
	return headers, rows, nil
}

func parseRow(rec []string) ([]float64, bool) {
	out := make([]float64, 0, len(rec))
	for _, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func cleanHeaders(rec []string) []string {
	out := make([]string, 0, len(rec))
	for i, h := range rec {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimSpace(strings.TrimPrefix(h, "#"))
		}
		out = append(out, h)
	}
	return out
}
