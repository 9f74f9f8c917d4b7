package loader

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/results"
)

// maxNodColumns bounds the counts line; every column is allocated up front.
const maxNodColumns = 256

// ReadNod loads a Patran nodal results file. Values are scattered into row
// order using nodeRows (node id -> row); rows for nodes absent from the
// file stay zero, and node ids unknown to the model are skipped.
func ReadNod(path string, nodeRows map[int]int) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	tbl, err := ParseNod(f, filepath.Base(path), nodeRows)
	if err != nil {
		return Table{}, errors.Wrapf(err, "parse %s", path)
	}
	return tbl, nil
}

// ParseNod reads the layout
//
//	title
//	nnodes maxnode defmax ndmax ncolumns
//	subtitle 1
//	subtitle 2
//	nid v1 v2 ...
//
// A subtitle of the form "SUBCASE <n>" sets the table's slot.
func ParseNod(r io.Reader, source string, nodeRows map[int]int) (Table, error) {
	sc := bufio.NewScanner(r)
	var header []string
	for len(header) < 4 && sc.Scan() {
		header = append(header, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return Table{}, errors.Wrap(err, "read header")
	}
	if len(header) < 4 {
		return Table{}, errors.Newf("truncated header: %d of 4 lines", len(header))
	}
	counts := strings.Fields(header[1])
	if len(counts) < 5 {
		return Table{}, errors.Newf("counts line needs 5 values, got %q", header[1])
	}
	ncols, err := strconv.Atoi(counts[4])
	if err != nil || ncols <= 0 {
		return Table{}, errors.Newf("invalid column count %q", counts[4])
	}
	if ncols > maxNodColumns {
		return Table{}, errors.Newf("column count %d exceeds %d", ncols, maxNodColumns)
	}

	title := strings.TrimSpace(header[0])
	if title == "" {
		title = strings.TrimSuffix(source, filepath.Ext(source))
	}
	tbl := newTable(source)
	cols := make([]results.Array, ncols)
	for j := range cols {
		cols[j] = make(results.Array, len(nodeRows))
		for i := range cols[j] {
			cols[j][i] = []float64{0}
		}
		name := title + "_" + strconv.Itoa(j)
		tbl.Fields = append(tbl.Fields, name)
		tbl.Formats[name] = "%f"
	}
	for _, sub := range header[2:4] {
		fields := strings.Fields(strings.ToUpper(sub))
		if len(fields) == 2 && fields[0] == "SUBCASE" {
			if slot, err := strconv.Atoi(fields[1]); err == nil {
				tbl.Slot = &slot
			}
		}
	}

	line := 4
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != ncols+1 {
			return Table{}, errors.Newf("line %d: expected %d values, got %d", line, ncols+1, len(fields))
		}
		nid, err := strconv.Atoi(fields[0])
		if err != nil {
			return Table{}, errors.Wrapf(err, "line %d: node id", line)
		}
		row, ok := nodeRows[nid]
		if !ok || row < 0 || row >= len(nodeRows) {
			continue
		}
		for j := 0; j < ncols; j++ {
			v, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return Table{}, errors.Wrapf(err, "line %d column %d", line, j+1)
			}
			cols[j][row][0] = v
		}
	}
	if err := sc.Err(); err != nil {
		return Table{}, errors.Wrap(err, "read values")
	}
	for j, name := range tbl.Fields {
		tbl.Values[name] = cols[j]
	}
	return tbl, nil
}
