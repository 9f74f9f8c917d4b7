// Package table lays out label and value columns for menu items and the
// detail panel.
package table

import (
	"strings"

	"github.com/muesli/reflow/ansi"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const columnGap = "  "

// Format pads every column to its widest cell. Rows may be ragged; missing
// cells count as empty. Widths ignore ANSI styling so pre-styled cells line
// up, and trailing padding on left-aligned last cells is dropped.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := columnWidths(rows)
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c := range widths {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if c > 0 {
				b.WriteString(columnGap)
			}
			pad := widths[c] - ansi.PrintableRuneWidth(cell)
			if alignmentOf(alignments, c) == AlignRight {
				b.WriteString(strings.Repeat(" ", max(pad, 0)))
				b.WriteString(cell)
				continue
			}
			b.WriteString(cell)
			if c < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", max(pad, 0)))
			}
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			if w := ansi.PrintableRuneWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	return widths
}

func alignmentOf(alignments []Alignment, c int) Alignment {
	if c < len(alignments) {
		return alignments[c]
	}
	return AlignLeft
}
