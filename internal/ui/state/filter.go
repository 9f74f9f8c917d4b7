package state

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SetFilter replaces the filter query and places its cursor. Typing into an
// empty filter remembers the item cursor; clearing the filter puts it back.
func (l *Level) SetFilter(query string, cursor int) {
	wasFiltered := strings.TrimSpace(l.Filter) != ""
	filtered := strings.TrimSpace(query) != ""
	l.Filter = query
	l.FilterCursor = clamp(cursor, 0, utf8.RuneCountInString(query))
	if filtered {
		if !wasFiltered {
			l.LastCursor = l.Cursor
		}
		l.Cursor = 0
	}
	restore := l.LastCursor
	l.applyFilter()
	switch {
	case filtered:
		if idx := BestMatchIndex(l.Items, query); idx >= 0 {
			l.Cursor = idx
		}
	case wasFiltered:
		if restore >= 0 && restore < len(l.Items) {
			l.Cursor = restore
		} else if len(l.Items) > 0 {
			l.Cursor = len(l.Items) - 1
		}
		l.LastCursor = -1
	}
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 || l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.ViewportOffset >= n {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos returns the rune offset of the filter cursor.
func (l *Level) FilterCursorPos() int {
	return clamp(l.FilterCursor, 0, utf8.RuneCountInString(l.Filter))
}

// editFilter rewrites the query around the cursor and refilters. fn reports
// false when there is nothing to change.
func (l *Level) editFilter(fn func(q []rune, pos int) ([]rune, int, bool)) bool {
	q, pos, ok := fn([]rune(l.Filter), l.FilterCursorPos())
	if !ok {
		return false
	}
	l.SetFilter(string(q), pos)
	return true
}

func (l *Level) moveFilterCursor(fn func(q []rune, pos int) int) bool {
	pos := l.FilterCursorPos()
	next := fn([]rune(l.Filter), pos)
	if next == pos {
		return false
	}
	l.FilterCursor = next
	return true
}

// InsertFilterText inserts text into the filter at the cursor position.
func (l *Level) InsertFilterText(text string) bool {
	insert := []rune(text)
	return l.editFilter(func(q []rune, pos int) ([]rune, int, bool) {
		if len(insert) == 0 {
			return q, pos, false
		}
		out := make([]rune, 0, len(q)+len(insert))
		out = append(out, q[:pos]...)
		out = append(out, insert...)
		out = append(out, q[pos:]...)
		return out, pos + len(insert), true
	})
}

// DeleteFilterRuneBackward deletes the rune before the filter cursor.
func (l *Level) DeleteFilterRuneBackward() bool {
	return l.editFilter(func(q []rune, pos int) ([]rune, int, bool) {
		if pos == 0 {
			return q, pos, false
		}
		return append(q[:pos-1], q[pos:]...), pos - 1, true
	})
}

// DeleteFilterWordBackward deletes the word before the filter cursor along
// with the spaces that follow it.
func (l *Level) DeleteFilterWordBackward() bool {
	return l.editFilter(func(q []rune, pos int) ([]rune, int, bool) {
		if pos == 0 {
			return q, pos, false
		}
		start := wordStart(q, pos)
		return append(q[:start], q[pos:]...), start, true
	})
}

func (l *Level) MoveFilterCursorStart() bool {
	return l.moveFilterCursor(func([]rune, int) int { return 0 })
}

func (l *Level) MoveFilterCursorEnd() bool {
	return l.moveFilterCursor(func(q []rune, _ int) int { return len(q) })
}

func (l *Level) MoveFilterCursorWordBackward() bool {
	return l.moveFilterCursor(wordStart)
}

func (l *Level) MoveFilterCursorWordForward() bool {
	return l.moveFilterCursor(wordEnd)
}

func (l *Level) MoveFilterCursorRuneBackward() bool {
	return l.moveFilterCursor(func(_ []rune, pos int) int { return max(pos-1, 0) })
}

func (l *Level) MoveFilterCursorRuneForward() bool {
	return l.moveFilterCursor(func(q []rune, pos int) int { return min(pos+1, len(q)) })
}

// wordStart skips spaces then a word, moving left from pos.
func wordStart(q []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(q[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(q[i-1]) {
		i--
	}
	return i
}

// wordEnd skips a word then spaces, moving right from pos.
func wordEnd(q []rune, pos int) int {
	i := pos
	for i < len(q) && !unicode.IsSpace(q[i]) {
		i++
	}
	for i < len(q) && unicode.IsSpace(q[i]) {
		i++
	}
	return i
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
