package state

// MoveCursorHome moves the cursor to the first item.
func (l *Level) MoveCursorHome() bool {
	return l.placeCursor(0)
}

// MoveCursorEnd moves the cursor to the last item.
func (l *Level) MoveCursorEnd() bool {
	return l.placeCursor(len(l.Items) - 1)
}

// MoveCursorPageUp moves the cursor up one page of maxVisible rows.
func (l *Level) MoveCursorPageUp(maxVisible int) bool {
	return l.placeCursor(max(l.Cursor, 0) - l.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down one page of maxVisible rows.
func (l *Level) MoveCursorPageDown(maxVisible int) bool {
	return l.placeCursor(max(l.Cursor, 0) + l.pageSize(maxVisible))
}

// placeCursor clamps target into the item range and reports whether the
// cursor moved. An empty level parks the cursor at 0.
func (l *Level) placeCursor(target int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(target, 0, len(l.Items)-1)
	return l.Cursor != old
}

// pageSize is maxVisible bounded to [1, len(Items)]; zero or negative means
// the whole list.
func (l *Level) pageSize(maxVisible int) int {
	total := len(l.Items)
	if maxVisible <= 0 || maxVisible > total {
		return total
	}
	return maxVisible
}

// EnsureCursorVisible adjusts the viewport offset so the cursor row is one
// of the maxVisible rows shown.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, n-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := max(n-maxVisible, 0)
	offset := clamp(l.ViewportOffset, 0, maxOffset)
	if l.Cursor < offset {
		offset = l.Cursor
	}
	if l.Cursor >= offset+maxVisible {
		offset = clamp(l.Cursor-maxVisible+1, 0, maxOffset)
	}
	l.ViewportOffset = offset
}
