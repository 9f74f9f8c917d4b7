package state

import (
	"strings"

	"github.com/atomicstack/gridcase/internal/menu"
)

// Level is one entry of the browser stack: the items shown, the filter
// typed against them, the cursor, and the viewport.
type Level struct {
	ID             string
	Title          string
	Items          []menu.Item
	Full           []menu.Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	Node           *menu.Node
	ViewportOffset int
}

// NewLevel constructs a Level using the provided items and menu node.
func NewLevel(id, title string, items []menu.Item, node *menu.Node) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		Cursor:     -1,
		LastCursor: -1,
		Node:       node,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the index of the item with the given id. A nested level
// id such as "results:0:2" also matches the item "0:2" or "2".
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	for i, item := range l.Items {
		if strings.HasSuffix(id, ":"+item.ID) {
			return i
		}
	}
	return -1
}

// Current returns the item under the cursor.
func (l *Level) Current() (menu.Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the level items, keeping the cursor on the same item
// id when it is still present.
func (l *Level) UpdateItems(items []menu.Item) {
	prevOffset := l.ViewportOffset
	prevID := ""
	if cur, ok := l.Current(); ok {
		prevID = cur.ID
	}
	l.Full = CloneItems(items)
	l.applyFilter()
	if prevID != "" {
		if idx := l.IndexOf(prevID); idx >= 0 {
			l.Cursor = idx
		}
	}
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 || prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
}
