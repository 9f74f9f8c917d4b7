package render

// TextOverlay is the set of lower-left annotation lines (min, max, subcase,
// label) shown over the scene.
type TextOverlay struct {
	order   []string
	lines   map[string]string
	visible bool
}

// NewTextOverlay returns an empty, hidden overlay.
func NewTextOverlay() *TextOverlay {
	return &TextOverlay{lines: make(map[string]string)}
}

// Set writes a named line, keeping first-insertion order.
func (t *TextOverlay) Set(key, text string) {
	if _, ok := t.lines[key]; !ok {
		t.order = append(t.order, key)
	}
	t.lines[key] = text
}

// Lines returns the overlay text in display order.
func (t *TextOverlay) Lines() []string {
	out := make([]string, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.lines[key])
	}
	return out
}

// On makes the overlay visible.
func (t *TextOverlay) On() {
	t.visible = true
}

// Off hides the overlay.
func (t *TextOverlay) Off() {
	t.visible = false
}

// Visible reports whether the overlay is shown.
func (t *TextOverlay) Visible() bool {
	return t.visible
}
