package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/gridcase/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	detailMaxDisplayLines = 20  // inline (vertical) detail block only
	detailPanelMinWidth   = 36  // below this the terminal is not split
	detailPanelFraction   = 0.5 // share of the width given to the detail panel
)

const (
	bottomBarRows    = 2 // status line + filter prompt
	detailScrollStep = 3
)

const footerText = "↑/↓ move  enter select  tab next model  #n case  esc back  ctrl+c quit"

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

// hasSideDetail reports whether the current level is rendered with the detail
// panel on the right rather than inline below the items.
func (m *Model) hasSideDetail() bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	if detailKindForLevel(current.ID) == detailKindNone {
		return false
	}
	return m.detailPanelWidth() > 0
}

// detailPanelWidth returns the width of the right-hand panel, or 0 when the
// terminal is too narrow to split.
func (m *Model) detailPanelWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * detailPanelFraction)
	if w < detailPanelMinWidth {
		return 0
	}
	return w
}

func (m *Model) menuColumnWidth() int {
	return m.width - m.detailPanelWidth()
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.menuHeader()
	if m.mode == ModeScriptForm && m.scriptForm != nil {
		return m.viewScriptFormWithHeader(header)
	}
	header = m.headerWithModel(header)
	if m.hasSideDetail() {
		return m.viewSideBySide(header)
	}
	return m.viewVertical(header)
}

// viewVertical is the single-column layout with an optional inline detail
// block below the items (narrow terminals, or levels without details).
func (m *Model) viewVertical(header string) string {
	lines := make([]styledLine, 0, 16)
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	lines = append(lines, m.visibleItemLines(m.width)...)
	lines = append(lines, inlineDetailLines(m.activeDetail())...)
	lines = append(lines, m.trailerLines()...)
	lines = limitHeight(lines, m.height-bottomBarRows, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(append(lines, m.bottomBar()...))
}

// viewSideBySide renders the menu on the left and the detail panel on the
// right, above a full-width bottom bar.
func (m *Model) viewSideBySide(header string) string {
	menuW := m.menuColumnWidth()
	panelH := max(m.height-bottomBarRows, 1)

	left := make([]styledLine, 0, panelH)
	if header != "" {
		left = append(left, styledLine{text: header, style: styles.Header})
	}
	left = append(left, m.visibleItemLines(menuW)...)
	left = append(left, m.trailerLines()...)
	if len(left) > panelH {
		left = left[:panelH]
	}
	for len(left) < panelH {
		left = append(left, styledLine{})
	}

	// Every left row is forced to menuW visible columns so the panel stays
	// flush right whatever the caret blink state.
	leftStr := fitRows(renderLines(applyWidth(left, menuW)), menuW)
	rightStr := m.renderDetailPanel(m.activeDetail(), m.detailPanelWidth(), panelH)
	top := lipgloss.JoinHorizontal(lipgloss.Top, leftStr, rightStr)
	return top + "\n" + renderLines(m.bottomBar())
}

// visibleItemLines renders the slice of the current level inside the
// viewport, or a placeholder when nothing is listed.
func (m *Model) visibleItemLines(width int) []styledLine {
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	if len(current.Items) == 0 {
		msg := "(no entries)"
		if current.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", current.Filter)
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	m.syncViewport(current)
	start, end := 0, len(current.Items)
	if maxItems := m.maxVisibleItems(); maxItems > 0 && end > maxItems {
		start = max(0, min(current.ViewportOffset, end-maxItems))
		current.ViewportOffset = start
		end = start + maxItems
	}
	lines := make([]styledLine, 0, end-start)
	for idx := start; idx < end; idx++ {
		lines = append(lines, m.buildItemLine(current.Items[idx], idx, current, width))
	}
	return lines
}

// trailerLines holds the info message and footer, each after a blank row.
func (m *Model) trailerLines() []styledLine {
	var lines []styledLine
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{}, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{}, styledLine{text: footerText, style: styles.Footer})
	}
	return lines
}

// bottomBar is the status line and filter prompt spanning the full width.
func (m *Model) bottomBar() []styledLine {
	return applyWidth([]styledLine{m.statusLine(), {text: m.filterPrompt()}}, m.width)
}

// inlineDetailLines renders the detail block shown below the items when the
// terminal is too narrow for the side panel.
func inlineDetailLines(detail *detailData) []styledLine {
	if !shouldRenderDetail(detail) {
		return nil
	}
	lines := []styledLine{{}, {text: detailTitleText(detail), style: firstStyle(styles.DetailTitle, styles.Info)}}
	if detail.err != "" {
		return append(lines, styledLine{text: detail.err, style: firstStyle(styles.DetailError, styles.Error)})
	}
	body := firstStyle(styles.DetailBody, styles.Info)
	for _, line := range detailDisplayLines(detail) {
		lines = append(lines, styledLine{text: line, style: body})
	}
	return lines
}

func firstStyle(candidates ...*lipgloss.Style) *lipgloss.Style {
	for _, s := range candidates {
		if s != nil {
			return s
		}
	}
	return nil
}

// fitRows pads or truncates every row of s to exactly width visible
// columns, measuring and cutting around ANSI sequences.
func fitRows(s string, width int) string {
	rows := strings.Split(s, "\n")
	for i, row := range rows {
		if lipgloss.Width(row) > width {
			row = truncate.StringWithTail(row, uint(width), "…")
		}
		if w := lipgloss.Width(row); w < width {
			row += strings.Repeat(" ", width-w)
		}
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

// buildItemLine constructs a single styledLine for a menu item.
// width is the target column width; when > 0 the text is padded so that
// the selected item's background spans the full container.
func (m *Model) buildItemLine(item menu.Item, idx int, current *level, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	marker := ""
	if _, ok := menu.ResultsPath(current.ID); ok {
		marker = "  "
		switch {
		case item.Group:
			marker = "+ "
		case item.CaseID == m.session.ActiveCase():
			marker = "* "
			if styles.ActiveCase != nil {
				lineStyle = styles.ActiveCase
			}
		}
	}
	if idx == current.Cursor {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + marker + item.Label
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

const (
	boxTopLeft     = "╭"
	boxTopRight    = "╮"
	boxBottomLeft  = "╰"
	boxBottomRight = "╯"
	boxHorizontal  = "─"
	boxVertical    = "│"
)

// clampScroll keeps the detail scroll offset inside the lines that do not
// fit in rows visible rows.
func clampScroll(detail *detailData, rows int) {
	detail.scrollOffset = max(0, min(detail.scrollOffset, len(detail.lines)-rows))
}

// detailWindow returns the visible slice of the detail and, when it
// scrolls, a "shown/total" marker for the border.
func detailWindow(detail *detailData, rows int) ([]string, string) {
	if detail == nil {
		return []string{"(nothing selected)"}, ""
	}
	if detail.err != "" {
		return []string{detail.err}, ""
	}
	clampScroll(detail, rows)
	end := min(detail.scrollOffset+rows, len(detail.lines))
	shown := detail.lines[detail.scrollOffset:end]
	if len(detail.lines) <= rows {
		return shown, ""
	}
	return shown, fmt.Sprintf(" %d/%d ", detail.scrollOffset+len(shown), len(detail.lines))
}

// renderDetailPanel builds the bordered detail box as a string with exactly
// height rows and totalWidth columns.
func (m *Model) renderDetailPanel(detail *detailData, totalWidth, height int) string {
	innerW := max(totalWidth-2, 1)
	innerH := max(height-2, 1)
	content, scrollSeg := detailWindow(detail, innerH)

	titleSeg := " Details "
	if detail != nil {
		if lbl := strings.TrimSpace(detail.label); lbl != "" {
			titleSeg = " Details: " + lbl + " "
		}
	}
	// ╭─ title ──────────── scroll ─╮ drops the scroll marker, then
	// shortens the title, when the border is too short for both.
	dashes := totalWidth - 4 - lipgloss.Width(titleSeg) - lipgloss.Width(scrollSeg)
	if dashes < 0 {
		scrollSeg = ""
		dashes = totalWidth - 4 - lipgloss.Width(titleSeg)
	}
	if dashes < 0 {
		if room := totalWidth - 5; room > 1 {
			titleSeg = truncate.StringWithTail(titleSeg, uint(room), "… ")
		} else {
			titleSeg = " … "
		}
		dashes = max(totalWidth-4-lipgloss.Width(titleSeg), 0)
	}
	border := styles.DetailBorder
	bodyStyle := styles.DetailBody
	if detail != nil && detail.err != "" {
		bodyStyle = styles.DetailError
	}

	rows := make([]string, 0, height)
	rows = append(rows, border.Render(boxTopLeft+boxHorizontal)+
		styles.DetailTitle.Render(titleSeg)+
		border.Render(strings.Repeat(boxHorizontal, dashes))+
		styles.DetailScroll.Render(scrollSeg)+
		border.Render(boxHorizontal+boxTopRight))
	for i := 0; i < innerH; i++ {
		line := ""
		if i < len(content) {
			line = content[i]
		}
		line = fitRows(line, innerW)
		if bodyStyle != nil {
			line = bodyStyle.Render(line)
		}
		rows = append(rows, border.Render(boxVertical)+line+border.Render(boxVertical))
	}
	rows = append(rows, border.Render(boxBottomLeft+strings.Repeat(boxHorizontal, innerW)+boxBottomRight))
	return strings.Join(rows, "\n")
}

// handleMouseMsg scrolls the detail panel with the mouse wheel.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok || !m.hasSideDetail() {
		return nil
	}
	detail := m.activeDetail()
	if detail == nil {
		return nil
	}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		detail.scrollOffset -= detailScrollStep
	case tea.MouseButtonWheelDown:
		detail.scrollOffset += detailScrollStep
	default:
		return nil
	}
	// the panel's inner height: bottom bar plus the two border rows
	clampScroll(detail, max(m.height-bottomBarRows-2, 1))
	return nil
}

// statusLine shows, in order of priority, the last error, a pending load,
// or a watcher failure.
func (m *Model) statusLine() styledLine {
	if m.errMsg != "" {
		return styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	if m.loading && m.pendingLabel != "" {
		return styledLine{text: fmt.Sprintf("Loading %s…", m.pendingLabel), style: styles.Loading}
	}
	if warn, msg := m.backendIssue(); warn {
		return styledLine{text: fmt.Sprintf("Watcher: %s", msg), style: styles.Warning}
	}
	return styledLine{}
}

// headerWithModel appends the active model to the breadcrumb once a model
// has been loaded.
func (m *Model) headerWithModel(header string) string {
	if header == "" || !m.session.Registry.HasGrid(m.session.Registry.Active()) {
		return header
	}
	return fmt.Sprintf("%s  [%s]", header, m.session.Registry.Active())
}

func (m *Model) menuHeader() string {
	segments := m.headerSegments()
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(segments, menuHeaderSeparator)
}

func (m *Model) headerSegments() []string {
	depth := len(m.stack)
	if depth == 0 {
		return nil
	}
	root := strings.TrimSpace(m.rootTitle)
	if root == "" {
		root = defaultRootTitle
	}
	if depth == 1 {
		return []string{root}
	}
	segments := make([]string, 0, depth)
	if m.rootMenuID != "" {
		segments = append(segments, root)
	}
	for i := 1; i < depth; i++ {
		segment := headerSegmentForLevel(m.stack[i])
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	if len(segments) == 0 {
		return []string{root}
	}
	return segments
}

func headerSegmentForLevel(l *level) string {
	if l == nil {
		return ""
	}
	candidate := strings.TrimSpace(l.ID)
	if path, ok := menu.ResultsPath(candidate); ok && path != "" {
		// Nested result levels are named after their group, not its index.
		candidate = strings.TrimSpace(l.Title)
		if idx := strings.LastIndex(candidate, " ("); idx > 0 {
			candidate = candidate[:idx]
		}
		return candidate
	}
	if candidate == "" {
		candidate = strings.TrimSpace(l.Title)
	}
	if candidate == "" {
		return ""
	}
	if idx := strings.LastIndex(candidate, ":"); idx >= 0 {
		candidate = candidate[idx+1:]
	}
	candidate = headerSegmentCleaner.Replace(candidate)
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	fields := strings.Fields(strings.ToLower(candidate))
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

func shouldRenderDetail(data *detailData) bool {
	if data == nil {
		return false
	}
	return data.err != "" || len(data.lines) > 0
}

func detailTitleText(data *detailData) string {
	label := strings.TrimSpace(data.label)
	if label == "" {
		label = strings.TrimSpace(data.target)
	}
	if label == "" {
		label = "(unknown)"
	}
	return fmt.Sprintf("Details: %s", label)
}

func detailDisplayLines(data *detailData) []string {
	lines := data.lines
	if detailMaxDisplayLines > 0 && len(lines) > detailMaxDisplayLines {
		return lines[:detailMaxDisplayLines]
	}
	return lines
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := bottomBarRows
	if header := m.menuHeader(); header != "" {
		used++
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	// Side-by-side mode leaves the full height to the left column.
	if !m.hasSideDetail() {
		if detail := m.activeDetail(); shouldRenderDetail(detail) {
			used += 2 // blank separator + title line
			if detail.err != "" {
				used++
			} else {
				used += len(detailDisplayLines(detail))
			}
		}
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		result[i] = styledLine{
			text:          truncateText(line.text, width),
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
