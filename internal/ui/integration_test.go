package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/atomicstack/gridcase/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

func TestResultPaginationRespectsViewport(t *testing.T) {
	s := testSession(t)
	header := make([]string, 10)
	row := make([]string, 10)
	for i := range header {
		header[i] = fmt.Sprintf("field-%02d", i+1)
		row[i] = "1"
	}
	content := "# " + strings.Join(header, ", ") + "\n" + strings.Repeat(strings.Join(row, ", ")+"\n", 4)
	model := NewModel(Options{Session: s, Width: 40, Height: 8})
	addTable(t, s, "wide.csv", content)
	harness := NewHarness(model)
	harness.Send(tea.WindowSizeMsg{Width: 40, Height: 8})

	openResults(t, harness)
	harness.Send(tea.KeyMsg{Type: tea.KeyEnter})
	level := harness.Model().currentLevel()
	if level.ID != "results:0" || len(level.Items) != 10 {
		t.Fatalf("unexpected level %s with %d items", level.ID, len(level.Items))
	}
	harness.Send(tea.KeyMsg{Type: tea.KeyHome})

	view := harness.View()
	if strings.Contains(view, "field-07") {
		t.Fatalf("expected field-07 to be outside initial viewport, view =\n%s", view)
	}

	for i := 0; i < 7; i++ {
		harness.Send(tea.KeyMsg{Type: tea.KeyDown})
	}
	view = harness.View()
	if !strings.Contains(view, "field-08") {
		t.Fatalf("expected field-08 to be visible after scrolling, view =\n%s", view)
	}
}

func TestWatcherTableEventRefreshesResults(t *testing.T) {
	m, s := browsingModel(t, Options{})
	h := NewHarness(m)
	openResults(t, h)

	tbl := parseTable(t, "more.csv", "# extra\n1\n2\n3\n4\n")
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTable, Path: "/drop/more.csv", Data: tbl}})

	if s.Catalog.Len() != 3 {
		t.Fatalf("expected three cases, got %d", s.Catalog.Len())
	}
	level := h.Model().currentLevel()
	if len(level.Items) != 2 || level.Items[1].Label != "more.csv (1)" {
		t.Fatalf("expected the results level to list the new group, got %#v", level.Items)
	}
	if h.Model().infoMsg != "Loaded 1 case from more.csv" {
		t.Fatalf("unexpected info %q", h.Model().infoMsg)
	}
}

func TestWatcherShapeMismatchLeavesResults(t *testing.T) {
	m, s := browsingModel(t, Options{})
	tbl := parseTable(t, "short.csv", "# a\n1\n2\n")
	m.applyBackendEvent(backend.Event{Kind: backend.KindTable, Path: "/drop/short.csv", Data: tbl})
	if s.Catalog.Len() != 2 {
		t.Fatalf("expected the catalog untouched, got %d cases", s.Catalog.Len())
	}
	if !strings.Contains(m.backendLastErr, "short.csv") {
		t.Fatalf("expected watcher error recorded, got %q", m.backendLastErr)
	}

	m.applyBackendEvent(backend.Event{Kind: backend.KindTable, Path: "/drop/ok.csv", Data: parseTable(t, "ok.csv", "# b\n1\n2\n3\n4\n")})
	if m.backendLastErr != "" {
		t.Fatalf("expected watcher error cleared by a good load, got %q", m.backendLastErr)
	}
}

func TestWatcherGeometryReplacementClosesResultLevels(t *testing.T) {
	m, s := browsingModel(t, Options{})
	h := NewHarness(m)
	openResults(t, h)
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.Model().currentLevel().ID != "results:0" {
		t.Fatalf("expected nested results level")
	}

	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindGeometry, Path: "/drop/strip.yaml", Data: lineModel("strip", 6)}})

	if s.Catalog.Len() != 0 {
		t.Fatalf("expected catalog cleared by the new geometry, got %d", s.Catalog.Len())
	}
	if got := h.Model().currentLevel(); got.ID != "results" || len(got.Items) != 0 {
		t.Fatalf("expected an empty results level on top, got %s %#v", got.ID, got.Items)
	}
	if h.Model().infoMsg != "Loaded model strip from strip.yaml" {
		t.Fatalf("unexpected info %q", h.Model().infoMsg)
	}
}

func TestBackendDoneStopsWaiting(t *testing.T) {
	m := NewModel(Options{})
	if cmd := m.handleBackendDoneMsg(backendDoneMsg{}); cmd != nil {
		t.Fatalf("expected no follow-up command")
	}
	if m.backend != nil {
		t.Fatalf("expected watcher dropped")
	}
}
