package ui

import (
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/gridcase/internal/backend"
	"github.com/atomicstack/gridcase/internal/catalog"
	"github.com/atomicstack/gridcase/internal/data/dispatcher"
	"github.com/atomicstack/gridcase/internal/menu"
	"github.com/atomicstack/gridcase/internal/session"
	"github.com/atomicstack/gridcase/internal/theme"
	"github.com/atomicstack/gridcase/internal/ui/command"
	uistate "github.com/atomicstack/gridcase/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type Mode int

const (
	ModeMenu Mode = iota
	ModeScriptForm
)

const (
	menuHeaderSeparator = "→"
	defaultRootTitle    = "main menu"
)

var styles = theme.Default()

var headerSegmentCleaner = strings.NewReplacer("_", " ", "-", " ")

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []menu.Item, node *menu.Node) *level {
	return uistate.NewLevel(id, title, items, node)
}

// Options configures a Model.
type Options struct {
	Session *session.Session
	Watcher *backend.Watcher
	// Results controls how watched result tables are interpreted.
	Results    session.ResultOptions
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	RootMenu   string
}

// Model implements the Bubble Tea model for the result browser. It is also
// the session's catalog.Browser: every form push lands in UpdateResults.
type Model struct {
	stack             []*level
	loading           bool
	pendingID         string
	pendingLabel      string
	errMsg            string
	infoMsg           string
	infoExpire        time.Time
	width             int
	height            int
	fixedWidth        bool
	fixedHeight       bool
	backend           *backend.Watcher
	backendLastErr    string
	showFooter        bool
	verbose           bool
	scriptForm        *menu.ScriptForm
	filterCursor      cursor.Model
	filterCursorDirty bool
	detail            map[string]*detailData

	handlers map[reflect.Type]msgHandler

	registry   *menu.Registry
	bus        *command.Bus
	mode       Mode
	rootMenuID string
	rootTitle  string
	session    *session.Session
	dispatcher *dispatcher.Dispatcher

	form      []catalog.FormNode
	formModel string
	methods   []catalog.FormNode
}

// NewModel initialises the UI state with the root menu and registers the
// model as the session's browser.
func NewModel(opts Options) *Model {
	sess := opts.Session
	if sess == nil {
		sess = session.New()
	}
	registry := menu.BuildRegistry()
	root := newLevel("root", "Main Menu", menu.RootItems(), registry.Root())
	m := &Model{
		stack:      []*level{root},
		registry:   registry,
		bus:        command.New(),
		backend:    opts.Watcher,
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		mode:       ModeMenu,
		rootTitle:  defaultRootTitle,
		session:    sess,
		dispatcher: dispatcher.New(sess, opts.Results),
		detail:     make(map[string]*detailData),
	}
	sess.SetBrowser(m)
	m.form = sess.Catalog.Form()
	m.formModel = sess.Registry.Active()
	m.syncViewport(root)
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.applyRootMenuOverride(opts.RootMenu)
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handled, cmd := m.handleActiveForm(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	return m, m.finishUpdate(cmds)
}

func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	switch m.mode {
	case ModeScriptForm:
		return m.handleScriptForm(msg)
	default:
		return false, nil
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(categoryLoadedMsg{}): m.handleCategoryLoadedMsg,
		reflect.TypeOf(menu.ActionResult{}): m.handleActionResultMsg,
		reflect.TypeOf(menu.ScriptPrompt{}): m.handleScriptPromptMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
