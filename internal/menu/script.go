package menu

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/script"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ScriptPrompt requests interactive input of a script path.
type ScriptPrompt struct {
	Context Context
	Initial string
}

// ScriptAction asks the UI to open the script prompt.
func ScriptAction(ctx Context, item Item) tea.Cmd {
	initial := ""
	if ctx.Session != nil {
		if file := ctx.Session.GeometryFile(ctx.Session.Registry.Active()); file != "" {
			initial = filepath.Dir(file) + string(filepath.Separator)
		}
	}
	events.Script.Prompt(initial)
	return func() tea.Msg {
		return ScriptPrompt{Context: ctx, Initial: initial}
	}
}

// RunScript executes the script at path against the session immediately and
// returns the outcome message.
func RunScript(ctx Context, path string) tea.Cmd {
	if ctx.Session == nil {
		return failed(errors.New("no session"))
	}
	if err := script.New(ctx.Session).RunFile(path); err != nil {
		return failed(err)
	}
	return done(fmt.Sprintf("Ran %s", filepath.Base(path)))
}

// ScriptForm is the text prompt for a script path.
type ScriptForm struct {
	input textinput.Model
	ctx   Context
	err   string
	stat  func(string) (os.FileInfo, error)
}

func NewScriptForm(prompt ScriptPrompt) *ScriptForm {
	ti := textinput.New()
	ti.Placeholder = "path/to/session.gc"
	ti.CharLimit = 1024
	ti.Focus()
	if prompt.Initial != "" {
		ti.SetValue(prompt.Initial)
		ti.CursorEnd()
	}
	return &ScriptForm{input: ti, ctx: prompt.Context, stat: os.Stat}
}

func (f *ScriptForm) Context() Context  { return f.ctx }
func (f *ScriptForm) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *ScriptForm) InputView() string { return f.input.View() }
func (f *ScriptForm) Error() string     { return f.err }
func (f *ScriptForm) Title() string     { return "Run Script" }
func (f *ScriptForm) Help() string      { return "Press Enter to run. Esc to cancel." }

// Update feeds a message to the form. It returns the command to run and
// whether the form finished or was cancelled.
func (f *ScriptForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+u":
			if f.input.Value() != "" {
				f.input.SetValue("")
				f.input.CursorStart()
				f.err = ""
			}
			return nil, false, false
		}
		switch key.Type {
		case tea.KeyEsc:
			events.Script.Cancel("escape")
			return nil, false, true
		case tea.KeyEnter:
			path := f.Value()
			if err := f.validate(path); err != "" {
				f.err = err
				return nil, false, false
			}
			f.err = ""
			return RunScript(f.ctx, path), true, false
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd, false, false
}

func (f *ScriptForm) validate(path string) string {
	if path == "" {
		return "Script path required"
	}
	info, err := f.stat(path)
	if err != nil {
		return fmt.Sprintf("Cannot read %s", path)
	}
	if info.IsDir() {
		return fmt.Sprintf("%s is a directory", path)
	}
	return ""
}
