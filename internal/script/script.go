// Package script runs line-oriented session command scripts. Each line is a
// command name followed by shell-quoted arguments; blank lines and lines
// starting with # are ignored. A failing command stops the script, is
// logged with its stack, and is reported as an *ExecutionError; the session
// stays usable.
package script

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/logging"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/results"
	"github.com/atomicstack/gridcase/internal/session"
	"github.com/mattn/go-shellwords"
)

// ExecutionError reports the script line that failed.
type ExecutionError struct {
	Source  string
	Line    int
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.Source, e.Line, e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

type handler func(r *Runner, args []string) error

var commands = map[string]handler{
	"active":        cmdActive,
	"load-geometry": cmdLoadGeometry,
	"load-results":  cmdLoadResults,
	"load-nod":      cmdLoadNod,
	"show":          cmdShow,
	"label":         cmdLabel,
	"remove":        cmdRemove,
	"clear":         cmdClear,
}

// Commands lists the command names a script may use.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Runner executes scripts against one session.
type Runner struct {
	session *session.Session
	// dir resolves relative paths inside a script.
	dir string
}

func New(s *session.Session) *Runner {
	return &Runner{session: s}
}

// RunFile runs the script at path. Relative paths inside the script are
// resolved against the script's directory.
func (r *Runner) RunFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		err = errors.Wrapf(err, "open script %s", path)
		logging.Error(err)
		return &ExecutionError{Source: path, Err: err}
	}
	defer f.Close()
	prev := r.dir
	r.dir = filepath.Dir(path)
	defer func() { r.dir = prev }()
	return r.Run(path, f)
}

// Run executes every command read from rd. source names the script in
// errors and traces.
func (r *Runner) Run(source string, rd io.Reader) error {
	events.Script.Run(source)
	sc := bufio.NewScanner(rd)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := r.exec(source, line, text); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		err = errors.Wrapf(err, "read script %s", source)
		logging.Error(err)
		return &ExecutionError{Source: source, Line: line, Err: err}
	}
	return nil
}

// Exec runs a single command line.
func (r *Runner) Exec(text string) error {
	return r.exec("<command>", 1, text)
}

func (r *Runner) exec(source string, line int, text string) (err error) {
	name := text
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("panic: %v", rec)
		}
		if err != nil {
			logging.Error(err)
			events.Script.Failed(source, line, err)
			err = &ExecutionError{Source: source, Line: line, Command: name, Err: err}
		}
	}()
	args, perr := shellwords.Parse(text)
	if perr != nil {
		return errors.Wrap(perr, "parse command")
	}
	if len(args) == 0 {
		return nil
	}
	name = args[0]
	events.Script.Command(source, line, name)
	h, ok := commands[name]
	if !ok {
		return errors.WithHintf(errors.Newf("unknown command %q", name),
			"commands: %s", strings.Join(Commands(), ", "))
	}
	return h(r, args[1:])
}

func (r *Runner) path(p string) string {
	if p == "" || filepath.IsAbs(p) || r.dir == "" {
		return p
	}
	return filepath.Join(r.dir, p)
}

func wantArgs(args []string, min, max int, usage string) error {
	if len(args) < min || len(args) > max {
		return errors.Newf("usage: %s", usage)
	}
	return nil
}

func atoi(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Newf("%s must be an integer, got %q", name, v)
	}
	return n, nil
}

func cmdActive(r *Runner, args []string) error {
	if err := wantArgs(args, 1, 1, "active NAME"); err != nil {
		return err
	}
	r.session.SetActive(args[0])
	return nil
}

func cmdLoadGeometry(r *Runner, args []string) error {
	if err := wantArgs(args, 1, 2, "load-geometry PATH [NAME]"); err != nil {
		return err
	}
	name := ""
	if len(args) == 2 {
		name = args[1]
	}
	return r.session.LoadGeometryFile(name, r.path(args[0]))
}

func cmdLoadResults(r *Runner, args []string) error {
	fs := flag.NewFlagSet("load-results", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	location := fs.String("location", "node", "node or centroid")
	deflection := fs.Bool("deflection", false, "read a three-column file as one displacement field")
	force := fs.Bool("force", false, "read a three-column file as one force field")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "load-results")
	}
	if err := wantArgs(fs.Args(), 1, 1, "load-results [-location L] [-deflection|-force] PATH"); err != nil {
		return err
	}
	loc, err := results.ParseLocation(*location)
	if err != nil {
		return err
	}
	_, err = r.session.LoadResults(r.path(fs.Arg(0)), session.ResultOptions{
		Location:   loc,
		Deflection: *deflection,
		Force:      *force,
	})
	return err
}

func cmdLoadNod(r *Runner, args []string) error {
	if err := wantArgs(args, 1, 1, "load-nod PATH"); err != nil {
		return err
	}
	path := r.path(args[0])
	if !strings.EqualFold(filepath.Ext(path), ".nod") {
		return errors.Newf("load-nod: %s is not a .nod file", path)
	}
	_, err := r.session.LoadResults(path, session.ResultOptions{Location: results.Node})
	return err
}

func cmdShow(r *Runner, args []string) error {
	if err := wantArgs(args, 1, 1, "show CASE"); err != nil {
		return err
	}
	id, err := atoi("case", args[0])
	if err != nil {
		return err
	}
	return r.session.ShowCase(id)
}

func cmdLabel(r *Runner, args []string) error {
	if err := wantArgs(args, 2, 2, "label CASE ROW"); err != nil {
		return err
	}
	id, err := atoi("case", args[0])
	if err != nil {
		return err
	}
	row, err := atoi("row", args[1])
	if err != nil {
		return err
	}
	return r.session.AddLabel(id, row)
}

func cmdRemove(r *Runner, args []string) error {
	if err := wantArgs(args, 1, 1, "remove NAME"); err != nil {
		return err
	}
	r.session.RemoveModel(args[0])
	return nil
}

func cmdClear(r *Runner, args []string) error {
	if err := wantArgs(args, 0, 1, "clear [FILENAME]"); err != nil {
		return err
	}
	filename := "clear"
	if len(args) == 1 {
		filename = args[0]
	}
	_, err := r.session.ClearGeometry(filename)
	return err
}
