package app

import (
	"time"

	"github.com/atomicstack/gridcase/internal/backend"
	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/logging"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/atomicstack/gridcase/internal/results"
	"github.com/atomicstack/gridcase/internal/script"
	"github.com/atomicstack/gridcase/internal/session"
	"github.com/atomicstack/gridcase/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultSettle is how long a dropped file must stay quiet before the
// watcher reads it.
const DefaultSettle = 750 * time.Millisecond

// Config describes user-provided application options.
type Config struct {
	Geometry    string
	Model       string
	ResultFiles []string
	Location    results.Location
	Deflection  bool
	Force       bool
	Script      string
	WatchDir    string
	Settle      time.Duration
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
	RootMenu    string
}

// ResultOptions returns how result files named by cfg are interpreted.
func (cfg Config) ResultOptions() session.ResultOptions {
	return session.ResultOptions{
		Location:   cfg.Location,
		Deflection: cfg.Deflection,
		Force:      cfg.Force,
	}
}

// Prepare builds a session and loads the geometry, result files and script
// named by cfg, in that order. The first failure stops loading.
func Prepare(cfg Config) (*session.Session, error) {
	sess := session.New()
	if cfg.Geometry != "" {
		if err := sess.LoadGeometryFile(cfg.Model, cfg.Geometry); err != nil {
			return sess, errors.Wrap(err, "load geometry")
		}
	}
	opts := cfg.ResultOptions()
	for _, path := range cfg.ResultFiles {
		if _, err := sess.LoadResults(path, opts); err != nil {
			return sess, errors.Wrapf(err, "load results %s", path)
		}
	}
	if cfg.Script != "" {
		if err := script.New(sess).RunFile(cfg.Script); err != nil {
			return sess, err
		}
	}
	return sess, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) (err error) {
	sess, err := Prepare(cfg)
	if err != nil {
		return err
	}
	defer func() { events.App.Stop(sess.ID, err) }()

	var watcher *backend.Watcher
	if cfg.WatchDir != "" {
		settle := cfg.Settle
		if settle <= 0 {
			settle = DefaultSettle
		}
		watcher, err = backend.NewWatcher(backend.Options{Dir: cfg.WatchDir, Settle: settle, Existing: true})
		if err != nil {
			return errors.Wrap(err, "watch")
		}
		defer watcher.Stop()
	}

	model := ui.NewModel(ui.Options{
		Session:    sess,
		Watcher:    watcher,
		Results:    cfg.ResultOptions(),
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		RootMenu:   cfg.RootMenu,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		logging.Trace("app.killed", map[string]interface{}{"session": sess.ID})
		return nil
	}
	return err
}
