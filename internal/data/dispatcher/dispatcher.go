package dispatcher

import (
	"path/filepath"
	"strings"

	"github.com/atomicstack/gridcase/internal/backend"
	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/loader"
	"github.com/atomicstack/gridcase/internal/logging"
	"github.com/atomicstack/gridcase/internal/session"
)

// Result summarises what one event changed.
type Result struct {
	Path     string
	Cases    []int
	Geometry string
	Err      error
}

// Changed reports whether the session was modified.
func (r Result) Changed() bool {
	return len(r.Cases) > 0 || r.Geometry != ""
}

// Dispatcher applies watcher events to a session. It must run on the
// goroutine that owns the session.
type Dispatcher struct {
	session *session.Session
	opts    session.ResultOptions
}

func New(s *session.Session, opts session.ResultOptions) *Dispatcher {
	return &Dispatcher{session: s, opts: opts}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	res := Result{Path: evt.Path}
	if evt.Err != nil {
		res.Err = evt.Err
		logging.Error(evt.Err)
		return res
	}
	switch evt.Kind {
	case backend.KindTable:
		if tbl, ok := evt.Data.(loader.Table); ok {
			res.Cases, res.Err = d.session.AddCases(session.TableBatch(tbl, d.opts))
		}
	case backend.KindNodFile:
		if path, ok := evt.Data.(string); ok {
			res.Cases, res.Err = d.session.LoadResults(path, d.opts)
		}
	case backend.KindGeometry:
		if geom, ok := evt.Data.(loader.Geometry); ok {
			name := geom.Name
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(evt.Path), filepath.Ext(evt.Path))
			}
			if res.Err = d.session.ReplaceGeometry(name, evt.Path, geom); res.Err == nil {
				res.Geometry = name
			}
		}
	default:
		res.Err = errors.Newf("unhandled event kind %v", evt.Kind)
	}
	if res.Err != nil {
		logging.Error(res.Err)
	}
	return res
}
