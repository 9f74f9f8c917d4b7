package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/loader"
	"github.com/atomicstack/gridcase/internal/logging/events"
	"github.com/fsnotify/fsnotify"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	// KindTable carries a parsed loader.Table.
	KindTable Kind = iota
	// KindGeometry carries a parsed loader.Geometry.
	KindGeometry
	// KindNodFile carries only the path: .nod values are scattered by the
	// active model's node ids, which the watcher cannot read.
	KindNodFile
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindGeometry:
		return "geometry"
	case KindNodFile:
		return "nod"
	}
	return "unknown"
}

// Event conveys a loaded file or the error from loading it.
type Event struct {
	Kind Kind
	Path string
	Data interface{}
	Err  error
}

// Options configure a Watcher.
type Options struct {
	Dir string
	// Settle is how long a file must stay unmodified before it is read.
	Settle time.Duration
	// Existing emits events for files already in Dir at start.
	Existing bool
}

// Watcher watches a drop directory and publishes one event per result or
// geometry file that appears there. Files are parsed on the watcher's own
// goroutine; consumers apply the events.
type Watcher struct {
	dir string

	ctx    context.Context
	cancel context.CancelFunc

	fs       *fsnotify.Watcher
	throttle *throttle
	events   chan Event
	wg       sync.WaitGroup
	sends    sync.WaitGroup
}

// NewWatcher starts watching opts.Dir.
func NewWatcher(opts Options) (*Watcher, error) {
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "watch %s", opts.Dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("watch %s: not a directory", opts.Dir)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "fsnotify")
	}
	if err := fsw.Add(opts.Dir); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrapf(err, "watch %s", opts.Dir)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      opts.Dir,
		ctx:      ctx,
		cancel:   cancel,
		fs:       fsw,
		throttle: newThrottle(opts.Settle),
		events:   make(chan Event, 16),
	}
	events.Watch.Start(opts.Dir)

	w.wg.Add(1)
	go w.run(opts.Existing)

	go func() {
		w.wg.Wait()
		w.sends.Wait()
		close(w.events)
	}()

	return w, nil
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pending loads are dropped.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watch goroutine has exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
	w.sends.Wait()
}

func (w *Watcher) run(existing bool) {
	defer w.wg.Done()
	defer w.fs.Close()
	defer func() {
		for n := w.throttle.stop(); n > 0; n-- {
			w.sends.Done()
		}
	}()

	if existing {
		entries, err := os.ReadDir(w.dir)
		if err != nil {
			w.send(Event{Path: w.dir, Err: errors.Wrapf(err, "read %s", w.dir)})
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			w.schedule(filepath.Join(w.dir, e.Name()), "existing")
		}
	}

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			w.schedule(ev.Name, ev.Op.String())
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.send(Event{Path: w.dir, Err: errors.Wrap(err, "fsnotify")})
		}
	}
}

func (w *Watcher) schedule(path, op string) {
	if _, ok := classify(path); !ok {
		return
	}
	events.Watch.File(path, op)
	w.sends.Add(1)
	cancelled := w.throttle.touch(path, func() {
		defer w.sends.Done()
		w.send(load(path))
	})
	// a cancelled fire never runs, so its slot is released here
	if cancelled {
		w.sends.Done()
	}
}

func (w *Watcher) send(evt Event) {
	select {
	case <-w.ctx.Done():
	case w.events <- evt:
	}
}

// classify maps a file name to the event kind it produces.
func classify(path string) (Kind, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return 0, false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".csv":
		return KindTable, true
	case ".nod":
		return KindNodFile, true
	case ".yaml", ".yml":
		return KindGeometry, true
	}
	return 0, false
}

func load(path string) Event {
	kind, _ := classify(path)
	evt := Event{Kind: kind, Path: path}
	switch kind {
	case KindTable:
		tbl, err := loader.ReadCSV(path)
		evt.Data, evt.Err = tbl, err
		if err == nil {
			events.Watch.Loaded(path, len(tbl.Fields))
		}
	case KindGeometry:
		geom, err := loader.ReadGeometry(path)
		evt.Data, evt.Err = geom, err
		if err == nil {
			events.Watch.Loaded(path, len(geom.NodeIDs))
		}
	case KindNodFile:
		evt.Data = path
	}
	return evt
}
