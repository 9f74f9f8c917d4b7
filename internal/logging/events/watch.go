package events

import "github.com/atomicstack/gridcase/internal/logging"

type WatchTracer struct{}

var Watch = WatchTracer{}

func (WatchTracer) Start(dir string) {
	logging.Trace("watch.start", map[string]interface{}{"dir": dir})
}

func (WatchTracer) File(path, op string) {
	logging.Trace("watch.file", map[string]interface{}{"path": path, "op": op})
}

func (WatchTracer) Loaded(path string, fields int) {
	logging.Trace("watch.loaded", map[string]interface{}{"path": path, "fields": fields})
}
