package events

import "github.com/atomicstack/gridcase/internal/logging"

type ScriptTracer struct{}

var Script = ScriptTracer{}

func (ScriptTracer) Run(path string) {
	logging.Trace("script.run", map[string]interface{}{"path": path})
}

func (ScriptTracer) Command(path string, line int, command string) {
	logging.Trace("script.command", map[string]interface{}{"path": path, "line": line, "command": command})
}

func (ScriptTracer) Failed(path string, line int, err error) {
	logging.Trace("script.failed", map[string]interface{}{"path": path, "line": line, "error": err.Error()})
}

func (ScriptTracer) Prompt(initial string) {
	logging.Trace("script.prompt", map[string]interface{}{"initial": initial})
}

func (ScriptTracer) Cancel(reason string) {
	logging.Trace("script.cancel", map[string]interface{}{"reason": reason})
}
