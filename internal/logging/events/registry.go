package events

import "github.com/atomicstack/gridcase/internal/logging"

type RegistryTracer struct{}

var Registry = RegistryTracer{}

func (RegistryTracer) SetActive(previous, name string) {
	logging.Trace("registry.set-active", map[string]interface{}{"previous": previous, "name": name})
}

func (RegistryTracer) Remove(name string) {
	logging.Trace("registry.remove", map[string]interface{}{"name": name})
}

func (RegistryTracer) Miss(table, name string, keys []string) {
	logging.Trace("registry.miss", map[string]interface{}{"table": table, "name": name, "keys": keys})
}

func (RegistryTracer) LoadGeometry(name string, nodes, elements int) {
	logging.Trace("registry.load-geometry", map[string]interface{}{
		"name":     name,
		"nodes":    nodes,
		"elements": elements,
	})
}
