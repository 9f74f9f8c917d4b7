package events

import "github.com/atomicstack/gridcase/internal/logging"

type CatalogTracer struct{}

var Catalog = CatalogTracer{}

func (CatalogTracer) Add(source string, slot int, first int, fields []string) {
	logging.Trace("catalog.add", map[string]interface{}{
		"source": source,
		"slot":   slot,
		"first":  first,
		"fields": fields,
	})
}

func (CatalogTracer) Reject(source string, err error) {
	logging.Trace("catalog.reject", map[string]interface{}{"source": source, "error": err.Error()})
}

func (CatalogTracer) SetForm(groups int, method string) {
	logging.Trace("catalog.set-form", map[string]interface{}{"groups": groups, "method": method})
}

func (CatalogTracer) Clear(cases int) {
	logging.Trace("catalog.clear", map[string]interface{}{"cases": cases})
}

func (CatalogTracer) Show(caseID int, model string) {
	logging.Trace("catalog.show", map[string]interface{}{"case": caseID, "model": model})
}

func (CatalogTracer) Label(caseID, row int) {
	logging.Trace("catalog.label", map[string]interface{}{"case": caseID, "row": row})
}
