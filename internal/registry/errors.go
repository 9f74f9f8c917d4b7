package registry

import (
	"fmt"
	"strings"

	"github.com/atomicstack/gridcase/internal/errors"
	"github.com/atomicstack/gridcase/internal/logging/events"
)

// ErrContextNotFound matches every NotFoundError via errors.Is.
var ErrContextNotFound = errors.New("context not found")

// NotFoundError reports a read for a name that has no entry in one table.
type NotFoundError struct {
	Table string
	Name  string
	Keys  []string
}

func newNotFound(table, name string, keys []string) error {
	events.Registry.Miss(table, name, keys)
	return errors.WithHint(
		errors.WithStack(&NotFoundError{Table: table, Name: name, Keys: keys}),
		"load the model first or switch the active name",
	)
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s has no entry for %q (keys=[%s])",
		ErrContextNotFound, e.Table, e.Name, strings.Join(e.Keys, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrContextNotFound
}
