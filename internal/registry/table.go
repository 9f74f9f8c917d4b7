package registry

import "sort"

// table is one per-resource mapping keyed by model name. Writes upsert;
// reads fail with a NotFoundError listing the keys present.
type table[T any] struct {
	name    string
	entries map[string]T
}

func newTable[T any](name string) *table[T] {
	return &table[T]{name: name, entries: make(map[string]T)}
}

func (t *table[T]) get(key string) (T, error) {
	v, ok := t.entries[key]
	if !ok {
		var zero T
		return zero, newNotFound(t.name, key, t.keys())
	}
	return v, nil
}

func (t *table[T]) has(key string) bool {
	_, ok := t.entries[key]
	return ok
}

func (t *table[T]) set(key string, v T) {
	t.entries[key] = v
}

func (t *table[T]) remove(key string) {
	delete(t.entries, key)
}

func (t *table[T]) keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
