package jsonfile

import (
	"path/filepath"
	"sync"
)

// collection binds one entity type to one JSON file. The mutex must be held
// across any read-modify-write cycle so whole-collection replaces from this
// process never interleave.
type collection[T any] struct {
	path string
	mu   sync.Mutex
}

func newCollection[T any](dataDir, name string) *collection[T] {
	return &collection[T]{path: filepath.Join(dataDir, name+".json")}
}

// load reads the collection, creating it empty on first access.
// Callers must hold the mutex.
func (c *collection[T]) load() ([]T, error) {
	return readJSON(c.path, []T{})
}

// save atomically replaces the collection file.
// Callers must hold the mutex.
func (c *collection[T]) save(items []T) error {
	return atomicWriteJSON(c.path, items)
}

// nextID returns max existing id + 1, or 1 for an empty collection.
func nextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, item := range items {
		if id(item) > max {
			max = id(item)
		}
	}
	return max + 1
}
