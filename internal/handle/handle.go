// Package handle maps opaque integer handles to Go values so that a C
// caller never holds, or casts, a Go pointer.
//
// Handles are never reused within a Table: a freed handle stays invalid
// for the lifetime of the process, which turns use-after-free into a
// failed lookup instead of a silent alias.
package handle

import "sync"

// ID is an opaque handle. The zero ID is never issued and stands for null.
type ID uint64

// Table owns values of type T keyed by ID. It is safe for concurrent use.
type Table[T any] struct {
	mu     sync.RWMutex
	next   ID
	values map[ID]T
}

// New returns an empty table.
func New[T any]() *Table[T] {
	return &Table[T]{values: make(map[ID]T)}
}

// Put stores v and returns its new handle.
func (t *Table[T]) Put(v T) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.values[t.next] = v
	return t.next
}

// Get returns the value for id.
func (t *Table[T]) Get(id ID) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[id]
	return v, ok
}

// Delete removes id and returns the value it held. Deleting an unknown
// or already deleted handle reports false.
func (t *Table[T]) Delete(id ID) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[id]
	if ok {
		delete(t.values, id)
	}
	return v, ok
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.values)
}
