package query

import "sync"

// Input is a user-writable table keyed by K, versioned by the revision at
// which each entry last changed (spec.md §4.1 "Inputs"). Reads register a
// dependency on the enclosing tracked function so later writes correctly
// invalidate it.
type Input[K comparable, V any] struct {
	name  string
	equal func(a, b V) bool

	mu     sync.RWMutex
	values map[K]inputValue[V]
}

type inputValue[V any] struct {
	value     V
	changedAt Revision
	removed   bool
}

// NewInput creates an input table. equal is used to suppress a spurious
// revision bump when Set is called with a value identical to the current
// one (the same back-edge-equality discipline tracked functions use);
// pass nil to always treat Set as a change.
func NewInput[K comparable, V any](name string, equal func(a, b V) bool) *Input[K, V] {
	return &Input[K, V]{
		name:   name,
		equal:  equal,
		values: make(map[K]inputValue[V]),
	}
}

// Set records value for key, effective as of the write currently in
// progress. Must be called from inside a Database.Write closure.
func (in *Input[K, V]) Set(db *Database, key K, value V) {
	if !db.writing.Load() {
		panic("query: Input.Set(" + in.name + ") called outside Database.Write")
	}
	rev := db.CurrentRevision()

	in.mu.Lock()
	defer in.mu.Unlock()

	old, existed := in.values[key]
	if existed && !old.removed && in.equal != nil && in.equal(old.value, value) {
		return
	}
	in.values[key] = inputValue[V]{value: value, changedAt: rev}
}

// Remove tombstones key as of the write currently in progress. Must be
// called from inside a Database.Write closure.
func (in *Input[K, V]) Remove(db *Database, key K) {
	if !db.writing.Load() {
		panic("query: Input.Remove(" + in.name + ") called outside Database.Write")
	}
	rev := db.CurrentRevision()

	in.mu.Lock()
	defer in.mu.Unlock()

	if _, existed := in.values[key]; !existed {
		return
	}
	in.values[key] = inputValue[V]{changedAt: rev, removed: true}
}

// Get reads the current value for key, registering a dependency on the
// enclosing tracked function (if any). ok is false if the key was never
// set or has been removed.
func (in *Input[K, V]) Get(ctx *Ctx, key K) (value V, ok bool) {
	in.mu.RLock()
	v, exists := in.values[key]
	in.mu.RUnlock()

	ctx.recordDep(func(*Ctx) Revision { return in.changedAtOf(key) })

	if !exists || v.removed {
		var zero V
		return zero, false
	}
	return v.value, true
}

// Keys returns a snapshot of the currently-set (non-removed) keys. Does
// not itself register a dependency — callers that iterate Keys to build
// an aggregate should depend on a higher-level input (e.g. ProjectFiles)
// whose identity changes exactly when membership changes, per spec.md
// §4.2's "file_entry_map... changes only when membership changes".
func (in *Input[K, V]) Keys() []K {
	in.mu.RLock()
	defer in.mu.RUnlock()
	keys := make([]K, 0, len(in.values))
	for k, v := range in.values {
		if !v.removed {
			keys = append(keys, k)
		}
	}
	return keys
}

// Peek reads the current value for key without registering a dependency.
// Intended for bookkeeping done inside a Write closure (where there is no
// Ctx to depend from), never for production query paths.
func (in *Input[K, V]) Peek(key K) (value V, ok bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	v, exists := in.values[key]
	if !exists || v.removed {
		var zero V
		return zero, false
	}
	return v.value, true
}

func (in *Input[K, V]) changedAtOf(key K) Revision {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if v, ok := in.values[key]; ok {
		return v.changedAt
	}
	return 0
}
