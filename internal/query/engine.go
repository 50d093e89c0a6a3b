// Package query implements the demand-driven, dependency-tracked
// memoization engine described in spec.md §4.1. It has no GraphQL-specific
// knowledge: Database holds user-writable Inputs and memoizes Tracked
// queries over them, advancing a global revision counter on every write
// and reusing unchanged subgraphs on every read.
//
// The salsa proc-macro machinery the original Rust implementation relies
// on (#[salsa::tracked], #[salsa::input]) has no Go analog; this package
// hand-implements the same verified-at / changed-at / back-edge-equality
// algorithm as plain generic types, with the database threaded explicitly
// through a *Ctx parameter rather than captured via a trait object.
package query

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Revision is a monotonically increasing counter bumped on every write to
// any input (spec.md glossary "Revision").
type Revision uint64

// Database is the single shared mutable resource: a revision counter plus
// whatever Input and Tracked tables are registered against it. Database
// itself stores no domain state; Input/Tracked own their own maps and
// consult the Database only for the current revision and the
// single-writer gate.
type Database struct {
	mu       sync.RWMutex
	revision atomic.Uint64
	writing  atomic.Bool
}

// NewDatabase returns a fresh database at revision 0.
func NewDatabase() *Database {
	return &Database{}
}

// CurrentRevision returns the database's live revision counter. Safe to
// call from any Ctx; stable for the lifetime of an active Snapshot since
// Write blocks until all snapshots are released.
func (db *Database) CurrentRevision() Revision {
	return Revision(db.revision.Load())
}

// Write takes the exclusive writer lock, bumps the revision, and runs fn.
// fn must only call Set/Remove on Input values registered against this
// Database; calling a Tracked.Get from within Write is a programming
// error (tracked queries are read-only by contract) and is not guarded
// against beyond the writing flag used by Input to reject out-of-band
// Set calls.
//
// Write blocks until every outstanding Snapshot has been released
// (spec.md §5 "a snapshot held across a mutation call would deadlock").
func (db *Database) Write(fn func()) Revision {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.writing.Store(true)
	defer db.writing.Store(false)

	rev := Revision(db.revision.Add(1))
	fn()
	return rev
}

// Snapshot is a read-only handle pinning the database at the revision
// observed when it was taken. Multiple snapshots, and multiple queries
// issued from a single snapshot on separate goroutines, may run
// concurrently; Write blocks until every Snapshot is Released.
type Snapshot struct {
	db       *Database
	rev      Revision
	released atomic.Bool
}

// Snapshot acquires a shared read lock and returns a handle pinning the
// current revision.
func (db *Database) Snapshot() *Snapshot {
	db.mu.RLock()
	return &Snapshot{db: db, rev: Revision(db.revision.Load())}
}

// Revision returns the revision this snapshot observed at creation time.
func (s *Snapshot) Revision() Revision { return s.rev }

// Ctx returns a fresh root query context rooted at this snapshot. Each
// call gets its own cycle-detection stack; concurrent calls to Ctx from
// one Snapshot are safe and independent.
func (s *Snapshot) Ctx() *Ctx {
	stack := make([]memoKey, 0, 8)
	return &Ctx{db: s.db, stack: &stack}
}

// Release drops the snapshot's read lock. Safe to call multiple times;
// only the first call has effect. A Snapshot that is never Released
// leaks the read lock and permanently blocks future Writes — callers
// should defer Release immediately after taking a Snapshot.
func (s *Snapshot) Release() {
	if s.released.CompareAndSwap(false, true) {
		s.db.mu.RUnlock()
	}
}

// memoKey identifies one tracked-function invocation: a function
// identity plus its (comparable) argument.
type memoKey struct {
	fn  uint64
	key any
}

// depFn is a recorded dependency: calling it re-verifies (recomputing if
// necessary) the dependency and returns its current changed-at revision.
type depFn func(ctx *Ctx) Revision

// recorder accumulates the dependencies consulted during one tracked
// function execution.
type recorder struct {
	deps []depFn
}

// Ctx threads the Database and the active dependency recorder through a
// tree of tracked-function calls. The zero value is not usable; obtain
// one via Snapshot.Ctx.
type Ctx struct {
	db    *Database
	rec   *recorder
	stack *[]memoKey
}

// hasOnStack reports whether mk is already being computed higher up the
// call tree — a cycle, which is forbidden (spec.md §4.1).
func (c *Ctx) hasOnStack(mk memoKey) bool {
	for _, s := range *c.stack {
		if s == mk {
			return true
		}
	}
	return false
}

func (c *Ctx) pushed(mk memoKey) *Ctx {
	*c.stack = append(*c.stack, mk)
	return &Ctx{db: c.db, stack: c.stack}
}

func (c *Ctx) pop() {
	*c.stack = (*c.stack)[:len(*c.stack)-1]
}

// recordDep registers d as a dependency of the tracked function currently
// executing under this Ctx, if any (a root Ctx has no enclosing query and
// silently drops the registration).
func (c *Ctx) recordDep(d depFn) {
	if c.rec != nil {
		c.rec.deps = append(c.rec.deps, d)
	}
}

// CycleError is panicked by Tracked.Get when a tracked function
// transitively calls itself with the same key. It poisons only the
// offending invocation; callers recover it at a query boundary (see
// internal/ide, which recovers per top-level Analysis call so one broken
// query cannot corrupt the shared memo table for siblings).
type CycleError struct {
	Query string
	Key   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("query cycle detected: %s(%s) depends on itself", e.Query, e.Key)
}
