// Package apperr holds the boundary error type: the CLI, config loader,
// file watcher, and MCP server need real Go errors with errors.Is/As
// support, unlike the analysis core (internal/query, internal/hir,
// internal/analysis, internal/lint) which never returns an error value
// and instead carries failures as diag.Diagnostic (spec.md §7).
//
// Grounded on the teacher's internal/errors/errors.go IndexingError,
// generalized from indexing-specific error types to the taxonomy named
// in spec.md §7: Syntax, Schema, Document, Lint, Config, I/O, Network.
package apperr

import (
	"fmt"
	"time"
)

// Category is one of spec.md §7's error taxonomy entries.
type Category string

const (
	CategorySyntax   Category = "syntax"
	CategorySchema   Category = "schema"
	CategoryDocument Category = "document"
	CategoryLint     Category = "lint"
	CategoryConfig   Category = "config"
	CategoryIO       Category = "io"
	CategoryNetwork  Category = "network"
	CategoryInternal Category = "internal"
)

// Error is the boundary error value. Unlike diag.Diagnostic it is a real
// error — it flows through os.Exit codes and errors.Is/As chains at the
// CLI edge, never into the incremental engine.
type Error struct {
	Category    Category
	Operation   string
	Path        string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// New creates an Error for op, wrapping err under category.
func New(category Category, op string, err error) *Error {
	return &Error{
		Category:  category,
		Operation: op,
		Underlying: err,
		Timestamp: time.Now(),
	}
}

// WithPath attaches the file or config path the error occurred against.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithRecoverable marks whether the caller may retry the operation.
func (e *Error) WithRecoverable(recoverable bool) *Error {
	e.Recoverable = recoverable
	return e
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Category, e.Operation, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Category, e.Operation, e.Underlying)
}

// Unwrap makes errors.Is/errors.As see through to Underlying.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Config is a convenience constructor for CategoryConfig errors, used by
// internal/config during load and validation.
func Config(field string, err error) *Error {
	return New(CategoryConfig, "load", err).WithPath(field)
}

// IO is a convenience constructor for CategoryIO errors, used by
// internal/watch and the CLI's file-reading paths.
func IO(op, path string, err error) *Error {
	return New(CategoryIO, op, err).WithPath(path)
}

// Multi aggregates several boundary errors into one, e.g. every
// validation failure found in a single config file rather than stopping
// at the first (spec.md §7's "errors use a plain Go error type").
type Multi struct {
	Errors []error
}

func NewMulti(errs []error) *Multi {
	return &Multi{Errors: errs}
}

func (e *Multi) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	s := fmt.Sprintf("%d errors:", len(e.Errors))
	for _, err := range e.Errors {
		s += "\n  - " + err.Error()
	}
	return s
}

func (e *Multi) Unwrap() []error {
	return e.Errors
}
