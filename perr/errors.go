// Package perr defines the planner's error taxonomy: hard,
// non-backtrackable configuration and unknown-item errors, and the
// sentinel returned when a search exhausts its alternatives.
package perr

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid Domain or Planner
// configuration, raised only at build time, never during search.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: field %q: %s", e.Field, e.Reason)
}

// NewConfigurationError constructs a ConfigurationError.
func NewConfigurationError(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}

// ItemKind names the todo-list item variant an UnknownItemError
// concerns, without importing the plan package, so perr depends on
// the standard library only.
type ItemKind string

const (
	UnknownTask    ItemKind = "task"
	UnknownUnigoal ItemKind = "unigoal"
)

// UnknownItemError reports a Task whose name matches neither an
// action nor a task-method set, or a Unigoal whose variable has no
// registered unigoal-method set. This is a hard, non-backtrackable
// domain error: it terminates the search immediately.
type UnknownItemError struct {
	Kind  ItemKind
	Name  string
	Depth int
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown %s %q at depth %d: no action or method set registered", e.Kind, e.Name, e.Depth)
}

// NewUnknownItemError constructs an UnknownItemError.
func NewUnknownItemError(kind ItemKind, name string, depth int) *UnknownItemError {
	return &UnknownItemError{Kind: kind, Name: name, Depth: depth}
}

// ErrNoPlan is the sentinel returned when a search exhausts every
// alternative without finding a plan. It is distinct from a
// ConfigurationError or UnknownItemError: it is a normal, expected
// search outcome, not a programming mistake in the Domain.
var ErrNoPlan = errors.New("no plan found")

// IsNoPlan reports whether err is (or wraps) ErrNoPlan.
func IsNoPlan(err error) bool {
	return errors.Is(err, ErrNoPlan)
}
