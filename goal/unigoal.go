// Package goal implements Unigoal and Multigoal, the planner's
// single-variable and conjunctive state-variable objectives.
package goal

import (
	"github.com/wren-systems/gtnplan/state"
	"github.com/wren-systems/gtnplan/value"
)

// Unigoal asserts state.Get(Var, Subject) == Value.
type Unigoal struct {
	Var     string
	Subject string
	Value   value.Value
}

// Satisfied reports whether s already satisfies this Unigoal.
func (u Unigoal) Satisfied(s *state.State) bool {
	got, ok := s.Get(u.Var, u.Subject)
	return ok && got.Equal(u.Value)
}
