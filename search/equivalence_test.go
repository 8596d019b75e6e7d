package search

import (
	"testing"

	"github.com/wren-systems/gtnplan/domain"
	"github.com/wren-systems/gtnplan/goal"
	"github.com/wren-systems/gtnplan/plan"
	"github.com/wren-systems/gtnplan/state"
	"github.com/wren-systems/gtnplan/value"
)

// TestStrategyEquivalence drives a domain that backtracks over task
// methods (two failing alternatives before a succeeding one), followed
// by a unigoal the state already satisfies, through both engines and
// asserts they return pointwise-equal plans, per Testable Property 8.
func TestStrategyEquivalence(t *testing.T) {
	tryN := func(n int64) func(s *state.State, args []value.Value) (*state.State, bool) {
		return func(s *state.State, args []value.Value) (*state.State, bool) {
			s.Set("counter", "c", value.Int(n))
			return s, true
		}
	}
	need := func(n int64) func(s *state.State, args []value.Value) (*state.State, bool) {
		return func(s *state.State, args []value.Value) (*state.State, bool) {
			cur, ok := s.Get("counter", "c")
			if !ok {
				return nil, false
			}
			curN, _ := cur.AsInt()
			return s, curN == n
		}
	}

	d, err := domain.NewBuilder("equiv").
		RegisterAction("set0", tryN(0)).
		RegisterAction("set1", tryN(1)).
		RegisterAction("set2", tryN(2)).
		RegisterAction("need2", need(2)).
		// Three alternatives; only the third's subtree satisfies need2.
		RegisterTaskMethod("pick", func(s *state.State, args []value.Value) ([]plan.Item, bool) {
			return []plan.Item{plan.Action("set0")}, true
		}).
		RegisterTaskMethod("pick", func(s *state.State, args []value.Value) ([]plan.Item, bool) {
			return []plan.Item{plan.Action("set1")}, true
		}).
		RegisterTaskMethod("pick", func(s *state.State, args []value.Value) ([]plan.Item, bool) {
			return []plan.Item{plan.Action("set2")}, true
		}).
		// Unigoal method for "loc"; the loc.x goal below already holds in
		// s0, so the satisfied short-circuit means it is never called.
		RegisterUnigoalMethod("loc", func(s *state.State, u goal.Unigoal) ([]plan.Item, bool) {
			if u.Subject != "x" {
				return nil, false
			}
			return []plan.Item{}, true
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	s0 := state.New("s0")
	s0.Set("loc", "x", value.String("park"))

	todo := []plan.Item{
		plan.Task("pick"),
		plan.Action("need2"),
		plan.Goal("loc", "x", value.String("park")),
	}

	recursivePlan, err := FindPlan(d, s0, todo, Options{Strategy: Recursive, VerifyGoals: true})
	if err != nil {
		t.Fatalf("Recursive FindPlan() error = %v", err)
	}
	iterativePlan, err := FindPlan(d, s0, todo, Options{Strategy: Iterative, VerifyGoals: true})
	if err != nil {
		t.Fatalf("Iterative FindPlan() error = %v", err)
	}

	if !plan.Equal(recursivePlan, iterativePlan) {
		t.Errorf("strategies disagree: recursive = %v, iterative = %v", recursivePlan, iterativePlan)
	}
	want := plan.Plan{plan.Action("set2"), plan.Action("need2")}
	if !plan.Equal(recursivePlan, want) {
		t.Errorf("recursive plan = %v, want %v (methods 1 and 2 should be abandoned)", recursivePlan, want)
	}
}

// TestStrategyEquivalenceUnsatisfiable exercises a domain that
// ultimately has no plan, to confirm both strategies report ErrNoPlan
// rather than one finding a spurious success.
func TestStrategyEquivalenceUnsatisfiable(t *testing.T) {
	d, err := domain.NewBuilder("unsat").
		RegisterUnigoalMethod("loc", func(s *state.State, u goal.Unigoal) ([]plan.Item, bool) {
			return nil, false
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	s0 := state.New("s0")
	todo := []plan.Item{plan.Goal("loc", "x", value.String("park"))}

	for _, strat := range []Strategy{Recursive, Iterative} {
		_, err := FindPlan(d, s0, todo, Options{Strategy: strat, VerifyGoals: true})
		if err == nil {
			t.Fatalf("[%s] FindPlan() should fail when no unigoal method applies", strat)
		}
	}
}
