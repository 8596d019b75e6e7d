package domain

import (
	"testing"

	"github.com/wren-systems/gtnplan/goal"
	"github.com/wren-systems/gtnplan/plan"
	"github.com/wren-systems/gtnplan/state"
	"github.com/wren-systems/gtnplan/value"
)

func TestBuildRegistersBuiltinVerifyMethods(t *testing.T) {
	d, err := NewBuilder("logistics").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !d.HasTaskMethods("_verify_g") {
		t.Error("Build() should register a built-in _verify_g task method entry")
	}
	if !d.HasTaskMethods("_verify_mg") {
		t.Error("Build() should register a built-in _verify_mg task method entry")
	}
}

func TestBuildAssignsDistinctIDs(t *testing.T) {
	d1, err := NewBuilder("d1").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	d2, err := NewBuilder("d2").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if d1.ID == "" || d2.ID == "" {
		t.Fatal("Build() should assign a non-empty ID")
	}
	if d1.ID == d2.ID {
		t.Error("Build() should assign distinct IDs to distinct Domains")
	}
}

func TestBuildRejectsEmptyName(t *testing.T) {
	if _, err := NewBuilder("").Build(); err == nil {
		t.Error("Build() with an empty name should return a ConfigurationError")
	}
}

func TestRegisterActionPreservesOrderAcrossReplace(t *testing.T) {
	calls := 0
	d, err := NewBuilder("d").
		RegisterAction("walk", func(s *state.State, args []value.Value) (*state.State, bool) {
			calls++
			return s, true
		}).
		RegisterAction("ride_taxi", func(s *state.State, args []value.Value) (*state.State, bool) {
			return s, true
		}).
		RegisterAction("walk", func(s *state.State, args []value.Value) (*state.State, bool) {
			calls += 10
			return s, true
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	names := d.ActionNames()
	if len(names) != 2 || names[0] != "walk" || names[1] != "ride_taxi" {
		t.Fatalf("ActionNames() = %v, want [walk ride_taxi] with walk's original position kept", names)
	}

	fn, ok := d.Action("walk")
	if !ok {
		t.Fatal("Action(\"walk\") should be registered")
	}
	fn(state.New("s0"), nil)
	if calls != 10 {
		t.Errorf("re-registering walk should replace the callable, calls = %d, want 10", calls)
	}
}

func TestTaskMethodOrderingIsPreserved(t *testing.T) {
	var order []string
	method := func(name string) TaskMethod {
		return func(s *state.State, args []value.Value) ([]plan.Item, bool) {
			order = append(order, name)
			return nil, false
		}
	}
	d, err := NewBuilder("d").
		RegisterTaskMethod("travel", method("by_foot")).
		RegisterTaskMethod("travel", method("by_taxi")).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	methods := d.TaskMethods("travel")
	if len(methods) != 2 {
		t.Fatalf("TaskMethods(\"travel\") len = %d, want 2", len(methods))
	}
	for _, m := range methods {
		m.Fn(state.New("s0"), nil)
	}
	if len(order) != 2 || order[0] != "by_foot" || order[1] != "by_taxi" {
		t.Errorf("method call order = %v, want [by_foot by_taxi]", order)
	}
}

func TestBuiltinVerifyGoalChecksClaimedUnigoal(t *testing.T) {
	d, err := NewBuilder("d").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	s := state.New("s0")
	s.Set("loc", "alice", value.String("park"))

	satisfied := plan.VerifyGoal("m_travel", goal.Unigoal{Var: "loc", Subject: "alice", Value: value.String("park")}, 1)
	if _, ok := d.VerifyGoal(s, satisfied); !ok {
		t.Error("VerifyGoal should succeed when the claimed Unigoal holds")
	}

	unsatisfied := plan.VerifyGoal("m_travel", goal.Unigoal{Var: "loc", Subject: "alice", Value: value.String("mall")}, 1)
	if _, ok := d.VerifyGoal(s, unsatisfied); ok {
		t.Error("VerifyGoal should fail when the claimed Unigoal does not hold")
	}
}

func TestBuiltinVerifyMultigoalChecksEveryCell(t *testing.T) {
	d, err := NewBuilder("d").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	s := state.New("s0")
	s.Set("pos", "a", value.String("b"))
	s.Set("pos", "b", value.String("table"))

	mg := goal.New("sussman")
	mg.Set("pos", "a", value.String("b"))
	mg.Set("pos", "b", value.String("c"))

	item := plan.VerifyMultigoal("m_sussman", mg, 1)
	if _, ok := d.VerifyMultigoal(s, item); ok {
		t.Error("VerifyMultigoal should fail while pos.b mismatches")
	}

	s.Set("pos", "b", value.String("c"))
	if _, ok := d.VerifyMultigoal(s, item); !ok {
		t.Error("VerifyMultigoal should succeed once every cell matches")
	}
}

func TestMultigoalMethodsFormOneOrderedList(t *testing.T) {
	var order []string
	method := func(name string) MultigoalMethod {
		return func(s *state.State, mg *goal.Multigoal) ([]plan.Item, bool) {
			order = append(order, name)
			return nil, false
		}
	}

	empty, err := NewBuilder("empty").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if empty.HasMultigoalMethods() {
		t.Error("a Domain with no registered multigoal methods should report HasMultigoalMethods() = false")
	}

	d, err := NewBuilder("d").
		RegisterMultigoalMethod(method("split_stacks")).
		RegisterMultigoalMethod(method("brute_force")).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !d.HasMultigoalMethods() {
		t.Fatal("HasMultigoalMethods() should be true after registration")
	}
	for _, m := range d.MultigoalMethods() {
		m.Fn(state.New("s0"), goal.New("g"))
	}
	if len(order) != 2 || order[0] != "split_stacks" || order[1] != "brute_force" {
		t.Errorf("multigoal method call order = %v, want [split_stacks brute_force]", order)
	}
}

func namedTravelMethod(s *state.State, args []value.Value) ([]plan.Item, bool) {
	return nil, false
}

func TestMethodLabelsComeFromFunctionSymbols(t *testing.T) {
	d, err := NewBuilder("d").
		RegisterTaskMethod("travel", namedTravelMethod).
		RegisterTaskMethod("travel", func(s *state.State, args []value.Value) ([]plan.Item, bool) {
			return nil, false
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	methods := d.TaskMethods("travel")
	if len(methods) != 2 {
		t.Fatalf("TaskMethods(travel) len = %d, want 2", len(methods))
	}
	if methods[0].Label != "domain.namedTravelMethod" {
		t.Errorf("named method label = %q, want domain.namedTravelMethod", methods[0].Label)
	}
	if methods[1].Label != "travel[1]" {
		t.Errorf("closure label = %q, want travel[1]", methods[1].Label)
	}
}
