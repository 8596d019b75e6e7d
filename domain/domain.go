// Package domain holds the registries a planning domain is built from:
// primitive actions, simulated commands, and the method sets that
// expand abstract tasks, unigoals, and multigoals. A Domain is
// immutable once built; Builder is the only way to populate one.
package domain

import (
	"fmt"
	"strings"

	validatorpkg "github.com/go-playground/validator/v10"

	"github.com/wren-systems/gtnplan/goal"
	"github.com/wren-systems/gtnplan/plan"
	"github.com/wren-systems/gtnplan/state"
	"github.com/wren-systems/gtnplan/value"
)

// ActionFunc applies a primitive action to a state, returning the
// resulting state (nil, false if inapplicable). An ActionFunc must not
// mutate s in place; it receives an already-cloned working copy.
type ActionFunc func(s *state.State, args []value.Value) (*state.State, bool)

// CommandFunc simulates executing a command during lazy lookahead. It
// has the same shape as ActionFunc: commands model what actually
// happens in the world, which may differ from an action's idealized
// effect.
type CommandFunc func(s *state.State, args []value.Value) (*state.State, bool)

// TaskMethod expands an abstract task into a sequence of todo items to
// splice in its place. ok is false when this method does not apply to
// the given state/args; the engine then tries the next method in the
// set.
type TaskMethod func(s *state.State, args []value.Value) (subtasks []plan.Item, ok bool)

// UnigoalMethod expands a Unigoal into a sequence of todo items meant
// to achieve it.
type UnigoalMethod func(s *state.State, u goal.Unigoal) (subtasks []plan.Item, ok bool)

// MultigoalMethod expands a Multigoal into a sequence of todo items.
// Multigoal methods form a single domain-wide ordered list: when at
// least one is registered, the engine tries them in order and the
// conjunctive unigoal fallback never runs.
type MultigoalMethod func(s *state.State, mg *goal.Multigoal) (subtasks []plan.Item, ok bool)

// TaskMethodEntry pairs a task method with the label it was registered
// under, so verbose traces and verification items can identify which
// method produced an expansion.
type TaskMethodEntry struct {
	Label string
	Fn    TaskMethod
}

// UnigoalMethodEntry pairs a unigoal method with its registered label.
type UnigoalMethodEntry struct {
	Label string
	Fn    UnigoalMethod
}

// MultigoalMethodEntry pairs a multigoal method with its registered
// label.
type MultigoalMethodEntry struct {
	Label string
	Fn    MultigoalMethod
}

type namedActions struct {
	names []string
	funcs map[string]ActionFunc
}

type namedCommands struct {
	names []string
	funcs map[string]CommandFunc
}

type taskMethodSet struct {
	names []string
	funcs map[string][]TaskMethodEntry
}

type unigoalMethodSet struct {
	names []string
	funcs map[string][]UnigoalMethodEntry
}

// Domain is a named, ordered collection of the callables a search
// invokes: one action/command per name, one ordered method list per
// task name and per goal-variable name, and a single domain-wide
// ordered list of multigoal methods. Registration order is preserved
// and is exactly the order the search tries alternatives in.
type Domain struct {
	Name string

	// ID is assigned once at Build() time and never changes; it lets
	// verbose logging and tests correlate a search run with the exact
	// Domain instance it ran against.
	ID string

	actions        namedActions
	commands       namedCommands
	taskMethods    taskMethodSet
	unigoalMeths   unigoalMethodSet
	multigoalMeths []MultigoalMethodEntry
}

// IsAction reports whether name is a registered primitive action.
func (d *Domain) IsAction(name string) bool {
	_, ok := d.actions.funcs[name]
	return ok
}

// Action returns the registered action callable for name.
func (d *Domain) Action(name string) (ActionFunc, bool) {
	f, ok := d.actions.funcs[name]
	return f, ok
}

// IsCommand reports whether name is a registered simulated command.
func (d *Domain) IsCommand(name string) bool {
	_, ok := d.commands.funcs[name]
	return ok
}

// Command returns the registered command callable for name.
func (d *Domain) Command(name string) (CommandFunc, bool) {
	f, ok := d.commands.funcs[name]
	return f, ok
}

// HasTaskMethods reports whether name has at least one registered
// task method, including the built-in _verify_g and _verify_mg names.
func (d *Domain) HasTaskMethods(name string) bool {
	_, ok := d.taskMethods.funcs[name]
	return ok
}

// TaskMethods returns the ordered method list registered for name.
func (d *Domain) TaskMethods(name string) []TaskMethodEntry {
	return append([]TaskMethodEntry(nil), d.taskMethods.funcs[name]...)
}

// HasUnigoalMethods reports whether varName has at least one
// registered unigoal method.
func (d *Domain) HasUnigoalMethods(varName string) bool {
	_, ok := d.unigoalMeths.funcs[varName]
	return ok
}

// UnigoalMethods returns the ordered method list registered for
// varName.
func (d *Domain) UnigoalMethods(varName string) []UnigoalMethodEntry {
	return append([]UnigoalMethodEntry(nil), d.unigoalMeths.funcs[varName]...)
}

// HasMultigoalMethods reports whether any multigoal method is
// registered. When true, multigoal methods own every Multigoal
// expansion and the conjunctive unigoal fallback never runs.
func (d *Domain) HasMultigoalMethods() bool {
	return len(d.multigoalMeths) > 0
}

// MultigoalMethods returns the domain-wide ordered multigoal method
// list.
func (d *Domain) MultigoalMethods() []MultigoalMethodEntry {
	return append([]MultigoalMethodEntry(nil), d.multigoalMeths...)
}

// ActionNames, TaskNames, and UnigoalVarNames return the registered
// names in registration order, mainly for tracing and introspection
// in tests.
func (d *Domain) ActionNames() []string { return append([]string(nil), d.actions.names...) }
func (d *Domain) TaskNames() []string   { return append([]string(nil), d.taskMethods.names...) }
func (d *Domain) UnigoalVarNames() []string {
	return append([]string(nil), d.unigoalMeths.names...)
}

var structValidate = validatorpkg.New()

// builtinVerifyGoal is the built-in _verify_g task method: it checks
// that the Unigoal a method claimed to achieve actually holds.
func builtinVerifyGoal(s *state.State, item plan.Item) ([]plan.Item, bool) {
	_, u, _, ok := item.VerifyGoalPayload()
	if !ok {
		return nil, false
	}
	if u.Satisfied(s) {
		return []plan.Item{}, true
	}
	return nil, false
}

// builtinVerifyMultigoal is the built-in _verify_mg task method: it
// checks every cell of the Multigoal a method claimed to achieve.
func builtinVerifyMultigoal(s *state.State, item plan.Item) ([]plan.Item, bool) {
	_, mg, _, ok := item.VerifyMultigoalPayload()
	if !ok || mg == nil {
		return nil, false
	}
	if mg.Satisfied(s) {
		return []plan.Item{}, true
	}
	return nil, false
}

// VerifyGoal is the typed entry point the search engine calls for a
// "_verify_g" todo item. It exists separately from the generic
// TaskMethod signature because the verification payload (the claimed
// Unigoal, the achieving method's name, and the search depth) does not
// round-trip cleanly through the Value-typed Action/Task argument
// list; embedding it as typed Item payload (see plan.VerifyGoal) keeps
// both the public Item API and this call uniform while avoiding an
// encode-then-immediately-decode detour through value.Value.
func (d *Domain) VerifyGoal(s *state.State, item plan.Item) ([]plan.Item, bool) {
	return builtinVerifyGoal(s, item)
}

// VerifyMultigoal is the _verify_mg analogue of VerifyGoal.
func (d *Domain) VerifyMultigoal(s *state.State, item plan.Item) ([]plan.Item, bool) {
	return builtinVerifyMultigoal(s, item)
}

func (d *Domain) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "domain %q: %d actions, %d commands, %d task methods, %d unigoal methods, %d multigoal methods",
		d.Name, len(d.actions.names), len(d.commands.names), len(d.taskMethods.names),
		len(d.unigoalMeths.names), len(d.multigoalMeths))
	return b.String()
}
