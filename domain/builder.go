package domain

import (
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wren-systems/gtnplan/perr"
	"github.com/wren-systems/gtnplan/plan"
)

// Builder accumulates actions, commands, and method sets for a single
// Domain under construction. A Builder is single-use: call Build once
// and discard it.
type Builder struct {
	name string

	actions  namedActions
	commands namedCommands
	tasks    taskMethodSet
	unigoals unigoalMethodSet
	multis   []MultigoalMethodEntry
}

// NewBuilder starts building a Domain named name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name: name,
		actions: namedActions{
			funcs: make(map[string]ActionFunc),
		},
		commands: namedCommands{
			funcs: make(map[string]CommandFunc),
		},
		tasks: taskMethodSet{
			funcs: make(map[string][]TaskMethodEntry),
		},
		unigoals: unigoalMethodSet{
			funcs: make(map[string][]UnigoalMethodEntry),
		},
	}
}

// methodLabel derives a readable label for a registered method from
// its function symbol, falling back to "<key>[<ordinal>]" for
// closures whose symbol carries no useful name. The label only feeds
// verbose traces and verification items; dispatch never depends on it.
func methodLabel(fn any, key string, ordinal int) string {
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" || strings.Contains(name, ".func") {
		return key + "[" + strconv.Itoa(ordinal) + "]"
	}
	return name
}

// RegisterAction registers a primitive action under name. Registering
// the same name twice replaces the earlier callable but keeps its
// original position in ActionNames().
func (b *Builder) RegisterAction(name string, fn ActionFunc) *Builder {
	if _, exists := b.actions.funcs[name]; !exists {
		b.actions.names = append(b.actions.names, name)
	}
	b.actions.funcs[name] = fn
	return b
}

// RegisterCommand registers a simulated command under name. Lazy
// lookahead executes a plan's action "x" through the command named
// "c_x" when one is registered.
func (b *Builder) RegisterCommand(name string, fn CommandFunc) *Builder {
	if _, exists := b.commands.funcs[name]; !exists {
		b.commands.names = append(b.commands.names, name)
	}
	b.commands.funcs[name] = fn
	return b
}

// RegisterTaskMethod appends fn to the ordered method list for task
// name. The search tries methods for a given task in registration
// order, backtracking to the next one on failure.
func (b *Builder) RegisterTaskMethod(name string, fn TaskMethod) *Builder {
	if _, exists := b.tasks.funcs[name]; !exists {
		b.tasks.names = append(b.tasks.names, name)
	}
	entry := TaskMethodEntry{Label: methodLabel(fn, name, len(b.tasks.funcs[name])), Fn: fn}
	b.tasks.funcs[name] = append(b.tasks.funcs[name], entry)
	return b
}

// RegisterUnigoalMethod appends fn to the ordered method list for
// state variable varName.
func (b *Builder) RegisterUnigoalMethod(varName string, fn UnigoalMethod) *Builder {
	if _, exists := b.unigoals.funcs[varName]; !exists {
		b.unigoals.names = append(b.unigoals.names, varName)
	}
	entry := UnigoalMethodEntry{Label: methodLabel(fn, varName, len(b.unigoals.funcs[varName])), Fn: fn}
	b.unigoals.funcs[varName] = append(b.unigoals.funcs[varName], entry)
	return b
}

// RegisterMultigoalMethod appends fn to the domain-wide ordered
// multigoal method list. While at least one multigoal method is
// registered, the engine never falls back to a Multigoal's conjunctive
// unigoal decomposition.
func (b *Builder) RegisterMultigoalMethod(fn MultigoalMethod) *Builder {
	entry := MultigoalMethodEntry{Label: methodLabel(fn, "multigoal", len(b.multis)), Fn: fn}
	b.multis = append(b.multis, entry)
	return b
}

// domainShape is validated in place of Domain itself: Domain carries
// unexported registry fields the validator cannot traverse.
type domainShape struct {
	Name string `validate:"required"`
}

// Build finalizes the Domain, registering the built-in _verify_g and
// _verify_mg task-method entries unconditionally, and validates the
// result. A Domain with an empty Name is a ConfigurationError; a
// Domain is otherwise always buildable, even with empty registries.
func (b *Builder) Build() (*Domain, error) {
	if err := structValidate.Struct(domainShape{Name: b.name}); err != nil {
		return nil, perr.NewConfigurationError("Name", "domain name is required")
	}

	d := &Domain{
		Name:           b.name,
		ID:             uuid.NewString(),
		actions:        b.actions,
		commands:       b.commands,
		taskMethods:    b.tasks,
		unigoalMeths:   b.unigoals,
		multigoalMeths: b.multis,
	}

	// The built-in verification tasks are dispatched through typed
	// entry points (VerifyGoal/VerifyMultigoal) rather than the generic
	// TaskMethod shape, but they still occupy their reserved names in
	// the task registry so the engine treats them as known tasks.
	for _, reserved := range []string{plan.VerifyGoalTask, plan.VerifyMultigoalTask} {
		if _, exists := d.taskMethods.funcs[reserved]; !exists {
			d.taskMethods.names = append(d.taskMethods.names, reserved)
		}
		d.taskMethods.funcs[reserved] = nil
	}

	return d, nil
}
