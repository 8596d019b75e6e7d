// Package plan implements PlanItem, Plan, and the todo list the
// search engine consumes: a tagged variant over Action, Task,
// Unigoal, and Multigoal entries.
package plan

import (
	"fmt"

	"github.com/wren-systems/gtnplan/goal"
	"github.com/wren-systems/gtnplan/value"
)

// Kind discriminates the variant an Item holds.
type Kind int

const (
	ActionItem Kind = iota
	TaskItem
	UnigoalItem
	MultigoalItem
)

func (k Kind) String() string {
	switch k {
	case ActionItem:
		return "action"
	case TaskItem:
		return "task"
	case UnigoalItem:
		return "unigoal"
	case MultigoalItem:
		return "multigoal"
	default:
		return "unknown"
	}
}

// Item is a tagged variant: Action(name, args), Task(name, args),
// Unigoal(var, subject, value), or Multigoal(embedded Multigoal).
// Zero-value Items are never valid: construct via Action, Task, Goal,
// or Goals so the Kind tag always matches the populated payload.
type Item struct {
	kind Kind

	name string
	args []value.Value

	unigoal   goal.Unigoal
	multigoal *goal.Multigoal

	verifyMethod string
	verifyDepth  int
}

// VerifyGoalTask is the reserved task name for the synthetic
// verification item inserted after a unigoal method expansion.
const VerifyGoalTask = "_verify_g"

// VerifyMultigoalTask is the reserved task name for the synthetic
// verification item inserted after a multigoal method expansion.
const VerifyMultigoalTask = "_verify_mg"

// VerifyGoal constructs the synthetic "_verify_g" Task item the
// engine inserts after a unigoal method expansion when verification
// is enabled. It carries the achieving method's name, the Unigoal it
// claimed to achieve, and the search depth at which it was inserted,
// so the built-in verification handler can check the claim and report
// a precise failure.
func VerifyGoal(methodName string, u goal.Unigoal, depth int) Item {
	return Item{kind: TaskItem, name: VerifyGoalTask, unigoal: u, verifyMethod: methodName, verifyDepth: depth}
}

// VerifyMultigoal constructs the synthetic "_verify_mg" Task item the
// engine inserts after a multigoal method expansion.
func VerifyMultigoal(methodName string, mg *goal.Multigoal, depth int) Item {
	return Item{kind: TaskItem, name: VerifyMultigoalTask, multigoal: mg, verifyMethod: methodName, verifyDepth: depth}
}

// VerifyGoalPayload returns the typed payload of a "_verify_g" item.
// ok is false for any other item, including a plain UnigoalItem.
func (i Item) VerifyGoalPayload() (methodName string, u goal.Unigoal, depth int, ok bool) {
	if i.kind != TaskItem || i.name != VerifyGoalTask {
		return "", goal.Unigoal{}, 0, false
	}
	return i.verifyMethod, i.unigoal, i.verifyDepth, true
}

// VerifyMultigoalPayload returns the typed payload of a "_verify_mg"
// item. ok is false for any other item, including a plain
// MultigoalItem.
func (i Item) VerifyMultigoalPayload() (methodName string, mg *goal.Multigoal, depth int, ok bool) {
	if i.kind != TaskItem || i.name != VerifyMultigoalTask {
		return "", nil, 0, false
	}
	return i.verifyMethod, i.multigoal, i.verifyDepth, true
}

// Action constructs a primitive-action PlanItem.
func Action(name string, args ...value.Value) Item {
	return Item{kind: ActionItem, name: name, args: append([]value.Value(nil), args...)}
}

// Task constructs an abstract-task PlanItem awaiting method expansion.
func Task(name string, args ...value.Value) Item {
	return Item{kind: TaskItem, name: name, args: append([]value.Value(nil), args...)}
}

// Goal constructs a Unigoal PlanItem.
func Goal(varName, subject string, desired value.Value) Item {
	return Item{kind: UnigoalItem, unigoal: goal.Unigoal{Var: varName, Subject: subject, Value: desired}}
}

// Goals constructs a Multigoal PlanItem embedding mg.
func Goals(mg *goal.Multigoal) Item {
	return Item{kind: MultigoalItem, multigoal: mg}
}

// Kind reports which variant the Item holds.
func (i Item) Kind() Kind { return i.kind }

// Name returns the action/task name, or the unigoal's variable name,
// or the multigoal's Name, matching the "name" accessor every variant
// exposes in the data model.
func (i Item) Name() string {
	switch i.kind {
	case ActionItem, TaskItem:
		return i.name
	case UnigoalItem:
		return i.unigoal.Var
	case MultigoalItem:
		if i.multigoal != nil {
			return i.multigoal.Name
		}
		return ""
	default:
		return ""
	}
}

// Args returns the action/task argument sequence. Valid only for
// ActionItem and TaskItem; returns nil otherwise.
func (i Item) Args() []value.Value {
	if i.kind != ActionItem && i.kind != TaskItem {
		return nil
	}
	return append([]value.Value(nil), i.args...)
}

// Unigoal returns the embedded Unigoal. Valid only for UnigoalItem.
func (i Item) Unigoal() (goal.Unigoal, bool) {
	if i.kind != UnigoalItem {
		return goal.Unigoal{}, false
	}
	return i.unigoal, true
}

// Multigoal returns the embedded Multigoal. Valid only for
// MultigoalItem.
func (i Item) Multigoal() (*goal.Multigoal, bool) {
	if i.kind != MultigoalItem {
		return nil, false
	}
	return i.multigoal, true
}

// String renders a compact form used in verbose trace lines and test
// failure messages, e.g. "(walk alice home_a park)".
func (i Item) String() string {
	switch i.kind {
	case ActionItem, TaskItem:
		out := "(" + i.name
		for _, a := range i.args {
			out += " " + a.String()
		}
		return out + ")"
	case UnigoalItem:
		return fmt.Sprintf("(%s %s %s)", i.unigoal.Var, i.unigoal.Subject, i.unigoal.Value)
	case MultigoalItem:
		if i.multigoal == nil {
			return "<nil multigoal>"
		}
		return "multigoal:" + i.multigoal.Name
	default:
		return "<invalid item>"
	}
}

// Equal reports equality between two Items, used by the
// strategy-equivalence test suite to compare plans produced by the
// recursive and iterative engines. Action, Task, and Unigoal items
// compare by value; Multigoal items compare by Multigoal Name only,
// not by their cells. Verification payloads are not compared.
func (i Item) Equal(other Item) bool {
	if i.kind != other.kind {
		return false
	}
	switch i.kind {
	case ActionItem, TaskItem:
		if i.name != other.name || len(i.args) != len(other.args) {
			return false
		}
		for idx := range i.args {
			if !i.args[idx].Equal(other.args[idx]) {
				return false
			}
		}
		return true
	case UnigoalItem:
		return i.unigoal.Var == other.unigoal.Var &&
			i.unigoal.Subject == other.unigoal.Subject &&
			i.unigoal.Value.Equal(other.unigoal.Value)
	case MultigoalItem:
		if i.multigoal == nil || other.multigoal == nil {
			return i.multigoal == other.multigoal
		}
		return i.multigoal.Name == other.multigoal.Name
	default:
		return false
	}
}

// Plan is a finite ordered sequence of Items. The engine guarantees
// (never the caller) that a Plan it returns contains only ActionItems.
type Plan []Item

// Equal reports whether two Plans hold pointwise-Equal Items in the
// same order.
func Equal(a, b Plan) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
