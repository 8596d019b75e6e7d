package search

import (
	"github.com/wren-systems/gtnplan/domain"
	"github.com/wren-systems/gtnplan/perr"
	"github.com/wren-systems/gtnplan/plan"
	"github.com/wren-systems/gtnplan/state"
)

// seekRecursive is the direct recursive implementation of the core
// recurrence: dispatch on the head of todo, recurse on the tail, and
// let a failed recursive call return up to the caller so the caller
// can try its next alternative. Failure is communicated by a non-nil
// error; perr.ErrNoPlan (or a wrapping of it) is soft and
// backtrackable, an *perr.UnknownItemError is hard and propagates
// straight to the top without trying further alternatives.
func seekRecursive(d *domain.Domain, s *state.State, todo []plan.Item, pl plan.Plan, depth int, verifyGoals bool, tr tracer) (plan.Plan, error) {
	if len(todo) == 0 {
		return pl, nil
	}
	tr.expansion(depth, todo)
	item, rest := todo[0], todo[1:]

	switch item.Kind() {
	case plan.ActionItem:
		return seekAction(d, s, item, rest, pl, depth, verifyGoals, tr)

	case plan.TaskItem:
		return seekTask(d, s, item, rest, pl, depth, verifyGoals, tr)

	case plan.UnigoalItem:
		return seekUnigoal(d, s, item, rest, pl, depth, verifyGoals, tr)

	case plan.MultigoalItem:
		return seekMultigoal(d, s, item, rest, pl, depth, verifyGoals, tr)

	default:
		return nil, perr.ErrNoPlan
	}
}

func seekAction(d *domain.Domain, s *state.State, item plan.Item, rest []plan.Item, pl plan.Plan, depth int, verifyGoals bool, tr tracer) (plan.Plan, error) {
	fn, ok := d.Action(item.Name())
	if !ok {
		return nil, perr.ErrNoPlan
	}
	newState, ok := fn(s.Copy(""), item.Args())
	tr.applicability(depth, item, ok)
	if !ok {
		return nil, perr.ErrNoPlan
	}
	tr.stateDump(depth, newState)
	return seekRecursive(d, newState, rest, append(pl, item), depth+1, verifyGoals, tr)
}

func seekTask(d *domain.Domain, s *state.State, item plan.Item, rest []plan.Item, pl plan.Plan, depth int, verifyGoals bool, tr tracer) (plan.Plan, error) {
	name := item.Name()

	// A name registered as both action and task is dispatched as an
	// action: direct application wins over method expansion.
	if fn, ok := d.Action(name); ok {
		newState, ok := fn(s.Copy(""), item.Args())
		tr.applicability(depth, item, ok)
		if !ok {
			return nil, perr.ErrNoPlan
		}
		tr.stateDump(depth, newState)
		applied := plan.Action(name, item.Args()...)
		return seekRecursive(d, newState, rest, append(pl, applied), depth+1, verifyGoals, tr)
	}

	if name == plan.VerifyGoalTask {
		sub, ok := d.VerifyGoal(s, item)
		tr.applicability(depth, item, ok)
		if !ok {
			return nil, perr.ErrNoPlan
		}
		return seekRecursive(d, s, prependTodo(sub, nil, rest), pl, depth+1, verifyGoals, tr)
	}
	if name == plan.VerifyMultigoalTask {
		sub, ok := d.VerifyMultigoal(s, item)
		tr.applicability(depth, item, ok)
		if !ok {
			return nil, perr.ErrNoPlan
		}
		return seekRecursive(d, s, prependTodo(sub, nil, rest), pl, depth+1, verifyGoals, tr)
	}

	if !d.HasTaskMethods(name) {
		return nil, perr.NewUnknownItemError(perr.UnknownTask, name, depth)
	}

	for _, method := range d.TaskMethods(name) {
		tr.trying(depth, "task", name, method.Label)
		sub, ok := method.Fn(s, item.Args())
		tr.applicability(depth, item, ok)
		if !ok {
			continue
		}
		result, err := seekRecursive(d, s, prependTodo(sub, nil, rest), pl, depth+1, verifyGoals, tr)
		if err == nil {
			return result, nil
		}
		if isHardError(err) {
			return nil, err
		}
	}
	return nil, perr.ErrNoPlan
}

func seekUnigoal(d *domain.Domain, s *state.State, item plan.Item, rest []plan.Item, pl plan.Plan, depth int, verifyGoals bool, tr tracer) (plan.Plan, error) {
	u, _ := item.Unigoal()

	if u.Satisfied(s) {
		return seekRecursive(d, s, rest, pl, depth, verifyGoals, tr)
	}

	if !d.HasUnigoalMethods(u.Var) {
		return nil, perr.NewUnknownItemError(perr.UnknownUnigoal, u.Var, depth)
	}

	for _, method := range d.UnigoalMethods(u.Var) {
		tr.trying(depth, "unigoal", u.Var, method.Label)
		sub, ok := method.Fn(s, u)
		tr.applicability(depth, item, ok)
		if !ok {
			continue
		}
		var verify *plan.Item
		if verifyGoals {
			v := plan.VerifyGoal(method.Label, u, depth)
			verify = &v
		}
		result, err := seekRecursive(d, s, prependTodo(sub, verify, rest), pl, depth+1, verifyGoals, tr)
		if err == nil {
			return result, nil
		}
		if isHardError(err) {
			return nil, err
		}
	}
	return nil, perr.ErrNoPlan
}

func seekMultigoal(d *domain.Domain, s *state.State, item plan.Item, rest []plan.Item, pl plan.Plan, depth int, verifyGoals bool, tr tracer) (plan.Plan, error) {
	mg, _ := item.Multigoal()

	if mg.Satisfied(s) {
		return seekRecursive(d, s, rest, pl, depth, verifyGoals, tr)
	}

	if d.HasMultigoalMethods() {
		for _, method := range d.MultigoalMethods() {
			tr.trying(depth, "multigoal", mg.Name, method.Label)
			sub, ok := method.Fn(s, mg)
			tr.applicability(depth, item, ok)
			if !ok {
				continue
			}
			var verify *plan.Item
			if verifyGoals {
				v := plan.VerifyMultigoal(method.Label, mg, depth)
				verify = &v
			}
			result, err := seekRecursive(d, s, prependTodo(sub, verify, rest), pl, depth+1, verifyGoals, tr)
			if err == nil {
				return result, nil
			}
			if isHardError(err) {
				return nil, err
			}
		}
		return nil, perr.ErrNoPlan
	}

	// No multigoal methods declared: fall back to the conjunction of
	// the Multigoal's own unigoals, in its intrinsic enumeration order.
	unigoals := mg.ToUnigoals()
	expanded := make([]plan.Item, 0, len(unigoals)+len(rest))
	for _, u := range unigoals {
		expanded = append(expanded, plan.Goal(u.Var, u.Subject, u.Value))
	}
	expanded = append(expanded, rest...)
	return seekRecursive(d, s, expanded, pl, depth+1, verifyGoals, tr)
}
