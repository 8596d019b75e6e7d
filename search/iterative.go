package search

import (
	"github.com/wren-systems/gtnplan/domain"
	"github.com/wren-systems/gtnplan/perr"
	"github.com/wren-systems/gtnplan/plan"
	"github.com/wren-systems/gtnplan/state"
)

// searchFrame is one node of the explicit LIFO frontier: a state to
// search from, the todo list remaining at that point, the plan
// accumulated to reach it, and the depth counter.
type searchFrame struct {
	state *state.State
	todo  []plan.Item
	pl    plan.Plan
	depth int
}

// seekIterative is the explicit-stack counterpart to seekRecursive.
// Alternatives (task methods, unigoal methods, multigoal methods) are
// pushed in reverse preference order so that popping the stack (LIFO)
// visits them in the same forward preference order the recursive
// engine's sequential recursive calls would.
func seekIterative(d *domain.Domain, s *state.State, todo []plan.Item, verifyGoals bool, tr tracer) (plan.Plan, error) {
	stack := []searchFrame{{state: s, todo: todo, pl: plan.Plan{}, depth: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(top.todo) == 0 {
			return top.pl, nil
		}
		tr.expansion(top.depth, top.todo)
		item, rest := top.todo[0], top.todo[1:]

		switch item.Kind() {
		case plan.ActionItem:
			fn, ok := d.Action(item.Name())
			if !ok {
				continue
			}
			newState, ok := fn(top.state.Copy(""), item.Args())
			tr.applicability(top.depth, item, ok)
			if !ok {
				continue
			}
			tr.stateDump(top.depth, newState)
			stack = append(stack, searchFrame{
				state: newState,
				todo:  rest,
				pl:    append(append(plan.Plan{}, top.pl...), item),
				depth: top.depth + 1,
			})

		case plan.TaskItem:
			name := item.Name()

			if fn, ok := d.Action(name); ok {
				newState, ok := fn(top.state.Copy(""), item.Args())
				tr.applicability(top.depth, item, ok)
				if !ok {
					continue
				}
				tr.stateDump(top.depth, newState)
				applied := plan.Action(name, item.Args()...)
				stack = append(stack, searchFrame{
					state: newState,
					todo:  rest,
					pl:    append(append(plan.Plan{}, top.pl...), applied),
					depth: top.depth + 1,
				})
				continue
			}

			if name == plan.VerifyGoalTask {
				sub, ok := d.VerifyGoal(top.state, item)
				tr.applicability(top.depth, item, ok)
				if !ok {
					continue
				}
				stack = append(stack, searchFrame{
					state: top.state,
					todo:  prependTodo(sub, nil, rest),
					pl:    top.pl,
					depth: top.depth + 1,
				})
				continue
			}
			if name == plan.VerifyMultigoalTask {
				sub, ok := d.VerifyMultigoal(top.state, item)
				tr.applicability(top.depth, item, ok)
				if !ok {
					continue
				}
				stack = append(stack, searchFrame{
					state: top.state,
					todo:  prependTodo(sub, nil, rest),
					pl:    top.pl,
					depth: top.depth + 1,
				})
				continue
			}

			if !d.HasTaskMethods(name) {
				return nil, perr.NewUnknownItemError(perr.UnknownTask, name, top.depth)
			}

			methods := d.TaskMethods(name)
			for i := len(methods) - 1; i >= 0; i-- {
				tr.trying(top.depth, "task", name, methods[i].Label)
				sub, ok := methods[i].Fn(top.state, item.Args())
				tr.applicability(top.depth, item, ok)
				if !ok {
					continue
				}
				stack = append(stack, searchFrame{
					state: top.state,
					todo:  prependTodo(sub, nil, rest),
					pl:    top.pl,
					depth: top.depth + 1,
				})
			}

		case plan.UnigoalItem:
			u, _ := item.Unigoal()

			if u.Satisfied(top.state) {
				stack = append(stack, searchFrame{state: top.state, todo: rest, pl: top.pl, depth: top.depth})
				continue
			}

			if !d.HasUnigoalMethods(u.Var) {
				return nil, perr.NewUnknownItemError(perr.UnknownUnigoal, u.Var, top.depth)
			}

			methods := d.UnigoalMethods(u.Var)
			for i := len(methods) - 1; i >= 0; i-- {
				tr.trying(top.depth, "unigoal", u.Var, methods[i].Label)
				sub, ok := methods[i].Fn(top.state, u)
				tr.applicability(top.depth, item, ok)
				if !ok {
					continue
				}
				var verify *plan.Item
				if verifyGoals {
					v := plan.VerifyGoal(methods[i].Label, u, top.depth)
					verify = &v
				}
				stack = append(stack, searchFrame{
					state: top.state,
					todo:  prependTodo(sub, verify, rest),
					pl:    top.pl,
					depth: top.depth + 1,
				})
			}

		case plan.MultigoalItem:
			mg, _ := item.Multigoal()

			if mg.Satisfied(top.state) {
				stack = append(stack, searchFrame{state: top.state, todo: rest, pl: top.pl, depth: top.depth})
				continue
			}

			if d.HasMultigoalMethods() {
				methods := d.MultigoalMethods()
				for i := len(methods) - 1; i >= 0; i-- {
					tr.trying(top.depth, "multigoal", mg.Name, methods[i].Label)
					sub, ok := methods[i].Fn(top.state, mg)
					tr.applicability(top.depth, item, ok)
					if !ok {
						continue
					}
					var verify *plan.Item
					if verifyGoals {
						v := plan.VerifyMultigoal(methods[i].Label, mg, top.depth)
						verify = &v
					}
					stack = append(stack, searchFrame{
						state: top.state,
						todo:  prependTodo(sub, verify, rest),
						pl:    top.pl,
						depth: top.depth + 1,
					})
				}
				continue
			}

			unigoals := mg.ToUnigoals()
			expanded := make([]plan.Item, 0, len(unigoals)+len(rest))
			for _, u := range unigoals {
				expanded = append(expanded, plan.Goal(u.Var, u.Subject, u.Value))
			}
			expanded = append(expanded, rest...)
			stack = append(stack, searchFrame{
				state: top.state,
				todo:  expanded,
				pl:    top.pl,
				depth: top.depth + 1,
			})
		}
	}

	return nil, perr.ErrNoPlan
}
