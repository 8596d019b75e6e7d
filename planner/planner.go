// Package planner provides the immutable, configured entry point to
// the search engine: find_plan for a single search, and
// run_lazy_lookahead for the act-plan-replan execution loop.
package planner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wren-systems/gtnplan/domain"
	"github.com/wren-systems/gtnplan/goal"
	"github.com/wren-systems/gtnplan/plan"
	"github.com/wren-systems/gtnplan/search"
	"github.com/wren-systems/gtnplan/state"
)

// Planner is an immutable, thread-safe configured handle: a Domain,
// verbosity, search strategy, verify-goals flag, and a named
// Multigoal table. Every With* method returns a new Planner rather
// than mutating the receiver.
type Planner struct {
	// ID is assigned once at Build() time, preserved across every
	// With* clone, and logged alongside each FindPlan/RunLazyLookahead
	// trace line so verbose output can be correlated back to a
	// specific configured Planner instance.
	ID          string
	d           *domain.Domain
	verbose     int
	strategy    search.Strategy
	verifyGoals bool
	multigoals  map[string]*goal.Multigoal
	logger      *slog.Logger
}

// Domain returns the bound Domain.
func (p *Planner) Domain() *domain.Domain { return p.d }

// Verbose returns the configured verbosity level (0..3).
func (p *Planner) Verbose() int { return p.verbose }

// Strategy returns the configured search strategy.
func (p *Planner) Strategy() search.Strategy { return p.strategy }

// VerifyGoals reports whether synthetic verification items are
// inserted after method expansion.
func (p *Planner) VerifyGoals() bool { return p.verifyGoals }

// Multigoal looks up a named entry from the planner's multigoal
// table, letting task methods reference a predefined Multigoal by
// string key instead of constructing one inline.
func (p *Planner) Multigoal(name string) (*goal.Multigoal, bool) {
	mg, ok := p.multigoals[name]
	return mg, ok
}

// WithVerbose returns a clone of p with verbose set to v.
func (p *Planner) WithVerbose(v int) (*Planner, error) {
	if err := validateVerbose(v); err != nil {
		return nil, err
	}
	clone := p.clone()
	clone.verbose = v
	return clone, nil
}

// WithStrategy returns a clone of p using strat.
func (p *Planner) WithStrategy(strat search.Strategy) *Planner {
	clone := p.clone()
	clone.strategy = strat
	return clone
}

// WithVerifyGoals returns a clone of p with verification toggled.
func (p *Planner) WithVerifyGoals(on bool) *Planner {
	clone := p.clone()
	clone.verifyGoals = on
	return clone
}

// WithMultigoal returns a clone of p with mg registered under name in
// the multigoal table.
func (p *Planner) WithMultigoal(name string, mg *goal.Multigoal) *Planner {
	clone := p.clone()
	clone.multigoals = make(map[string]*goal.Multigoal, len(p.multigoals)+1)
	for k, v := range p.multigoals {
		clone.multigoals[k] = v
	}
	clone.multigoals[name] = mg
	return clone
}

func (p *Planner) clone() *Planner {
	c := *p
	return &c
}

// FindPlan searches for a sequence of actions reducing todo to
// nothing, starting from a clone of s. It never mutates s.
func (p *Planner) FindPlan(s *state.State, todo []plan.Item) (plan.Plan, error) {
	traceID := uuid.NewString()
	log := p.logger.With("trace_id", traceID, "planner_id", p.ID)
	if p.verbose >= 1 {
		log.Info("find_plan started", "domain", p.d.Name, "domain_id", p.d.ID,
			"strategy", p.strategy.String(), "verify_goals", p.verifyGoals, "todo_len", len(todo))
	}

	result, err := search.FindPlan(p.d, s, todo, search.Options{
		Strategy:    p.strategy,
		VerifyGoals: p.verifyGoals,
		Verbose:     p.verbose,
		Logger:      log,
	})

	if p.verbose >= 1 {
		if err != nil {
			log.Info("find_plan failed", "error", err)
		} else {
			log.Info("find_plan succeeded", "plan_len", len(result))
		}
	}
	return result, err
}

// RunLazyLookahead drives the act-plan-replan loop: plan, execute the
// plan's actions one at a time via simulated commands (falling back
// to the action callable of the same name when no command is
// registered), and replan from the last state reached whenever a
// command fails. Completing a whole plan does not end the loop either:
// commands may diverge from the actions the search assumed, so the
// next iteration plans again from the state execution produced, and
// only an empty plan confirms the todo is discharged. The loop ends
// when find_plan returns no plan (the current state is returned
// unchanged by that iteration), when a plan comes back empty
// (success), or when maxTries is exhausted.
//
// ctx is checked once per iteration, after planning and before
// command execution; a cancelled context stops the loop early and
// returns the last state reached.
func (p *Planner) RunLazyLookahead(ctx context.Context, s *state.State, todo []plan.Item, maxTries int) *state.State {
	traceID := uuid.NewString()
	log := p.logger.With("trace_id", traceID, "planner_id", p.ID)
	current := s.Copy("")

	for tries := 0; tries < maxTries; tries++ {
		found, err := p.FindPlan(current, todo)
		if err != nil {
			if p.verbose >= 1 {
				log.Info("run_lazy_lookahead: find_plan found no plan", "tries", tries, "error", err)
			}
			return current
		}
		if len(found) == 0 {
			if p.verbose >= 1 {
				log.Info("run_lazy_lookahead succeeded with an empty plan", "tries", tries)
			}
			return current
		}

		select {
		case <-ctx.Done():
			if p.verbose >= 1 {
				log.Info("run_lazy_lookahead cancelled", "tries", tries)
			}
			return current
		default:
		}

		nextState, stoppedEarly := p.executeOnce(log, current, found)
		current = nextState
		if p.verbose >= 1 && !stoppedEarly {
			log.Info("run_lazy_lookahead: plan executed; planning again to confirm", "tries", tries)
		}
	}

	if p.verbose >= 1 {
		log.Info("run_lazy_lookahead exhausted max_tries", "max_tries", maxTries)
	}
	return current
}

// executeOnce applies each action in found, in order, via its command
// (or the action callable of the same name if no command is
// registered), stopping at the first failure. It returns the state
// reached and whether execution was cut short by a command failure.
func (p *Planner) executeOnce(log *slog.Logger, s *state.State, found plan.Plan) (*state.State, bool) {
	current := s
	for _, item := range found {
		cmdName := "c_" + item.Name()
		fn, ok := p.d.Command(cmdName)
		if !ok {
			var actionFn domain.ActionFunc
			actionFn, ok = p.d.Action(item.Name())
			fn = domain.CommandFunc(actionFn)
		}
		if !ok {
			if p.verbose >= 2 {
				log.Info("run_lazy_lookahead: no command or action registered", "action", item.Name())
			}
			return current, true
		}

		next, applied := fn(current.Copy(""), item.Args())
		if !applied {
			if p.verbose >= 2 {
				log.Info("run_lazy_lookahead: command failed", "action", item.String())
			}
			return current, true
		}
		current = next
	}
	return current, false
}
