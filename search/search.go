// Package search implements the depth-first backtracking engine that
// turns a (state, todo) pair into a plan of primitive actions. It
// offers two interchangeable evaluation shapes, recursive and
// iterative, that are required to produce identical plans for every
// input; see equivalence_test.go.
package search

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/wren-systems/gtnplan/domain"
	"github.com/wren-systems/gtnplan/perr"
	"github.com/wren-systems/gtnplan/plan"
	"github.com/wren-systems/gtnplan/state"
)

// Strategy selects which evaluation shape FindPlan uses.
type Strategy int

const (
	Recursive Strategy = iota
	Iterative
)

func (s Strategy) String() string {
	if s == Recursive {
		return "recursive"
	}
	return "iterative"
}

// Options configures a single FindPlan invocation.
type Options struct {
	// Strategy picks the evaluation shape; both return identical plans.
	Strategy Strategy

	// VerifyGoals controls whether a synthetic "_verify_g"/"_verify_mg"
	// check is spliced in after a Unigoal/Multigoal method expansion
	// (see the domain package's built-in verification handlers).
	VerifyGoals bool

	// Verbose sets the trace level: at 2 the engine logs one line per
	// expansion, at 3 it adds applicability notes, per-method trying
	// messages, and state dumps. Levels 0 and 1 are silent here (level
	// 1 is the planner façade's parameters-and-result report).
	Verbose int

	// Logger receives the trace lines; ignored when Verbose < 2.
	Logger *slog.Logger
}

// FindPlan searches for a sequence of actions that reduces todo to
// nothing, starting from a clone of s. It never mutates s, even on
// failure or on a search that terminates with a hard error.
func FindPlan(d *domain.Domain, s *state.State, todo []plan.Item, opts Options) (plan.Plan, error) {
	working := s.Copy(s.Name)
	tr := tracer{verbose: opts.Verbose, log: opts.Logger}

	var found plan.Plan
	var err error
	switch opts.Strategy {
	case Recursive:
		found, err = seekRecursive(d, working, todo, plan.Plan{}, 0, opts.VerifyGoals, tr)
	default:
		found, err = seekIterative(d, working, todo, opts.VerifyGoals, tr)
	}
	if err != nil {
		return nil, err
	}
	if found == nil {
		found = plan.Plan{}
	}
	return found, nil
}

// isHardError reports whether err is a non-backtrackable domain error
// (UnknownItemError) that must abort the whole search rather than
// trigger backtracking to a sibling alternative.
func isHardError(err error) bool {
	var unknown *perr.UnknownItemError
	return errors.As(err, &unknown)
}

// prependTodo builds a fresh todo list: sub, then extra (if any,
// typically a single verification item), then rest. The result never
// aliases rest's backing array so sibling alternatives cannot corrupt
// one another.
func prependTodo(sub []plan.Item, extra *plan.Item, rest []plan.Item) []plan.Item {
	n := len(sub) + len(rest)
	if extra != nil {
		n++
	}
	out := make([]plan.Item, 0, n)
	out = append(out, sub...)
	if extra != nil {
		out = append(out, *extra)
	}
	out = append(out, rest...)
	return out
}

// tracer emits the verbose trace lines described in the external
// interface contract. The wording is informational, not machine
// parsed; only the presence of a per-expansion line at level 2 and of
// applicability/trying detail at level 3 is promised.
type tracer struct {
	verbose int
	log     *slog.Logger
}

func (t tracer) enabled(level int) bool {
	return t.verbose >= level && t.log != nil
}

func (t tracer) expansion(depth int, todo []plan.Item) {
	if !t.enabled(2) {
		return
	}
	t.log.Info("expansion", "depth", depth, "todo_list", todoString(todo))
}

func (t tracer) trying(depth int, kind, target, method string) {
	if !t.enabled(3) {
		return
	}
	t.log.Info("trying method", "depth", depth, "kind", kind, "target", target, "method", method)
}

func (t tracer) applicability(depth int, item plan.Item, applicable bool) {
	if !t.enabled(3) {
		return
	}
	note := "not applicable"
	if applicable {
		note = "applicable"
	}
	t.log.Info(note, "depth", depth, "item", item.String())
}

func (t tracer) stateDump(depth int, s *state.State) {
	if !t.enabled(3) {
		return
	}
	t.log.Info("state", "depth", depth, "state", s.String())
}

func todoString(todo []plan.Item) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range todo {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteByte(']')
	return b.String()
}
