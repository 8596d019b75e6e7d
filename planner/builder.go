package planner

import (
	"errors"
	"io"
	"log/slog"

	validatorpkg "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wren-systems/gtnplan/domain"
	"github.com/wren-systems/gtnplan/goal"
	"github.com/wren-systems/gtnplan/perr"
	"github.com/wren-systems/gtnplan/search"
)

// Builder accumulates configuration for a single Planner under
// construction. A Builder is single-use: call Build once and discard
// it.
type Builder struct {
	d           *domain.Domain
	verbose     int
	strategy    search.Strategy
	verifyGoals bool
	multigoals  map[string]*goal.Multigoal
	traceWriter io.Writer
}

// NewBuilder starts building a Planner bound to d, with the defaults
// from the planner façade's option table: verbose 0, strategy
// iterative, verify_goals on.
func NewBuilder(d *domain.Domain) *Builder {
	return &Builder{
		d:           d,
		verbose:     0,
		strategy:    search.Iterative,
		verifyGoals: true,
		multigoals:  make(map[string]*goal.Multigoal),
	}
}

// WithVerbose sets the verbosity level (0..3); out-of-range values
// are rejected at Build time, not here.
func (b *Builder) WithVerbose(v int) *Builder {
	b.verbose = v
	return b
}

// WithStrategy sets the search strategy.
func (b *Builder) WithStrategy(strat search.Strategy) *Builder {
	b.strategy = strat
	return b
}

// WithVerifyGoals toggles synthetic verification-item insertion.
func (b *Builder) WithVerifyGoals(on bool) *Builder {
	b.verifyGoals = on
	return b
}

// WithMultigoal registers mg under name in the multigoal table.
func (b *Builder) WithMultigoal(name string, mg *goal.Multigoal) *Builder {
	b.multigoals[name] = mg
	return b
}

// WithTraceWriter directs verbose trace output to w instead of the
// process-wide default logger, keeping the library embeddable: a host
// that wants silence keeps verbose at 0, a host that wants traces in
// a buffer or file supplies its own writer.
func (b *Builder) WithTraceWriter(w io.Writer) *Builder {
	b.traceWriter = w
	return b
}

var structValidate = validatorpkg.New()

// plannerShape carries the validatable subset of a Builder; the
// Planner itself holds unexported fields the validator cannot
// traverse.
type plannerShape struct {
	Domain  *domain.Domain `validate:"required"`
	Verbose int            `validate:"gte=0,lte=3"`
}

func validateVerbose(v int) error {
	if v < 0 || v > 3 {
		return perr.NewConfigurationError("verbose", "must be between 0 and 3")
	}
	return nil
}

// Build finalizes the Planner, validating the configuration. A nil
// Domain or an out-of-range verbosity is a ConfigurationError.
func (b *Builder) Build() (*Planner, error) {
	if err := structValidate.Struct(plannerShape{Domain: b.d, Verbose: b.verbose}); err != nil {
		var verrs validatorpkg.ValidationErrors
		field, reason := "config", "invalid planner configuration"
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Domain":
				field, reason = "domain", "a Planner requires a non-nil Domain"
			case "Verbose":
				field, reason = "verbose", "must be between 0 and 3"
			}
		}
		return nil, perr.NewConfigurationError(field, reason)
	}

	multigoals := make(map[string]*goal.Multigoal, len(b.multigoals))
	for k, v := range b.multigoals {
		multigoals[k] = v
	}

	logger := slog.Default()
	if b.traceWriter != nil {
		logger = slog.New(slog.NewTextHandler(b.traceWriter, nil))
	}

	return &Planner{
		ID:          uuid.NewString(),
		d:           b.d,
		verbose:     b.verbose,
		strategy:    b.strategy,
		verifyGoals: b.verifyGoals,
		multigoals:  multigoals,
		logger:      logger,
	}, nil
}
