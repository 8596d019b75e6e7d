package goal

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/wren-systems/gtnplan/state"
	"github.com/wren-systems/gtnplan/value"
)

type subjectMap = orderedmap.OrderedMap[string, value.Value]

// Multigoal is a named ordered mapping var_name -> subject -> Value,
// interpreted as the conjunction of the corresponding Unigoals. It has
// the same two-level shape as State's variables.
type Multigoal struct {
	Name      string
	variables *orderedmap.OrderedMap[string, *subjectMap]
}

// New creates an empty, named Multigoal.
func New(name string) *Multigoal {
	return &Multigoal{
		Name:      name,
		variables: orderedmap.New[string, *subjectMap](),
	}
}

// Set adds or overwrites a single goal cell (var, subject) -> val.
func (m *Multigoal) Set(varName, subject string, val value.Value) {
	sm, ok := m.variables.Get(varName)
	if !ok {
		sm = orderedmap.New[string, value.Value]()
		m.variables.Set(varName, sm)
	}
	sm.Set(subject, val)
}

// VarNames enumerates the Multigoal's variable names in insertion order.
func (m *Multigoal) VarNames() []string {
	names := make([]string, 0, m.variables.Len())
	for pair := m.variables.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// ToUnigoals flattens the Multigoal into its constituent Unigoals, in
// the Multigoal's own variable/subject enumeration order. The engine
// relies on this exact order for the conjunctive-unigoal fallback: it
// must never reorder goals inside a Multigoal.
func (m *Multigoal) ToUnigoals() []Unigoal {
	var out []Unigoal
	for pair := m.variables.Oldest(); pair != nil; pair = pair.Next() {
		for inner := pair.Value.Oldest(); inner != nil; inner = inner.Next() {
			out = append(out, Unigoal{Var: pair.Key, Subject: inner.Key, Value: inner.Value})
		}
	}
	return out
}

// FromUnigoals builds a named Multigoal from a flat list of Unigoals,
// preserving the list's order.
func FromUnigoals(name string, goals []Unigoal) *Multigoal {
	mg := New(name)
	for _, g := range goals {
		mg.Set(g.Var, g.Subject, g.Value)
	}
	return mg
}

// Satisfied reports whether every cell of the Multigoal holds in s.
func (m *Multigoal) Satisfied(s *state.State) bool {
	return len(m.Unsatisfied(s)) == 0
}

// Unsatisfied returns the Unigoals of the Multigoal that do not yet
// hold in s, in the Multigoal's own enumeration order.
func (m *Multigoal) Unsatisfied(s *state.State) []Unigoal {
	var out []Unigoal
	for _, u := range m.ToUnigoals() {
		if !u.Satisfied(s) {
			out = append(out, u)
		}
	}
	return out
}

// Copy returns a deep clone, optionally renamed.
func (m *Multigoal) Copy(newName string) *Multigoal {
	clone := New(newName)
	if newName == "" {
		clone.Name = m.Name
	}
	for pair := m.variables.Oldest(); pair != nil; pair = pair.Next() {
		for inner := pair.Value.Oldest(); inner != nil; inner = inner.Next() {
			clone.Set(pair.Key, inner.Key, inner.Value)
		}
	}
	return clone
}
