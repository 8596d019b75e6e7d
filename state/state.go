// Package state implements the planner's world-state model: a named
// snapshot mapping state-variable names to subject->value cells, with
// insertion order preserved at both levels for deterministic
// enumeration.
package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/wren-systems/gtnplan/value"
)

// subjectMap is the inner, subject-keyed level of a state variable.
type subjectMap = orderedmap.OrderedMap[string, value.Value]

// State is a named snapshot of the world: variables: var_name ->
// (subject -> Value), with both levels preserving insertion order.
// The zero value is not usable; construct with New.
type State struct {
	Name      string
	variables *orderedmap.OrderedMap[string, *subjectMap]
	copySeq   int
}

// New creates an empty, named state.
func New(name string) *State {
	return &State{
		Name:      name,
		variables: orderedmap.New[string, *subjectMap](),
	}
}

// Set writes a single cell (var, subject) -> val, creating the
// variable's subject map on first use.
func (s *State) Set(varName, subject string, val value.Value) {
	sm, ok := s.variables.Get(varName)
	if !ok {
		sm = orderedmap.New[string, value.Value]()
		s.variables.Set(varName, sm)
	}
	sm.Set(subject, val)
}

// Get reads a single cell, reporting whether it is present.
func (s *State) Get(varName, subject string) (value.Value, bool) {
	sm, ok := s.variables.Get(varName)
	if !ok {
		return value.Value{}, false
	}
	return sm.Get(subject)
}

// Has reports whether the cell (var, subject) is present.
func (s *State) Has(varName, subject string) bool {
	_, ok := s.Get(varName, subject)
	return ok
}

// HasVar reports whether the named variable exists at all (even with
// zero subjects).
func (s *State) HasVar(varName string) bool {
	_, ok := s.variables.Get(varName)
	return ok
}

// VarNames enumerates state-variable names in insertion order.
func (s *State) VarNames() []string {
	names := make([]string, 0, s.variables.Len())
	for pair := s.variables.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Subjects enumerates the subjects of a variable in insertion order,
// or nil if the variable does not exist.
func (s *State) Subjects(varName string) []string {
	sm, ok := s.variables.Get(varName)
	if !ok {
		return nil
	}
	subjects := make([]string, 0, sm.Len())
	for pair := sm.Oldest(); pair != nil; pair = pair.Next() {
		subjects = append(subjects, pair.Key)
	}
	return subjects
}

// VarMap returns the subject->Value cells of a variable as a plain Go
// map, or nil if the variable does not exist. The returned map is a
// snapshot; mutating it does not affect the State.
func (s *State) VarMap(varName string) map[string]value.Value {
	sm, ok := s.variables.Get(varName)
	if !ok {
		return nil
	}
	out := make(map[string]value.Value, sm.Len())
	for pair := sm.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// SetVarMap replaces an entire variable's subject map, preserving the
// iteration order of the keys slice supplied.
func (s *State) SetVarMap(varName string, subjects []string, values map[string]value.Value) {
	sm := orderedmap.New[string, value.Value]()
	for _, subj := range subjects {
		sm.Set(subj, values[subj])
	}
	s.variables.Set(varName, sm)
}

// Copy returns a deep clone. If newName is empty, the clone is named
// "<original>_copy_<n>" for an incrementing n scoped to the receiver.
// The search applies every action to a Copy; frames that only expand
// methods or verify goals share their parent's state without writing
// to it, so planner operations never mutate a caller-visible state.
func (s *State) Copy(newName string) *State {
	clone := &State{
		variables: orderedmap.New[string, *subjectMap](),
	}
	for pair := s.variables.Oldest(); pair != nil; pair = pair.Next() {
		sm := orderedmap.New[string, value.Value]()
		for inner := pair.Value.Oldest(); inner != nil; inner = inner.Next() {
			sm.Set(inner.Key, inner.Value)
		}
		clone.variables.Set(pair.Key, sm)
	}
	if newName != "" {
		clone.Name = newName
	} else {
		clone.Name = s.Name + "_copy_" + strconv.Itoa(s.copySeq)
		s.copySeq++
	}
	return clone
}

// String renders the full variable store in enumeration order, e.g.
// `s0{loc.alice="park", cash.alice=5}`. Used by verbose state dumps
// and test failure messages only.
func (s *State) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('{')
	first := true
	for pair := s.variables.Oldest(); pair != nil; pair = pair.Next() {
		for inner := pair.Value.Oldest(); inner != nil; inner = inner.Next() {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%s.%s=%s", pair.Key, inner.Key, inner.Value)
		}
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes the variable store as a two-level JSON object,
// writing variables and subjects in their stored enumeration order so
// a round-trip preserves it.
func (s *State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	firstVar := true
	for pair := s.variables.Oldest(); pair != nil; pair = pair.Next() {
		if !firstVar {
			buf.WriteByte(',')
		}
		firstVar = false
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(":{")
		firstSubj := true
		for inner := pair.Value.Oldest(); inner != nil; inner = inner.Next() {
			if !firstSubj {
				buf.WriteByte(',')
			}
			firstSubj = false
			subj, err := json.Marshal(inner.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(subj)
			buf.WriteByte(':')
			val, err := inner.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a two-level JSON object produced by
// MarshalJSON, inserting variables and subjects in source-text order.
// The decoded state keeps the receiver's Name.
func (s *State) UnmarshalJSON(data []byte) error {
	var doc value.Value
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Kind() != value.KindObject {
		return fmt.Errorf("state: expected a JSON object, got %s", doc)
	}
	s.variables = orderedmap.New[string, *subjectMap]()
	for _, varName := range doc.ObjectKeys() {
		subjects, _ := doc.ObjectGet(varName)
		if subjects.Kind() != value.KindObject {
			return fmt.Errorf("state: variable %q: expected a JSON object, got %s", varName, subjects)
		}
		for _, subject := range subjects.ObjectKeys() {
			v, _ := subjects.ObjectGet(subject)
			s.Set(varName, subject, v)
		}
		if len(subjects.ObjectKeys()) == 0 {
			s.variables.Set(varName, orderedmap.New[string, value.Value]())
		}
	}
	return nil
}

// Equal reports whether two states hold identical variables (same
// variable names, same subjects, same values, ignoring Name). Per the
// data-model invariant, two states with identical variables are
// behaviourally indistinguishable to the planner.
func (s *State) Equal(other *State) bool {
	if s.variables.Len() != other.variables.Len() {
		return false
	}
	for pair := s.variables.Oldest(); pair != nil; pair = pair.Next() {
		otherSM, ok := other.variables.Get(pair.Key)
		if !ok || otherSM.Len() != pair.Value.Len() {
			return false
		}
		for inner := pair.Value.Oldest(); inner != nil; inner = inner.Next() {
			otherVal, ok := otherSM.Get(inner.Key)
			if !ok || !inner.Value.Equal(otherVal) {
				return false
			}
		}
	}
	return true
}
