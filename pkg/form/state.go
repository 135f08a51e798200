package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/dmitrymomot/formkit/pkg/validator"
)

// State is the serializable snapshot of a session, used by stores to keep a
// session alive across requests.
type State struct {
	ID        string              `json:"id"`
	Form      string              `json:"form"`
	Lang      string              `json:"lang,omitempty"`
	Initial   validator.Record    `json:"initial"`
	Values    validator.Record    `json:"values"`
	Errors    map[string][]string `json:"errors"`
	Touched   map[string]bool     `json:"touched"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// State captures the session under the given id and form name.
func (s *Session) State(id, form string) State {
	return State{
		ID:        id,
		Form:      form,
		Lang:      s.lang,
		Initial:   s.initial.Clone(),
		Values:    s.values.Clone(),
		Errors:    cloneErrors(s.errors),
		Touched:   maps.Clone(s.touched),
		UpdatedAt: time.Now().UTC(),
	}
}

// Restore rebuilds a session from a snapshot, validating through registry.
// Pass WithLocalizer to keep rendering messages in state.Lang.
func Restore(state State, registry *validator.Registry, opts ...Option) *Session {
	s := NewWithRegistry(state.Initial, registry, opts...)
	if state.Values != nil {
		s.values = state.Values.Clone()
	}
	s.errors = cloneErrors(state.Errors)
	if state.Touched != nil {
		s.touched = maps.Clone(state.Touched)
	}
	return s
}

// DecodeState parses a stored snapshot. Numbers stay json.Number, as they
// arrive from the HTTP binder.
func DecodeState(data []byte) (State, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var state State
	if err := dec.Decode(&state); err != nil {
		return State{}, fmt.Errorf("decode session state: %w", err)
	}
	return state, nil
}

func (st State) clone() State {
	out := st
	out.Initial = st.Initial.Clone()
	out.Values = st.Values.Clone()
	out.Errors = cloneErrors(st.Errors)
	out.Touched = maps.Clone(st.Touched)
	if out.Touched == nil {
		out.Touched = map[string]bool{}
	}
	return out
}

// Valid reports whether no field in the snapshot carries an error message,
// matching Session.IsValid.
func (st State) Valid() bool {
	for _, msgs := range st.Errors {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}
