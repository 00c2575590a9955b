package diagram

import (
	"slices"

	"github.com/machviz/machina/pkg/errors"
)

// FSM is a finite state machine diagram. States are identified by dense
// indices 0..N-1 into the state label sequence. Values are immutable once
// constructed; every reference held by the machine has been validated.
type FSM struct {
	states      []string
	start       int
	accept      map[int]struct{}
	transitions []Transition
}

// NewFSM constructs a validated FSM.
//
// Every state reference must be in range: the start state, every accept
// state, and both endpoints of every transition must index into states.
// Violations return an INVALID_STATE error and no machine.
func NewFSM(states []string, start int, accept []int, transitions []Transition) (*FSM, error) {
	n := len(states)

	if start < 0 || start >= n {
		return nil, errors.New(errors.ErrCodeInvalidState, "got %d states, but start state is %d", n, start)
	}
	for _, q := range accept {
		if q < 0 || q >= n {
			return nil, errors.New(errors.ErrCodeInvalidState, "got %d states, but an accept state is %d", n, q)
		}
	}
	for _, tr := range transitions {
		if tr.From < 0 || tr.From >= n || tr.To < 0 || tr.To >= n {
			return nil, errors.New(errors.ErrCodeInvalidState, "got %d states, but a transition references %d -> %d", n, tr.From, tr.To)
		}
	}

	acceptSet := make(map[int]struct{}, len(accept))
	for _, q := range accept {
		acceptSet[q] = struct{}{}
	}

	return &FSM{
		states:      slices.Clone(states),
		start:       start,
		accept:      acceptSet,
		transitions: normalizeTransitions(transitions),
	}, nil
}

// States returns a copy of the state label sequence.
func (m *FSM) States() []string {
	return slices.Clone(m.states)
}

// StateCount returns the number of states.
func (m *FSM) StateCount() int {
	return len(m.states)
}

// Start returns the start state index.
func (m *FSM) Start() int {
	return m.start
}

// IsAccept reports whether state q is an accept state.
func (m *FSM) IsAccept(q int) bool {
	_, ok := m.accept[q]
	return ok
}

// AcceptStates returns the accept state indices in ascending order.
func (m *FSM) AcceptStates() []int {
	out := make([]int, 0, len(m.accept))
	for q := range m.accept {
		out = append(out, q)
	}
	slices.Sort(out)
	return out
}

// Transitions returns a copy of the normalized transition set.
// The order is stable across calls: sorted by (from, to, label).
func (m *FSM) Transitions() []Transition {
	return slices.Clone(m.transitions)
}
