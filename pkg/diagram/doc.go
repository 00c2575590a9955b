// Package diagram provides the core diagram models: finite state machines
// and general directed graphs.
//
// # Overview
//
// Both diagram kinds are immutable value objects. All validation runs at
// construction time; a value you hold is always fully valid, and a failed
// construction leaves nothing partially built behind.
//
//   - [FSM]: dense integer states with labels, a start state, accept
//     states, and labeled transitions.
//   - [Digraph]: arbitrary string node tokens connected by labeled edges,
//     with no state semantics and no range validation.
//
// # Edge Sets
//
// Edge and transition collections have set semantics: duplicates are
// removed at construction, and the stored order is sorted by (from, to,
// label) so every render of the same diagram walks edges in the same
// order.
//
// # Construction
//
//	m, err := diagram.NewFSM(
//	    []string{"q_0", "q_1"},
//	    0,                       // start state
//	    []int{1},                // accept states
//	    []diagram.Transition{diagram.NewLabeledTransition(0, 1, "a")},
//	)
//
// Validation failures are reported as structured errors from
// [github.com/machviz/machina/pkg/errors] with the INVALID_* codes.
//
// Rendering lives in [github.com/machviz/machina/pkg/render]; this package
// holds only data and invariants.
package diagram
