package diagram

import (
	"fmt"
	"slices"
	"strings"

	"github.com/machviz/machina/pkg/errors"
)

// Edge is a directed edge between two node tokens in a [Digraph].
// The label is optional: Labeled distinguishes "no label" from an empty
// label, which matters for DOT output where the label clause is omitted
// entirely when absent.
type Edge struct {
	From    string
	To      string
	Label   string
	Labeled bool
}

// NewEdge creates an unlabeled edge.
func NewEdge(from, to string) Edge {
	return Edge{From: from, To: to}
}

// NewLabeledEdge creates a labeled edge. An empty label is still a label:
// it renders as empty text rather than being omitted.
func NewLabeledEdge(from, to, label string) Edge {
	return Edge{From: from, To: to, Label: label, Labeled: true}
}

// Transition is a directed edge between two state indices in an [FSM].
// Endpoints are dense indices into the FSM's state label sequence.
type Transition struct {
	From    int
	To      int
	Label   string
	Labeled bool
}

// NewTransition creates an unlabeled transition.
func NewTransition(from, to int) Transition {
	return Transition{From: from, To: to}
}

// NewLabeledTransition creates a labeled transition.
func NewLabeledTransition(from, to int, label string) Transition {
	return Transition{From: from, To: to, Label: label, Labeled: true}
}

// EdgeFromRow normalizes a raw 2- or 3-element row into an [Edge].
// Two elements mean an unlabeled edge, three mean a labeled one; any
// other arity is an INVALID_EDGE error. Endpoints may be strings or
// integers (integer tokens are formatted in decimal), matching the
// loosely typed rows found in manifest files.
func EdgeFromRow(row []any) (Edge, error) {
	if len(row) != 2 && len(row) != 3 {
		return Edge{}, errors.New(errors.ErrCodeInvalidEdge, "edge rows must have 2 or 3 elements, got %d", len(row))
	}

	from, err := token(row[0])
	if err != nil {
		return Edge{}, err
	}
	to, err := token(row[1])
	if err != nil {
		return Edge{}, err
	}

	if len(row) == 2 {
		return NewEdge(from, to), nil
	}
	label, ok := row[2].(string)
	if !ok {
		return Edge{}, errors.New(errors.ErrCodeInvalidEdge, "edge label must be a string, got %T", row[2])
	}
	return NewLabeledEdge(from, to, label), nil
}

// TransitionFromRow normalizes a raw 2- or 3-element row into a
// [Transition]. Endpoints must be integers; the optional third element is
// the label.
func TransitionFromRow(row []any) (Transition, error) {
	if len(row) != 2 && len(row) != 3 {
		return Transition{}, errors.New(errors.ErrCodeInvalidEdge, "transition rows must have 2 or 3 elements, got %d", len(row))
	}

	from, err := index(row[0])
	if err != nil {
		return Transition{}, err
	}
	to, err := index(row[1])
	if err != nil {
		return Transition{}, err
	}

	if len(row) == 2 {
		return NewTransition(from, to), nil
	}
	label, ok := row[2].(string)
	if !ok {
		return Transition{}, errors.New(errors.ErrCodeInvalidEdge, "transition label must be a string, got %T", row[2])
	}
	return NewLabeledTransition(from, to, label), nil
}

// token converts a raw row element into a node token.
func token(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int:
		return fmt.Sprintf("%d", t), nil
	case int64:
		return fmt.Sprintf("%d", t), nil
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t)), nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidEdge, "edge endpoint must be a string or integer, got %T", v)
}

// index converts a raw row element into a state index.
// TOML decodes integers as int64, JSON as float64; both are accepted.
func index(v any) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t == float64(int(t)) {
			return int(t), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidEdge, "transition endpoint must be an integer, got %v", v)
}

// normalizeEdges deduplicates and sorts edges so renders are stable.
// Normalizing an already-normalized slice returns an equal slice.
func normalizeEdges(edges []Edge) []Edge {
	seen := make(map[Edge]struct{}, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	slices.SortFunc(out, compareEdges)
	return out
}

func compareEdges(a, b Edge) int {
	if c := strings.Compare(a.From, b.From); c != 0 {
		return c
	}
	if c := strings.Compare(a.To, b.To); c != 0 {
		return c
	}
	if a.Labeled != b.Labeled {
		if !a.Labeled {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Label, b.Label)
}

// normalizeTransitions deduplicates and sorts transitions.
func normalizeTransitions(ts []Transition) []Transition {
	seen := make(map[Transition]struct{}, len(ts))
	out := make([]Transition, 0, len(ts))
	for _, tr := range ts {
		if _, dup := seen[tr]; dup {
			continue
		}
		seen[tr] = struct{}{}
		out = append(out, tr)
	}
	slices.SortFunc(out, compareTransitions)
	return out
}

func compareTransitions(a, b Transition) int {
	if a.From != b.From {
		return a.From - b.From
	}
	if a.To != b.To {
		return a.To - b.To
	}
	if a.Labeled != b.Labeled {
		if !a.Labeled {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Label, b.Label)
}
