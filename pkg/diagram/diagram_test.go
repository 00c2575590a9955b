package diagram

import (
	"testing"

	"github.com/machviz/machina/pkg/errors"
)

func TestEdgeFromRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []any
		want    Edge
		wantErr bool
	}{
		{
			name: "two strings",
			row:  []any{"a", "b"},
			want: Edge{From: "a", To: "b"},
		},
		{
			name: "labeled",
			row:  []any{"a", "b", "goes to"},
			want: Edge{From: "a", To: "b", Label: "goes to", Labeled: true},
		},
		{
			name: "empty label is still a label",
			row:  []any{"a", "b", ""},
			want: Edge{From: "a", To: "b", Label: "", Labeled: true},
		},
		{
			name: "integer endpoints become decimal tokens",
			row:  []any{1, 2},
			want: Edge{From: "1", To: "2"},
		},
		{
			name: "int64 endpoints from TOML",
			row:  []any{int64(3), int64(4)},
			want: Edge{From: "3", To: "4"},
		},
		{
			name: "whole float64 endpoints from JSON",
			row:  []any{float64(5), float64(6)},
			want: Edge{From: "5", To: "6"},
		},
		{name: "too short", row: []any{"a"}, wantErr: true},
		{name: "too long", row: []any{"a", "b", "c", "d"}, wantErr: true},
		{name: "empty", row: []any{}, wantErr: true},
		{name: "fractional endpoint", row: []any{1.5, "b"}, wantErr: true},
		{name: "non-string label", row: []any{"a", "b", 3}, wantErr: true},
		{name: "bool endpoint", row: []any{true, "b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EdgeFromRow(tt.row)
			if tt.wantErr {
				if err == nil {
					t.Fatal("EdgeFromRow() should fail")
				}
				if !errors.Is(err, errors.ErrCodeInvalidEdge) {
					t.Errorf("EdgeFromRow() code = %v, want INVALID_EDGE", errors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("EdgeFromRow() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EdgeFromRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransitionFromRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []any
		want    Transition
		wantErr bool
	}{
		{name: "ints", row: []any{0, 1}, want: Transition{From: 0, To: 1}},
		{name: "int64 from TOML", row: []any{int64(0), int64(1)}, want: Transition{From: 0, To: 1}},
		{name: "float64 from JSON", row: []any{float64(2), float64(0)}, want: Transition{From: 2, To: 0}},
		{
			name: "labeled",
			row:  []any{0, 0, "a"},
			want: Transition{From: 0, To: 0, Label: "a", Labeled: true},
		},
		{name: "string endpoint", row: []any{"0", 1}, wantErr: true},
		{name: "fractional endpoint", row: []any{0.5, 1}, wantErr: true},
		{name: "wrong arity", row: []any{0, 1, "a", "b"}, wantErr: true},
		{name: "non-string label", row: []any{0, 1, 2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransitionFromRow(tt.row)
			if tt.wantErr {
				if err == nil {
					t.Fatal("TransitionFromRow() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("TransitionFromRow() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("TransitionFromRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewFSMValidation(t *testing.T) {
	states := []string{"q_0", "q_1", "q_2"}

	tests := []struct {
		name        string
		states      []string
		start       int
		accept      []int
		transitions []Transition
		wantErr     bool
	}{
		{
			name:        "valid",
			states:      states,
			start:       0,
			accept:      []int{2},
			transitions: []Transition{NewLabeledTransition(0, 1, "a"), NewLabeledTransition(1, 2, "b")},
		},
		{name: "start out of range", states: states, start: 3, wantErr: true},
		{name: "negative start", states: states, start: -1, wantErr: true},
		{name: "no states", states: nil, start: 0, wantErr: true},
		{name: "accept out of range", states: states, start: 0, accept: []int{3}, wantErr: true},
		{name: "negative accept", states: states, start: 0, accept: []int{-1}, wantErr: true},
		{
			name:        "transition target out of range",
			states:      states,
			start:       0,
			transitions: []Transition{NewTransition(0, 3)},
			wantErr:     true,
		},
		{
			name:        "transition source out of range",
			states:      states,
			start:       0,
			transitions: []Transition{NewTransition(-1, 0)},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFSM(tt.states, tt.start, tt.accept, tt.transitions)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewFSM() should fail")
				}
				if !errors.Is(err, errors.ErrCodeInvalidState) {
					t.Errorf("NewFSM() code = %v, want INVALID_STATE", errors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFSM() error: %v", err)
			}
			if m == nil {
				t.Fatal("NewFSM() returned nil machine")
			}
		})
	}
}

func TestFSMAccessors(t *testing.T) {
	m, err := NewFSM([]string{"q_0", "q_1"}, 0, []int{1}, []Transition{
		NewLabeledTransition(0, 1, "a"),
		NewLabeledTransition(1, 1, "b"),
	})
	if err != nil {
		t.Fatalf("NewFSM() error: %v", err)
	}

	if got := m.StateCount(); got != 2 {
		t.Errorf("StateCount() = %d, want 2", got)
	}
	if got := m.Start(); got != 0 {
		t.Errorf("Start() = %d, want 0", got)
	}
	if !m.IsAccept(1) || m.IsAccept(0) {
		t.Error("IsAccept() wrong for states 0/1")
	}
	if got := m.AcceptStates(); len(got) != 1 || got[0] != 1 {
		t.Errorf("AcceptStates() = %v, want [1]", got)
	}

	// Accessors hand out copies: mutating them leaves the machine intact.
	labels := m.States()
	labels[0] = "mutated"
	if m.States()[0] != "q_0" {
		t.Error("States() should return a copy")
	}
	trs := m.Transitions()
	trs[0] = Transition{From: 9, To: 9}
	if m.Transitions()[0].From == 9 {
		t.Error("Transitions() should return a copy")
	}
}

func TestFSMTransitionNormalization(t *testing.T) {
	m, err := NewFSM([]string{"a", "b", "c"}, 0, nil, []Transition{
		NewLabeledTransition(2, 0, "z"),
		NewLabeledTransition(0, 1, "a"),
		NewLabeledTransition(0, 1, "a"), // duplicate
		NewTransition(0, 1),
	})
	if err != nil {
		t.Fatalf("NewFSM() error: %v", err)
	}

	got := m.Transitions()
	want := []Transition{
		{From: 0, To: 1},
		{From: 0, To: 1, Label: "a", Labeled: true},
		{From: 2, To: 0, Label: "z", Labeled: true},
	}
	if len(got) != len(want) {
		t.Fatalf("Transitions() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNewDigraphNormalization(t *testing.T) {
	d := NewDigraph([]Edge{
		NewLabeledEdge("x", "y", "1"),
		NewEdge("a", "b"),
		NewEdge("a", "b"), // duplicate
		NewLabeledEdge("a", "b", ""),
	})

	got := d.Edges()
	want := []Edge{
		{From: "a", To: "b"},
		{From: "a", To: "b", Labeled: true},
		{From: "x", To: "y", Label: "1", Labeled: true},
	}
	if len(got) != len(want) {
		t.Fatalf("Edges() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if d.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", d.EdgeCount())
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	edges := []Edge{NewEdge("b", "c"), NewLabeledEdge("a", "b", "l"), NewEdge("a", "a")}
	once := normalizeEdges(edges)
	twice := normalizeEdges(once)
	if len(once) != len(twice) {
		t.Fatalf("normalization not idempotent: %d vs %d edges", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("edge %d changed on renormalization: %+v vs %+v", i, once[i], twice[i])
		}
	}
}
