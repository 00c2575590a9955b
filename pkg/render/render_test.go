package render

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/machviz/machina/pkg/diagram"
	"github.com/machviz/machina/pkg/errors"
	"github.com/machviz/machina/pkg/layout"
)

func mustFSM(t *testing.T, states []string, start int, accept []int, transitions []diagram.Transition) *diagram.FSM {
	t.Helper()
	m, err := diagram.NewFSM(states, start, accept, transitions)
	if err != nil {
		t.Fatalf("NewFSM() error: %v", err)
	}
	return m
}

func TestFSMTeXTwoStateMachine(t *testing.T) {
	m := mustFSM(t, []string{"q_0", "q_1"}, 0, []int{1}, []diagram.Transition{
		diagram.NewLabeledTransition(0, 1, "a"),
	})

	out, err := FSMTeX(m, layout.Circle{})
	if err != nil {
		t.Fatalf("FSMTeX() error: %v", err)
	}

	wantLines := []string{
		`\node (0) at (0.00bp,20.00bp) [draw,circle] {$q_0$};`,
		`\node (start) at (0.00bp, 30.00bp) {start};`,
		`\draw [->] (start) -- (0);`,
		`\node (1) at (0.00bp,-20.00bp) [draw,circle,double] {$q_1$};`,
		`\draw [->] (0) -- (1) node[midway] {a};`,
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("FSMTeX() missing line %q\ngot:\n%s", line, out)
		}
	}

	if !strings.HasPrefix(out, TeXPreamble) {
		t.Error("FSMTeX() should start with the document preamble")
	}
	if !strings.HasSuffix(out, TeXPostscript) {
		t.Error("FSMTeX() should end with the document close")
	}
	if !strings.Contains(out, `\begin{tikzpicture}[>=stealth']`) {
		t.Error("FSMTeX() missing tikzpicture open")
	}
}

func TestFSMTeXSelfLoop(t *testing.T) {
	m := mustFSM(t, []string{"q_0"}, 0, nil, []diagram.Transition{
		diagram.NewLabeledTransition(0, 0, "x"),
	})

	out, err := FSMTeX(m, layout.Circle{Radius: 10})
	if err != nil {
		t.Fatalf("FSMTeX() error: %v", err)
	}

	loop := `\draw (0) edge[loop above] node {x} (0);`
	if !strings.Contains(out, loop) {
		t.Errorf("FSMTeX() missing self-loop %q\ngot:\n%s", loop, out)
	}
	if strings.Contains(out, `-- (0) node[midway]`) {
		t.Error("FSMTeX() rendered a self-transition as a straight connector")
	}
	if got := strings.Count(out, "edge[loop above]"); got != 1 {
		t.Errorf("FSMTeX() emitted %d loops, want 1", got)
	}
}

func TestFSMTeXNilShape(t *testing.T) {
	m := mustFSM(t, []string{"q_0"}, 0, nil, nil)

	_, err := FSMTeX(m, nil)
	if err == nil {
		t.Fatal("FSMTeX() with nil shape should fail")
	}
	if !errors.Is(err, errors.ErrCodeIncompatibleRender) {
		t.Errorf("FSMTeX() code = %v, want INCOMPATIBLE_RENDER", errors.GetCode(err))
	}
}

func TestFSMTeXGridShape(t *testing.T) {
	m := mustFSM(t, []string{"a", "b", "c"}, 1, nil, nil)

	out, err := FSMTeX(m, layout.Grid{Columns: 2, Spacing: 100})
	if err != nil {
		t.Fatalf("FSMTeX() error: %v", err)
	}

	wantLines := []string{
		`\node (0) at (0bp,0bp) [draw,circle] {$a$};`,
		`\node (1) at (100bp,0bp) [draw,circle] {$b$};`,
		`\node (2) at (0bp,-100bp) [draw,circle] {$c$};`,
		`\node (start) at (100bp, 50.00bp) {start};`,
		`\draw [->] (start) -- (1);`,
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("FSMTeX() missing line %q\ngot:\n%s", line, out)
		}
	}
}

func TestDigraphDOT(t *testing.T) {
	d := diagram.NewDigraph([]diagram.Edge{
		diagram.NewLabeledEdge("a", "b", "1"),
		diagram.NewEdge("x", "y"),
	})

	got := DigraphDOT(d)
	want := "digraph {\n" +
		"    node [texmode=\"math\"];\n" +
		"    a -> b [label=\"1\"];\n" +
		"    x -> y;\n" +
		"}"
	if got != want {
		t.Errorf("DigraphDOT() =\n%s\nwant:\n%s", got, want)
	}
}

func TestDigraphDOTEmpty(t *testing.T) {
	if got := DigraphDOT(diagram.NewDigraph(nil)); got != "" {
		t.Errorf("DigraphDOT() of empty graph = %q, want empty string", got)
	}
}

func TestEdgeDOTLabelEscaping(t *testing.T) {
	tests := []struct {
		name string
		edge diagram.Edge
		want string
	}{
		{
			name: "unlabeled omits clause",
			edge: diagram.NewEdge("a", "b"),
			want: "a -> b",
		},
		{
			name: "empty label still emitted",
			edge: diagram.NewLabeledEdge("a", "b", ""),
			want: `a -> b [label=""]`,
		},
		{
			name: "quotes escaped",
			edge: diagram.NewLabeledEdge("a", "b", `say "hi"`),
			want: `a -> b [label="say \"hi\""]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := edgeDOT(tt.edge); got != tt.want {
				t.Errorf("edgeDOT() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDigraphTeX(t *testing.T) {
	d := diagram.NewDigraph([]diagram.Edge{diagram.NewEdge("a", "b")})

	var gotDOT string
	conv := ConverterFunc(func(ctx context.Context, dot string) (string, error) {
		gotDOT = dot
		return "TIKZ", nil
	})

	out, err := DigraphTeX(context.Background(), d, nil, conv)
	if err != nil {
		t.Fatalf("DigraphTeX() error: %v", err)
	}
	if out != "TIKZ" {
		t.Errorf("DigraphTeX() = %q, want converter output verbatim", out)
	}
	if !strings.Contains(gotDOT, "a -> b;") {
		t.Errorf("converter received %q, want the DOT serialization", gotDOT)
	}
}

func TestDigraphTeXEmptyGraphSkipsConverter(t *testing.T) {
	called := false
	conv := ConverterFunc(func(ctx context.Context, dot string) (string, error) {
		called = true
		return "", nil
	})

	out, err := DigraphTeX(context.Background(), diagram.NewDigraph(nil), nil, conv)
	if err != nil {
		t.Fatalf("DigraphTeX() error: %v", err)
	}
	if out != "" {
		t.Errorf("DigraphTeX() of empty graph = %q, want empty string", out)
	}
	if called {
		t.Error("converter should not run for an empty graph")
	}
}

func TestDigraphTeXShapeRejected(t *testing.T) {
	d := diagram.NewDigraph([]diagram.Edge{diagram.NewEdge("a", "b")})

	_, err := DigraphTeX(context.Background(), d, layout.Circle{Radius: 10}, nil)
	if err == nil {
		t.Fatal("DigraphTeX() with a shape should fail")
	}
	if !errors.Is(err, errors.ErrCodeUnsupportedShape) {
		t.Errorf("DigraphTeX() code = %v, want UNSUPPORTED_SHAPE", errors.GetCode(err))
	}
}

func TestDigraphTeXConverterFailure(t *testing.T) {
	d := diagram.NewDigraph([]diagram.Edge{diagram.NewEdge("a", "b")})

	conv := ConverterFunc(func(ctx context.Context, dot string) (string, error) {
		return "", fmt.Errorf("layout engine exploded")
	})

	_, err := DigraphTeX(context.Background(), d, nil, conv)
	if err == nil {
		t.Fatal("DigraphTeX() should surface converter failures")
	}
	if !errors.Is(err, errors.ErrCodeRenderBackend) {
		t.Errorf("DigraphTeX() code = %v, want RENDER_BACKEND", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "layout engine exploded") {
		t.Errorf("DigraphTeX() error %q should keep the cause", err)
	}
}
