package cli

import (
	"testing"

	"github.com/machviz/machina/pkg/diagram"
	"github.com/machviz/machina/pkg/errors"
	"github.com/machviz/machina/pkg/layout"
	"github.com/machviz/machina/pkg/manifest"
	"github.com/machviz/machina/pkg/sink"
)

func TestOutputKind(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		format  string
		want    sink.Kind
		wantErr bool
	}{
		{name: "explicit tex", target: "out.anything", format: "tex", want: sink.KindTeX},
		{name: "explicit dot", target: "out.anything", format: "dot", want: sink.KindDOT},
		{name: "from tex extension", target: "machine.tex", want: sink.KindTeX},
		{name: "from gv extension", target: "graph.gv", want: sink.KindDOT},
		{name: "unknown format", target: "out.tex", format: "svg", wantErr: true},
		{name: "unknown extension", target: "out.svg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputKind(tt.target, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("outputKind() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("outputKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultOutput(t *testing.T) {
	if got := defaultOutput("binary", ""); got != "binary.tex" {
		t.Errorf("defaultOutput() = %q, want binary.tex", got)
	}
	if got := defaultOutput("pipeline", "dot"); got != "pipeline.dot" {
		t.Errorf("defaultOutput() = %q, want pipeline.dot", got)
	}
}

func TestShapeFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   shapeFlags
		want    layout.Shape
		wantErr bool
	}{
		{name: "unset", flags: shapeFlags{}, want: nil},
		{name: "circle", flags: shapeFlags{kind: "circle", radius: 30}, want: layout.Circle{Radius: 30}},
		{name: "grid with default spacing", flags: shapeFlags{kind: "grid", columns: 3}, want: layout.Grid{Columns: 3, Spacing: 100}},
		{name: "grid explicit", flags: shapeFlags{kind: "grid", columns: 2, spacing: 50}, want: layout.Grid{Columns: 2, Spacing: 50}},
		{name: "unknown kind", flags: shapeFlags{kind: "spiral"}, wantErr: true},
		{name: "grid without columns", flags: shapeFlags{kind: "grid"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.shape()
			if (err != nil) != tt.wantErr {
				t.Fatalf("shape() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("shape() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSelectEntries(t *testing.T) {
	file := &manifest.File{
		FSMs: map[string]manifest.FSMDef{
			"binary": {States: []string{"a"}},
		},
		Digraphs: map[string]manifest.DigraphDef{
			"pipeline": {},
		},
	}

	t.Run("all", func(t *testing.T) {
		got, err := selectEntries(file, "", true)
		if err != nil {
			t.Fatalf("selectEntries() error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("selectEntries() returned %d entries, want 2", len(got))
		}
	})

	t.Run("by name", func(t *testing.T) {
		got, err := selectEntries(file, "pipeline", false)
		if err != nil {
			t.Fatalf("selectEntries() error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "pipeline" {
			t.Errorf("selectEntries() = %+v, want pipeline", got)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := selectEntries(file, "ghost", false)
		if err == nil {
			t.Fatal("selectEntries() of unknown name should fail")
		}
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("selectEntries() code = %v, want NOT_FOUND", errors.GetCode(err))
		}
	})

	t.Run("single entry without name", func(t *testing.T) {
		single := &manifest.File{FSMs: map[string]manifest.FSMDef{"only": {States: []string{"a"}}}}
		got, err := selectEntries(single, "", false)
		if err != nil {
			t.Fatalf("selectEntries() error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "only" {
			t.Errorf("selectEntries() = %+v, want the single entry", got)
		}
	})
}

func TestDiagramCounts(t *testing.T) {
	m, err := diagram.NewFSM([]string{"a", "b"}, 0, nil, []diagram.Transition{
		diagram.NewTransition(0, 1),
	})
	if err != nil {
		t.Fatalf("NewFSM() error: %v", err)
	}
	if nodes, edges := diagramCounts(m); nodes != 2 || edges != 1 {
		t.Errorf("diagramCounts(fsm) = (%d,%d), want (2,1)", nodes, edges)
	}

	d := diagram.NewDigraph([]diagram.Edge{
		diagram.NewEdge("a", "b"),
		diagram.NewEdge("b", "c"),
	})
	if nodes, edges := diagramCounts(d); nodes != 3 || edges != 2 {
		t.Errorf("diagramCounts(digraph) = (%d,%d), want (3,2)", nodes, edges)
	}
}

func TestRenderKeyDistinguishesInputs(t *testing.T) {
	file := &manifest.File{
		FSMs: map[string]manifest.FSMDef{
			"a": {States: []string{"x"}},
			"b": {States: []string{"x", "y"}},
		},
	}
	entryA := manifest.Entry{Name: "a", Kind: manifest.KindFSM}
	entryB := manifest.Entry{Name: "b", Kind: manifest.KindFSM}

	base := renderKey(file, entryA, layout.Circle{}, sink.KindTeX)
	if base != renderKey(file, entryA, layout.Circle{}, sink.KindTeX) {
		t.Error("renderKey() should be deterministic")
	}

	variants := map[string]string{
		"different definition": renderKey(file, entryB, layout.Circle{}, sink.KindTeX),
		"different shape":      renderKey(file, entryA, layout.Circle{Radius: 5}, sink.KindTeX),
		"different format":     renderKey(file, entryA, layout.Circle{}, sink.KindDOT),
	}
	for name, key := range variants {
		if key == base {
			t.Errorf("%s should produce a different key", name)
		}
	}
}
