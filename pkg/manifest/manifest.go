// Package manifest loads diagram definition files.
//
// # Format
//
// A manifest is a TOML (or JSON) file declaring named diagrams:
//
//	[fsm.binary]
//	states = ["q_0", "q_1"]
//	start = 0
//	accept = [1]
//	edges = [[0, 1, "a"], [1, 1, "b"]]
//	shape = { kind = "circle", radius = 0 }
//
//	[digraph.pipeline]
//	edges = [["parse", "check"], ["check", "emit", "ok"]]
//
// Edge rows have two elements (unlabeled) or three (labeled); any other
// arity fails validation. FSM edges reference states by index; digraph
// edges use arbitrary string tokens.
//
// The optional shape table picks the default FSM layout: kind "circle"
// with a radius (0 derives it from the node count), or kind "grid" with
// columns and spacing (spacing defaults to 100 bp).
//
// Decoding is strict about structure but lazy about semantics: the raw
// definitions only turn into validated diagrams when built.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/machviz/machina/pkg/diagram"
	"github.com/machviz/machina/pkg/errors"
	"github.com/machviz/machina/pkg/layout"
)

// Diagram kinds used in entries and the HTTP API.
const (
	KindFSM     = "fsm"
	KindDigraph = "digraph"
)

// Shape kinds recognized in shape tables.
const (
	ShapeCircle = "circle"
	ShapeGrid   = "grid"
)

// defaultGridSpacing is used when a grid shape omits spacing.
const defaultGridSpacing = 100 // bp

// File is a decoded manifest: named FSM and digraph definitions.
type File struct {
	FSMs     map[string]FSMDef     `toml:"fsm" json:"fsm,omitempty"`
	Digraphs map[string]DigraphDef `toml:"digraph" json:"digraph,omitempty"`
}

// FSMDef is the raw definition of a finite state machine.
type FSMDef struct {
	States []string  `toml:"states" json:"states"`
	Start  int       `toml:"start" json:"start"`
	Accept []int     `toml:"accept" json:"accept"`
	Edges  [][]any   `toml:"edges" json:"edges"`
	Shape  *ShapeDef `toml:"shape" json:"shape,omitempty"`
}

// DigraphDef is the raw definition of a directed graph.
type DigraphDef struct {
	Edges [][]any `toml:"edges" json:"edges"`
}

// ShapeDef selects an FSM layout shape.
type ShapeDef struct {
	Kind    string `toml:"kind" json:"kind"`
	Radius  int    `toml:"radius" json:"radius,omitempty"`
	Columns int    `toml:"columns" json:"columns,omitempty"`
	Spacing int    `toml:"spacing" json:"spacing,omitempty"`
}

// Load reads and decodes a manifest file. The format follows the
// extension: .toml or .json.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", path)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest %s must be .toml or .json", path)
	}

	if len(f.FSMs) == 0 && len(f.Digraphs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest %s declares no diagrams", path)
	}
	return &f, nil
}

// Entry names one diagram in a manifest.
type Entry struct {
	Name string
	Kind string // KindFSM or KindDigraph
}

// Entries lists the manifest's diagrams sorted by name, FSMs before
// digraphs on ties.
func (f *File) Entries() []Entry {
	out := make([]Entry, 0, len(f.FSMs)+len(f.Digraphs))
	for name := range f.FSMs {
		out = append(out, Entry{Name: name, Kind: KindFSM})
	}
	for name := range f.Digraphs {
		out = append(out, Entry{Name: name, Kind: KindDigraph})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Kind, b.Kind)
	})
	return out
}

// Built is a validated diagram ready to render.
type Built struct {
	Name    string
	Kind    string
	Diagram diagram.Diagram
	Shape   layout.Shape // from the definition's shape table; nil if none
}

// Build validates the named definition into a diagram.
// Returns NOT_FOUND if the manifest has no diagram with that name.
func (f *File) Build(name string) (*Built, error) {
	if def, ok := f.FSMs[name]; ok {
		return def.Build(name)
	}
	if def, ok := f.Digraphs[name]; ok {
		return def.Build(name)
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no diagram named %q in manifest", name)
}

// Build validates the definition into a diagram.
func (d FSMDef) Build(name string) (*Built, error) {
	transitions := make([]diagram.Transition, 0, len(d.Edges))
	for _, row := range d.Edges {
		tr, err := diagram.TransitionFromRow(row)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "fsm %q", name)
		}
		transitions = append(transitions, tr)
	}

	m, err := diagram.NewFSM(d.States, d.Start, d.Accept, transitions)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "fsm %q", name)
	}

	built := &Built{Name: name, Kind: KindFSM, Diagram: m}
	if d.Shape != nil {
		shape, err := d.Shape.Shape()
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "fsm %q", name)
		}
		built.Shape = shape
	}
	return built, nil
}

// Build validates the definition into a diagram.
func (d DigraphDef) Build(name string) (*Built, error) {
	edges := make([]diagram.Edge, 0, len(d.Edges))
	for _, row := range d.Edges {
		e, err := diagram.EdgeFromRow(row)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "digraph %q", name)
		}
		edges = append(edges, e)
	}
	return &Built{Name: name, Kind: KindDigraph, Diagram: diagram.NewDigraph(edges)}, nil
}

// Shape resolves the definition into a validated layout shape.
func (s *ShapeDef) Shape() (layout.Shape, error) {
	switch s.Kind {
	case ShapeCircle:
		shape := layout.Circle{Radius: s.Radius}
		if err := shape.Validate(); err != nil {
			return nil, err
		}
		return shape, nil
	case ShapeGrid:
		spacing := s.Spacing
		if spacing == 0 {
			spacing = defaultGridSpacing
		}
		shape := layout.Grid{Columns: s.Columns, Spacing: spacing}
		if err := shape.Validate(); err != nil {
			return nil, err
		}
		return shape, nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedShape, "unknown shape kind %q (want %q or %q)", s.Kind, ShapeCircle, ShapeGrid)
	}
}
