// Package sink writes rendered diagrams to files and drives the optional
// PDF preview step.
//
// # Output Kinds
//
// The output kind is resolved from the file extension through an explicit
// lookup table, kept separate from the write so it is testable in
// isolation:
//
//	.tex       → TikZ markup document
//	.dot, .gv  → Graphviz DOT graph text
//
// Anything else is an UNSUPPORTED_OUTPUT error, as is asking a diagram
// for a producer it does not have (an FSM has no DOT serialization).
// Rendering happens before the target file is opened: a failed render
// never leaves a partial or empty file behind.
package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/machviz/machina/pkg/diagram"
	"github.com/machviz/machina/pkg/errors"
	"github.com/machviz/machina/pkg/layout"
	"github.com/machviz/machina/pkg/render"
)

// Kind identifies an output format.
type Kind string

// Recognized output kinds.
const (
	KindTeX Kind = "tex" // standalone TikZ document
	KindDOT Kind = "dot" // Graphviz graph text
)

// kindByExt maps lowercase file extensions to output kinds.
var kindByExt = map[string]Kind{
	".tex": KindTeX,
	".dot": KindDOT,
	".gv":  KindDOT,
}

// Options carries the per-render collaborators a diagram kind may need.
type Options struct {
	// Shape selects the FSM node layout. Required for FSM TikZ output;
	// must be nil for digraphs.
	Shape layout.Shape

	// Converter performs the DOT-to-TikZ step for digraph TikZ output.
	Converter render.Converter
}

// KindForPath resolves the output kind for a target path from its
// extension. The match is case-insensitive.
func KindForPath(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	kind, ok := kindByExt[ext]
	if !ok {
		return "", errors.New(errors.ErrCodeUnsupportedOutput, "don't know how to write to %q (supported: .tex, .dot, .gv)", path)
	}
	return kind, nil
}

// Render produces the output text of the given kind for a diagram.
func Render(ctx context.Context, d diagram.Diagram, kind Kind, opts Options) (string, error) {
	switch kind {
	case KindTeX:
		return renderTeX(ctx, d, opts)
	case KindDOT:
		g, ok := d.(*diagram.Digraph)
		if !ok {
			return "", errors.New(errors.ErrCodeUnsupportedOutput, "%T has no graph-text serialization", d)
		}
		return render.DigraphDOT(g), nil
	default:
		return "", errors.New(errors.ErrCodeUnsupportedOutput, "unknown output kind %q", kind)
	}
}

func renderTeX(ctx context.Context, d diagram.Diagram, opts Options) (string, error) {
	switch t := d.(type) {
	case *diagram.FSM:
		return render.FSMTeX(t, opts.Shape)
	case *diagram.Digraph:
		if opts.Converter == nil {
			return "", errors.New(errors.ErrCodeInternal, "no DOT-to-TikZ converter configured")
		}
		return render.DigraphTeX(ctx, t, opts.Shape, opts.Converter)
	default:
		return "", errors.New(errors.ErrCodeUnsupportedOutput, "%T has no markup producer", d)
	}
}

// WriteFile renders the diagram in the kind implied by path's extension
// and writes the result, creating or overwriting the target. All
// validation and rendering happens before the file is touched.
func WriteFile(ctx context.Context, d diagram.Diagram, path string, opts Options) error {
	kind, err := KindForPath(path)
	if err != nil {
		return err
	}

	out, err := Render(ctx, d, kind, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
