package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/machviz/machina/pkg/diagram"
	"github.com/machviz/machina/pkg/errors"
	"github.com/machviz/machina/pkg/layout"
)

// DigraphDOT serializes a digraph as Graphviz DOT text.
//
// A digraph with no edges produces an empty string, not an empty
// document.
//
// The node default sets texmode="math" so dot2tex-style converters render
// node names as math-mode TeX. Node tokens are embedded as-is; edge
// labels are escaped for the quoted label attribute.
func DigraphDOT(d *diagram.Digraph) string {
	edges := d.Edges()
	if len(edges) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("digraph {\n")
	b.WriteString("    node [texmode=\"math\"];\n")
	for _, e := range edges {
		b.WriteString("    " + edgeDOT(e) + ";\n")
	}
	b.WriteString("}")
	return b.String()
}

// edgeDOT formats a single edge statement. The label clause is omitted
// entirely for unlabeled edges; a provided-but-empty label still emits
// label="".
func edgeDOT(e diagram.Edge) string {
	out := fmt.Sprintf("%s -> %s", e.From, e.To)
	if e.Labeled {
		out += fmt.Sprintf(" [label=%q]", e.Label)
	}
	return out
}

// Converter turns DOT text into TikZ markup. It stands in for the
// external automatic-layout step digraphs depend on; implementations may
// shell out or compute layout in-process. Failures surface to callers as
// RENDER_BACKEND errors.
type Converter interface {
	Convert(ctx context.Context, dot string) (string, error)
}

// ConverterFunc adapts a function to the [Converter] interface.
type ConverterFunc func(ctx context.Context, dot string) (string, error)

// Convert implements [Converter].
func (f ConverterFunc) Convert(ctx context.Context, dot string) (string, error) {
	return f(ctx, dot)
}

// DigraphTeX renders a digraph as a TikZ document by passing its DOT
// serialization through conv and returning the converter's output
// verbatim.
//
// Digraphs have no layout-shape concept, so any non-nil shape is an
// UNSUPPORTED_SHAPE error. Converter failures are wrapped as
// RENDER_BACKEND.
func DigraphTeX(ctx context.Context, d *diagram.Digraph, shape layout.Shape, conv Converter) (string, error) {
	if shape != nil {
		return "", errors.New(errors.ErrCodeUnsupportedShape, "cannot lay out a digraph with an FSM shape")
	}

	dot := DigraphDOT(d)
	if dot == "" {
		return "", nil
	}

	tex, err := conv.Convert(ctx, dot)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRenderBackend, err, "convert DOT to TikZ")
	}
	return tex, nil
}
