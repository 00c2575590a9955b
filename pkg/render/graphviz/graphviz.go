// Package graphviz provides the production DOT-to-TikZ converter.
//
// Layout is computed in-process with [github.com/goccy/go-graphviz]
// rather than by shelling out to dot2tex. The graph is laid out with the
// dot engine, read back in Graphviz's "plain" output format, and
// re-emitted as a standalone TikZ document with nodes at their computed
// positions.
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/machviz/machina/pkg/render"
)

// plainFormat is Graphviz's line-oriented layout output, which carries
// node positions and edge label anchors without any drawing directives.
const plainFormat = graphviz.Format("plain")

// pointsPerInch converts plain-format inches to TeX big points.
const pointsPerInch = 72.0

// Converter computes digraph layouts with the embedded Graphviz engine.
// The zero value is ready to use.
type Converter struct{}

// New creates a Converter.
func New() *Converter {
	return &Converter{}
}

var _ render.Converter = (*Converter)(nil)

// Convert lays out the DOT graph and returns it as a TikZ document.
func (c *Converter) Convert(ctx context.Context, dot string) (string, error) {
	plain, err := layoutPlain(ctx, dot)
	if err != nil {
		return "", err
	}
	return TikZFromPlain(plain)
}

// layoutPlain runs the dot layout engine over the DOT text and returns
// the "plain" format description of the result.
func layoutPlain(ctx context.Context, dot string) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return "", fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, plainFormat, &buf); err != nil {
		return "", fmt.Errorf("layout: %w", err)
	}
	return buf.String(), nil
}

// plainNode is a node line from Graphviz plain output.
type plainNode struct {
	name  string
	x, y  float64 // inches
	label string
}

// plainEdge is an edge line from Graphviz plain output.
type plainEdge struct {
	tail, head string
	label      string
	labeled    bool
	lx, ly     float64 // label anchor, inches
}

// TikZFromPlain translates Graphviz plain-format layout text into a
// standalone TikZ document. Nodes land at their computed positions; edges
// draw as straight connectors, with any edge label placed at the anchor
// Graphviz chose for it.
func TikZFromPlain(plain string) (string, error) {
	nodes, edges, err := parsePlain(plain)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(render.TeXPreamble)
	b.WriteString(`\begin{tikzpicture}[>=stealth']` + "\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, `\node (%s) at (%.2fbp,%.2fbp) [draw,circle] {$%s$};`+"\n",
			n.name, n.x*pointsPerInch, n.y*pointsPerInch, n.label)
	}
	for _, e := range edges {
		if e.labeled {
			fmt.Fprintf(&b, `\draw [->] (%s) -- (%s);`+"\n", e.tail, e.head)
			fmt.Fprintf(&b, `\node at (%.2fbp,%.2fbp) {%s};`+"\n",
				e.lx*pointsPerInch, e.ly*pointsPerInch, e.label)
		} else {
			fmt.Fprintf(&b, `\draw [->] (%s) -- (%s);`+"\n", e.tail, e.head)
		}
	}
	b.WriteString("\\end{tikzpicture}\n")
	b.WriteString(render.TeXPostscript)
	return b.String(), nil
}

// parsePlain reads node and edge lines from plain-format output.
//
// Line shapes (fields are space-separated, quoted when they contain
// spaces):
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 .. xn yn [label lx ly] style color
//	stop
func parsePlain(plain string) ([]plainNode, []plainEdge, error) {
	var nodes []plainNode
	var edges []plainEdge

	for _, line := range strings.Split(plain, "\n") {
		fields := splitPlainFields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "node":
			if len(fields) < 7 {
				return nil, nil, fmt.Errorf("malformed node line: %q", line)
			}
			x, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("node %s: bad x %q", fields[1], fields[2])
			}
			y, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("node %s: bad y %q", fields[1], fields[3])
			}
			label := fields[6]
			if label == `\N` {
				label = fields[1]
			}
			nodes = append(nodes, plainNode{name: fields[1], x: x, y: y, label: label})
		case "edge":
			e, err := parsePlainEdge(fields)
			if err != nil {
				return nil, nil, err
			}
			edges = append(edges, e)
		case "graph", "stop":
			// graph geometry and terminator are not needed
		}
	}

	return nodes, edges, nil
}

func parsePlainEdge(fields []string) (plainEdge, error) {
	if len(fields) < 4 {
		return plainEdge{}, fmt.Errorf("malformed edge line: %v", fields)
	}
	e := plainEdge{tail: fields[1], head: fields[2]}

	n, err := strconv.Atoi(fields[3])
	if err != nil {
		return plainEdge{}, fmt.Errorf("edge %s->%s: bad point count %q", e.tail, e.head, fields[3])
	}

	if 4+2*n > len(fields) {
		return plainEdge{}, fmt.Errorf("edge %s->%s: truncated spline points", e.tail, e.head)
	}

	// After the 2n spline coordinates: optional label triple, then
	// style and color.
	rest := fields[4+2*n:]
	if len(rest) >= 3+2 {
		e.labeled = true
		e.label = rest[0]
		if e.lx, err = strconv.ParseFloat(rest[1], 64); err != nil {
			return plainEdge{}, fmt.Errorf("edge %s->%s: bad label x %q", e.tail, e.head, rest[1])
		}
		if e.ly, err = strconv.ParseFloat(rest[2], 64); err != nil {
			return plainEdge{}, fmt.Errorf("edge %s->%s: bad label y %q", e.tail, e.head, rest[2])
		}
	}
	return e, nil
}

// splitPlainFields splits a plain-format line on spaces, honoring double
// quotes around fields that contain spaces.
func splitPlainFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuote {
				fields = append(fields, cur.String())
				cur.Reset()
			}
			inQuote = !inQuote
		case c == ' ' && !inQuote:
			flush()
		case c == '\\' && inQuote && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
}
