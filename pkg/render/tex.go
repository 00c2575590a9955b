package render

import (
	"fmt"
	"strings"

	"github.com/machviz/machina/pkg/diagram"
	"github.com/machviz/machina/pkg/errors"
	"github.com/machviz/machina/pkg/layout"
)

// TeXPreamble opens a standalone LaTeX document with the TikZ libraries
// the generated pictures rely on. The preview environment crops the page
// to the picture.
const TeXPreamble = `\documentclass{standalone}
\usepackage[utf8]{inputenc}
\usepackage{tikz}
\usetikzlibrary{snakes,arrows,shapes,automata,positioning}
\usepackage{amsmath}
\tikzset{double distance=2pt}
\usepackage[active,tightpage]{preview}
\PreviewEnvironment{tikzpicture}
\setlength\PreviewBorder{0pt}
\begin{document}
`

// TeXPostscript closes the document.
const TeXPostscript = `\end{document}
`

// FSMTeX renders an FSM as a standalone TikZ document under the given
// layout shape.
//
// Nodes are declared in ascending index order. Accept states get a double
// border, and the start state additionally gets a "start" marker node
// with an arrow pointing at it. Transitions between distinct states draw
// as straight connectors with the label at the midpoint; self-transitions
// draw as a loop above the node.
//
// A nil shape is an INCOMPATIBLE_RENDER error: an FSM cannot be rendered
// without choosing a layout.
func FSMTeX(m *diagram.FSM, shape layout.Shape) (string, error) {
	if shape == nil {
		return "", errors.New(errors.ErrCodeIncompatibleRender, "rendering an FSM requires a layout shape")
	}

	placements, err := layout.Place(shape, m.StateCount())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(TeXPreamble)
	b.WriteString(`\begin{tikzpicture}[>=stealth']` + "\n")

	start := m.Start()
	for i, label := range m.States() {
		p := placements[i]
		options := "draw,circle"
		if m.IsAccept(i) {
			options = "draw,circle,double"
		}
		fmt.Fprintf(&b, `\node (%d) at (%s,%s) [%s] {$%s$};`+"\n", i, p.X, p.Y, options, label)

		if i == start {
			fmt.Fprintf(&b, `\node (start) at (%s, %s) {start};`+"\n", p.MarkerX, p.MarkerY)
			fmt.Fprintf(&b, `\draw [->] (start) -- (%d);`+"\n", i)
		}
	}

	for _, tr := range m.Transitions() {
		if tr.From != tr.To {
			fmt.Fprintf(&b, `\draw [->] (%d) -- (%d) node[midway] {%s};`+"\n", tr.From, tr.To, tr.Label)
		} else {
			fmt.Fprintf(&b, `\draw (%d) edge[loop above] node {%s} (%d);`+"\n", tr.From, tr.Label, tr.From)
		}
	}

	b.WriteString("\\end{tikzpicture}\n")
	b.WriteString(TeXPostscript)
	return b.String(), nil
}
