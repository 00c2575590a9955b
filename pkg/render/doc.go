// Package render turns validated diagrams into diagram markup.
//
// # Overview
//
// Two text formats come out of this package:
//
//   - TikZ: a self-contained standalone LaTeX document wrapping a
//     tikzpicture environment. [FSMTeX] produces this directly from an
//     FSM and a layout shape; [DigraphTeX] produces it for a digraph by
//     delegating layout to an injected [Converter].
//   - DOT: the Graphviz graph-description text, produced by
//     [DigraphDOT]. Consumable directly or by a [Converter].
//
// # Converters
//
// Digraphs have no layout shape of their own; an automatic layout engine
// positions their nodes. That engine sits behind the [Converter]
// interface so the exporter is testable without Graphviz. The production
// implementation lives in the graphviz subpackage.
//
// # Label Escaping
//
// DOT edge labels are escaped (backslash and double quote) before being
// embedded in the quoted label attribute. TikZ labels are deliberately
// passed through untouched: state labels such as "q_0" are math-mode TeX
// and rely on TeX-significant characters.
package render
