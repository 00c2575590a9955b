// Package pkg provides the core libraries for Machina diagram rendering.
//
// # Overview
//
// Machina turns finite state machine and directed graph definitions into
// TikZ and Graphviz DOT documents. The pkg directory is organized by
// stage:
//
//  1. [diagram] - Validated diagram values (FSMs, digraphs, edges)
//  2. [layout] - Node placement shapes for FSM rendering
//  3. [render] - Markup producers (TikZ, DOT) and the DOT-to-TikZ converter
//  4. [sink] - File output by extension, plus the pdflatex preview step
//  5. [manifest] - TOML/JSON diagram definition files
//  6. [cache], [store] - Rendered artifact cache and saved-diagram persistence
//
// # Architecture
//
// The typical data flow through Machina:
//
//	Manifest file / HTTP request body
//	         ↓
//	    [manifest] package (decode + validate definitions)
//	         ↓
//	    [diagram] package (immutable FSM / digraph values)
//	         ↓
//	    [layout] + [render] packages (placement + markup)
//	         ↓
//	    [sink] package (.tex / .dot output, PDF preview)
//
// FSMs render directly to TikZ from computed placements; digraphs
// serialize to DOT and flow through the embedded Graphviz engine in
// [render/graphviz] when TikZ output is requested.
package pkg
