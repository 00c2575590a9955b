package diagram

import "slices"

// Digraph is a general directed graph diagram. Node tokens are arbitrary
// strings and carry no state semantics, so there is nothing to range-check:
// any two tokens form a legal edge. Immutable once constructed.
type Digraph struct {
	edges []Edge
}

// NewDigraph constructs a digraph from its edge set.
// Duplicate edges collapse and the stored order is sorted, so two digraphs
// built from permutations of the same edges render identically.
func NewDigraph(edges []Edge) *Digraph {
	return &Digraph{edges: normalizeEdges(edges)}
}

// Edges returns a copy of the normalized edge set.
func (d *Digraph) Edges() []Edge {
	return slices.Clone(d.edges)
}

// EdgeCount returns the number of distinct edges.
func (d *Digraph) EdgeCount() int {
	return len(d.edges)
}
