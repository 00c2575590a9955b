package diagram

// Diagram is the closed set of renderable diagram kinds: [FSM] and
// [Digraph]. Output dispatch switches over the concrete types, so the
// union stays sealed.
type Diagram interface {
	sealedDiagram()
}

func (*FSM) sealedDiagram()     {}
func (*Digraph) sealedDiagram() {}
