// Package layout computes node placements for FSM diagrams.
//
// # Overview
//
// A [Shape] is a layout strategy: given a node count, it produces one
// placement per node index plus the anchor point for the start-state
// marker. The shape set is a closed union — [Circle] and [Grid] — sealed
// by an unexported method, so rendering code can dispatch exhaustively
// and adding a shape is a compile-time-checked change.
//
// Coordinates are emitted pre-formatted in TeX "bp" units (big points),
// matching what the TikZ renderer embeds verbatim:
//
//	placements, err := layout.Place(layout.Circle{Radius: 20}, 2)
//	// placements[0] = {X: "0.00bp", Y: "20.00bp", ...}
//
// Circular placement puts index 0 due north of the center and spaces the
// remaining indices evenly by angle. Grid placement fills rows left to
// right, top to bottom.
package layout

import (
	"fmt"
	"math"

	"github.com/machviz/machina/pkg/errors"
)

// Shape is a node layout strategy for FSM rendering.
// Implementations are limited to [Circle] and [Grid].
type Shape interface {
	// Validate checks the shape's parameters and returns an
	// INVALID_SHAPE error for out-of-range values.
	Validate() error

	// sealed prevents implementations outside this package, keeping the
	// union closed for exhaustive dispatch.
	sealed()
}

// Circle lays nodes out on a circle. A zero Radius means "derive from the
// node count" (10 bp per node).
type Circle struct {
	Radius int // bp; 0 derives 10 * nodeCount
}

func (Circle) sealed() {}

// Validate returns an error if the radius is negative.
func (c Circle) Validate() error {
	if c.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidShape, "circle radius must be at least 0, not %d", c.Radius)
	}
	return nil
}

// Grid lays nodes out in rows of Columns nodes, Spacing bp apart.
// Rows grow downward.
type Grid struct {
	Columns int // nodes per row, at least 1
	Spacing int // bp between adjacent nodes, at least 1
}

func (Grid) sealed() {}

// Validate returns an error if columns or spacing are below 1.
func (g Grid) Validate() error {
	if g.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidShape, "grid columns must be at least 1, not %d", g.Columns)
	}
	if g.Spacing < 1 {
		return errors.New(errors.ErrCodeInvalidShape, "grid spacing must be at least 1, not %d", g.Spacing)
	}
	return nil
}

// Placement is a computed node position, with the anchor point where the
// start-state marker goes if this node is the start state. Coordinates
// carry their TeX unit suffix and are embedded in output as-is.
type Placement struct {
	X, Y             string // node center
	MarkerX, MarkerY string // start-marker anchor above the node
}

// Place computes placements for n nodes under the given shape.
//
// Circle placement rejects n == 0 (the angle step divides by the node
// count); Grid placement of zero nodes is an empty no-op. An unknown
// Shape implementation cannot occur: the union is sealed.
func Place(shape Shape, n int) ([]Placement, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	switch s := shape.(type) {
	case Circle:
		return placeCircle(s, n)
	case Grid:
		return placeGrid(s, n), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedShape, "unsupported shape %T", shape)
	}
}

func placeCircle(c Circle, n int) ([]Placement, error) {
	if n == 0 {
		return nil, errors.New(errors.ErrCodeInvalidShape, "cannot lay out zero nodes on a circle")
	}

	radius := c.Radius
	if radius == 0 {
		radius = 10 * n
	}

	out := make([]Placement, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		x := float64(radius) * math.Sin(angle)
		y := float64(radius) * math.Cos(angle)
		out[i] = Placement{
			X:       fmt.Sprintf("%.2fbp", x),
			Y:       fmt.Sprintf("%.2fbp", y),
			MarkerX: fmt.Sprintf("%.2fbp", x),
			MarkerY: fmt.Sprintf("%.2fbp", y+float64(radius/2)),
		}
	}
	return out, nil
}

func placeGrid(g Grid, n int) []Placement {
	out := make([]Placement, n)
	for i := 0; i < n; i++ {
		x := (i % g.Columns) * g.Spacing
		y := -((i / g.Columns) * g.Spacing)
		out[i] = Placement{
			X:       fmt.Sprintf("%dbp", x),
			Y:       fmt.Sprintf("%dbp", y),
			MarkerX: fmt.Sprintf("%dbp", x),
			MarkerY: fmt.Sprintf("%.2fbp", float64(y+g.Spacing/2)),
		}
	}
	return out
}
