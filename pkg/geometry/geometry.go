// Package geometry provides the small amount of plane geometry the
// converter needs: tolerant coordinate equality, bounding boxes, label
// placement and direction angles.
package geometry

import (
	"math"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"

	"seehuhn.de/go/geom/vec"
)

// Tolerance is the absolute per-axis distance below which two coordinates
// are the same point.
const Tolerance = 0.001

// edgeTolerance is how close a point must be to the bounding box edge to be
// labelled relative to that edge.
const edgeTolerance = 0.1

// Equal reports whether a and b denote the same point. With rounding
// enabled both sides are compared on the rounded thousandth grid, which is
// the exact form of "|d| < 0.001" for rounded values. Without rounding the
// raw per-axis differences must both be below Tolerance.
func Equal(a, b vec.Vec2, p numeric.Policy) bool {
	if p.Round {
		return numeric.Milli(a.X) == numeric.Milli(b.X) &&
			numeric.Milli(a.Y) == numeric.Milli(b.Y)
	}
	return math.Abs(a.X-b.X) < Tolerance && math.Abs(a.Y-b.Y) < Tolerance
}

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Center returns the centre of the box.
func (b Box) Center() vec.Vec2 {
	return vec.Vec2{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Bounds returns the bounding box of points. The zero Box is returned for
// an empty slice.
func Bounds(points []drawing.Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{MinX: points[0].X, MaxX: points[0].X, MinY: points[0].Y, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// LabelPosition chooses where the label of p goes, given every point of the
// figure. Points on the left or right edge of the bounding box are labelled
// left/right, then points on the bottom or top edge below/above; interior
// points get a diagonal placement pointing away from the box centre.
func LabelPosition(p drawing.Point, all []drawing.Point) string {
	b := Bounds(all)

	switch {
	case math.Abs(p.X-b.MinX) < edgeTolerance:
		return "left"
	case math.Abs(p.X-b.MaxX) < edgeTolerance:
		return "right"
	case math.Abs(p.Y-b.MinY) < edgeTolerance:
		return "below"
	case math.Abs(p.Y-b.MaxY) < edgeTolerance:
		return "above"
	}

	c := b.Center()
	vertical := "below"
	if p.Y > c.Y {
		vertical = "above"
	}
	horizontal := "left"
	if p.X > c.X {
		horizontal = "right"
	}
	return vertical + " " + horizontal
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b vec.Vec2) float64 {
	return b.Sub(a).Length()
}

// Direction returns the angle, in degrees within (-180, 180], of the ray
// from origin through p.
func Direction(origin, p vec.Vec2) float64 {
	d := p.Sub(origin)
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// Circumcenter returns the centre of the circle through a, b and c. ok is
// false for collinear points.
func Circumcenter(a, b, c vec.Vec2) (center vec.Vec2, ok bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		return vec.Vec2{}, false
	}
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	return vec.Vec2{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}, true
}

// ToVec converts a point to a vector.
func ToVec(p drawing.Point) vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}
