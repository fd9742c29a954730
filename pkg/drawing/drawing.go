// Package drawing holds the primitive model shared by both front ends (the
// TikZ markup extractor and the GeoGebra construction extractor) and the
// canonical emitter.
//
// Primitives form a closed sum type: every family is a struct implementing
// the unexported marker method of [Primitive], and consumers dispatch with a
// type switch.
package drawing

// Point is a labelled point of the figure.
type Point struct {
	Label string
	X, Y  float64
}

// CoordinateRef is either a reference to a registered Point (Label set) or
// an inline coordinate literal.
type CoordinateRef struct {
	Label string
	X, Y  float64
}

// Named reports whether the reference resolves to a registered point.
func (c CoordinateRef) Named() bool {
	return c.Label != ""
}

// Ref returns a reference to p.
func (p Point) Ref() CoordinateRef {
	return CoordinateRef{Label: p.Label, X: p.X, Y: p.Y}
}

// At returns an inline coordinate reference.
func At(x, y float64) CoordinateRef {
	return CoordinateRef{X: x, Y: y}
}

// LineStyle is the dash category of a stroke. Width and colour are never
// kept.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDashed
	LineDotted
	LineDashDot
)

// String returns the TikZ option for the style, empty for solid lines.
func (s LineStyle) String() string {
	switch s {
	case LineDashed:
		return "dashed"
	case LineDotted:
		return "dotted"
	case LineDashDot:
		return "dash dot"
	default:
		return ""
	}
}

// Primitive is one recognized shape.
type Primitive interface {
	primitive()
}

// Segment is an undirected straight segment.
type Segment struct {
	A, B  CoordinateRef
	Style LineStyle
}

// Circle is a full circle.
type Circle struct {
	Center CoordinateRef
	Radius float64
	Style  LineStyle
}

// Rotation rotates a shape by Angle degrees around Pivot.
type Rotation struct {
	Angle float64
	Pivot CoordinateRef
}

// Ellipse is an axis-aligned ellipse, optionally rotated.
type Ellipse struct {
	Center           CoordinateRef
	XRadius, YRadius float64
	Style            LineStyle
	Rotation         *Rotation
}

// Arc is a circular arc between two angles, in degrees, centred on Shift
// (the origin when Shift is nil).
type Arc struct {
	Style      LineStyle
	StartAngle float64
	EndAngle   float64
	Radius     float64
	Shift      *CoordinateRef
}

// Sector is a filled circular sector centred on Shift.
type Sector struct {
	Shift      CoordinateRef
	StartAngle float64
	EndAngle   float64
	Radius     float64
	Style      LineStyle
}

// AngleMark is the filled wedge marking an angle at Center.
type AngleMark struct {
	Center     CoordinateRef
	StartAngle float64
	EndAngle   float64
	Radius     float64
}

// Quadratic is the GeoGebra parabola shortcut plot(\x,{(\x)^2/2/K}).
type Quadratic struct {
	K        float64
	Rotation *QuadraticRotation
	XShift   *float64
	YShift   *float64
}

// QuadraticRotation is the rotate-around option of a parabola, kept as
// literal numbers.
type QuadraticRotation struct {
	Angle  float64
	PX, PY float64
}

// FunctionPlot is a y = f(x) plot over Domain. Options keeps the sampling
// options (smooth, samples=N) in source order.
type FunctionPlot struct {
	Options    []string
	Domain     [2]float64
	Expression string
	Style      LineStyle
	Quadratic  *Quadratic
}

// ParametricPlot is a curve (x(t), y(t)) over Domain, with expressions
// written against the TikZ variable \t.
type ParametricPlot struct {
	XExpr   string
	YExpr   string
	Domain  [2]float64
	Options []string
	Style   LineStyle
}

// TextLabel is a free-standing text node.
type TextLabel struct {
	Coords    CoordinateRef
	Placement string
	Content   string
}

// AngleLabel is a node carrying an angle value such as $45^\circ$.
type AngleLabel struct {
	Color   string
	Coords  CoordinateRef
	Content string
}

// Polygon is a filled closed polygon.
type Polygon struct {
	Vertices []CoordinateRef
	Opacity  float64
}

func (Segment) primitive()        {}
func (Circle) primitive()         {}
func (Ellipse) primitive()        {}
func (Arc) primitive()            {}
func (Sector) primitive()         {}
func (AngleMark) primitive()      {}
func (FunctionPlot) primitive()   {}
func (ParametricPlot) primitive() {}
func (TextLabel) primitive()      {}
func (AngleLabel) primitive()     {}
func (Polygon) primitive()        {}

// Clip is the clipping rectangle that scopes function plots.
type Clip struct {
	X1, Y1, X2, Y2 float64
}

// Drawing is the result of one conversion run.
type Drawing struct {
	Points     []Point
	Clip       *Clip
	Primitives []Primitive
}

// Add appends primitives in order.
func (d *Drawing) Add(p ...Primitive) {
	d.Primitives = append(d.Primitives, p...)
}

// Count returns the number of primitives of each family, keyed by the
// family name used in log output.
func (d *Drawing) Count() map[string]int {
	counts := make(map[string]int)
	for _, p := range d.Primitives {
		counts[Family(p)]++
	}
	if len(d.Points) > 0 {
		counts["points"] = len(d.Points)
	}
	return counts
}

// Family names the family of p.
func Family(p Primitive) string {
	switch p.(type) {
	case Segment:
		return "segments"
	case Circle:
		return "circles"
	case Ellipse:
		return "ellipses"
	case Arc:
		return "arcs"
	case Sector:
		return "sectors"
	case AngleMark:
		return "angles"
	case FunctionPlot:
		return "functions"
	case ParametricPlot:
		return "curves"
	case TextLabel:
		return "texts"
	case AngleLabel:
		return "angle labels"
	case Polygon:
		return "polygons"
	default:
		return "unknown"
	}
}
