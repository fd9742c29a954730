package construction

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/geometry"
	"github.com/kataras/tikz-extractor/pkg/numeric"
	"github.com/kataras/tikz-extractor/pkg/registry"

	"seehuhn.de/go/geom/vec"
)

// AngleRadius is the radius of the emitted angle marks.
const AngleRadius = 0.6

// angleLabelDistance is how far from the vertex, along the bisector, the
// measured value is written.
const angleLabelDistance = 1.6 * AngleRadius

// Extract parses a construction document and derives its primitives.
// Segments, polygons, circles and angles come from their commands; the
// points are those any kept primitive references plus those the document
// shows on its own, sorted by label.
func Extract(text string, policy numeric.Policy, warn func(format string, args ...any)) (*drawing.Drawing, error) {
	c, err := Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	// The first pass only collects the referenced points.
	collect := &builder{c: c, policy: policy, referenced: make(map[string]drawing.Point)}
	collect.walk()

	points := collect.points()
	b := &builder{
		c:          c,
		policy:     policy,
		warn:       warn,
		reg:        registry.New(policy, points...),
		referenced: make(map[string]drawing.Point),
	}
	b.walk()

	d := &drawing.Drawing{Points: b.reg.Points()}
	d.Add(b.out...)
	return d, nil
}

type builder struct {
	c          *Construction
	policy     numeric.Policy
	warn       func(format string, args ...any)
	reg        *registry.Registry
	referenced map[string]drawing.Point
	out        []drawing.Primitive
}

func (b *builder) skip(command Command, reason string) {
	if b.warn != nil && b.reg != nil {
		b.warn("construction: skipping %s%v: %s", command.Name, command.Inputs, reason)
	}
}

// points returns the referenced points and every point shown on its own,
// ordered by label.
func (b *builder) points() []drawing.Point {
	set := make(map[string]drawing.Point, len(b.referenced))
	for k, p := range b.referenced {
		set[k] = p
	}
	for _, e := range b.c.Elements {
		if e.IsPoint() && (e.Visible || e.LabelVisible) {
			if p, ok := b.toPoint(e); ok {
				set[p.Label] = p
			}
		}
	}

	out := make([]drawing.Point, 0, len(set))
	for _, p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func (b *builder) toPoint(e *Element) (drawing.Point, bool) {
	name := coordinateName(e.Label)
	if name == "" {
		return drawing.Point{}, false
	}
	return drawing.Point{Label: name, X: b.policy.Apply(e.X), Y: b.policy.Apply(e.Y)}, true
}

// point resolves a command argument naming a point.
func (b *builder) point(label string) (drawing.CoordinateRef, vec.Vec2, bool) {
	e := b.c.Element(label)
	if !e.IsPoint() {
		return drawing.CoordinateRef{}, vec.Vec2{}, false
	}
	p, ok := b.toPoint(e)
	if !ok {
		return drawing.CoordinateRef{}, vec.Vec2{}, false
	}
	v := vec.Vec2{X: e.X, Y: e.Y}
	if b.reg != nil {
		if registered, ok := b.reg.Lookup(p.Label); ok {
			return registered.Ref(), v, true
		}
	}
	return p.Ref(), v, true
}

func (b *builder) inline(v vec.Vec2) drawing.CoordinateRef {
	if b.reg != nil {
		return b.reg.ResolveXY(v.X, v.Y)
	}
	return drawing.At(b.policy.Apply(v.X), b.policy.Apply(v.Y))
}

// add keeps p and records the named points it touches as referenced.
func (b *builder) add(p drawing.Primitive, touched ...drawing.CoordinateRef) {
	for _, ref := range touched {
		if ref.Named() {
			b.referenced[ref.Label] = drawing.Point{Label: ref.Label, X: ref.X, Y: ref.Y}
		}
	}
	if b.reg != nil {
		b.out = append(b.out, p)
	}
}

// shown returns the output element of a command when it is visible.
func (b *builder) shown(command Command, i int) (*Element, bool) {
	if i >= len(command.Outputs) {
		return nil, false
	}
	e := b.c.Element(command.Outputs[i])
	if e == nil || !e.Visible {
		return nil, false
	}
	return e, true
}

func (b *builder) walk() {
	owned := b.polygonEdges()
	for _, command := range b.c.Commands {
		switch command.Name {
		case "Segment":
			b.segment(command, owned)
		case "Polygon":
			b.polygon(command)
		case "Circle":
			b.circle(command)
		case "Angle":
			b.angle(command)
		}
	}
}

type edge [2]string

func newEdge(a, b string) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// polygonEdges lists the vertex pairs drawn by Polygon commands.
func (b *builder) polygonEdges() map[edge]struct{} {
	owned := make(map[edge]struct{})
	for _, command := range b.c.Commands {
		if command.Name != "Polygon" || !b.allPoints(command.Inputs) {
			continue
		}
		n := len(command.Inputs)
		for i := range command.Inputs {
			owned[newEdge(command.Inputs[i], command.Inputs[(i+1)%n])] = struct{}{}
		}
	}
	return owned
}

func (b *builder) allPoints(labels []string) bool {
	for _, l := range labels {
		if !b.c.Element(l).IsPoint() {
			return false
		}
	}
	return len(labels) > 0
}

func (b *builder) segment(command Command, owned map[edge]struct{}) {
	if len(command.Inputs) != 2 {
		return
	}
	e, ok := b.shown(command, 0)
	if !ok {
		return
	}
	if _, isEdge := owned[newEdge(command.Inputs[0], command.Inputs[1])]; isEdge {
		return
	}
	p, _, okP := b.point(command.Inputs[0])
	q, _, okQ := b.point(command.Inputs[1])
	if !okP || !okQ {
		b.skip(command, "endpoint is not a point")
		return
	}
	b.add(drawing.Segment{A: p, B: q, Style: e.LineStyle}, p, q)
}

// polygon emits the edges of a Polygon command as segments, each once, and
// the fill when the polygon has a non-zero alpha.
func (b *builder) polygon(command Command) {
	if !b.allPoints(command.Inputs) || len(command.Inputs) < 3 {
		b.skip(command, "vertices are not points")
		return
	}
	face, faceShown := b.shown(command, 0)
	if !faceShown && !b.anyEdgeShown(command) {
		return
	}

	vertices := make([]drawing.CoordinateRef, 0, len(command.Inputs))
	for _, l := range command.Inputs {
		ref, _, _ := b.point(l)
		vertices = append(vertices, ref)
	}

	n := len(vertices)
	for i := range vertices {
		style := drawing.LineSolid
		if len(command.Outputs) > 1 {
			// edge i joins vertex i and i+1
			e, ok := b.shown(command, i+1)
			if !ok {
				continue
			}
			style = e.LineStyle
		} else if !faceShown {
			continue
		}
		a, c := vertices[i], vertices[(i+1)%n]
		b.add(drawing.Segment{A: a, B: c, Style: style}, a, c)
	}

	if faceShown && face.Alpha > 0 {
		b.add(drawing.Polygon{Vertices: vertices, Opacity: face.Alpha}, vertices...)
	}
}

func (b *builder) anyEdgeShown(command Command) bool {
	for i := 1; i < len(command.Outputs); i++ {
		if _, ok := b.shown(command, i); ok {
			return true
		}
	}
	return false
}

// circle handles Circle[centre, point], Circle[centre, radius] and
// Circle[A, B, C].
func (b *builder) circle(command Command) {
	e, ok := b.shown(command, 0)
	if !ok {
		return
	}

	switch len(command.Inputs) {
	case 2:
		center, cv, ok := b.point(command.Inputs[0])
		if !ok {
			b.skip(command, "centre is not a point")
			return
		}
		radius, through, ok := b.radius(command.Inputs[1], cv)
		if !ok {
			b.skip(command, "radius is neither a point nor a number")
			return
		}
		b.add(drawing.Circle{Center: center, Radius: radius, Style: e.LineStyle}, center, through)
	case 3:
		var (
			vs   [3]vec.Vec2
			refs [3]drawing.CoordinateRef
		)
		for i, l := range command.Inputs {
			ref, v, ok := b.point(l)
			if !ok {
				b.skip(command, "circle through non-points")
				return
			}
			vs[i], refs[i] = v, ref
		}
		c, ok := geometry.Circumcenter(vs[0], vs[1], vs[2])
		if !ok {
			b.skip(command, "points are collinear")
			return
		}
		b.add(drawing.Circle{Center: b.inline(c), Radius: geometry.Distance(c, vs[0]), Style: e.LineStyle}, refs[:]...)
	}
}

// radius reads the second Circle argument: a point on the circle, a
// numeric element or a literal number. through is set only for a point.
func (b *builder) radius(arg string, center vec.Vec2) (r float64, through drawing.CoordinateRef, ok bool) {
	if ref, v, ok := b.point(arg); ok {
		return geometry.Distance(center, v), ref, true
	}
	if e := b.c.Element(arg); e != nil && e.HasValue {
		return e.Value, drawing.CoordinateRef{}, true
	}
	r, err := strconv.ParseFloat(arg, 64)
	return r, drawing.CoordinateRef{}, err == nil
}

// angle handles Angle[A, B, C]: the wedge at B turning counterclockwise
// from BA to BC, with the measured value written on its bisector.
func (b *builder) angle(command Command) {
	if len(command.Inputs) != 3 {
		return
	}
	if _, ok := b.shown(command, 0); !ok {
		return
	}
	armA, av, okA := b.point(command.Inputs[0])
	vertex, bv, okB := b.point(command.Inputs[1])
	armC, cv, okC := b.point(command.Inputs[2])
	if !okA || !okB || !okC {
		b.skip(command, "angle arms are not points")
		return
	}

	start := geometry.Direction(bv, av)
	end := geometry.Direction(bv, cv)
	if end < start {
		end += 360
	}
	b.add(drawing.AngleMark{Center: vertex, StartAngle: start, EndAngle: end, Radius: AngleRadius}, armA, vertex, armC)

	mid := (start + end) / 2 * math.Pi / 180
	at := bv.Add(vec.Vec2{X: math.Cos(mid), Y: math.Sin(mid)}.Mul(angleLabelDistance))
	b.add(drawing.AngleLabel{
		Coords:  drawing.At(b.policy.Apply(at.X), b.policy.Apply(at.Y)),
		Content: "$" + b.policy.Format(end-start) + `^\circ$`,
	})
}

// coordinateName keeps the characters a TikZ coordinate name may hold.
func coordinateName(label string) string {
	var sb strings.Builder
	for _, r := range label {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\'' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
