package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/geometry"
	"github.com/kataras/tikz-extractor/pkg/numeric"
)

// Options controls the optional parts of the emitted picture.
type Options struct {
	// Points emits a filled marker for every registered point.
	Points bool
	// Labels emits a node with the label of every registered point.
	Labels bool
	// Policy formats every emitted number.
	Policy numeric.Policy
}

// MarkerRadius is the radius of the emitted point markers.
const MarkerRadius = "2pt"

// ToTikZ writes d as a canonical tikzpicture. Sections come in a fixed
// order, each introduced by a comment line, and empty sections are left
// out. Points are declared once as coordinates and every primitive refers
// to them by name.
func ToTikZ(d *drawing.Drawing, opts Options) string {
	e := &emitter{policy: opts.Policy}
	g := group(d.Primitives)

	e.line(`\begin{tikzpicture}`)

	e.section("Coordinates", len(d.Points))
	for _, p := range d.Points {
		e.line(fmt.Sprintf(`\coordinate (%s) at %s;`, p.Label, e.pair(p.X, p.Y)))
	}

	e.section("Function plots", len(g.functions))
	if len(g.functions) > 0 {
		e.line(`\begin{scope}`)
		if d.Clip != nil {
			e.line(fmt.Sprintf(`\clip %s rectangle %s;`, e.pair(d.Clip.X1, d.Clip.Y1), e.pair(d.Clip.X2, d.Clip.Y2)))
		}
		for _, f := range g.functions {
			e.function(f)
		}
		e.line(`\end{scope}`)
	}

	e.section("Parametric curves", len(g.curves))
	for _, c := range g.curves {
		plotOpts := fmt.Sprintf(`domain=%s:%s, variable=\t`, e.num(c.Domain[0]), e.num(c.Domain[1]))
		e.line(fmt.Sprintf(`\draw%s plot[%s] ({%s}, {%s});`,
			bracket(append([]string{c.Style.String()}, c.Options...)...), plotOpts, c.XExpr, c.YExpr))
	}

	e.section("Angles", len(g.angles))
	for _, a := range g.angles {
		e.line(fmt.Sprintf(`\draw[fill=black, fill opacity=0.1] %s -- ++(%s:%s) %s -- cycle;`,
			e.ref(a.Center), e.num(a.StartAngle), e.num(a.Radius), e.arc(a.StartAngle, a.EndAngle, a.Radius)))
	}

	e.section("Sectors", len(g.sectors))
	for _, s := range g.sectors {
		e.line(fmt.Sprintf(`\filldraw%s (0,0) -- (%s:%s) %s -- cycle;`,
			bracket(s.Style.String(), "shift={"+e.ref(s.Shift)+"}", "fill opacity=0.1"),
			e.num(s.StartAngle), e.num(s.Radius), e.arc(s.StartAngle, s.EndAngle, s.Radius)))
	}

	e.section("Polygons", len(g.polygons))
	for _, p := range g.polygons {
		vertices := make([]string, 0, len(p.Vertices)+1)
		for _, v := range p.Vertices {
			vertices = append(vertices, e.ref(v))
		}
		vertices = append(vertices, "cycle")
		e.line(fmt.Sprintf(`\fill[fill opacity=%s] %s;`, e.num(p.Opacity), strings.Join(vertices, " -- ")))
	}

	e.section("Circles", len(g.circles))
	for _, c := range g.circles {
		e.line(fmt.Sprintf(`\draw%s %s circle (%s);`, bracket(c.Style.String()), e.ref(c.Center), e.num(c.Radius)))
	}

	e.section("Ellipses", len(g.ellipses))
	for _, el := range g.ellipses {
		rotate := ""
		if el.Rotation != nil {
			rotate = fmt.Sprintf("rotate around={%s:%s}", e.num(el.Rotation.Angle), e.ref(el.Rotation.Pivot))
		}
		e.line(fmt.Sprintf(`\draw%s %s ellipse (%s and %s);`,
			bracket(el.Style.String(), rotate), e.ref(el.Center), e.num(el.XRadius), e.num(el.YRadius)))
	}

	e.section("Arcs", len(g.arcs))
	for _, a := range g.arcs {
		shift := ""
		if a.Shift != nil {
			shift = "shift={" + e.ref(*a.Shift) + "}"
		}
		e.line(fmt.Sprintf(`\draw%s (%s:%s) %s;`,
			bracket(a.Style.String(), shift), e.num(a.StartAngle), e.num(a.Radius), e.arc(a.StartAngle, a.EndAngle, a.Radius)))
	}

	segments := e.dedup(g.segments)
	e.section("Segments", len(segments))
	for _, s := range segments {
		e.line(fmt.Sprintf(`\draw%s %s -- %s;`, bracket(s.Style.String()), e.ref(s.A), e.ref(s.B)))
	}

	if opts.Points {
		e.section("Points", len(d.Points))
		for _, p := range d.Points {
			e.line(fmt.Sprintf(`\fill (%s) circle (%s);`, p.Label, MarkerRadius))
		}
	}

	if opts.Labels {
		e.section("Point labels", len(d.Points))
		for _, p := range d.Points {
			e.line(fmt.Sprintf(`\node[%s] at (%s) {%s};`, geometry.LabelPosition(p, d.Points), p.Label, LabelText(p.Label)))
		}
	}

	e.section("Angle labels", len(g.angleLabels))
	for _, l := range g.angleLabels {
		color := ""
		if l.Color != "" {
			color = "color=" + l.Color
		}
		e.line(fmt.Sprintf(`\node%s at %s {%s};`, bracket(color), e.ref(l.Coords), l.Content))
	}

	e.section("Text labels", len(g.texts))
	for _, l := range g.texts {
		placement := l.Placement
		if placement == "" {
			placement = "anchor=center"
		}
		e.line(fmt.Sprintf(`\node[%s] at %s {%s};`, placement, e.ref(l.Coords), l.Content))
	}

	e.line(`\end{tikzpicture}`)
	return e.sb.String()
}

// LabelText renders a point label in math mode, bracing a multi-character
// subscript: A_12 becomes $A_{12}$.
func LabelText(label string) string {
	if base, sub, ok := strings.Cut(label, "_"); ok && len(sub) > 1 {
		return "$" + base + "_{" + sub + "}$"
	}
	return "$" + label + "$"
}

type groups struct {
	functions   []drawing.FunctionPlot
	curves      []drawing.ParametricPlot
	angles      []drawing.AngleMark
	sectors     []drawing.Sector
	polygons    []drawing.Polygon
	circles     []drawing.Circle
	ellipses    []drawing.Ellipse
	arcs        []drawing.Arc
	segments    []drawing.Segment
	angleLabels []drawing.AngleLabel
	texts       []drawing.TextLabel
}

func group(primitives []drawing.Primitive) groups {
	var g groups
	for _, p := range primitives {
		switch v := p.(type) {
		case drawing.FunctionPlot:
			g.functions = append(g.functions, v)
		case drawing.ParametricPlot:
			g.curves = append(g.curves, v)
		case drawing.AngleMark:
			g.angles = append(g.angles, v)
		case drawing.Sector:
			g.sectors = append(g.sectors, v)
		case drawing.Polygon:
			g.polygons = append(g.polygons, v)
		case drawing.Circle:
			g.circles = append(g.circles, v)
		case drawing.Ellipse:
			g.ellipses = append(g.ellipses, v)
		case drawing.Arc:
			g.arcs = append(g.arcs, v)
		case drawing.Segment:
			g.segments = append(g.segments, v)
		case drawing.AngleLabel:
			g.angleLabels = append(g.angleLabels, v)
		case drawing.TextLabel:
			g.texts = append(g.texts, v)
		}
	}
	return g
}

type emitter struct {
	sb     strings.Builder
	policy numeric.Policy
}

func (e *emitter) line(s string) {
	e.sb.WriteString(s)
	e.sb.WriteByte('\n')
}

func (e *emitter) section(title string, n int) {
	if n > 0 {
		e.line("% " + title)
	}
}

func (e *emitter) num(x float64) string {
	return e.policy.Format(x)
}

func (e *emitter) pair(x, y float64) string {
	return e.policy.FormatPair(x, y)
}

func (e *emitter) ref(c drawing.CoordinateRef) string {
	if c.Named() {
		return "(" + c.Label + ")"
	}
	return e.pair(c.X, c.Y)
}

func (e *emitter) arc(from, to, r float64) string {
	return fmt.Sprintf("arc (%s:%s:%s)", e.num(from), e.num(to), e.num(r))
}

func (e *emitter) function(f drawing.FunctionPlot) {
	options := []string{f.Style.String()}
	expr := f.Expression
	if q := f.Quadratic; q != nil {
		if q.Rotation != nil {
			options = append(options, fmt.Sprintf("rotate around={%s:%s}",
				e.num(q.Rotation.Angle), e.pair(q.Rotation.PX, q.Rotation.PY)))
		}
		if q.XShift != nil {
			options = append(options, "xshift="+e.num(*q.XShift)+"cm")
		}
		if q.YShift != nil {
			options = append(options, "yshift="+e.num(*q.YShift)+"cm")
		}
		expr = `(\x)^2/2/` + e.num(q.K)
	}
	options = append(options, f.Options...)
	options = append(options, fmt.Sprintf("domain=%s:%s", e.num(f.Domain[0]), e.num(f.Domain[1])))
	e.line(fmt.Sprintf(`\draw%s plot (\x, {%s});`, bracket(options...), expr))
}

// dedup drops every segment whose unordered endpoint pair was already
// emitted. Named endpoints compare by label, inline ones by their rounded
// coordinates.
func (e *emitter) dedup(segments []drawing.Segment) []drawing.Segment {
	seen := make(map[[2]string]struct{}, len(segments))
	out := make([]drawing.Segment, 0, len(segments))
	for _, s := range segments {
		ends := []string{endpointKey(s.A), endpointKey(s.B)}
		sort.Strings(ends)
		key := [2]string{ends[0], ends[1]}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func endpointKey(c drawing.CoordinateRef) string {
	if c.Named() {
		return "name:" + c.Label
	}
	return fmt.Sprintf("xy:%d,%d", numeric.Milli(c.X), numeric.Milli(c.Y))
}

// bracket renders a non-empty option list as "[a, b]".
func bracket(options ...string) string {
	kept := options[:0:0]
	for _, o := range options {
		if o != "" {
			kept = append(kept, o)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return "[" + strings.Join(kept, ", ") + "]"
}
