package extractor

import (
	"regexp"
	"strings"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"
)

var (
	drawNodeRegex = regexp.MustCompile(`^\\draw` + optsPat + `\s*(` + refPat + `)\s*node` + optsPat + `\s*\{(.*)\}$`)
	nodeAtRegex   = regexp.MustCompile(`^\\node` + optsPat + `\s*(?:\([^)]*\)\s*)?at\s*(` + refPat + `)\s*\{(.*)\}$`)
	pointNameRe   = regexp.MustCompile(`^[A-Za-z][\w']*$`)
	labelStripper = strings.NewReplacer("$", "", "{", "", "}", "")
)

// node is a text node statement in either the "\draw (p) node {..}" or the
// "\node at (p) {..}" form.
type node struct {
	coord     string
	color     string
	placement string
	content   string
}

func parseNode(st string) (node, bool) {
	var drawOpts, nodeOpts, coord, content string
	if m := drawNodeRegex.FindStringSubmatch(st); m != nil {
		drawOpts, coord, nodeOpts, content = m[1], m[2], m[3], m[4]
	} else if m := nodeAtRegex.FindStringSubmatch(st); m != nil {
		nodeOpts, coord, content = m[1], m[2], m[3]
	} else {
		return node{}, false
	}
	if !balanced(content) {
		return node{}, false
	}

	n := node{coord: coord, content: strings.TrimSpace(content)}
	var placement []string
	for _, opt := range parseOptions(nodeOpts) {
		k, v, _ := strings.Cut(opt, "=")
		switch strings.TrimSpace(k) {
		case "color", "text":
			n.color = strings.TrimSpace(v)
		case "fill", "draw", "line width":
		default:
			placement = append(placement, opt)
		}
	}
	if n.color == "" {
		n.color, _ = parseOptions(drawOpts).value("color")
	}
	n.placement = strings.Join(placement, ", ")
	return n, true
}

func (n node) numeric() (x, y float64, ok bool) {
	return numeric.ParseCoordinate(n.coord)
}

// bare reports whether the node has no placement, the GeoGebra shape of a
// point label.
func (n node) bare() bool {
	return n.placement == ""
}

func (n node) angleValued() bool {
	c := n.content
	return strings.Contains(c, `^\circ`) ||
		strings.Contains(c, `^{\circ}`) ||
		strings.Contains(c, "°") ||
		strings.Contains(c, `\degree`)
}

// pointName sanitizes node content into a point label: "$A_{1}$" is A_1.
func pointName(content string) (string, bool) {
	name := labelStripper.Replace(content)
	if !pointNameRe.MatchString(name) {
		return "", false
	}
	return name, true
}

func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// TextLabels extracts free text nodes at literal coordinates. Nodes paired
// with a point marker and nodes at named references are point labels, which
// the emitter regenerates.
func TextLabels(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for i, st := range src.Statements {
		if _, isLabel := ctx.Labelled[i]; isLabel {
			continue
		}
		n, ok := parseNode(st)
		if !ok || n.angleValued() {
			continue
		}
		x, y, ok := n.numeric()
		if !ok {
			continue
		}
		out = append(out, drawing.TextLabel{
			Coords:    drawing.At(ctx.Policy.Apply(x), ctx.Policy.Apply(y)),
			Placement: n.placement,
			Content:   n.content,
		})
	}
	return out
}

// AngleLabels extracts nodes whose content is an angle value. The node
// colour is kept.
func AngleLabels(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for _, st := range src.Statements {
		n, ok := parseNode(st)
		if !ok || !n.angleValued() {
			continue
		}
		x, y, ok := n.numeric()
		if !ok {
			continue
		}
		out = append(out, drawing.AngleLabel{
			Color:   n.color,
			Coords:  drawing.At(ctx.Policy.Apply(x), ctx.Policy.Apply(y)),
			Content: n.content,
		})
	}
	return out
}
