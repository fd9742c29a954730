package extractor

import (
	"regexp"
	"strings"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"
	"github.com/kataras/tikz-extractor/pkg/registry"
)

var (
	gnuplotRegex = regexp.MustCompile(`^\\draw` + optsPat + `\s*plot\s*\[([^\]]*)\]\s*function\s*\{(.*)\}$`)
	bezierRegex  = regexp.MustCompile(`^\\draw` + optsPat + `\s*(` + refPat + `)\s*\.\.\s*controls\s*(` + refPat + `)(?:\s*and\s*(` + refPat + `))?\s*\.\.\s*(` + refPat + `)$`)
)

// ParametricPlots extracts (x(t), y(t)) curves in three shapes: gnuplot
// "plot[parametric] function{X,Y}", the pgf "plot[..] ({X},{Y})" form and
// Bézier curves, which are rewritten as their Bernstein polynomials over
// [0,1]. Circular arc plots belong to Arcs and Sectors.
func ParametricPlots(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for _, st := range src.Statements {
		if m := gnuplotRegex.FindStringSubmatch(st); m != nil {
			plotOpts := parseOptions(m[2])
			if !plotOpts.has("parametric") {
				continue
			}
			p := plot{drawOpts: parseOptions(m[1]), plotOpts: plotOpts, rawOpts: m[1]}
			axes := splitTopLevel(m[3], ',')
			if len(axes) != 2 {
				ctx.skip("curves", st, registry.ErrMalformedCoordinate)
				continue
			}
			if pp, ok := parametric(ctx, st, p, rewriteVariable(axes[0]), rewriteVariable(axes[1])); ok {
				out = append(out, pp)
			}
			continue
		}

		if m := bezierRegex.FindStringSubmatch(st); m != nil {
			pp, err := bezier(ctx, m)
			if err != nil {
				ctx.skip("curves", st, err)
				continue
			}
			out = append(out, pp)
			continue
		}

		p, ok := parsePlot(st)
		if !ok || len(p.args) != 2 || xVariableRegex.MatchString(p.args[0]) || isArcPlot(st) {
			continue
		}
		x, okX := braced(p.args[0])
		y, okY := braced(p.args[1])
		if !okX || !okY {
			continue
		}
		if pp, ok := parametric(ctx, st, p, x, y); ok {
			out = append(out, pp)
		}
	}
	return out
}

func parametric(ctx *Context, st string, p plot, x, y string) (drawing.ParametricPlot, bool) {
	domain, ok := p.domain()
	if !ok {
		ctx.skip("curves", st, errNoDomain)
		return drawing.ParametricPlot{}, false
	}
	return drawing.ParametricPlot{
		XExpr:   ctx.Policy.RoundLiterals(strings.TrimSpace(x)),
		YExpr:   ctx.Policy.RoundLiterals(strings.TrimSpace(y)),
		Domain:  domain,
		Options: p.sampling(),
		Style:   LineStyle(p.rawOpts),
	}, true
}

// rewriteVariable turns gnuplot syntax into pgf syntax: "**" becomes "^"
// and every standalone t becomes \t.
func rewriteVariable(expr string) string {
	expr = strings.ReplaceAll(strings.TrimSpace(expr), "**", "^")
	var b strings.Builder
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c == 't' {
			standalone := (i == 0 || !isLetter(expr[i-1]) && expr[i-1] != '\\') &&
				(i+1 == len(expr) || !isLetter(expr[i+1]) && !isDigit(expr[i+1]))
			if standalone {
				b.WriteString(`\t`)
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

// bezier converts a cubic (or quadratic) Bézier path into a parametric plot.
func bezier(ctx *Context, m []string) (drawing.ParametricPlot, error) {
	raws := []string{m[2], m[3], m[4], m[5]}
	quadraticCurve := raws[2] == ""
	if quadraticCurve {
		raws = []string{m[2], m[3], m[5]}
	}
	refs, err := resolveAll(ctx.Registry, raws)
	if err != nil {
		return drawing.ParametricPlot{}, err
	}
	if quadraticCurve {
		// elevate: c1 = p0 + 2/3(q-p0), c2 = p3 + 2/3(q-p3)
		p0, q, p3 := refs[0], refs[1], refs[2]
		c1 := drawing.At(p0.X+2*(q.X-p0.X)/3, p0.Y+2*(q.Y-p0.Y)/3)
		c2 := drawing.At(p3.X+2*(q.X-p3.X)/3, p3.Y+2*(q.Y-p3.Y)/3)
		refs = []drawing.CoordinateRef{p0, c1, c2, p3}
	}
	return drawing.ParametricPlot{
		XExpr:  bernstein(ctx.Policy, refs[0].X, refs[1].X, refs[2].X, refs[3].X),
		YExpr:  bernstein(ctx.Policy, refs[0].Y, refs[1].Y, refs[2].Y, refs[3].Y),
		Domain: [2]float64{0, 1},
		Style:  LineStyle(m[1]),
	}, nil
}

func bernstein(policy numeric.Policy, p0, p1, p2, p3 float64) string {
	coef := func(v float64) string {
		s := policy.Format(v)
		if strings.HasPrefix(s, "-") {
			return "(" + s + ")"
		}
		return s
	}
	return `(1-\t)^3*` + coef(p0) +
		`+3*(1-\t)^2*\t*` + coef(p1) +
		`+3*(1-\t)*\t^2*` + coef(p2) +
		`+\t^3*` + coef(p3)
}
