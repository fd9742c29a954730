package extractor

import (
	"errors"
	"regexp"
	"strings"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"
)

var (
	clipRegex      = regexp.MustCompile(`^\\clip\s*` + originPat + `\s*rectangle\s*` + originPat + `$`)
	plotRegex      = regexp.MustCompile(`^\\draw` + optsPat + `\s*plot` + optsPat + `\s*\((.*)\)$`)
	xVariableRegex = regexp.MustCompile(`^\{?\s*\\x\s*\}?$`)
	quadraticRegex = regexp.MustCompile(`^\(\s*\\x\s*\)\s*\^\s*2\s*/\s*2\s*/\s*(` + num + `)$`)
	rotateLiteral  = regexp.MustCompile(`rotate around\s*=\s*\{\s*(` + num + `)\s*:\s*` + originPat + `\s*\}`)
	lengthRegex    = regexp.MustCompile(`^(` + num + `)`)

	errNoDomain = errors.New("plot has no domain")
)

// Clip returns the first clipping rectangle of the source, nil if there is
// none.
func Clip(src *Source) *drawing.Clip {
	for _, st := range src.Statements {
		m := clipRegex.FindStringSubmatch(st)
		if m == nil {
			continue
		}
		var v [4]float64
		ok := true
		for i := range v {
			f, err := numeric.ParseFloat(m[i+1])
			if err != nil {
				ok = false
				break
			}
			v[i] = f
		}
		if ok {
			return &drawing.Clip{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
		}
	}
	return nil
}

// plot is a "\draw[..] plot[..] (args)" statement split into its parts.
type plot struct {
	drawOpts options
	plotOpts options
	rawOpts  string
	args     []string
}

func parsePlot(st string) (plot, bool) {
	m := plotRegex.FindStringSubmatch(st)
	if m == nil {
		return plot{}, false
	}
	args := splitTopLevel(m[3], ',')
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	return plot{
		drawOpts: parseOptions(m[1]),
		plotOpts: parseOptions(m[2]),
		rawOpts:  m[1],
		args:     args,
	}, true
}

func (p plot) domain() ([2]float64, bool) {
	if d, ok := p.plotOpts.domain(); ok {
		return d, true
	}
	return p.drawOpts.domain()
}

func (p plot) sampling() []string {
	return append(p.drawOpts.sampling(), p.plotOpts.sampling()...)
}

// FunctionPlots extracts y = f(\x) plots. They are only recognized when the
// drawing declares a clipping rectangle. GeoGebra parabolas, written as
// (\x)^2/2/k with rotate and shift options, keep those parameters.
func FunctionPlots(src *Source, ctx *Context) []drawing.Primitive {
	if Clip(src) == nil {
		return nil
	}
	var out []drawing.Primitive
	for _, st := range src.Statements {
		p, ok := parsePlot(st)
		if !ok || len(p.args) != 2 || !xVariableRegex.MatchString(p.args[0]) {
			continue
		}
		expr, ok := braced(p.args[1])
		if !ok {
			continue
		}
		domain, ok := p.domain()
		if !ok {
			ctx.skip("functions", st, errNoDomain)
			continue
		}
		expr = strings.TrimSpace(expr)
		fp := drawing.FunctionPlot{
			Options:    p.sampling(),
			Domain:     domain,
			Expression: ctx.Policy.RoundLiterals(expr),
			Style:      LineStyle(p.rawOpts),
		}
		if m := quadraticRegex.FindStringSubmatch(expr); m != nil {
			q, err := quadratic(m[1], p.rawOpts, p.drawOpts)
			if err != nil {
				ctx.skip("functions", st, err)
				continue
			}
			fp.Quadratic = q
		}
		out = append(out, fp)
	}
	return out
}

func quadratic(k, rawOpts string, opts options) (*drawing.Quadratic, error) {
	kv, err := numeric.ParseFloat(k)
	if err != nil {
		return nil, err
	}
	q := &drawing.Quadratic{K: kv}
	if m := rotateLiteral.FindStringSubmatch(rawOpts); m != nil {
		angle, errA := numeric.ParseFloat(m[1])
		px, errX := numeric.ParseFloat(m[2])
		py, errY := numeric.ParseFloat(m[3])
		if err := errors.Join(errA, errX, errY); err != nil {
			return nil, err
		}
		q.Rotation = &drawing.QuadraticRotation{Angle: angle, PX: px, PY: py}
	}
	if q.XShift, err = length(opts, "xshift"); err != nil {
		return nil, err
	}
	if q.YShift, err = length(opts, "yshift"); err != nil {
		return nil, err
	}
	return q, nil
}

// length reads a "key=<number>cm" option.
func length(opts options, key string) (*float64, error) {
	v, ok := opts.value(key)
	if !ok {
		return nil, nil
	}
	m := lengthRegex.FindStringSubmatch(v)
	if m == nil {
		return nil, numeric.ErrMalformedNumber
	}
	f, err := numeric.ParseFloat(m[1])
	if err != nil {
		return nil, err
	}
	return &f, nil
}
