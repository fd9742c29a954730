package extractor

import (
	"errors"
	"math"
	"regexp"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"
)

// GeoGebra writes circular arcs as a parametric plot over a radian domain:
//
//	plot[domain=a:b,variable=\t]({1*r*cos(\t r)+0*r*sin(\t r)},{0*r*cos(\t r)+1*r*sin(\t r)})
const (
	trigTerm    = `(` + num + `)\s*\*\s*(` + num + `)\s*\*\s*`
	cosT        = `cos\s*\(\s*\\t\s*r\s*\)`
	sinT        = `sin\s*\(\s*\\t\s*r\s*\)`
	trigAxis    = `\{\s*` + trigTerm + cosT + `\s*\+\s*` + trigTerm + sinT + `\s*\}`
	trigPlotPat = `plot\s*\[\s*domain\s*=\s*(` + num + `)\s*:\s*(` + num + `)\s*,\s*variable\s*=\s*\\t\s*\]\s*\(\s*` + trigAxis + `\s*,\s*` + trigAxis + `\s*\)`
	originPat   = `\(\s*(` + num + `)\s*,\s*(` + num + `)\s*\)`
)

var (
	arcPlotRegex    = regexp.MustCompile(`^\\draw` + optsPat + `\s*` + trigPlotPat + `$`)
	sectorPlotRegex = regexp.MustCompile(anyDrawPat + optsPat + `\s*` + originPat + `\s*--\s*` + trigPlotPat + cyclePat + `$`)

	arcRegex       = regexp.MustCompile(`^\\draw` + optsPat + `\s*` + polarPat + `\s*` + arcPat + `$`)
	sectorRegex    = regexp.MustCompile(`^\\filldraw` + optsPat + `\s*` + originPat + `\s*--\s*` + polarPat + `\s*` + arcPat + cyclePat + `$`)
	shiftedWedge   = regexp.MustCompile(`^\\draw` + optsPat + `\s*` + originPat + `\s*--\s*` + polarPat + `\s*` + arcPat + cyclePat + `$`)
	anchoredWedge  = regexp.MustCompile(anyDrawPat + optsPat + `\s*(` + refPat + `)\s*--\s*\+\+` + polarPat + `\s*` + arcPat + cyclePat + `$`)
	errNotCircular = errors.New("plot is not a circular arc")
)

// trigArc reads the domain and radius of a GeoGebra arc plot from the ten
// captured groups: two domain bounds then eight coefficients.
func trigArc(groups []string) (from, to, radius float64, err error) {
	vals := make([]float64, len(groups))
	for i, g := range groups {
		if vals[i], err = numeric.ParseFloat(g); err != nil {
			return 0, 0, 0, err
		}
	}
	c := vals[2:]
	const eps = 1e-9
	rx, ry := c[0]*c[1], c[6]*c[7]
	if math.Abs(c[2]*c[3]) > eps || math.Abs(c[4]*c[5]) > eps || math.Abs(rx-ry) > eps || rx <= 0 {
		return 0, 0, 0, errNotCircular
	}
	return degrees(vals[0]), degrees(vals[1]), rx, nil
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// isArcPlot reports whether st is a GeoGebra circular arc or sector plot,
// so the parametric extractor can leave it alone.
func isArcPlot(st string) bool {
	if m := arcPlotRegex.FindStringSubmatch(st); m != nil {
		_, _, _, err := trigArc(m[2:12])
		return err == nil
	}
	if m := sectorPlotRegex.FindStringSubmatch(st); m != nil {
		_, _, _, err := trigArc(m[4:14])
		return err == nil
	}
	return false
}

// shifted resolves the point reached from the origin (ox,oy) after the
// optional shift={(..)} option.
func shifted(ctx *Context, opts options, ox, oy string) (drawing.CoordinateRef, error) {
	x, errX := numeric.ParseFloat(ox)
	y, errY := numeric.ParseFloat(oy)
	if errX != nil || errY != nil {
		return drawing.CoordinateRef{}, errors.Join(errX, errY)
	}
	v, ok := opts.value("shift")
	if !ok {
		return ctx.Registry.ResolveXY(x, y), nil
	}
	raw, _ := braced(v)
	shift, err := ctx.Registry.Resolve(raw)
	if err != nil {
		return drawing.CoordinateRef{}, err
	}
	if x == 0 && y == 0 {
		return shift, nil
	}
	return ctx.Registry.ResolveXY(shift.X+x, shift.Y+y), nil
}

func parseArc(a, b, r string) (from, to, radius float64, err error) {
	if from, err = numeric.ParseFloat(a); err != nil {
		return
	}
	if to, err = numeric.ParseFloat(b); err != nil {
		return
	}
	radius, err = numeric.ParseFloat(r)
	return
}

// Arcs extracts open circular arcs, from GeoGebra plots (radian domains
// converted to degrees) and from the "(a:r) arc (a:b:r)" form.
func Arcs(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for _, st := range src.Statements {
		var (
			opts             string
			from, to, radius float64
			err              error
		)
		if m := arcPlotRegex.FindStringSubmatch(st); m != nil {
			opts = m[1]
			from, to, radius, err = trigArc(m[2:12])
			if errors.Is(err, errNotCircular) {
				continue
			}
		} else if m := arcRegex.FindStringSubmatch(st); m != nil {
			opts = m[1]
			from, to, radius, err = parseArc(m[4], m[5], m[6])
		} else {
			continue
		}
		if err != nil {
			ctx.skip("arcs", st, err)
			continue
		}

		arc := drawing.Arc{Style: LineStyle(opts), StartAngle: from, EndAngle: to, Radius: radius}
		if v, ok := parseOptions(opts).value("shift"); ok {
			raw, _ := braced(v)
			shift, err := ctx.Registry.Resolve(raw)
			if err != nil {
				ctx.skip("arcs", st, err)
				continue
			}
			arc.Shift = &shift
		}
		out = append(out, arc)
	}
	return out
}

// Sectors extracts closed filled circular sectors: GeoGebra's
// "(0,0) -- plot[..] -- cycle" and the \filldraw arc form.
func Sectors(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for _, st := range src.Statements {
		var (
			opts, ox, oy     string
			from, to, radius float64
			err              error
		)
		if m := sectorPlotRegex.FindStringSubmatch(st); m != nil {
			opts, ox, oy = m[1], m[2], m[3]
			from, to, radius, err = trigArc(m[4:14])
			if errors.Is(err, errNotCircular) {
				continue
			}
		} else if m := sectorRegex.FindStringSubmatch(st); m != nil {
			opts, ox, oy = m[1], m[2], m[3]
			from, to, radius, err = parseArc(m[6], m[7], m[8])
		} else {
			continue
		}
		if err != nil {
			ctx.skip("sectors", st, err)
			continue
		}
		center, err := shifted(ctx, parseOptions(opts), ox, oy)
		if err != nil {
			ctx.skip("sectors", st, err)
			continue
		}
		out = append(out, drawing.Sector{
			Shift:      center,
			StartAngle: from,
			EndAngle:   to,
			Radius:     radius,
			Style:      LineStyle(opts),
		})
	}
	return out
}

// AngleMarks extracts angle wedges: GeoGebra's shifted
// "\draw (0,0) -- (a:r) arc (a:b:r) -- cycle" and the anchored
// "(A) -- ++(a:r) arc (a:b:r) -- cycle" form.
func AngleMarks(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for _, st := range src.Statements {
		var (
			center           drawing.CoordinateRef
			from, to, radius float64
			err              error
		)
		if m := shiftedWedge.FindStringSubmatch(st); m != nil {
			if from, to, radius, err = parseArc(m[6], m[7], m[8]); err == nil {
				center, err = shifted(ctx, parseOptions(m[1]), m[2], m[3])
			}
		} else if m := anchoredWedge.FindStringSubmatch(st); m != nil {
			if from, to, radius, err = parseArc(m[5], m[6], m[7]); err == nil {
				center, err = ctx.Registry.Resolve(m[2])
			}
		} else {
			continue
		}
		if err != nil {
			ctx.skip("angles", st, err)
			continue
		}
		out = append(out, drawing.AngleMark{Center: center, StartAngle: from, EndAngle: to, Radius: radius})
	}
	return out
}
