package extractor

import (
	"regexp"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"
	"github.com/kataras/tikz-extractor/pkg/registry"
)

var (
	circleRegex  = regexp.MustCompile(`^\\(?:draw|filldraw)` + optsPat + `\s*(` + refPat + `)\s*circle\s*\(\s*(` + num + `)` + unitCmPat + `\)$`)
	ellipseRegex = regexp.MustCompile(`^\\draw` + optsPat + `\s*(` + refPat + `)\s*ellipse\s*\(\s*(` + num + `)` + unitCmPat + `and\s*(` + num + `)` + unitCmPat + `\)$`)
	rotateRegex  = regexp.MustCompile(`rotate around\s*=\s*\{\s*(` + num + `)\s*:\s*(` + refPat + `)\s*\}`)
)

// Circles extracts full circles with a length radius. Point-sized markers,
// whose radius is given in pt, are left to Points.
func Circles(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for _, st := range src.Statements {
		m := circleRegex.FindStringSubmatch(st)
		if m == nil {
			continue
		}
		center, err := ctx.Registry.Resolve(m[2])
		if err != nil {
			ctx.skip("circles", st, err)
			continue
		}
		r, err := numeric.ParseFloat(m[3])
		if err != nil {
			ctx.skip("circles", st, err)
			continue
		}
		out = append(out, drawing.Circle{Center: center, Radius: r, Style: LineStyle(m[1])})
	}
	return out
}

// Ellipses extracts ellipses together with an optional rotate around.
func Ellipses(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for _, st := range src.Statements {
		m := ellipseRegex.FindStringSubmatch(st)
		if m == nil {
			continue
		}
		center, err := ctx.Registry.Resolve(m[2])
		if err != nil {
			ctx.skip("ellipses", st, err)
			continue
		}
		rx, errX := numeric.ParseFloat(m[3])
		ry, errY := numeric.ParseFloat(m[4])
		if errX != nil || errY != nil {
			ctx.skip("ellipses", st, registry.ErrMalformedCoordinate)
			continue
		}
		rot, err := rotation(ctx.Registry, m[1])
		if err != nil {
			ctx.skip("ellipses", st, err)
			continue
		}
		out = append(out, drawing.Ellipse{
			Center:   center,
			XRadius:  rx,
			YRadius:  ry,
			Style:    LineStyle(m[1]),
			Rotation: rot,
		})
	}
	return out
}

// rotation reads "rotate around={angle:(pivot)}" from an option list.
func rotation(reg *registry.Registry, opts string) (*drawing.Rotation, error) {
	m := rotateRegex.FindStringSubmatch(opts)
	if m == nil {
		return nil, nil
	}
	angle, err := numeric.ParseFloat(m[1])
	if err != nil {
		return nil, err
	}
	pivot, err := reg.Resolve(m[2])
	if err != nil {
		return nil, err
	}
	return &drawing.Rotation{Angle: angle, Pivot: pivot}, nil
}
