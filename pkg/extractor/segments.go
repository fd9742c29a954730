package extractor

import (
	"regexp"
	"strings"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"
)

var (
	pathRegex = regexp.MustCompile(`^\\(draw|fill|filldraw)` + optsPat + `\s*(` + refPat + `(?:\s*--\s*` + refPat + `)+)(` + cyclePat + `)?$`)
)

type path struct {
	command string
	opts    options
	rawOpts string
	refs    []string
	closed  bool
}

func parsePath(st string) (path, bool) {
	m := pathRegex.FindStringSubmatch(st)
	if m == nil {
		return path{}, false
	}
	return path{
		command: m[1],
		opts:    parseOptions(m[2]),
		rawOpts: m[2],
		refs:    refRegex.FindAllString(m[3], -1),
		closed:  m[4] != "",
	}, true
}

func (p path) filled() bool {
	return p.command != "draw" || p.opts.has("fill")
}

// Segments extracts straight polylines drawn with \draw. Every consecutive
// pair of coordinates becomes one segment; an unfilled "-- cycle" adds the
// closing edge. Filled closed paths are polygons.
func Segments(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for _, st := range src.Statements {
		p, ok := parsePath(st)
		if !ok || p.command != "draw" || (p.closed && p.filled()) {
			continue
		}
		refs, err := resolveAll(ctx.Registry, p.refs)
		if err != nil {
			ctx.skip("segments", st, err)
			continue
		}
		if p.closed && len(refs) > 2 {
			refs = append(refs, refs[0])
		}
		style := LineStyle(p.rawOpts)
		for i := 1; i < len(refs); i++ {
			out = append(out, drawing.Segment{A: refs[i-1], B: refs[i], Style: style})
		}
	}
	return out
}

// Polygons extracts filled closed paths of at least three vertices.
func Polygons(src *Source, ctx *Context) []drawing.Primitive {
	var out []drawing.Primitive
	for _, st := range src.Statements {
		p, ok := parsePath(st)
		if !ok || !p.closed || !p.filled() || len(p.refs) < 3 {
			continue
		}
		refs, err := resolveAll(ctx.Registry, p.refs)
		if err != nil {
			ctx.skip("polygons", st, err)
			continue
		}
		opacity := 1.0
		if v, ok := p.opts.value("fill opacity"); ok {
			if f, err := numeric.ParseFloat(strings.TrimSpace(v)); err == nil {
				opacity = f
			}
		}
		out = append(out, drawing.Polygon{Vertices: refs, Opacity: opacity})
	}
	return out
}
