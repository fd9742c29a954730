// Package extractor recognizes the primitive families of a TikZ drawing
// environment, as GeoGebra exports it or as the canonical emitter writes it.
//
// Every family has its own Extractor. Extract runs the point extractor
// first, builds the registry from its result and then runs the remaining
// extractors in a fixed order against the same prepared Source.
package extractor

import (
	"fmt"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"
	"github.com/kataras/tikz-extractor/pkg/registry"
)

// WarnFunc receives a formatted message for every statement an extractor
// recognized but could not convert.
type WarnFunc func(format string, args ...any)

// Context is what every extractor receives besides the source.
type Context struct {
	Policy   numeric.Policy
	Registry *registry.Registry
	Warn     WarnFunc
	// Labelled holds the statement indexes consumed as point labels.
	Labelled map[int]struct{}
}

func (c *Context) skip(family, statement string, err error) {
	if c.Warn != nil {
		c.Warn("%s: skipping %q: %v", family, statement, err)
	}
}

// Extractor recognizes one primitive family.
type Extractor func(src *Source, ctx *Context) []drawing.Primitive

type family struct {
	name    string
	extract Extractor
}

// families run after points, in this order.
var families = []family{
	{"segments", Segments},
	{"polygons", Polygons},
	{"circles", Circles},
	{"ellipses", Ellipses},
	{"arcs", Arcs},
	{"sectors", Sectors},
	{"angles", AngleMarks},
	{"functions", FunctionPlots},
	{"curves", ParametricPlots},
	{"texts", TextLabels},
	{"angle labels", AngleLabels},
}

// Extract parses text and runs every extractor over it.
func Extract(text string, policy numeric.Policy, warn WarnFunc) (*drawing.Drawing, error) {
	src, err := Parse(text)
	if err != nil {
		return nil, err
	}

	points, labelled := Points(src, policy)
	reg := registry.New(policy, points...)
	ctx := &Context{Policy: policy, Registry: reg, Warn: warn, Labelled: labelled}

	d := &drawing.Drawing{Points: reg.Points(), Clip: Clip(src)}
	for _, f := range families {
		d.Add(run(f, src, ctx)...)
	}
	return d, nil
}

// run isolates a failing extractor: a panic costs only its own family.
func run(f family, src *Source, ctx *Context) (out []drawing.Primitive) {
	defer func() {
		if r := recover(); r != nil {
			ctx.skip(f.name, "*", fmt.Errorf("extractor failed: %v", r))
			out = nil
		}
	}()
	return f.extract(src, ctx)
}

// resolveAll resolves every raw reference, failing on the first error.
func resolveAll(reg *registry.Registry, raws []string) ([]drawing.CoordinateRef, error) {
	refs := make([]drawing.CoordinateRef, 0, len(raws))
	for _, raw := range raws {
		ref, err := reg.Resolve(raw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
