// Package registry implements the run-scoped point registry: the label to
// coordinate map every other primitive resolves its endpoints against.
package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/geometry"
	"github.com/kataras/tikz-extractor/pkg/numeric"

	"seehuhn.de/go/geom/vec"
)

var (
	// ErrUnknownPoint is returned when a named reference has no registered
	// point.
	ErrUnknownPoint = errors.New("unknown point")
	// ErrMalformedCoordinate is returned for text that is neither a
	// numeric pair nor a point name.
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	// ErrDuplicateLabel is returned by Add for a label already registered.
	ErrDuplicateLabel = errors.New("duplicate point label")
)

var nameRegex = regexp.MustCompile(`^\(\s*([A-Za-z][\w']*)\s*\)$`)

// Registry maps labels to points. Iteration and resolution follow
// registration order.
type Registry struct {
	policy numeric.Policy
	points []drawing.Point
	index  map[string]int
}

// New returns a registry holding points, skipping repeated labels.
func New(policy numeric.Policy, points ...drawing.Point) *Registry {
	r := &Registry{policy: policy, index: make(map[string]int)}
	for _, p := range points {
		_ = r.Add(p)
	}
	return r
}

// Add registers p.
func (r *Registry) Add(p drawing.Point) error {
	if _, exists := r.index[p.Label]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, p.Label)
	}
	r.index[p.Label] = len(r.points)
	r.points = append(r.points, p)
	return nil
}

// Points returns the registered points in registration order.
func (r *Registry) Points() []drawing.Point {
	return append([]drawing.Point(nil), r.points...)
}

// Len returns the number of registered points.
func (r *Registry) Len() int {
	return len(r.points)
}

// Lookup returns the point registered under label.
func (r *Registry) Lookup(label string) (drawing.Point, bool) {
	i, ok := r.index[label]
	if !ok {
		return drawing.Point{}, false
	}
	return r.points[i], true
}

// Resolve turns coordinate text into a reference. A numeric "(x,y)" pair is
// formatted through the numeric policy and matched against every registered
// point in order; the first match wins, otherwise the pair stays inline. A
// point name "(A)" must be registered.
func (r *Registry) Resolve(raw string) (drawing.CoordinateRef, error) {
	formatted := r.policy.FormatCoordinate(raw)
	if x, y, ok := numeric.ParseCoordinate(formatted); ok {
		return r.ResolveXY(x, y), nil
	}

	m := nameRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return drawing.CoordinateRef{}, fmt.Errorf("%w: %q", ErrMalformedCoordinate, raw)
	}
	p, ok := r.Lookup(m[1])
	if !ok {
		return drawing.CoordinateRef{}, fmt.Errorf("%w: %s", ErrUnknownPoint, m[1])
	}
	return p.Ref(), nil
}

// ResolveXY resolves an already parsed coordinate.
func (r *Registry) ResolveXY(x, y float64) drawing.CoordinateRef {
	x, y = r.policy.Apply(x), r.policy.Apply(y)
	v := vec.Vec2{X: x, Y: y}
	for _, p := range r.points {
		if geometry.Equal(geometry.ToVec(p), v, r.policy) {
			return p.Ref()
		}
	}
	return drawing.At(x, y)
}
