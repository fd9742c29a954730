package formatter

import (
	"strings"
	"testing"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/extractor"
	"github.com/kataras/tikz-extractor/pkg/numeric"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	a = drawing.CoordinateRef{Label: "A", X: 0, Y: 0}
	b = drawing.CoordinateRef{Label: "B", X: 3, Y: 0}
	c = drawing.CoordinateRef{Label: "C", X: 0, Y: 3}
)

func float(v float64) *float64 { return &v }

func fullDrawing() *drawing.Drawing {
	d := &drawing.Drawing{
		Points: []drawing.Point{{Label: "A"}, {Label: "B", X: 3}, {Label: "C", Y: 3}},
		Clip:   &drawing.Clip{X1: -6, Y1: -5, X2: 6, Y2: 5},
	}
	d.Add(
		drawing.Segment{A: a, B: b},
		drawing.Segment{A: b, B: a},
		drawing.Segment{A: b, B: drawing.At(5, 5), Style: drawing.LineDashDot},
		drawing.Polygon{Vertices: []drawing.CoordinateRef{a, b, c}, Opacity: 0.10000000149011612},
		drawing.Circle{Center: a, Radius: 3, Style: drawing.LineDotted},
		drawing.Ellipse{Center: a, XRadius: 2, YRadius: 1, Rotation: &drawing.Rotation{Angle: 45, Pivot: a}},
		drawing.Arc{StartAngle: 0, EndAngle: 90, Radius: 4, Shift: &a},
		drawing.Sector{Shift: b, StartAngle: 90, EndAngle: 180, Radius: 1},
		drawing.AngleMark{Center: a, StartAngle: 0, EndAngle: 90, Radius: 0.6},
		drawing.FunctionPlot{Options: []string{"smooth", "samples=100"}, Domain: [2]float64{-6, 6}, Expression: `0.5*(\x)^2`},
		drawing.FunctionPlot{
			Options: []string{"samples=50"},
			Domain:  [2]float64{-8, 8},
			Quadratic: &drawing.Quadratic{
				K:        2,
				Rotation: &drawing.QuadraticRotation{Angle: -90, PX: 0, PY: 1},
				XShift:   float(0),
				YShift:   float(1),
			},
		},
		drawing.ParametricPlot{XExpr: `cos(\t r)`, YExpr: `sin(\t r)`, Domain: [2]float64{0, 3.14159}, Style: drawing.LineDashed},
		drawing.TextLabel{Coords: drawing.At(-5, 4), Placement: "anchor=north west", Content: "Right triangle"},
		drawing.AngleLabel{Color: "qqwuqq", Coords: drawing.At(0.5, 0.5), Content: `$90^\circ$`},
	)
	return d
}

const fullExpected = `\begin{tikzpicture}
% Coordinates
\coordinate (A) at (0,0);
\coordinate (B) at (3,0);
\coordinate (C) at (0,3);
% Function plots
\begin{scope}
\clip (-6,-5) rectangle (6,5);
\draw[smooth, samples=100, domain=-6:6] plot (\x, {0.5*(\x)^2});
\draw[rotate around={-90:(0,1)}, xshift=0cm, yshift=1cm, samples=50, domain=-8:8] plot (\x, {(\x)^2/2/2});
\end{scope}
% Parametric curves
\draw[dashed] plot[domain=0:3.142, variable=\t] ({cos(\t r)}, {sin(\t r)});
% Angles
\draw[fill=black, fill opacity=0.1] (A) -- ++(0:0.6) arc (0:90:0.6) -- cycle;
% Sectors
\filldraw[shift={(B)}, fill opacity=0.1] (0,0) -- (90:1) arc (90:180:1) -- cycle;
% Polygons
\fill[fill opacity=0.1] (A) -- (B) -- (C) -- cycle;
% Circles
\draw[dotted] (A) circle (3);
% Ellipses
\draw[rotate around={45:(A)}] (A) ellipse (2 and 1);
% Arcs
\draw[shift={(A)}] (0:4) arc (0:90:4);
% Segments
\draw (A) -- (B);
\draw[dash dot] (B) -- (5,5);
% Points
\fill (A) circle (2pt);
\fill (B) circle (2pt);
\fill (C) circle (2pt);
% Point labels
\node[left] at (A) {$A$};
\node[right] at (B) {$B$};
\node[left] at (C) {$C$};
% Angle labels
\node[color=qqwuqq] at (0.5,0.5) {$90^\circ$};
% Text labels
\node[anchor=north west] at (-5,4) {Right triangle};
\end{tikzpicture}
`

func TestToTikZ(t *testing.T) {
	got := ToTikZ(fullDrawing(), Options{Points: true, Labels: true, Policy: numeric.Policy{Round: true}})
	if diff := cmp.Diff(fullExpected, got); diff != "" {
		t.Errorf("ToTikZ() mismatch (-want +got):\n%s", diff)
	}
}

func TestToTikZToggles(t *testing.T) {
	got := ToTikZ(fullDrawing(), Options{Policy: numeric.Policy{Round: true}})
	assert.NotContains(t, got, "% Points")
	assert.NotContains(t, got, "% Point labels")
	assert.NotContains(t, got, `circle (2pt)`)
	assert.Contains(t, got, `\coordinate (A) at (0,0);`)
}

func TestToTikZEmpty(t *testing.T) {
	assert.Equal(t, "\\begin{tikzpicture}\n\\end{tikzpicture}\n", ToTikZ(&drawing.Drawing{}, Options{Points: true, Labels: true}))
}

func TestToTikZIsFixedPoint(t *testing.T) {
	policy := numeric.Policy{Round: false}
	opts := Options{Points: true, Labels: true, Policy: policy}

	first := ToTikZ(fullDrawing(), opts)
	d, err := extractor.Extract(first, policy, func(format string, args ...any) {
		t.Errorf("unexpected warning: "+format, args...)
	})
	require.NoError(t, err)
	second := ToTikZ(d, opts)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second pass differs (-first +second):\n%s", diff)
	}
}

func TestToTikZScenario(t *testing.T) {
	src := `\begin{tikzpicture}
\draw [line width=2pt,color=rvwvcq] (-2.75,2.1)-- (-4.89,-2.06);
\draw [fill=rvwvcq] (-2.75,2.1) circle (2.5pt);
\draw[color=rvwvcq] (-2.6,2.37) node {$A$};
\end{tikzpicture}`
	d, err := extractor.Extract(src, numeric.Policy{Round: true}, nil)
	require.NoError(t, err)

	got := ToTikZ(d, Options{Points: true, Labels: true, Policy: numeric.Policy{Round: true}})
	assert.Contains(t, got, `\coordinate (A) at (-2.75,2.1);`)
	assert.Contains(t, got, `\draw (A) -- (-4.89,-2.06);`)
	assert.NotContains(t, got, "line width")
	assert.NotContains(t, got, "rvwvcq")
}

func TestSegmentDedup(t *testing.T) {
	d := &drawing.Drawing{}
	d.Add(
		drawing.Segment{A: drawing.At(1, 1), B: drawing.At(2, 2)},
		drawing.Segment{A: drawing.At(2.0001, 2), B: drawing.At(1, 1)},
		drawing.Segment{A: drawing.At(1, 1), B: drawing.At(2, 2.5)},
	)
	got := ToTikZ(d, Options{Policy: numeric.Policy{Round: true}})
	assert.Equal(t, 2, strings.Count(got, `\draw`))
}

func TestLabelText(t *testing.T) {
	assert.Equal(t, "$A$", LabelText("A"))
	assert.Equal(t, "$A_1$", LabelText("A_1"))
	assert.Equal(t, "$A_{12}$", LabelText("A_12"))
	assert.Equal(t, "$B'$", LabelText("B'"))
}

func TestWrapDocument(t *testing.T) {
	assert.Equal(t, "x\n", WrapFragment("x"))
	assert.Equal(t, "x\n", WrapFragment("x\n"))

	doc := WrapDocument("\\begin{tikzpicture}\n\\end{tikzpicture}\n")
	assert.True(t, strings.HasPrefix(doc, `\documentclass`))
	assert.Contains(t, doc, "\\begin{document}\n\\begin{tikzpicture}\n\\end{tikzpicture}\n\\end{document}\n")
}
