package extractor

import (
	"regexp"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"
)

var (
	coordinateRegex = regexp.MustCompile(`^\\coordinate` + optsPat + `\s*\(\s*([A-Za-z][\w']*)\s*\)\s*at\s*\(\s*(` + num + `)\s*,\s*(` + num + `)\s*\)$`)
	markerRegex     = regexp.MustCompile(anyDrawPat + optsPat + `\s*\(\s*(` + num + `)\s*,\s*(` + num + `)\s*\)\s*circle\s*\(\s*` + num + `\s*pt\s*\)$`)
)

// Points collects the labelled points of the source. Explicit \coordinate
// declarations come first. GeoGebra markers (small pt-radius circles) are
// then paired by order with the bare label nodes: the n-th marker gets the
// n-th label, and whichever list is longer has its tail dropped. A label
// seen twice keeps its first coordinate.
//
// labelled holds the statement indexes of the label nodes that were paired
// with a marker. Unpaired label nodes stay free text.
func Points(src *Source, policy numeric.Policy) (points []drawing.Point, labelled map[int]struct{}) {
	type labelNode struct {
		name  string
		index int
	}
	var (
		seen    = make(map[string]struct{})
		markers [][2]float64
		labels  []labelNode
	)
	add := func(label string, x, y float64) {
		if _, dup := seen[label]; dup {
			return
		}
		seen[label] = struct{}{}
		points = append(points, drawing.Point{Label: label, X: policy.Apply(x), Y: policy.Apply(y)})
	}

	for i, st := range src.Statements {
		if m := coordinateRegex.FindStringSubmatch(st); m != nil {
			x, errX := numeric.ParseFloat(m[3])
			y, errY := numeric.ParseFloat(m[4])
			if errX == nil && errY == nil {
				add(m[2], x, y)
			}
			continue
		}
		if m := markerRegex.FindStringSubmatch(st); m != nil {
			x, errX := numeric.ParseFloat(m[2])
			y, errY := numeric.ParseFloat(m[3])
			if errX == nil && errY == nil {
				markers = append(markers, [2]float64{x, y})
			}
			continue
		}
		n, ok := parseNode(st)
		if !ok || !n.bare() || n.angleValued() {
			continue
		}
		if _, _, literal := n.numeric(); !literal {
			continue
		}
		if name, ok := pointName(n.content); ok {
			labels = append(labels, labelNode{name: name, index: i})
		}
	}

	labelled = make(map[int]struct{})
	for i := 0; i < len(markers) && i < len(labels); i++ {
		add(labels[i].name, markers[i][0], markers[i][1])
		labelled[labels[i].index] = struct{}{}
	}
	return points, labelled
}
