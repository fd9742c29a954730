package construction

import "github.com/kataras/tikz-extractor/pkg/drawing"

// Element is the metadata of one <element> tag of a construction: its
// type and label, visibility flags, homogeneous coordinates already divided
// by their weight, numeric value, fill alpha and stroke style.
type Element struct {
	Type         string
	Label        string
	Visible      bool
	LabelVisible bool
	X, Y         float64
	HasCoords    bool
	Value        float64
	HasValue     bool
	Alpha        float64
	LineStyle    drawing.LineStyle
}

// IsPoint reports whether the element is a point with finite coordinates.
func (e *Element) IsPoint() bool {
	return e != nil && e.Type == "point" && e.HasCoords
}

// Command is one <command> tag: a construction step with its ordered
// input and output labels.
type Command struct {
	Name    string
	Inputs  []string
	Outputs []string
}

// Construction is a parsed construction block.
type Construction struct {
	// Elements are keyed by label.
	Elements map[string]*Element
	// Commands are kept in document order.
	Commands []Command

	byOutput map[string]int
}

// Element returns the element labelled label, nil when there is none.
func (c *Construction) Element(label string) *Element {
	return c.Elements[label]
}

// Producer returns the command that outputs label.
func (c *Construction) Producer(label string) (Command, bool) {
	i, ok := c.byOutput[label]
	if !ok {
		return Command{}, false
	}
	return c.Commands[i], true
}

// lineStyles maps the GeoGebra <lineStyle type> codes.
var lineStyles = map[int]drawing.LineStyle{
	0:  drawing.LineSolid,
	10: drawing.LineDashed,
	15: drawing.LineDashed,
	20: drawing.LineDotted,
	30: drawing.LineDashDot,
}
