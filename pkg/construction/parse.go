// Package construction converts a GeoGebra construction document, the
// geogebra.xml of a .ggb file, into the same primitives the markup
// extractor produces.
package construction

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kataras/tikz-extractor/pkg/drawing"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

// Parse reads the <construction> block of a GeoGebra document. Elements
// and commands outside of it are ignored.
func Parse(r io.Reader) (*Construction, error) {
	c := &Construction{Elements: make(map[string]*Element), byOutput: make(map[string]int)}

	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		found   bool
		inside  bool
		element *Element
		command *Command
	)
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("parse construction: %w", err)
		}

		switch se := t.(type) {
		case xml.StartElement:
			if se.Name.Local == "construction" {
				found, inside = true, true
				continue
			}
			if !inside {
				continue
			}
			switch se.Name.Local {
			case "element":
				element = &Element{
					Type:    attr(se, "type"),
					Label:   label(attr(se, "label")),
					Visible: true,
				}
			case "command":
				command = &Command{Name: attr(se, "name")}
			case "input":
				if command != nil {
					command.Inputs = args(se)
				}
			case "output":
				if command != nil {
					command.Outputs = args(se)
				}
			default:
				if element != nil {
					readProperty(element, se)
				}
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "construction":
				inside = false
			case "element":
				if element != nil && element.Label != "" {
					c.Elements[element.Label] = element
				}
				element = nil
			case "command":
				if command != nil {
					for _, out := range command.Outputs {
						if _, exists := c.byOutput[out]; !exists {
							c.byOutput[out] = len(c.Commands)
						}
					}
					c.Commands = append(c.Commands, *command)
				}
				command = nil
			}
		}
	}

	if !found {
		return nil, drawing.NewFormatError("no construction block found")
	}
	return c, nil
}

// readProperty fills element from one of its child tags.
func readProperty(e *Element, se xml.StartElement) {
	switch se.Name.Local {
	case "show":
		if v, ok := lookup(se, "object"); ok {
			e.Visible = v == "true"
		}
		e.LabelVisible = attr(se, "label") == "true"
	case "objColor":
		e.Alpha = float(se, "alpha")
	case "coords":
		x, y, z := float(se, "x"), float(se, "y"), float(se, "z")
		if _, ok := lookup(se, "z"); !ok {
			z = 1
		}
		if z != 0 {
			e.X, e.Y, e.HasCoords = x/z, y/z, true
		}
	case "value":
		if v, err := strconv.ParseFloat(attr(se, "val"), 64); err == nil {
			e.Value, e.HasValue = v, true
		}
	case "lineStyle":
		if code, err := strconv.Atoi(attr(se, "type")); err == nil {
			e.LineStyle = lineStyles[code]
		}
	}
}

func lookup(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attr(se xml.StartElement, name string) string {
	v, _ := lookup(se, name)
	return v
}

func float(se xml.StartElement, name string) float64 {
	v, _ := strconv.ParseFloat(attr(se, name), 64)
	return v
}

// args returns the a0, a1, ... attributes in index order, stopping at the
// first gap.
func args(se xml.StartElement) []string {
	var out []string
	for i := 0; ; i++ {
		v, ok := lookup(se, "a"+strconv.Itoa(i))
		if !ok {
			return out
		}
		out = append(out, label(v))
	}
}

// label normalizes a GeoGebra label to NFC so composed and decomposed
// spellings of the same name meet.
func label(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
