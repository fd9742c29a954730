// Package tikzextractor converts GeoGebra drawings into compact, canonical
// TikZ. It reads three kinds of input: the verbose PGF/TikZ dump GeoGebra
// exports, the geogebra.xml construction document, and the .ggb archive
// that packages it.
//
// The CLI lives in cmd/tikz-extractor; this root package exposes the same
// pipeline as a Go API so that callers can embed the conversion in their
// own tools without shelling out. The conversion itself does no I/O: it
// takes text or bytes and returns a string.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named tikzextractor:
//
//	import "github.com/kataras/tikz-extractor" // package tikzextractor
//
// # Quick start
//
//	data, err := os.ReadFile("triangle.ggb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	picture, err := tikzextractor.Convert(data, tikzextractor.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(picture)
//
// [Convert] sniffs the input. Call [ConvertMarkup], [ConvertConstruction]
// or [ConvertContainer] directly when the format is known.
//
// # Output
//
// The picture starts with a coordinate declaration for every point and
// then lists the primitives by category: function plots inside their
// clipping scope, parametric curves, angles, sectors, polygons, circles,
// ellipses, arcs, segments, point markers and labels, angle labels and
// text labels. Each category is introduced by a comment and left out when
// empty. Converting the output again yields the same text.
//
// # Logging
//
// Pass a [Logger] implementation in [Config.Logger] to receive progress
// messages and a warning for every statement that was recognized but
// could not be read. A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
//
// # Errors
//
// An input without a drawing environment, without a construction block,
// or whose archive has no readable geogebra.xml fails with a
// *[FormatError]. Anything smaller is skipped with a warning.
package tikzextractor
