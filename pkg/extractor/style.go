package extractor

import (
	"regexp"

	"github.com/kataras/tikz-extractor/pkg/drawing"
)

const dashStep = `\s*on\s*[\d.]+\s*pt\s*off\s*[\d.]+\s*pt`

var (
	dashDotPatternRegex = regexp.MustCompile(`dash pattern\s*=` + dashStep + dashStep)
	dashPatternRegex    = regexp.MustCompile(`dash pattern\s*=` + dashStep)
	dashDotRegex        = regexp.MustCompile(`(^|[\s,])dash dot($|[\s,])`)
	dottedRegex         = regexp.MustCompile(`\bdotted\b`)
	dashRegex           = regexp.MustCompile(`\bdash`)
)

// LineStyle classifies the dash pattern of a stroke option list. The first
// matching rule wins: a two-step dash pattern is dash-dot, a one-step
// pattern is dashed, then the named styles. Width and colour are dropped.
func LineStyle(opts string) drawing.LineStyle {
	switch {
	case dashDotPatternRegex.MatchString(opts):
		return drawing.LineDashDot
	case dashPatternRegex.MatchString(opts):
		return drawing.LineDashed
	case dashDotRegex.MatchString(opts):
		return drawing.LineDashDot
	case dottedRegex.MatchString(opts):
		return drawing.LineDotted
	case dashRegex.MatchString(opts):
		return drawing.LineDashed
	default:
		return drawing.LineSolid
	}
}
