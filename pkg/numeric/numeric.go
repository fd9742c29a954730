// Package numeric implements the rounding and number formatting policy shared
// by every extractor and by the emitter.
package numeric

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Precision is the number of decimal digits kept when rounding is enabled.
const Precision = 3

const scale = 1000

// Number matches a signed decimal literal with an optional exponent.
const Number = `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`

var (
	coordinateRegex = regexp.MustCompile(`^\s*\(\s*(` + Number + `)\s*,\s*(` + Number + `)\s*\)\s*$`)
	// Literals with four or more decimals, not glued to an identifier.
	longLiteralRegex = regexp.MustCompile(`(^|[^\w.\\])(\d+\.\d{4,})`)
)

// ErrMalformedNumber reports text that does not start with a number.
var ErrMalformedNumber = errors.New("malformed number")

// Policy decides whether values are rounded to Precision decimals.
type Policy struct {
	Round bool
}

// Apply returns x rounded half away from zero to three decimals when the
// policy enables rounding, x otherwise.
func (p Policy) Apply(x float64) float64 {
	if !p.Round {
		return x
	}
	return math.Round(x*scale) / scale
}

// Format renders x, rounded per the policy, in its shortest decimal form.
func (p Policy) Format(x float64) string {
	v := p.Apply(x)
	if v == 0 {
		// also folds negative zero
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPair renders "(x,y)".
func (p Policy) FormatPair(x, y float64) string {
	return "(" + p.Format(x) + "," + p.Format(y) + ")"
}

// FormatCoordinate parses a textual "(x,y)" pair and re-serializes it
// through the policy. Input that is not a pair is returned unchanged.
func (p Policy) FormatCoordinate(raw string) string {
	x, y, ok := ParseCoordinate(raw)
	if !ok {
		return raw
	}
	return p.FormatPair(x, y)
}

// Milli returns x rounded to an integer count of thousandths.
func Milli(x float64) int64 {
	return int64(math.Round(x * scale))
}

// RoundLiterals rounds every numeric literal of expr that carries four or
// more decimal digits. Shorter literals are left as written.
func (p Policy) RoundLiterals(expr string) string {
	if !p.Round {
		return expr
	}
	return longLiteralRegex.ReplaceAllStringFunc(expr, func(m string) string {
		sub := longLiteralRegex.FindStringSubmatch(m)
		v, err := strconv.ParseFloat(sub[2], 64)
		if err != nil {
			return m
		}
		return sub[1] + p.Format(v)
	})
}

// ParseCoordinate reads a "(x,y)" pair.
func ParseCoordinate(raw string) (x, y float64, ok bool) {
	m := coordinateRegex.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	x, errX := strconv.ParseFloat(m[1], 64)
	y, errY := strconv.ParseFloat(m[2], 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return x, y, true
}

// ParseFloat parses a number that may carry a TikZ unit suffix such as
// "cm" or a stray trailing dot ("2." as GeoGebra writes it).
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "cm")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
