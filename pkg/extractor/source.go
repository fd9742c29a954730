package extractor

import (
	"regexp"
	"strings"

	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/numeric"
)

// Shared pattern fragments. Statements are whitespace-normalized before
// matching, so a single \s* covers any input spacing.
const (
	num        = numeric.Number
	coordPat   = `\(\s*` + num + `\s*,\s*` + num + `\s*\)`
	namePat    = `\(\s*[A-Za-z][\w']*\s*\)`
	refPat     = `(?:` + coordPat + `|` + namePat + `)`
	optsPat    = `(?:\s*\[([^\]]*)\])?`
	polarPat   = `\(\s*(` + num + `)\s*:\s*(` + num + `)\s*\)`
	arcPat     = `arc\s*\(\s*(` + num + `)\s*:\s*(` + num + `)\s*:\s*(` + num + `)\s*\)`
	cyclePat   = `\s*--\s*cycle`
	unitCmPat  = `\s*(?:cm)?\s*`
	anyDrawPat = `^\\(?:draw|fill|filldraw)`
)

var (
	beginRegex      = regexp.MustCompile(`\\begin\s*\{tikzpicture\}`)
	endRegex        = regexp.MustCompile(`\\end\s*\{tikzpicture\}`)
	innerEnvRegex   = regexp.MustCompile(`\\(?:begin|end)\s*\{[^}]*\}(?:\s*\[[^\]]*\])?`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	refRegex        = regexp.MustCompile(refPat)
)

// Source is a drawing environment split into statements.
type Source struct {
	// Statements are the ";"-terminated commands of the environment body,
	// without the terminator and with whitespace collapsed.
	Statements []string
}

// Parse locates the first tikzpicture environment of text and splits its
// body into statements. Comments, the environment options and nested
// environment delimiters (scope, scriptsize, ...) are dropped.
func Parse(text string) (*Source, error) {
	begin := beginRegex.FindStringIndex(text)
	if begin == nil {
		return nil, drawing.NewFormatError("no drawing environment found")
	}
	end := endRegex.FindStringIndex(text[begin[1]:])
	if end == nil {
		return nil, drawing.NewFormatError("no drawing environment found")
	}

	body := stripComments(text[begin[1] : begin[1]+end[0]])
	body = skipOptions(body)
	body = innerEnvRegex.ReplaceAllString(body, ";")

	src := &Source{}
	for _, st := range splitStatements(body) {
		st = strings.TrimSpace(whitespaceRegex.ReplaceAllString(st, " "))
		if st != "" {
			src.Statements = append(src.Statements, st)
		}
	}
	return src, nil
}

// stripComments removes everything from an unescaped % to the end of its
// line.
func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		for j := 0; j < len(line); j++ {
			if line[j] == '%' && (j == 0 || line[j-1] != '\\') {
				lines[i] = line[:j]
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// skipOptions drops a leading [...] option block.
func skipOptions(s string) string {
	t := strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(t, "[") {
		return s
	}
	depth := 0
	for i, r := range t {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return t[i+1:]
			}
		}
	}
	return s
}

// splitStatements splits on ";" outside braces. Parentheses are not
// tracked since free text may hold unbalanced ones.
func splitStatements(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// splitTopLevel splits s on sep, ignoring separators nested in braces,
// brackets or parentheses.
func splitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + len(string(sep))
			}
		}
	}
	return append(parts, s[start:])
}

// options is a parsed TikZ option list.
type options []string

func parseOptions(s string) options {
	var opts options
	for _, o := range splitTopLevel(s, ',') {
		o = strings.TrimSpace(o)
		if o != "" {
			opts = append(opts, o)
		}
	}
	return opts
}

// value returns the value of key=value.
func (o options) value(key string) (string, bool) {
	for _, opt := range o {
		k, v, ok := strings.Cut(opt, "=")
		if ok && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// has reports whether the bare flag or a key=value entry for name exists.
func (o options) has(name string) bool {
	for _, opt := range o {
		k, _, _ := strings.Cut(opt, "=")
		if strings.TrimSpace(k) == name {
			return true
		}
	}
	return false
}

// sampling keeps the plot sampling options, in source order.
func (o options) sampling() []string {
	var kept []string
	for _, opt := range o {
		k, v, _ := strings.Cut(opt, "=")
		switch strings.TrimSpace(k) {
		case "smooth":
			kept = append(kept, "smooth")
		case "samples":
			kept = append(kept, "samples="+strings.TrimSpace(v))
		}
	}
	return kept
}

var domainRegex = regexp.MustCompile(`^(` + num + `)\s*:\s*(` + num + `)`)

// domain reads domain=a:b. GeoGebra sometimes leaves a stray ")" after the
// upper bound, which is ignored.
func (o options) domain() ([2]float64, bool) {
	v, ok := o.value("domain")
	if !ok {
		return [2]float64{}, false
	}
	m := domainRegex.FindStringSubmatch(v)
	if m == nil {
		return [2]float64{}, false
	}
	a, errA := numeric.ParseFloat(m[1])
	b, errB := numeric.ParseFloat(m[2])
	if errA != nil || errB != nil {
		return [2]float64{}, false
	}
	return [2]float64{a, b}, true
}

// braced strips one pair of enclosing braces.
func braced(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return s, false
	}
	return s[1 : len(s)-1], true
}
