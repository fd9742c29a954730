package tikzextractor

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/kataras/tikz-extractor/pkg/construction"
	"github.com/kataras/tikz-extractor/pkg/container"
	"github.com/kataras/tikz-extractor/pkg/drawing"
	"github.com/kataras/tikz-extractor/pkg/extractor"
	"github.com/kataras/tikz-extractor/pkg/formatter"
	"github.com/kataras/tikz-extractor/pkg/numeric"
)

// Version is the current release.
const Version = "0.3.0"

// Config configures a conversion.
type Config struct {
	Round  bool   // round every number to three decimals
	Points bool   // emit a marker for every point
	Labels bool   // emit a label node for every point
	Logger Logger // nil = no logging
}

// DefaultConfig returns a Config with rounding, markers and labels on.
func DefaultConfig() Config {
	return Config{Round: true, Points: true, Labels: true}
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// FormatError reports an input that lacks a structure the conversion
// needs. Match it with errors.As.
type FormatError = drawing.FormatError

func (c *Config) logInfo(f string, a ...any) {
	if c.Logger != nil {
		c.Logger.Infof(f, a...)
	}
}

func (c *Config) logWarn(f string, a ...any) {
	if c.Logger != nil {
		c.Logger.Warnf(f, a...)
	}
}

func (c *Config) logError(f string, a ...any) {
	if c.Logger != nil {
		c.Logger.Errorf(f, a...)
	}
}

func (c *Config) policy() numeric.Policy {
	return numeric.Policy{Round: c.Round}
}

func (c *Config) emit(d *drawing.Drawing) string {
	c.logInfo("Found %d point(s) and %d primitive(s)", len(d.Points), len(d.Primitives))
	counts := d.Count()
	for _, family := range slices.Sorted(maps.Keys(counts)) {
		c.logInfo("  • %s: %d", family, counts[family])
	}
	return formatter.ToTikZ(d, formatter.Options{
		Points: c.Points,
		Labels: c.Labels,
		Policy: c.policy(),
	})
}

// ConvertMarkup converts a TikZ drawing dump into a canonical tikzpicture.
// Only the first tikzpicture environment is read.
func ConvertMarkup(source string, cfg Config) (string, error) {
	cfg.logInfo("Extracting primitives from markup...")
	d, err := extractor.Extract(source, cfg.policy(), cfg.logWarn)
	if err != nil {
		cfg.logError("Markup conversion failed: %v", err)
		return "", err
	}
	return cfg.emit(d), nil
}

// ConvertConstruction converts the XML of a GeoGebra construction into a
// canonical tikzpicture.
func ConvertConstruction(xml string, cfg Config) (string, error) {
	cfg.logInfo("Extracting primitives from construction...")
	d, err := construction.Extract(xml, cfg.policy(), cfg.logWarn)
	if err != nil {
		cfg.logError("Construction conversion failed: %v", err)
		return "", err
	}
	return cfg.emit(d), nil
}

// DecodeContainer returns the geogebra.xml entry of a .ggb archive.
func DecodeContainer(data []byte) (string, error) {
	return container.Decode(data)
}

// ConvertContainer decodes a .ggb archive and converts its construction.
func ConvertContainer(data []byte, cfg Config) (string, error) {
	cfg.logInfo("Decoding %s from archive...", container.EntryName)
	xml, err := DecodeContainer(data)
	if err != nil {
		cfg.logError("Decoding archive failed: %v", err)
		return "", fmt.Errorf("decode container: %w", err)
	}
	return ConvertConstruction(xml, cfg)
}

// Format names the kind of input Detect recognized.
type Format int

const (
	// FormatMarkup is a TikZ drawing dump.
	FormatMarkup Format = iota
	// FormatConstruction is a GeoGebra XML document.
	FormatConstruction
	// FormatContainer is a .ggb archive.
	FormatContainer
)

func (f Format) String() string {
	switch f {
	case FormatConstruction:
		return "construction"
	case FormatContainer:
		return "container"
	default:
		return "markup"
	}
}

var (
	zipMagic    = []byte("PK\x03\x04")
	xmlMarkers  = [][]byte{[]byte("<?xml"), []byte("<geogebra"), []byte("<construction")}
	utf8BOM     = []byte("\xef\xbb\xbf")
	sniffLength = 512
)

// Detect sniffs the leading bytes of data: the local file header magic
// means an archive, an XML declaration or a geogebra/construction root
// means a construction, anything else is treated as markup.
func Detect(data []byte) Format {
	if bytes.HasPrefix(data, zipMagic) {
		return FormatContainer
	}
	head := data
	if len(head) > sniffLength {
		head = head[:sniffLength]
	}
	head = bytes.TrimLeft(bytes.TrimPrefix(head, utf8BOM), " \t\r\n")
	for _, marker := range xmlMarkers {
		if bytes.HasPrefix(head, marker) {
			return FormatConstruction
		}
	}
	return FormatMarkup
}

// Convert detects the format of data and runs the matching conversion.
func Convert(data []byte, cfg Config) (string, error) {
	format := Detect(data)
	cfg.logInfo("Detected %s input", format)
	switch format {
	case FormatContainer:
		return ConvertContainer(data, cfg)
	case FormatConstruction:
		return ConvertConstruction(string(data), cfg)
	default:
		return ConvertMarkup(string(data), cfg)
	}
}
