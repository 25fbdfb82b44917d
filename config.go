package mdforge

import (
	"fmt"
	"strings"

	"github.com/mdforge/mdforge/internal/yamlutil"
)

// Math engine identifiers. Only the KaTeX engine is wired; any other value
// leaves math markup untouched.
const MathEngineKatex = "katex"

// DestStdout is the sentinel destination meaning "hand the artifact to
// standard output" rather than a file path.
const DestStdout = "stdout"

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// Config holds every option the conversion pipeline consults. Option names
// in YAML (front matter, config files) use snake_case; pdf_options keys use
// the camelCase names of Chrome's print API.
//
// A Config is created from DefaultConfig, refined by merge layers, and then
// consumed by a single conversion. It is not safe for concurrent use; run
// parallel conversions on independent instances.
type Config struct {
	Dest               string        `yaml:"dest"`
	AsHTML             bool          `yaml:"as_html"`
	Devtools           bool          `yaml:"devtools"`
	BodyClass          StringList    `yaml:"body_class"`
	CSS                string        `yaml:"css"`
	DocumentTitle      string        `yaml:"document_title"`
	HighlightStyle     string        `yaml:"highlight_style"`
	MathEngine         string        `yaml:"math_engine"`
	MathEngineOptions  MathOptions   `yaml:"math_engine_options"`
	MarkedOptions      MarkedOptions `yaml:"marked_options"`
	PDFOptions         PDFOptions    `yaml:"pdf_options"`
	LaunchOptions      LaunchOptions `yaml:"launch_options"`
	Script             StringList    `yaml:"script"`
	Stylesheet         StringList    `yaml:"stylesheet"`
	StylesheetEncoding string        `yaml:"stylesheet_encoding"`
	PageMediaType      string        `yaml:"page_media_type"`

	// Extensions is the markdown extension list consumed by the HTML
	// converter. It is program-level configuration and has no YAML form.
	Extensions []Extension `yaml:"-"`

	// mathApplied records that this instance already received the math
	// stylesheet. Keyed by instance identity: two Configs with equal
	// contents are still independent activation targets.
	mathApplied bool
}

// MarkedOptions tunes the markdown renderer. Nil fields keep the defaults
// (hard wraps on, XHTML output on, raw HTML passthrough off).
type MarkedOptions struct {
	HardWraps *bool `yaml:"hard_wraps"`
	XHTML     *bool `yaml:"xhtml"`
	Unsafe    *bool `yaml:"unsafe"`
}

// MathOptions parameterizes the math extension. Nil fields keep the
// defaults (every notation enabled).
type MathOptions struct {
	InlineDollar *bool  `yaml:"inline_dollar"`
	BlockDollar  *bool  `yaml:"block_dollar"`
	FencedBlocks *bool  `yaml:"fenced_blocks"`
	InlineClass  string `yaml:"inline_class"`
	DisplayClass string `yaml:"display_class"`
}

// LaunchOptions configures how the headless browser is started.
type LaunchOptions struct {
	Bin       string     `yaml:"bin"`
	Args      StringList `yaml:"args"`
	NoSandbox bool       `yaml:"no_sandbox"`
}

// PDFOptions mirrors the parameters of Chrome's printToPDF call. Optional
// booleans and numbers are pointers so an explicit setting in any layer is
// distinguishable from "not set".
type PDFOptions struct {
	Scale               *float64 `yaml:"scale"`
	DisplayHeaderFooter *bool    `yaml:"displayHeaderFooter"`
	HeaderTemplate      string   `yaml:"headerTemplate"`
	FooterTemplate      string   `yaml:"footerTemplate"`
	PrintBackground     *bool    `yaml:"printBackground"`
	Landscape           *bool    `yaml:"landscape"`
	PageRanges          string   `yaml:"pageRanges"`
	Format              string   `yaml:"format"`
	Width               string   `yaml:"width"`
	Height              string   `yaml:"height"`
	Margin              Margin   `yaml:"margin"`
	PreferCSSPageSize   *bool    `yaml:"preferCSSPageSize"`
}

// paperSize holds page dimensions in inches.
type paperSize struct {
	width  float64
	height float64
}

// paperFormats maps the accepted format names to their dimensions.
var paperFormats = map[string]paperSize{
	"letter":  {8.5, 11},
	"legal":   {8.5, 14},
	"tabloid": {11, 17},
	"ledger":  {17, 11},
	"a3":      {11.69, 16.54},
	"a4":      {8.27, 11.69},
	"a5":      {5.83, 8.27},
}

// StringList is a list-valued option that also accepts a single scalar in
// YAML. Front matter authors routinely write one value where a list is
// expected; the unmarshaler repairs that by wrapping the scalar, and drops
// empty values instead of keeping them as empty strings.
type StringList []string

// UnmarshalYAML implements scalar-or-sequence decoding.
func (l *StringList) UnmarshalYAML(data []byte) error {
	if len(data) == 0 {
		*l = nil
		return nil
	}

	var items []string
	if err := yamlutil.Unmarshal(data, &items); err == nil {
		*l = dropEmpty(items)
		return nil
	}

	var single string
	if err := yamlutil.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = dropEmpty([]string{single})
	return nil
}

func dropEmpty(items []string) StringList {
	var out StringList
	for _, s := range items {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Margin holds per-side page margins as CSS lengths. The YAML (and JSON)
// form may be either a mapping with top/right/bottom/left keys or a CSS
// shorthand string with one to four values.
type Margin struct {
	Top    string `yaml:"top"`
	Right  string `yaml:"right"`
	Bottom string `yaml:"bottom"`
	Left   string `yaml:"left"`
}

func (m Margin) isZero() bool {
	return m == Margin{}
}

// UnmarshalYAML implements mapping-or-shorthand decoding.
func (m *Margin) UnmarshalYAML(data []byte) error {
	type plain Margin
	var p plain
	if err := yamlutil.Unmarshal(data, &p); err == nil {
		*m = Margin(p)
		return nil
	}

	var s string
	if err := yamlutil.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMargin, strings.TrimSpace(string(data)))
	}
	parsed, err := marginFromShorthand(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// marginFromShorthand expands a CSS margin shorthand ("1in", "1in 2in",
// "1in 2in 3in", "1in 2in 3in 4in") into per-side values.
func marginFromShorthand(s string) (Margin, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return Margin{Top: fields[0], Right: fields[0], Bottom: fields[0], Left: fields[0]}, nil
	case 2:
		return Margin{Top: fields[0], Right: fields[1], Bottom: fields[0], Left: fields[1]}, nil
	case 3:
		return Margin{Top: fields[0], Right: fields[1], Bottom: fields[2], Left: fields[1]}, nil
	case 4:
		return Margin{Top: fields[0], Right: fields[1], Bottom: fields[2], Left: fields[3]}, nil
	default:
		return Margin{}, fmt.Errorf("%w: %q (expected 1 to 4 values)", ErrInvalidMargin, s)
	}
}

// DefaultConfig returns the built-in defaults: A4 PDF output with printed
// backgrounds, generous margins, GitHub-style highlighting, and the GFM
// extension set.
func DefaultConfig() *Config {
	return &Config{
		HighlightStyle: DefaultHighlightStyle,
		PageMediaType:  "screen",
		PDFOptions: PDFOptions{
			PrintBackground: boolPtr(true),
			Format:          "a4",
			Margin:          Margin{Top: "30mm", Right: "40mm", Bottom: "30mm", Left: "40mm"},
		},
		Extensions: defaultExtensions(),
	}
}

// Clone returns a deep enough copy for an independent conversion: slices
// are copied, and the activation marker is reset so the copy is a fresh
// target for math support.
func (c *Config) Clone() *Config {
	out := *c
	out.BodyClass = append(StringList(nil), c.BodyClass...)
	out.Script = append(StringList(nil), c.Script...)
	out.Stylesheet = append(StringList(nil), c.Stylesheet...)
	out.Extensions = append([]Extension(nil), c.Extensions...)
	out.LaunchOptions.Args = append(StringList(nil), c.LaunchOptions.Args...)
	out.mathApplied = false
	return &out
}

// normalize validates the merged configuration's numeric and shorthand
// fields before they reach the renderer.
func (c *Config) normalize() error {
	if c.StylesheetEncoding != "" && !strings.EqualFold(c.StylesheetEncoding, "utf-8") {
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, c.StylesheetEncoding)
	}

	p := &c.PDFOptions
	if p.Width == "" && p.Height == "" && p.Format != "" {
		if _, ok := paperFormats[strings.ToLower(p.Format)]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, p.Format)
		}
	}
	for _, v := range []string{p.Width, p.Height} {
		if v == "" {
			continue
		}
		if _, err := parseLength(v); err != nil {
			return err
		}
	}
	for side, v := range map[string]string{
		"top":    p.Margin.Top,
		"right":  p.Margin.Right,
		"bottom": p.Margin.Bottom,
		"left":   p.Margin.Left,
	} {
		if v == "" {
			continue
		}
		if _, err := parseLength(v); err != nil {
			return fmt.Errorf("%w: %s: %q", ErrInvalidMargin, side, v)
		}
	}
	return nil
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(v float64) *float64 { return &v }

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
