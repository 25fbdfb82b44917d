package mdforge

// Overlay is a partial configuration produced by one layer: document front
// matter, a config file, or command-line flags. Every field is optional;
// nil (or empty, for lists and strings) means "this layer does not touch
// that option".
type Overlay struct {
	Dest               string         `yaml:"dest"`
	AsHTML             *bool          `yaml:"as_html"`
	Devtools           *bool          `yaml:"devtools"`
	BodyClass          StringList     `yaml:"body_class"`
	CSS                string         `yaml:"css"`
	DocumentTitle      string         `yaml:"document_title"`
	HighlightStyle     string         `yaml:"highlight_style"`
	MathEngine         string         `yaml:"math_engine"`
	MathEngineOptions  *MathOptions   `yaml:"math_engine_options"`
	MarkedOptions      *MarkedOptions `yaml:"marked_options"`
	PDFOptions         *PDFOptions    `yaml:"pdf_options"`
	LaunchOptions      *LaunchOptions `yaml:"launch_options"`
	Script             StringList     `yaml:"script"`
	Stylesheet         StringList     `yaml:"stylesheet"`
	StylesheetEncoding string         `yaml:"stylesheet_encoding"`
	PageMediaType      string         `yaml:"page_media_type"`
}

// MergeLayers builds the effective configuration for one conversion:
// defaults (base), refined by the document's front matter, refined by the
// invocation overlay. Later layers win field by field; pdf_options merges
// key by key rather than wholesale, so front matter can set the format and
// a flag can still flip landscape without losing it.
//
// The base is cloned, never mutated, so one Service configuration can back
// any number of conversions. Header and footer inference runs once, after
// all layers: setting either template turns displayHeaderFooter on unless
// some layer set it explicitly.
func MergeLayers(base *Config, frontMatter, invocation *Overlay) *Config {
	cfg := base.Clone()
	cfg.Apply(frontMatter)
	cfg.Apply(invocation)
	inferDisplayHeaderFooter(&cfg.PDFOptions)
	return cfg
}

// Apply folds one overlay into the configuration. A nil overlay is a no-op.
func (c *Config) Apply(o *Overlay) {
	if o == nil {
		return
	}
	if o.Dest != "" {
		c.Dest = o.Dest
	}
	if o.AsHTML != nil {
		c.AsHTML = *o.AsHTML
	}
	if o.Devtools != nil {
		c.Devtools = *o.Devtools
	}
	if len(o.BodyClass) > 0 {
		c.BodyClass = append(StringList(nil), o.BodyClass...)
	}
	if o.CSS != "" {
		c.CSS = o.CSS
	}
	if o.DocumentTitle != "" {
		c.DocumentTitle = o.DocumentTitle
	}
	if o.HighlightStyle != "" {
		c.HighlightStyle = o.HighlightStyle
	}
	if o.MathEngine != "" {
		c.MathEngine = o.MathEngine
	}
	if o.MathEngineOptions != nil {
		c.MathEngineOptions = *o.MathEngineOptions
	}
	if o.MarkedOptions != nil {
		c.MarkedOptions.apply(o.MarkedOptions)
	}
	if o.PDFOptions != nil {
		c.PDFOptions.apply(o.PDFOptions)
	}
	if o.LaunchOptions != nil {
		c.LaunchOptions = *o.LaunchOptions
		c.LaunchOptions.Args = append(StringList(nil), o.LaunchOptions.Args...)
	}
	if len(o.Script) > 0 {
		c.Script = append(StringList(nil), o.Script...)
	}
	if len(o.Stylesheet) > 0 {
		c.Stylesheet = append(StringList(nil), o.Stylesheet...)
	}
	if o.StylesheetEncoding != "" {
		c.StylesheetEncoding = o.StylesheetEncoding
	}
	if o.PageMediaType != "" {
		c.PageMediaType = o.PageMediaType
	}
}

func (m *MarkedOptions) apply(o *MarkedOptions) {
	if o.HardWraps != nil {
		m.HardWraps = o.HardWraps
	}
	if o.XHTML != nil {
		m.XHTML = o.XHTML
	}
	if o.Unsafe != nil {
		m.Unsafe = o.Unsafe
	}
}

// apply merges one pdf_options layer field by field. Pointer fields win
// when non-nil, strings when non-empty, and the margin when any side is
// set; everything else keeps the value from the layers below.
func (p *PDFOptions) apply(o *PDFOptions) {
	if o.Scale != nil {
		p.Scale = o.Scale
	}
	if o.DisplayHeaderFooter != nil {
		p.DisplayHeaderFooter = o.DisplayHeaderFooter
	}
	if o.HeaderTemplate != "" {
		p.HeaderTemplate = o.HeaderTemplate
	}
	if o.FooterTemplate != "" {
		p.FooterTemplate = o.FooterTemplate
	}
	if o.PrintBackground != nil {
		p.PrintBackground = o.PrintBackground
	}
	if o.Landscape != nil {
		p.Landscape = o.Landscape
	}
	if o.PageRanges != "" {
		p.PageRanges = o.PageRanges
	}
	if o.Format != "" {
		p.Format = o.Format
	}
	if o.Width != "" {
		p.Width = o.Width
	}
	if o.Height != "" {
		p.Height = o.Height
	}
	if !o.Margin.isZero() {
		p.Margin = o.Margin
	}
	if o.PreferCSSPageSize != nil {
		p.PreferCSSPageSize = o.PreferCSSPageSize
	}
}

// inferDisplayHeaderFooter turns the header/footer band on when a template
// is present and no layer decided the flag explicitly.
func inferDisplayHeaderFooter(p *PDFOptions) {
	if p.DisplayHeaderFooter != nil {
		return
	}
	if p.HeaderTemplate != "" || p.FooterTemplate != "" {
		p.DisplayHeaderFooter = boolPtr(true)
	}
}
