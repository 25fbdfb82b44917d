package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	mdforge "github.com/mdforge/mdforge"
	"github.com/mdforge/mdforge/internal/yamlutil"
)

// cliFlags holds every flag of the command. Structured options
// (--pdf-options and friends) arrive as JSON or YAML strings and are
// decoded into the overlay types.
type cliFlags struct {
	config             string
	dest               string
	asHTML             bool
	devtools           bool
	bodyClass          []string
	css                string
	documentTitle      string
	highlightStyle     string
	mathEngine         string
	mathEngineOptions  string
	markedOptions      string
	pdfOptions         string
	launchOptions      string
	script             []string
	stylesheet         []string
	stylesheetEncoding string
	pageMediaType      string

	workers int
	timeout string
	quiet   bool
	verbose bool
	version bool

	// fs retains the parsed set for Changed lookups.
	fs *flag.FlagSet
}

// parseFlags parses the command line and returns the flags plus the
// positional arguments (markdown files).
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("mdforge", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file path (YAML)")
	fs.StringVar(&f.dest, "dest", "", "output file path (\"stdout\" writes to standard output)")
	fs.BoolVar(&f.asHTML, "as-html", false, "output HTML instead of PDF")
	fs.BoolVar(&f.devtools, "devtools", false, "open the document in a browser with devtools instead of rendering")
	fs.StringArrayVar(&f.bodyClass, "body-class", nil, "class to add to the document body (repeatable)")
	fs.StringVar(&f.css, "css", "", "inline CSS to inject into the document")
	fs.StringVar(&f.documentTitle, "document-title", "", "document title (default: first heading)")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "code highlight style name")
	fs.StringVar(&f.mathEngine, "math-engine", "", "math rendering engine (\"katex\")")
	fs.StringVar(&f.mathEngineOptions, "math-engine-options", "", "math engine options (JSON or YAML)")
	fs.StringVar(&f.markedOptions, "marked-options", "", "markdown renderer options (JSON or YAML)")
	fs.StringVar(&f.pdfOptions, "pdf-options", "", "PDF print options (JSON or YAML)")
	fs.StringVar(&f.launchOptions, "launch-options", "", "browser launch options (JSON or YAML)")
	fs.StringArrayVar(&f.script, "script", nil, "script path or URL to inject (repeatable)")
	fs.StringArrayVar(&f.stylesheet, "stylesheet", nil, "stylesheet path or URL to inject (repeatable)")
	fs.StringVar(&f.stylesheetEncoding, "stylesheet-encoding", "", "encoding of local stylesheets")
	fs.StringVar(&f.pageMediaType, "page-media-type", "", "CSS media type to emulate: screen, print")

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document render timeout (e.g., 30s, 2m)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-document progress")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(os.Stderr, fs) }

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}

	f.fs = fs
	return f, fs.Args(), nil
}

// buildOverlay converts the explicitly set flags into a merge overlay.
// Only flags the user actually passed make it into the overlay, so CLI
// values override front matter without clobbering it with zero values.
func (f *cliFlags) buildOverlay() (*mdforge.Overlay, error) {
	o := &mdforge.Overlay{}

	if f.fs.Changed("dest") {
		o.Dest = f.dest
	}
	if f.fs.Changed("as-html") {
		o.AsHTML = &f.asHTML
	}
	if f.fs.Changed("devtools") {
		o.Devtools = &f.devtools
	}
	if f.fs.Changed("body-class") {
		o.BodyClass = f.bodyClass
	}
	if f.fs.Changed("css") {
		o.CSS = f.css
	}
	if f.fs.Changed("document-title") {
		o.DocumentTitle = f.documentTitle
	}
	if f.fs.Changed("highlight-style") {
		o.HighlightStyle = f.highlightStyle
	}
	if f.fs.Changed("math-engine") {
		o.MathEngine = f.mathEngine
	}
	if f.fs.Changed("script") {
		o.Script = f.script
	}
	if f.fs.Changed("stylesheet") {
		o.Stylesheet = f.stylesheet
	}
	if f.fs.Changed("stylesheet-encoding") {
		o.StylesheetEncoding = f.stylesheetEncoding
	}
	if f.fs.Changed("page-media-type") {
		o.PageMediaType = f.pageMediaType
	}

	if err := decodeStructured(f.mathEngineOptions, "--math-engine-options", &o.MathEngineOptions); err != nil {
		return nil, err
	}
	if err := decodeStructured(f.markedOptions, "--marked-options", &o.MarkedOptions); err != nil {
		return nil, err
	}
	if err := decodeStructured(f.pdfOptions, "--pdf-options", &o.PDFOptions); err != nil {
		return nil, err
	}
	if err := decodeStructured(f.launchOptions, "--launch-options", &o.LaunchOptions); err != nil {
		return nil, err
	}

	return o, nil
}

// decodeStructured decodes a JSON-or-YAML flag value into dst, which is a
// pointer to one of the overlay's option pointers. JSON is a subset of
// YAML, so one decoder covers both syntaxes.
func decodeStructured[T any](value, name string, dst **T) error {
	if value == "" {
		return nil
	}
	v := new(T)
	if err := yamlutil.Unmarshal([]byte(value), v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFlagValue, name, err)
	}
	*dst = v
	return nil
}
