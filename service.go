package mdforge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mdforge/mdforge/internal/frontmatter"
)

// Input identifies one document to convert. Either Path or Content must be
// set; when both are set, Content wins and Path only provides the base
// directory and the derived destination. Overlay carries per-call options
// that outrank the document's front matter.
type Input struct {
	Path    string
	Content string
	Overlay *Overlay
}

// Output is the produced artifact. Filename is the resolved destination
// (possibly DestStdout); Content is empty in devtools mode, where the open
// browser is the result.
type Output struct {
	Filename string
	Content  []byte
}

// Service orchestrates the markdown conversion pipeline. One Service holds
// one browser; run parallel conversions through a ServicePool.
type Service struct {
	cfg      serviceConfig
	base     *Config
	renderer documentRenderer
	logw     io.Writer
}

// Option customizes a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout time.Duration
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets how long a single render may take.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithBaseConfig sets the bottom merge layer, typically loaded from a
// config file. The Service clones it per conversion and never mutates it.
func WithBaseConfig(cfg *Config) Option {
	return func(s *Service) {
		s.base = cfg
	}
}

// WithLogWriter directs recoverable-problem warnings (such as unparseable
// front matter) to w. Defaults to stderr.
func WithLogWriter(w io.Writer) Option {
	return func(s *Service) {
		s.logw = w
	}
}

// withRenderer injects a renderer; used by tests to avoid a real browser.
func withRenderer(r documentRenderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

// New creates a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:  serviceConfig{timeout: defaultTimeout},
		base: DefaultConfig(),
		logw: os.Stderr,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.renderer == nil {
		s.renderer = newRodRenderer(s.cfg.timeout)
	}

	return s
}

// Convert runs the full pipeline for one document: read, split front
// matter, merge configuration layers, convert to HTML, compose the
// document, and render. The context bounds the whole conversion.
func (s *Service) Convert(ctx context.Context, input Input) (*Output, error) {
	if input.Path == "" && input.Content == "" {
		return nil, ErrEmptyInput
	}

	source := input.Content
	if source == "" {
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		source = string(data)
	}

	// Front matter failures are recoverable: warn and convert the whole
	// document as markdown.
	fmOverlay := &Overlay{}
	body, found, err := frontmatter.Extract([]byte(source), fmOverlay)
	if err != nil {
		fmt.Fprintf(s.logw, "warning: ignoring front matter of %s: %v\n", inputName(input), err)
		body = []byte(source)
		fmOverlay = nil
	} else if !found {
		fmOverlay = nil
	}

	cfg := MergeLayers(s.base, fmOverlay, input.Overlay)

	if cfg.Devtools && cfg.AsHTML {
		return nil, ErrIncompatibleDevtools
	}
	if err := ensureMathSupport(cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	resolveOutput(cfg, input)
	if cfg.Dest == "" {
		return nil, ErrNoDestination
	}

	converter := newGoldmarkConverter(cfg)
	fragment, err := converter.ToHTML(ctx, string(body))
	if err != nil {
		return nil, err
	}

	title := cfg.DocumentTitle
	if title == "" {
		title = extractTitle(fragment)
	}

	doc, err := composeDocument(cfg, fragment, inputBasedir(input), title)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Devtools:
		if err := s.renderer.Inspect(ctx, doc, cfg); err != nil {
			return nil, err
		}
		return &Output{Filename: cfg.Dest}, nil
	case cfg.AsHTML:
		return &Output{Filename: cfg.Dest, Content: []byte(doc)}, nil
	default:
		pdf, err := s.renderer.RenderPDF(ctx, doc, cfg)
		if err != nil {
			return nil, err
		}
		return &Output{Filename: cfg.Dest, Content: pdf}, nil
	}
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}

// IsRecoverable reports whether an error from Convert concerns only the
// one document, so a batch run can continue with the rest.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrHTMLConversion) ||
		errors.Is(err, ErrInvalidMargin) ||
		errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrUnknownHighlightStyle)
}

func inputName(in Input) string {
	if in.Path != "" {
		return in.Path
	}
	return "<content>"
}

func inputBasedir(in Input) string {
	if in.Path == "" {
		return ""
	}
	return filepath.Dir(in.Path)
}

// headingText matches the first h1 in rendered HTML.
var headingText = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// extractTitle derives a document title from the first top-level heading.
func extractTitle(fragment string) string {
	m := headingText.FindStringSubmatch(fragment)
	if m == nil {
		return "Document"
	}
	title := strings.TrimSpace(tagPattern.ReplaceAllString(m[1], ""))
	if title == "" {
		return "Document"
	}
	return title
}
