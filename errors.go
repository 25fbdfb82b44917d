package mdforge

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyInput     = errors.New("input must provide a path or markdown content")
	ErrReadInput      = errors.New("failed to read input file")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// ErrNoDestination indicates a conversion finished with neither a
	// destination nor content, which leaves nothing to hand back.
	ErrNoDestination = errors.New("no output destination and no content produced")

	// ErrIncompatibleDevtools rejects HTML output in devtools mode, which
	// intentionally produces no artifact.
	ErrIncompatibleDevtools = errors.New("as_html is incompatible with devtools mode")

	// Configuration validation errors.
	ErrInvalidMargin         = errors.New("invalid margin value")
	ErrInvalidLength         = errors.New("invalid length value")
	ErrUnknownFormat         = errors.New("unknown paper format")
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
	ErrUnsupportedEncoding   = errors.New("unsupported stylesheet encoding")

	// Asset injection errors.
	ErrReadStylesheet = errors.New("failed to read stylesheet")
	ErrReadScript     = errors.New("failed to read script")
)
