package mdforge

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/mdforge/mdforge/internal/fileutil"
)

// documentRenderer abstracts the browser backend so the pipeline can be
// tested without Chrome.
type documentRenderer interface {
	// RenderPDF prints an HTML document to PDF bytes.
	RenderPDF(ctx context.Context, htmlContent string, cfg *Config) ([]byte, error)
	// Inspect opens the document in a visible browser with devtools and
	// blocks until the context is done.
	Inspect(ctx context.Context, htmlContent string, cfg *Config) error
	Close() error
}

// Compile-time interface check
var _ documentRenderer = (*rodRenderer)(nil)

// rodRenderer implements documentRenderer using go-rod. Rod automatically
// downloads Chromium on first run if no browser binary is configured.
type rodRenderer struct {
	browser *rod.Browser
	timeout time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser. The launch
// options of the first conversion hold for the lifetime of the renderer;
// conversions sharing a Service share one browser.
func (r *rodRenderer) ensureBrowser(launch LaunchOptions) error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if launch.Bin != "" {
		l = l.Bin(launch.Bin)
	}
	// NoSandbox required for CI and containerized environments
	if launch.NoSandbox || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}
	for _, arg := range launch.Args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if hasValue {
			l = l.Set(flags.Flag(name), value)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// RenderPDF writes the document to a temp file, opens it in headless
// Chrome, and prints it with the configured page options.
func (r *rodRenderer) RenderPDF(ctx context.Context, htmlContent string, cfg *Config) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(cfg.LaunchOptions); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := r.openPage(ctx, r.browser, tmpPath, cfg.PageMediaType)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	printOpts, err := buildPrintOptions(&cfg.PDFOptions)
	if err != nil {
		return nil, err
	}

	reader, err := page.PDF(printOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// Inspect opens the document in a visible browser with devtools enabled
// and keeps it open until the context is canceled. No artifact is
// produced; the browser is the output.
func (r *rodRenderer) Inspect(ctx context.Context, htmlContent string, cfg *Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l := launcher.New().Headless(false).Devtools(true)
	if cfg.LaunchOptions.Bin != "" {
		l = l.Bin(cfg.LaunchOptions.Bin)
	}
	if cfg.LaunchOptions.NoSandbox || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	defer browser.Close()

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := r.openPage(ctx, browser, tmpPath, cfg.PageMediaType); err != nil {
		return err
	}

	<-ctx.Done()
	if ctx.Err() == context.Canceled {
		return nil
	}
	return ctx.Err()
}

// openPage loads a local HTML file and waits for it to finish loading,
// emulating the configured media type so print or screen styles apply.
func (r *rodRenderer) openPage(ctx context.Context, browser *rod.Browser, filePath, mediaType string) (*rod.Page, error) {
	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	if mediaType != "" {
		emulate := &proto.EmulationSetEmulatedMedia{Media: mediaType}
		if err := emulate.Call(page); err != nil {
			page.Close()
			return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		page.Close()
		return nil, err
	}
	return page, nil
}

// buildPrintOptions maps the merged pdf_options onto Chrome's print call.
// Paper dimensions come from the named format unless an explicit width or
// height overrides them; all lengths are converted to inches.
func buildPrintOptions(p *PDFOptions) (*proto.PagePrintToPDF, error) {
	opts := &proto.PagePrintToPDF{
		PrintBackground: boolValue(p.PrintBackground, false),
		Landscape:       boolValue(p.Landscape, false),
	}

	if p.Scale != nil {
		opts.Scale = p.Scale
	}
	if p.PageRanges != "" {
		opts.PageRanges = p.PageRanges
	}
	if p.PreferCSSPageSize != nil {
		opts.PreferCSSPageSize = *p.PreferCSSPageSize
	}

	if p.Format != "" && p.Width == "" && p.Height == "" {
		size, ok := paperFormats[strings.ToLower(p.Format)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, p.Format)
		}
		opts.PaperWidth = floatPtr(size.width)
		opts.PaperHeight = floatPtr(size.height)
	}
	if p.Width != "" {
		w, err := parseLength(p.Width)
		if err != nil {
			return nil, err
		}
		opts.PaperWidth = floatPtr(w)
	}
	if p.Height != "" {
		h, err := parseLength(p.Height)
		if err != nil {
			return nil, err
		}
		opts.PaperHeight = floatPtr(h)
	}

	for _, side := range []struct {
		value string
		dst   **float64
	}{
		{p.Margin.Top, &opts.MarginTop},
		{p.Margin.Right, &opts.MarginRight},
		{p.Margin.Bottom, &opts.MarginBottom},
		{p.Margin.Left, &opts.MarginLeft},
	} {
		if side.value == "" {
			continue
		}
		v, err := parseLength(side.value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMargin, err)
		}
		*side.dst = floatPtr(v)
	}

	if boolValue(p.DisplayHeaderFooter, false) {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = headerFooterTemplate(p.HeaderTemplate)
		opts.FooterTemplate = headerFooterTemplate(p.FooterTemplate)
	}

	return opts, nil
}

// headerFooterTemplate substitutes an empty span for a missing template;
// Chrome renders its default header otherwise.
func headerFooterTemplate(tmpl string) string {
	if tmpl == "" {
		return "<span></span>"
	}
	return tmpl
}
