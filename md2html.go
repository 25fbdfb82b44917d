package mdforge

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlConverter abstracts Markdown to HTML conversion.
type htmlConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// goldmarkConverter converts Markdown to an HTML fragment using goldmark
// (pure Go). The extension set and renderer options come from the merged
// configuration, so each conversion gets its own converter.
type goldmarkConverter struct {
	md goldmark.Markdown
}

// newGoldmarkConverter builds a converter from the merged configuration.
func newGoldmarkConverter(cfg *Config) *goldmarkConverter {
	opts := []goldmark.Option{
		goldmark.WithExtensions(goldmarkExtenders(cfg.Extensions)...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // stable anchors for intra-document links
		),
	}

	var rendererOpts []renderer.Option
	if boolValue(cfg.MarkedOptions.HardWraps, true) {
		rendererOpts = append(rendererOpts, html.WithHardWraps()) // newlines become <br>
	}
	if boolValue(cfg.MarkedOptions.XHTML, true) {
		rendererOpts = append(rendererOpts, html.WithXHTML()) // self-closing tags
	}
	if boolValue(cfg.MarkedOptions.Unsafe, false) {
		rendererOpts = append(rendererOpts, html.WithUnsafe()) // raw HTML passthrough
	}
	if len(rendererOpts) > 0 {
		opts = append(opts, goldmark.WithRendererOptions(rendererOpts...))
	}

	return &goldmarkConverter{md: goldmark.New(opts...)}
}

// ToHTML converts Markdown content to an HTML fragment. Supports context
// cancellation via goroutine + select pattern since goldmark doesn't
// natively support context.
func (c *goldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
