// Package mathext provides a goldmark extension that recognizes TeX math
// in markdown and emits KaTeX-classed markup for the document stylesheet
// to typeset.
//
// Three notations are supported, each individually switchable:
//
//   - inline dollars:  $x^2$
//   - display dollars: $$x^2$$ (opening and closing pair on one line)
//   - fenced blocks:   ```math ... ```
//
// The raw TeX is HTML-escaped and wrapped in \( \) or \[ \] delimiters
// inside a classed span or div; no typesetting happens at conversion time.
package mathext

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Default CSS classes applied to the generated markup.
const (
	DefaultInlineClass  = "katex-inline"
	DefaultDisplayClass = "katex-display"
)

// Options configures which math notations are recognized and how the
// generated markup is classed.
type Options struct {
	InlineDollar bool // recognize $...$
	BlockDollar  bool // recognize $$...$$ on a single line
	FencedBlocks bool // recognize ```math fenced code blocks
	InlineClass  string
	DisplayClass string
}

// DefaultOptions enables every notation with the default classes.
func DefaultOptions() Options {
	return Options{
		InlineDollar: true,
		BlockDollar:  true,
		FencedBlocks: true,
		InlineClass:  DefaultInlineClass,
		DisplayClass: DefaultDisplayClass,
	}
}

type extension struct {
	opts Options
}

// New creates a math extension with the given options. Zero-valued class
// names fall back to the defaults.
func New(opts Options) goldmark.Extender {
	if opts.InlineClass == "" {
		opts.InlineClass = DefaultInlineClass
	}
	if opts.DisplayClass == "" {
		opts.DisplayClass = DefaultDisplayClass
	}
	return &extension{opts: opts}
}

// Extend wires the parsers and renderer into the goldmark instance.
func (e *extension) Extend(m goldmark.Markdown) {
	if e.opts.InlineDollar || e.opts.BlockDollar {
		m.Parser().AddOptions(parser.WithInlineParsers(
			util.Prioritized(&dollarParser{
				inline: e.opts.InlineDollar,
				block:  e.opts.BlockDollar,
			}, 501),
		))
	}
	if e.opts.FencedBlocks {
		m.Parser().AddOptions(parser.WithASTTransformers(
			util.Prioritized(fencedTransformer{}, 100),
		))
	}
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&nodeRenderer{
			inlineClass:  e.opts.InlineClass,
			displayClass: e.opts.DisplayClass,
		}, 501),
	))
}
