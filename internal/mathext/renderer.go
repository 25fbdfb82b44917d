package mathext

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// nodeRenderer writes math nodes as classed spans and divs wrapping the
// escaped TeX source.
type nodeRenderer struct {
	inlineClass  string
	displayClass string
}

var _ renderer.NodeRenderer = (*nodeRenderer)(nil)

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInline, r.renderInline)
	reg.Register(KindBlock, r.renderBlock)
}

func (r *nodeRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Inline)
	tex := n.Segment.Value(source)

	if n.Display {
		_, _ = w.WriteString(`<div class="` + r.displayClass + `">\[`)
		_, _ = w.Write(util.EscapeHTML(tex))
		_, _ = w.WriteString(`\]</div>`)
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<span class="` + r.inlineClass + `">\(`)
	_, _ = w.Write(util.EscapeHTML(tex))
	_, _ = w.WriteString(`\)</span>`)
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Block)

	_, _ = w.WriteString(`<div class="` + r.displayClass + `">\[`)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	_, _ = w.WriteString(`\]</div>`)
	return ast.WalkContinue, nil
}
