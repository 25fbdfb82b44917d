package mathext

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// KindInline identifies inline and display math parsed from dollar
// delimiters.
var KindInline = ast.NewNodeKind("MathInline")

// KindBlock identifies math lifted out of a fenced code block.
var KindBlock = ast.NewNodeKind("MathBlock")

// Inline holds a span of TeX source. Display is true for $$...$$ spans,
// which render as display math.
type Inline struct {
	ast.BaseInline
	Segment text.Segment
	Display bool
}

// Kind implements ast.Node.
func (n *Inline) Kind() ast.NodeKind { return KindInline }

// Dump implements ast.Node.
func (n *Inline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// Block holds the lines of a fenced math block.
type Block struct {
	ast.BaseBlock
}

// Kind implements ast.Node.
func (n *Block) Kind() ast.NodeKind { return KindBlock }

// Dump implements ast.Node.
func (n *Block) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}
