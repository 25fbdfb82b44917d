package mathext

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// dollarParser recognizes $...$ and $$...$$ spans within a single line.
type dollarParser struct {
	inline bool
	block  bool
}

var _ parser.InlineParser = (*dollarParser)(nil)

func (p *dollarParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *dollarParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	if len(line) < 3 || line[0] != '$' {
		return nil
	}

	if line[1] == '$' {
		return p.parseDisplay(line, seg, block)
	}
	return p.parseInline(line, seg, block)
}

// parseInline handles $...$. The opener must not be followed by whitespace
// and the closer must not be preceded by it, so "$5 and $6" stays text.
func (p *dollarParser) parseInline(line []byte, seg text.Segment, block text.Reader) ast.Node {
	if !p.inline {
		return nil
	}
	if util.IsSpace(line[1]) {
		return nil
	}

	end := -1
	for i := 2; i < len(line); i++ {
		if line[i] == '$' && line[i-1] != '\\' {
			end = i
			break
		}
	}
	if end < 0 || util.IsSpace(line[end-1]) {
		return nil
	}

	node := &Inline{Segment: text.NewSegment(seg.Start+1, seg.Start+end)}
	block.Advance(end + 1)
	return node
}

// parseDisplay handles $$...$$ pairs on one line.
func (p *dollarParser) parseDisplay(line []byte, seg text.Segment, block text.Reader) ast.Node {
	if !p.block {
		return nil
	}

	end := bytes.Index(line[2:], []byte("$$"))
	if end < 0 {
		return nil
	}
	end += 2 // index of the closing "$$" in line
	if end == 2 {
		return nil // "$$$$" has no content
	}

	node := &Inline{
		Segment: text.NewSegment(seg.Start+2, seg.Start+end),
		Display: true,
	}
	block.Advance(end + 2)
	return node
}

// fencedTransformer replaces fenced code blocks with the "math" language
// by math block nodes, so their content is typeset instead of highlighted.
type fencedTransformer struct{}

var _ parser.ASTTransformer = fencedTransformer{}

var mathLanguage = []byte("math")

func (fencedTransformer) Transform(document *ast.Document, reader text.Reader, _ parser.Context) {
	var fenced []ast.Node
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		cb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !bytes.Equal(cb.Language(reader.Source()), mathLanguage) {
			return ast.WalkContinue, nil
		}
		fenced = append(fenced, cb)
		return ast.WalkContinue, nil
	})

	for _, node := range fenced {
		parent := node.Parent()
		if parent == nil {
			continue
		}
		replacement := &Block{}
		replacement.SetLines(node.Lines())
		parent.ReplaceChild(parent, node, replacement)
	}
}
