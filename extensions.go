package mdforge

import (
	"slices"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// Capability names a feature an extension descriptor provides. The
// activator uses capabilities rather than extension names to decide
// whether math support is already wired in, so a caller-supplied
// extension that handles inline math suppresses the built-in one.
const (
	CapabilityInlineMath = "inline-math"
	CapabilityBlockMath  = "block-math"
)

// Extension pairs a goldmark extender with a name and the capabilities it
// provides. The descriptor list is ordered; extenders are applied in list
// order when the converter is built.
type Extension struct {
	Name     string
	Provides []string
	Extender goldmark.Extender
}

func (e Extension) provides(capability string) bool {
	return slices.Contains(e.Provides, capability)
}

// hasMathExtension reports whether any descriptor in the list already
// provides inline math rendering.
func hasMathExtension(exts []Extension) bool {
	for _, e := range exts {
		if e.provides(CapabilityInlineMath) {
			return true
		}
	}
	return false
}

// defaultExtensions returns the built-in markdown extension set: GFM,
// footnotes, and class-based syntax highlighting (classes keep the HTML
// small and let the highlight stylesheet control the colors).
func defaultExtensions() []Extension {
	return []Extension{
		{Name: "gfm", Extender: extension.GFM},
		{Name: "footnote", Extender: extension.Footnote},
		{
			Name: "highlighting",
			Extender: highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		},
	}
}

// goldmarkExtenders projects the descriptor list onto the extenders
// goldmark consumes.
func goldmarkExtenders(exts []Extension) []goldmark.Extender {
	out := make([]goldmark.Extender, 0, len(exts))
	for _, e := range exts {
		out = append(out, e.Extender)
	}
	return out
}
